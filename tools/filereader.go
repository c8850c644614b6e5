package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spartacus-ai/spartacus/agentic"
)

// FileReader returns a tool that reads files under root, with optional
// 1-based line offset and limit. Paths resolving outside root are refused.
func FileReader(root string) *agentic.Definition {
	return &agentic.Definition{
		Name:        "file_reader",
		Description: "Read a text file, optionally a specific line range",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"path": {
					"type": "string",
					"description": "File path, relative to the workspace root"
				},
				"offset": {
					"type": "integer",
					"description": "1-based line number to start from"
				},
				"limit": {
					"type": "integer",
					"description": "Maximum number of lines to return"
				}
			},
			"required": ["path"]
		}`),
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			path, _ := args["path"].(string)
			offset := intArg(args, "offset")
			limit := intArg(args, "limit")

			resolved, err := resolveWithin(root, path)
			if err != nil {
				return nil, err
			}

			data, err := os.ReadFile(resolved)
			if err != nil {
				return nil, fmt.Errorf("file_reader: %w", err)
			}

			lines := strings.Split(string(data), "\n")
			start := 0
			if offset > 0 {
				start = offset - 1
			}
			if start >= len(lines) {
				return "", nil
			}
			end := len(lines)
			if limit > 0 && start+limit < end {
				end = start + limit
			}

			var sb strings.Builder
			for i := start; i < end; i++ {
				fmt.Fprintf(&sb, "%d | %s\n", i+1, lines[i])
			}
			return sb.String(), nil
		},
	}
}

func intArg(args map[string]any, key string) int {
	if v, ok := args[key].(float64); ok {
		return int(v)
	}
	return 0
}

// resolveWithin joins path onto root and verifies the result stays inside
// root.
func resolveWithin(root, path string) (string, error) {
	if root == "" {
		root, _ = os.Getwd()
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("file_reader: %w", err)
	}

	candidate := path
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(absRoot, candidate)
	}
	candidate = filepath.Clean(candidate)

	if candidate != absRoot && !strings.HasPrefix(candidate, absRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("file_reader: path %q is outside the workspace root", path)
	}
	return candidate, nil
}
