package tools

import (
	"context"
	"encoding/json"

	"github.com/spartacus-ai/spartacus/agentic"
)

// PythonExecutor returns a tool that runs a Python snippet through the
// runner and reports stdout, stderr and the exit code.
func PythonExecutor(runner *Runner) *agentic.Definition {
	return &agentic.Definition{
		Name:        "python_executor",
		Description: "Execute Python code and return its output",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"code": {
					"type": "string",
					"description": "Python source to execute"
				},
				"timeout_ms": {
					"type": "integer",
					"description": "Execution timeout in milliseconds"
				}
			},
			"required": ["code"]
		}`),
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			code, _ := args["code"].(string)
			timeoutMs := 0
			if v, ok := args["timeout_ms"].(float64); ok {
				timeoutMs = int(v)
			}

			result, err := runner.Exec(ctx, "python3", []string{"-c", code}, timeoutMs)
			if err != nil {
				return nil, err
			}
			if result.TimedOut {
				return map[string]any{
					"timed_out": true,
					"output":    result.Output(),
				}, nil
			}
			return map[string]any{
				"exit_code": result.ExitCode,
				"stdout":    result.Stdout,
				"stderr":    result.Stderr,
			}, nil
		},
	}
}
