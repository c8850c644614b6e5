package tools

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/spartacus-ai/spartacus/agentic"
)

// SearchProducts returns a tool that matches the conversation's product
// list against a query. It uses the field-injection convention: the handler
// receives only the index name and product list, never the whole Context.
// After execution, the matched products are recorded in the Context's
// metadata for later tools.
func SearchProducts() *agentic.Definition {
	return &agentic.Definition{
		Name:        "search_products",
		Description: "Search the session's product index for matching products",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"query": {
					"type": "string",
					"description": "Product name or fragment to match"
				}
			},
			"required": ["query"]
		}`),
		NeedsContext:   true,
		InjectedFields: []string{agentic.FieldIndexName, agentic.FieldProducts},
		HandlerParams:  []string{agentic.FieldIndexName, agentic.FieldProducts},
		InjectedHandler: func(ctx context.Context, fields map[string]any, args map[string]any) (any, error) {
			query, _ := args["query"].(string)
			indexName, _ := fields[agentic.FieldIndexName].(string)
			products, _ := fields[agentic.FieldProducts].([]string)

			var matches []string
			needle := strings.ToLower(query)
			for _, p := range products {
				if strings.Contains(strings.ToLower(p), needle) {
					matches = append(matches, p)
				}
			}

			return map[string]any{
				"index":   indexName,
				"query":   query,
				"matches": matches,
			}, nil
		},
		ContextUpdate: func(conv *agentic.Context, result any) {
			if m, ok := result.(map[string]any); ok {
				conv.SetMeta("last_product_matches", m["matches"])
			}
		},
	}
}
