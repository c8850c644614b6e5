package tools

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/spartacus-ai/spartacus/agentic"
)

// SearchResult is one web search hit.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
}

// Searcher is the backend behind the web_search tool. Implementations wrap
// whichever search provider the host application uses.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]SearchResult, error)
}

// ErrSearchNotConfigured is returned by the stub searcher.
var ErrSearchNotConfigured = errors.New("web search is not configured")

type stubSearcher struct{}

func (stubSearcher) Search(context.Context, string, int) ([]SearchResult, error) {
	return nil, ErrSearchNotConfigured
}

// WebSearch returns a tool backed by the given searcher. A nil searcher
// installs a stub that reports the tool as unconfigured, which the loop
// surfaces as a model-visible error turn.
func WebSearch(searcher Searcher) *agentic.Definition {
	if searcher == nil {
		searcher = stubSearcher{}
	}
	return &agentic.Definition{
		Name:        "web_search",
		Description: "Search the web and return matching results",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"query": {
					"type": "string",
					"description": "Search query"
				},
				"max_results": {
					"type": "integer",
					"description": "Maximum number of results to return"
				}
			},
			"required": ["query"]
		}`),
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			query, _ := args["query"].(string)
			maxResults := intArg(args, "max_results")
			if maxResults <= 0 {
				maxResults = 5
			}

			results, err := searcher.Search(ctx, query, maxResults)
			if err != nil {
				return nil, err
			}
			return map[string]any{
				"query":   query,
				"results": results,
			}, nil
		},
	}
}
