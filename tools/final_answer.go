package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spartacus-ai/spartacus/agentic"
)

// FinalAnswer returns the sentinel tool definition. The loop terminates on
// this tool name before the handler runs; the definition exists so the
// model sees its schema, and so a direct Invoke still behaves sensibly.
func FinalAnswer() *agentic.Definition {
	return &agentic.Definition{
		Name:        agentic.FinalAnswerToolName,
		Description: "Provide a final answer to the user and complete the task",
		Parameters: json.RawMessage(`{
			"type": "object",
			"properties": {
				"answer": {
					"type": "string",
					"description": "The final answer to provide to the user"
				}
			},
			"required": ["answer"]
		}`),
		Handler: func(ctx context.Context, args map[string]any) (any, error) {
			answer, _ := args["answer"].(string)
			return fmt.Sprintf("Final answer provided: %s", answer), nil
		},
	}
}
