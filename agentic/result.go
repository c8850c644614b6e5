package agentic

import "github.com/spartacus-ai/spartacus/llm"

// RunResult is the observable outcome of one loop invocation.
type RunResult struct {
	// FinalText is the answer supplied by the final_answer sentinel, the
	// model's free-text reply, or the iteration-exhaustion advisory.
	FinalText string `json:"final_text"`

	// ToolsExecuted lists the tools actually run, in execution order. The
	// final_answer sentinel and unresolvable tool names are excluded.
	ToolsExecuted []string `json:"tools_executed"`

	// IterationCount is the number of LLM round trips performed.
	IterationCount int `json:"iteration_count"`

	// TerminatedNormally is true when a final answer or free-text reply
	// ended the run, false when the iteration budget ran out.
	TerminatedNormally bool `json:"terminated_normally"`

	// Usage aggregates token consumption across all round trips.
	Usage llm.Usage `json:"usage"`
}
