// Package agentic implements the agent execution loop and its tool contract.
//
// The loop drives an LLM through a reason/act cycle: it sends the
// conversation plus the registry's tool schemas to the model with forced
// tool use, executes the returned tool calls sequentially in order, appends
// the results to the conversation, and repeats until the model invokes the
// final_answer sentinel, returns free text, or the iteration budget runs
// out.
//
// Tools are declared as Definitions with a JSON Schema for their arguments
// and one of three calling conventions: plain (arguments only), context
// (arguments plus the whole Context), or field injection (arguments plus
// named Context fields). Field-injection declarations are checked against
// the handler's parameter list once, at registry construction.
package agentic
