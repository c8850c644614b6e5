package agentic

import (
	"encoding/json"
	"testing"

	"github.com/spartacus-ai/spartacus/llm"
)

func callTurn(name, args string) Turn {
	return AssistantToolCallTurn([]llm.ToolCall{
		{ID: "c", Name: name, Arguments: json.RawMessage(args)},
	})
}

func TestDetectLoopRepeatingSingleCall(t *testing.T) {
	var turns []Turn
	for i := 0; i < 6; i++ {
		turns = append(turns, callTurn("web_search", `{"query":"same"}`))
	}
	if !DetectLoop(turns, 6) {
		t.Error("identical repeated calls should be detected")
	}
}

func TestDetectLoopAlternatingPair(t *testing.T) {
	var turns []Turn
	for i := 0; i < 3; i++ {
		turns = append(turns, callTurn("a", `{}`), callTurn("b", `{}`))
	}
	if !DetectLoop(turns, 6) {
		t.Error("alternating pair should be detected")
	}
}

func TestDetectLoopVariedCalls(t *testing.T) {
	turns := []Turn{
		callTurn("a", `{"q":1}`),
		callTurn("a", `{"q":2}`),
		callTurn("b", `{"q":3}`),
		callTurn("c", `{"q":4}`),
		callTurn("a", `{"q":5}`),
		callTurn("b", `{"q":6}`),
	}
	if DetectLoop(turns, 6) {
		t.Error("varied arguments must not trigger detection")
	}
}

func TestDetectLoopInsufficientHistory(t *testing.T) {
	turns := []Turn{callTurn("a", `{}`), callTurn("a", `{}`)}
	if DetectLoop(turns, 6) {
		t.Error("short history must not trigger detection")
	}
}
