package agentic

import (
	"time"

	"github.com/spartacus-ai/spartacus/llm"
)

// Turn is one entry in the conversation log. Assistant turns carrying tool
// calls have Content nil: the chat-completions protocol disallows prose and
// tool calls in the same message.
type Turn struct {
	Role       llm.Role       `json:"role"`
	Content    *string        `json:"content"`
	ToolCalls  []llm.ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

// Text returns the turn's content, or "" when content is null.
func (t Turn) Text() string {
	if t.Content == nil {
		return ""
	}
	return *t.Content
}

// UserTurn creates a user turn.
func UserTurn(text string) Turn {
	return Turn{Role: llm.RoleUser, Content: &text, Timestamp: time.Now()}
}

// AssistantTurn creates an assistant turn with text content.
func AssistantTurn(text string) Turn {
	return Turn{Role: llm.RoleAssistant, Content: &text, Timestamp: time.Now()}
}

// AssistantToolCallTurn creates an assistant turn carrying tool calls.
// Content is null per the protocol normalization rule.
func AssistantToolCallTurn(calls []llm.ToolCall) Turn {
	return Turn{Role: llm.RoleAssistant, Content: nil, ToolCalls: calls, Timestamp: time.Now()}
}

// ToolResultTurn creates a tool-result turn answering the given call id.
func ToolResultTurn(toolCallID, content string) Turn {
	return Turn{Role: llm.RoleTool, Content: &content, ToolCallID: toolCallID, Timestamp: time.Now()}
}

// turnsToMessages converts the conversation log into outbound chat messages.
func turnsToMessages(turns []Turn) []llm.Message {
	messages := make([]llm.Message, 0, len(turns))
	for _, t := range turns {
		messages = append(messages, llm.Message{
			Role:       t.Role,
			Content:    t.Content,
			ToolCalls:  t.ToolCalls,
			ToolCallID: t.ToolCallID,
		})
	}
	return messages
}
