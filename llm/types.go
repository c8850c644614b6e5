package llm

import (
	"encoding/json"
)

// Role identifies who produced a message in a conversation.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Message is one entry in a chat-completion request, in the flat
// chat-completions shape: text content plus optional tool-call directives
// (assistant messages) or a tool_call_id back-reference (tool messages).
//
// Content is a pointer because the protocol requires it to be null on
// assistant messages that carry tool calls.
type Message struct {
	Role       Role       `json:"role"`
	Content    *string    `json:"content"`
	Name       string     `json:"name,omitempty"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// Text returns the message content, or "" when content is null.
func (m Message) Text() string {
	if m.Content == nil {
		return ""
	}
	return *m.Content
}

// SystemMessage creates a system Message.
func SystemMessage(text string) Message {
	return Message{Role: RoleSystem, Content: &text}
}

// UserMessage creates a user Message.
func UserMessage(text string) Message {
	return Message{Role: RoleUser, Content: &text}
}

// AssistantMessage creates an assistant Message with text content.
func AssistantMessage(text string) Message {
	return Message{Role: RoleAssistant, Content: &text}
}

// AssistantToolCallMessage creates an assistant Message carrying tool calls.
// Content is null: the protocol disallows prose and tool calls together.
func AssistantToolCallMessage(calls []ToolCall) Message {
	return Message{Role: RoleAssistant, Content: nil, ToolCalls: calls}
}

// ToolResultMessage creates a tool Message answering the given call id.
func ToolResultMessage(toolCallID, content string) Message {
	return Message{Role: RoleTool, Content: &content, ToolCallID: toolCallID}
}

// ToolCall is a model-requested invocation of a named tool. Arguments are
// the raw serialized form as emitted by the model, not yet validated.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolDefinition is the serializable description of a tool for the LLM
// function-calling protocol.
type ToolDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

// ToolChoice controls whether the model may, must, or must not call tools.
type ToolChoice string

const (
	ToolChoiceAuto     ToolChoice = "auto"
	ToolChoiceNone     ToolChoice = "none"
	ToolChoiceRequired ToolChoice = "required"
)

// Request is the input to Complete.
type Request struct {
	Model       string            `json:"model"`
	Messages    []Message         `json:"messages"`
	Provider    string            `json:"provider,omitempty"`
	Tools       []ToolDefinition  `json:"tools,omitempty"`
	ToolChoice  ToolChoice        `json:"tool_choice,omitempty"`
	Temperature *float64          `json:"temperature,omitempty"`
	MaxTokens   *int              `json:"max_tokens,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// FinishReason describes why generation stopped.
type FinishReason struct {
	Reason string `json:"reason"` // "stop", "length", "tool_calls", "error", "other"
	Raw    string `json:"raw,omitempty"`
}

// Usage tracks token consumption for a single round trip.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// Add returns a new Usage that is the sum of u and other.
func (u Usage) Add(other Usage) Usage {
	return Usage{
		InputTokens:  u.InputTokens + other.InputTokens,
		OutputTokens: u.OutputTokens + other.OutputTokens,
		TotalTokens:  u.TotalTokens + other.TotalTokens,
	}
}

// Response is the output of Complete: either an assistant message with tool
// calls, or one with plain text.
type Response struct {
	ID           string       `json:"id"`
	Model        string       `json:"model"`
	Provider     string       `json:"provider"`
	Message      Message      `json:"message"`
	FinishReason FinishReason `json:"finish_reason"`
	Usage        Usage        `json:"usage"`
}

// Text returns the response's text content, or "" for tool-call responses.
func (r *Response) Text() string {
	return r.Message.Text()
}

// ToolCalls returns the tool-call directives in the response, in the order
// the model emitted them.
func (r *Response) ToolCalls() []ToolCall {
	return r.Message.ToolCalls
}

// HasToolCalls reports whether the response requests tool execution.
func (r *Response) HasToolCalls() bool {
	return len(r.Message.ToolCalls) > 0
}
