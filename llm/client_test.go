package llm

import (
	"context"
	"errors"
	"testing"
)

// mockAdapter is a test double implementing ProviderAdapter.
type mockAdapter struct {
	name     string
	response *Response
	err      error
	calls    []Request
	closed   bool
}

func (m *mockAdapter) Name() string { return m.name }

func (m *mockAdapter) Complete(ctx context.Context, req Request) (*Response, error) {
	m.calls = append(m.calls, req)
	if m.err != nil {
		return nil, m.err
	}
	if m.response != nil {
		return m.response, nil
	}
	return &Response{
		ID:           "resp_test",
		Model:        req.Model,
		Provider:     m.name,
		Message:      AssistantMessage("mock response"),
		FinishReason: FinishReason{Reason: "stop"},
	}, nil
}

func (m *mockAdapter) Close() error {
	m.closed = true
	return nil
}

func TestClientRoutesToDefaultProvider(t *testing.T) {
	adapter := &mockAdapter{name: "openai"}
	client := NewClient(WithProvider("openai", adapter))

	resp, err := client.Complete(context.Background(), Request{
		Model:    "gpt-4",
		Messages: []Message{UserMessage("hello")},
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if resp.Text() != "mock response" {
		t.Errorf("expected mock response, got %q", resp.Text())
	}
	if len(adapter.calls) != 1 {
		t.Errorf("expected 1 call, got %d", len(adapter.calls))
	}
}

func TestClientRoutesByExplicitProvider(t *testing.T) {
	openai := &mockAdapter{name: "openai"}
	anthropic := &mockAdapter{name: "anthropic"}
	client := NewClient(
		WithProvider("openai", openai),
		WithProvider("anthropic", anthropic),
		WithDefaultProvider("openai"),
	)

	_, err := client.Complete(context.Background(), Request{
		Model:    "claude-sonnet-4-5",
		Provider: "anthropic",
		Messages: []Message{UserMessage("hi")},
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if len(anthropic.calls) != 1 {
		t.Errorf("expected anthropic to receive the call, got %d", len(anthropic.calls))
	}
	if len(openai.calls) != 0 {
		t.Errorf("openai should not have been called, got %d calls", len(openai.calls))
	}
}

func TestClientInfersProviderFromCatalog(t *testing.T) {
	anthropic := &mockAdapter{name: "anthropic"}
	openai := &mockAdapter{name: "openai"}
	client := NewClient(
		WithProvider("openai", openai),
		WithProvider("anthropic", anthropic),
	)

	_, err := client.Complete(context.Background(), Request{
		Model:    "claude-sonnet-4-5",
		Messages: []Message{UserMessage("hi")},
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if len(anthropic.calls) != 1 {
		t.Errorf("expected catalog inference to route to anthropic, got %d calls", len(anthropic.calls))
	}
}

func TestClientUnknownProvider(t *testing.T) {
	client := NewClient(WithProvider("openai", &mockAdapter{name: "openai"}))

	_, err := client.Complete(context.Background(), Request{
		Model:    "gpt-4",
		Provider: "gemini",
		Messages: []Message{UserMessage("hi")},
	})
	if err == nil {
		t.Fatal("expected error for unregistered provider")
	}
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Errorf("expected ConfigurationError, got %T", err)
	}
}

func TestClientNoProviderConfigured(t *testing.T) {
	client := NewClient()

	_, err := client.Complete(context.Background(), Request{
		Model:    "some-unknown-model",
		Messages: []Message{UserMessage("hi")},
	})
	if err == nil {
		t.Fatal("expected error with no providers configured")
	}
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Errorf("expected ConfigurationError, got %T", err)
	}
}

func TestClientMiddlewareOrder(t *testing.T) {
	var order []string
	mw := func(label string) Middleware {
		return func(ctx context.Context, req Request, next func(context.Context, Request) (*Response, error)) (*Response, error) {
			order = append(order, label+":before")
			resp, err := next(ctx, req)
			order = append(order, label+":after")
			return resp, err
		}
	}

	client := NewClient(
		WithProvider("openai", &mockAdapter{name: "openai"}),
		WithMiddleware(mw("outer"), mw("inner")),
	)

	_, err := client.Complete(context.Background(), Request{
		Model:    "gpt-4",
		Messages: []Message{UserMessage("hi")},
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	want := []string{"outer:before", "inner:before", "inner:after", "outer:after"}
	if len(order) != len(want) {
		t.Fatalf("expected %d middleware events, got %d: %v", len(want), len(order), order)
	}
	for i, label := range want {
		if order[i] != label {
			t.Errorf("event %d: expected %s, got %s", i, label, order[i])
		}
	}
}

func TestClientMiddlewareCanModifyRequest(t *testing.T) {
	adapter := &mockAdapter{name: "openai"}
	stamp := func(ctx context.Context, req Request, next func(context.Context, Request) (*Response, error)) (*Response, error) {
		if req.Metadata == nil {
			req.Metadata = make(map[string]string)
		}
		req.Metadata["trace"] = "abc"
		return next(ctx, req)
	}

	client := NewClient(WithProvider("openai", adapter), WithMiddleware(stamp))

	_, err := client.Complete(context.Background(), Request{
		Model:    "gpt-4",
		Messages: []Message{UserMessage("hi")},
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if adapter.calls[0].Metadata["trace"] != "abc" {
		t.Error("middleware mutation did not reach the adapter")
	}
}

func TestClientClose(t *testing.T) {
	adapter := &mockAdapter{name: "openai"}
	client := NewClient(WithProvider("openai", adapter))

	if err := client.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !adapter.closed {
		t.Error("adapter was not closed")
	}
}

func TestResponseToolCalls(t *testing.T) {
	calls := []ToolCall{
		{ID: "call_1", Name: "web_search", Arguments: []byte(`{"query":"go"}`)},
	}
	resp := &Response{Message: AssistantToolCallMessage(calls)}

	if !resp.HasToolCalls() {
		t.Error("expected HasToolCalls to be true")
	}
	if resp.Text() != "" {
		t.Errorf("tool-call response should have empty text, got %q", resp.Text())
	}
	if got := resp.ToolCalls(); len(got) != 1 || got[0].Name != "web_search" {
		t.Errorf("unexpected tool calls: %+v", got)
	}
}

func TestUsageAdd(t *testing.T) {
	a := Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}
	b := Usage{InputTokens: 3, OutputTokens: 2, TotalTokens: 5}

	sum := a.Add(b)
	if sum.InputTokens != 13 || sum.OutputTokens != 7 || sum.TotalTokens != 20 {
		t.Errorf("unexpected sum: %+v", sum)
	}
}

func TestGetModelInfo(t *testing.T) {
	info := GetModelInfo("gpt-4")
	if info == nil {
		t.Fatal("expected gpt-4 in catalog")
	}
	if info.Provider != "openai" {
		t.Errorf("expected provider openai, got %s", info.Provider)
	}

	if alias := GetModelInfo("sonnet"); alias == nil || alias.ID != "claude-sonnet-4-5" {
		t.Errorf("alias lookup failed: %+v", alias)
	}

	if GetModelInfo("nonexistent-model") != nil {
		t.Error("expected nil for unknown model")
	}
}
