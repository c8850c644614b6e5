package agentic

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spartacus-ai/spartacus/llm"
)

const (
	// FinalAnswerToolName is the sentinel tool that terminates the loop.
	FinalAnswerToolName = "final_answer"

	// DefaultFinalAnswer is used when a final_answer call omits the answer
	// field.
	DefaultFinalAnswer = "Task completed."

	// MaxIterationsAdvisory is returned when the iteration budget runs out.
	MaxIterationsAdvisory = "I've reached the maximum number of reasoning steps. Please try rephrasing your request."
)

// AppendMode controls whether Run appends the user input to the Context as
// a new user turn.
type AppendMode string

const (
	// AppendAuto appends the input whenever no user turn appears among the
	// most recent UserLookback entries of the log. Re-checked before each
	// round trip, so long tool chains can cause a re-append.
	AppendAuto AppendMode = "auto"

	// AppendAlways appends the input once, before the first round trip.
	AppendAlways AppendMode = "always"

	// AppendNever assumes the caller already placed the input in the log.
	AppendNever AppendMode = "never"
)

// CompletionClient is the single capability the loop needs from an LLM
// client.
type CompletionClient interface {
	Complete(ctx context.Context, req llm.Request) (*llm.Response, error)
}

// Config holds the loop's knobs.
type Config struct {
	// MaxIterations bounds the number of LLM round trips. Defaults to 10.
	MaxIterations int

	// AppendInput controls user-input appending. Defaults to AppendAuto.
	AppendInput AppendMode

	// UserLookback is the AppendAuto window size. Defaults to 5.
	UserLookback int

	// StrictToolErrors aborts the run on validation and handler failures
	// instead of surfacing them as model-visible error turns.
	StrictToolErrors bool

	// EnableLoopDetection injects a warning turn when the recent tool
	// calls repeat. Off by default.
	EnableLoopDetection bool
	LoopDetectionWindow int

	// Per-tool output limits applied to formatted results before they are
	// appended. Empty maps mean no truncation.
	ToolCharLimits map[string]int
	ToolLineLimits map[string]int

	Temperature *float64
	MaxTokens   *int
	Provider    string
}

// DefaultConfig returns the default loop configuration.
func DefaultConfig() Config {
	return Config{
		MaxIterations:       10,
		AppendInput:         AppendAuto,
		UserLookback:        5,
		LoopDetectionWindow: 6,
	}
}

// Loop drives one LLM through the reason/act cycle against a tool registry.
// A Loop is stateless between runs; all conversation state lives in the
// Context passed to Run. One Run serves one logical conversation at a time.
type Loop struct {
	client       CompletionClient
	registry     *Registry
	systemPrompt string
	model        string
	config       Config
	logger       *slog.Logger
	emitter      *EventEmitter
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) LoopOption {
	return func(l *Loop) {
		l.config = cfg
	}
}

// WithLogger sets the structured logger. Defaults to a discarding logger.
func WithLogger(logger *slog.Logger) LoopOption {
	return func(l *Loop) {
		l.logger = logger
	}
}

// WithEmitter attaches an event emitter for host-visible run events.
func WithEmitter(emitter *EventEmitter) LoopOption {
	return func(l *Loop) {
		l.emitter = emitter
	}
}

// NewLoop creates a Loop. The client and registry are explicit dependencies;
// there is no process-wide default of either.
func NewLoop(client CompletionClient, registry *Registry, systemPrompt, model string, opts ...LoopOption) (*Loop, error) {
	if client == nil {
		return nil, &ConfigError{Detail: "a completion client is required"}
	}
	if registry == nil {
		return nil, &ConfigError{Detail: "a tool registry is required"}
	}

	l := &Loop{
		client:       client,
		registry:     registry,
		systemPrompt: systemPrompt,
		model:        model,
		config:       DefaultConfig(),
	}
	for _, opt := range opts {
		opt(l)
	}

	if l.config.MaxIterations <= 0 {
		l.config.MaxIterations = 10
	}
	if l.config.AppendInput == "" {
		l.config.AppendInput = AppendAuto
	}
	if l.config.UserLookback <= 0 {
		l.config.UserLookback = 5
	}
	if l.config.LoopDetectionWindow <= 0 {
		l.config.LoopDetectionWindow = 6
	}
	if l.logger == nil {
		l.logger = slog.New(slog.DiscardHandler)
	}
	return l, nil
}

// Run drives the loop until the model produces a final answer, replies with
// free text, or the iteration budget is exhausted. The Context may be empty
// (new conversation) or pre-populated (resumed session); both behave
// identically. LLM client failures propagate to the caller untouched.
func (l *Loop) Run(ctx context.Context, conv *Context, input string) (*RunResult, error) {
	if conv == nil {
		return nil, &ConfigError{Detail: "a conversation context is required"}
	}

	l.emit(EventRunStart, map[string]any{"input": input})
	l.logger.Debug("run start", "session_id", conv.SessionID, "max_iterations", l.config.MaxIterations)

	toolDefs := l.registry.Definitions()
	var toolsExecuted []string
	var usage llm.Usage
	appended := false

	for iteration := 1; iteration <= l.config.MaxIterations; iteration++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		l.maybeAppendInput(conv, input, &appended)

		req := llm.Request{
			Model:       l.model,
			Provider:    l.config.Provider,
			Messages:    append([]llm.Message{llm.SystemMessage(l.systemPrompt)}, turnsToMessages(conv.Turns)...),
			Tools:       toolDefs,
			ToolChoice:  llm.ToolChoiceRequired,
			Temperature: l.config.Temperature,
			MaxTokens:   l.config.MaxTokens,
		}

		l.emit(EventIteration, map[string]any{"iteration": iteration})
		l.logger.Debug("llm round trip", "iteration", iteration, "turns", len(conv.Turns))

		resp, err := l.client.Complete(ctx, req)
		if err != nil {
			l.emit(EventError, map[string]any{"error": err.Error()})
			return nil, err
		}
		usage = usage.Add(resp.Usage)

		if !resp.HasToolCalls() {
			// Free-text reply: terminal.
			text := resp.Text()
			conv.Append(AssistantTurn(text))
			l.logger.Info("run finished with free text", "iteration", iteration)
			result := &RunResult{
				FinalText:          text,
				ToolsExecuted:      toolsExecuted,
				IterationCount:     iteration,
				TerminatedNormally: true,
				Usage:              usage,
			}
			l.emit(EventRunEnd, map[string]any{"final_text": text, "iterations": iteration})
			return result, nil
		}

		calls := resp.ToolCalls()
		conv.Append(AssistantToolCallTurn(calls))

		for _, call := range calls {
			if call.Name == FinalAnswerToolName {
				answer := extractFinalAnswer(call.Arguments)
				conv.Append(ToolResultTurn(call.ID, answer))
				l.logger.Info("run finished with final answer", "iteration", iteration)
				result := &RunResult{
					FinalText:          answer,
					ToolsExecuted:      toolsExecuted,
					IterationCount:     iteration,
					TerminatedNormally: true,
					Usage:              usage,
				}
				l.emit(EventRunEnd, map[string]any{"final_text": answer, "iterations": iteration})
				// Remaining directives in this batch are not executed.
				return result, nil
			}

			if err := l.executeCall(ctx, conv, call, &toolsExecuted); err != nil {
				l.emit(EventError, map[string]any{"error": err.Error(), "tool": call.Name})
				return nil, err
			}
		}

		l.warnOnContextUsage(conv)

		if l.config.EnableLoopDetection && DetectLoop(conv.Turns, l.config.LoopDetectionWindow) {
			warning := fmt.Sprintf("The last %d tool calls follow a repeating pattern. Try a different approach.", l.config.LoopDetectionWindow)
			conv.Append(UserTurn(warning))
			l.emit(EventLoopDetection, map[string]any{"message": warning})
			l.logger.Warn("tool call loop detected", "window", l.config.LoopDetectionWindow)
		}
	}

	l.logger.Info("iteration budget exhausted", "max_iterations", l.config.MaxIterations)
	result := &RunResult{
		FinalText:          MaxIterationsAdvisory,
		ToolsExecuted:      toolsExecuted,
		IterationCount:     l.config.MaxIterations,
		TerminatedNormally: false,
		Usage:              usage,
	}
	l.emit(EventRunEnd, map[string]any{"final_text": MaxIterationsAdvisory, "iterations": l.config.MaxIterations})
	return result, nil
}

// maybeAppendInput applies the configured append mode before a round trip.
func (l *Loop) maybeAppendInput(conv *Context, input string, appended *bool) {
	switch l.config.AppendInput {
	case AppendNever:
		return
	case AppendAlways:
		if !*appended {
			conv.Append(UserTurn(input))
			*appended = true
		}
	default: // AppendAuto
		for _, t := range conv.LastTurns(l.config.UserLookback) {
			if t.Role == llm.RoleUser {
				return
			}
		}
		conv.Append(UserTurn(input))
		*appended = true
	}
}

// executeCall resolves one directive against the registry and appends
// exactly one tool-result turn, successful or not. Unknown tools and,
// unless StrictToolErrors is set, validation and handler failures become
// model-visible error turns; the error return is non-nil only on the strict
// abort path.
func (l *Loop) executeCall(ctx context.Context, conv *Context, call llm.ToolCall, toolsExecuted *[]string) error {
	l.emit(EventToolCallStart, map[string]any{"tool": call.Name, "call_id": call.ID})

	def, ok := l.registry.Get(call.Name)
	if !ok {
		payload := errorPayload("unknown tool", call.Name)
		conv.Append(ToolResultTurn(call.ID, payload))
		l.emit(EventToolCallEnd, map[string]any{"call_id": call.ID, "error": "unknown tool"})
		l.logger.Warn("unknown tool requested", "tool", call.Name)
		return nil
	}

	output, err := def.Invoke(ctx, conv, call.Arguments)
	if err != nil {
		if l.config.StrictToolErrors {
			return err
		}
		payload := errorPayload(err.Error(), call.Name)
		conv.Append(ToolResultTurn(call.ID, payload))
		l.emit(EventToolCallEnd, map[string]any{"call_id": call.ID, "error": err.Error()})
		l.logger.Warn("tool execution failed", "tool", call.Name, "error", err)
		return nil
	}

	output = truncateToolOutput(output, call.Name, l.config.ToolCharLimits, l.config.ToolLineLimits)
	conv.Append(ToolResultTurn(call.ID, output))
	*toolsExecuted = append(*toolsExecuted, call.Name)
	l.emit(EventToolCallEnd, map[string]any{"call_id": call.ID, "output": output})
	l.logger.Debug("tool executed", "tool", call.Name)
	return nil
}

// warnOnContextUsage emits a warning once usage crosses 80% of the model's
// context window.
func (l *Loop) warnOnContextUsage(conv *Context) {
	totalChars := len(l.systemPrompt)
	for _, t := range conv.Turns {
		totalChars += len(t.Text())
	}

	approxTokens := totalChars / 4
	window := llm.ContextWindowFor(l.model)
	threshold := int(float64(window) * 0.8)
	if approxTokens > threshold {
		pct := approxTokens * 100 / window
		l.emit(EventWarning, map[string]any{
			"message": fmt.Sprintf("Context usage at ~%d%% of context window", pct),
		})
		l.logger.Warn("context usage high", "approx_tokens", approxTokens, "window", window)
	}
}

func (l *Loop) emit(kind EventKind, data map[string]any) {
	if l.emitter != nil {
		l.emitter.Emit(kind, data)
	}
}

// extractFinalAnswer pulls the answer field out of a final_answer call,
// falling back to the fixed placeholder when the field is absent or
// unparseable.
func extractFinalAnswer(rawArgs json.RawMessage) string {
	var args struct {
		Answer string `json:"answer"`
	}
	if err := json.Unmarshal(rawArgs, &args); err != nil || args.Answer == "" {
		return DefaultFinalAnswer
	}
	return args.Answer
}

// errorPayload renders a structured, model-visible error for a tool-result
// turn.
func errorPayload(message, tool string) string {
	b, _ := json.Marshal(map[string]string{
		"error": message,
		"tool":  tool,
	})
	return string(b)
}
