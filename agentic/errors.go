package agentic

import (
	"errors"
	"fmt"
)

// Sentinel errors for registry operations.
var (
	ErrUnknownTool   = errors.New("tool is not registered")
	ErrDuplicateTool = errors.New("tool is already registered")
)

// ConfigError indicates a wiring mistake detected at construction or
// registration time. Never retried.
type ConfigError struct {
	Tool   string
	Detail string
}

func (e *ConfigError) Error() string {
	if e.Tool != "" {
		return fmt.Sprintf("tool %q: %s", e.Tool, e.Detail)
	}
	return e.Detail
}

// ValidationError indicates the model supplied arguments that fail the
// tool's schema.
type ValidationError struct {
	Tool   string
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid arguments for tool %q: %s", e.Tool, e.Detail)
}

// MissingContextError indicates a tool requiring a Context was invoked
// without one. This is a caller/registry mismatch, not a runtime condition.
type MissingContextError struct {
	Tool string
}

func (e *MissingContextError) Error() string {
	return fmt.Sprintf("tool %q requires a context but none was provided", e.Tool)
}

// MissingContextFieldError indicates an injected field could not be resolved
// on the Context. Registration checks field names, so this signals an
// invariant violation.
type MissingContextFieldError struct {
	Tool  string
	Field string
}

func (e *MissingContextFieldError) Error() string {
	return fmt.Sprintf("tool %q: context has no field %q", e.Tool, e.Field)
}

// ToolError wraps a failure raised by a tool handler.
type ToolError struct {
	Tool string
	Err  error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %q failed: %v", e.Tool, e.Err)
}

func (e *ToolError) Unwrap() error {
	return e.Err
}
