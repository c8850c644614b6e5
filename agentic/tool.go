package agentic

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/kaptinlin/jsonschema"

	"github.com/spartacus-ai/spartacus/llm"
)

// Handler calling conventions. Exactly one of these is set on a Definition,
// matching its NeedsContext/InjectedFields declaration.

// HandlerFunc receives only the validated arguments.
type HandlerFunc func(ctx context.Context, args map[string]any) (any, error)

// ContextHandlerFunc receives the whole Context alongside the arguments.
type ContextHandlerFunc func(ctx context.Context, conv *Context, args map[string]any) (any, error)

// InjectedHandlerFunc receives named Context fields alongside the arguments.
// The fields map holds exactly the Definition's InjectedFields.
type InjectedHandlerFunc func(ctx context.Context, fields map[string]any, args map[string]any) (any, error)

// Definition is a named, schema-validated tool. Definitions are static,
// process-lifetime values; after registration they are read-only and safe
// to share across conversations.
type Definition struct {
	Name        string
	Description string

	// Parameters is the JSON Schema for the tool's arguments, in the shape
	// the function-calling protocol expects.
	Parameters json.RawMessage

	// NeedsContext selects the context or field-injection conventions.
	NeedsContext bool

	// InjectedFields names the Context fields to extract and pass to the
	// InjectedHandler instead of the whole Context. Requires NeedsContext.
	InjectedFields []string

	// HandlerParams is the injected handler's declared parameter list. It
	// must equal InjectedFields as a set; the registry checks this once at
	// registration.
	HandlerParams []string

	Handler         HandlerFunc
	ContextHandler  ContextHandlerFunc
	InjectedHandler InjectedHandlerFunc

	// ResultFormatter overrides the generic FormatResult.
	ResultFormatter func(any) string

	// ContextUpdate runs after the handler, regardless of calling
	// convention, to apply side effects to shared state.
	ContextUpdate func(conv *Context, result any)

	schema *jsonschema.Schema
}

// validate checks the definition's internal consistency and compiles its
// argument schema. Called once, from registry construction.
func (d *Definition) validate() error {
	if d.Name == "" {
		return &ConfigError{Detail: "tool name must not be empty"}
	}
	if len(d.Parameters) == 0 {
		return &ConfigError{Tool: d.Name, Detail: "argument schema must not be empty"}
	}

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile([]byte(d.Parameters))
	if err != nil {
		return &ConfigError{Tool: d.Name, Detail: fmt.Sprintf("invalid argument schema: %v", err)}
	}
	d.schema = schema

	if len(d.InjectedFields) > 0 {
		if !d.NeedsContext {
			return &ConfigError{Tool: d.Name, Detail: "injected fields require needs_context"}
		}
		if d.InjectedHandler == nil {
			return &ConfigError{Tool: d.Name, Detail: "injected fields require an injected handler"}
		}
		if d.Handler != nil || d.ContextHandler != nil {
			return &ConfigError{Tool: d.Name, Detail: "injected tools must declare exactly one handler"}
		}
		for _, f := range d.InjectedFields {
			if !knownContextFields[f] {
				return &ConfigError{Tool: d.Name, Detail: fmt.Sprintf("unknown context field %q", f)}
			}
		}
		if !sameFieldSet(d.InjectedFields, d.HandlerParams) {
			return &ConfigError{Tool: d.Name, Detail: fmt.Sprintf(
				"handler parameters %v do not match injected fields %v", d.HandlerParams, d.InjectedFields)}
		}
		return nil
	}

	if d.NeedsContext {
		if d.ContextHandler == nil {
			return &ConfigError{Tool: d.Name, Detail: "needs_context requires a context handler"}
		}
		if d.Handler != nil || d.InjectedHandler != nil {
			return &ConfigError{Tool: d.Name, Detail: "context tools must declare exactly one handler"}
		}
		return nil
	}

	if d.Handler == nil {
		return &ConfigError{Tool: d.Name, Detail: "a handler is required"}
	}
	if d.ContextHandler != nil || d.InjectedHandler != nil {
		return &ConfigError{Tool: d.Name, Detail: "plain tools must declare exactly one handler"}
	}
	return nil
}

// sameFieldSet reports whether a and b contain the same names, ignoring
// order and duplicates aside.
func sameFieldSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := append([]string(nil), a...)
	bs := append([]string(nil), b...)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

// Schema returns the tool's exported function-calling schema.
func (d *Definition) Schema() llm.ToolDefinition {
	return llm.ToolDefinition{
		Name:        d.Name,
		Description: d.Description,
		Parameters:  d.Parameters,
	}
}

// Invoke validates raw arguments against the tool's schema, executes the
// handler under the declared calling convention, runs the context-update
// callback, and formats the result for the conversation log.
func (d *Definition) Invoke(ctx context.Context, conv *Context, rawArgs json.RawMessage) (string, error) {
	if len(rawArgs) == 0 {
		rawArgs = json.RawMessage(`{}`)
	}

	var parsed any
	if err := json.Unmarshal(rawArgs, &parsed); err != nil {
		return "", &ValidationError{Tool: d.Name, Detail: fmt.Sprintf("arguments are not valid JSON: %v", err)}
	}
	if result := d.schema.Validate(parsed); !result.IsValid() {
		return "", &ValidationError{Tool: d.Name, Detail: fmt.Sprintf("%s", result.Error())}
	}

	args, ok := parsed.(map[string]any)
	if !ok {
		return "", &ValidationError{Tool: d.Name, Detail: "arguments must be a JSON object"}
	}

	var result any
	var err error

	switch {
	case !d.NeedsContext:
		result, err = d.Handler(ctx, args)

	case conv == nil:
		return "", &MissingContextError{Tool: d.Name}

	case len(d.InjectedFields) > 0:
		fields := make(map[string]any, len(d.InjectedFields))
		for _, name := range d.InjectedFields {
			v, ok := conv.Field(name)
			if !ok {
				return "", &MissingContextFieldError{Tool: d.Name, Field: name}
			}
			fields[name] = v
		}
		result, err = d.InjectedHandler(ctx, fields, args)

	default:
		result, err = d.ContextHandler(ctx, conv, args)
	}
	if err != nil {
		return "", &ToolError{Tool: d.Name, Err: err}
	}

	if d.ContextUpdate != nil && conv != nil {
		d.ContextUpdate(conv, result)
	}

	if d.ResultFormatter != nil {
		return d.ResultFormatter(result), nil
	}
	return FormatResult(result), nil
}
