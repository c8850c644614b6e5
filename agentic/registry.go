package agentic

import (
	"fmt"

	"github.com/spartacus-ai/spartacus/llm"
)

// Registry is an order-stable, name-unique collection of tool Definitions.
// Construction validates every definition eagerly, including the
// field-injection equality check, so invocation never pays that cost.
// Read-only after construction; safe to share across conversations.
type Registry struct {
	order  []string
	byName map[string]*Definition
}

// NewRegistry builds a registry from definitions, failing fast on duplicate
// names or invalid definitions.
func NewRegistry(defs ...*Definition) (*Registry, error) {
	r := &Registry{
		byName: make(map[string]*Definition, len(defs)),
	}
	for _, d := range defs {
		if err := d.validate(); err != nil {
			return nil, err
		}
		if _, exists := r.byName[d.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTool, d.Name)
		}
		r.byName[d.Name] = d
		r.order = append(r.order, d.Name)
	}
	return r, nil
}

// Get looks up a definition by name.
func (r *Registry) Get(name string) (*Definition, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// Names returns tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Count returns the number of registered tools.
func (r *Registry) Count() int {
	return len(r.order)
}

// Definitions exports every tool's function-calling schema, in registration
// order. This is the set sent to the model on each round trip.
func (r *Registry) Definitions() []llm.ToolDefinition {
	out := make([]llm.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byName[name].Schema())
	}
	return out
}

// Subset builds a new registry containing only the named tools, preserving
// the requested order. Unknown names fail with ErrUnknownTool.
func (r *Registry) Subset(names ...string) (*Registry, error) {
	sub := &Registry{
		byName: make(map[string]*Definition, len(names)),
	}
	for _, name := range names {
		d, ok := r.byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
		}
		if _, exists := sub.byName[name]; exists {
			continue
		}
		sub.byName[name] = d
		sub.order = append(sub.order, name)
	}
	return sub, nil
}
