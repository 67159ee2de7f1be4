package tools

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rhuss/coursebot/pkg/debug"
	"github.com/rhuss/coursebot/pkg/provider"
)

// Registry is an in-process Manager. It is safe for concurrent use.
type Registry struct {
	mu sync.RWMutex

	// order keeps registration order for Definitions.
	order []string
	tools map[string]Tool
}

// Ensure Registry implements Manager at compile time.
var _ Manager = (*Registry)(nil)

// NewRegistry creates a Registry holding the given tools.
func NewRegistry(tools ...Tool) (*Registry, error) {
	r := &Registry{tools: make(map[string]Tool)}
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a tool. Names must be non-empty and unique.
func (r *Registry) Register(t Tool) error {
	name := t.Definition().Name
	if name == "" {
		return fmt.Errorf("registering tool: empty name")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.tools == nil {
		r.tools = make(map[string]Tool)
	}
	if _, ok := r.tools[name]; ok {
		return fmt.Errorf("registering tool %q: duplicate name", name)
	}
	r.tools[name] = t
	r.order = append(r.order, name)

	debug.Log("tools", "tool registered", "tool", name)
	return nil
}

// Definitions returns the tool definitions in registration order.
func (r *Registry) Definitions() []provider.ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]provider.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].Definition())
	}
	return defs
}

// Execute runs the named tool. A panic inside the tool is converted into
// an error.
func (r *Registry) Execute(ctx context.Context, name string, params map[string]any) (out string, err error) {
	r.mu.RLock()
	t, ok := r.tools[name]
	r.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTool, name)
	}

	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("tool panicked", "tool", name, "panic", rec)
			out, err = "", fmt.Errorf("tool %q panicked: %v", name, rec)
		}
	}()

	if params == nil {
		params = map[string]any{}
	}
	return t.Execute(ctx, params)
}
