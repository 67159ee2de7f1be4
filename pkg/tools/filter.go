package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/rhuss/coursebot/pkg/provider"
)

// ErrToolNotAllowed is returned by a filtered Manager for a tool outside the
// allowed list.
var ErrToolNotAllowed = errors.New("tool not allowed")

// Filtered restricts a Manager to an allowed set of tool names.
type Filtered struct {
	next    Manager
	allowed map[string]bool
}

var _ Manager = (*Filtered)(nil)

// Filter wraps m so that only the named tools are listed and executable.
// An empty allowed list returns m unchanged.
func Filter(m Manager, allowed []string) Manager {
	if len(allowed) == 0 {
		return m
	}
	set := make(map[string]bool, len(allowed))
	for _, name := range allowed {
		set[name] = true
	}
	return &Filtered{next: m, allowed: set}
}

// Definitions returns the wrapped definitions that pass the filter, in the
// wrapped Manager's order.
func (f *Filtered) Definitions() []provider.ToolDefinition {
	var defs []provider.ToolDefinition
	for _, d := range f.next.Definitions() {
		if f.allowed[d.Name] {
			defs = append(defs, d)
		}
	}
	return defs
}

// Execute runs an allowed tool. The model can still name a tool it was not
// offered, so the check is repeated here.
func (f *Filtered) Execute(ctx context.Context, name string, params map[string]any) (string, error) {
	if !f.allowed[name] {
		return "", fmt.Errorf("%w: %q", ErrToolNotAllowed, name)
	}
	return f.next.Execute(ctx, name, params)
}
