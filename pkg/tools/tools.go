package tools

import (
	"context"
	"errors"

	"github.com/rhuss/coursebot/pkg/provider"
)

// ErrUnknownTool is returned by Execute for a name no tool is registered
// under.
var ErrUnknownTool = errors.New("unknown tool")

// Manager executes tools on behalf of the engine.
type Manager interface {
	// Definitions lists the available tools in a stable order.
	Definitions() []provider.ToolDefinition

	// Execute runs the named tool with the decoded parameters and returns
	// its text output.
	Execute(ctx context.Context, name string, params map[string]any) (string, error)
}

// Tool is a single executable tool.
type Tool interface {
	Definition() provider.ToolDefinition
	Execute(ctx context.Context, params map[string]any) (string, error)
}

// Func adapts a closure into a Tool.
type Func struct {
	Def provider.ToolDefinition
	Fn  func(ctx context.Context, params map[string]any) (string, error)
}

var _ Tool = Func{}

// Definition returns the tool definition.
func (f Func) Definition() provider.ToolDefinition {
	return f.Def
}

// Execute calls the wrapped function.
func (f Func) Execute(ctx context.Context, params map[string]any) (string, error) {
	return f.Fn(ctx, params)
}
