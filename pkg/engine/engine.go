package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/rhuss/coursebot/pkg/debug"
	"github.com/rhuss/coursebot/pkg/provider"
	"github.com/rhuss/coursebot/pkg/tools"
)

// ErrEmptyQuery is returned by Generate for a blank query.
var ErrEmptyQuery = errors.New("engine: query must not be empty")

// ToolError reports a tool call that failed and aborted the tool loop.
type ToolError struct {
	Tool string
	Err  error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("tool %q: %v", e.Tool, e.Err)
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// Generator answers queries with a provider and an optional tool manager.
// It keeps no per-query state and is safe for concurrent use when its
// provider is.
type Generator struct {
	provider     provider.Provider
	cfg          Config
	systemPrompt string
}

// Option customizes a Generator.
type Option func(*Generator)

// WithSystemPrompt replaces DefaultSystemPrompt.
func WithSystemPrompt(prompt string) Option {
	return func(g *Generator) {
		g.systemPrompt = prompt
	}
}

// New creates a Generator. The provider must not be nil.
func New(p provider.Provider, cfg Config, opts ...Option) (*Generator, error) {
	if p == nil {
		return nil, fmt.Errorf("engine: provider must not be nil")
	}
	g := &Generator{
		provider:     p,
		cfg:          cfg,
		systemPrompt: DefaultSystemPrompt,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Provider returns the provider the Generator was built with.
func (g *Generator) Provider() provider.Provider {
	return g.provider
}

// Request is a single query to answer.
type Request struct {
	// Query is the user's question. Required.
	Query string

	// History is prior conversation rendered as text. Optional.
	History string

	// Tools overrides the tool set offered to the model. When empty and
	// Manager is set, Manager.Definitions() is used.
	Tools []provider.ToolDefinition

	// Manager executes requested tools. Without a Manager a tool request
	// ends the query with whatever text accompanied it.
	Manager tools.Manager
}

// Result is the outcome of Generate.
type Result struct {
	// Content is the text of the last provider response.
	Content string

	// Rounds is the number of tool rounds executed.
	Rounds int

	// StopReason is the stop reason of the last provider response. It is
	// tool_use when the loop stopped at a limit while the model still
	// asked for tools.
	StopReason provider.StopReason

	// Executions lists every tool call in order. Only filled when
	// Config.Debug is set.
	Executions []ToolExecution
}

// ToolExecution records one tool call for inspection.
type ToolExecution struct {
	Iteration    int            `json:"iteration"`
	Tool         string         `json:"tool"`
	Parameters   map[string]any `json:"parameters"`
	ResultLength int            `json:"result_length"`
}

// Generate answers req. Provider failures come back as a Result whose
// StopReason is provider.StopReasonError; only invalid requests, tool
// failures and context cancellation produce an error.
func (g *Generator) Generate(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, ErrEmptyQuery
	}

	defs := req.Tools
	if len(defs) == 0 && req.Manager != nil {
		defs = req.Manager.Definitions()
	}

	runID := uuid.NewString()
	debug.Log("engine", "generating response",
		"run_id", runID,
		"provider", g.provider.Name(),
		"tools", len(defs),
		"history", req.History != "",
	)
	debug.Trace("engine", "query", "run_id", runID, "query", req.Query)

	resp := g.provider.GenerateResponse(ctx, provider.GenerateRequest{
		Query:        req.Query,
		SystemPrompt: g.systemPrompt,
		History:      req.History,
		Tools:        defs,
	})

	if !resp.WantsTools() || req.Manager == nil {
		debug.Log("engine", "answered without tools",
			"run_id", runID,
			"stop_reason", resp.StopReason,
		)
		return &Result{Content: resp.Content, StopReason: resp.StopReason}, nil
	}

	return g.runToolLoop(ctx, runID, req, defs, resp)
}
