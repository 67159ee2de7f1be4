package transport

import (
	"context"

	"github.com/rhuss/coursebot/pkg/api"
	"github.com/rhuss/coursebot/pkg/engine"
	"github.com/rhuss/coursebot/pkg/tools"
)

// EngineAsker answers asks with an engine Generator.
type EngineAsker struct {
	gen     *engine.Generator
	manager tools.Manager
}

var _ Asker = (*EngineAsker)(nil)

// NewEngineAsker creates an Asker over gen. A nil manager disables tools.
func NewEngineAsker(gen *engine.Generator, manager tools.Manager) *EngineAsker {
	return &EngineAsker{gen: gen, manager: manager}
}

// Ask runs the query through the generator. Provider failures are not
// errors; they arrive as an answer with stop reason "error".
func (a *EngineAsker) Ask(ctx context.Context, req *api.AskRequest) (*api.AskResponse, error) {
	res, err := a.gen.Generate(ctx, engine.Request{
		Query:   req.Query,
		History: req.History,
		Manager: a.manager,
	})
	if err != nil {
		return nil, err
	}

	resp := &api.AskResponse{
		ID:         RequestIDFromContext(ctx),
		Object:     api.ObjectAnswer,
		Answer:     res.Content,
		Provider:   a.gen.Provider().Name(),
		Rounds:     res.Rounds,
		StopReason: string(res.StopReason),
	}
	for _, ex := range res.Executions {
		resp.Executions = append(resp.Executions, api.ToolExecution{
			Iteration:    ex.Iteration,
			Tool:         ex.Tool,
			Parameters:   ex.Parameters,
			ResultLength: ex.ResultLength,
		})
	}
	return resp, nil
}
