package transport

import (
	"context"
	"errors"
	"testing"

	"github.com/rhuss/coursebot/pkg/api"
	"github.com/rhuss/coursebot/pkg/engine"
	"github.com/rhuss/coursebot/pkg/provider"
	"github.com/rhuss/coursebot/pkg/tools"
)

// toolThenAnswer asks for one search call, then answers with the tool
// output.
type toolThenAnswer struct{}

func (toolThenAnswer) Name() string { return "fake" }

func (toolThenAnswer) GenerateResponse(_ context.Context, req provider.GenerateRequest) provider.Response {
	if len(req.Tools) == 0 {
		return provider.Normalize(provider.Response{Content: "no tools: " + req.Query, StopReason: provider.StopReasonEndTurn})
	}
	return provider.Normalize(provider.Response{
		StopReason: provider.StopReasonToolUse,
		ToolCalls:  []provider.ToolCall{{ID: "call_0", Name: "search", Parameters: map[string]any{"query": req.Query}}},
	})
}

func (toolThenAnswer) ContinueAfterTools(_ context.Context, req provider.ContinueRequest) provider.Response {
	return provider.Normalize(provider.Response{Content: "answer from " + req.Results[0].Content, StopReason: provider.StopReasonEndTurn})
}

func searchRegistry(t *testing.T, fn func(context.Context, map[string]any) (string, error)) *tools.Registry {
	t.Helper()
	reg, err := tools.NewRegistry(tools.Func{
		Def: provider.ToolDefinition{Name: "search", InputSchema: provider.InputSchema{Type: "object"}},
		Fn:  fn,
	})
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	return reg
}

func newGenerator(t *testing.T, cfg engine.Config) *engine.Generator {
	t.Helper()
	gen, err := engine.New(toolThenAnswer{}, cfg)
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	return gen
}

func TestEngineAskerRunsToolLoop(t *testing.T) {
	cfg := engine.DefaultConfig()
	cfg.Debug = true
	reg := searchRegistry(t, func(context.Context, map[string]any) (string, error) {
		return "lesson 2", nil
	})
	asker := NewEngineAsker(newGenerator(t, cfg), reg)

	ctx := ContextWithRequestID(context.Background(), "ask-test")
	resp, err := asker.Ask(ctx, &api.AskRequest{Query: "What is in lesson 2?"})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}

	if resp.ID != "ask-test" || resp.Object != api.ObjectAnswer {
		t.Errorf("id/object = %q/%q", resp.ID, resp.Object)
	}
	if resp.Answer != "answer from lesson 2" {
		t.Errorf("answer = %q", resp.Answer)
	}
	if resp.Provider != "fake" || resp.Rounds != 1 || resp.StopReason != "end_turn" {
		t.Errorf("resp = %+v", resp)
	}
	if len(resp.Executions) != 1 || resp.Executions[0].Tool != "search" || resp.Executions[0].ResultLength != 8 {
		t.Errorf("executions = %+v", resp.Executions)
	}
}

func TestEngineAskerWithoutManager(t *testing.T) {
	asker := NewEngineAsker(newGenerator(t, engine.DefaultConfig()), nil)

	resp, err := asker.Ask(context.Background(), &api.AskRequest{Query: "hi"})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if resp.Answer != "no tools: hi" || resp.Rounds != 0 {
		t.Errorf("resp = %+v", resp)
	}
	if resp.Executions != nil {
		t.Errorf("executions = %+v, want none without debug", resp.Executions)
	}
}

func TestEngineAskerToolFailure(t *testing.T) {
	reg := searchRegistry(t, func(context.Context, map[string]any) (string, error) {
		return "", errors.New("index offline")
	})
	asker := NewEngineAsker(newGenerator(t, engine.DefaultConfig()), reg)

	_, err := asker.Ask(context.Background(), &api.AskRequest{Query: "q"})
	if got := APIErrorFrom(err); got.Type != api.ErrorTypeToolError {
		t.Errorf("APIErrorFrom(%v) = %+v, want tool_error", err, got)
	}
}
