package engine

import (
	"context"
	"log/slog"

	"github.com/rhuss/coursebot/pkg/debug"
	"github.com/rhuss/coursebot/pkg/observability"
	"github.com/rhuss/coursebot/pkg/provider"
	"github.com/rhuss/coursebot/pkg/tools"
)

// runToolLoop executes tool rounds starting from a response that asks for
// tools. Each round runs every requested call in order and is followed by
// exactly one ContinueAfterTools call. The loop ends when the model stops
// asking for tools, after the first round when iteration is disabled, or
// when the round count reaches the configured ceiling.
func (g *Generator) runToolLoop(ctx context.Context, runID string, req Request, defs []provider.ToolDefinition, resp provider.Response) (*Result, error) {
	maxIterations := g.cfg.maxIterations()
	provName := g.provider.Name()
	result := &Result{}

	for resp.WantsTools() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result.Rounds++
		observability.LoopRoundsTotal.WithLabelValues(provName).Inc()
		debug.Log("engine", "tool round",
			"run_id", runID,
			"iteration", result.Rounds,
			"tool_calls", len(resp.ToolCalls),
		)

		results, err := g.executeRound(ctx, req.Manager, resp, result)
		if err != nil {
			return nil, err
		}

		resp = g.provider.ContinueAfterTools(ctx, provider.ContinueRequest{
			Query:        req.Query,
			Prior:        resp,
			Results:      results,
			SystemPrompt: g.systemPrompt,
			History:      req.History,
			Tools:        defs,
		})

		if !g.cfg.EnableIteration {
			if resp.WantsTools() {
				debug.Log("engine", "iteration disabled, ignoring further tool request",
					"run_id", runID,
					"tool_calls", len(resp.ToolCalls),
				)
			}
			break
		}

		if result.Rounds >= maxIterations {
			if resp.WantsTools() {
				slog.Warn("tool loop reached max iterations with tools still requested",
					"run_id", runID,
					"provider", provName,
					"max_iterations", maxIterations,
				)
				observability.LoopExhaustedTotal.WithLabelValues(provName).Inc()
			}
			break
		}
	}

	debug.Log("engine", "tool loop finished",
		"run_id", runID,
		"rounds", result.Rounds,
		"stop_reason", resp.StopReason,
	)

	result.Content = resp.Content
	result.StopReason = resp.StopReason
	return result, nil
}

// executeRound runs the tool calls of resp sequentially and binds each
// output to its call id. The first failing call aborts the round.
func (g *Generator) executeRound(ctx context.Context, mgr tools.Manager, resp provider.Response, result *Result) ([]provider.ToolResult, error) {
	results := make([]provider.ToolResult, 0, len(resp.ToolCalls))

	for _, call := range resp.ToolCalls {
		out, err := mgr.Execute(ctx, call.Name, call.Parameters)
		if err != nil {
			observability.ToolExecutionsTotal.WithLabelValues(call.Name, "error").Inc()
			return nil, &ToolError{Tool: call.Name, Err: err}
		}
		observability.ToolExecutionsTotal.WithLabelValues(call.Name, "success").Inc()

		debug.Log("engine", "tool executed",
			"iteration", result.Rounds,
			"tool", call.Name,
			"call_id", call.ID,
			"result_length", len(out),
		)
		debug.Trace("engine", "tool output", "tool", call.Name, "output", debug.Truncate(out, 2000))

		if g.cfg.Debug {
			result.Executions = append(result.Executions, ToolExecution{
				Iteration:    result.Rounds,
				Tool:         call.Name,
				Parameters:   call.Parameters,
				ResultLength: len(out),
			})
		}

		results = append(results, provider.ToolResult{
			ToolCallID: call.ID,
			Content:    out,
		})
	}
	return results, nil
}
