package anthropic

import (
	"encoding/json"
	"log/slog"

	sdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/rhuss/coursebot/pkg/provider"
)

// toResponse normalizes a Messages API answer.
//
// Only the first content block is read as the answer text. A reply with
// several text blocks, or one that opens with a tool_use block, loses the
// remaining text.
func (p *Provider) toResponse(msg *sdk.Message) provider.Response {
	var content string
	if len(msg.Content) > 0 {
		content = msg.Content[0].Text
	}

	var calls []provider.ToolCall
	if msg.StopReason == sdk.StopReasonToolUse {
		calls = p.ExtractToolCalls(msg)
	}

	usage := provider.Usage{
		InputTokens:  msg.Usage.InputTokens,
		OutputTokens: msg.Usage.OutputTokens,
	}

	return provider.Normalize(provider.Response{
		Content:    content,
		ToolCalls:  calls,
		StopReason: provider.StopReason(msg.StopReason),
		Metadata: map[string]any{
			provider.MetaModel: p.cfg.Model,
			provider.MetaUsage: usage.Map(),
		},
	})
}

// ExtractToolCalls returns the tool_use blocks of msg in order. Anthropic
// assigns ids itself, so they are passed through unchanged.
func (p *Provider) ExtractToolCalls(msg *sdk.Message) []provider.ToolCall {
	if msg == nil {
		return []provider.ToolCall{}
	}

	calls := make([]provider.ToolCall, 0, len(msg.Content))
	for _, block := range msg.Content {
		if block.Type != "tool_use" {
			continue
		}
		params := map[string]any{}
		if len(block.Input) > 0 {
			if err := json.Unmarshal(block.Input, &params); err != nil {
				slog.Warn("anthropic tool input is not a JSON object",
					"tool", block.Name, "id", block.ID, "error", err)
				params = map[string]any{}
			}
		}
		calls = append(calls, provider.ToolCall{
			ID:         block.ID,
			Name:       block.Name,
			Parameters: params,
		})
	}
	return calls
}
