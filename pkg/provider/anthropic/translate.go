package anthropic

import (
	sdk "github.com/anthropics/anthropic-sdk-go"

	"github.com/rhuss/coursebot/pkg/provider"
)

// TranslateTools converts tool definitions into Messages API tool params.
// The shared format already mirrors Anthropic's, so this is a field copy.
func (p *Provider) TranslateTools(tools []provider.ToolDefinition) []sdk.ToolUnionParam {
	out := make([]sdk.ToolUnionParam, 0, len(tools))
	for _, t := range tools {
		schema := sdk.ToolInputSchemaParam{
			Properties: t.InputSchema.PropertiesMap(),
		}
		if len(t.InputSchema.Required) > 0 {
			schema.ExtraFields = map[string]any{
				"required": append([]string(nil), t.InputSchema.Required...),
			}
		}

		tool := sdk.ToolParam{
			Name:        t.Name,
			InputSchema: schema,
		}
		if t.Description != "" {
			tool.Description = sdk.String(t.Description)
		}
		out = append(out, sdk.ToolUnionParam{OfTool: &tool})
	}
	return out
}

// continuationMessages rebuilds the exchange for a follow-up call: the
// original question, the assistant turn that requested tools, and the
// tool results.
func continuationMessages(req provider.ContinueRequest) []sdk.MessageParam {
	msgs := make([]sdk.MessageParam, 0, 3)

	if req.Query != "" {
		msgs = append(msgs, sdk.NewUserMessage(sdk.NewTextBlock(req.Query)))
	}

	assistant := make([]sdk.ContentBlockParamUnion, 0, len(req.Prior.ToolCalls)+1)
	if req.Prior.Content != "" {
		assistant = append(assistant, sdk.NewTextBlock(req.Prior.Content))
	}
	for _, tc := range req.Prior.ToolCalls {
		input := tc.Parameters
		if input == nil {
			input = map[string]any{}
		}
		assistant = append(assistant, sdk.NewToolUseBlock(tc.ID, input, tc.Name))
	}
	msgs = append(msgs, sdk.NewAssistantMessage(assistant...))

	results := make([]sdk.ContentBlockParamUnion, 0, len(req.Results))
	for _, r := range req.Results {
		results = append(results, sdk.NewToolResultBlock(r.ToolCallID, r.Content, r.IsError))
	}
	msgs = append(msgs, sdk.NewUserMessage(results...))

	return msgs
}
