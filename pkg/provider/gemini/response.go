package gemini

import (
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/rhuss/coursebot/pkg/provider"
)

// toResponse normalizes a generate-content answer. The parts of the first
// candidate are scanned directly: text parts are concatenated into the
// content, function-call parts become tool calls and thought parts are
// dropped. The SDK's Text accessor is never used.
func (p *Provider) toResponse(resp *genai.GenerateContentResponse) (provider.Response, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return provider.Response{}, ErrNoCandidates
	}
	cand := resp.Candidates[0]

	var text strings.Builder
	if cand.Content != nil {
		for _, part := range cand.Content.Parts {
			if part == nil || part.Thought || part.FunctionCall != nil {
				continue
			}
			text.WriteString(part.Text)
		}
	}

	meta := map[string]any{provider.MetaModel: p.cfg.Model}
	if u := resp.UsageMetadata; u != nil {
		meta[provider.MetaUsage] = provider.Usage{
			InputTokens:  int64(u.PromptTokenCount),
			OutputTokens: int64(u.CandidatesTokenCount),
		}.Map()
	}

	return provider.Normalize(provider.Response{
		Content:    text.String(),
		ToolCalls:  p.ExtractToolCalls(resp),
		StopReason: provider.StopReason(cand.FinishReason),
		Metadata:   meta,
	}), nil
}

// ExtractToolCalls returns the function calls of the first candidate in
// order. Calls without a vendor id get "call_<n>", n counting function
// calls only; n is skipped ahead past ids the vendor already used.
func (p *Provider) ExtractToolCalls(resp *genai.GenerateContentResponse) []provider.ToolCall {
	calls := []provider.ToolCall{}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return calls
	}

	parts := resp.Candidates[0].Content.Parts
	used := make(map[string]bool)
	for _, part := range parts {
		if part != nil && part.FunctionCall != nil && part.FunctionCall.ID != "" {
			used[part.FunctionCall.ID] = true
		}
	}

	n := 0
	for _, part := range parts {
		if part == nil || part.FunctionCall == nil {
			continue
		}
		fc := part.FunctionCall
		id := fc.ID
		if id == "" {
			for i := n; ; i++ {
				id = fmt.Sprintf("call_%d", i)
				if !used[id] {
					break
				}
			}
			used[id] = true
		}
		params := make(map[string]any, len(fc.Args))
		for k, v := range fc.Args {
			params[k] = v
		}
		calls = append(calls, provider.ToolCall{
			ID:         id,
			Name:       fc.Name,
			Parameters: params,
		})
		n++
	}
	return calls
}
