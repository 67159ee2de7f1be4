package provider

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
)

// ErrToolResultMismatch is returned by ValidateToolResults when a result
// does not answer a call of the prior response.
var ErrToolResultMismatch = errors.New("tool result does not match a tool call")

// Normalize enforces the Response invariants: ToolCalls and Metadata are
// non-nil, and StopReasonToolUse is set exactly when tool calls are
// present. Error responses keep their stop reason. Any other vendor stop
// reason collapses into StopReasonEndTurn.
func Normalize(r Response) Response {
	if r.ToolCalls == nil {
		r.ToolCalls = []ToolCall{}
	}
	if r.Metadata == nil {
		r.Metadata = map[string]any{}
	}
	for i := range r.ToolCalls {
		if r.ToolCalls[i].Parameters == nil {
			r.ToolCalls[i].Parameters = map[string]any{}
		}
	}

	if r.StopReason == StopReasonError {
		r.ToolCalls = []ToolCall{}
		return r
	}
	if r.StopReason != "" && r.StopReason != StopReasonToolUse && r.StopReason != StopReasonEndTurn {
		if _, ok := r.Metadata[MetaVendorStopReason]; !ok {
			r.Metadata[MetaVendorStopReason] = string(r.StopReason)
		}
	}
	if len(r.ToolCalls) > 0 {
		r.StopReason = StopReasonToolUse
	} else {
		r.StopReason = StopReasonEndTurn
	}
	return r
}

// ErrorResponse converts a provider failure into a fail-soft Response.
func ErrorResponse(prefix string, err error, model string) Response {
	return Response{
		Content:    fmt.Sprintf("%s: %v", prefix, err),
		ToolCalls:  []ToolCall{},
		StopReason: StopReasonError,
		Metadata: map[string]any{
			MetaError: err.Error(),
			MetaModel: model,
		},
	}
}

// ValidateToolResults checks that every result references a tool call of
// prior. Continuations must be rejected before contacting the vendor when
// this fails.
func ValidateToolResults(prior Response, results []ToolResult) error {
	ids := make(map[string]struct{}, len(prior.ToolCalls))
	for _, tc := range prior.ToolCalls {
		ids[tc.ID] = struct{}{}
	}
	for _, r := range results {
		if _, ok := ids[r.ToolCallID]; !ok {
			return fmt.Errorf("%w: %q", ErrToolResultMismatch, r.ToolCallID)
		}
	}
	return nil
}

// ToolNameFor returns the tool name of the call with the given id in r,
// or the empty string.
func ToolNameFor(r Response, callID string) string {
	for _, tc := range r.ToolCalls {
		if tc.ID == callID {
			return tc.Name
		}
	}
	return ""
}

// Recover converts a panic raised during a provider call into an error
// Response written to *resp. Use it as the first deferred call of every
// Provider method with a named Response result.
func Recover(resp *Response, prefix, model string) {
	r := recover()
	if r == nil {
		return
	}
	slog.Error("provider call panicked", "panic", r, "model", model, "stack", string(debug.Stack()))
	*resp = ErrorResponse(prefix, fmt.Errorf("panic: %v", r), model)
}
