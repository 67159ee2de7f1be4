package provider

import "encoding/json"

// StopReason classifies why a provider finished a turn.
type StopReason string

const (
	// StopReasonEndTurn means the model produced a final answer.
	StopReasonEndTurn StopReason = "end_turn"

	// StopReasonToolUse means the model wants one or more tools executed
	// before it continues. A Response carries this reason if and only if
	// it has at least one ToolCall.
	StopReasonToolUse StopReason = "tool_use"

	// StopReasonError means the call failed at the provider boundary.
	// Content holds a human-readable error text and Metadata["error"]
	// the underlying detail.
	StopReasonError StopReason = "error"
)

// Metadata keys set by the provider variants.
const (
	MetaModel            = "model"
	MetaUsage            = "usage"
	MetaError            = "error"
	MetaVendorStopReason = "vendor_stop_reason"
)

// Response is the vendor-neutral result of a single provider call.
//
// ToolCalls and Metadata are never nil on a Response returned by a
// Provider; use Normalize when constructing one by hand.
type Response struct {
	Content    string         `json:"content"`
	ToolCalls  []ToolCall     `json:"tool_calls"`
	StopReason StopReason     `json:"stop_reason"`
	Metadata   map[string]any `json:"metadata"`
}

// WantsTools reports whether the provider asked for tool execution.
func (r Response) WantsTools() bool {
	return r.StopReason == StopReasonToolUse
}

// ToolCall is a model's request to invoke a tool.
type ToolCall struct {
	// ID is unique within one Response. Vendors that do not assign ids
	// get synthetic ones from the provider variant.
	ID string `json:"id"`

	// Name is the tool identifier.
	Name string `json:"name"`

	// Parameters holds the decoded tool arguments.
	Parameters map[string]any `json:"parameters"`
}

// ToolResult carries the output of one ToolCall back to the provider.
type ToolResult struct {
	// ToolCallID references a ToolCall.ID of the immediately preceding
	// Response.
	ToolCallID string `json:"tool_call_id"`

	// Content is the tool output text.
	Content string `json:"content"`

	// IsError marks Content as an error message.
	IsError bool `json:"is_error,omitempty"`
}

// ToolDefinition describes a tool the model may call.
type ToolDefinition struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema InputSchema `json:"input_schema"`
}

// InputSchema is the JSON-Schema-like description of a tool's parameters.
// Type is always "object" for tool inputs.
type InputSchema struct {
	Type       string                    `json:"type"`
	Properties map[string]PropertySchema `json:"properties,omitempty"`
	Required   []string                  `json:"required,omitempty"`
}

// PropertySchema describes a single tool parameter. Type is one of
// object, array, string, number, integer, boolean or null.
type PropertySchema struct {
	Type        string                    `json:"type"`
	Description string                    `json:"description,omitempty"`
	Enum        []string                  `json:"enum,omitempty"`
	Items       *PropertySchema           `json:"items,omitempty"`
	Properties  map[string]PropertySchema `json:"properties,omitempty"`
	Required    []string                  `json:"required,omitempty"`
}

// PropertiesMap returns the schema properties as a generic map, the shape
// vendor SDKs accept for free-form JSON schema fields.
func (s InputSchema) PropertiesMap() map[string]any {
	out := make(map[string]any, len(s.Properties))
	for name, prop := range s.Properties {
		var m map[string]any
		data, err := json.Marshal(prop)
		if err != nil {
			continue
		}
		if err := json.Unmarshal(data, &m); err != nil {
			continue
		}
		out[name] = m
	}
	return out
}

// Map returns the whole schema as a generic map.
func (s InputSchema) Map() map[string]any {
	typ := s.Type
	if typ == "" {
		typ = "object"
	}
	m := map[string]any{
		"type":       typ,
		"properties": s.PropertiesMap(),
	}
	if len(s.Required) > 0 {
		m["required"] = append([]string(nil), s.Required...)
	}
	return m
}

// Usage reports token consumption for a single call.
type Usage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
}

// Map returns the usage in the shape stored under Metadata["usage"].
func (u Usage) Map() map[string]any {
	return map[string]any{
		"input_tokens":  u.InputTokens,
		"output_tokens": u.OutputTokens,
	}
}

// GenerationParams are the fixed sampling parameters of a provider
// instance. They are set at construction and never change afterwards.
type GenerationParams struct {
	Temperature float64
	MaxTokens   int
}

// DefaultGenerationParams returns deterministic sampling with a short
// answer budget.
func DefaultGenerationParams() GenerationParams {
	return GenerationParams{
		Temperature: 0,
		MaxTokens:   800,
	}
}
