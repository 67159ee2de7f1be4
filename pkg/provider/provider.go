package provider

import "context"

// Provider abstracts an LLM backend. Each variant translates the shared
// request types into its vendor wire format and normalizes the vendor
// answer back into a Response.
//
// Provider calls are fail-soft: transport and vendor failures are
// returned as a Response with StopReasonError, never as a Go error or a
// panic. Implementations hold no per-query state and are safe for
// concurrent use by multiple goroutines.
type Provider interface {
	// Name returns the provider identifier (e.g., "claude", "gemini").
	Name() string

	// GenerateResponse performs the initial call for a query.
	GenerateResponse(ctx context.Context, req GenerateRequest) Response

	// ContinueAfterTools replays the prior assistant turn together with
	// the tool outputs and asks the model to continue.
	ContinueAfterTools(ctx context.Context, req ContinueRequest) Response
}

// SchemaTranslator converts vendor-neutral tool definitions into the
// vendor's native tool descriptor T. Translation is pure and performs no
// network calls.
type SchemaTranslator[T any] interface {
	TranslateTools(tools []ToolDefinition) T
}

// ToolCallExtractor pulls the tool calls out of a vendor response R,
// preserving vendor order and assigning synthetic ids where the vendor
// supplies none.
type ToolCallExtractor[R any] interface {
	ExtractToolCalls(resp R) []ToolCall
}

// GenerateRequest is the input of the initial provider call.
type GenerateRequest struct {
	// Query is the user's question. Must not be empty.
	Query string

	// SystemPrompt sets the model's behavior.
	SystemPrompt string

	// History is optional prior conversation rendered as text.
	History string

	// Tools lists the tools the model may request. Empty disables tool use.
	Tools []ToolDefinition
}

// ContinueRequest is the input of a follow-up call after tool execution.
type ContinueRequest struct {
	// Query is the original user question.
	Query string

	// Prior is the response whose ToolCalls were executed.
	Prior Response

	// Results holds one ToolResult per executed call, in call order.
	Results []ToolResult

	SystemPrompt string
	History      string

	// Tools is the active tool set of the exchange. It is passed on every
	// continuation so the model may request further tools.
	Tools []ToolDefinition
}

// ComposeSystem joins the system prompt and the optional conversation
// history into a single instruction text.
func ComposeSystem(systemPrompt, history string) string {
	if history == "" {
		return systemPrompt
	}
	return systemPrompt + "\n\nPrevious conversation:\n" + history
}
