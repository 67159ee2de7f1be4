package api

// AskRequest is the body of POST /v1/ask.
type AskRequest struct {
	// Query is the user's question. Required.
	Query string `json:"query"`

	// History is the prior conversation, formatted by the client.
	History string `json:"history,omitempty"`
}

// AskResponse is the successful reply to an AskRequest.
type AskResponse struct {
	ID         string          `json:"id"`
	Object     string          `json:"object"`
	Answer     string          `json:"answer"`
	Provider   string          `json:"provider"`
	Rounds     int             `json:"rounds"`
	StopReason string          `json:"stop_reason"`
	Executions []ToolExecution `json:"executions,omitempty"`
}

// ObjectAnswer is the Object value of every AskResponse.
const ObjectAnswer = "answer"

// ToolExecution describes a single tool call made while answering.
type ToolExecution struct {
	Iteration    int            `json:"iteration"`
	Tool         string         `json:"tool"`
	Parameters   map[string]any `json:"parameters"`
	ResultLength int            `json:"result_length"`
}

// ProviderInfo describes a configured provider for GET /v1/providers.
type ProviderInfo struct {
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// ProviderList is the reply of GET /v1/providers.
type ProviderList struct {
	Object string         `json:"object"`
	Data   []ProviderInfo `json:"data"`
}
