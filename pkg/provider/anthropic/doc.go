// Package anthropic implements provider.Provider for the Anthropic
// Messages API using the official Go SDK. It builds one flat message list
// per call, folds conversation history into the system text, replays
// tool_use and tool_result blocks on continuation turns, and maps SDK
// errors into fail-soft error responses.
package anthropic
