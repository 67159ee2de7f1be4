// Package api defines the wire types of the coursebot ask endpoint.
//
// A client posts an [AskRequest] carrying the user's query and optional
// conversation history; the server answers with an [AskResponse] holding
// the final answer, the number of tool rounds used and, when loop
// debugging is enabled, one [ToolExecution] per tool call. Failures are
// reported as an [ErrorResponse] wrapping an [APIError].
//
// The package performs no I/O.
package api
