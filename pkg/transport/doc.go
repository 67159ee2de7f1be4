// Package transport defines the handler interface and middleware chain for
// the coursebot HTTP transport.
//
// An [Asker] turns an [api.AskRequest] into an [api.AskResponse].
// [EngineAsker] is the production implementation over an engine
// Generator. Middleware wraps an Asker with panic recovery, request ID
// assignment (X-Request-ID) and structured logging via log/slog.
//
// [InFlightRegistry] tracks running asks so a client can cancel one by ID.
package transport
