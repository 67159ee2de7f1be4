// Package provider defines the vendor-neutral contract for LLM backends
// used by the coursebot engine. Each variant (anthropic, gemini) handles
// its own wire format internally and hands back the shared Response,
// ToolCall and ToolResult types, keeping vendor details invisible to the
// engine.
//
// Provider calls never fail with a Go error. A transport or vendor failure
// becomes a Response with StopReasonError so the caller always has a
// well-formed answer to reason about. Configuration problems are reported
// at construction time by the factory package instead.
package provider
