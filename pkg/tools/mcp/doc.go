// Package mcp provides a tools.Manager backed by MCP (Model Context
// Protocol) servers. It connects to each configured server through the
// official Go SDK, discovers the tools the servers offer and routes every
// tool call to the server that owns the tool.
//
// Servers are reached over streamable HTTP or SSE. Requests may carry
// static headers and an OAuth 2.0 client credentials token.
package mcp
