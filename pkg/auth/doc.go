// Package auth guards the coursebot HTTP API.
//
// Authentication runs a Chain of Authenticators. Each one votes Yes
// (identity found), No (credentials present but invalid) or Abstain (not
// its kind of credential). The first Yes or No wins; when every member
// abstains the chain admits an anonymous caller only if AllowAnonymous is
// set.
//
// Middleware turns a Chain and an optional Limiter into HTTP middleware.
// Rejected requests receive the API error envelope used by every other
// endpoint.
package auth
