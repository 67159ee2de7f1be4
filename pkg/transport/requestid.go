package transport

import (
	"context"

	"github.com/rhuss/coursebot/pkg/api"
)

// RequestID returns middleware that assigns a request ID to each request.
// An ID already in the context (set by the HTTP adapter from the
// X-Request-ID header) is kept; otherwise a new ask ID is generated.
func RequestID() Middleware {
	return func(next Asker) Asker {
		return AskerFunc(func(ctx context.Context, req *api.AskRequest) (*api.AskResponse, error) {
			if RequestIDFromContext(ctx) == "" {
				ctx = ContextWithRequestID(ctx, api.NewAskID())
			}
			return next.Ask(ctx, req)
		})
	}
}
