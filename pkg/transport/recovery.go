package transport

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rhuss/coursebot/pkg/api"
)

// Recovery returns middleware that catches panics in the handler and
// converts them to server errors. The server keeps accepting requests
// after a recovered panic.
func Recovery() Middleware {
	return func(next Asker) Asker {
		return AskerFunc(func(ctx context.Context, req *api.AskRequest) (resp *api.AskResponse, retErr error) {
			defer func() {
				if r := recover(); r != nil {
					slog.Error("panic while answering", "request_id", RequestIDFromContext(ctx), "panic", r)
					resp = nil
					retErr = api.NewServerError(fmt.Sprintf("internal server error: %v", r))
				}
			}()
			return next.Ask(ctx, req)
		})
	}
}
