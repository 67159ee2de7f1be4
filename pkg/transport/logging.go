package transport

import (
	"context"
	"log/slog"
	"time"

	"github.com/rhuss/coursebot/pkg/api"
)

// Logging returns middleware that emits one structured log entry per ask.
// The query itself is not logged; use the engine TRACE category for that.
func Logging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Asker) Asker {
		return AskerFunc(func(ctx context.Context, req *api.AskRequest) (*api.AskResponse, error) {
			start := time.Now()

			resp, err := next.Ask(ctx, req)

			attrs := []slog.Attr{
				slog.String("request_id", RequestIDFromContext(ctx)),
				slog.Int("query_length", len(req.Query)),
				slog.Bool("history", req.History != ""),
				slog.Duration("duration", time.Since(start)),
			}

			if err != nil {
				attrs = append(attrs, slog.String("error", err.Error()))
				logger.LogAttrs(ctx, slog.LevelError, "ask failed", attrs...)
				return nil, err
			}
			attrs = append(attrs,
				slog.String("provider", resp.Provider),
				slog.Int("rounds", resp.Rounds),
				slog.String("stop_reason", resp.StopReason),
			)
			logger.LogAttrs(ctx, slog.LevelInfo, "ask completed", attrs...)
			return resp, nil
		})
	}
}
