package auth

import (
	"log/slog"
	"net/http"

	"github.com/rhuss/coursebot/pkg/api"
	"github.com/rhuss/coursebot/pkg/debug"
	"github.com/rhuss/coursebot/pkg/observability"
	"github.com/rhuss/coursebot/pkg/transport"
)

// Middleware authenticates every request except those whose path is in
// bypass. limiter may be nil.
func Middleware(chain *Chain, limiter Limiter, bypass ...string) func(http.Handler) http.Handler {
	skip := make(map[string]bool, len(bypass))
	for _, p := range bypass {
		skip[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			res := chain.Authenticate(r.Context(), r)
			if res.Decision != Yes || res.Identity == nil || res.Identity.Subject == "" {
				slog.Warn("authentication failed",
					"path", r.URL.Path,
					"remote_addr", r.RemoteAddr,
					"error", res.Err,
				)
				observability.AuthRejectedTotal.WithLabelValues("unauthenticated").Inc()
				transport.WriteAPIError(w, api.NewAuthenticationError("authentication required"))
				return
			}

			if limiter != nil {
				if err := limiter.Allow(r.Context(), res.Identity); err != nil {
					slog.Warn("rate limit exceeded", "subject", res.Identity.Subject, "tier", res.Identity.Tier)
					observability.AuthRejectedTotal.WithLabelValues("rate_limited").Inc()
					transport.WriteAPIError(w, api.NewRateLimitError(err.Error()))
					return
				}
			}

			debug.Log("transport", "authenticated", "subject", res.Identity.Subject, "path", r.URL.Path)
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), res.Identity)))
		})
	}
}
