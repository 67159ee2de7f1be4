package auth

import (
	"context"
	"sync"
	"time"
)

// Limiter decides whether an identity may make another request.
type Limiter interface {
	Allow(ctx context.Context, id *Identity) error
}

// WindowLimiter allows a fixed number of requests per subject in each
// one minute window. A limit of zero or less disables the tier.
type WindowLimiter struct {
	tiers      map[string]int
	defaultRPM int
	now        func() time.Time

	mu      sync.Mutex
	windows map[string]*window
}

type window struct {
	start time.Time
	count int
}

// NewWindowLimiter creates a limiter with defaultRPM requests per minute
// and per-tier overrides.
func NewWindowLimiter(defaultRPM int, tiers map[string]int) *WindowLimiter {
	return &WindowLimiter{
		tiers:      tiers,
		defaultRPM: defaultRPM,
		now:        time.Now,
		windows:    make(map[string]*window),
	}
}

// Allow counts the request against the identity's window and returns
// ErrTooManyRequests once the limit is exceeded.
func (l *WindowLimiter) Allow(_ context.Context, id *Identity) error {
	limit := l.defaultRPM
	if n, ok := l.tiers[id.Tier]; ok && id.Tier != "" {
		limit = n
	}
	if limit <= 0 {
		return nil
	}

	key := id.Tier + "/" + id.Subject
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.windows[key]
	if !ok || now.Sub(w.start) >= time.Minute {
		l.windows[key] = &window{start: now, count: 1}
		return nil
	}
	if w.count >= limit {
		return ErrTooManyRequests
	}
	w.count++
	return nil
}
