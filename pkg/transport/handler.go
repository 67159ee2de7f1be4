package transport

import (
	"context"

	"github.com/rhuss/coursebot/pkg/api"
)

// Asker answers a single ask request.
type Asker interface {
	Ask(ctx context.Context, req *api.AskRequest) (*api.AskResponse, error)
}

// AskerFunc is an adapter that allows using an ordinary function as an
// Asker.
type AskerFunc func(ctx context.Context, req *api.AskRequest) (*api.AskResponse, error)

// Ask calls f(ctx, req).
func (f AskerFunc) Ask(ctx context.Context, req *api.AskRequest) (*api.AskResponse, error) {
	return f(ctx, req)
}
