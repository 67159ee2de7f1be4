package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/rhuss/coursebot/pkg/api"
	"github.com/rhuss/coursebot/pkg/debug"
	"github.com/rhuss/coursebot/pkg/transport"
)

// Adapter serves the ask API over HTTP.
// It routes requests to the Asker and serializes responses.
type Adapter struct {
	asker    transport.Asker
	inflight *transport.InFlightRegistry
	mux      *http.ServeMux
	config   Config
}

// Config holds configuration for the HTTP adapter.
type Config struct {
	MaxBodySize int64
	Validation  api.ValidationConfig

	// Providers is reported by GET /v1/providers.
	Providers []api.ProviderInfo
}

// DefaultConfig returns the default adapter configuration.
func DefaultConfig() Config {
	return Config{
		MaxBodySize: 1 << 20, // 1 MB
		Validation:  api.DefaultValidationConfig(),
	}
}

// NewAdapter creates an HTTP adapter for asker. Middleware is applied to
// the Asker in the given order.
func NewAdapter(asker transport.Asker, cfg Config, middlewares ...transport.Middleware) *Adapter {
	if len(middlewares) > 0 {
		asker = transport.Chain(middlewares...)(asker)
	}

	a := &Adapter{
		asker:    asker,
		inflight: transport.NewInFlightRegistry(),
		mux:      http.NewServeMux(),
		config:   cfg,
	}

	a.mux.HandleFunc("POST /v1/ask", a.handleAsk)
	a.mux.HandleFunc("DELETE /v1/ask/{id}", a.handleCancel)
	a.mux.HandleFunc("GET /v1/providers", a.handleProviders)
	a.mux.HandleFunc("GET /healthz", a.handleHealth)

	return a
}

// Handler returns the http.Handler for this adapter. The returned handler
// includes HTTP-level middleware for request ID propagation.
func (a *Adapter) Handler() http.Handler {
	return httpRequestIDMiddleware(a.mux)
}

// Handle registers an additional route on the adapter's mux.
func (a *Adapter) Handle(pattern string, h http.Handler) {
	a.mux.Handle(pattern, h)
}

// httpRequestIDMiddleware assigns the request ID before any handler runs.
// A client supplied X-Request-ID is kept; otherwise a new ask ID is
// generated. The ID is echoed in the X-Request-ID response header.
func httpRequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = api.NewAskID()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(transport.ContextWithRequestID(r.Context(), id)))
	})
}

// handleAsk handles POST /v1/ask.
func (a *Adapter) handleAsk(w http.ResponseWriter, r *http.Request) {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err != nil || mt != "application/json" {
			transport.WriteErrorResponse(w,
				api.NewInvalidRequestError("content_type", "Content-Type must be application/json"),
				http.StatusUnsupportedMediaType,
			)
			return
		}
	}

	r.Body = http.MaxBytesReader(w, r.Body, a.config.MaxBodySize)

	var req api.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			transport.WriteErrorResponse(w,
				api.NewInvalidRequestError("body", fmt.Sprintf("request body too large (max %d bytes)", a.config.MaxBodySize)),
				http.StatusRequestEntityTooLarge,
			)
			return
		}
		transport.WriteErrorResponse(w,
			api.NewInvalidRequestError("body", "invalid JSON: "+err.Error()),
			http.StatusBadRequest,
		)
		return
	}

	if apiErr := api.ValidateRequest(&req, a.config.Validation); apiErr != nil {
		transport.WriteAPIError(w, apiErr)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	id := transport.RequestIDFromContext(ctx)
	if !a.inflight.Register(id, cancel) {
		transport.WriteErrorResponse(w,
			api.NewInvalidRequestError("X-Request-ID", "an ask with this ID is already running"),
			http.StatusConflict,
		)
		return
	}
	defer a.inflight.Remove(id)

	debug.Log("transport", "ask received", "request_id", id, "query_length", len(req.Query))

	resp, err := a.asker.Ask(ctx, &req)
	if err != nil {
		transport.WriteAPIError(w, transport.APIErrorFrom(err))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleCancel handles DELETE /v1/ask/{id}. It cancels a running ask.
func (a *Adapter) handleCancel(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !a.inflight.Cancel(id) {
		transport.WriteAPIError(w, api.NewNotFoundError("no running ask with ID "+id))
		return
	}
	debug.Log("transport", "ask cancelled", "request_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// handleProviders handles GET /v1/providers.
func (a *Adapter) handleProviders(w http.ResponseWriter, _ *http.Request) {
	data := a.config.Providers
	if data == nil {
		data = []api.ProviderInfo{}
	}
	writeJSON(w, http.StatusOK, api.ProviderList{Object: "list", Data: data})
}

// handleHealth handles GET /healthz.
func (a *Adapter) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"inflight": a.inflight.Len(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
