package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rhuss/coursebot/pkg/api"
	"github.com/rhuss/coursebot/pkg/auth"
	"github.com/rhuss/coursebot/pkg/observability"
	"github.com/rhuss/coursebot/pkg/transport"
)

// Server wraps an http.Server with the transport adapter and manages
// the full lifecycle including startup and graceful shutdown.
type Server struct {
	httpServer *http.Server
	adapter    *Adapter
	config     ServerConfig
	logger     *slog.Logger
}

// ServerConfig holds configuration for the transport server.
type ServerConfig struct {
	Addr            string
	MaxBodySize     int64
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// MetricsPath mounts the Prometheus handler and request metrics when
	// not empty.
	MetricsPath string

	Providers []api.ProviderInfo
	Logger    *slog.Logger

	// Auth guards every route except /healthz and the metrics path when
	// set.
	Auth    *auth.Chain
	Limiter auth.Limiter
}

// DefaultServerConfig returns a ServerConfig with sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:            ":8080",
		MaxBodySize:     1 << 20, // 1 MB
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    120 * time.Second,
		ShutdownTimeout: 30 * time.Second,
		Logger:          slog.Default(),
	}
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithAddr sets the listen address.
func WithAddr(addr string) ServerOption {
	return func(s *Server) { s.config.Addr = addr }
}

// WithMaxBodySize sets the maximum request body size.
func WithMaxBodySize(n int64) ServerOption {
	return func(s *Server) { s.config.MaxBodySize = n }
}

// WithTimeouts sets the read and write timeouts of the HTTP server.
func WithTimeouts(read, write time.Duration) ServerOption {
	return func(s *Server) {
		s.config.ReadTimeout = read
		s.config.WriteTimeout = write
	}
}

// WithShutdownTimeout sets the graceful shutdown deadline.
func WithShutdownTimeout(d time.Duration) ServerOption {
	return func(s *Server) { s.config.ShutdownTimeout = d }
}

// WithMetrics exposes Prometheus metrics at path and records request
// metrics for every route.
func WithMetrics(path string) ServerOption {
	return func(s *Server) { s.config.MetricsPath = path }
}

// WithProviders sets the list reported by GET /v1/providers.
func WithProviders(p []api.ProviderInfo) ServerOption {
	return func(s *Server) { s.config.Providers = p }
}

// WithAuth requires callers to pass chain and, when limiter is not nil,
// stay within its budget.
func WithAuth(chain *auth.Chain, limiter auth.Limiter) ServerOption {
	return func(s *Server) {
		s.config.Auth = chain
		s.config.Limiter = limiter
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) ServerOption {
	return func(s *Server) { s.config.Logger = l; s.logger = l }
}

// NewServer creates a new transport server for asker with the given
// options. Default middleware (recovery, request ID, logging) is applied
// automatically.
func NewServer(asker transport.Asker, opts ...ServerOption) *Server {
	s := &Server{
		config: DefaultServerConfig(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	adapterCfg := DefaultConfig()
	adapterCfg.MaxBodySize = s.config.MaxBodySize
	adapterCfg.Providers = s.config.Providers

	s.adapter = NewAdapter(asker, adapterCfg,
		transport.Recovery(),
		transport.RequestID(),
		transport.Logging(s.logger),
	)

	if s.config.MetricsPath != "" {
		s.adapter.Handle("GET "+s.config.MetricsPath, promhttp.Handler())
	}
	handler := s.adapter.Handler()
	if s.config.Auth != nil {
		bypass := []string{"/healthz"}
		if s.config.MetricsPath != "" {
			bypass = append(bypass, s.config.MetricsPath)
		}
		handler = auth.Middleware(s.config.Auth, s.config.Limiter, bypass...)(handler)
	}
	if s.config.MetricsPath != "" {
		handler = observability.MetricsMiddleware(handler)
	}

	s.httpServer = &http.Server{
		Addr:         s.config.Addr,
		Handler:      handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	return s
}

// Handler returns the complete HTTP handler. Used for testing.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run listens on the configured address and blocks until ctx is done. It
// then shuts down gracefully, waiting for in-flight asks to complete
// within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return err
	}
	return s.ServeOn(ctx, ln)
}

// ServeOn serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) ServeOn(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", slog.String("addr", ln.Addr().String()))
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	}
	return s.shutdown()
}

func (s *Server) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down gracefully", slog.Duration("timeout", s.config.ShutdownTimeout))
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("shutdown error", slog.String("error", err.Error()))
		return err
	}
	s.logger.Info("server stopped")
	return nil
}
