package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rhuss/coursebot/pkg/api"
	"github.com/rhuss/coursebot/pkg/provider/factory"
	"github.com/rhuss/coursebot/pkg/transport"
	transporthttp "github.com/rhuss/coursebot/pkg/transport/http"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the ask API over HTTP",
		Long:  "serve exposes POST /v1/ask, DELETE /v1/ask/{id}, GET /v1/providers, GET /healthz and Prometheus metrics.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, root, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default \":<server.port>\")")
	return cmd
}

func runServe(ctx context.Context, root *rootOptions, addr string) error {
	a, err := newApp(ctx, root)
	if err != nil {
		return err
	}
	defer a.Close()

	cfg := a.cfg
	if addr == "" {
		addr = fmt.Sprintf(":%d", cfg.Server.Port)
	}

	active := a.gen.Provider().Name()
	var providers []api.ProviderInfo
	for _, name := range factory.Available(cfg.Credentials()) {
		if name == factory.TypeRandom {
			continue
		}
		providers = append(providers, api.ProviderInfo{Name: name, Active: name == active})
	}

	opts := []transporthttp.ServerOption{
		transporthttp.WithAddr(addr),
		transporthttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout),
		transporthttp.WithProviders(providers),
	}
	if cfg.Observability.Metrics.Enabled {
		opts = append(opts, transporthttp.WithMetrics(cfg.Observability.Metrics.Path))
	}
	chain, limiter, err := cfg.AuthChain()
	if err != nil {
		return fmt.Errorf("configuring auth: %w", err)
	}
	if chain != nil {
		opts = append(opts, transporthttp.WithAuth(chain, limiter))
	}

	srv := transporthttp.NewServer(transport.NewEngineAsker(a.gen, a.manager), opts...)
	return srv.Run(ctx)
}
