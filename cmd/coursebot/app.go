package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rhuss/coursebot/pkg/config"
	"github.com/rhuss/coursebot/pkg/debug"
	"github.com/rhuss/coursebot/pkg/engine"
	"github.com/rhuss/coursebot/pkg/provider/factory"
	"github.com/rhuss/coursebot/pkg/tools"
	"github.com/rhuss/coursebot/pkg/tools/catalog"
	"github.com/rhuss/coursebot/pkg/tools/mcp"
)

// app holds the components shared by ask and serve.
type app struct {
	cfg     *config.Config
	gen     *engine.Generator
	manager tools.Manager
	mcp     *mcp.Manager
}

// loadConfig loads the configuration and applies command line overrides.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	if opts.provider != "" {
		if _, err := factory.Canonical(opts.provider); err != nil {
			return nil, err
		}
		cfg.Provider.Type = opts.provider
	}

	debug.Init(debug.Settings{
		Categories: cfg.Log.Debug,
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
	})
	return cfg, nil
}

// newApp builds the provider, connects the MCP servers or loads the
// course catalog, and creates the generator.
func newApp(ctx context.Context, opts *rootOptions) (*app, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	p, err := factory.New(ctx, cfg.Provider.Type, cfg.Credentials(), cfg.ProviderOptions())
	if err != nil {
		return nil, fmt.Errorf("creating provider: %w", err)
	}
	slog.Info("provider ready", "provider", p.Name(), "type", cfg.Provider.Type)

	a := &app{cfg: cfg}
	switch {
	case len(cfg.MCP.Servers) > 0:
		m, err := mcp.Connect(ctx, cfg.MCPServers())
		if err != nil {
			return nil, fmt.Errorf("connecting MCP servers: %w", err)
		}
		a.mcp = m
		a.manager = tools.Filter(m, cfg.MCP.AllowedTools)
		slog.Info("tools ready", "servers", len(cfg.MCP.Servers), "tools", len(a.manager.Definitions()))
	case cfg.Catalog.Enabled:
		c, err := catalog.Load(cfg.Catalog.Path)
		if err != nil {
			return nil, fmt.Errorf("loading catalog: %w", err)
		}
		r, err := catalog.NewRegistry(c)
		if err != nil {
			return nil, err
		}
		a.manager = tools.Filter(r, cfg.MCP.AllowedTools)
		slog.Info("tools ready", "catalog", cfg.Catalog.Path, "courses", len(c.Courses()), "tools", len(a.manager.Definitions()))
	}

	a.gen, err = engine.New(p, cfg.EngineConfig())
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

// Close disconnects from the MCP servers.
func (a *app) Close() error {
	if a.mcp == nil {
		return nil
	}
	return a.mcp.Close()
}
