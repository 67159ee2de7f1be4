package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rhuss/coursebot/pkg/provider"
	"github.com/rhuss/coursebot/pkg/tools"
)

// Manager implements tools.Manager over one or more MCP servers.
type Manager struct {
	mu sync.RWMutex

	// clients in configuration order; earlier servers win tool name
	// conflicts.
	clients []*Client

	// toolToClient maps tool name to the owning server.
	toolToClient map[string]*Client

	defs []provider.ToolDefinition
}

// Ensure Manager implements tools.Manager at compile time.
var _ tools.Manager = (*Manager)(nil)

// NewManager creates a Manager over already connected clients and
// discovers their tools. A server whose tool listing fails is skipped
// with an error log.
func NewManager(ctx context.Context, clients ...*Client) *Manager {
	m := &Manager{
		clients:      clients,
		toolToClient: make(map[string]*Client),
		defs:         []provider.ToolDefinition{},
	}

	for _, c := range clients {
		defs, err := c.DiscoverTools(ctx)
		if err != nil {
			slog.Error("failed to discover tools from MCP server", "server", c.Name(), "error", err)
			continue
		}
		for _, def := range defs {
			if owner, exists := m.toolToClient[def.Name]; exists {
				slog.Warn("duplicate MCP tool name, keeping first server",
					"tool", def.Name,
					"winner", owner.Name(),
					"server", c.Name(),
				)
				continue
			}
			m.toolToClient[def.Name] = c
			m.defs = append(m.defs, def)
		}
		slog.Info("discovered MCP tools", "server", c.Name(), "count", len(defs))
	}
	return m
}

// Connect connects to every configured server and returns a Manager over
// them. If any connection fails, the established ones are closed.
func Connect(ctx context.Context, servers []ServerConfig) (*Manager, error) {
	clients := make([]*Client, 0, len(servers))
	for _, cfg := range servers {
		c := NewClient(cfg)
		if err := c.Connect(ctx); err != nil {
			for _, open := range clients {
				_ = open.Close()
			}
			return nil, err
		}
		clients = append(clients, c)
	}
	return NewManager(ctx, clients...), nil
}

// Definitions returns the discovered tools in server order.
func (m *Manager) Definitions() []provider.ToolDefinition {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]provider.ToolDefinition(nil), m.defs...)
}

// Execute routes the call to the server that provides the tool.
func (m *Manager) Execute(ctx context.Context, name string, params map[string]any) (string, error) {
	m.mu.RLock()
	c, ok := m.toolToClient[name]
	m.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("%w: no MCP server provides %q", tools.ErrUnknownTool, name)
	}
	return c.CallTool(ctx, name, params)
}

// Close closes all server connections.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var errs []error
	for _, c := range m.clients {
		if err := c.Close(); err != nil {
			slog.Warn("failed to close MCP client", "server", c.Name(), "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
