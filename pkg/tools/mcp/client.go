package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rhuss/coursebot/pkg/debug"
	"github.com/rhuss/coursebot/pkg/provider"
)

// ErrToolFailed wraps the text of a tool result the server flagged as an
// error.
var ErrToolFailed = errors.New("mcp tool reported an error")

// clientName and clientVersion identify coursebot in the MCP handshake.
const (
	clientName    = "coursebot"
	clientVersion = "1.0.0"
)

// Client is a connection to a single MCP server.
type Client struct {
	cfg     ServerConfig
	session *mcp.ClientSession

	mu    sync.Mutex
	tools []provider.ToolDefinition
}

// NewClient creates a Client for cfg. Call Connect before use.
func NewClient(cfg ServerConfig) *Client {
	return &Client{cfg: cfg}
}

// Name returns the configured server name.
func (c *Client) Name() string {
	return c.cfg.Name
}

// Connect performs the MCP handshake over the configured transport.
func (c *Client) Connect(ctx context.Context) error {
	return c.ConnectWithTransport(ctx, nil)
}

// ConnectWithTransport performs the handshake over transport. A nil
// transport is built from the server configuration.
func (c *Client) ConnectWithTransport(ctx context.Context, transport mcp.Transport) error {
	client := mcp.NewClient(
		&mcp.Implementation{Name: clientName, Version: clientVersion},
		&mcp.ClientOptions{Capabilities: &mcp.ClientCapabilities{}},
	)

	if transport == nil {
		t, err := c.createTransport()
		if err != nil {
			return fmt.Errorf("creating transport for %q: %w", c.cfg.Name, err)
		}
		transport = t
	}

	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return fmt.Errorf("connecting to MCP server %q: %w", c.cfg.Name, err)
	}
	c.session = session
	debug.Log("mcp", "connected", "server", c.cfg.Name, "transport", c.cfg.Transport)
	return nil
}

func (c *Client) createTransport() (mcp.Transport, error) {
	httpClient, err := c.cfg.httpClient()
	if err != nil {
		return nil, err
	}

	switch c.cfg.Transport {
	case TransportSSE:
		t := &mcp.SSEClientTransport{Endpoint: c.cfg.URL}
		if httpClient != nil {
			t.HTTPClient = httpClient
		}
		return t, nil

	case TransportStreamableHTTP, "":
		t := &mcp.StreamableClientTransport{Endpoint: c.cfg.URL}
		if httpClient != nil {
			t.HTTPClient = httpClient
		}
		return t, nil

	default:
		return nil, fmt.Errorf("unsupported transport type %q", c.cfg.Transport)
	}
}

// DiscoverTools lists the server's tools. The result is cached for the
// lifetime of the connection.
func (c *Client) DiscoverTools(ctx context.Context) ([]provider.ToolDefinition, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.tools != nil {
		return c.tools, nil
	}
	if c.session == nil {
		return nil, fmt.Errorf("MCP client %q not connected", c.cfg.Name)
	}

	defs := []provider.ToolDefinition{}
	for tool, err := range c.session.Tools(ctx, nil) {
		if err != nil {
			return nil, fmt.Errorf("listing tools from %q: %w", c.cfg.Name, err)
		}
		def, err := convertTool(tool)
		if err != nil {
			return nil, fmt.Errorf("converting tool %q from %q: %w", tool.Name, c.cfg.Name, err)
		}
		defs = append(defs, def)
	}

	c.tools = defs
	return defs, nil
}

// CallTool invokes a tool and returns its text content. A result flagged
// as an error is returned as an error wrapping ErrToolFailed.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	if c.session == nil {
		return "", fmt.Errorf("MCP client %q not connected", c.cfg.Name)
	}

	result, err := c.session.CallTool(ctx, &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		return "", fmt.Errorf("calling %q on %q: %w", name, c.cfg.Name, err)
	}

	out := textContent(result)
	if result.IsError {
		return "", fmt.Errorf("%w: %s", ErrToolFailed, out)
	}
	return out, nil
}

// Close ends the session.
func (c *Client) Close() error {
	if c.session != nil {
		return c.session.Close()
	}
	return nil
}

// convertTool maps an MCP tool onto a provider.ToolDefinition.
func convertTool(t *mcp.Tool) (provider.ToolDefinition, error) {
	def := provider.ToolDefinition{
		Name:        t.Name,
		Description: t.Description,
		InputSchema: provider.InputSchema{Type: "object"},
	}
	if t.InputSchema == nil {
		return def, nil
	}

	data, err := json.Marshal(t.InputSchema)
	if err != nil {
		return def, fmt.Errorf("marshaling input schema: %w", err)
	}
	var raw struct {
		Properties map[string]json.RawMessage `json:"properties"`
		Required   []string                   `json:"required"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return def, fmt.Errorf("parsing input schema: %w", err)
	}

	def.InputSchema.Required = raw.Required
	if len(raw.Properties) > 0 {
		def.InputSchema.Properties = make(map[string]provider.PropertySchema, len(raw.Properties))
	}
	for name, rawProp := range raw.Properties {
		var prop provider.PropertySchema
		if err := json.Unmarshal(rawProp, &prop); err != nil || prop.Type == "" {
			// Union types and other constructs the shared schema cannot
			// express degrade to a described string parameter.
			slog.Warn("simplifying MCP tool parameter schema",
				"tool", t.Name, "parameter", name, "schema", string(rawProp))
			prop = provider.PropertySchema{Type: "string", Description: prop.Description}
		}
		def.InputSchema.Properties[name] = prop
	}
	return def, nil
}

// textContent joins the text parts of a tool result.
func textContent(result *mcp.CallToolResult) string {
	var parts []string
	for _, content := range result.Content {
		if tc, ok := content.(*mcp.TextContent); ok {
			parts = append(parts, tc.Text)
		}
	}
	return strings.Join(parts, "\n")
}
