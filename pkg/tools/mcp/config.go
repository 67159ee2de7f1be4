package mcp

// Transport names accepted in ServerConfig.Transport.
const (
	TransportStreamableHTTP = "streamable-http"
	TransportSSE            = "sse"
)

// AuthOAuthClientCredentials selects the OAuth 2.0 client credentials
// grant in AuthConfig.Type.
const AuthOAuthClientCredentials = "oauth_client_credentials"

// ServerConfig describes a single MCP server connection.
type ServerConfig struct {
	// Name identifies the server in logs and must be unique.
	Name string `json:"name" yaml:"name"`

	// Transport is "streamable-http" (default) or "sse".
	Transport string `json:"transport,omitempty" yaml:"transport"`

	// URL is the MCP server endpoint.
	URL string `json:"url" yaml:"url"`

	// Headers are sent with every request.
	Headers map[string]string `json:"headers,omitempty" yaml:"headers"`

	// Auth configures token based authentication.
	Auth AuthConfig `json:"auth,omitempty" yaml:"auth"`
}

// AuthConfig configures authentication against an MCP server. An empty
// Type disables it.
type AuthConfig struct {
	Type         string   `json:"type,omitempty" yaml:"type"`
	TokenURL     string   `json:"token_url,omitempty" yaml:"token_url"`
	ClientID     string   `json:"client_id,omitempty" yaml:"client_id"`
	ClientSecret string   `json:"client_secret,omitempty" yaml:"client_secret"`
	Scopes       []string `json:"scopes,omitempty" yaml:"scopes"`
}
