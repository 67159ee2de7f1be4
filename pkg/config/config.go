// Package config provides unified configuration for coursebot.
//
// Configuration is loaded with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (COURSEBOT_ prefix and vendor key variables)
//  4. File reference resolution (_file suffix fields)
//  5. Validation
package config

import "time"

// Config holds all configuration for coursebot.
type Config struct {
	Provider      ProviderConfig      `yaml:"provider"`
	Loop          LoopConfig          `yaml:"loop"`
	MCP           MCPConfig           `yaml:"mcp"`
	Catalog       CatalogConfig       `yaml:"catalog"`
	Server        ServerConfig        `yaml:"server"`
	Observability ObservabilityConfig `yaml:"observability"`
	Log           LogConfig           `yaml:"log"`
}

// ProviderConfig selects and tunes the LLM provider.
type ProviderConfig struct {
	Type        string        `yaml:"type"`        // "claude", "gemini" or "random", default: "random"
	Anthropic   VendorConfig  `yaml:"anthropic"`
	Gemini      VendorConfig  `yaml:"gemini"`
	Timeout     time.Duration `yaml:"timeout"`     // per call, default: 60s
	Temperature float64       `yaml:"temperature"` // default: 0
	MaxTokens   int           `yaml:"max_tokens"`  // default: 800
}

// VendorConfig holds the credentials and model of one vendor. An empty
// APIKey means the vendor is not configured.
type VendorConfig struct {
	APIKey     string `yaml:"api_key"`
	APIKeyFile string `yaml:"api_key_file"` // _file variant for api_key
	Model      string `yaml:"model"`        // empty selects the vendor default
	BaseURL    string `yaml:"base_url"`
}

// LoopConfig controls the tool loop.
type LoopConfig struct {
	EnableIteration bool `yaml:"enable_iteration"` // default: true
	MaxIterations   int  `yaml:"max_iterations"`   // default: 5
	Debug           bool `yaml:"debug"`            // record tool executions in results
}

// MCPConfig holds MCP (Model Context Protocol) server settings.
type MCPConfig struct {
	Servers []MCPServerConfig `yaml:"servers"`

	// AllowedTools limits the tools offered to the model. Empty allows all.
	AllowedTools []string `yaml:"allowed_tools"`
}

// CatalogConfig controls the in-process course catalog tools, offered
// when no MCP server is configured.
type CatalogConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // catalog YAML, default: built-in sample
}

// MCPServerConfig describes a single MCP server connection.
type MCPServerConfig struct {
	Name      string            `json:"name" yaml:"name"`
	Transport string            `json:"transport,omitempty" yaml:"transport"` // "sse" or "streamable-http"
	URL       string            `json:"url" yaml:"url"`
	Headers   map[string]string `json:"headers,omitempty" yaml:"headers"`
	Auth      MCPAuthConfig     `json:"auth,omitempty" yaml:"auth"`
}

// MCPAuthConfig configures OAuth client credentials for an MCP server.
type MCPAuthConfig struct {
	Type             string   `json:"type,omitempty" yaml:"type"` // "" or "oauth_client_credentials"
	TokenURL         string   `json:"token_url,omitempty" yaml:"token_url"`
	ClientID         string   `json:"client_id,omitempty" yaml:"client_id"`
	ClientIDFile     string   `json:"client_id_file,omitempty" yaml:"client_id_file"`
	ClientSecret     string   `json:"client_secret,omitempty" yaml:"client_secret"`
	ClientSecretFile string   `json:"client_secret_file,omitempty" yaml:"client_secret_file"`
	Scopes           []string `json:"scopes,omitempty" yaml:"scopes"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int           `yaml:"port"`          // default: 8080
	ReadTimeout  time.Duration `yaml:"read_timeout"`  // default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"` // default: 120s
	Auth         AuthConfig    `yaml:"auth"`
}

// AuthConfig guards the HTTP API. With no keys, no JWT secret and no rate
// limit the API is open.
type AuthConfig struct {
	AllowAnonymous bool            `yaml:"allow_anonymous"`
	APIKeys        []APIKeyConfig  `yaml:"api_keys"`
	JWT            JWTConfig       `yaml:"jwt"`
	RateLimit      RateLimitConfig `yaml:"rate_limit"`
}

// APIKeyConfig is one static API key.
type APIKeyConfig struct {
	Key     string `yaml:"key"`
	KeyFile string `yaml:"key_file"` // _file variant for key
	Subject string `yaml:"subject"`
	Tier    string `yaml:"tier"`
}

// JWTConfig validates HMAC signed bearer tokens.
type JWTConfig struct {
	Secret       string        `yaml:"secret"`
	SecretFile   string        `yaml:"secret_file"` // _file variant for secret
	Issuer       string        `yaml:"issuer"`
	Audience     string        `yaml:"audience"`
	SubjectClaim string        `yaml:"subject_claim"` // default: "sub"
	Leeway       time.Duration `yaml:"leeway"`
}

// RateLimitConfig sets per-subject request budgets per minute. Zero
// disables limiting.
type RateLimitConfig struct {
	RequestsPerMinute int            `yaml:"requests_per_minute"`
	Tiers             map[string]int `yaml:"tiers"`
}

// Enabled reports whether any guard is configured.
func (a AuthConfig) Enabled() bool {
	return len(a.APIKeys) > 0 || a.JWT.Secret != "" || a.RateLimit.RequestsPerMinute > 0 || len(a.RateLimit.Tiers) > 0
}

// ObservabilityConfig holds monitoring and instrumentation settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// LogConfig configures the slog default logger and debug categories.
type LogConfig struct {
	Level  string `yaml:"level"`  // default: "INFO"
	Format string `yaml:"format"` // "text" or "json", default: "text"
	Debug  string `yaml:"debug"`  // comma separated debug categories
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Provider: ProviderConfig{
			Type:        "random",
			Timeout:     60 * time.Second,
			Temperature: 0,
			MaxTokens:   800,
		},
		Loop: LoopConfig{
			EnableIteration: true,
			MaxIterations:   5,
		},
		Catalog: CatalogConfig{
			Enabled: true,
		},
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 120 * time.Second,
		},
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
		},
		Log: LogConfig{
			Level:  "INFO",
			Format: "text",
		},
	}
}
