package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rhuss/coursebot/pkg/provider/factory"
	"github.com/rhuss/coursebot/pkg/tools/mcp"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure. Missing API
// keys are not a validation error; the provider factory reports them when
// a provider is built.
func (c *Config) Validate() error {
	var errs []error

	if _, err := factory.Canonical(c.Provider.Type); err != nil {
		errs = append(errs, fmt.Errorf("provider.type must be \"claude\", \"gemini\" or \"random\", got %q", c.Provider.Type))
	}
	if c.Provider.Timeout < 0 {
		errs = append(errs, fmt.Errorf("provider.timeout must be >= 0, got %v", c.Provider.Timeout))
	}
	if c.Provider.Temperature < 0 || c.Provider.Temperature > 1 {
		errs = append(errs, fmt.Errorf("provider.temperature must be between 0 and 1, got %v", c.Provider.Temperature))
	}
	if c.Provider.MaxTokens <= 0 {
		errs = append(errs, fmt.Errorf("provider.max_tokens must be > 0, got %d", c.Provider.MaxTokens))
	}

	if c.Loop.MaxIterations <= 0 {
		errs = append(errs, fmt.Errorf("loop.max_iterations must be > 0, got %d", c.Loop.MaxIterations))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}

	errs = append(errs, c.Server.Auth.validate()...)

	if c.Observability.Metrics.Enabled && !strings.HasPrefix(c.Observability.Metrics.Path, "/") {
		errs = append(errs, fmt.Errorf("observability.metrics.path must start with \"/\", got %q", c.Observability.Metrics.Path))
	}

	switch strings.ToLower(c.Log.Format) {
	case "text", "json", "":
	default:
		errs = append(errs, fmt.Errorf("log.format must be \"text\" or \"json\", got %q", c.Log.Format))
	}

	names := make(map[string]bool, len(c.MCP.Servers))
	for i, s := range c.MCP.Servers {
		errs = append(errs, s.validate(fmt.Sprintf("mcp.servers[%d]", i))...)
		if s.Name != "" {
			if names[s.Name] {
				errs = append(errs, fmt.Errorf("mcp.servers[%d].name %q is not unique", i, s.Name))
			}
			names[s.Name] = true
		}
	}

	return errors.Join(errs...)
}

func (s MCPServerConfig) validate(path string) []error {
	var errs []error
	if s.Name == "" {
		errs = append(errs, fmt.Errorf("%s.name is required", path))
	}
	if s.URL == "" {
		errs = append(errs, fmt.Errorf("%s.url is required", path))
	}
	switch s.Transport {
	case mcp.TransportStreamableHTTP, mcp.TransportSSE, "":
	default:
		errs = append(errs, fmt.Errorf("%s.transport must be %q or %q, got %q",
			path, mcp.TransportStreamableHTTP, mcp.TransportSSE, s.Transport))
	}
	switch s.Auth.Type {
	case "":
	case mcp.AuthOAuthClientCredentials:
		if s.Auth.TokenURL == "" {
			errs = append(errs, fmt.Errorf("%s.auth.token_url is required for %s", path, s.Auth.Type))
		}
		if s.Auth.ClientID == "" && s.Auth.ClientIDFile == "" {
			errs = append(errs, fmt.Errorf("%s.auth.client_id or client_id_file is required for %s", path, s.Auth.Type))
		}
	default:
		errs = append(errs, fmt.Errorf("%s.auth.type must be %q, got %q", path, mcp.AuthOAuthClientCredentials, s.Auth.Type))
	}
	return errs
}

func (a AuthConfig) validate() []error {
	var errs []error
	for i, k := range a.APIKeys {
		if k.Key == "" {
			errs = append(errs, fmt.Errorf("server.auth.api_keys[%d].key or key_file is required", i))
		}
		if k.Subject == "" {
			errs = append(errs, fmt.Errorf("server.auth.api_keys[%d].subject is required", i))
		}
	}
	if a.JWT.Leeway < 0 {
		errs = append(errs, fmt.Errorf("server.auth.jwt.leeway must be >= 0, got %v", a.JWT.Leeway))
	}
	if a.RateLimit.RequestsPerMinute < 0 {
		errs = append(errs, fmt.Errorf("server.auth.rate_limit.requests_per_minute must be >= 0, got %d", a.RateLimit.RequestsPerMinute))
	}
	for tier, n := range a.RateLimit.Tiers {
		if n < 0 {
			errs = append(errs, fmt.Errorf("server.auth.rate_limit.tiers[%s] must be >= 0, got %d", tier, n))
		}
	}
	return errs
}
