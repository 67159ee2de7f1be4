package config

import (
	"github.com/rhuss/coursebot/pkg/auth"
	"github.com/rhuss/coursebot/pkg/auth/apikey"
	"github.com/rhuss/coursebot/pkg/auth/jwt"
	"github.com/rhuss/coursebot/pkg/engine"
	"github.com/rhuss/coursebot/pkg/provider/factory"
	"github.com/rhuss/coursebot/pkg/tools/mcp"
)

// MCPServers converts the configured servers for mcp.Connect.
func (c *Config) MCPServers() []mcp.ServerConfig {
	out := make([]mcp.ServerConfig, 0, len(c.MCP.Servers))
	for _, s := range c.MCP.Servers {
		out = append(out, mcp.ServerConfig{
			Name:      s.Name,
			Transport: s.Transport,
			URL:       s.URL,
			Headers:   s.Headers,
			Auth: mcp.AuthConfig{
				Type:         s.Auth.Type,
				TokenURL:     s.Auth.TokenURL,
				ClientID:     s.Auth.ClientID,
				ClientSecret: s.Auth.ClientSecret,
				Scopes:       s.Auth.Scopes,
			},
		})
	}
	return out
}

// Credentials returns the vendor keys and models for the provider factory.
func (c *Config) Credentials() factory.Credentials {
	return factory.Credentials{
		AnthropicAPIKey: c.Provider.Anthropic.APIKey,
		AnthropicModel:  c.Provider.Anthropic.Model,
		GoogleAPIKey:    c.Provider.Gemini.APIKey,
		GeminiModel:     c.Provider.Gemini.Model,
	}
}

// ProviderOptions returns the generation settings for the provider factory.
func (c *Config) ProviderOptions() factory.Options {
	return factory.Options{
		Timeout:          c.Provider.Timeout,
		Temperature:      c.Provider.Temperature,
		MaxTokens:        c.Provider.MaxTokens,
		AnthropicBaseURL: c.Provider.Anthropic.BaseURL,
		GeminiBaseURL:    c.Provider.Gemini.BaseURL,
	}
}

// EngineConfig returns the tool loop settings.
func (c *Config) EngineConfig() engine.Config {
	return engine.Config{
		EnableIteration: c.Loop.EnableIteration,
		MaxIterations:   c.Loop.MaxIterations,
		Debug:           c.Loop.Debug,
	}
}

// AuthChain builds the API guard. It returns a nil chain when
// server.auth configures nothing.
func (c *Config) AuthChain() (*auth.Chain, auth.Limiter, error) {
	a := c.Server.Auth
	if !a.Enabled() {
		return nil, nil, nil
	}

	chain := &auth.Chain{AllowAnonymous: a.AllowAnonymous}
	if len(a.APIKeys) > 0 {
		keys := make([]apikey.Key, 0, len(a.APIKeys))
		for _, k := range a.APIKeys {
			keys = append(keys, apikey.Key{Key: k.Key, Subject: k.Subject, Tier: k.Tier})
		}
		chain.Authenticators = append(chain.Authenticators, apikey.New(keys))
	}
	if a.JWT.Secret != "" {
		j, err := jwt.New(jwt.Config{
			Secret:       []byte(a.JWT.Secret),
			Issuer:       a.JWT.Issuer,
			Audience:     a.JWT.Audience,
			SubjectClaim: a.JWT.SubjectClaim,
			Leeway:       a.JWT.Leeway,
		})
		if err != nil {
			return nil, nil, err
		}
		chain.Authenticators = append(chain.Authenticators, j)
	}
	// A rate limit alone still needs callers admitted.
	if len(chain.Authenticators) == 0 {
		chain.AllowAnonymous = true
	}

	var limiter auth.Limiter
	if a.RateLimit.RequestsPerMinute > 0 || len(a.RateLimit.Tiers) > 0 {
		limiter = auth.NewWindowLimiter(a.RateLimit.RequestsPerMinute, a.RateLimit.Tiers)
	}
	return chain, limiter, nil
}
