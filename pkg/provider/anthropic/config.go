package anthropic

import (
	"net/http"
	"time"

	"github.com/rhuss/coursebot/pkg/provider"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "claude-sonnet-4-20250514"

// Config holds configuration for the Anthropic provider.
type Config struct {
	// APIKey authenticates against the Messages API. Required.
	APIKey string

	// Model is the Claude model identifier. Defaults to DefaultModel.
	Model string

	// BaseURL overrides the API endpoint (e.g., for a proxy or tests).
	BaseURL string

	// Timeout bounds every call. Zero means no bound beyond the caller's
	// context.
	Timeout time.Duration

	// Params are the fixed generation parameters.
	Params provider.GenerationParams

	// HTTPClient replaces the SDK's default client when set.
	HTTPClient *http.Client
}

// DefaultConfig returns a Config with the given key and defaults applied.
func DefaultConfig(apiKey string) Config {
	return Config{
		APIKey:  apiKey,
		Model:   DefaultModel,
		Timeout: 60 * time.Second,
		Params:  provider.DefaultGenerationParams(),
	}
}

func (c Config) withDefaults() Config {
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Params.MaxTokens <= 0 {
		c.Params.MaxTokens = provider.DefaultGenerationParams().MaxTokens
	}
	return c
}
