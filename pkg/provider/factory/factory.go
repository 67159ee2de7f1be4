// Package factory builds the configured provider.Provider. It is the only
// place in the provider layer that reports configuration problems as Go
// errors; everything after construction is fail-soft.
package factory

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/rhuss/coursebot/pkg/debug"
	"github.com/rhuss/coursebot/pkg/provider"
	"github.com/rhuss/coursebot/pkg/provider/anthropic"
	"github.com/rhuss/coursebot/pkg/provider/gemini"
)

// Provider type names accepted by New.
const (
	TypeClaude = "claude"
	TypeGemini = "gemini"
	TypeRandom = "random"
)

var (
	// ErrNoProviders is returned when random selection finds no
	// configured provider.
	ErrNoProviders = errors.New("no provider API keys configured")

	// ErrMissingAPIKey is returned when an explicitly requested provider
	// has no API key.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrUnsupportedProvider is returned for an unknown provider type.
	ErrUnsupportedProvider = errors.New("unsupported provider type")
)

// aliases maps accepted spellings to canonical type names.
var aliases = map[string]string{
	"claude":    TypeClaude,
	"anthropic": TypeClaude,
	"gemini":    TypeGemini,
	"google":    TypeGemini,
	"random":    TypeRandom,
}

// Credentials carries the per-vendor keys and model overrides. An empty
// key means the vendor is not configured. Empty models select the
// variant's default.
type Credentials struct {
	AnthropicAPIKey string
	AnthropicModel  string
	GoogleAPIKey    string
	GeminiModel     string
}

// Options tune the providers built by New. The zero value yields the
// variant defaults with no call timeout.
type Options struct {
	Timeout     time.Duration
	Temperature float64
	MaxTokens   int

	AnthropicBaseURL string
	GeminiBaseURL    string
	HTTPClient       *http.Client

	// Rand drives random selection. Nil uses the global source.
	Rand *rand.Rand
}

func (o Options) params() provider.GenerationParams {
	params := provider.DefaultGenerationParams()
	params.Temperature = o.Temperature
	if o.MaxTokens > 0 {
		params.MaxTokens = o.MaxTokens
	}
	return params
}

// Canonical resolves a provider type name, case-insensitively, to one of
// TypeClaude, TypeGemini or TypeRandom.
func Canonical(providerType string) (string, error) {
	name, ok := aliases[strings.ToLower(strings.TrimSpace(providerType))]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedProvider, providerType)
	}
	return name, nil
}

// New creates the provider named by providerType. For TypeRandom one of
// the configured vendors is picked uniformly. Missing keys for an
// explicitly named vendor fail here rather than at call time.
func New(ctx context.Context, providerType string, creds Credentials, opts Options) (provider.Provider, error) {
	name, err := Canonical(providerType)
	if err != nil {
		return nil, err
	}

	if name == TypeRandom {
		name, err = Select(configured(creds), opts.Rand)
		if err != nil {
			return nil, err
		}
		debug.Log("providers", "random provider selected", "provider", name)
	}

	switch name {
	case TypeClaude:
		if !hasKey(creds.AnthropicAPIKey) {
			return nil, fmt.Errorf("%w: anthropic API key is required for the %s provider", ErrMissingAPIKey, TypeClaude)
		}
		p, err := anthropic.New(anthropic.Config{
			APIKey:     creds.AnthropicAPIKey,
			Model:      creds.AnthropicModel,
			BaseURL:    opts.AnthropicBaseURL,
			Timeout:    opts.Timeout,
			Params:     opts.params(),
			HTTPClient: opts.HTTPClient,
		})
		if err != nil {
			return nil, fmt.Errorf("creating %s provider: %w", TypeClaude, err)
		}
		return p, nil

	case TypeGemini:
		if !hasKey(creds.GoogleAPIKey) {
			return nil, fmt.Errorf("%w: google API key is required for the %s provider", ErrMissingAPIKey, TypeGemini)
		}
		p, err := gemini.New(ctx, gemini.Config{
			APIKey:     creds.GoogleAPIKey,
			Model:      creds.GeminiModel,
			BaseURL:    opts.GeminiBaseURL,
			Timeout:    opts.Timeout,
			Params:     opts.params(),
			HTTPClient: opts.HTTPClient,
		})
		if err != nil {
			return nil, fmt.Errorf("creating %s provider: %w", TypeGemini, err)
		}
		return p, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, providerType)
}

// Available lists the provider names usable with creds in a fixed order.
// TypeRandom is included only when more than one vendor is configured.
func Available(creds Credentials) []string {
	names := configured(creds)
	if len(names) > 1 {
		names = append(names, TypeRandom)
	}
	return names
}

// Select picks one name from configured uniformly at random. A nil r uses
// the global source.
func Select(configured []string, r *rand.Rand) (string, error) {
	if len(configured) == 0 {
		return "", ErrNoProviders
	}
	var i int
	if r != nil {
		i = r.IntN(len(configured))
	} else {
		i = rand.IntN(len(configured))
	}
	return configured[i], nil
}

func configured(creds Credentials) []string {
	names := make([]string, 0, 3)
	if hasKey(creds.AnthropicAPIKey) {
		names = append(names, TypeClaude)
	}
	if hasKey(creds.GoogleAPIKey) {
		names = append(names, TypeGemini)
	}
	return names
}

func hasKey(key string) bool {
	return strings.TrimSpace(key) != ""
}
