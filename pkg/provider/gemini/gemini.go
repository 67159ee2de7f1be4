package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/rhuss/coursebot/pkg/debug"
	"github.com/rhuss/coursebot/pkg/observability"
	"github.com/rhuss/coursebot/pkg/provider"
)

// Name is the provider identifier reported by Name().
const Name = "gemini"

var (
	// ErrMissingAPIKey is returned by New when no API key is configured.
	ErrMissingAPIKey = errors.New("gemini: API key is required")

	// ErrNoCandidates is reported when the API answers without any
	// candidate content.
	ErrNoCandidates = errors.New("gemini: response contains no candidates")
)

const (
	generateErrPrefix = "Error generating response"
	continueErrPrefix = "Error executing tool calls"
)

// Provider implements provider.Provider for the Gemini API.
//
// The provider keeps no state between calls. The tool set of a
// continuation comes from provider.ContinueRequest.Tools, so one instance
// can serve concurrent queries.
type Provider struct {
	cfg    Config
	client *genai.Client
}

// Compile-time checks.
var (
	_ provider.Provider                                          = (*Provider)(nil)
	_ provider.SchemaTranslator[[]*genai.Tool]                   = (*Provider)(nil)
	_ provider.ToolCallExtractor[*genai.GenerateContentResponse] = (*Provider)(nil)
)

// New creates a Provider. The API key is validated eagerly; creating the
// client performs no network call.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	cfg = cfg.withDefaults()

	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	return &Provider{cfg: cfg, client: client}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return Name
}

// Model returns the configured model identifier.
func (p *Provider) Model() string {
	return p.cfg.Model
}

// GenerateResponse sends the flattened prompt for a new query.
func (p *Provider) GenerateResponse(ctx context.Context, req provider.GenerateRequest) (resp provider.Response) {
	defer provider.Recover(&resp, generateErrPrefix, p.cfg.Model)

	return p.send(ctx, "generate", initialPrompt(req), req.Tools, generateErrPrefix)
}

// ContinueAfterTools describes the tool results in plain text and asks the
// model to answer, offering the same tools again.
func (p *Provider) ContinueAfterTools(ctx context.Context, req provider.ContinueRequest) (resp provider.Response) {
	defer provider.Recover(&resp, continueErrPrefix, p.cfg.Model)

	if err := provider.ValidateToolResults(req.Prior, req.Results); err != nil {
		return provider.ErrorResponse(continueErrPrefix, err, p.cfg.Model)
	}
	return p.send(ctx, "continue", continuationPrompt(req), req.Tools, continueErrPrefix)
}

// generateConfig builds the per-call generation config.
func (p *Provider) generateConfig(tools []provider.ToolDefinition) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(p.cfg.Params.Temperature)),
		MaxOutputTokens: int32(p.cfg.Params.MaxTokens),
	}
	if len(tools) > 0 {
		cfg.Tools = p.TranslateTools(tools)
		cfg.ToolConfig = &genai.ToolConfig{
			FunctionCallingConfig: &genai.FunctionCallingConfig{
				Mode: genai.FunctionCallingConfigModeAuto,
			},
		}
	}
	return cfg
}

func (p *Provider) send(ctx context.Context, call, prompt string, tools []provider.ToolDefinition, errPrefix string) provider.Response {
	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	debug.Log("providers", "gemini request",
		"call", call,
		"model", p.cfg.Model,
		"prompt_len", len(prompt),
		"tools", len(tools),
	)
	debug.Trace("providers", "gemini prompt", "prompt", prompt)

	start := time.Now()
	resp, err := p.generate(ctx, prompt, tools)
	if err != nil {
		slog.Warn("gemini call failed", "call", call, "model", p.cfg.Model, "error", err)
		resp = provider.ErrorResponse(errPrefix, err, p.cfg.Model)
		observability.RecordProviderCall(Name, p.cfg.Model, call, string(resp.StopReason), start, 0, 0)
		return resp
	}

	in, out := usageOf(resp)
	observability.RecordProviderCall(Name, p.cfg.Model, call, string(resp.StopReason), start, in, out)
	debug.Log("providers", "gemini response",
		"call", call,
		"stop_reason", resp.StopReason,
		"vendor_stop_reason", resp.Metadata[provider.MetaVendorStopReason],
		"tool_calls", len(resp.ToolCalls),
		"content_len", len(resp.Content),
	)
	return resp
}

func (p *Provider) generate(ctx context.Context, prompt string, tools []provider.ToolDefinition) (provider.Response, error) {
	out, err := p.client.Models.GenerateContent(ctx, p.cfg.Model, genai.Text(prompt), p.generateConfig(tools))
	if err != nil {
		return provider.Response{}, err
	}
	return p.toResponse(out)
}

// usageOf reads the token counts stored by toResponse.
func usageOf(resp provider.Response) (int64, int64) {
	usage, ok := resp.Metadata[provider.MetaUsage].(map[string]any)
	if !ok {
		return 0, 0
	}
	in, _ := usage["input_tokens"].(int64)
	out, _ := usage["output_tokens"].(int64)
	return in, out
}
