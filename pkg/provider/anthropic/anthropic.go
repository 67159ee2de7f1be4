package anthropic

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/rhuss/coursebot/pkg/debug"
	"github.com/rhuss/coursebot/pkg/observability"
	"github.com/rhuss/coursebot/pkg/provider"
)

// Name is the provider identifier reported by Name().
const Name = "claude"

// ErrMissingAPIKey is returned by New when no API key is configured.
var ErrMissingAPIKey = errors.New("anthropic: API key is required")

const (
	generateErrPrefix = "Error generating response"
	continueErrPrefix = "Error executing tool calls"
)

// Provider implements provider.Provider for the Anthropic Messages API.
type Provider struct {
	cfg    Config
	client sdk.Client
}

// Compile-time checks.
var (
	_ provider.Provider                               = (*Provider)(nil)
	_ provider.SchemaTranslator[[]sdk.ToolUnionParam] = (*Provider)(nil)
	_ provider.ToolCallExtractor[*sdk.Message]        = (*Provider)(nil)
)

// New creates a Provider. The API key is validated eagerly; no network
// call is made.
func New(cfg Config) (*Provider, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	cfg = cfg.withDefaults()

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// Failed calls surface as error responses; retrying is the caller's decision.
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	return &Provider{
		cfg:    cfg,
		client: sdk.NewClient(opts...),
	}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return Name
}

// Model returns the configured model identifier.
func (p *Provider) Model() string {
	return p.cfg.Model
}

// GenerateResponse sends the query as a single user message.
func (p *Provider) GenerateResponse(ctx context.Context, req provider.GenerateRequest) (resp provider.Response) {
	defer provider.Recover(&resp, generateErrPrefix, p.cfg.Model)

	params := p.baseParams(req.SystemPrompt, req.History, req.Tools)
	params.Messages = []sdk.MessageParam{
		sdk.NewUserMessage(sdk.NewTextBlock(req.Query)),
	}
	return p.send(ctx, "generate", params, generateErrPrefix)
}

// ContinueAfterTools replays the prior assistant turn (text plus one
// tool_use block per call) followed by a user turn carrying one
// tool_result block per result.
func (p *Provider) ContinueAfterTools(ctx context.Context, req provider.ContinueRequest) (resp provider.Response) {
	defer provider.Recover(&resp, continueErrPrefix, p.cfg.Model)

	if err := provider.ValidateToolResults(req.Prior, req.Results); err != nil {
		return provider.ErrorResponse(continueErrPrefix, err, p.cfg.Model)
	}

	params := p.baseParams(req.SystemPrompt, req.History, req.Tools)
	params.Messages = continuationMessages(req)
	return p.send(ctx, "continue", params, continueErrPrefix)
}

// baseParams builds the request fields shared by both call kinds.
func (p *Provider) baseParams(systemPrompt, history string, tools []provider.ToolDefinition) sdk.MessageNewParams {
	params := sdk.MessageNewParams{
		Model:       sdk.Model(p.cfg.Model),
		MaxTokens:   int64(p.cfg.Params.MaxTokens),
		Temperature: sdk.Float(p.cfg.Params.Temperature),
	}
	if system := provider.ComposeSystem(systemPrompt, history); system != "" {
		params.System = []sdk.TextBlockParam{{Text: system}}
	}
	if len(tools) > 0 {
		params.Tools = p.TranslateTools(tools)
		params.ToolChoice = sdk.ToolChoiceUnionParam{OfAuto: &sdk.ToolChoiceAutoParam{}}
	}
	return params
}

func (p *Provider) send(ctx context.Context, call string, params sdk.MessageNewParams, errPrefix string) provider.Response {
	if p.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.Timeout)
		defer cancel()
	}

	debug.Log("providers", "anthropic request",
		"call", call,
		"model", p.cfg.Model,
		"messages", len(params.Messages),
		"tools", len(params.Tools),
	)

	start := time.Now()
	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		slog.Warn("anthropic call failed", "call", call, "model", p.cfg.Model, "error", err)
		resp := provider.ErrorResponse(errPrefix, err, p.cfg.Model)
		observability.RecordProviderCall(Name, p.cfg.Model, call, string(resp.StopReason), start, 0, 0)
		return resp
	}

	resp := p.toResponse(msg)
	observability.RecordProviderCall(Name, p.cfg.Model, call, string(resp.StopReason), start,
		msg.Usage.InputTokens, msg.Usage.OutputTokens)

	debug.Log("providers", "anthropic response",
		"call", call,
		"stop_reason", resp.StopReason,
		"vendor_stop_reason", string(msg.StopReason),
		"tool_calls", len(resp.ToolCalls),
		"content_blocks", len(msg.Content),
	)
	return resp
}
