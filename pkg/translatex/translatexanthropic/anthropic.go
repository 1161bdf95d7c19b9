package translatexanthropic

import (
	"context"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rohit9625/natively-backend/pkg/translatex"
)

const (
	DefaultModel     = "claude-sonnet-4-20250514"
	DefaultFastModel = "claude-3-5-haiku-latest"
)

// ProviderOption configures the Anthropic provider
type ProviderOption func(*AnthropicProvider)

// WithModel sets the model used for queued jobs.
func WithModel(model string) ProviderOption {
	return func(p *AnthropicProvider) {
		if model != "" {
			p.model = model
		}
	}
}

// WithFastModel sets the model used for synchronous requests.
func WithFastModel(model string) ProviderOption {
	return func(p *AnthropicProvider) {
		if model != "" {
			p.fastModel = model
		}
	}
}

// WithRequestOptions passes options through to the SDK client.
func WithRequestOptions(opts ...option.RequestOption) ProviderOption {
	return func(p *AnthropicProvider) {
		p.requestOpts = append(p.requestOpts, opts...)
	}
}

// AnthropicProvider implements translatex.Provider with the Messages API.
type AnthropicProvider struct {
	client      anthropic.Client
	apiKey      string
	model       string
	fastModel   string
	requestOpts []option.RequestOption
}

// NewAnthropicProvider creates a new Anthropic provider
func NewAnthropicProvider(apiKey string, opts ...ProviderOption) *AnthropicProvider {
	p := &AnthropicProvider{
		apiKey:    apiKey,
		model:     DefaultModel,
		fastModel: DefaultFastModel,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.apiKey == "" {
		p.apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}

	options := append([]option.RequestOption{option.WithAPIKey(p.apiKey)}, p.requestOpts...)
	p.client = anthropic.NewClient(options...)
	return p
}

func (p *AnthropicProvider) Name() string { return "anthropic" }

// Translate implements translatex.Provider
func (p *AnthropicProvider) Translate(ctx context.Context, req translatex.Request) (string, error) {
	if p.apiKey == "" {
		return "", errorRegistry.New(ErrMissingAPIKey)
	}

	model := p.model
	temperature := 0.2
	if req.Fast {
		model = p.fastModel
		temperature = 0
	}

	message, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: 4096,
		System: []anthropic.TextBlockParam{
			{Text: translatex.SystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(translatex.UserPrompt(req))),
		},
		Temperature: anthropic.Float(temperature),
	})
	if err != nil {
		return "", ParseAnthropicError(err).WithDetail("model", model)
	}

	var b strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", errorRegistry.New(ErrNoTextInResponse).WithDetail("model", model)
	}
	return b.String(), nil
}
