package translatexopenai

import (
	"context"
	"os"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/rohit9625/natively-backend/pkg/translatex"
)

const (
	DefaultModel     = "gpt-4o"
	DefaultFastModel = "gpt-4o-mini"
)

// ProviderOption configures the OpenAI provider
type ProviderOption func(*OpenAIProvider)

// WithModel sets the model used for queued jobs.
func WithModel(model string) ProviderOption {
	return func(p *OpenAIProvider) {
		if model != "" {
			p.model = model
		}
	}
}

// WithFastModel sets the model used for synchronous requests.
func WithFastModel(model string) ProviderOption {
	return func(p *OpenAIProvider) {
		if model != "" {
			p.fastModel = model
		}
	}
}

// WithRequestOptions passes options through to the SDK client.
func WithRequestOptions(opts ...option.RequestOption) ProviderOption {
	return func(p *OpenAIProvider) {
		p.requestOpts = append(p.requestOpts, opts...)
	}
}

// OpenAIProvider implements translatex.Provider with chat completions.
type OpenAIProvider struct {
	client      openai.Client
	apiKey      string
	model       string
	fastModel   string
	requestOpts []option.RequestOption
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(apiKey string, opts ...ProviderOption) *OpenAIProvider {
	p := &OpenAIProvider{
		apiKey:    apiKey,
		model:     DefaultModel,
		fastModel: DefaultFastModel,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.apiKey == "" {
		p.apiKey = os.Getenv("OPENAI_API_KEY")
	}

	options := append([]option.RequestOption{option.WithAPIKey(p.apiKey)}, p.requestOpts...)
	p.client = openai.NewClient(options...)
	return p
}

func (p *OpenAIProvider) Name() string { return "openai" }

// Translate implements translatex.Provider
func (p *OpenAIProvider) Translate(ctx context.Context, req translatex.Request) (string, error) {
	if p.apiKey == "" {
		return "", errorRegistry.New(ErrMissingAPIKey)
	}

	model := p.model
	if req.Fast {
		model = p.fastModel
	}

	return Complete(ctx, p.client, model, req, func(err error) error {
		return ParseOpenAIError(err).WithDetail("model", model)
	})
}

// Complete runs one chat completion. The Azure adapter reuses it with a
// client pointed at its deployment.
func Complete(ctx context.Context, client openai.Client, model string, req translatex.Request, parse func(error) error) (string, error) {
	params := openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(translatex.SystemPrompt),
			openai.UserMessage(translatex.UserPrompt(req)),
		},
		Model:       model,
		Temperature: openai.Float(0.2),
	}
	if req.Fast {
		params.Temperature = openai.Float(0)
	}

	completion, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", parse(err)
	}
	if len(completion.Choices) == 0 {
		return "", errorRegistry.New(ErrNoChoicesInResponse).WithDetail("model", model)
	}
	return completion.Choices[0].Message.Content, nil
}
