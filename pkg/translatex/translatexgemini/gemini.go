package translatexgemini

import (
	"context"
	"os"

	"github.com/rohit9625/natively-backend/pkg/translatex"
	"google.golang.org/genai"
)

const (
	DefaultModel     = "gemini-2.0-flash"
	DefaultFastModel = "gemini-2.0-flash-lite"
)

// ProviderOption configures the Gemini provider
type ProviderOption func(*GeminiProvider)

// WithVertexAI configures the provider to use Vertex AI backend
func WithVertexAI(project, location string) ProviderOption {
	return func(p *GeminiProvider) {
		p.project = project
		p.location = location
		p.useVertexAI = true
	}
}

// WithModel sets the model used for queued jobs.
func WithModel(model string) ProviderOption {
	return func(p *GeminiProvider) {
		if model != "" {
			p.model = model
		}
	}
}

// WithBaseURL overrides the API endpoint.
func WithBaseURL(url string) ProviderOption {
	return func(p *GeminiProvider) {
		p.baseURL = url
	}
}

// GeminiProvider implements translatex.Provider with Google Gemini
type GeminiProvider struct {
	client      *genai.Client
	apiKey      string
	project     string
	location    string
	useVertexAI bool
	model       string
	fastModel   string
	baseURL     string
}

// NewGeminiProvider creates a new Gemini provider
func NewGeminiProvider(ctx context.Context, apiKey string, opts ...ProviderOption) (*GeminiProvider, error) {
	p := &GeminiProvider{
		apiKey:    apiKey,
		model:     DefaultModel,
		fastModel: DefaultFastModel,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.apiKey == "" {
		p.apiKey = os.Getenv("GEMINI_API_KEY")
	}

	config := &genai.ClientConfig{}

	if p.useVertexAI {
		config.Backend = genai.BackendVertexAI
		config.Project = p.project
		config.Location = p.location
	} else {
		config.APIKey = p.apiKey
		config.Backend = genai.BackendGeminiAPI
	}
	if p.baseURL != "" {
		config.HTTPOptions.BaseURL = p.baseURL
	}

	client, err := genai.NewClient(ctx, config)
	if err != nil {
		return nil, errorRegistry.NewWithCause(ErrClientInit, err)
	}

	p.client = client
	return p, nil
}

func (p *GeminiProvider) Name() string { return "gemini" }

// Translate implements translatex.Provider
func (p *GeminiProvider) Translate(ctx context.Context, req translatex.Request) (string, error) {
	model := p.model
	temperature := float32(0.2)
	if req.Fast {
		model = p.fastModel
		temperature = 0
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(translatex.SystemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr(temperature),
	}

	result, err := p.client.Models.GenerateContent(ctx, model, genai.Text(translatex.UserPrompt(req)), config)
	if err != nil {
		return "", ParseGeminiError(err).WithDetail("model", model)
	}
	if result == nil || len(result.Candidates) == 0 {
		if result != nil && result.PromptFeedback != nil {
			return "", errorRegistry.New(ErrBlocked).
				WithDetail("model", model).
				WithDetail("reason", string(result.PromptFeedback.BlockReason))
		}
		return "", errorRegistry.New(ErrAPIRequest).WithDetail("model", model)
	}

	return result.Text(), nil
}
