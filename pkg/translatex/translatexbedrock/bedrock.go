package translatexbedrock

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/rohit9625/natively-backend/pkg/translatex"
)

const DefaultModel = "anthropic.claude-sonnet-4-20250514-v1:0"

// ConverseAPI is the slice of the Bedrock runtime client the provider uses.
type ConverseAPI interface {
	Converse(ctx context.Context, params *bedrockruntime.ConverseInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.ConverseOutput, error)
}

// ProviderOption configures the Bedrock provider
type ProviderOption func(*BedrockProvider)

// WithDefaultModel sets the default model ID
func WithDefaultModel(model string) ProviderOption {
	return func(p *BedrockProvider) {
		if model != "" {
			p.model = model
		}
	}
}

// WithFastModel sets the model ID used for synchronous requests.
func WithFastModel(model string) ProviderOption {
	return func(p *BedrockProvider) {
		p.fastModel = model
	}
}

// BedrockProvider implements translatex.Provider with the Converse API.
type BedrockProvider struct {
	client    ConverseAPI
	model     string
	fastModel string
}

// NewBedrockProvider creates a new Bedrock provider
func NewBedrockProvider(cfg aws.Config, opts ...ProviderOption) *BedrockProvider {
	return NewBedrockProviderWithClient(bedrockruntime.NewFromConfig(cfg), opts...)
}

// NewBedrockProviderWithClient uses an existing Converse client.
func NewBedrockProviderWithClient(client ConverseAPI, opts ...ProviderOption) *BedrockProvider {
	p := &BedrockProvider{
		client: client,
		model:  DefaultModel,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.fastModel == "" {
		p.fastModel = p.model
	}
	return p
}

func (p *BedrockProvider) Name() string { return "bedrock" }

// Translate implements translatex.Provider
func (p *BedrockProvider) Translate(ctx context.Context, req translatex.Request) (string, error) {
	model := p.model
	temperature := float32(0.2)
	if req.Fast {
		model = p.fastModel
		temperature = 0
	}

	output, err := p.client.Converse(ctx, &bedrockruntime.ConverseInput{
		ModelId: aws.String(model),
		System: []types.SystemContentBlock{
			&types.SystemContentBlockMemberText{Value: translatex.SystemPrompt},
		},
		Messages: []types.Message{
			{
				Role: types.ConversationRoleUser,
				Content: []types.ContentBlock{
					&types.ContentBlockMemberText{Value: translatex.UserPrompt(req)},
				},
			},
		},
		InferenceConfig: &types.InferenceConfiguration{
			Temperature: aws.Float32(temperature),
			MaxTokens:   aws.Int32(4096),
		},
	})
	if err != nil {
		return "", ParseBedrockError(err).WithDetail("model", model)
	}

	msg, ok := output.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return "", errorRegistry.New(ErrAPIResponse).
			WithDetail("model", model).
			WithDetail("error", "unexpected output type")
	}

	var b strings.Builder
	for _, block := range msg.Value.Content {
		if text, ok := block.(*types.ContentBlockMemberText); ok {
			b.WriteString(text.Value)
		}
	}
	return b.String(), nil
}
