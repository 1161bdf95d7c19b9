package translatexazure

import (
	"context"
	"os"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/azure"
	"github.com/openai/openai-go/v3/option"
	"github.com/rohit9625/natively-backend/pkg/translatex"
	"github.com/rohit9625/natively-backend/pkg/translatex/translatexopenai"
)

// ProviderOption configures the Azure OpenAI provider
type ProviderOption func(*AzureOpenAIProvider)

// WithAPIVersion sets the Azure OpenAI API version
func WithAPIVersion(version string) ProviderOption {
	return func(p *AzureOpenAIProvider) {
		if version != "" {
			p.apiVersion = version
		}
	}
}

// WithAzureADCredential configures Azure AD authentication
func WithAzureADCredential(cred azcore.TokenCredential) ProviderOption {
	return func(p *AzureOpenAIProvider) {
		p.tokenCredential = cred
	}
}

// WithFastDeployment sets the deployment used for synchronous requests.
func WithFastDeployment(deployment string) ProviderOption {
	return func(p *AzureOpenAIProvider) {
		p.fastDeployment = deployment
	}
}

// WithRequestOptions passes options through to the SDK client.
func WithRequestOptions(opts ...option.RequestOption) ProviderOption {
	return func(p *AzureOpenAIProvider) {
		p.requestOpts = append(p.requestOpts, opts...)
	}
}

// AzureOpenAIProvider implements translatex.Provider against an Azure
// OpenAI deployment.
type AzureOpenAIProvider struct {
	client          openai.Client
	endpoint        string
	apiKey          string
	apiVersion      string
	deployment      string
	fastDeployment  string
	tokenCredential azcore.TokenCredential
	requestOpts     []option.RequestOption
}

// NewAzureOpenAIProvider creates a new Azure OpenAI provider
func NewAzureOpenAIProvider(endpoint, apiKey, deployment string, opts ...ProviderOption) *AzureOpenAIProvider {
	p := &AzureOpenAIProvider{
		endpoint:   endpoint,
		apiKey:     apiKey,
		apiVersion: "2024-06-01",
		deployment: deployment,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.apiKey == "" {
		p.apiKey = os.Getenv("AZURE_OPENAI_API_KEY")
	}
	if p.fastDeployment == "" {
		p.fastDeployment = p.deployment
	}

	var clientOpts []option.RequestOption
	clientOpts = append(clientOpts, azure.WithEndpoint(p.endpoint, p.apiVersion))

	if p.tokenCredential != nil {
		clientOpts = append(clientOpts, azure.WithTokenCredential(p.tokenCredential))
	} else {
		clientOpts = append(clientOpts, azure.WithAPIKey(p.apiKey))
	}
	clientOpts = append(clientOpts, p.requestOpts...)

	p.client = openai.NewClient(clientOpts...)
	return p
}

func (p *AzureOpenAIProvider) Name() string { return "azure" }

// Translate implements translatex.Provider
func (p *AzureOpenAIProvider) Translate(ctx context.Context, req translatex.Request) (string, error) {
	if p.endpoint == "" {
		return "", errorRegistry.New(ErrMissingEndpoint)
	}

	deployment := p.deployment
	if req.Fast {
		deployment = p.fastDeployment
	}

	return translatexopenai.Complete(ctx, p.client, deployment, req, func(err error) error {
		return ParseAzureError(err).WithDetail("deployment", deployment)
	})
}
