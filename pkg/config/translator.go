package config

import "time"

// TranslatorConfig selects and configures the translation provider.
type TranslatorConfig struct {
	// Provider is one of "openai", "azure", "anthropic", "gemini", "bedrock"
	Provider string
	Model    string
	Timeout  time.Duration

	OpenAIAPIKey string

	AzureEndpoint   string
	AzureAPIKey     string
	AzureAPIVersion string
	AzureUseAD      bool

	AnthropicAPIKey string

	GeminiAPIKey   string
	GeminiProject  string
	GeminiLocation string

	AWSRegion string
}

func loadTranslatorConfig() TranslatorConfig {
	return TranslatorConfig{
		Provider: getEnv("TRANSLATOR_PROVIDER", "openai"),
		Model:    getEnv("TRANSLATOR_MODEL", ""),
		Timeout:  getEnvDuration("TRANSLATOR_TIMEOUT", 30*time.Second),

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),

		AzureEndpoint:   getEnv("AZURE_OPENAI_ENDPOINT", ""),
		AzureAPIKey:     getEnv("AZURE_OPENAI_API_KEY", ""),
		AzureAPIVersion: getEnv("AZURE_OPENAI_API_VERSION", "2024-06-01"),
		AzureUseAD:      getEnvBool("AZURE_OPENAI_USE_AD", false),

		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),

		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiProject:  getEnv("GEMINI_PROJECT", ""),
		GeminiLocation: getEnv("GEMINI_LOCATION", ""),

		AWSRegion: getEnv("AWS_REGION", "us-east-1"),
	}
}
