package config

// TranslationConfig configures the translation job API.
type TranslationConfig struct {
	Queue   string
	JobType string

	// RequireDeliveryToken rejects submissions without a delivery token.
	// On by default; set TRANSLATION_REQUIRE_DELIVERY_TOKEN=false for
	// poll-only clients.
	RequireDeliveryToken bool
	MaxTextLength        int
}

func loadTranslationConfig() TranslationConfig {
	return TranslationConfig{
		Queue:                getEnv("TRANSLATION_QUEUE", "translations"),
		JobType:              getEnv("TRANSLATION_JOB_TYPE", "translation.translate"),
		RequireDeliveryToken: getEnvBool("TRANSLATION_REQUIRE_DELIVERY_TOKEN", true),
		MaxTextLength:        getEnvInt("TRANSLATION_MAX_TEXT_LENGTH", 20000),
	}
}
