package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rohit9625/natively-backend/pkg/errx"
)

var configErrors = errx.NewRegistry("CONFIG")

var ErrInvalidConfig = configErrors.Register("INVALID", errx.TypeValidation, 500, "Invalid configuration")

// Config is the full process configuration, assembled from the environment.
type Config struct {
	Server      ServerConfig
	Redis       RedisConfig
	Database    DatabaseConfig
	Jobx        JobxConfig
	Results     ResultsConfig
	Translation TranslationConfig
	Translator  TranslatorConfig
	Notifx      NotifxConfig
}

// Load reads an optional .env file and then the environment.
func Load() (*Config, error) {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	cfg := &Config{
		Server:      loadServerConfig(),
		Redis:       loadRedisConfig(),
		Database:    loadDatabaseConfig(),
		Jobx:        loadJobxConfig(),
		Results:     loadResultsConfig(),
		Translation: loadTranslationConfig(),
		Translator:  loadTranslatorConfig(),
		Notifx:      loadNotifxConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects combinations that would break the job pipeline at runtime.
func (c *Config) Validate() error {
	if c.Jobx.MaxAttempts < 1 {
		return configErrors.NewWithMessage(ErrInvalidConfig, "JOBX_MAX_ATTEMPTS must be at least 1").
			WithDetail("value", c.Jobx.MaxAttempts)
	}
	// A provider call that outlives its lease lets a second worker pick the
	// same job up while the first is still translating.
	if c.Translator.Timeout >= c.Jobx.LeaseTimeout {
		return configErrors.NewWithMessage(ErrInvalidConfig, "TRANSLATOR_TIMEOUT must be shorter than JOBX_LEASE_TIMEOUT").
			WithDetail("translator_timeout", c.Translator.Timeout.String()).
			WithDetail("lease_timeout", c.Jobx.LeaseTimeout.String())
	}
	if !slices.Contains(c.Jobx.Queues, c.Translation.Queue) {
		return configErrors.NewWithMessage(ErrInvalidConfig, "TRANSLATION_QUEUE must be listed in JOBX_QUEUES").
			WithDetail("queue", c.Translation.Queue)
	}
	if c.Results.TTL <= 0 {
		return configErrors.NewWithMessage(ErrInvalidConfig, "RESULT_TTL must be positive")
	}
	switch c.Results.Store {
	case "redis", "postgres", "memory":
	default:
		return configErrors.NewWithMessage(ErrInvalidConfig, fmt.Sprintf("unknown RESULT_STORE %q", c.Results.Store))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvStringSlice(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
