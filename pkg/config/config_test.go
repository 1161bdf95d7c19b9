package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Jobx.MaxAttempts)
	assert.Equal(t, time.Hour, cfg.Results.TTL)
	assert.Equal(t, "redis", cfg.Results.Store)
	assert.Equal(t, []string{"translations"}, cfg.Jobx.Queues)
	assert.True(t, cfg.Translation.RequireDeliveryToken)
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("JOBX_MAX_ATTEMPTS", "5")
	t.Setenv("JOBX_QUEUES", "a, b ,")
	t.Setenv("TRANSLATION_QUEUE", "b")
	t.Setenv("RESULT_TTL", "15m")
	t.Setenv("TRANSLATION_REQUIRE_DELIVERY_TOKEN", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Jobx.MaxAttempts)
	assert.Equal(t, []string{"a", "b"}, cfg.Jobx.Queues)
	assert.Equal(t, 15*time.Minute, cfg.Results.TTL)
	assert.False(t, cfg.Translation.RequireDeliveryToken)
}

func TestValidate_TranslatorTimeoutMustFitLease(t *testing.T) {
	t.Setenv("TRANSLATOR_TIMEOUT", "5m")
	t.Setenv("JOBX_LEASE_TIMEOUT", "1m")

	_, err := Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, configErrors.New(ErrInvalidConfig))
}

func TestValidate_UnknownResultStore(t *testing.T) {
	t.Setenv("RESULT_STORE", "s3")

	_, err := Load()
	require.Error(t, err)
}

func TestValidate_TranslationQueueMustBeConsumed(t *testing.T) {
	t.Setenv("JOBX_QUEUES", "emails")

	_, err := Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
