package config

import "time"

// NotifxConfig configures completion notifications.
type NotifxConfig struct {
	// Provider is "console" or "ses"
	Provider    string
	FromAddress string
	AWSRegion   string
	Timeout     time.Duration
}

func loadNotifxConfig() NotifxConfig {
	return NotifxConfig{
		Provider:    getEnv("NOTIFX_PROVIDER", "console"),
		FromAddress: getEnv("NOTIFX_FROM_ADDRESS", "noreply@natively.app"),
		AWSRegion:   getEnv("NOTIFX_AWS_REGION", getEnv("AWS_REGION", "us-east-1")),
		Timeout:     getEnvDuration("NOTIFX_TIMEOUT", 10*time.Second),
	}
}
