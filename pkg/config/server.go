package config

import "time"

// ServerConfig configures the HTTP API process.
type ServerConfig struct {
	Port            string
	CORSOrigins     string
	BodyLimit       int
	ShutdownTimeout time.Duration
	Debug           bool
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:            getEnv("PORT", "3000"),
		CORSOrigins:     getEnv("CORS_ORIGINS", "*"),
		BodyLimit:       getEnvInt("HTTP_BODY_LIMIT", 1024*1024),
		ShutdownTimeout: getEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 30*time.Second),
		Debug:           getEnvBool("DEBUG", false),
	}
}
