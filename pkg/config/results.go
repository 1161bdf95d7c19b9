package config

import "time"

// ResultsConfig configures where translation results are kept and for how long.
type ResultsConfig struct {
	// Store is one of "redis", "postgres", "memory"
	Store         string
	TTL           time.Duration
	PurgeInterval time.Duration
}

func loadResultsConfig() ResultsConfig {
	return ResultsConfig{
		Store:         getEnv("RESULT_STORE", "redis"),
		TTL:           getEnvDuration("RESULT_TTL", time.Hour),
		PurgeInterval: getEnvDuration("RESULT_PURGE_INTERVAL", 10*time.Minute),
	}
}
