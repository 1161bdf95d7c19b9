package config

import "time"

// JobxConfig configures the background job queue and worker loops.
type JobxConfig struct {
	Concurrency      int
	Queues           []string
	MaxAttempts      int
	PollInterval     time.Duration
	ShutdownTimeout  time.Duration
	DequeueTimeout   time.Duration
	LeaseTimeout     time.Duration
	RetryBaseDelay   time.Duration
	ReclaimInterval  time.Duration
	DeadLetterMaxLen int
}

func loadJobxConfig() JobxConfig {
	return JobxConfig{
		Concurrency:      getEnvInt("JOBX_CONCURRENCY", 4),
		Queues:           getEnvStringSlice("JOBX_QUEUES", []string{"translations"}),
		MaxAttempts:      getEnvInt("JOBX_MAX_ATTEMPTS", 3),
		PollInterval:     getEnvDuration("JOBX_POLL_INTERVAL", time.Second),
		ShutdownTimeout:  getEnvDuration("JOBX_SHUTDOWN_TIMEOUT", 30*time.Second),
		DequeueTimeout:   getEnvDuration("JOBX_DEQUEUE_TIMEOUT", 5*time.Second),
		LeaseTimeout:     getEnvDuration("JOBX_LEASE_TIMEOUT", 2*time.Minute),
		RetryBaseDelay:   getEnvDuration("JOBX_RETRY_BASE_DELAY", 2*time.Second),
		ReclaimInterval:  getEnvDuration("JOBX_RECLAIM_INTERVAL", 15*time.Second),
		DeadLetterMaxLen: getEnvInt("JOBX_DEAD_LETTER_MAX_LEN", 1000),
	}
}
