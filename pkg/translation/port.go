package translation

import (
	"context"
	"time"
)

// ResultRepository persists final job outcomes with a time to live.
type ResultRepository interface {
	Save(ctx context.Context, result *Result, ttl time.Duration) error
	// FindByJobID returns ErrResultNotFound while the job is pending, for
	// unknown ids, and after the record expired.
	FindByJobID(ctx context.Context, jobID string) (*Result, error)
	// Exists reports whether a live record is stored for the job.
	Exists(ctx context.Context, jobID string) (bool, error)
}

// Notifier tells the submitting client that a job finished.
type Notifier interface {
	NotifyCompletion(ctx context.Context, token string, result *Result) error
}
