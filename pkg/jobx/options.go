package jobx

import "time"

// WorkerOptions configures the job processing client.
type WorkerOptions struct {
	Queues          []string
	Concurrency     int
	PollInterval    time.Duration
	ShutdownTimeout time.Duration
	DequeueTimeout  time.Duration
	ReclaimInterval time.Duration

	// Backoff computes the delay before a failed attempt is redelivered.
	Backoff func(attempt int) time.Duration
}

func defaultWorkerOptions() WorkerOptions {
	return WorkerOptions{
		Queues:          []string{"default"},
		Concurrency:     4,
		PollInterval:    time.Second,
		ShutdownTimeout: 30 * time.Second,
		DequeueTimeout:  5 * time.Second,
		ReclaimInterval: 15 * time.Second,
		Backoff: func(attempt int) time.Duration {
			return RetryDelay(2*time.Second, attempt)
		},
	}
}

// WorkerOption is a functional option for configuring the client.
type WorkerOption func(*WorkerOptions)

// WithQueues sets the queues to process.
func WithQueues(queues ...string) WorkerOption {
	return func(o *WorkerOptions) {
		if len(queues) > 0 {
			o.Queues = queues
		}
	}
}

// WithConcurrency sets the number of worker goroutines.
func WithConcurrency(n int) WorkerOption {
	return func(o *WorkerOptions) {
		if n > 0 {
			o.Concurrency = n
		}
	}
}

// WithPollInterval sets the scheduler tick and the idle sleep after dequeue errors.
func WithPollInterval(d time.Duration) WorkerOption {
	return func(o *WorkerOptions) {
		o.PollInterval = d
	}
}

// WithShutdownTimeout sets the maximum time to wait for workers to finish on shutdown.
func WithShutdownTimeout(d time.Duration) WorkerOption {
	return func(o *WorkerOptions) {
		o.ShutdownTimeout = d
	}
}

// WithDequeueTimeout sets the timeout passed to the blocking dequeue call.
func WithDequeueTimeout(d time.Duration) WorkerOption {
	return func(o *WorkerOptions) {
		o.DequeueTimeout = d
	}
}

// WithReclaimInterval sets how often expired leases are swept.
func WithReclaimInterval(d time.Duration) WorkerOption {
	return func(o *WorkerOptions) {
		o.ReclaimInterval = d
	}
}

// WithRetryBaseDelay uses exponential backoff with jitter starting at base.
func WithRetryBaseDelay(base time.Duration) WorkerOption {
	return func(o *WorkerOptions) {
		o.Backoff = func(attempt int) time.Duration {
			return RetryDelay(base, attempt)
		}
	}
}

// WithBackoff overrides the retry delay policy.
func WithBackoff(fn func(attempt int) time.Duration) WorkerOption {
	return func(o *WorkerOptions) {
		if fn != nil {
			o.Backoff = fn
		}
	}
}
