package jobx

import (
	"errors"

	"github.com/rohit9625/natively-backend/pkg/errx"
)

var jobxErrors = errx.NewRegistry("JOBX")

var (
	ErrEnqueueFailed   = jobxErrors.Register("ENQUEUE_FAILED", errx.TypeExternal, 500, "Failed to enqueue job")
	ErrDequeueFailed   = jobxErrors.Register("DEQUEUE_FAILED", errx.TypeExternal, 500, "Failed to dequeue job")
	ErrAckFailed       = jobxErrors.Register("ACK_FAILED", errx.TypeExternal, 500, "Failed to acknowledge job")
	ErrRetryFailed     = jobxErrors.Register("RETRY_FAILED", errx.TypeExternal, 500, "Failed to retry job")
	ErrPromoteFailed   = jobxErrors.Register("PROMOTE_FAILED", errx.TypeExternal, 500, "Failed to promote scheduled jobs")
	ErrReclaimFailed   = jobxErrors.Register("RECLAIM_FAILED", errx.TypeExternal, 500, "Failed to reclaim expired leases")
	ErrInspectFailed   = jobxErrors.Register("INSPECT_FAILED", errx.TypeExternal, 500, "Failed to inspect queue")
	ErrLeaseLost       = jobxErrors.Register("LEASE_LOST", errx.TypeConflict, 409, "Lease is no longer held")
	ErrLeaseExpired    = jobxErrors.Register("LEASE_EXPIRED", errx.TypeTimeout, 504, "Lease expired before the job finished")
	ErrNoHandler       = jobxErrors.Register("NO_HANDLER", errx.TypeValidation, 400, "No handler registered for job type")
	ErrInvalidJob      = jobxErrors.Register("INVALID_JOB", errx.TypeValidation, 400, "Invalid job definition")
	ErrAlreadyRunning  = jobxErrors.Register("ALREADY_RUNNING", errx.TypeConflict, 409, "Worker is already running")
	ErrShutdownTimeout = jobxErrors.Register("SHUTDOWN_TIMEOUT", errx.TypeInternal, 500, "Graceful shutdown timed out")
)

// NewError builds an error from one of this package's codes. Backends use it
// so callers can match failures with errors.Is regardless of the backend.
func NewError(code *errx.ErrorCode, cause error) *errx.Error {
	if cause == nil {
		return jobxErrors.New(code)
	}
	return jobxErrors.NewWithCause(code, cause)
}

// ValidateJob checks the fields every backend relies on.
func ValidateJob(job Job) error {
	switch {
	case job.Type == "":
		return jobxErrors.NewWithMessage(ErrInvalidJob, "job type is required")
	case job.Queue == "":
		return jobxErrors.NewWithMessage(ErrInvalidJob, "job queue is required")
	case job.MaxAttempts < 1:
		return jobxErrors.NewWithMessage(ErrInvalidJob, "max attempts must be at least 1")
	}
	return nil
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks a handler error as not worth retrying. The job goes straight
// to the terminal-failure path.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}
