package translation

import (
	"net/http"

	"github.com/rohit9625/natively-backend/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("TRANSLATION")

var (
	CodeInvalidRequest = ErrRegistry.Register("INVALID_REQUEST", errx.TypeValidation, http.StatusBadRequest, "Invalid translation request")
	CodeResultNotFound = ErrRegistry.Register("RESULT_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Translation is still pending or the job id is unknown")
	CodeInvalidPayload = ErrRegistry.Register("INVALID_PAYLOAD", errx.TypeValidation, http.StatusBadRequest, "Job payload could not be decoded")
	CodeCorruptResult  = ErrRegistry.Register("CORRUPT_RESULT", errx.TypeInternal, http.StatusInternalServerError, "Stored result could not be decoded")
	CodeEnqueueFailed  = ErrRegistry.Register("ENQUEUE_FAILED", errx.TypeExternal, http.StatusInternalServerError, "Failed to queue translation job")
)

func ErrInvalidRequest(reason string) *errx.Error {
	return ErrRegistry.NewWithMessage(CodeInvalidRequest, reason)
}

func ErrResultNotFound(jobID string) *errx.Error {
	return ErrRegistry.New(CodeResultNotFound).WithDetail("job_id", jobID)
}

func ErrInvalidPayload(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeInvalidPayload, cause)
}

func ErrCorruptResult(jobID string, cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeCorruptResult, cause).WithDetail("job_id", jobID)
}

func ErrEnqueueFailed(cause error) *errx.Error {
	return ErrRegistry.NewWithCause(CodeEnqueueFailed, cause)
}
