package translatexgemini

import (
	"net/http"
	"strings"

	"github.com/rohit9625/natively-backend/pkg/errx"
)

var (
	errorRegistry = errx.NewRegistry("GEMINI")

	ErrAPIRequest = errorRegistry.Register(
		"API_REQUEST_FAILED",
		errx.TypeExternal,
		http.StatusBadGateway,
		"Failed to make request to Gemini API",
	)

	ErrAPIUnauthorized = errorRegistry.Register(
		"API_UNAUTHORIZED",
		errx.TypeExternal,
		http.StatusUnauthorized,
		"Invalid or missing Gemini credentials",
	)

	ErrAPIRateLimit = errorRegistry.Register(
		"API_RATE_LIMIT",
		errx.TypeExternal,
		http.StatusTooManyRequests,
		"Gemini API quota or rate limit exceeded",
	)

	ErrBlocked = errorRegistry.Register(
		"BLOCKED",
		errx.TypeExternal,
		http.StatusBadGateway,
		"Response blocked by safety settings",
	)

	ErrClientInit = errorRegistry.Register(
		"CLIENT_INIT_FAILED",
		errx.TypeValidation,
		http.StatusBadRequest,
		"Failed to create Gemini client",
	)
)

// ParseGeminiError classifies an SDK error by its message.
func ParseGeminiError(err error) *errx.Error {
	if err == nil {
		return nil
	}

	var customErr *errx.Error
	if errx.As(err, &customErr) {
		return customErr
	}

	errLower := strings.ToLower(err.Error())

	var baseErr *errx.ErrorCode
	switch {
	case strings.Contains(errLower, "api key not valid") ||
		strings.Contains(errLower, "permission_denied") ||
		strings.Contains(errLower, "unauthenticated"):
		baseErr = ErrAPIUnauthorized
	case strings.Contains(errLower, "resource_exhausted") || strings.Contains(errLower, "quota"):
		baseErr = ErrAPIRateLimit
	case strings.Contains(errLower, "safety") || strings.Contains(errLower, "blocked"):
		baseErr = ErrBlocked
	default:
		baseErr = ErrAPIRequest
	}

	return errorRegistry.NewWithCause(baseErr, err)
}
