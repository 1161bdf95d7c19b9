package translatexanthropic

import (
	"net/http"
	"strings"

	"github.com/rohit9625/natively-backend/pkg/errx"
)

var (
	errorRegistry = errx.NewRegistry("ANTHROPIC")

	ErrAPIRequest = errorRegistry.Register(
		"API_REQUEST_FAILED",
		errx.TypeExternal,
		http.StatusBadGateway,
		"Failed to make request to Anthropic API",
	)

	ErrAPIUnauthorized = errorRegistry.Register(
		"API_UNAUTHORIZED",
		errx.TypeExternal,
		http.StatusUnauthorized,
		"Invalid or missing Anthropic API key",
	)

	ErrAPIRateLimit = errorRegistry.Register(
		"API_RATE_LIMIT",
		errx.TypeExternal,
		http.StatusTooManyRequests,
		"Anthropic API rate limit exceeded",
	)

	ErrOverloaded = errorRegistry.Register(
		"OVERLOADED",
		errx.TypeExternal,
		http.StatusServiceUnavailable,
		"Anthropic API is overloaded",
	)

	ErrNoTextInResponse = errorRegistry.Register(
		"NO_TEXT_IN_RESPONSE",
		errx.TypeExternal,
		http.StatusBadGateway,
		"No text block returned in API response",
	)

	ErrMissingAPIKey = errorRegistry.Register(
		"MISSING_API_KEY",
		errx.TypeValidation,
		http.StatusBadRequest,
		"Anthropic API key not provided",
	)
)

// ParseAnthropicError classifies an SDK error by its message.
func ParseAnthropicError(err error) *errx.Error {
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
	case strings.Contains(errLower, "authentication_error") || strings.Contains(errLower, "unauthorized"):
		baseErr = ErrAPIUnauthorized
	case strings.Contains(errLower, "rate_limit") || strings.Contains(errLower, "rate limit"):
		baseErr = ErrAPIRateLimit
	case strings.Contains(errLower, "overloaded"):
		baseErr = ErrOverloaded
	default:
		baseErr = ErrAPIRequest
	}

	return errorRegistry.NewWithCause(baseErr, err)
}
