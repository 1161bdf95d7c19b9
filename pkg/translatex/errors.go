package translatex

import (
	"net/http"

	"github.com/rohit9625/natively-backend/pkg/errx"
)

var translateErrors = errx.NewRegistry("TRANSLATEX")

var (
	ErrProviderFailed = translateErrors.Register(
		"PROVIDER_FAILED",
		errx.TypeExternal,
		http.StatusBadGateway,
		"Translation provider failed",
	)

	ErrInvalidResponse = translateErrors.Register(
		"INVALID_RESPONSE",
		errx.TypeExternal,
		http.StatusBadGateway,
		"Translation provider returned no text",
	)

	ErrTimeout = translateErrors.Register(
		"TIMEOUT",
		errx.TypeTimeout,
		http.StatusGatewayTimeout,
		"Translation provider timed out",
	)

	ErrInvalidRequest = translateErrors.Register(
		"INVALID_REQUEST",
		errx.TypeValidation,
		http.StatusBadRequest,
		"Invalid translation request",
	)

	ErrUnknownProvider = translateErrors.Register(
		"UNKNOWN_PROVIDER",
		errx.TypeValidation,
		http.StatusBadRequest,
		"Unknown translation provider",
	)
)

// ProviderError wraps a backend failure under ErrProviderFailed, keeping the
// provider's own error as the cause.
func ProviderError(provider string, cause error) *errx.Error {
	return translateErrors.NewWithCause(ErrProviderFailed, cause).WithDetail("provider", provider)
}

// InvalidResponse reports a response that carried no usable text.
func InvalidResponse(provider, reason string) *errx.Error {
	return translateErrors.New(ErrInvalidResponse).
		WithDetail("provider", provider).
		WithDetail("reason", reason)
}

// UnknownProvider reports a provider name that has no adapter.
func UnknownProvider(name string) *errx.Error {
	return translateErrors.New(ErrUnknownProvider).WithDetail("provider", name)
}
