package translatexazure

import (
	"net/http"
	"strings"

	"github.com/rohit9625/natively-backend/pkg/errx"
)

var (
	errorRegistry = errx.NewRegistry("AZURE_OPENAI")

	ErrAPIRequest = errorRegistry.Register(
		"API_REQUEST_FAILED",
		errx.TypeExternal,
		http.StatusBadGateway,
		"Failed to make request to Azure OpenAI",
	)

	ErrAPIUnauthorized = errorRegistry.Register(
		"API_UNAUTHORIZED",
		errx.TypeExternal,
		http.StatusUnauthorized,
		"Azure OpenAI rejected the credentials",
	)

	ErrDeploymentNotFound = errorRegistry.Register(
		"DEPLOYMENT_NOT_FOUND",
		errx.TypeExternal,
		http.StatusNotFound,
		"Azure OpenAI deployment not found",
	)

	ErrContentFiltered = errorRegistry.Register(
		"CONTENT_FILTERED",
		errx.TypeExternal,
		http.StatusBadRequest,
		"Request blocked by Azure content filter",
	)

	ErrMissingEndpoint = errorRegistry.Register(
		"MISSING_ENDPOINT",
		errx.TypeValidation,
		http.StatusBadRequest,
		"Azure OpenAI endpoint not provided",
	)
)

// ParseAzureError classifies an SDK error by its message.
func ParseAzureError(err error) *errx.Error {
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
	case strings.Contains(errLower, "unauthorized") || strings.Contains(errLower, "access denied"):
		baseErr = ErrAPIUnauthorized
	case strings.Contains(errLower, "deploymentnotfound") || strings.Contains(errLower, "deployment") && strings.Contains(errLower, "not found"):
		baseErr = ErrDeploymentNotFound
	case strings.Contains(errLower, "content_filter") || strings.Contains(errLower, "content management policy"):
		baseErr = ErrContentFiltered
	default:
		baseErr = ErrAPIRequest
	}

	return errorRegistry.NewWithCause(baseErr, err)
}
