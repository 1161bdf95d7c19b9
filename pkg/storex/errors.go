package storex

import (
	"time"

	"github.com/rohit9625/natively-backend/pkg/errx"
)

var storeErrors = errx.NewRegistry("STOREX")

var (
	ErrNotFound    = storeErrors.Register("NOT_FOUND", errx.TypeNotFound, 404, "Key not found")
	ErrUnavailable = storeErrors.Register("UNAVAILABLE", errx.TypeExternal, 500, "Store unavailable")
	ErrInvalidTTL  = storeErrors.Register("INVALID_TTL", errx.TypeValidation, 400, "TTL must be positive")
)

// NotFound builds an ErrNotFound error for key.
func NotFound(key string) *errx.Error {
	return storeErrors.New(ErrNotFound).WithDetail("key", key)
}

// Unavailable wraps a backend failure.
func Unavailable(op, key string, cause error) *errx.Error {
	return storeErrors.NewWithCause(ErrUnavailable, cause).
		WithDetail("op", op).
		WithDetail("key", key)
}

// ValidateTTL rejects zero and negative TTLs.
func ValidateTTL(ttl time.Duration) error {
	if ttl <= 0 {
		return storeErrors.New(ErrInvalidTTL).WithDetail("ttl", ttl.String())
	}
	return nil
}
