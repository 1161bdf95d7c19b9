package errx

// Type represents the category of error
type Type string

const (
	// TypeInternal represents internal server errors
	TypeInternal Type = "INTERNAL"

	// TypeValidation represents client input errors
	TypeValidation Type = "VALIDATION"

	// TypeNotFound represents resource not found errors
	TypeNotFound Type = "NOT_FOUND"

	// TypeConflict represents state conflicts (stale leases, double starts)
	TypeConflict Type = "CONFLICT"

	// TypeExternal represents errors from external services (Redis, Postgres, providers)
	TypeExternal Type = "EXTERNAL"

	// TypeTimeout represents deadlines exceeded while waiting on a dependency
	TypeTimeout Type = "TIMEOUT"
)

// String returns the string representation of the error type
func (t Type) String() string {
	return string(t)
}
