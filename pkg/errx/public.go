package errx

import "net/http"

// Public wire codes. Clients only ever see these; registry codes, causes and
// details stay in the logs.
const (
	PublicInvalidRequest = "INVALID_REQUEST"
	PublicNotFound       = "NOT_FOUND"
	PublicServerError    = "SERVER_ERROR"
)

// PublicError is the client-facing error body of the response envelope.
type PublicError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ToPublic maps any error onto the public taxonomy and returns the body and
// the HTTP status to send with it.
func ToPublic(err error) (PublicError, int) {
	var e *Error
	if !As(err, &e) {
		return PublicError{Code: PublicServerError, Message: "Internal server error"}, http.StatusInternalServerError
	}

	switch e.Type {
	case TypeValidation:
		return PublicError{Code: PublicInvalidRequest, Message: e.Message}, http.StatusBadRequest
	case TypeNotFound:
		return PublicError{Code: PublicNotFound, Message: e.Message}, http.StatusNotFound
	default:
		return PublicError{Code: PublicServerError, Message: "Internal server error"}, http.StatusInternalServerError
	}
}
