package translationapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rohit9625/natively-backend/pkg/errx"
	"github.com/rohit9625/natively-backend/pkg/logx"
)

// Envelope is the body of every response.
type Envelope struct {
	Success bool              `json:"success"`
	Data    any               `json:"data,omitempty"`
	Error   *errx.PublicError `json:"error,omitempty"`
}

func ok(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(Envelope{Success: true, Data: data})
}

func fail(c *fiber.Ctx, status int, body errx.PublicError) error {
	return c.Status(status).JSON(Envelope{Success: false, Error: &body})
}

// ErrorHandler is the fiber error handler. Internal codes, causes and
// details are logged and never sent to the client.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		switch {
		case fe.Code == fiber.StatusNotFound:
			return fail(c, fe.Code, errx.PublicError{Code: errx.PublicNotFound, Message: "Route not found"})
		case fe.Code < fiber.StatusInternalServerError:
			return fail(c, fe.Code, errx.PublicError{Code: errx.PublicInvalidRequest, Message: fe.Message})
		}
	}

	body, status := errx.ToPublic(err)

	entry := logx.WithFields(logx.Fields{
		"path":       c.Path(),
		"method":     c.Method(),
		"status":     status,
		"request_id": c.Get(fiber.HeaderXRequestID),
	}).WithError(err)
	var e *errx.Error
	if errx.As(err, &e) && len(e.Details) > 0 {
		entry = entry.WithField("details", e.Details)
	}
	if status >= fiber.StatusInternalServerError {
		entry.Error("request failed")
	} else {
		entry.Debug("request rejected")
	}

	return fail(c, status, body)
}
