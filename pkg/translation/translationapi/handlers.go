package translationapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rohit9625/natively-backend/pkg/errx"
	"github.com/rohit9625/natively-backend/pkg/jobx"
	"github.com/rohit9625/natively-backend/pkg/translation"
	"github.com/rohit9625/natively-backend/pkg/translation/translationsrv"
)

const (
	defaultDeadLimit = 50
	maxDeadLimit     = 500
)

// TranslationHandlers exposes the job API over HTTP.
type TranslationHandlers struct {
	service *translationsrv.TranslationService
}

func NewTranslationHandlers(service *translationsrv.TranslationService) *TranslationHandlers {
	return &TranslationHandlers{service: service}
}

// RegisterRoutes mounts the handlers under /api/v1.
func (h *TranslationHandlers) RegisterRoutes(router fiber.Router) {
	v1 := router.Group("/api/v1")

	v1.Post("/translate", h.Translate)
	v1.Post("/translation/trigger", h.Trigger)
	v1.Get("/translation/:jobId", h.GetStatus)
	v1.Get("/jobs/dead", h.ListFailedJobs)
}

// Translate handles POST /api/v1/translate
func (h *TranslationHandlers) Translate(c *fiber.Ctx) error {
	var req translation.TranslateRequest
	if err := c.BodyParser(&req); err != nil {
		return translation.ErrInvalidRequest("request body must be a JSON object")
	}

	resp, err := h.service.Translate(c.UserContext(), req)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusOK, resp)
}

// Trigger handles POST /api/v1/translation/trigger
func (h *TranslationHandlers) Trigger(c *fiber.Ctx) error {
	var req translation.SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return translation.ErrInvalidRequest("request body must be a JSON object")
	}

	resp, err := h.service.Submit(c.UserContext(), req)
	if err != nil {
		return err
	}
	return ok(c, fiber.StatusAccepted, resp)
}

// GetStatus handles GET /api/v1/translation/:jobId
func (h *TranslationHandlers) GetStatus(c *fiber.Ctx) error {
	result, err := h.service.GetStatus(c.UserContext(), c.Params("jobId"))
	if err != nil {
		if errx.Is(err, translation.CodeResultNotFound) {
			// Pending and unknown jobs look the same to the client.
			return fail(c, fiber.StatusAccepted, errx.PublicError{
				Code:    errx.PublicNotFound,
				Message: "Translation is not ready yet",
			})
		}
		return err
	}
	return ok(c, fiber.StatusOK, result)
}

// ListFailedJobs handles GET /api/v1/jobs/dead
func (h *TranslationHandlers) ListFailedJobs(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultDeadLimit)
	if limit <= 0 || limit > maxDeadLimit {
		return translation.ErrInvalidRequest("limit must be between 1 and 500")
	}

	dead, err := h.service.ListFailedJobs(c.UserContext(), limit)
	if err != nil {
		return err
	}
	if dead == nil {
		dead = []jobx.DeadLetter{}
	}
	return ok(c, fiber.StatusOK, dead)
}
