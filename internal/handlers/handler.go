// Package handlers exposes the analytics service over HTTP. Every analytics
// endpoint takes a strict JSON body and answers with JSON.
package handlers

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/gradelens/gradelens/internal/logging"
	"github.com/gradelens/gradelens/internal/models"
	"github.com/gradelens/gradelens/internal/services"
)

// Handler contains all HTTP handlers
type Handler struct {
	logger    *logging.Logger
	analytics *services.AnalyticsService
	version   string
}

// New creates a new handler instance
func New(logger *logging.Logger, analytics *services.AnalyticsService, version string) *Handler {
	return &Handler{
		logger:    logger,
		analytics: analytics,
		version:   version,
	}
}

// serve decodes the body into Req, runs op and writes its result
func serve[Req any, Resp any](h *Handler, c *fiber.Ctx, op func(context.Context, *Req) (Resp, error)) error {
	var req Req
	if err := models.Decode(c.Body(), &req); err != nil {
		return h.respondError(c, services.FromDecodeError(err))
	}

	resp, err := op(c.UserContext(), &req)
	if err != nil {
		return h.respondError(c, err)
	}

	// JSON has no encoding for NaN or ±Inf, which extreme inputs can produce
	body, err := c.App().Config().JSONEncoder(resp)
	if err != nil {
		var unsupported *json.UnsupportedValueError
		if errors.As(err, &unsupported) {
			return h.respondError(c, services.NewServiceErrorWithDetails(services.CodeNonFiniteResult,
				"Result is not a finite number", map[string]interface{}{
					"value": unsupported.Str,
				}))
		}
		return h.respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

// statusFor maps service error codes to HTTP statuses
func statusFor(code string) int {
	switch code {
	case services.CodeInvalidJSON, services.CodeInvalidField, services.CodeInvalidParameter:
		return fiber.StatusBadRequest
	case services.CodeSubjectNotFound:
		return fiber.StatusNotFound
	case services.CodeNonFiniteResult:
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes err as an ErrorResponse
func (h *Handler) respondError(c *fiber.Ctx, err error) error {
	var svcErr *services.ServiceError
	if !errors.As(err, &svcErr) {
		h.logger.WithContext(c.UserContext()).Error("Unexpected analytics error",
			"path", c.Path(), "error", err)
		svcErr = services.NewServiceError("INTERNAL_ERROR", "Internal Server Error")
	}

	return c.Status(statusFor(svcErr.Code)).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    svcErr.Code,
			Message: svcErr.Message,
			Path:    c.Path(),
			Details: svcErr.Details,
		},
	})
}
