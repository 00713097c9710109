package handlers

import (
	"runtime"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/gradelens/gradelens/internal/models"
)

// Health handles health check requests
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Version:   h.version,
	})
}

// Version reports the build version
func (h *Handler) Version(c *fiber.Ctx) error {
	return c.JSON(models.VersionResponse{
		Version:   h.version,
		GoVersion: runtime.Version(),
	})
}

// NotFound handles 404 errors
func (h *Handler) NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "NOT_FOUND",
			Message: "Route not found",
			Path:    c.Path(),
		},
	})
}
