package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/gradelens/gradelens/internal/logging"
	"github.com/gradelens/gradelens/internal/models"
)

// errorCodes maps fiber statuses to response codes
var errorCodes = map[int]string{
	fiber.StatusBadRequest:            "BAD_REQUEST",
	fiber.StatusUnauthorized:          "UNAUTHORIZED",
	fiber.StatusForbidden:             "FORBIDDEN",
	fiber.StatusNotFound:              "NOT_FOUND",
	fiber.StatusMethodNotAllowed:      "METHOD_NOT_ALLOWED",
	fiber.StatusRequestEntityTooLarge: "PAYLOAD_TOO_LARGE",
	fiber.StatusUnsupportedMediaType:  "UNSUPPORTED_MEDIA_TYPE",
	fiber.StatusRequestTimeout:        "REQUEST_TIMEOUT",
	fiber.StatusServiceUnavailable:    "SERVICE_UNAVAILABLE",
}

// ErrorCode returns the response code for an HTTP status
func ErrorCode(status int) string {
	if code, ok := errorCodes[status]; ok {
		return code
	}
	if status >= fiber.StatusInternalServerError {
		return "INTERNAL_ERROR"
	}
	return "ERROR"
}

// ErrorHandler renders errors that escape handlers as an ErrorResponse.
// Messages of non-fiber errors are not exposed to clients.
func ErrorHandler(logger *logging.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		message := "Internal Server Error"

		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
			message = fe.Message
		}

		log := logger.WithContext(c.UserContext())
		if status >= fiber.StatusInternalServerError {
			log.Error("Request error", "path", c.Path(), "method", c.Method(), "status", status, "error", err)
		} else {
			log.Warn("Request rejected", "path", c.Path(), "method", c.Method(), "status", status, "error", err)
		}

		return c.Status(status).JSON(models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    ErrorCode(status),
				Message: message,
				Path:    c.Path(),
			},
		})
	}
}
