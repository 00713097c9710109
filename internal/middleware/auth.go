// Package middleware holds the fiber middlewares shared by the HTTP API.
package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/gradelens/gradelens/internal/logging"
	"github.com/gradelens/gradelens/internal/models"
)

// MinAPIKeyLength is the minimum required length for API keys
const MinAPIKeyLength = 32

// APIKeyHeader is the preferred header for the API key
const APIKeyHeader = "X-API-Key"

// ValidateAPIKey checks if an API key meets the security requirements
func ValidateAPIKey(key string) bool {
	return len(key) >= MinAPIKeyLength && strings.TrimSpace(key) != ""
}

// extractAPIKey reads the key from X-API-Key, then from Authorization with
// or without the Bearer scheme.
func extractAPIKey(c *fiber.Ctx) string {
	if key := c.Get(APIKeyHeader); key != "" {
		return key
	}
	auth := c.Get(fiber.HeaderAuthorization)
	if after, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return after
	}
	return auth
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    "UNAUTHORIZED",
			Message: message,
			Path:    c.Path(),
		},
	})
}

// APIKeyAuth creates an API key authentication middleware. Keys shorter than
// MinAPIKeyLength are ignored with a warning.
func APIKeyAuth(logger *logging.Logger, apiKeys []string, enabled bool) fiber.Handler {
	if !enabled {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	keys := make(map[string]struct{}, len(apiKeys))
	for _, key := range apiKeys {
		if key == "" {
			continue
		}
		if !ValidateAPIKey(key) {
			logger.Warn("API key does not meet security requirements",
				"key_length", len(key),
				"min_required", MinAPIKeyLength,
				"key_prefix", maskAPIKey(key),
			)
			continue
		}
		keys[key] = struct{}{}
	}

	if len(keys) == 0 {
		logger.Error("Authentication enabled without a valid API key; every request will be rejected",
			"total_keys", len(apiKeys),
			"min_required_length", MinAPIKeyLength,
		)
	}

	return func(c *fiber.Ctx) error {
		log := logger.WithContext(c.UserContext())

		apiKey := extractAPIKey(c)
		if apiKey == "" {
			log.Warn("API key missing", "path", c.Path(), "method", c.Method(), "ip", c.IP())
			return unauthorized(c, "API key is required. Provide it via X-API-Key header or Authorization header.")
		}

		if _, ok := keys[apiKey]; !ok {
			log.Warn("Invalid API key",
				"path", c.Path(),
				"method", c.Method(),
				"ip", c.IP(),
				"api_key_prefix", maskAPIKey(apiKey),
			)
			return unauthorized(c, "Invalid API key.")
		}

		return c.Next()
	}
}

// maskAPIKey masks API key for logging (show only first 4 chars)
func maskAPIKey(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return key[:4] + "****"
}
