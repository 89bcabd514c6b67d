// Package middleware holds request middleware shared across routes.
package middleware

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"webstat/internal/config"
)

// StudioKeyAuth validates the X-Studio-Key header on dashboard API routes.
func StudioKeyAuth(cfg *config.Config, logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		providedKey := c.Get("X-Studio-Key")
		if providedKey == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Not Authorized. Studio key is missing.",
			})
		}

		if !secureCompare(providedKey, cfg.StudioAPIKey) {
			logger.Warn("Rejected request with invalid studio key")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid Studio API key.",
			})
		}

		return c.Next()
	}
}

// secureCompare performs constant-time string comparison
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	var result byte
	for i := 0; i < len(a); i++ {
		result |= a[i] ^ b[i]
	}
	return result == 0
}
