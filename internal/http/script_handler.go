package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"webstat/internal/tracker"
)

// TrackerScriptAction serves the minified tracking script, pointed at this
// host's /track endpoint.
func (h *Handler) TrackerScriptAction(c *fiber.Ctx) error {
	trackingURL := fmt.Sprintf("%s://%s/track", c.Protocol(), c.Hostname())

	script, err := tracker.Build(trackingURL)
	if err != nil {
		h.logger.Error("Failed to build tracking script", slog.Any("error", err))
		return c.Status(http.StatusInternalServerError).SendString("Error generating the script")
	}

	c.Set(fiber.HeaderContentType, "application/javascript")
	return c.SendString(script)
}
