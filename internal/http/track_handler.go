package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"webstat/internal/events"
	"webstat/internal/sites"
)

// DeviceInfoParams is the composite device descriptor reported by the
// tracking script.
type DeviceInfoParams struct {
	Language  string `json:"language"`
	Platform  string `json:"platform"`
	UserAgent string `json:"userAgent"`
}

// TrackParams is the payload of one tracked action.
type TrackParams struct {
	EventType      string           `json:"eventType"`
	Page           string           `json:"page"`
	Referrer       string           `json:"referrer"`
	SessionID      string           `json:"sessionId"`
	Timestamp      string           `json:"timestamp"`
	URL            string           `json:"url"`
	DeviceInfo     DeviceInfoParams `json:"deviceInfo"`
	AdditionalData map[string]any   `json:"additionalData"`
}

// TrackAction ingests one analytics event: validate, resolve the site by
// origin, geo-annotate, and append the record to the site's channel.
func (h *Handler) TrackAction(c *fiber.Ctx) error {
	var params TrackParams
	if err := c.BodyParser(&params); err != nil {
		h.logger.Warn("Unparseable track payload", slog.Any("error", err))
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   "request body is not valid JSON",
		})
	}

	record := events.Record{
		Event:     params.EventType,
		Page:      params.Page,
		Referrer:  params.Referrer,
		SessionID: params.SessionID,
		Timestamp: params.Timestamp,
		DeviceInfo: fmt.Sprintf("%s, %s, %s",
			params.DeviceInfo.Platform, params.DeviceInfo.Language, params.DeviceInfo.UserAgent),
		AdditionalData: params.AdditionalData,
	}
	if err := events.Validate(record); err != nil {
		h.logger.Warn("Validation failed for tracked data", slog.Any("error", err))
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   err.Error(),
		})
	}

	// The Origin header is browser-set and cannot be spoofed by page
	// JavaScript; the payload URL is only a fallback for same-origin posts.
	origin := c.Get("Origin")
	if origin == "" {
		origin = params.URL
	}
	site, err := h.sites.ByURL(origin)
	if err != nil {
		var notFound *sites.SiteNotFoundError
		if errors.As(err, &notFound) {
			h.logger.Warn("Site not found for origin", slog.String("origin", origin))
			return c.Status(http.StatusBadRequest).SendString("Site not found")
		}
		h.logger.Error("Failed to resolve site", slog.Any("error", err))
		return c.Status(http.StatusInternalServerError).SendString("Error tracking event")
	}

	record.Location = h.geo.Lookup(clientIP(c))

	if _, err := h.store.Append(site.ChannelID, record); err != nil {
		h.logger.Error("Failed to append event", slog.Any("error", err))
		return c.Status(http.StatusInternalServerError).SendString("Error tracking event")
	}

	h.logger.Info("Tracked event",
		slog.String("site", site.Name),
		slog.String("event", record.Event),
		slog.String("page", record.Page))
	return c.Status(http.StatusOK).SendString("Event tracked successfully")
}
