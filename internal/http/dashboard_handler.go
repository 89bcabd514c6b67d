package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"webstat/internal/analytics"
	"webstat/internal/events"
	"webstat/internal/sites"
)

// DashboardAction builds the full dashboard summary. With ?site=<channelID>
// it reads that site's channel; without it, it reads across every registered
// site. Either way it scans up to the configured cap of most-recent records,
// paginated in fixed-size batches.
func (h *Handler) DashboardAction(c *fiber.Ctx) error {
	channelID := c.Query("site")

	var records []events.Record
	if channelID != "" {
		site, err := h.sites.ByChannelID(channelID)
		if err != nil {
			var notFound *sites.SiteNotFoundError
			if errors.As(err, &notFound) {
				return c.Status(http.StatusNotFound).JSON(fiber.Map{
					"message": "Site not found. Check Id",
				})
			}
			h.logger.Error("Failed to resolve site", slog.Any("error", err))
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to fetch analytics data",
			})
		}

		records, err = h.store.RecentRecordsPaginated(site.ChannelID,
			h.cfg.DashboardFetchLimit, h.cfg.FetchBatchSize)
		if err != nil {
			h.logger.Error("Failed to fetch site records", slog.Any("error", err))
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to fetch analytics data",
			})
		}
	} else {
		registered, err := h.sites.All()
		if err != nil {
			h.logger.Error("Failed to list sites", slog.Any("error", err))
			return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to fetch analytics data",
			})
		}
		for _, site := range registered {
			siteRecords, err := h.store.RecentRecordsPaginated(site.ChannelID,
				h.cfg.DashboardFetchLimit, h.cfg.FetchBatchSize)
			if err != nil {
				h.logger.Warn("Skipping site in dashboard",
					slog.String("site", site.Name),
					slog.Any("error", err))
				continue
			}
			records = append(records, siteRecords...)
		}
	}

	summary := analytics.BuildSummary(records, time.Now().UTC())
	return c.Status(http.StatusOK).JSON(summary)
}
