package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"webstat/internal/analytics"
	"webstat/internal/pkg/async"
)

// OverviewAction reports the lightweight per-site aggregates for every
// registered site, keyed by site name. Sites are fetched concurrently; one
// failing site is logged and skipped, the rest still report.
func (h *Handler) OverviewAction(c *fiber.Ctx) error {
	registered, err := h.sites.All()
	if err != nil {
		h.logger.Error("Failed to list sites", slog.Any("error", err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch analytics data",
		})
	}

	tasks := make([]async.Task, 0, len(registered))
	for _, site := range registered {
		channelID := site.ChannelID
		tasks = append(tasks, async.Task{
			Name: site.Name,
			Execute: func() (any, error) {
				records, err := h.store.RecentRecords(channelID, h.cfg.OverviewFetchLimit)
				if err != nil {
					return nil, err
				}
				return analytics.BuildSiteStats(records), nil
			},
		})
	}

	results := h.pool().Execute(context.Background(), tasks)

	overview := make(map[string]analytics.SiteStats, len(results))
	for name, result := range results {
		if result.Err != nil {
			h.logger.Warn("Skipping site in overview",
				slog.String("site", name),
				slog.Any("error", result.Err))
			continue
		}
		stats, ok := result.Data.(analytics.SiteStats)
		if !ok {
			continue
		}
		overview[name] = stats
	}

	return c.Status(http.StatusOK).JSON(overview)
}
