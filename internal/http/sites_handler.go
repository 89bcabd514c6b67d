package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"webstat/internal/events"
	"webstat/internal/sites"
)

// SiteResponse is the public shape of one registered site. The channel id
// doubles as the site's identifier.
type SiteResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// SiteParams is the admin payload for creating or updating a site.
type SiteParams struct {
	URL         string `json:"url"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// SitesIndexAction lists all registered sites.
func (h *Handler) SitesIndexAction(c *fiber.Ctx) error {
	registered, err := h.sites.All()
	if err != nil {
		h.logger.Error("Failed to list sites", slog.Any("error", err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch sites data",
		})
	}

	response := make([]SiteResponse, len(registered))
	for i, site := range registered {
		response[i] = SiteResponse{
			ID:          site.ChannelID,
			Name:        site.Name,
			Description: site.Description,
			URL:         site.URL,
		}
	}
	return c.Status(http.StatusOK).JSON(response)
}

// SiteShowAction returns recent raw records for one site, oldest first, each
// carrying its message id. Query params: limit (default 50) and after, a
// cursor restricting the window to older messages.
func (h *Handler) SiteShowAction(c *fiber.Ctx) error {
	channelID := c.Params("channelId")
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
			"error": "Failed to fetch site data",
		})
	}

	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if limit <= 0 {
		limit = 50
	}
	var cursor uint
	if after := c.Query("after"); after != "" {
		if parsed, err := strconv.ParseUint(after, 10, 64); err == nil {
			cursor = uint(parsed)
		}
	}

	msgs, err := h.store.Recent(site.ChannelID, limit, cursor)
	if err != nil {
		h.logger.Error("Failed to fetch site records", slog.Any("error", err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch site data",
		})
	}

	// Recent returns newest first; this endpoint reports oldest first.
	records := make([]events.Record, 0, len(msgs))
	for i := len(msgs) - 1; i >= 0; i-- {
		record, err := events.DecodeMessage(msgs[i].Content)
		if err != nil {
			h.logger.Debug("Skipping unparseable channel message",
				slog.Uint64("message_id", uint64(msgs[i].ID)),
				slog.Any("error", err))
			continue
		}
		record.ID = strconv.FormatUint(uint64(msgs[i].ID), 10)
		records = append(records, record)
	}

	return c.Status(http.StatusOK).JSON(records)
}

// SiteCreateAction registers a new site and provisions its channel.
func (h *Handler) SiteCreateAction(c *fiber.Ctx) error {
	var params SiteParams
	if err := c.BodyParser(&params); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}
	if params.URL == "" || params.Name == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "url and name are required"})
	}

	site := &sites.Site{
		URL:         params.URL,
		Name:        params.Name,
		Description: params.Description,
	}
	if err := h.sites.Create(site); err != nil {
		h.logger.Error("Failed to create site", slog.Any("error", err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create site"})
	}

	h.logger.Info("Registered site",
		slog.String("name", site.Name),
		slog.String("channel_id", site.ChannelID))
	return c.Status(http.StatusCreated).JSON(SiteResponse{
		ID:          site.ChannelID,
		Name:        site.Name,
		Description: site.Description,
		URL:         site.URL,
	})
}

// SiteUpdateAction updates an existing site's URL, name, or description.
func (h *Handler) SiteUpdateAction(c *fiber.Ctx) error {
	site, err := h.sites.ByChannelID(c.Params("channelId"))
	if err != nil {
		var notFound *sites.SiteNotFoundError
		if errors.As(err, &notFound) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"message": "Site not found. Check Id"})
		}
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update site"})
	}

	var params SiteParams
	if err := c.BodyParser(&params); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request"})
	}
	if params.URL != "" {
		site.URL = params.URL
	}
	if params.Name != "" {
		site.Name = params.Name
	}
	if params.Description != "" {
		site.Description = params.Description
	}

	if err := h.sites.Update(site); err != nil {
		h.logger.Error("Failed to update site", slog.Any("error", err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update site"})
	}
	return c.Status(http.StatusOK).JSON(SiteResponse{
		ID:          site.ChannelID,
		Name:        site.Name,
		Description: site.Description,
		URL:         site.URL,
	})
}

// SiteDeleteAction removes a site from the registry. Its channel messages are
// left in place; nothing routes to them once the site is gone.
func (h *Handler) SiteDeleteAction(c *fiber.Ctx) error {
	if err := h.sites.Delete(c.Params("channelId")); err != nil {
		var notFound *sites.SiteNotFoundError
		if errors.As(err, &notFound) {
			return c.Status(http.StatusNotFound).JSON(fiber.Map{"message": "Site not found. Check Id"})
		}
		h.logger.Error("Failed to delete site", slog.Any("error", err))
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete site"})
	}
	return c.SendStatus(http.StatusNoContent)
}
