// Package http contains the fiber handlers. They are thin glue: fetch from
// the channel store, delegate to the analytics package, serialize JSON.
package http

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"webstat/internal/channels"
	"webstat/internal/config"
	"webstat/internal/pkg/async"
	"webstat/internal/pkg/geoip"
	"webstat/internal/sites"
)

// overviewWorkers bounds how many site channels the overview endpoint reads
// concurrently.
const overviewWorkers = 4

// Handler bundles the collaborators every endpoint needs.
type Handler struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *gorm.DB
	sites  sites.Repository
	store  *channels.Store
	geo    *geoip.Resolver
}

// NewHandler wires a handler set from its collaborators.
func NewHandler(cfg *config.Config, logger *slog.Logger, db *gorm.DB, repo sites.Repository, store *channels.Store, geo *geoip.Resolver) *Handler {
	return &Handler{
		cfg:    cfg,
		logger: logger,
		db:     db,
		sites:  repo,
		store:  store,
		geo:    geo,
	}
}

func (h *Handler) pool() *async.Pool {
	return async.NewPool(overviewWorkers)
}

// clientIP returns the originating client address, preferring the first entry
// of X-Forwarded-For.
func clientIP(c *fiber.Ctx) string {
	if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	return c.IP()
}
