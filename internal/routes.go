package internal

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"webstat/internal/config"
	webstathttp "webstat/internal/http"
	"webstat/internal/http/middleware"
)

// publicCORSConfig is the permissive CORS setup shared by the public tracking
// endpoints, which are called cross-origin from embedding sites.
var publicCORSConfig = cors.Config{
	AllowOrigins: "*",
	AllowMethods: "POST,GET,OPTIONS",
	AllowHeaders: "Origin, Content-Type, Accept, Authorization, Referrer, User-Agent",
}

// MountRoutes mounts all application routes.
func MountRoutes(app *fiber.App, handler *webstathttp.Handler, cfg *config.Config, logger *slog.Logger) {
	// Public endpoints: event ingestion and script delivery
	app.Use("/track", cors.New(publicCORSConfig))
	app.Post("/track", handler.TrackAction)
	app.Get("/scripts/tracker", handler.TrackerScriptAction)

	app.Get("/health", handler.HealthAction)

	// Studio APIs, gated by the studio key
	api := app.Group("/api", middleware.StudioKeyAuth(cfg, logger))
	api.Get("/analytics", handler.OverviewAction)
	api.Get("/dashboard", handler.DashboardAction)
	api.Get("/sites", handler.SitesIndexAction)
	api.Post("/sites", handler.SiteCreateAction)
	api.Put("/sites/:channelId", handler.SiteUpdateAction)
	api.Delete("/sites/:channelId", handler.SiteDeleteAction)
	api.Get("/site/:channelId", handler.SiteShowAction)
	api.Get("/check", handler.CheckAction)
}
