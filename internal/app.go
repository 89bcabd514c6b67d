// Package internal contains core application wiring.
package internal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"webstat/internal/channels"
	"webstat/internal/config"
	"webstat/internal/database"
	webstathttp "webstat/internal/http"
	"webstat/internal/logger"
	"webstat/internal/pkg/geoip"
	"webstat/internal/sites"
)

// Application bundles the long-lived components of the service.
type Application struct {
	Config    *config.Config
	Logger    *slog.Logger
	DBManager *database.Manager
	Fiber     *fiber.App

	geo *geoip.Resolver
}

// NewApp creates a new application instance with default settings
func NewApp() (*Application, error) {
	cfg := config.GetConfig()
	return NewAppWithConfig(cfg)
}

// NewAppWithConfig creates a new application with the provided config
func NewAppWithConfig(cfg *config.Config) (*Application, error) {
	log := logger.New(cfg)

	dbManager := database.NewManager(cfg, log)
	if err := dbManager.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	db := dbManager.GetConnection()
	geo := geoip.NewResolver(cfg.GeoDBPath, log)

	handler := webstathttp.NewHandler(cfg, log, db,
		sites.NewRepository(db),
		channels.NewStore(db, log),
		geo)

	app := fiber.New(fiber.Config{
		AppName:               cfg.AppName,
		DisableStartupMessage: cfg.IsProduction(),
	})
	MountRoutes(app, handler, cfg, log)

	return &Application{
		Config:    cfg,
		Logger:    log,
		DBManager: dbManager,
		Fiber:     app,
		geo:       geo,
	}, nil
}

// StartAsync begins serving HTTP without blocking the caller.
func (a *Application) StartAsync() error {
	go func() {
		addr := ":" + a.Config.AppPort
		if err := a.Fiber.Listen(addr); err != nil {
			a.Logger.Error("HTTP server stopped", slog.Any("error", err))
		}
	}()
	return nil
}

// Shutdown stops the HTTP server and releases resources.
func (a *Application) Shutdown(ctx context.Context) error {
	if err := a.Fiber.ShutdownWithContext(ctx); err != nil {
		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}
	a.geo.Close()
	return a.DBManager.Close()
}
