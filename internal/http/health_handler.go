package http

import (
	"time"

	"log/slog"

	"github.com/gofiber/fiber/v2"
)

// HealthStatus represents the health check response
type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	DBStatus  string    `json:"db_status"`
}

// HealthAction handles the health check endpoint
func (h *Handler) HealthAction(c *fiber.Ctx) error {
	dbStatus := "ok"

	if h.db == nil {
		dbStatus = "error"
		h.logger.Error("Database connection unavailable")
	} else {
		sqlDB, err := h.db.DB()
		if err != nil {
			dbStatus = "error"
			h.logger.Error("Database connection error", slog.Any("error", err))
		} else if err := sqlDB.Ping(); err != nil {
			dbStatus = "error"
			h.logger.Error("Database ping failed", slog.Any("error", err))
		}
	}

	health := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		DBStatus:  dbStatus,
	}
	if dbStatus != "ok" {
		health.Status = "degraded"
	}

	return c.JSON(health)
}

// CheckAction is the studio key probe: it only succeeds behind the API-key
// middleware.
func (h *Handler) CheckAction(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true})
}
