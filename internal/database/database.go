// Package database manages the SQLite connection and schema migrations.
package database

import (
	"fmt"
	"log/slog"
	"os"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"webstat/internal/channels"
	"webstat/internal/config"
	"webstat/internal/sites"
)

// Manager owns the gorm connection for the application's lifetime.
type Manager struct {
	cfg    *config.Config
	logger *slog.Logger
	db     *gorm.DB
}

// NewManager creates a database manager for the configured SQLite file.
func NewManager(cfg *config.Config, logger *slog.Logger) *Manager {
	return &Manager{cfg: cfg, logger: logger}
}

// Init opens the database connection and applies SQLite pragmas.
func (m *Manager) Init() error {
	if err := os.MkdirAll(m.cfg.StoragePath, 0o755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}

	path := m.cfg.GetDatabasePath()
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return fmt.Errorf("failed to open database %s: %w", path, err)
	}

	db.Exec("PRAGMA journal_mode = WAL")
	db.Exec("PRAGMA busy_timeout = 5000")
	db.Exec("PRAGMA foreign_keys = ON")

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to access underlying sql.DB: %w", err)
	}
	if n := m.cfg.GetMaxOpenConns(); n > 0 {
		sqlDB.SetMaxOpenConns(n)
	}
	if n := m.cfg.GetMaxIdleConns(); n > 0 {
		sqlDB.SetMaxIdleConns(n)
	}

	m.db = db
	m.logger.Info("Database connection established", slog.String("path", path))
	return nil
}

// GetConnection returns the live gorm connection, nil before Init.
func (m *Manager) GetConnection() *gorm.DB {
	return m.db
}

// MigrateDatabase runs schema migrations for all models.
func (m *Manager) MigrateDatabase() error {
	if m.db == nil {
		return gorm.ErrInvalidDB
	}

	err := m.db.Transaction(func(tx *gorm.DB) error {
		return tx.AutoMigrate(
			&sites.Site{},
			&channels.Message{},
		)
	})
	if err != nil {
		m.logger.Error("Failed to auto-migrate database", slog.Any("error", err))
		return err
	}

	m.logger.Info("Database migration completed successfully")
	return nil
}

// Close shuts down the underlying connection pool.
func (m *Manager) Close() error {
	if m.db == nil {
		return nil
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
