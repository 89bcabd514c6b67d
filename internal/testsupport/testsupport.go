// Package testsupport provides shared helpers for package tests: in-memory
// databases, quiet loggers, and event fixtures.
package testsupport

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"webstat/internal/channels"
	"webstat/internal/events"
	"webstat/internal/sites"
)

// SetupTestDB creates an in-memory SQLite database with all models migrated.
// Each test gets its own named database; cache=shared lets multiple
// connections within the test see the same data.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	sanitizedName := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:test_%s_%d?mode=memory&cache=shared", sanitizedName, time.Now().UnixNano())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("testsupport: failed to open test database: %v", err)
	}

	db.Exec("PRAGMA foreign_keys = ON")

	if err := db.AutoMigrate(&sites.Site{}, &channels.Message{}); err != nil {
		t.Fatalf("testsupport: failed to migrate models: %v", err)
	}

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}

// GetLogger returns a logger that discards everything.
func GetLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// CreateTestSite registers a site and returns it.
func CreateTestSite(t *testing.T, db *gorm.DB, url, name string) *sites.Site {
	t.Helper()

	repo := sites.NewRepository(db)
	site := &sites.Site{URL: url, Name: name}
	if err := repo.Create(site); err != nil {
		t.Fatalf("testsupport: failed to create site: %v", err)
	}
	return site
}

// NewRecord builds a pageview record with sensible defaults. Override fields
// on the returned value as needed.
func NewRecord(sessionID, page string, timestamp time.Time) events.Record {
	return events.Record{
		Event:      events.EventTypePageView,
		Page:       page,
		SessionID:  sessionID,
		Timestamp:  timestamp.UTC().Format(time.RFC3339),
		DeviceInfo: "Win32, en-US, Mozilla/5.0 (Windows NT 10.0)",
		Location:   events.Location{City: "Unknown", Country: "Unknown"},
	}
}

// AppendRecord appends a record to a channel, failing the test on error.
func AppendRecord(t *testing.T, store *channels.Store, channelID string, record events.Record) {
	t.Helper()

	if _, err := store.Append(channelID, record); err != nil {
		t.Fatalf("testsupport: failed to append record: %v", err)
	}
}
