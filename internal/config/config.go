// Package config provides configuration management using Viper
package config

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"github.com/spf13/viper"
)

// Environment types
const (
	Development = "development"
	Production  = "production"
	Test        = "test"
)

// LogLevel represents the logging level for the application
type LogLevel string

// Available log levels
const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

const defaultStudioAPIKey = "studio-api-key"

// Config holds all configuration parameters for the application
type Config struct {
	// Application settings
	AppName      string   `mapstructure:"appname"`
	AppPort      string   `mapstructure:"appport"`
	Environment  string   `mapstructure:"environment"`
	LogLevel     LogLevel `mapstructure:"loglevel"`
	StudioAPIKey string   `mapstructure:"studioapikey"`

	// File paths
	StoragePath  string `mapstructure:"storagepath"`
	DatabaseName string `mapstructure:"-"` // Derived from other settings
	GeoDBPath    string `mapstructure:"geodbpath"`

	// Logging settings
	LogsDirectory    string `mapstructure:"logsdir"`
	LogsMaxSizeInMb  int    `mapstructure:"logsmaxsizeinmb"`
	LogsMaxBackups   int    `mapstructure:"logsmaxbackups"`
	LogsMaxAgeInDays int    `mapstructure:"logsmaxageindays"`

	// Database settings
	DatabaseMaxOpenConns int `mapstructure:"dbmaxopenconns"`
	DatabaseMaxIdleConns int `mapstructure:"dbmaxidleconns"`

	// Event fetch settings
	OverviewFetchLimit  int `mapstructure:"overviewfetchlimit"`
	DashboardFetchLimit int `mapstructure:"dashboardfetchlimit"`
	FetchBatchSize      int `mapstructure:"fetchbatchsize"`
}

var (
	cfg  *Config
	once sync.Once
)

// GetConfig returns the application configuration
func GetConfig() *Config {
	once.Do(func() {
		v := viper.New()

		// Set defaults
		v.SetDefault("appname", "webstat")
		v.SetDefault("appport", "3000")
		v.SetDefault("environment", Development)
		v.SetDefault("loglevel", string(LogLevelDebug))
		v.SetDefault("studioapikey", defaultStudioAPIKey)
		v.SetDefault("storagepath", "storage")
		v.SetDefault("geodbpath", "storage/GeoLite2-City.mmdb")
		v.SetDefault("logsdir", "logs")
		v.SetDefault("logsmaxsizeinmb", 20)
		v.SetDefault("logsmaxbackups", 10)
		v.SetDefault("logsmaxageindays", 30)
		v.SetDefault("dbmaxopenconns", 0)
		v.SetDefault("dbmaxidleconns", 0)
		v.SetDefault("overviewfetchlimit", 50)
		v.SetDefault("dashboardfetchlimit", 1000)
		v.SetDefault("fetchbatchsize", 100)

		// Bind environment variables
		v.BindEnv("appname", "WEBSTAT_APP_NAME")
		v.BindEnv("appport", "WEBSTAT_APP_PORT")
		v.BindEnv("environment", "WEBSTAT_ENV")
		v.BindEnv("loglevel", "WEBSTAT_LOG_LEVEL")
		v.BindEnv("studioapikey", "WEBSTAT_STUDIO_API_KEY")
		v.BindEnv("storagepath", "WEBSTAT_STORAGE_PATH")
		v.BindEnv("geodbpath", "WEBSTAT_GEO_DB_PATH")
		v.BindEnv("logsdir", "WEBSTAT_LOGS_DIR")
		v.BindEnv("logsmaxsizeinmb", "WEBSTAT_LOGS_MAX_SIZE_IN_MB")
		v.BindEnv("logsmaxbackups", "WEBSTAT_LOGS_MAX_BACKUPS")
		v.BindEnv("logsmaxageindays", "WEBSTAT_LOGS_MAX_AGE_IN_DAYS")
		v.BindEnv("dbmaxopenconns", "WEBSTAT_DB_MAX_OPEN_CONNS")
		v.BindEnv("dbmaxidleconns", "WEBSTAT_DB_MAX_IDLE_CONNS")
		v.BindEnv("overviewfetchlimit", "WEBSTAT_OVERVIEW_FETCH_LIMIT")
		v.BindEnv("dashboardfetchlimit", "WEBSTAT_DASHBOARD_FETCH_LIMIT")
		v.BindEnv("fetchbatchsize", "WEBSTAT_FETCH_BATCH_SIZE")

		cfg = &Config{}
		if err := v.Unmarshal(cfg); err != nil {
			log.Fatalf("config: failed to unmarshal configuration: %v", err)
		}

		// Validate
		if err := cfg.validate(); err != nil {
			log.Fatalf("config: invalid configuration: %v", err)
		}

		// Set derived values
		cfg.DatabaseName = cfg.GetDatabasePath()

		// The default studio key is only acceptable outside production
		if cfg.StudioAPIKey == "" {
			log.Fatal("Studio API key is required")
		}
		if cfg.IsProduction() && cfg.StudioAPIKey == defaultStudioAPIKey {
			log.Fatal("Production requires a unique WEBSTAT_STUDIO_API_KEY (cannot use default)")
		}
	})
	return cfg
}

// validate checks the configuration for errors
func (c *Config) validate() error {
	validEnvs := map[string]bool{
		Development: true,
		Production:  true,
		Test:        true,
	}
	if !validEnvs[c.Environment] {
		return fmt.Errorf("invalid environment: %s", c.Environment)
	}

	if c.FetchBatchSize <= 0 {
		return fmt.Errorf("invalid fetch batch size: %d", c.FetchBatchSize)
	}
	if c.DashboardFetchLimit < c.FetchBatchSize {
		return fmt.Errorf("dashboard fetch limit %d is below batch size %d",
			c.DashboardFetchLimit, c.FetchBatchSize)
	}

	return nil
}

// GetDatabasePath returns the appropriate database path based on environment
func (c *Config) GetDatabasePath() string {
	if c.DatabaseName == "" {
		c.DatabaseName = filepath.Join(c.StoragePath,
			fmt.Sprintf("%s-%s.db", c.AppName, c.Environment))
	}
	return c.DatabaseName
}

// IsDevelopment returns true if the environment is development
func (c *Config) IsDevelopment() bool {
	return c.Environment == Development
}

// IsProduction returns true if the environment is production
func (c *Config) IsProduction() bool {
	return c.Environment == Production
}

// IsTest returns true if the environment is test
func (c *Config) IsTest() bool {
	return c.Environment == Test
}

// GetMaxOpenConns returns the configured max open connections, 0 meaning driver default
func (c *Config) GetMaxOpenConns() int {
	return c.DatabaseMaxOpenConns
}

// GetMaxIdleConns returns the configured max idle connections, 0 meaning driver default
func (c *Config) GetMaxIdleConns() int {
	return c.DatabaseMaxIdleConns
}
