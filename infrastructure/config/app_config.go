package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"listkeeper/database"
	"listkeeper/logging"
)

// AppConfig holds application-wide system configuration.
type AppConfig struct {
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	HTTPLogPath     string        `env:"HTTP_LOG_PATH"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	MetricsEnabled  bool          `env:"METRICS_ENABLED" envDefault:"true"`
	Database        database.Config
	Logging         logging.Config
}

// LoadAppConfigFromEnv loads complete application configuration from environment variables.
func LoadAppConfigFromEnv() (*AppConfig, error) {
	return loadAppConfig(env.Options{})
}

// LoadAppConfigFromMap loads configuration from an explicit variable set instead of the process environment.
func LoadAppConfigFromMap(vars map[string]string) (*AppConfig, error) {
	return loadAppConfig(env.Options{Environment: vars})
}

func loadAppConfig(opts env.Options) (*AppConfig, error) {
	var cfg AppConfig
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects combinations the server cannot start with.
func (c *AppConfig) Validate() error {
	switch c.Database.Driver {
	case database.DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("DB_PATH is required for the sqlite driver")
		}
	case database.DriverPostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("DB_DSN is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if c.Database.QueryTimeout <= 0 {
		return fmt.Errorf("DB_QUERY_TIMEOUT must be positive")
	}
	return nil
}
