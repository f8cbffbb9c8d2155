// Package config provides build_api configuration loaded from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/kelseyhightower/envconfig"

	"github.com/morezero/build-api/pkg/api"
)

const logPrefix = "config:LoadConfig"

// EnvPrefix is prepended to every variable name, e.g. BUILD_API_LOG_LEVEL.
const EnvPrefix = "BUILD_API"

// Config holds build_api configuration.
type Config struct {
	// Logging
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// OutputMode is the permission mode of files written by --output-json.
	OutputMode os.FileMode `envconfig:"OUTPUT_MODE" default:"0644"`

	// MinVersion is an optional semver constraint the Build API version must
	// satisfy, e.g. ">= 1.2".
	MinVersion string `envconfig:"MIN_VERSION"`

	// RouteEvents logs a route event after every call.
	RouteEvents bool `envconfig:"ROUTE_EVENTS" default:"true"`
}

// LoadConfig loads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var c Config
	if err := envconfig.Process(EnvPrefix, &c); err != nil {
		return nil, fmt.Errorf("%s - %w", logPrefix, err)
	}
	return &c, nil
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%s - %s_LOG_LEVEL must be one of debug, info, warn, error; got %q", logPrefix, EnvPrefix, c.LogLevel)
	}
	if c.OutputMode == 0 || c.OutputMode&^os.ModePerm != 0 {
		return fmt.Errorf("%s - %s_OUTPUT_MODE must be a permission mode, got %#o", logPrefix, EnvPrefix, uint32(c.OutputMode))
	}
	if err := api.CheckVersion(c.MinVersion); err != nil {
		return fmt.Errorf("%s - %w", logPrefix, err)
	}
	return nil
}

// SlogLevel maps LogLevel onto a slog.Level. Unknown values map to info.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
