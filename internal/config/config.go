// Package config loads runtime configuration from, in increasing priority,
// built-in defaults, an optional YAML file and PROPKEEPER_* environment
// variables. A .env file in the working directory is loaded into the
// environment first.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/erazemk/propkeeper/internal/validation"
)

// EnvPrefix is the prefix of environment variables read into the config.
// PROPKEEPER_SERVER_ADDR maps to server.addr.
const EnvPrefix = "PROPKEEPER_"

// PathEnvVar names a YAML config file when no path is passed to Load.
const PathEnvVar = EnvPrefix + "CONFIG"

// Config is the root configuration object.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr               string        `koanf:"addr" validate:"required"`
	ReadHeaderTimeout  time.Duration `koanf:"read_header_timeout" validate:"gt=0"`
	ReadTimeout        time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout       time.Duration `koanf:"write_timeout" validate:"gt=0"`
	IdleTimeout        time.Duration `koanf:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout    time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	CORSAllowedOrigins []string      `koanf:"cors_allowed_origins"`

	// RateLimitRequests per RateLimitWindow per client IP. Zero disables limiting.
	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"min=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
}

// DatabaseConfig holds the SQLite database location.
type DatabaseConfig struct {
	Path string `koanf:"path" validate:"required"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=trace debug info warn error disabled"`
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:               ":8080",
			ReadHeaderTimeout:  10 * time.Second,
			ReadTimeout:        30 * time.Second,
			WriteTimeout:       60 * time.Second,
			IdleTimeout:        120 * time.Second,
			ShutdownTimeout:    5 * time.Second,
			CORSAllowedOrigins: []string{"*"},
			RateLimitRequests:  0,
			RateLimitWindow:    time.Minute,
		},
		Database: DatabaseConfig{
			Path: "propkeeper.sqlite3",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// sliceKeys are parsed from comma-separated strings when set via env.
var sliceKeys = []string{"server.cors_allowed_origins"}

// Load builds the configuration. path may be empty, in which case the file
// named by PROPKEEPER_CONFIG is used if set.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	if path == "" {
		path = os.Getenv(PathEnvVar)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	if err := splitSliceKeys(k); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := validation.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// envKey maps PROPKEEPER_SERVER_READ_TIMEOUT to server.read_timeout: the
// first underscore separates the section from the key.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(s, "_", ".", 1)
}

func splitSliceKeys(k *koanf.Koanf) error {
	for _, key := range sliceKeys {
		s, ok := k.Get(key).(string)
		if !ok {
			continue
		}
		parts := make([]string, 0)
		for _, p := range strings.Split(s, ",") {
			if p = strings.TrimSpace(p); p != "" {
				parts = append(parts, p)
			}
		}
		if err := k.Set(key, parts); err != nil {
			return fmt.Errorf("setting %s: %w", key, err)
		}
	}
	return nil
}
