// Package config loads application configuration from defaults, an
// optional YAML file, and ARRDECK_* environment variables, in that
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// AppConfig is the root configuration for the server.
type AppConfig struct {
	Service    ServiceConfig    `koanf:"service"`
	Database   DatabaseConfig   `koanf:"database"`
	Logger     LoggerConfig     `koanf:"logger"`
	Metrics    MetricsConfig    `koanf:"metrics"`
	NATS       NATSConfig       `koanf:"nats"`
	Connector  ConnectorConfig  `koanf:"connector"`
	Encryption EncryptionConfig `koanf:"encryption"`
}

// ServiceConfig contains service metadata and the HTTP listen port.
type ServiceConfig struct {
	Name        string `koanf:"name"`
	Environment string `koanf:"environment"` // dev, staging, production
	Port        int    `koanf:"port"`
}

// DatabaseConfig selects and configures the config-store database.
type DatabaseConfig struct {
	Driver   string `koanf:"driver"` // sqlite or postgres
	Path     string `koanf:"path"`   // sqlite file path
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Database string `koanf:"database"`
	SSLMode  string `koanf:"ssl_mode"`
}

// LoggerConfig contains logging configuration.
type LoggerConfig struct {
	Level       string `koanf:"level"`
	Development bool   `koanf:"development"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path"`
}

// NATSConfig controls the optional mirroring of registry events to NATS.
type NATSConfig struct {
	Enabled bool   `koanf:"enabled"`
	URL     string `koanf:"url"`
	Prefix  string `koanf:"prefix"` // subject prefix for mirrored events
}

// ConnectorConfig holds the outbound HTTP and retry policy shared by all
// connectors.
type ConnectorConfig struct {
	Timeout       time.Duration `koanf:"timeout"`
	MaxRetries    int           `koanf:"max_retries"`
	BaseDelay     time.Duration `koanf:"base_delay"`
	MaxDelay      time.Duration `koanf:"max_delay"`
	BackoffFactor float64       `koanf:"backoff_factor"`
}

// EncryptionConfig holds the at-rest credential encryption key.
type EncryptionConfig struct {
	Key string `koanf:"key"`
}

// Default returns the built-in configuration.
func Default() *AppConfig {
	return &AppConfig{
		Service: ServiceConfig{
			Name:        "arrdeck",
			Environment: "development",
			Port:        8484,
		},
		Database: DatabaseConfig{
			Driver:  "sqlite",
			Path:    "arrdeck.db",
			SSLMode: "disable",
		},
		Logger: LoggerConfig{
			Level:       "info",
			Development: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
		NATS: NATSConfig{
			URL:    "nats://localhost:4222",
			Prefix: "arrdeck",
		},
		Connector: ConnectorConfig{
			Timeout:       30 * time.Second,
			MaxRetries:    3,
			BaseDelay:     time.Second,
			MaxDelay:      10 * time.Second,
			BackoffFactor: 2,
		},
	}
}

// Validate checks the configuration for inconsistencies.
func (c *AppConfig) Validate() error {
	if c.Service.Port <= 0 || c.Service.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Service.Port)
	}
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			return fmt.Errorf("sqlite driver requires database.path")
		}
	case "postgres":
		if c.Database.Host == "" || c.Database.Database == "" {
			return fmt.Errorf("postgres driver requires database.host and database.database")
		}
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	if c.Connector.Timeout <= 0 {
		return fmt.Errorf("connector timeout must be positive")
	}
	if c.Encryption.Key == "" {
		return fmt.Errorf("encryption.key must be set")
	}
	return nil
}

// IsProduction reports whether the app runs in a production environment.
func (c *AppConfig) IsProduction() bool {
	return c.Service.Environment == "production" || c.Service.Environment == "prod"
}

// Load reads the configuration. configPath may be empty, in which case
// the default search paths are tried.
func Load(configPath string) (*AppConfig, error) {
	k := koanf.New(".")

	cfg := Default()
	if err := k.Load(structs.Provider(cfg, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	paths := defaultConfigPaths()
	if configPath != "" {
		paths = []string{configPath}
	}
	for _, path := range paths {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("ARRDECK_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, "ARRDECK_")), "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func defaultConfigPaths() []string {
	paths := []string{"arrdeck.yaml", filepath.Join("config", "arrdeck.yaml")}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "arrdeck", "arrdeck.yaml"))
	}
	paths = append(paths, "/etc/arrdeck/arrdeck.yaml")
	return paths
}
