// Package config loads application configuration with precedence:
// environment variables over the config file over built-in defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const configPathEnv = "NEWSPILOT_CONFIG"

// Config holds the application settings.
type Config struct {
	Storage   StorageConfig   `yaml:"storage"`
	Server    ServerConfig    `yaml:"server"`
	Discovery DiscoveryConfig `yaml:"discovery"`
}

// StorageConfig locates the tenant datastore and the activity database.
type StorageConfig struct {
	Root        string `yaml:"root"`
	ActivityDSN string `yaml:"activity_dsn"`
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DiscoveryConfig tunes the discovery pipeline.
type DiscoveryConfig struct {
	MaxResults     int    `yaml:"max_results"`
	KeywordDelayMS int    `yaml:"keyword_delay_ms"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Language       string `yaml:"language"`
	Country        string `yaml:"country"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Root:        ".newspilot",
			ActivityDSN: "activity.db",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Discovery: DiscoveryConfig{
			MaxResults:     50,
			KeywordDelayMS: 500,
			TimeoutSeconds: 10,
			Language:       "en",
			Country:        "US",
		},
	}
}

// Load reads the YAML config file named by NEWSPILOT_CONFIG (if set) and
// applies environment overrides on top of the defaults. A missing file is
// not an error; a file that exists but cannot be parsed is.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv(configPathEnv); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(raw, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("NEWSPILOT_STORAGE_ROOT"); v != "" {
		c.Storage.Root = v
	}
	if v := os.Getenv("NEWSPILOT_ACTIVITY_DSN"); v != "" {
		c.Storage.ActivityDSN = v
	}
	if v := os.Getenv("NEWSPILOT_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("NEWSPILOT_MAX_RESULTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Discovery.MaxResults = n
		}
	}
}
