// Package config loads the server and CLI configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPort         = 8080
	DefaultDatabasePath = "worktime.db"
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
)

type Config struct {
	Port         int      `yaml:"port"`
	DatabasePath string   `yaml:"database_path"`
	LogLevel     string   `yaml:"log_level"`
	LogFormat    string   `yaml:"log_format"` // text or json
	CORSOrigins  []string `yaml:"cors_origins"`

	// SettingsFile is a JSON settings document applied when the store has
	// no saved settings yet.
	SettingsFile string `yaml:"settings_file"`

	// Timezone names the IANA zone day keys resolve in. Empty means local.
	Timezone string `yaml:"timezone"`
}

// Load reads the YAML file at path. A missing file yields defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(expandHome(path))
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes cfg as YAML to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(expandHome(path), data, 0644)
}

func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.DatabasePath == "" {
		c.DatabasePath = DefaultDatabasePath
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}
	if len(c.CORSOrigins) == 0 {
		c.CORSOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	c.DatabasePath = expandHome(c.DatabasePath)
	c.SettingsFile = expandHome(c.SettingsFile)
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation error: %s - %s", e.Field, e.Message)
}

// Validate checks the configuration for common issues
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return &ValidationError{Field: "port", Message: "port must be between 1 and 65535"}
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return &ValidationError{Field: "log_format", Message: "log format must be text or json"}
	}
	if _, err := c.Location(); err != nil {
		return &ValidationError{Field: "timezone", Message: err.Error()}
	}
	return nil
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}
