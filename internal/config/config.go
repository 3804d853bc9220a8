package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// ServerURL is the base URL of the tracker API
	ServerURL string `yaml:"server_url"`

	// RequestTimeout bounds every remote call
	RequestTimeout time.Duration `yaml:"request_timeout"`

	// LogLevel is one of debug, info, warn, error
	LogLevel string `yaml:"log_level"`

	// Theme colors the terminal output
	Theme ColorScheme `yaml:"theme"`
}

// ColorScheme holds the hex colors used for terminal output. Empty
// fields fall back to the default palette.
type ColorScheme struct {
	Accent  string `yaml:"accent"`
	Title   string `yaml:"title"`
	Subtle  string `yaml:"subtle"`
	Success string `yaml:"success"`
	Error   string `yaml:"error"`
	Warning string `yaml:"warning"`
}

// DefaultColorScheme is the built-in blue theme
func DefaultColorScheme() ColorScheme {
	return ColorScheme{
		Accent:  "#7aa2f7",
		Title:   "#c0caf5",
		Subtle:  "#565f89",
		Success: "#9ece6a",
		Error:   "#f7768e",
		Warning: "#e0af68",
	}
}

// fillDefaults replaces empty fields with the default palette
func (c *ColorScheme) fillDefaults() {
	def := DefaultColorScheme()
	if c.Accent == "" {
		c.Accent = def.Accent
	}
	if c.Title == "" {
		c.Title = def.Title
	}
	if c.Subtle == "" {
		c.Subtle = def.Subtle
	}
	if c.Success == "" {
		c.Success = def.Success
	}
	if c.Error == "" {
		c.Error = def.Error
	}
	if c.Warning == "" {
		c.Warning = def.Warning
	}
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		ServerURL:      "http://localhost:5000",
		RequestTimeout: 10 * time.Second,
		LogLevel:       "info",
		Theme:          DefaultColorScheme(),
	}
}

// Load reads config from ~/.tracklite/config.yaml, falling back to
// defaults when the file doesn't exist. TRACKLITE_CONFIG overrides
// the file path, TRACKLITE_SERVER overrides the server URL.
func Load() (*Config, error) {
	cfg := Default()

	path, err := configPath()
	if err == nil {
		if data, readErr := os.ReadFile(path); readErr == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		} else if !os.IsNotExist(readErr) {
			return nil, fmt.Errorf("read %s: %w", path, readErr)
		}
	}

	if server := os.Getenv("TRACKLITE_SERVER"); server != "" {
		cfg.ServerURL = server
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = Default().RequestTimeout
	}
	if cfg.ServerURL == "" {
		cfg.ServerURL = Default().ServerURL
	}
	cfg.Theme.fillDefaults()

	return cfg, nil
}

// configPath resolves the config file location
func configPath() (string, error) {
	if path := os.Getenv("TRACKLITE_CONFIG"); path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".tracklite", "config.yaml"), nil
}
