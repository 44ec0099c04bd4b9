// Package config loads and validates compass configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// GatewayConfig holds settings for the generative-AI endpoint.
type GatewayConfig struct {
	// BaseURL is the API root of the model provider.
	BaseURL string `yaml:"base_url"`

	// Model is the model identifier used for both gateway operations.
	Model string `yaml:"model"`

	// Timeout bounds each gateway request. A hung request surfaces as a
	// gateway failure instead of leaving the session stuck.
	Timeout time.Duration `yaml:"timeout"`
}

// Config represents compass configuration options.
type Config struct {
	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir is the directory where logs will be written
	LogDir string `yaml:"log_dir"`

	// Locale is the BCP 47 language code for generated questions and advice.
	Locale string `yaml:"locale"`

	// Gateway contains model provider settings.
	Gateway GatewayConfig `yaml:"gateway"`
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		LogDir:   "", // resolved against the compass home at startup
		Locale:   "ko",
		Gateway: GatewayConfig{
			BaseURL: "https://generativelanguage.googleapis.com",
			Model:   "gemini-2.0-flash",
			Timeout: 60 * time.Second,
		},
	}
}

// LoadConfig loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed, returns an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Temporary struct so the timeout can be parsed from a duration string.
	type yamlGateway struct {
		BaseURL string `yaml:"base_url"`
		Model   string `yaml:"model"`
		Timeout string `yaml:"timeout"`
	}
	type yamlConfig struct {
		LogLevel string      `yaml:"log_level"`
		LogDir   string      `yaml:"log_dir"`
		Locale   string      `yaml:"locale"`
		Gateway  yamlGateway `yaml:"gateway"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if yamlCfg.LogDir != "" {
		cfg.LogDir = yamlCfg.LogDir
	}
	if yamlCfg.Locale != "" {
		cfg.Locale = yamlCfg.Locale
	}
	if yamlCfg.Gateway.BaseURL != "" {
		cfg.Gateway.BaseURL = yamlCfg.Gateway.BaseURL
	}
	if yamlCfg.Gateway.Model != "" {
		cfg.Gateway.Model = yamlCfg.Gateway.Model
	}
	if yamlCfg.Gateway.Timeout != "" {
		timeout, err := time.ParseDuration(yamlCfg.Gateway.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid gateway timeout %q: %w", yamlCfg.Gateway.Timeout, err)
		}
		cfg.Gateway.Timeout = timeout
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from config.yaml in the compass home.
// A missing directory or file yields default configuration without error.
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, "config.yaml"))
}

// MergeWithFlags merges CLI flags into the configuration.
// Non-nil flag values override configuration values.
func (c *Config) MergeWithFlags(locale *string, model *string, timeout *time.Duration) {
	if locale != nil {
		c.Locale = *locale
	}
	if model != nil {
		c.Gateway.Model = *model
	}
	if timeout != nil {
		c.Gateway.Timeout = *timeout
	}
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if c.Locale == "" {
		return fmt.Errorf("locale cannot be empty")
	}
	if c.Gateway.BaseURL == "" {
		return fmt.Errorf("gateway.base_url cannot be empty")
	}
	if c.Gateway.Model == "" {
		return fmt.Errorf("gateway.model cannot be empty")
	}
	if c.Gateway.Timeout < 0 {
		return fmt.Errorf("gateway.timeout must be >= 0, got %v", c.Gateway.Timeout)
	}

	return nil
}
