package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestDefaultConfig verifies default configuration values
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.Locale != "ko" {
		t.Errorf("Locale = %q, want %q", cfg.Locale, "ko")
	}
	if cfg.Gateway.BaseURL != "https://generativelanguage.googleapis.com" {
		t.Errorf("Gateway.BaseURL = %q, want default provider", cfg.Gateway.BaseURL)
	}
	if cfg.Gateway.Model != "gemini-2.0-flash" {
		t.Errorf("Gateway.Model = %q, want %q", cfg.Gateway.Model, "gemini-2.0-flash")
	}
	if cfg.Gateway.Timeout != 60*time.Second {
		t.Errorf("Gateway.Timeout = %v, want 60s", cfg.Gateway.Timeout)
	}
}

// TestLoadConfigValidFile tests loading a valid YAML config file
func TestLoadConfigValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `log_level: debug
locale: en
gateway:
  base_url: https://example.invalid
  model: test-model
  timeout: 30s
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.Locale != "en" {
		t.Errorf("Locale = %q, want %q", cfg.Locale, "en")
	}
	if cfg.Gateway.BaseURL != "https://example.invalid" {
		t.Errorf("Gateway.BaseURL = %q, want %q", cfg.Gateway.BaseURL, "https://example.invalid")
	}
	if cfg.Gateway.Model != "test-model" {
		t.Errorf("Gateway.Model = %q, want %q", cfg.Gateway.Model, "test-model")
	}
	if cfg.Gateway.Timeout != 30*time.Second {
		t.Errorf("Gateway.Timeout = %v, want 30s", cfg.Gateway.Timeout)
	}
}

// TestLoadConfigFileNotExists tests fallback to defaults when file doesn't exist
func TestLoadConfigFileNotExists(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("LoadConfig() should not error on missing file, got: %v", err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q (default)", cfg.LogLevel, "info")
	}
	if cfg.Gateway.Timeout != 60*time.Second {
		t.Errorf("Gateway.Timeout = %v, want 60s (default)", cfg.Gateway.Timeout)
	}
}

// TestLoadConfigInvalidYAML tests error handling for malformed YAML
func TestLoadConfigInvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	invalidYAML := `
locale: en
gateway: [this is not valid
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Error("LoadConfig() expected error for invalid YAML, got nil")
	}
}

// TestLoadConfigInvalidTimeout tests error handling for a bad duration string
func TestLoadConfigInvalidTimeout(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `gateway:
  timeout: not-a-duration
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := LoadConfig(configPath)
	if err == nil {
		t.Error("LoadConfig() expected error for invalid timeout, got nil")
	}
}

// TestLoadConfigPartialValues tests that partial config merges with defaults
func TestLoadConfigPartialValues(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `locale: ja
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Locale != "ja" {
		t.Errorf("Locale = %q, want %q", cfg.Locale, "ja")
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q (default)", cfg.LogLevel, "info")
	}
	if cfg.Gateway.Model != "gemini-2.0-flash" {
		t.Errorf("Gateway.Model = %q, want default", cfg.Gateway.Model)
	}
}

// TestLoadConfigFromDir tests loading config.yaml relative to a directory
func TestLoadConfigFromDir(t *testing.T) {
	tmpDir := t.TempDir()
	configContent := `log_level: warn
`
	if err := os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadConfigFromDir(tmpDir)
	if err != nil {
		t.Fatalf("LoadConfigFromDir() error = %v", err)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "warn")
	}
}

// TestMergeWithFlags tests flag overrides
func TestMergeWithFlags(t *testing.T) {
	cfg := DefaultConfig()

	locale := "en"
	model := "flag-model"
	timeout := 5 * time.Second
	cfg.MergeWithFlags(&locale, &model, &timeout)

	if cfg.Locale != "en" {
		t.Errorf("Locale = %q, want %q", cfg.Locale, "en")
	}
	if cfg.Gateway.Model != "flag-model" {
		t.Errorf("Gateway.Model = %q, want %q", cfg.Gateway.Model, "flag-model")
	}
	if cfg.Gateway.Timeout != 5*time.Second {
		t.Errorf("Gateway.Timeout = %v, want 5s", cfg.Gateway.Timeout)
	}

	// Nil flags leave values untouched.
	cfg.MergeWithFlags(nil, nil, nil)
	if cfg.Locale != "en" || cfg.Gateway.Model != "flag-model" {
		t.Error("MergeWithFlags(nil, nil, nil) changed values")
	}
}

// TestValidate tests configuration validation rules
func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, true},
		{"empty locale", func(c *Config) { c.Locale = "" }, true},
		{"empty base url", func(c *Config) { c.Gateway.BaseURL = "" }, true},
		{"empty model", func(c *Config) { c.Gateway.Model = "" }, true},
		{"negative timeout", func(c *Config) { c.Gateway.Timeout = -time.Second }, true},
		{"zero timeout allowed", func(c *Config) { c.Gateway.Timeout = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
