package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Log.Level != "info" {
		t.Errorf("expected default log level info, got %s", cfg.Log.Level)
	}
	if cfg.Finder.Format != "text" {
		t.Errorf("expected default format text, got %s", cfg.Finder.Format)
	}
	if cfg.Finder.DebounceDelay != 100*time.Millisecond {
		t.Errorf("expected default debounce 100ms, got %v", cfg.Finder.DebounceDelay)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "unknown log level",
			modify:  func(c *Config) { c.Log.Level = "trace" },
			wantErr: true,
		},
		{
			name:    "empty log level",
			modify:  func(c *Config) { c.Log.Level = "" },
			wantErr: true,
		},
		{
			name:    "unknown format",
			modify:  func(c *Config) { c.Finder.Format = "json" },
			wantErr: true,
		},
		{
			name:    "negative debounce",
			modify:  func(c *Config) { c.Finder.DebounceDelay = -time.Second },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temp file with config
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
log:
  level: debug
finder:
  root: "/test/path"
  include:
    - "src/**"
  exclude:
    - "**/migrations/**"
  format: yaml
  verbose: true
  debounce_delay: 250ms
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Log.Level)
	}
	if cfg.Finder.Root != "/test/path" {
		t.Errorf("expected root /test/path, got %s", cfg.Finder.Root)
	}
	if len(cfg.Finder.Include) != 1 || cfg.Finder.Include[0] != "src/**" {
		t.Errorf("expected include [src/**], got %v", cfg.Finder.Include)
	}
	if len(cfg.Finder.Exclude) != 1 {
		t.Errorf("expected 1 exclude pattern, got %d", len(cfg.Finder.Exclude))
	}
	if cfg.Finder.Format != "yaml" {
		t.Errorf("expected format yaml, got %s", cfg.Finder.Format)
	}
	if !cfg.Finder.Verbose {
		t.Error("expected verbose to be set")
	}
	if cfg.Finder.DebounceDelay != 250*time.Millisecond {
		t.Errorf("expected debounce 250ms, got %v", cfg.Finder.DebounceDelay)
	}
}

func TestConfigMerge(t *testing.T) {
	base := DefaultConfig()
	override := &Config{
		Log: LogConfig{
			Level: "warn",
		},
		Finder: FinderConfig{
			Root: "/override/path",
		},
	}

	base.Merge(override)

	if base.Log.Level != "warn" {
		t.Errorf("expected log level warn, got %s", base.Log.Level)
	}
	// Format should remain from base since override didn't set it
	if base.Finder.Format != "text" {
		t.Errorf("expected format to remain default, got %s", base.Finder.Format)
	}
	if base.Finder.Root != "/override/path" {
		t.Errorf("expected root /override/path, got %s", base.Finder.Root)
	}
	if base.Finder.DebounceDelay != 100*time.Millisecond {
		t.Errorf("expected debounce to remain default, got %v", base.Finder.DebounceDelay)
	}
}

func TestConfigSaveToFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", "config.yaml")

	cfg := DefaultConfig()
	cfg.Finder.Root = "/saved/path"

	if err := cfg.SaveToFile(configPath); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	// Verify file was created
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("config file was not created")
	}

	// Load and verify
	loaded, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.Finder.Root != "/saved/path" {
		t.Errorf("expected root /saved/path, got %s", loaded.Finder.Root)
	}
}
