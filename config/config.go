// Package config provides configuration loading and management for exceptexpr.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete exceptexpr configuration
type Config struct {
	Log    LogConfig    `yaml:"log"`
	Finder FinderConfig `yaml:"finder"`
}

// LogConfig configures logging
type LogConfig struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level string `yaml:"level"`
}

// FinderConfig configures the except-expression candidate finder
type FinderConfig struct {
	// Root is the directory to scan (auto-detected from git if empty)
	Root string `yaml:"root"`
	// Include is the list of path patterns to scan (empty = the root)
	Include []string `yaml:"include"`
	// Exclude is the list of path patterns to skip
	Exclude []string `yaml:"exclude"`
	// Format is the report output format (text or yaml)
	Format string `yaml:"format"`
	// Verbose enables logging of files that fail to parse
	Verbose bool `yaml:"verbose"`
	// DebounceDelay is how long watch mode waits before rescanning
	DebounceDelay time.Duration `yaml:"debounce_delay"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
		},
		Finder: FinderConfig{
			Root:          "", // Auto-detect
			Format:        "text",
			DebounceDelay: 100 * time.Millisecond,
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error")
	}
	switch c.Finder.Format {
	case "text", "yaml":
	default:
		return fmt.Errorf("finder.format must be text or yaml")
	}
	if c.Finder.DebounceDelay < 0 {
		return fmt.Errorf("finder.debounce_delay must not be negative")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Log
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}

	// Finder
	if other.Finder.Root != "" {
		c.Finder.Root = other.Finder.Root
	}
	if len(other.Finder.Include) > 0 {
		c.Finder.Include = other.Finder.Include
	}
	if len(other.Finder.Exclude) > 0 {
		c.Finder.Exclude = other.Finder.Exclude
	}
	if other.Finder.Format != "" {
		c.Finder.Format = other.Finder.Format
	}
	if other.Finder.Verbose {
		c.Finder.Verbose = true
	}
	if other.Finder.DebounceDelay != 0 {
		c.Finder.DebounceDelay = other.Finder.DebounceDelay
	}
}
