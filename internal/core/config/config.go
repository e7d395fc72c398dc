// Package config handles configuration loading and validation for planit.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Sort orders accepted by list.sort.
const (
	SortPosition = "position"
	SortStatus   = "status"
	SortUpdated  = "updated"
)

// Config holds the application configuration.
type Config struct {
	Theme string     `yaml:"theme"`
	List  ListConfig `yaml:"list"`
	New   NewConfig  `yaml:"new"`

	// DataDir is set by the caller, not from the config file.
	DataDir string `yaml:"-"`
}

// ListConfig controls ls output.
type ListConfig struct {
	// Sort picks the sibling ordering: position (insertion order,
	// the default), status, or updated.
	Sort string `yaml:"sort"`
}

// NewConfig provides defaults for the new command.
type NewConfig struct {
	Priority string `yaml:"priority"`
	Severity int    `yaml:"severity"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Theme: "tokyo-night",
		List: ListConfig{
			Sort: SortPosition,
		},
		New: NewConfig{
			Priority: "medium",
			Severity: 3,
		},
	}
}

// Load reads the config file at configPath, falling back to defaults if
// the file does not exist.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}
	if c.List.Sort == "" {
		c.List.Sort = defaults.List.Sort
	}
	if c.New.Priority == "" {
		c.New.Priority = defaults.New.Priority
	}
	if c.New.Severity == 0 {
		c.New.Severity = defaults.New.Severity
	}
}
