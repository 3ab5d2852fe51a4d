// Package config provides configuration loading and management for godtr.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Reprojection parameters of the lattice model
	Reprojection struct {
		// Tolerance is the excitation slab half-width in nm^-1
		Tolerance float64 `yaml:"tolerance"`

		// MatchRadius is the largest distance in pixels between a
		// predicted reflection and its measured partner
		MatchRadius float64 `yaml:"matchRadius"`

		// MaxIndex bounds the Miller indices that are enumerated
		MaxIndex int `yaml:"maxIndex"`
	} `yaml:"reprojection"`

	// Tilt axis adjustment
	Axis struct {
		// Step is the increment/decrement step in degrees
		Step float64 `yaml:"step"`
	} `yaml:"axis"`

	// Cell file watching
	Watch struct {
		Enabled  bool          `yaml:"enabled"`
		Debounce time.Duration `yaml:"debounce"`
	} `yaml:"watch"`

	Logging struct {
		// Level is one of debug, info, warn, error
		Level string `yaml:"level"`

		// Format is text or json
		Format string `yaml:"format"`
	} `yaml:"logging"`

	Window struct {
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
	} `yaml:"window"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Reprojection.Tolerance = 0.05
	cfg.Reprojection.MatchRadius = 8
	cfg.Reprojection.MaxIndex = 6

	cfg.Axis.Step = 0.2

	cfg.Watch.Enabled = true
	cfg.Watch.Debounce = 250 * time.Millisecond

	cfg.Logging.Level = "info"
	cfg.Logging.Format = "text"

	cfg.Window.Width = 840
	cfg.Window.Height = 800

	return cfg
}

// Validate checks the values a session cannot work with
func (c *Config) Validate() error {
	if c.Reprojection.Tolerance <= 0 {
		return fmt.Errorf("reprojection.tolerance must be positive, got %v", c.Reprojection.Tolerance)
	}
	if c.Reprojection.MatchRadius < 0 {
		return fmt.Errorf("reprojection.matchRadius must not be negative, got %v", c.Reprojection.MatchRadius)
	}
	if c.Reprojection.MaxIndex < 1 {
		return fmt.Errorf("reprojection.maxIndex must be at least 1, got %d", c.Reprojection.MaxIndex)
	}
	if c.Axis.Step <= 0 {
		return fmt.Errorf("axis.step must be positive, got %v", c.Axis.Step)
	}
	if c.Watch.Debounce < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %v", c.Watch.Debounce)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	return nil
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}
