// Package config provides configuration loading and management for unshred.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"

	"unshred/pkg/adjacency"
	"unshred/pkg/distance"
	"unshred/pkg/width"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Processing parameters
	Processing struct {
		// NumCores specifies how many CPU cores compute the adjacency matrix; 0 uses every CPU
		NumCores int `yaml:"numCores"`

		// StripWidth is the known strip width in pixels; 0 means detect it
		StripWidth int `yaml:"stripWidth"`

		// Metric names the pixel distance ("euclidean" or "lab")
		Metric string `yaml:"metric"`

		// Scorer names the width detection heuristic ("mean-minus-max" or "zscore")
		Scorer string `yaml:"scorer"`

		// SelfPairs decides whether a strip may be its own successor
		// ("auto", "exclude" or "include")
		SelfPairs string `yaml:"selfPairs"`
	} `yaml:"processing"`

	// Output parameters
	Output struct {
		// JPEGQuality is used when the output file is a JPEG
		JPEGQuality int `yaml:"jpegQuality"`

		// SaveIntermediaryResults writes the distance matrix, width scores
		// and a heat map next to the output
		SaveIntermediaryResults bool `yaml:"saveIntermediaryResults"`

		// IntermediaryDir is where intermediary results are written
		IntermediaryDir string `yaml:"intermediaryDir"`
	} `yaml:"output"`

	// Logging parameters
	Logging struct {
		// Level is one of debug, info, warn, error
		Level string `yaml:"level"`

		// Format is "text" or "json"
		Format string `yaml:"format"`
	} `yaml:"logging"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Processing.NumCores = runtime.NumCPU()
	cfg.Processing.StripWidth = 0
	cfg.Processing.Metric = distance.Euclidean{}.Name()
	cfg.Processing.Scorer = width.MeanMinusMax{}.Name()
	cfg.Processing.SelfPairs = string(adjacency.SelfPairsAuto)

	cfg.Output.JPEGQuality = 95
	cfg.Output.SaveIntermediaryResults = false
	cfg.Output.IntermediaryDir = "intermediary_results"

	cfg.Logging.Level = "info"
	cfg.Logging.Format = "text"

	return cfg
}

// Validate checks that every setting has a usable value
func (c *Config) Validate() error {
	if c.Processing.NumCores < 0 {
		return fmt.Errorf("processing.numCores must be non-negative, got %d", c.Processing.NumCores)
	}
	if c.Processing.StripWidth < 0 {
		return fmt.Errorf("processing.stripWidth must be non-negative, got %d", c.Processing.StripWidth)
	}
	if _, err := distance.ByName(c.Processing.Metric); err != nil {
		return err
	}
	if _, err := width.ScorerByName(c.Processing.Scorer); err != nil {
		return err
	}
	if _, err := adjacency.ParseSelfPairs(c.Processing.SelfPairs); err != nil {
		return err
	}
	if c.Output.JPEGQuality < 1 || c.Output.JPEGQuality > 100 {
		return fmt.Errorf("output.jpegQuality must be in [1, 100], got %d", c.Output.JPEGQuality)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
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
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
