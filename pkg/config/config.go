package config

import (
	"github.com/sdejongh/dirconflict/pkg/models"
)

// Config represents the application configuration
type Config struct {
	Scan        ScanConfig        `yaml:"scan"`
	Performance PerformanceConfig `yaml:"performance"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
	Exclude     []string          `yaml:"exclude"`
}

// ScanConfig holds traversal defaults
type ScanConfig struct {
	Recursive1 bool `yaml:"recursive1"` // Descend into subdirectories of path1
	Recursive2 bool `yaml:"recursive2"` // Descend into subdirectories of path2
}

// PerformanceConfig holds concurrency ceilings
type PerformanceConfig struct {
	TraverseWorkers int `yaml:"traverse_workers"`
	MatchWorkers    int `yaml:"match_workers"` // 0 = automatic
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format"`   // "human" or "json"
	Sort     bool   `yaml:"sort"`     // Sort conflicts before printing
	Progress bool   `yaml:"progress"` // Show progress bars on a terminal
	Color    bool   `yaml:"color"`    // Colorize human output
	Quiet    bool   `yaml:"quiet"`    // Suppress non-error output
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Format string `yaml:"format"` // "json" or "text"
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	File   string `yaml:"file"`   // Log file path (empty = logging disabled)
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Scan: ScanConfig{
			Recursive1: false,
			Recursive2: false,
		},
		Performance: PerformanceConfig{
			TraverseWorkers: 64,
			MatchWorkers:    0,
		},
		Output: OutputConfig{
			Format:   "human",
			Sort:     true,
			Progress: true,
			Color:    true,
			Quiet:    false,
		},
		Logging: LoggingConfig{
			Format: "text",
			Level:  "info",
			File:   "",
		},
		Exclude: []string{},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Performance.TraverseWorkers < 1 {
		return &models.ValidationError{
			Field:   "performance.traverse_workers",
			Message: "must be at least 1",
		}
	}

	if c.Performance.MatchWorkers < 0 {
		return &models.ValidationError{
			Field:   "performance.match_workers",
			Message: "must not be negative",
		}
	}

	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'human' or 'json'",
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	return nil
}
