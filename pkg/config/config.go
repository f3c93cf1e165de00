package config

import (
	"github.com/scolby33/foldercompare/pkg/digest"
	"github.com/scolby33/foldercompare/pkg/models"
	"github.com/scolby33/foldercompare/pkg/ratelimit"
)

// Config represents the application configuration
type Config struct {
	Hash        HashConfig        `yaml:"hash"`
	Scan        ScanConfig        `yaml:"scan"`
	Performance PerformanceConfig `yaml:"performance"`
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
	S3          S3Config          `yaml:"s3"`
}

// HashConfig holds digest settings
type HashConfig struct {
	Algorithm string `yaml:"algorithm"`
	Workers   int    `yaml:"workers"`
}

// ScanConfig holds tree traversal settings
type ScanConfig struct {
	Exclude  []string           `yaml:"exclude"`
	Symlinks models.SymlinkMode `yaml:"symlinks"`
}

// PerformanceConfig holds performance-related settings
type PerformanceConfig struct {
	// BandwidthLimit caps hashing reads, e.g. "10M"; empty means unlimited
	BandwidthLimit string `yaml:"bandwidth_limit"`
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format"`   // "human" or "json"
	Progress bool   `yaml:"progress"` // Show progress bars
	Quiet    bool   `yaml:"quiet"`    // Suppress non-error output
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Format  string `yaml:"format"` // "json" or "text"
	Level   string `yaml:"level"`  // "debug", "info", "warn", "error"
	File    string `yaml:"file"`   // Log file path (empty = stderr)
}

// S3Config holds settings for s3:// listing locations
type S3Config struct {
	Region   string `yaml:"region"`
	Profile  string `yaml:"profile"`
	Endpoint string `yaml:"endpoint"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Hash: HashConfig{
			Algorithm: digest.Default,
			Workers:   1,
		},
		Scan: ScanConfig{
			Exclude:  []string{},
			Symlinks: models.SymlinksSkip,
		},
		Output: OutputConfig{
			Format:   "human",
			Progress: false,
			Quiet:    false,
		},
		Logging: LoggingConfig{
			Enabled: false,
			Format:  "text",
			Level:   "info",
			File:    "",
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := digest.Lookup(c.Hash.Algorithm); err != nil {
		return &models.ValidationError{
			Field:   "hash.algorithm",
			Message: err.Error(),
			Err:     err,
		}
	}

	if c.Hash.Workers < 1 {
		return &models.ValidationError{
			Field:   "hash.workers",
			Message: "must be at least 1",
		}
	}

	if c.Scan.Symlinks != models.SymlinksSkip && c.Scan.Symlinks != models.SymlinksFiles {
		return &models.ValidationError{
			Field:   "scan.symlinks",
			Message: "must be 'skip' or 'files'",
		}
	}

	if _, err := ratelimit.ParseRate(c.Performance.BandwidthLimit); err != nil {
		return &models.ValidationError{
			Field:   "performance.bandwidth_limit",
			Message: err.Error(),
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
