// Package config provides centralized configuration for the swasthya
// extraction tool, loaded from configuration files, environment variables,
// and command-line flags.
package config

import (
	"fmt"
	"strings"

	"github.com/niksi-nova/swasthya-ai/internal/extract"
)

// Config represents the complete configuration for the swasthya application.
// It covers all commands (extract, batch, serve) and supports loading from
// configuration files, environment variables, and command-line flags.
type Config struct {
	// Global settings
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose  bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`

	// Extractor heuristics
	Extractor ExtractorConfig `mapstructure:"extractor" yaml:"extractor" json:"extractor"`

	// Optical recognition service
	OCR OCRConfig `mapstructure:"ocr" yaml:"ocr" json:"ocr"`

	// Output configuration
	Output OutputConfig `mapstructure:"output" yaml:"output" json:"output"`

	// Server configuration (for serve command)
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`

	// Batch processing configuration
	Batch BatchConfig `mapstructure:"batch" yaml:"batch" json:"batch"`
}

// ExtractorConfig contains the field-extraction heuristics. The thresholds
// are empirically tuned for one report vendor's layout and are deliberately
// configuration rather than constants.
type ExtractorConfig struct {
	SkipKeywords   []string `mapstructure:"skip_keywords" yaml:"skip_keywords" json:"skip_keywords"`
	MethodMarkers  []string `mapstructure:"method_markers" yaml:"method_markers" json:"method_markers"`
	MinNameLength  int      `mapstructure:"min_name_length" yaml:"min_name_length" json:"min_name_length"`
	UppercaseRatio float64  `mapstructure:"uppercase_ratio" yaml:"uppercase_ratio" json:"uppercase_ratio"`
	LookaheadLines int      `mapstructure:"lookahead_lines" yaml:"lookahead_lines" json:"lookahead_lines"`
	MinTableCells  int      `mapstructure:"min_table_cells" yaml:"min_table_cells" json:"min_table_cells"`
}

// Rules converts the extractor configuration to classifier rules.
func (e ExtractorConfig) Rules() extract.Rules {
	return extract.Rules{
		SkipKeywords:   e.SkipKeywords,
		MethodMarkers:  e.MethodMarkers,
		MinNameLength:  e.MinNameLength,
		UppercaseRatio: e.UppercaseRatio,
	}
}

// OCRConfig contains settings for the external optical recognition service.
type OCRConfig struct {
	Endpoint    string `mapstructure:"endpoint" yaml:"endpoint" json:"endpoint"`
	TimeoutSec  int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
	ImageHeight int    `mapstructure:"image_height" yaml:"image_height" json:"image_height"`
	Grayscale   bool   `mapstructure:"grayscale" yaml:"grayscale" json:"grayscale"`
}

// OutputConfig contains output formatting settings.
type OutputConfig struct {
	Format    string `mapstructure:"format" yaml:"format" json:"format"`
	File      string `mapstructure:"file" yaml:"file" json:"file"`
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir" json:"output_dir"`
	Pretty    bool   `mapstructure:"pretty" yaml:"pretty" json:"pretty"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string `mapstructure:"host" yaml:"host" json:"host"`
	Port            int    `mapstructure:"port" yaml:"port" json:"port"`
	CORSOrigin      string `mapstructure:"cors_origin" yaml:"cors_origin" json:"cors_origin"`
	MaxUploadMB     int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb" json:"max_upload_mb"`
	TimeoutSec      int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// BatchConfig contains batch processing settings.
type BatchConfig struct {
	Recursive       bool     `mapstructure:"recursive" yaml:"recursive" json:"recursive"`
	IncludePatterns []string `mapstructure:"include_patterns" yaml:"include_patterns" json:"include_patterns"`
	ExcludePatterns []string `mapstructure:"exclude_patterns" yaml:"exclude_patterns" json:"exclude_patterns"`
	ContinueOnError bool     `mapstructure:"continue_on_error" yaml:"continue_on_error" json:"continue_on_error"`
	DatabasePath    string   `mapstructure:"database_path" yaml:"database_path" json:"database_path"`
}

// ValidFormats lists the supported output formats.
var ValidFormats = []string{"text", "json", "csv", "yaml", "xlsx"}

// DefaultConfig returns the configuration with all defaults applied.
func DefaultConfig() *Config {
	rules := extract.DefaultRules()
	return &Config{
		LogLevel: "info",
		Extractor: ExtractorConfig{
			SkipKeywords:   rules.SkipKeywords,
			MethodMarkers:  rules.MethodMarkers,
			MinNameLength:  rules.MinNameLength,
			UppercaseRatio: rules.UppercaseRatio,
			LookaheadLines: extract.DefaultLookahead,
			MinTableCells:  4,
		},
		OCR: OCRConfig{
			Endpoint:    "",
			TimeoutSec:  60,
			ImageHeight: 1024,
			Grayscale:   true,
		},
		Output: OutputConfig{
			Format: "json",
		},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			CORSOrigin:      "*",
			MaxUploadMB:     50,
			TimeoutSec:      120,
			ShutdownTimeout: 10,
		},
		Batch: BatchConfig{
			IncludePatterns: []string{"*.pdf"},
			ContinueOnError: true,
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", c.LogLevel)
	}

	if c.Extractor.MinNameLength < 1 {
		return fmt.Errorf("extractor.min_name_length must be at least 1, got %d", c.Extractor.MinNameLength)
	}
	if c.Extractor.UppercaseRatio <= 0 || c.Extractor.UppercaseRatio > 1 {
		return fmt.Errorf("extractor.uppercase_ratio must be in (0, 1], got %v", c.Extractor.UppercaseRatio)
	}
	if c.Extractor.LookaheadLines < 1 {
		return fmt.Errorf("extractor.lookahead_lines must be at least 1, got %d", c.Extractor.LookaheadLines)
	}
	if c.Extractor.MinTableCells < 2 {
		return fmt.Errorf("extractor.min_table_cells must be at least 2, got %d", c.Extractor.MinTableCells)
	}

	if !isValidFormat(c.Output.Format) {
		return fmt.Errorf("invalid output format %q (must be one of %s)",
			c.Output.Format, strings.Join(ValidFormats, ", "))
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.MaxUploadMB < 1 {
		return fmt.Errorf("server.max_upload_mb must be at least 1, got %d", c.Server.MaxUploadMB)
	}

	if c.OCR.TimeoutSec < 1 {
		return fmt.Errorf("ocr.timeout_sec must be at least 1, got %d", c.OCR.TimeoutSec)
	}
	if c.OCR.ImageHeight < 0 {
		return fmt.Errorf("ocr.image_height must not be negative, got %d", c.OCR.ImageHeight)
	}

	return nil
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
