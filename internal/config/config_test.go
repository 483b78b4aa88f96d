package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 6, cfg.Extractor.LookaheadLines)
	assert.InDelta(t, 0.5, cfg.Extractor.UppercaseRatio, 1e-9)
	assert.Equal(t, 3, cfg.Extractor.MinNameLength)
	assert.NotEmpty(t, cfg.Extractor.SkipKeywords)
	assert.NotEmpty(t, cfg.Extractor.MethodMarkers)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*.pdf"}, cfg.Batch.IncludePatterns)

	require.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"bad log level", func(c *Config) { c.LogLevel = "trace" }, "invalid log level"},
		{"zero name length", func(c *Config) { c.Extractor.MinNameLength = 0 }, "min_name_length"},
		{"ratio too high", func(c *Config) { c.Extractor.UppercaseRatio = 1.5 }, "uppercase_ratio"},
		{"ratio zero", func(c *Config) { c.Extractor.UppercaseRatio = 0 }, "uppercase_ratio"},
		{"zero lookahead", func(c *Config) { c.Extractor.LookaheadLines = 0 }, "lookahead_lines"},
		{"table cells too small", func(c *Config) { c.Extractor.MinTableCells = 1 }, "min_table_cells"},
		{"unknown format", func(c *Config) { c.Output.Format = "xml" }, "output format"},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"zero upload limit", func(c *Config) { c.Server.MaxUploadMB = 0 }, "max_upload_mb"},
		{"zero ocr timeout", func(c *Config) { c.OCR.TimeoutSec = 0 }, "timeout_sec"},
		{"negative image height", func(c *Config) { c.OCR.ImageHeight = -1 }, "image_height"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestConfig_ValidFormats(t *testing.T) {
	for _, format := range ValidFormats {
		cfg := DefaultConfig()
		cfg.Output.Format = format
		assert.NoError(t, cfg.Validate(), "format: %s", format)
	}
}

func TestConfig_YAMLRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Extractor.SkipKeywords = []string{"CONFIDENTIAL", "Page"}
	cfg.OCR.Endpoint = "http://localhost:9090/ocr/image"

	data, err := yaml.Marshal(cfg)
	require.NoError(t, err)

	var decoded Config
	require.NoError(t, yaml.Unmarshal(data, &decoded))

	assert.Equal(t, cfg.Extractor.SkipKeywords, decoded.Extractor.SkipKeywords)
	assert.Equal(t, cfg.OCR.Endpoint, decoded.OCR.Endpoint)
	assert.Equal(t, cfg.Server.Port, decoded.Server.Port)
	assert.InDelta(t, cfg.Extractor.UppercaseRatio, decoded.Extractor.UppercaseRatio, 1e-9)
}

func TestExtractorConfig_Rules(t *testing.T) {
	cfg := DefaultConfig()
	rules := cfg.Extractor.Rules()

	assert.Equal(t, cfg.Extractor.SkipKeywords, rules.SkipKeywords)
	assert.Equal(t, cfg.Extractor.MethodMarkers, rules.MethodMarkers)
	assert.Equal(t, cfg.Extractor.MinNameLength, rules.MinNameLength)
	assert.InDelta(t, cfg.Extractor.UppercaseRatio, rules.UppercaseRatio, 1e-9)
}
