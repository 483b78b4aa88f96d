package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetViper clears the global viper state between tests.
func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoader_LoadDefaults(t *testing.T) {
	resetViper(t)

	// Run from an empty directory so no stray config file is picked up.
	tmpDir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmpDir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 6, cfg.Extractor.LookaheadLines)
	assert.Equal(t, "json", cfg.Output.Format)
}

func TestLoader_LoadWithFile(t *testing.T) {
	resetViper(t)

	content := `
log_level: debug
extractor:
  lookahead_lines: 8
  uppercase_ratio: 0.6
ocr:
  endpoint: http://ocr.internal:8080/ocr/image
server:
  port: 9000
`
	path := filepath.Join(t.TempDir(), "swasthya.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := NewLoader().LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 8, cfg.Extractor.LookaheadLines)
	assert.InDelta(t, 0.6, cfg.Extractor.UppercaseRatio, 1e-9)
	assert.Equal(t, "http://ocr.internal:8080/ocr/image", cfg.OCR.Endpoint)
	assert.Equal(t, 9000, cfg.Server.Port)

	// Untouched settings keep their defaults.
	assert.Equal(t, 3, cfg.Extractor.MinNameLength)
	assert.Equal(t, "json", cfg.Output.Format)
}

func TestLoader_LoadWithFile_Missing(t *testing.T) {
	resetViper(t)

	_, err := NewLoader().LoadWithFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestLoader_LoadWithFile_InvalidValues(t *testing.T) {
	resetViper(t)

	content := `
extractor:
  lookahead_lines: 0
`
	path := filepath.Join(t.TempDir(), "swasthya.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	_, err := NewLoader().LoadWithFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoader_EnvironmentOverride(t *testing.T) {
	resetViper(t)

	t.Setenv("SWASTHYA_LOG_LEVEL", "warn")

	tmpDir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(tmpDir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := NewLoader().Load()
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestGetConfigSearchPaths(t *testing.T) {
	paths := GetConfigSearchPaths()
	assert.Contains(t, paths, ".")
	assert.Contains(t, paths, "/etc/swasthya")
}
