package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"options-journal/internal/errors"
	"options-journal/internal/risk"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "journal.db"), cfg.Journal.DBPath)
	assert.Equal(t, risk.DefaultThresholds.LowReturnPercent, cfg.Risk.LowReturnPercent)
	assert.Equal(t, risk.DefaultThresholds.CriticalDays, cfg.Risk.CriticalDays)
	assert.Equal(t, risk.DefaultThresholds.HighDays, cfg.Risk.HighDays)
	assert.Equal(t, 21, cfg.Chart.Points)
	assert.Equal(t, 2.0, cfg.Chart.StepPercent)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := `
[journal]
db_path = "/tmp/custom.db"

[risk]
low_return_percent = 2.5
critical_days = 3

[chart]
points = 31
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/custom.db", cfg.Journal.DBPath)
	assert.Equal(t, 2.5, cfg.Risk.LowReturnPercent)
	assert.Equal(t, 3, cfg.Risk.CriticalDays)
	// Unset keys keep their defaults.
	assert.Equal(t, risk.DefaultThresholds.HighDays, cfg.Risk.HighDays)
	assert.Equal(t, 31, cfg.Chart.Points)
	assert.Equal(t, 2.0, cfg.Chart.StepPercent)
}

func TestLoadInvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"critical exceeds high", "[risk]\ncritical_days = 20\nhigh_days = 10\n"},
		{"too few chart points", "[chart]\npoints = 1\n"},
		{"negative step percent", "[chart]\nstep_percent = -1.0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(tt.content), 0644))

			_, err := Load(dir)
			assert.ErrorIs(t, err, errors.ErrConfigInvalid)
		})
	}
}

func TestThresholdsOverrides(t *testing.T) {
	cfg := &Config{}
	cfg.Risk.CriticalDays = 3
	cfg.Risk.PriceDistancePercent = 10.0

	got := cfg.Thresholds()

	assert.Equal(t, 3, got.CriticalDays)
	assert.Equal(t, 10.0, got.PriceDistancePercent)
	assert.Equal(t, risk.DefaultThresholds.LowReturnPercent, got.LowReturnPercent)
	assert.Equal(t, risk.DefaultThresholds.HighDays, got.HighDays)

	// Overriding never mutates the shipped defaults.
	assert.Equal(t, 7, risk.DefaultThresholds.CriticalDays)
	assert.Equal(t, 5.0, risk.DefaultThresholds.PriceDistancePercent)
}

func TestLogConfigConversion(t *testing.T) {
	cfg := &Config{}
	cfg.Logging.Level = "debug"
	cfg.Logging.Console = true
	cfg.Logging.Path = "/tmp/journal.log"

	lc := cfg.LogConfig()

	assert.Equal(t, "debug", lc.Level)
	assert.True(t, lc.Console)
	assert.Equal(t, "/tmp/journal.log", lc.FilePath)
}
