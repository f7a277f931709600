// Package config provides configuration management for the journal application.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"options-journal/internal/errors"
	"options-journal/internal/logging"
	"options-journal/internal/risk"
)

// Config holds all application configuration.
type Config struct {
	Journal JournalConfig `mapstructure:"journal"`
	Risk    RiskConfig    `mapstructure:"risk"`
	Chart   ChartConfig   `mapstructure:"chart"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// JournalConfig holds journal store configuration.
type JournalConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// RiskConfig holds overrides for the risk analyzer thresholds. Values of
// zero fall back to the shipped defaults, so a partial override is fine.
type RiskConfig struct {
	LowReturnPercent     float64 `mapstructure:"low_return_percent"`
	CriticalDays         int     `mapstructure:"critical_days"`
	HighDays             int     `mapstructure:"high_days"`
	PriceDistancePercent float64 `mapstructure:"price_distance_percent"`
}

// ChartConfig holds payoff chart defaults.
type ChartConfig struct {
	Points      int     `mapstructure:"points"`
	StepPercent float64 `mapstructure:"step_percent"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
	File    bool   `mapstructure:"file"`
	Path    string `mapstructure:"path"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/options-journal"
	}
	return filepath.Join(home, ".config", "options-journal")
}

// Load loads configuration from the specified directory. If configDir is
// empty, the default config directory is used. A missing config file is not
// an error: every key has a default.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	setDefaults(v, configDir)

	v.SetEnvPrefix("OPTIONS_JOURNAL")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config.toml: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, configDir string) {
	logDefaults := logging.DefaultLogConfig()

	v.SetDefault("journal.db_path", filepath.Join(configDir, "journal.db"))
	v.SetDefault("risk.low_return_percent", risk.DefaultThresholds.LowReturnPercent)
	v.SetDefault("risk.critical_days", risk.DefaultThresholds.CriticalDays)
	v.SetDefault("risk.high_days", risk.DefaultThresholds.HighDays)
	v.SetDefault("risk.price_distance_percent", risk.DefaultThresholds.PriceDistancePercent)
	v.SetDefault("chart.points", 21)
	v.SetDefault("chart.step_percent", 2.0)
	v.SetDefault("logging.level", logDefaults.Level)
	v.SetDefault("logging.console", logDefaults.Console)
	v.SetDefault("logging.file", logDefaults.File)
	v.SetDefault("logging.path", logDefaults.FilePath)
}

// Validate checks the configuration for invalid values. Failures wrap
// errors.ErrConfigInvalid.
func (c *Config) Validate() error {
	if c.Risk.CriticalDays < 0 || c.Risk.HighDays < 0 {
		return errors.Wrap(errors.ErrConfigInvalid, "risk day thresholds must not be negative")
	}
	if c.Risk.HighDays > 0 && c.Risk.CriticalDays > c.Risk.HighDays {
		return errors.Wrapf(errors.ErrConfigInvalid, "risk.critical_days (%d) must not exceed risk.high_days (%d)",
			c.Risk.CriticalDays, c.Risk.HighDays)
	}
	if c.Chart.Points < 3 {
		return errors.Wrapf(errors.ErrConfigInvalid, "chart.points (%d) must be at least 3", c.Chart.Points)
	}
	if c.Chart.StepPercent <= 0 {
		return errors.Wrapf(errors.ErrConfigInvalid, "chart.step_percent (%v) must be positive", c.Chart.StepPercent)
	}
	return nil
}

// Thresholds builds the risk thresholds for this configuration: a copy of
// the shipped defaults with any configured overrides applied. The defaults
// themselves are never touched.
func (c *Config) Thresholds() risk.Thresholds {
	t := risk.DefaultThresholds
	if c.Risk.LowReturnPercent > 0 {
		t.LowReturnPercent = c.Risk.LowReturnPercent
	}
	if c.Risk.CriticalDays > 0 {
		t.CriticalDays = c.Risk.CriticalDays
	}
	if c.Risk.HighDays > 0 {
		t.HighDays = c.Risk.HighDays
	}
	if c.Risk.PriceDistancePercent > 0 {
		t.PriceDistancePercent = c.Risk.PriceDistancePercent
	}
	return t
}

// LogConfig converts the logging section to the logging package's config.
func (c *Config) LogConfig() logging.LogConfig {
	lc := logging.DefaultLogConfig()
	lc.Level = c.Logging.Level
	lc.Console = c.Logging.Console
	lc.File = c.Logging.File
	if c.Logging.Path != "" {
		lc.FilePath = c.Logging.Path
	}
	return lc
}
