package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"

	"lulofoto/internal/logger"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type ThumbPreset struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Abbr   string `mapstructure:"abbr"`
}

type Config struct {
	Source       string                 `mapstructure:"source"`
	Destination  string                 `mapstructure:"destination"`
	StartDate    string                 `mapstructure:"start_date"`
	ThumbWidth   int                    `mapstructure:"thumb_width"`
	ThumbHeight  int                    `mapstructure:"thumb_height"`
	ThumbPresets map[string]ThumbPreset `mapstructure:"thumb_presets"`
}

const (
	defaultThumbWidth  = 800
	defaultThumbHeight = 600
)

var defaultPresets = map[string]ThumbPreset{
	"xs": {Width: 200, Height: 150, Abbr: "xs"},
	"sm": {Width: 400, Height: 300, Abbr: "sm"},
	"md": {Width: 800, Height: 600, Abbr: "md"},
	"lg": {Width: 1200, Height: 900, Abbr: "lg"},
	"xl": {Width: 1600, Height: 1200, Abbr: "xl"},
}

func defaults() *Config {
	return &Config{
		ThumbWidth:   defaultThumbWidth,
		ThumbHeight:  defaultThumbHeight,
		ThumbPresets: maps.Clone(defaultPresets),
	}
}

func dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home dir: %w", err)
	}

	return filepath.Join(home, ".lulofoto"), nil
}

// Load reads the saved user config. A broken config file is not fatal: the
// run warns and proceeds on defaults, like a broken state sidecar does.
func Load() (*Config, error) {
	configDir, err := dir()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config dir: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)

	viper.SetDefault("thumb_width", defaultThumbWidth)
	viper.SetDefault("thumb_height", defaultThumbHeight)
	viper.SetDefault("thumb_presets", defaultPresets)

	viper.SetEnvPrefix("LULOFOTO")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(err, &notFoundErr) {
			logger.Log.Warn("failed to read config file, using defaults",
				zap.Error(err))
			return defaults(), nil
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		logger.Log.Warn("failed to unmarshal config, using defaults",
			zap.Error(err))
		return defaults(), nil
	}

	return &cfg, nil
}

// Save persists the last-used source, destination and start date so the next
// invocation can omit them.
func Save(cfg *Config) error {
	configDir, err := dir()
	if err != nil {
		return err
	}

	viper.Set("source", cfg.Source)
	viper.Set("destination", cfg.Destination)
	viper.Set("start_date", cfg.StartDate)

	path := filepath.Join(configDir, "config.yaml")
	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
