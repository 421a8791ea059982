package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration
type Config struct {
	Animation AnimationConfig `mapstructure:"animation"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// AnimationConfig controls the y-axis rescale transition.
type AnimationConfig struct {
	Duration      time.Duration `mapstructure:"duration"`
	Easing        string        `mapstructure:"easing"`
	FrameInterval time.Duration `mapstructure:"frame_interval"`
}

// StorageConfig holds where snapshot bundles are written.
type StorageConfig struct {
	Dir string `mapstructure:"dir"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// Load reads configuration from an optional file and environment variables.
// An empty path means defaults plus TG_CHARTS_* overrides only.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("TG_CHARTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("animation.duration", "500ms")
	v.SetDefault("animation.easing", "linear")
	v.SetDefault("animation.frame_interval", "16ms")

	v.SetDefault("storage.dir", "snapshots")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.file", "tg-charts.log")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.Animation.Duration <= 0 {
		return fmt.Errorf("animation.duration must be positive")
	}
	validEasings := map[string]bool{"linear": true, "spring": true}
	if !validEasings[c.Animation.Easing] {
		return fmt.Errorf("animation.easing must be one of: linear, spring")
	}
	if c.Animation.FrameInterval < time.Millisecond || c.Animation.FrameInterval > time.Second {
		return fmt.Errorf("animation.frame_interval must be between 1ms and 1s")
	}

	if strings.TrimSpace(c.Storage.Dir) == "" {
		return fmt.Errorf("storage.dir is required")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}
