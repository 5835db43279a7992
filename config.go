package sway

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// ConfigName is the file LoadConfig looks for, without extension.
const ConfigName = "sway"

// Config holds the tunables shared by a scene and the effects it creates.
type Config struct {
	FrameInterval time.Duration `mapstructure:"frameInterval"`
	GridTilesX    int           `mapstructure:"gridTilesX"`
	GridTilesY    int           `mapstructure:"gridTilesY"`
	Debug         bool          `mapstructure:"debug"`
	LogLevel      string        `mapstructure:"logLevel"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		FrameInterval: FrameInterval,
		GridTilesX:    defaultTiles,
		GridTilesY:    defaultTiles,
		LogLevel:      "info",
	}
}

// LoadConfig reads sway.json (or .yaml/.toml) from dir, filling missing keys
// with DefaultConfig values. SWAY_* environment variables override the file.
// A missing file is not an error.
func LoadConfig(dir string) (Config, error) {
	def := DefaultConfig()

	v := viper.New()
	v.SetDefault("frameInterval", def.FrameInterval)
	v.SetDefault("gridTilesX", def.GridTilesX)
	v.SetDefault("gridTilesY", def.GridTilesY)
	v.SetDefault("debug", def.Debug)
	v.SetDefault("logLevel", def.LogLevel)

	v.SetConfigName(ConfigName)
	v.AddConfigPath(dir)
	v.SetEnvPrefix("SWAY")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if cfg.FrameInterval <= 0 {
		return Config{}, fmt.Errorf("decode config: frameInterval must be positive, got %v", cfg.FrameInterval)
	}
	return cfg, nil
}
