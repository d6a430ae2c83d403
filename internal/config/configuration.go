package config

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g. IMAGE_EDITOR_LOG_LEVEL.
const EnvPrefix = "IMAGE_EDITOR"

type Config struct {
	// Logging
	LogLevel  string `mapstructure:"LOG_LEVEL" validate:"oneof=trace debug info warn warning error"`
	LogFormat string `mapstructure:"LOG_FORMAT" validate:"oneof=text json"`
	Debug     bool   `mapstructure:"DEBUG"`

	// Rendering
	RenderWorkers int  `mapstructure:"RENDER_WORKERS" validate:"gte=0,lte=256"`
	Metrics       bool `mapstructure:"METRICS"`

	// Codec
	Codec        string `mapstructure:"CODEC" validate:"required"`
	MaxDimension int    `mapstructure:"MAX_DIMENSION" validate:"gte=1"`
	FitWidth     int    `mapstructure:"FIT_WIDTH" validate:"gte=0"`
	FitHeight    int    `mapstructure:"FIT_HEIGHT" validate:"gte=0"`

	// GUI
	PreviewDelay     time.Duration `mapstructure:"PREVIEW_DELAY" validate:"gte=0"`
	PreviewFitWidth  int           `mapstructure:"PREVIEW_FIT_WIDTH" validate:"gte=0"`
	PreviewFitHeight int           `mapstructure:"PREVIEW_FIT_HEIGHT" validate:"gte=0"`
}

// use reflect to bind environment variables based on mapstructure tags
func bindEnv(c Config) {
	typ := reflect.TypeOf(c)
	for i := 0; i < typ.NumField(); i++ {
		if tag := typ.Field(i).Tag.Get("mapstructure"); tag != "" {
			_ = viper.BindEnv(tag)
		}
	}
}

func setDefaults() {
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("RENDER_WORKERS", 0)
	viper.SetDefault("METRICS", false)
	viper.SetDefault("CODEC", "native")
	viper.SetDefault("MAX_DIMENSION", 16384)
	viper.SetDefault("FIT_WIDTH", 0)
	viper.SetDefault("FIT_HEIGHT", 0)
	viper.SetDefault("PREVIEW_DELAY", 200*time.Millisecond)
	viper.SetDefault("PREVIEW_FIT_WIDTH", 800)
	viper.SetDefault("PREVIEW_FIT_HEIGHT", 600)
}

// LoadConfig reads defaults, then the optional config file at path, then the
// environment. Later sources win.
func LoadConfig(ctx context.Context, path string) (*Config, error) {
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	bindEnv(Config{})
	viper.AutomaticEnv()
	setDefaults()

	if path != "" {
		viper.SetConfigFile(path)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := Config{}
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if cfg.Debug {
		cfg.LogLevel = "debug"
		cfg.LogFormat = "text"
	}

	validate := validator.New()
	if err := validate.StructCtx(ctx, cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// Level returns the logrus level for LogLevel.
func (c *Config) Level() logrus.Level {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
