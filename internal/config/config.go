package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const envPrefix = "MKT"

type Config struct {
	DataPath     string        `envconfig:"DATA_PATH" default:"data/processed/unified_marketing_business_data.csv" yaml:"data_path" validate:"required"`
	FallbackPath string        `envconfig:"FALLBACK_PATH" default:"unified_marketing_business_data.csv" yaml:"fallback_path"`
	Port         string        `envconfig:"PORT" default:"8080" yaml:"port" validate:"required,numeric"`
	HTTPTimeout  time.Duration `envconfig:"HTTP_TIMEOUT" default:"15s" yaml:"http_timeout" validate:"gt=0"`
	LogLevel     string        `envconfig:"LOG_LEVEL" default:"info" yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat    string        `envconfig:"LOG_FORMAT" default:"json" yaml:"log_format" validate:"oneof=json text"`
	CacheEnabled bool          `envconfig:"CACHE_ENABLED" default:"true" yaml:"cache_enabled"`

	OutlierZ      float64 `envconfig:"OUTLIER_Z" default:"3" yaml:"outlier_z" validate:"gt=0"`
	ROASTolerance float64 `envconfig:"ROAS_TOLERANCE" default:"0.1" yaml:"roas_tolerance" validate:"gte=0"`
	OutlierBasis  string  `envconfig:"OUTLIER_BASIS" default:"progressive" yaml:"outlier_basis" validate:"oneof=progressive original"`

	RollingWindow      int  `envconfig:"ROLLING_WINDOW" default:"7" yaml:"rolling_window" validate:"min=1"`
	NormalizeTimeDecay bool `envconfig:"NORMALIZE_TIME_DECAY" default:"false" yaml:"normalize_time_decay"`
}

// Load reads defaults and MKT_* environment variables, then overlays the YAML
// file at path when one is given. Keys set in the file win over the environment.
func Load(path string) (Config, error) {
	var cfg Config
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("load config from env: %w", err)
	}

	if path != "" {
		b, err := os.ReadFile(path) //nolint:gosec // operator-provided config path
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger: JSON by default, text for local runs.
func (c Config) NewLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
