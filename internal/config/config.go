// Package config loads study engine settings.
//
// Sources are layered, later ones winning:
//
//	built-in defaults
//	YAML file (--config)
//	.env file (keys copied into the process environment if not already set)
//	STUDY_* environment variables, e.g. STUDY_DUE_LIMIT=50
//	command-line flags that were explicitly set
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix marks environment variables read by Load.
const EnvPrefix = "STUDY_"

// Config is the merged configuration.
type Config struct {
	DB           string        `koanf:"db" validate:"required"`
	Driver       string        `koanf:"driver" validate:"oneof=sqlite3 sqlite"`
	LogLevel     string        `koanf:"log-level" validate:"oneof=debug info warn error"`
	LogFormat    string        `koanf:"log-format" validate:"oneof=text json"`
	DueLimit     int           `koanf:"due-limit" validate:"gt=0"`
	HistoryLimit int           `koanf:"history-limit" validate:"gt=0"`
	RemindEvery  time.Duration `koanf:"remind-every" validate:"gte=1s"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		DB:           "study.db",
		Driver:       "sqlite3",
		LogLevel:     "info",
		LogFormat:    "text",
		DueLimit:     20,
		HistoryLimit: 20,
		RemindEvery:  time.Hour,
	}
}

// Sources names the optional inputs to Load. Empty fields are skipped,
// except EnvFile which defaults to ".env" and is ignored if absent.
type Sources struct {
	File    string
	EnvFile string
	Flags   *pflag.FlagSet
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load merges src over Defaults and validates the result.
func Load(src Sources) (Config, error) {
	k := koanf.New(".")

	d := Defaults()
	defaults := map[string]any{
		"db":            d.DB,
		"driver":        d.Driver,
		"log-level":     d.LogLevel,
		"log-format":    d.LogFormat,
		"due-limit":     d.DueLimit,
		"history-limit": d.HistoryLimit,
		"remind-every":  d.RemindEvery.String(),
	}
	for key, v := range defaults {
		if err := k.Set(key, v); err != nil {
			return Config{}, fmt.Errorf("set default %s: %w", key, err)
		}
	}

	if src.File != "" {
		if err := k.Load(file.Provider(src.File), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", src.File, err)
		}
	}

	envFile := src.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file %s: %w", envFile, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	if src.Flags != nil {
		if err := k.Load(posflag.Provider(src.Flags, ".", k), nil); err != nil {
			return Config{}, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// envKey maps STUDY_DUE_LIMIT to due-limit.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", "-")
}

// Level returns the slog level for LogLevel. verbose forces debug.
func (c Config) Level(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
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

// NewLogger builds the process logger writing to w.
func (c Config) NewLogger(w io.Writer, verbose bool) *slog.Logger {
	hopts := &slog.HandlerOptions{Level: c.Level(verbose)}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, hopts))
	}
	return slog.New(slog.NewTextHandler(w, hopts))
}
