// Package config loads runtime settings from the environment, .env files and loose option maps.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
)

// Config holds the tunables of a reactive runtime.
type Config struct {
	// LogLevel is the runtime log level from REACTIVE_LOG_LEVEL.
	LogLevel string `env:"REACTIVE_LOG_LEVEL" envDefault:"info" mapstructure:"log_level"`
	// MaxDepth caps effect nesting from REACTIVE_MAX_DEPTH, 0 disables the cap.
	MaxDepth int `env:"REACTIVE_MAX_DEPTH" envDefault:"0" mapstructure:"max_depth"`
	// KeepStale keeps subscriptions from previous effect runs, from REACTIVE_KEEP_STALE.
	KeepStale bool `env:"REACTIVE_KEEP_STALE" mapstructure:"keep_stale"`
}

// Load reads Config from the process environment after loading the given
// .env files. Missing files are skipped, variables already set win.
func Load(envFiles ...string) (Config, error) {
	for _, path := range envFiles {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return Config{}, fmt.Errorf("load env file %q: %w", path, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.MaxDepth < 0 {
		return Config{}, fmt.Errorf("REACTIVE_MAX_DEPTH must not be negative, got %d", cfg.MaxDepth)
	}

	return cfg, nil
}

// Merge overlays the keys present in opts onto cfg.
func Merge(cfg Config, opts map[string]any) (Config, error) {
	if len(opts) == 0 {
		return cfg, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return Config{}, fmt.Errorf("build options decoder: %w", err)
	}

	if err := decoder.Decode(opts); err != nil {
		return Config{}, fmt.Errorf("decode options: %w", err)
	}

	if cfg.MaxDepth < 0 {
		return Config{}, fmt.Errorf("max_depth must not be negative, got %d", cfg.MaxDepth)
	}

	return cfg, nil
}
