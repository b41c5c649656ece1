// Package config loads the soulverse runtime configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"

	"soulverse/src/universe"
)

// Config is the runtime configuration; command line flags override it.
type Config struct {
	Storage     string        `env:"SOULVERSE_STORAGE" envDefault:"bolt"`
	DBPath      string        `env:"SOULVERSE_DB_PATH" envDefault:"soulverse.db"`
	PersistKey  string        `env:"SOULVERSE_PERSIST_KEY" envDefault:"soul-universe"`
	Interactive bool          `env:"SOULVERSE_INTERACTIVE"`
	Seed        int           `env:"SOULVERSE_SEED" envDefault:"20"`
	Interval    time.Duration `env:"SOULVERSE_INTERVAL" envDefault:"200ms"`
	MaxSteps    int           `env:"SOULVERSE_MAX_STEPS" envDefault:"300"`
	MetricsAddr string        `env:"SOULVERSE_METRICS_ADDR"`
	LogLevel    string        `env:"SOULVERSE_LOG_LEVEL" envDefault:"info"`
	LogFile     string        `env:"SOULVERSE_LOG_FILE"`
}

// Load parses the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate reports values the application can't run with.
func (c Config) Validate() error {
	if c.Seed < 0 {
		return fmt.Errorf("seed must not be negative: %d", c.Seed)
	}
	if c.MaxSteps < 0 {
		return fmt.Errorf("max steps must not be negative: %d", c.MaxSteps)
	}
	if c.Interval < 0 {
		return fmt.Errorf("interval must not be negative: %v", c.Interval)
	}
	if _, err := zap.ParseAtomicLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

// NewLogger builds the structured logger.
// In interactive mode the terminal belongs to the UI, so logs go to LogFile or nowhere.
func (c Config) NewLogger() (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	if c.Interactive && c.LogFile == "" {
		return zap.NewNop(), nil
	}

	zc := zap.NewProductionConfig()
	zc.Level = level
	if c.LogFile != "" {
		zc.OutputPaths = []string{c.LogFile}
		zc.ErrorOutputPaths = []string{c.LogFile}
	}
	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger.With(zap.String("service", "soulverse")), nil
}

// UniverseOptions maps the configuration onto the universe options.
func (c Config) UniverseOptions(logger *zap.Logger, kv universe.KV) *universe.Options {
	o := universe.DefaultUniverseOptions
	o.PersistKey = c.PersistKey
	o.Logger = logger
	o.KV = kv
	return &o
}
