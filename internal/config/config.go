// Package config loads pipesys settings from an optional YAML file with
// environment overrides on top.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chazu/pipesys/internal/logging"
)

// Config is the full set of runtime settings.
type Config struct {
	Log    LogConfig    `yaml:"log"`
	Eval   EvalConfig   `yaml:"eval"`
	Report ReportConfig `yaml:"report"`
}

type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

type EvalConfig struct {
	// Timeout bounds a single model script evaluation.
	Timeout time.Duration `yaml:"timeout"`
}

type ReportConfig struct {
	// Out is the report destination; empty or "-" means stdout.
	Out string `yaml:"out"`
	// LogSink mirrors every report line into the structured log.
	LogSink bool `yaml:"log_sink"`
}

// Default returns the configuration used when no file or overrides are given.
func Default() Config {
	return Config{
		Log:  LogConfig{Level: "info", Format: "text"},
		Eval: EvalConfig{Timeout: 5 * time.Second},
	}
}

// Load reads path (if non-empty) over the defaults, then applies
// environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Log.Level = envOr("PIPESYS_LOG_LEVEL", c.Log.Level)
	c.Log.Format = envOr("PIPESYS_LOG_FORMAT", c.Log.Format)
	c.Report.Out = envOr("PIPESYS_OUT", c.Report.Out)

	timeout, err := envDuration("PIPESYS_EVAL_TIMEOUT", c.Eval.Timeout)
	if err != nil {
		return err
	}
	c.Eval.Timeout = timeout
	return nil
}

// Validate rejects settings the CLI cannot act on.
func (c Config) Validate() error {
	var errs []error
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if err := logging.CheckFormat(c.Log.Format); err != nil {
		errs = append(errs, fmt.Errorf("log.format: %w", err))
	}
	if c.Eval.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("eval.timeout must be positive, got %s", c.Eval.Timeout))
	}
	return errors.Join(errs...)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
