// Package config resolves CLI settings from defaults, a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/aretw0/pintape/internal/runtime"
	"github.com/aretw0/pintape/pkg/domain"
	"github.com/aretw0/pintape/pkg/runner"
	"github.com/caarlos0/env/v11"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Config holds every setting the CLI understands.
type Config struct {
	Policy         string        `yaml:"policy" mapstructure:"policy" env:"PINTAPE_POLICY"`
	Interval       time.Duration `yaml:"interval" mapstructure:"interval" env:"PINTAPE_INTERVAL"`
	MaxInputLength int           `yaml:"max_input" mapstructure:"max_input" env:"PINTAPE_MAX_INPUT"`
	LogLevel       string        `yaml:"log_level" mapstructure:"log_level" env:"PINTAPE_LOG_LEVEL"`
	Color          bool          `yaml:"color" mapstructure:"color" env:"PINTAPE_COLOR"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Policy:         runtime.DefaultPolicy,
		Interval:       runner.DefaultInterval,
		MaxInputLength: domain.MaxInputLength,
		LogLevel:       "info",
		Color:          true,
	}
}

// Load resolves defaults, then the file at path (if path is set), then environ.
// A nil environ reads the process environment. The result is not validated, so callers
// can apply higher-precedence overrides first and then call Validate.
func Load(path string, environ map[string]string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return cfg, err
		}
	}

	opts := env.Options{Environment: environ}
	if environ == nil {
		opts.Environment = env.ToMap(os.Environ())
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}

	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if len(raw) == 0 {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           c,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("invalid config %s: %w", path, err)
	}
	return nil
}

// Validate rejects unknown policies, non-positive limits and unknown log levels.
func (c Config) Validate() error {
	var errs []error
	if _, err := runtime.PolicyByName(c.Policy); err != nil {
		errs = append(errs, err)
	}
	if c.Interval <= 0 {
		errs = append(errs, fmt.Errorf("interval must be positive, got %s", c.Interval))
	}
	if c.MaxInputLength <= 0 {
		errs = append(errs, fmt.Errorf("max_input must be positive, got %d", c.MaxInputLength))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	return level, nil
}
