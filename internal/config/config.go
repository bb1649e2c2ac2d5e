// Package config loads the application configuration from an optional YAML
// file, NGURRA_ environment variables and command line flags, in that order
// of increasing precedence.
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/conorfennell/ngurra/internal/scheduler"
)

// Config is the full application configuration.
type Config struct {
	DB        string          `koanf:"db" validate:"required"`
	ReposDir  string          `koanf:"repos_dir" validate:"required"`
	Scheduler SchedulerConfig `koanf:"scheduler"`
}

// SchedulerConfig mirrors the scheduling knobs of scheduler.StateContext.
type SchedulerConfig struct {
	NewPerDay              int     `koanf:"new_per_day" validate:"min=0"`
	ReviewsPerDay          int     `koanf:"reviews_per_day" validate:"min=0"`
	GraduatingIntervalGood int     `koanf:"graduating_interval_good" validate:"min=1"`
	GraduatingIntervalEasy int     `koanf:"graduating_interval_easy" validate:"min=1"`
	InitialEaseFactor      float64 `koanf:"initial_ease_factor" validate:"gte=1.3"`
	HardMultiplier         float64 `koanf:"hard_multiplier" validate:"gt=0"`
	EasyMultiplier         float64 `koanf:"easy_multiplier" validate:"gte=1"`
	IntervalMultiplier     float64 `koanf:"interval_multiplier" validate:"gt=0"`
	MaximumReviewInterval  int     `koanf:"maximum_review_interval" validate:"min=1"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	ctx := scheduler.DefaultContext()
	return &Config{
		DB:       "ngurra.db",
		ReposDir: "repos",
		Scheduler: SchedulerConfig{
			NewPerDay:              ctx.NewPerDay,
			ReviewsPerDay:          ctx.ReviewsPerDay,
			GraduatingIntervalGood: ctx.GraduatingIntervalGood,
			GraduatingIntervalEasy: ctx.GraduatingIntervalEasy,
			InitialEaseFactor:      ctx.InitialEaseFactor,
			HardMultiplier:         ctx.HardMultiplier,
			EasyMultiplier:         ctx.EasyMultiplier,
			IntervalMultiplier:     ctx.IntervalMultiplier,
			MaximumReviewInterval:  ctx.MaximumReviewInterval,
		},
	}
}

// Load builds the configuration. path may be empty (no file) and flags may
// be nil (no flag overrides). Flag names use dashes where config keys use
// underscores; environment variables use the NGURRA_ prefix with "__" as
// the section separator, e.g. NGURRA_SCHEDULER__NEW_PER_DAY.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider("NGURRA_", ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, "NGURRA_"))
		return strings.ReplaceAll(key, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}

	if flags != nil {
		flagProvider := posflag.ProviderWithValue(flags, ".", k, func(key, value string) (string, interface{}) {
			return strings.ReplaceAll(key, "-", "_"), value
		})
		if err := k.Load(flagProvider, nil); err != nil {
			return nil, fmt.Errorf("failed to load flag config: %w", err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// StateContext converts the scheduler section into the scheduling
// configuration the collection consumes.
func (c *Config) StateContext() *scheduler.StateContext {
	return &scheduler.StateContext{
		NewPerDay:              c.Scheduler.NewPerDay,
		ReviewsPerDay:          c.Scheduler.ReviewsPerDay,
		GraduatingIntervalGood: c.Scheduler.GraduatingIntervalGood,
		GraduatingIntervalEasy: c.Scheduler.GraduatingIntervalEasy,
		InitialEaseFactor:      c.Scheduler.InitialEaseFactor,
		HardMultiplier:         c.Scheduler.HardMultiplier,
		EasyMultiplier:         c.Scheduler.EasyMultiplier,
		IntervalMultiplier:     c.Scheduler.IntervalMultiplier,
		MaximumReviewInterval:  c.Scheduler.MaximumReviewInterval,
	}
}
