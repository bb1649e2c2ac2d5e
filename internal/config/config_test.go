package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.DB != "ngurra.db" {
		t.Errorf("Expected default db path 'ngurra.db', but got %q", cfg.DB)
	}
	if cfg.ReposDir != "repos" {
		t.Errorf("Expected default repos dir 'repos', but got %q", cfg.ReposDir)
	}
	if cfg.Scheduler.InitialEaseFactor != 2.5 {
		t.Errorf("Expected default initial ease factor 2.5, but got %v", cfg.Scheduler.InitialEaseFactor)
	}
	if cfg.Scheduler.MaximumReviewInterval != 36_500 {
		t.Errorf("Expected default maximum review interval 36500, but got %d", cfg.Scheduler.MaximumReviewInterval)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, `
db: /tmp/cards.db
scheduler:
  new_per_day: 10
  initial_ease_factor: 2.6
`)

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.DB != "/tmp/cards.db" {
		t.Errorf("Expected db path from file, but got %q", cfg.DB)
	}
	if cfg.Scheduler.NewPerDay != 10 {
		t.Errorf("Expected new_per_day 10, but got %d", cfg.Scheduler.NewPerDay)
	}
	if cfg.Scheduler.InitialEaseFactor != 2.6 {
		t.Errorf("Expected initial ease factor 2.6, but got %v", cfg.Scheduler.InitialEaseFactor)
	}
	// Untouched keys keep their defaults.
	if cfg.Scheduler.ReviewsPerDay != 200 {
		t.Errorf("Expected default reviews_per_day 200, but got %d", cfg.Scheduler.ReviewsPerDay)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, "scheduler:\n  new_per_day: 10\n")
	t.Setenv("NGURRA_SCHEDULER__NEW_PER_DAY", "5")
	t.Setenv("NGURRA_REPOS_DIR", "/var/ngurra/repos")

	cfg, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Scheduler.NewPerDay != 5 {
		t.Errorf("Expected the environment to override the file, but got %d", cfg.Scheduler.NewPerDay)
	}
	if cfg.ReposDir != "/var/ngurra/repos" {
		t.Errorf("Expected repos dir from the environment, but got %q", cfg.ReposDir)
	}
}

func TestFlagsOverrideEverything(t *testing.T) {
	t.Setenv("NGURRA_DB", "/from/env.db")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("db", "ngurra.db", "")
	if err := flags.Parse([]string{"--db", "/from/flag.db"}); err != nil {
		t.Fatalf("Failed to parse flags: %v", err)
	}

	cfg, err := Load("", flags)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.DB != "/from/flag.db" {
		t.Errorf("Expected the flag to win, but got %q", cfg.DB)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := writeConfigFile(t, "scheduler:\n  initial_ease_factor: 1.0\n")

	if _, err := Load(path, nil); err == nil {
		t.Errorf("Expected an ease factor below 1.3 to be rejected, but it was not")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil); err == nil {
		t.Errorf("Expected an error for a missing config file, but got none")
	}
}

func TestStateContext(t *testing.T) {
	cfg := Default()
	cfg.Scheduler.NewPerDay = 7
	cfg.Scheduler.EasyMultiplier = 1.4

	ctx := cfg.StateContext()
	if ctx.NewPerDay != 7 {
		t.Errorf("Expected new per day 7, but got %d", ctx.NewPerDay)
	}
	if ctx.EasyMultiplier != 1.4 {
		t.Errorf("Expected easy multiplier 1.4, but got %v", ctx.EasyMultiplier)
	}
	if ctx.MaximumReviewInterval != 36_500 {
		t.Errorf("Expected maximum review interval 36500, but got %d", ctx.MaximumReviewInterval)
	}
}
