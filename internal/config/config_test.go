package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()

	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("HTTPAddr = %q, want :8080", cfg.HTTPAddr)
	}
	if cfg.Env != "dev" {
		t.Fatalf("Env = %q, want dev", cfg.Env)
	}
	if cfg.ClosingTime != "17:00" {
		t.Fatalf("ClosingTime = %q, want 17:00", cfg.ClosingTime)
	}
	if cfg.MaxBreakMinutes != 60 {
		t.Fatalf("MaxBreakMinutes = %d, want 60", cfg.MaxBreakMinutes)
	}
	if cfg.DecisionRetentionDays != 90 {
		t.Fatalf("DecisionRetentionDays = %d, want 90", cfg.DecisionRetentionDays)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("POINTAGE_HTTP_ADDR", ":9999")
	t.Setenv("POINTAGE_ENV", "PROD")
	t.Setenv("POINTAGE_CLOSING_TIME", "18:30")
	t.Setenv("POINTAGE_MAX_BREAK_MINUTES", "45")
	t.Setenv("POINTAGE_DECISION_RETENTION_DAYS", "not-a-number")

	cfg := FromEnv()

	if cfg.HTTPAddr != ":9999" {
		t.Fatalf("HTTPAddr = %q, want :9999", cfg.HTTPAddr)
	}
	if cfg.Env != "prod" {
		t.Fatalf("Env = %q, want prod (lowercased)", cfg.Env)
	}
	if cfg.ClosingTime != "18:30" {
		t.Fatalf("ClosingTime = %q, want 18:30", cfg.ClosingTime)
	}
	if cfg.MaxBreakMinutes != 45 {
		t.Fatalf("MaxBreakMinutes = %d, want 45", cfg.MaxBreakMinutes)
	}
	if cfg.DecisionRetentionDays != 90 {
		t.Fatalf("DecisionRetentionDays = %d, want default 90 on bad input", cfg.DecisionRetentionDays)
	}
}

func TestUnknownEnvFallsBackToDev(t *testing.T) {
	t.Setenv("POINTAGE_ENV", "staging")

	cfg := FromEnv()
	if cfg.Env != "dev" {
		t.Fatalf("Env = %q, want dev", cfg.Env)
	}
}

func TestLoadYAMLFileThenEnvWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pointage.yaml")
	body := []byte(`
http_addr: ":7070"
timezone: "Africa/Algiers"
closing_time: "19:00"
max_break_minutes: 30
`)
	if err := os.WriteFile(path, body, 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv("POINTAGE_CLOSING_TIME", "20:00")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.HTTPAddr != ":7070" {
		t.Fatalf("HTTPAddr = %q, want :7070 from file", cfg.HTTPAddr)
	}
	if cfg.Timezone != "Africa/Algiers" {
		t.Fatalf("Timezone = %q, want Africa/Algiers", cfg.Timezone)
	}
	if cfg.MaxBreakMinutes != 30 {
		t.Fatalf("MaxBreakMinutes = %d, want 30 from file", cfg.MaxBreakMinutes)
	}
	if cfg.ClosingTime != "20:00" {
		t.Fatalf("ClosingTime = %q, want env override 20:00", cfg.ClosingTime)
	}
	// untouched keys keep their defaults
	if cfg.SweepIntervalMinutes != 15 {
		t.Fatalf("SweepIntervalMinutes = %d, want default 15", cfg.SweepIntervalMinutes)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}
