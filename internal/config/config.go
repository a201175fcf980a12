package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTPAddr string `yaml:"http_addr"`

	// DB
	Env    string `yaml:"env"`     // "dev" | "prod"
	DBPath string `yaml:"db_path"` // e.g. "./data/pointage.db"

	// Site timezone: day partitions and work-window checks are evaluated
	// in this location, not in UTC.
	Timezone string `yaml:"timezone"`

	// Anomaly sweeps
	ClosingTime          string `yaml:"closing_time"` // "HH:MM"
	MaxBreakMinutes      int    `yaml:"max_break_minutes"`
	SweepIntervalMinutes int    `yaml:"sweep_interval_minutes"`
	SweepPageSize        int    `yaml:"sweep_page_size"`

	// Reader connectivity probes
	ProbeTimeoutSeconds  int `yaml:"probe_timeout_seconds"`
	ProbeIntervalMinutes int `yaml:"probe_interval_minutes"`

	// Decision audit retention
	DecisionRetentionDays int `yaml:"decision_retention_days"` // 0 = keep forever
	PruneIntervalHours    int `yaml:"prune_interval_hours"`    // how often the pruner runs (default 6)
}

func defaults() Config {
	return Config{
		HTTPAddr:              ":8080",
		Env:                   "dev",
		DBPath:                "./data/pointage.db",
		Timezone:              "UTC",
		ClosingTime:           "17:00",
		MaxBreakMinutes:       60,
		SweepIntervalMinutes:  15,
		SweepPageSize:         100,
		ProbeTimeoutSeconds:   2,
		ProbeIntervalMinutes:  1,
		DecisionRetentionDays: 90,
		PruneIntervalHours:    6,
	}
}

// Load layers the config: built-in defaults, then the YAML file at path
// (skipped when path is empty), then POINTAGE_* environment overrides.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if cfg.Env != "dev" && cfg.Env != "prod" {
		// fail-soft: treat unknown as dev
		cfg.Env = "dev"
	}
	return cfg, nil
}

// FromEnv builds the config from defaults and environment only, ignoring
// any config file.
func FromEnv() Config {
	cfg, _ := Load("")
	return cfg
}

func (c *Config) applyEnv() {
	c.HTTPAddr = getenvDefault("POINTAGE_HTTP_ADDR", c.HTTPAddr)
	c.Env = strings.ToLower(getenvDefault("POINTAGE_ENV", c.Env))
	c.DBPath = getenvDefault("POINTAGE_DB_PATH", c.DBPath)
	c.Timezone = getenvDefault("POINTAGE_TIMEZONE", c.Timezone)
	c.ClosingTime = getenvDefault("POINTAGE_CLOSING_TIME", c.ClosingTime)

	c.MaxBreakMinutes = getenvInt("POINTAGE_MAX_BREAK_MINUTES", c.MaxBreakMinutes)
	c.SweepIntervalMinutes = getenvInt("POINTAGE_SWEEP_INTERVAL_MINUTES", c.SweepIntervalMinutes)
	c.SweepPageSize = getenvInt("POINTAGE_SWEEP_PAGE_SIZE", c.SweepPageSize)
	c.ProbeTimeoutSeconds = getenvInt("POINTAGE_PROBE_TIMEOUT_SECONDS", c.ProbeTimeoutSeconds)
	c.ProbeIntervalMinutes = getenvInt("POINTAGE_PROBE_INTERVAL_MINUTES", c.ProbeIntervalMinutes)
	c.DecisionRetentionDays = getenvInt("POINTAGE_DECISION_RETENTION_DAYS", c.DecisionRetentionDays)
	c.PruneIntervalHours = getenvInt("POINTAGE_PRUNE_INTERVAL_HOURS", c.PruneIntervalHours)
}

func getenvDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return def
	}
	return n
}
