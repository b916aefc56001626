package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Scanner.TopN != 80 || cfg.Scanner.MinPrice != 2 || cfg.Scanner.MaxPrice != 250 {
		t.Errorf("unexpected scanner defaults %+v", cfg.Scanner)
	}
	if cfg.Backtest.Capital != 10000 || cfg.Backtest.MaxHoldingDays != 12 || !cfg.Backtest.TrailAfterTP1 {
		t.Errorf("unexpected backtest defaults %+v", cfg.Backtest)
	}
	if cfg.Plan.Capital != 800 {
		t.Errorf("unexpected plan defaults %+v", cfg.Plan)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
	if cfg.TelegramEnabled() {
		t.Error("expected telegram disabled without credentials")
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
scanner:
  top_n: 10
  mode: pullback
backtest:
  capital: 5000
  trail_after_tp1: false
  symbols: [AAA, BBB]
data_source:
  kind: file
  format: parquet
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TOP_N", "25")
	t.Setenv("MIN_PRICE", "5.5")
	t.Setenv("TELEGRAM_BOT_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "42")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Scanner.TopN != 25 || cfg.Scanner.MinPrice != 5.5 || cfg.Scanner.Mode != "pullback" {
		t.Errorf("unexpected scanner %+v", cfg.Scanner)
	}
	if cfg.Backtest.Capital != 5000 || cfg.Backtest.TrailAfterTP1 || cfg.Backtest.SLATRMult != 1.5 {
		t.Errorf("expected file values over defaults, got %+v", cfg.Backtest.Config)
	}
	if len(cfg.Backtest.Symbols) != 2 {
		t.Errorf("expected 2 backtest symbols, got %v", cfg.Backtest.Symbols)
	}
	if !cfg.TelegramEnabled() {
		t.Error("expected telegram enabled from env")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
	rc := cfg.RankerConfig()
	if rc.TopN != 25 || rc.Mode != "pullback" {
		t.Errorf("unexpected ranker config %+v", rc)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"price band", func(c *Config) { c.Scanner.MaxPrice = 1 }},
		{"mode", func(c *Config) { c.Scanner.Mode = "momentum" }},
		{"side", func(c *Config) { c.Scoring.Side = "hold" }},
		{"format", func(c *Config) { c.DataSource.Kind, c.DataSource.Format = "file", "xlsx" }},
		{"kind", func(c *Config) { c.DataSource.Kind = "ftp" }},
		{"capital", func(c *Config) { c.Backtest.Capital = 0 }},
		{"partial", func(c *Config) { c.Backtest.PartialPct = 0.99 }},
		{"plan risk", func(c *Config) { c.Plan.RiskMinPct = 3 }},
	}
	for _, tt := range tests {
		cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		if err != nil {
			t.Fatal(err)
		}
		tt.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tt.name)
		}
	}
}

func TestLoad_ExplicitZeros(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
scanner:
  min_price: 0
scoring:
  min_score: 0
alerts:
  cooldown_hours: 0
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Scanner.MinPrice != 0 || cfg.Scoring.MinScore != 0 || cfg.Alerts.CooldownHours != 0 {
		t.Errorf("explicit zeros replaced by defaults: min_price=%g min_score=%d cooldown=%d",
			cfg.Scanner.MinPrice, cfg.Scoring.MinScore, cfg.Alerts.CooldownHours)
	}
	if cfg.Scanner.MaxPrice != 250 || cfg.Scanner.TopN != 80 {
		t.Errorf("unset fields should keep defaults, got %+v", cfg.Scanner)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("explicit zeros should validate: %v", err)
	}
}
