package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"SwingScanner/internal/backtest"
	"SwingScanner/internal/model"
	"SwingScanner/internal/plan"
	"SwingScanner/internal/ranker"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		Kind         string   `yaml:"kind"` // yahoo | file
		Dir          string   `yaml:"dir"`
		Format       string   `yaml:"format"` // csv | json | parquet
		MarketSymbol string   `yaml:"market_symbol"`
		Universe     []string `yaml:"universe"`
		Workers      int      `yaml:"workers"`
	} `yaml:"data_source"`
	Scanner struct {
		MinPrice        float64 `yaml:"min_price"`
		MaxPrice        float64 `yaml:"max_price"`
		MinAvgDollarVol float64 `yaml:"min_avg_dollar_vol"`
		LookbackDays    int     `yaml:"lookback_days"`
		TopN            int     `yaml:"top_n"`
		MinBars         int     `yaml:"min_bars"`
		Mode            string  `yaml:"mode"`
		Workers         int     `yaml:"workers"`
	} `yaml:"scanner"`
	Scoring struct {
		MinScore int    `yaml:"min_score"`
		Side     string `yaml:"side"`
	} `yaml:"scoring"`
	Alerts struct {
		StateFile     string `yaml:"state_file"`
		CooldownHours int    `yaml:"cooldown_hours"`
	} `yaml:"alerts"`
	Backtest struct {
		backtest.Config `yaml:",inline"`
		LookbackDays    int      `yaml:"lookback_days"`
		Symbols         []string `yaml:"symbols"`
	} `yaml:"backtest"`
	Plan     plan.Settings `yaml:"plan"`
	Schedule struct {
		ScanCron     string `yaml:"scan_cron"`
		BacktestCron string `yaml:"backtest_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy string `yaml:"proxy"`
}

// defaults returns the numeric settings a file may override. They are set
// before parsing so an explicit zero in the file is kept.
func defaults() *Config {
	cfg := &Config{}
	cfg.DataSource.Workers = 4
	cfg.Scanner.MinPrice = 2
	cfg.Scanner.MaxPrice = 250
	cfg.Scanner.MinAvgDollarVol = 2_000_000
	cfg.Scanner.LookbackDays = 300
	cfg.Scanner.TopN = 80
	cfg.Scanner.MinBars = 60
	cfg.Scanner.Workers = 8
	cfg.Scoring.MinScore = 70
	cfg.Alerts.CooldownHours = 72
	cfg.Backtest.Config = backtest.DefaultConfig()
	cfg.Backtest.LookbackDays = 365
	cfg.Plan = plan.DefaultSettings()
	return cfg
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("DATA_DIR"); v != "" {
		cfg.DataSource.Dir = v
	}
	if v := os.Getenv("CRON_SCAN"); v != "" {
		cfg.Schedule.ScanCron = v
	}
	if v := os.Getenv("SCAN_MODE"); v != "" {
		cfg.Scanner.Mode = strings.ToLower(strings.TrimSpace(v))
	}
	envFloat("MIN_PRICE", &cfg.Scanner.MinPrice)
	envFloat("MAX_PRICE", &cfg.Scanner.MaxPrice)
	envFloat("MIN_AVG_DOLLAR_VOL", &cfg.Scanner.MinAvgDollarVol)
	envInt("TOP_N", &cfg.Scanner.TopN)
	envInt("AI_FILTER_MIN_SCORE", &cfg.Scoring.MinScore)

	// Defaults
	if cfg.DataSource.Kind == "" {
		cfg.DataSource.Kind = "yahoo"
	}
	if cfg.DataSource.Format == "" {
		cfg.DataSource.Format = "csv"
	}
	if cfg.DataSource.Dir == "" {
		cfg.DataSource.Dir = "data/bars"
	}
	if cfg.DataSource.MarketSymbol == "" {
		cfg.DataSource.MarketSymbol = "SPY"
	}
	if cfg.Scoring.Side == "" {
		cfg.Scoring.Side = string(model.SideBuy)
	}
	if cfg.Alerts.StateFile == "" {
		cfg.Alerts.StateFile = "data/alert_state.json"
	}
	if cfg.Schedule.ScanCron == "" {
		cfg.Schedule.ScanCron = "0 30 21 * * 1-5"
	}
	if cfg.Schedule.BacktestCron == "" {
		cfg.Schedule.BacktestCron = "0 0 9 * * 6"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/swing_scanner.db"
	}

	return cfg, nil
}

func envFloat(key string, dst *float64) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			*dst = f
		}
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			*dst = n
		}
	}
}

// Validate checks that all settings are usable.
func (c *Config) Validate() error {
	if c.Scanner.MinPrice < 0 || c.Scanner.MaxPrice <= c.Scanner.MinPrice {
		return fmt.Errorf("scanner price band [%g, %g] is invalid", c.Scanner.MinPrice, c.Scanner.MaxPrice)
	}
	if c.Scanner.LookbackDays < 1 || c.Backtest.LookbackDays < 1 {
		return fmt.Errorf("lookback_days must be at least 1")
	}
	if c.Scanner.TopN < 1 {
		return fmt.Errorf("scanner.top_n must be at least 1")
	}
	switch c.Scanner.Mode {
	case ranker.ModeAny, ranker.ModeBreakout, ranker.ModePullback, ranker.ModeMixed:
	default:
		return fmt.Errorf("unknown scanner.mode %q", c.Scanner.Mode)
	}
	switch strings.ToLower(c.Scoring.Side) {
	case "buy", "sell", "long", "short":
	default:
		return fmt.Errorf("unknown scoring.side %q", c.Scoring.Side)
	}
	if c.Scoring.MinScore < 0 || c.Scoring.MinScore > 100 {
		return fmt.Errorf("scoring.min_score must be within [0, 100]")
	}
	switch c.DataSource.Kind {
	case "yahoo":
	case "file":
		switch c.DataSource.Format {
		case "csv", "json", "parquet":
		default:
			return fmt.Errorf("unknown data_source.format %q", c.DataSource.Format)
		}
	default:
		return fmt.Errorf("unknown data_source.kind %q", c.DataSource.Kind)
	}
	bt := c.Backtest.Config
	if bt.Capital <= 0 {
		return fmt.Errorf("backtest.capital must be positive")
	}
	if bt.RiskPerTradePct <= 0 {
		return fmt.Errorf("backtest.risk_per_trade_pct must be positive")
	}
	if bt.SLATRMult <= 0 || bt.TP2RMult <= 0 {
		return fmt.Errorf("backtest stop and target multipliers must be positive")
	}
	if bt.PartialPct < 0 || bt.PartialPct > 0.95 {
		return fmt.Errorf("backtest.partial_pct must be within [0, 0.95]")
	}
	if c.Plan.Capital <= 0 {
		return fmt.Errorf("plan.capital must be positive")
	}
	if c.Plan.RiskMinPct > c.Plan.RiskMaxPct {
		return fmt.Errorf("plan risk band [%g, %g] is invalid", c.Plan.RiskMinPct, c.Plan.RiskMaxPct)
	}
	return nil
}

// TelegramEnabled reports whether chat notifications are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// RankerConfig maps the scanner section onto ranker settings.
func (c *Config) RankerConfig() ranker.Config {
	return ranker.Config{
		MinPrice:        c.Scanner.MinPrice,
		MaxPrice:        c.Scanner.MaxPrice,
		MinAvgDollarVol: c.Scanner.MinAvgDollarVol,
		MinBars:         c.Scanner.MinBars,
		TopN:            c.Scanner.TopN,
		Mode:            c.Scanner.Mode,
		Workers:         c.Scanner.Workers,
	}
}
