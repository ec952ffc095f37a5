package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"TickerScope/internal/dashboard"
)

// Providers lists the supported data_source.provider values.
var Providers = []string{"yahoo", "binance", "rest", "mock"}

// Config holds all application configuration.
type Config struct {
	Server struct {
		Addr string `yaml:"addr" toml:"addr"`
	} `yaml:"server" toml:"server"`
	DataSource struct {
		Provider string `yaml:"provider" toml:"provider"`
		BaseURL  string `yaml:"base_url" toml:"base_url"`
		APIKey   string `yaml:"api_key" toml:"api_key"`
	} `yaml:"data_source" toml:"data_source"`
	Dashboard struct {
		DefaultTicker  string `yaml:"default_ticker" toml:"default_ticker"`
		AllowedWindows []int  `yaml:"allowed_windows" toml:"allowed_windows"`
		DefaultWindows []int  `yaml:"default_windows" toml:"default_windows"`
		RSIWindow      int    `yaml:"rsi_window" toml:"rsi_window"`
		MinDate        string `yaml:"min_date" toml:"min_date"`
		MaxDate        string `yaml:"max_date" toml:"max_date"`
		DefaultStart   string `yaml:"default_start" toml:"default_start"`
		DefaultEnd     string `yaml:"default_end" toml:"default_end"`
	} `yaml:"dashboard" toml:"dashboard"`
	Schedule struct {
		SnapshotCron string   `yaml:"snapshot_cron" toml:"snapshot_cron"`
		Watchlist    []string `yaml:"watchlist" toml:"watchlist"`
		Parallelism  int      `yaml:"parallelism" toml:"parallelism"`
	} `yaml:"schedule" toml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path" toml:"sqlite_path"`
	} `yaml:"database" toml:"database"`
	Telegram struct {
		BotToken string `yaml:"bot_token" toml:"bot_token"`
		ChatID   string `yaml:"chat_id" toml:"chat_id"`
	} `yaml:"telegram" toml:"telegram"`
	Proxy string `yaml:"proxy" toml:"proxy"`
}

// Load reads config from a YAML or TOML file (chosen by extension), then
// applies environment variable overrides and defaults. A missing file is
// not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if strings.EqualFold(filepath.Ext(path), ".toml") {
			err = toml.Unmarshal(data, cfg)
		} else {
			err = yaml.Unmarshal(data, cfg)
		}
		if err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("DATA_PROVIDER"); v != "" {
		cfg.DataSource.Provider = v
	}
	if v := os.Getenv("DATA_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("DATA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
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
	if v := os.Getenv("CRON_SNAPSHOT"); v != "" {
		cfg.Schedule.SnapshotCron = v
	}
	if v := os.Getenv("WATCHLIST"); v != "" {
		cfg.Schedule.Watchlist = nil
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				cfg.Schedule.Watchlist = append(cfg.Schedule.Watchlist, s)
			}
		}
	}

	// Defaults
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8050"
	}
	if cfg.DataSource.Provider == "" {
		cfg.DataSource.Provider = "yahoo"
	}
	d := &cfg.Dashboard
	if d.DefaultTicker == "" {
		d.DefaultTicker = "AAPL"
	}
	if len(d.AllowedWindows) == 0 {
		d.AllowedWindows = []int{20, 50, 100, 200}
	}
	if d.DefaultWindows == nil {
		d.DefaultWindows = []int{20, 50}
	}
	if d.RSIWindow == 0 {
		d.RSIWindow = 14
	}
	if d.MinDate == "" {
		d.MinDate = "2000-01-01"
	}
	if d.MaxDate == "" {
		d.MaxDate = "2025-12-31"
	}
	if d.DefaultStart == "" {
		d.DefaultStart = "2020-01-01"
	}
	if d.DefaultEnd == "" {
		d.DefaultEnd = "2023-01-01"
	}
	if cfg.Schedule.SnapshotCron == "" {
		cfg.Schedule.SnapshotCron = "0 30 22 * * 1-5"
	}
	if cfg.Schedule.Parallelism <= 0 {
		cfg.Schedule.Parallelism = 4
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/tickerscope.db"
	}

	return cfg, nil
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	if !slices.Contains(Providers, c.DataSource.Provider) {
		return fmt.Errorf("data_source.provider must be one of %v, got %q", Providers, c.DataSource.Provider)
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	if c.DataSource.Provider == "rest" && c.DataSource.BaseURL == "" {
		return fmt.Errorf("data_source.base_url is required for the rest provider")
	}
	for _, w := range c.Dashboard.AllowedWindows {
		if w <= 0 {
			return fmt.Errorf("dashboard.allowed_windows must be positive, got %d", w)
		}
	}
	for _, w := range c.Dashboard.DefaultWindows {
		if !slices.Contains(c.Dashboard.AllowedWindows, w) {
			return fmt.Errorf("dashboard.default_windows: %d is not in allowed_windows", w)
		}
	}
	if c.Dashboard.RSIWindow <= 0 {
		return fmt.Errorf("dashboard.rsi_window must be positive")
	}
	l, err := c.Limits()
	if err != nil {
		return err
	}
	if l.MaxDate.Before(l.MinDate) {
		return fmt.Errorf("dashboard.max_date precedes min_date")
	}
	if l.DefaultEnd.Before(l.DefaultStart) {
		return fmt.Errorf("dashboard.default_end precedes default_start")
	}
	if l.DefaultStart.Before(l.MinDate) || l.DefaultEnd.After(l.MaxDate) {
		return fmt.Errorf("dashboard default range must lie within min_date..max_date")
	}
	return nil
}

// Limits converts the dashboard section into validation limits.
func (c *Config) Limits() (dashboard.Limits, error) {
	d := c.Dashboard
	l := dashboard.Limits{
		AllowedWindows: slices.Clone(d.AllowedWindows),
		DefaultWindows: slices.Clone(d.DefaultWindows),
		RSIWindow:      d.RSIWindow,
		DefaultTicker:  strings.ToUpper(d.DefaultTicker),
	}
	dates := []struct {
		name string
		raw  string
		dst  *time.Time
	}{
		{"min_date", d.MinDate, &l.MinDate},
		{"max_date", d.MaxDate, &l.MaxDate},
		{"default_start", d.DefaultStart, &l.DefaultStart},
		{"default_end", d.DefaultEnd, &l.DefaultEnd},
	}
	for _, f := range dates {
		t, err := time.Parse(time.DateOnly, f.raw)
		if err != nil {
			return dashboard.Limits{}, fmt.Errorf("dashboard.%s: %w", f.name, err)
		}
		*f.dst = t
	}
	return l, nil
}
