package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr != ":8050" || cfg.DataSource.Provider != "yahoo" || cfg.Dashboard.RSIWindow != 14 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	l, err := cfg.Limits()
	if err != nil {
		t.Fatalf("limits: %v", err)
	}
	if !l.DefaultStart.Equal(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)) || len(l.DefaultWindows) != 2 {
		t.Errorf("unexpected limits %+v", l)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "config.yaml", `
server:
  addr: ":9000"
data_source:
  provider: binance
dashboard:
  default_ticker: btcusdt
  default_windows: [20]
schedule:
  watchlist: [BTCUSDT, ETHUSDT]
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Addr != ":9000" || cfg.DataSource.Provider != "binance" || len(cfg.Schedule.Watchlist) != 2 {
		t.Errorf("unexpected config %+v", cfg)
	}
	l, err := cfg.Limits()
	if err != nil {
		t.Fatalf("limits: %v", err)
	}
	if l.DefaultTicker != "BTCUSDT" || len(l.DefaultWindows) != 1 {
		t.Errorf("unexpected limits %+v", l)
	}
}

func TestLoad_TOML(t *testing.T) {
	path := writeFile(t, "config.toml", `
proxy = "http://127.0.0.1:7890"

[data_source]
provider = "rest"
base_url = "http://bars.local"

[dashboard]
allowed_windows = [10, 20, 50]
default_windows = [10]
rsi_window = 9
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DataSource.BaseURL != "http://bars.local" || cfg.Dashboard.RSIWindow != 9 || cfg.Proxy == "" {
		t.Errorf("unexpected config %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DATA_PROVIDER", "mock")
	t.Setenv("WATCHLIST", "aapl, msft,,")
	t.Setenv("LISTEN_ADDR", ":7000")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_CHAT_ID", "-100")
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DataSource.Provider != "mock" || cfg.Server.Addr != ":7000" {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
	if len(cfg.Schedule.Watchlist) != 2 || cfg.Schedule.Watchlist[1] != "msft" {
		t.Errorf("unexpected watchlist %v", cfg.Schedule.Watchlist)
	}
	if cfg.Telegram.BotToken != "123:abc" || cfg.Telegram.ChatID != "-100" {
		t.Errorf("telegram env overrides not applied: %+v", cfg.Telegram)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestLoad_ParseError(t *testing.T) {
	path := writeFile(t, "bad.yaml", "server: [unclosed")
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown provider", func(c *Config) { c.DataSource.Provider = "bloomberg" }},
		{"rest without base url", func(c *Config) { c.DataSource.Provider = "rest" }},
		{"default window not allowed", func(c *Config) { c.Dashboard.DefaultWindows = []int{30} }},
		{"non-positive allowed window", func(c *Config) { c.Dashboard.AllowedWindows = []int{0, 20} }},
		{"negative rsi window", func(c *Config) { c.Dashboard.RSIWindow = -1 }},
		{"bad date", func(c *Config) { c.Dashboard.MinDate = "01/01/2000" }},
		{"default end before start", func(c *Config) { c.Dashboard.DefaultEnd = "2019-01-01" }},
		{"default outside limits", func(c *Config) { c.Dashboard.DefaultStart = "1990-01-01" }},
		{"telegram token without chat", func(c *Config) { c.Telegram.BotToken = "123:abc"; c.Telegram.ChatID = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
