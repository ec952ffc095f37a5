package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"TickerScope/internal/collector"
	"TickerScope/internal/config"
	"TickerScope/internal/dashboard"
	"TickerScope/internal/render"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	_ = godotenv.Load()

	cfgPath := flag.String("config", envOr("CONFIG_PATH", "configs/config.yaml"), "config file (.yaml or .toml)")
	ticker := flag.String("ticker", "", "ticker symbol (default from config)")
	ma := flag.String("ma", "", "comma-separated moving average windows (default from config)")
	rsi := flag.Bool("rsi", false, "include RSI")
	start := flag.String("start", "", "start date YYYY-MM-DD")
	end := flag.String("end", "", "end date YYYY-MM-DD")
	rows := flag.Int("rows", 20, "trailing rows to print, 0 for all")
	htmlOut := flag.String("html", "", "write the chart page to this file instead of printing a table")
	timeout := flag.Duration("timeout", time.Minute, "overall timeout")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}
	limits, err := cfg.Limits()
	if err != nil {
		log.Fatalf("[FATAL] dashboard limits: %v", err)
	}
	fetcher, err := collector.NewFetcher(cfg.DataSource.Provider, cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	if err != nil {
		log.Fatalf("[FATAL] init fetcher: %v", err)
	}

	req := limits.Default()
	req.IncludeRSI = *rsi
	if *ticker != "" {
		req.Ticker = *ticker
	}
	if *ma != "" {
		if req.Windows, err = dashboard.ParseWindows([]string{*ma}); err != nil {
			log.Fatalf("[FATAL] %v", err)
		}
	}
	if req.Start, err = dashboard.ParseDate(*start, req.Start); err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
	if req.End, err = dashboard.ParseDate(*end, req.End); err != nil {
		log.Fatalf("[FATAL] %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	svc := dashboard.NewService(collector.NewCollector(fetcher), limits, nil)
	desc, err := svc.Render(ctx, req)
	if err != nil {
		log.Fatalf("[FATAL] %v", err)
	}

	if *htmlOut != "" {
		f, err := os.Create(*htmlOut)
		if err != nil {
			log.Fatalf("[FATAL] create %s: %v", *htmlOut, err)
		}
		if err := render.HTML(f, desc); err != nil {
			f.Close()
			log.Fatalf("[FATAL] render html: %v", err)
		}
		if err := f.Close(); err != nil {
			log.Fatalf("[FATAL] close %s: %v", *htmlOut, err)
		}
		log.Printf("[INFO] chart written to %s", *htmlOut)
		return
	}
	fmt.Println(render.Table(desc, *rows))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
