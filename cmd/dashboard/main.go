package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"TickerScope/internal/collector"
	"TickerScope/internal/config"
	"TickerScope/internal/dashboard"
	"TickerScope/internal/notifier"
	"TickerScope/internal/recorder"
	"TickerScope/internal/scheduler"
	"TickerScope/internal/server"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] TickerScope starting...")

	// Missing .env is fine.
	_ = godotenv.Load()

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
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
	log.Printf("[INFO] data source: %s", fetcher.Name())

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	svc := dashboard.NewService(collector.NewCollector(fetcher), limits, rec)

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if len(cfg.Schedule.Watchlist) > 0 {
		sched := scheduler.NewScheduler(ctx, svc, cfg.Schedule.Watchlist, cfg.Schedule.Parallelism)
		if cfg.Telegram.BotToken != "" {
			sched.Notifier = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
			log.Println("[INFO] telegram digest enabled")
		}
		if err := sched.Register(cfg.Schedule.SnapshotCron); err != nil {
			log.Fatalf("[FATAL] register cron tasks: %v", err)
		}
		sched.Start()
		defer sched.Stop()

		if os.Getenv("RUN_ON_START") == "true" {
			log.Println("[INFO] RUN_ON_START enabled, executing snapshot task now")
			go sched.RunNow()
		}
	}

	srv, err := server.NewHTTPServer(server.HTTPConfig{Addr: cfg.Server.Addr, Svc: svc})
	if err != nil {
		log.Fatalf("[FATAL] init http server: %v", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Start(gctx) })
	g.Go(func() error {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)
		select {
		case <-sigCh:
			log.Println("[INFO] shutdown signal received, stopping...")
			cancel()
		case <-gctx.Done():
		}
		return nil
	})

	log.Printf("[INFO] TickerScope is running on %s. Press Ctrl+C to stop.", cfg.Server.Addr)
	if err := g.Wait(); err != nil {
		log.Printf("[ERROR] http server: %v", err)
	}
	log.Println("[INFO] TickerScope stopped")
}
