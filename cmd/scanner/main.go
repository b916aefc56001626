package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"SwingScanner/internal/alerts"
	"SwingScanner/internal/collector"
	"SwingScanner/internal/config"
	"SwingScanner/internal/notifier"
	"SwingScanner/internal/recorder"
	"SwingScanner/internal/scheduler"
)

func main() {
	once := flag.Bool("once", false, "run a single scan and exit")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] SwingScanner starting...")

	// Load config
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

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.DataSource.Kind == "file" {
		fetcher = collector.NewFileFetcher(cfg.DataSource.Dir, cfg.DataSource.Format)
	} else {
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	// Init alert state
	if dir := filepath.Dir(cfg.Alerts.StateFile); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatalf("[FATAL] create state dir: %v", err)
		}
	}
	am, err := alerts.NewManager(cfg.Alerts.StateFile, time.Duration(cfg.Alerts.CooldownHours)*time.Hour)
	if err != nil {
		log.Fatalf("[FATAL] init alert state: %v", err)
	}

	// Init notifier
	var sender notifier.Sender = notifier.LogSender{}
	if cfg.TelegramEnabled() {
		sender = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	} else {
		log.Println("[WARN] telegram not configured, notifications go to the log")
	}

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

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, cfg, fetcher, am, sender, rec)

	if *once {
		sched.RunScanNow()
		return
	}

	if err := sched.RegisterAll(cfg.Schedule.ScanCron, cfg.Schedule.BacktestCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing scan now")
		go sched.RunScanNow()
	}

	log.Println("[INFO] SwingScanner is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] SwingScanner stopped")
}
