package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"os"
	"time"

	"SwingScanner/internal/backtest"
	"SwingScanner/internal/collector"
	"SwingScanner/internal/config"
	"SwingScanner/internal/notifier"
)

const dateLayout = "2006-01-02"

func main() {
	symbol := flag.String("symbol", "", "ticker to backtest")
	startStr := flag.String("start", "", "first trading date (YYYY-MM-DD), empty for all history")
	endStr := flag.String("end", "", "last trading date (YYYY-MM-DD), empty for latest")
	days := flag.Int("days", 0, "daily bars to load (default: backtest.lookback_days + warm-up)")
	source := flag.String("source", "", "override data_source.kind: yahoo | file")
	saveDir := flag.String("save", "", "write the fetched bars to this directory")
	text := flag.Bool("text", false, "print a text summary instead of JSON")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if *symbol == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if *source != "" {
		cfg.DataSource.Kind = *source
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	start, err := parseDate(*startStr)
	if err != nil {
		log.Fatalf("[FATAL] bad -start: %v", err)
	}
	end, err := parseDate(*endStr)
	if err != nil {
		log.Fatalf("[FATAL] bad -end: %v", err)
	}

	var fetcher collector.Fetcher
	if cfg.DataSource.Kind == "file" {
		fetcher = collector.NewFileFetcher(cfg.DataSource.Dir, cfg.DataSource.Format)
	} else {
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}

	n := *days
	if n <= 0 {
		n = cfg.Backtest.LookbackDays + backtest.WarmupBars
		if !start.IsZero() {
			// Cover the requested window plus warm-up.
			n = max(n, int(time.Since(start).Hours()/24)+backtest.WarmupBars*3/2)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	bars, err := fetcher.FetchDailyBars(ctx, *symbol, n)
	if err != nil {
		log.Fatalf("[FATAL] fetch %s: %v", *symbol, err)
	}
	log.Printf("[INFO] loaded %d bars for %s from %s", len(bars), *symbol, fetcher.Name())

	if *saveDir != "" {
		ff := collector.NewFileFetcher(*saveDir, cfg.DataSource.Format)
		if err := ff.Save(*symbol, bars); err != nil {
			log.Printf("[ERROR] save bars: %v", err)
		} else {
			log.Printf("[INFO] bars saved to %s", ff.Path(*symbol))
		}
	}

	res, err := backtest.Run(*symbol, bars, start, end, cfg.Backtest.Config)
	var insufficient *backtest.InsufficientDataError
	if errors.As(err, &insufficient) {
		log.Printf("[WARN] %v", err)
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("[FATAL] backtest: %v", err)
	}

	if *text {
		os.Stdout.WriteString(notifier.FormatBacktest(res))
		return
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		log.Fatalf("[FATAL] encode result: %v", err)
	}
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, s)
}
