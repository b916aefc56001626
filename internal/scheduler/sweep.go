package scheduler

import (
	"context"
	"errors"
	"log"
	"time"

	"SwingScanner/internal/backtest"
	"SwingScanner/internal/notifier"
)

// RunBacktestSweep backtests every configured symbol over the lookback
// window and reports the results. Symbols without enough history are
// skipped.
func (s *Scheduler) RunBacktestSweep(ctx context.Context) ([]*backtest.Result, error) {
	cfg := s.Cfg.Backtest
	var results []*backtest.Result

	for _, sym := range cfg.Symbols {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		bars, err := s.Fetcher.FetchDailyBars(ctx, sym, cfg.LookbackDays+backtest.WarmupBars)
		if err != nil {
			log.Printf("[WARN] backtest %s: fetch failed: %v", sym, err)
			continue
		}
		var start time.Time
		if len(bars) > cfg.LookbackDays {
			start = bars[len(bars)-cfg.LookbackDays].Time
		}

		res, err := backtest.Run(sym, bars, start, time.Time{}, cfg.Config)
		var insufficient *backtest.InsufficientDataError
		if errors.As(err, &insufficient) {
			log.Printf("[WARN] backtest %s skipped: %v", sym, err)
			continue
		}
		if err != nil {
			log.Printf("[ERROR] backtest %s: %v", sym, err)
			continue
		}
		if err := s.Recorder.RecordBacktest(res); err != nil {
			log.Printf("[ERROR] record backtest %s: %v", sym, err)
		}
		results = append(results, res)
	}

	s.trySend(notifier.FormatBacktestSweep(results, s.now()))
	return results, nil
}
