package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"SwingScanner/internal/alerts"
	"SwingScanner/internal/collector"
	"SwingScanner/internal/config"
	"SwingScanner/internal/notifier"
	"SwingScanner/internal/recorder"
)

// Scheduler manages all cron tasks and the jobs they run.
type Scheduler struct {
	Cron     *cron.Cron
	Cfg      *config.Config
	Fetcher  collector.Fetcher
	Alerts   *alerts.Manager
	Notifier notifier.Sender
	Recorder recorder.Recorder
	Ctx      context.Context

	now func() time.Time
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, cfg *config.Config, f collector.Fetcher, am *alerts.Manager, n notifier.Sender, rec recorder.Recorder) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Cfg:      cfg,
		Fetcher:  f,
		Alerts:   am,
		Notifier: n,
		Recorder: rec,
		Ctx:      ctx,
		now:      time.Now,
	}
}

// RegisterAll registers the scan and backtest sweep tasks.
func (s *Scheduler) RegisterAll(scanCron, backtestCron string) error {
	if _, err := s.Cron.AddFunc(scanCron, s.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	if backtestCron != "" {
		if _, err := s.Cron.AddFunc(backtestCron, s.backtestTask); err != nil {
			return fmt.Errorf("register backtest task: %w", err)
		}
	}
	// Daily alert-state housekeeping.
	if _, err := s.Cron.AddFunc("0 0 0 * * *", func() {
		if n := s.Alerts.Prune(); n > 0 {
			log.Printf("[INFO] pruned %d expired alert entries", n)
		}
	}); err != nil {
		return fmt.Errorf("register alert prune: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunScanNow executes the scan task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunScanNow() {
	s.scanTask()
}

func (s *Scheduler) scanTask() {
	log.Println("[INFO] running scan task")
	report, err := s.RunScan(s.Ctx)
	if err != nil {
		log.Printf("[ERROR] scan: %v", err)
		s.trySend(fmt.Sprintf("❌ Scan failed: %v", err))
		return
	}
	log.Printf("[INFO] scan done: %d candidates, %d signals, %d alerted",
		len(report.Result.Candidates), len(report.Signals), report.Alerted())
}

func (s *Scheduler) backtestTask() {
	log.Println("[INFO] running backtest sweep")
	results, err := s.RunBacktestSweep(s.Ctx)
	if err != nil {
		log.Printf("[ERROR] backtest sweep: %v", err)
		return
	}
	log.Printf("[INFO] backtest sweep done: %d symbols", len(results))
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
