package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"

	"SwingScanner/internal/collector"
	"SwingScanner/internal/features"
	"SwingScanner/internal/model"
	"SwingScanner/internal/notifier"
	"SwingScanner/internal/plan"
	"SwingScanner/internal/ranker"
	"SwingScanner/internal/recorder"
	"SwingScanner/internal/scoring"
)

// summaryLimit caps the candidates listed in the scan message.
const summaryLimit = 15

// Signal is a candidate whose score passed the threshold.
type Signal struct {
	Symbol  string
	Score   int
	Reasons []string
	Plan    plan.Plan
	Alerted bool
}

// ScanReport is the outcome of one scan.
type ScanReport struct {
	RunID   int64
	Regime  features.Regime
	Result  *ranker.ScanResult
	Signals []Signal
}

// Alerted counts the signals that were sent.
func (r *ScanReport) Alerted() int {
	n := 0
	for _, sig := range r.Signals {
		if sig.Alerted {
			n++
		}
	}
	return n
}

// RunScan fetches the universe, ranks it, scores every candidate against
// the market regime and alerts on the ones that pass.
func (s *Scheduler) RunScan(ctx context.Context) (*ScanReport, error) {
	cfg := s.Cfg
	if len(cfg.DataSource.Universe) == 0 {
		return nil, errors.New("empty universe")
	}
	days := cfg.Scanner.LookbackDays

	universe, err := collector.LoadUniverse(ctx, s.Fetcher, cfg.DataSource.Universe, days, cfg.DataSource.Workers)
	if err != nil {
		return nil, err
	}
	proxy, err := s.Fetcher.FetchDailyBars(ctx, cfg.DataSource.MarketSymbol, days)
	if err != nil {
		log.Printf("[WARN] market proxy %s unavailable: %v", cfg.DataSource.MarketSymbol, err)
		proxy = nil
	}
	regime := features.MarketRegime(model.Closes(model.Sanitize(proxy)))
	log.Printf("[INFO] market regime %s (%s)", regime.Risk, regime.Reason)

	res, err := ranker.Rank(ctx, universe, proxy, cfg.RankerConfig())
	if err != nil {
		return nil, fmt.Errorf("rank: %w", err)
	}

	report := &ScanReport{Regime: regime, Result: res}
	report.RunID, err = s.Recorder.RecordScan(&recorder.ScanRun{
		StartedAt:    s.now(),
		Mode:         cfg.Scanner.Mode,
		MarketRisk:   regime.Risk,
		UniverseSize: res.UniverseSize,
		Rejected:     res.Rejected,
		Candidates:   res.Candidates,
	})
	if err != nil {
		log.Printf("[ERROR] record scan: %v", err)
	}
	s.trySend(notifier.FormatScanSummary(res, regime.Risk, summaryLimit, s.now()))

	bars := make(map[string][]model.OHLCV, len(universe))
	for _, sb := range universe {
		bars[sb.Symbol] = sb.Bars
	}
	side := model.ParseSide(cfg.Scoring.Side)

	for _, c := range res.Candidates {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}
		f := features.Compute(bars[c.Symbol], nil)
		f.MarketRisk = regime.Risk
		scored := scoring.Score(f, side)
		if !scored.Passes(cfg.Scoring.MinScore) {
			continue
		}

		p := plan.Compute(c, side, 0, cfg.Plan)
		p.Setup, p.SetupNotes = features.ClassifySetup(f, side)
		sig := Signal{Symbol: c.Symbol, Score: scored.Score, Reasons: scored.ReasonStrings(), Plan: p}

		if s.Alerts.ShouldAlert(c.Symbol, side) {
			if err := s.Notifier.SendWithRetry(ctx, notifier.FormatSignal(p, sig.Score, sig.Reasons), 3); err != nil {
				log.Printf("[ERROR] send signal %s: %v", c.Symbol, err)
			} else {
				s.Alerts.MarkAlerted(c.Symbol, side)
				sig.Alerted = true
			}
		}

		if err := s.Recorder.RecordSignal(report.RunID, &recorder.SignalEvent{
			Symbol:  sig.Symbol,
			Side:    side,
			Score:   sig.Score,
			Reasons: sig.Reasons,
			Plan:    p,
			Alerted: sig.Alerted,
		}); err != nil {
			log.Printf("[ERROR] record signal %s: %v", c.Symbol, err)
		}
		report.Signals = append(report.Signals, sig)
	}
	return report, nil
}
