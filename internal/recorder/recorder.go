package recorder

import (
	"time"

	"SwingScanner/internal/backtest"
	"SwingScanner/internal/model"
	"SwingScanner/internal/plan"
)

// ScanRun summarises one pass of the scanner.
type ScanRun struct {
	StartedAt    time.Time
	Mode         string
	MarketRisk   string
	UniverseSize int
	Rejected     map[string]int
	Candidates   []model.Candidate
}

// SignalEvent is a scored candidate that passed the alert threshold.
type SignalEvent struct {
	Symbol  string
	Side    model.Side
	Score   int
	Reasons []string
	Plan    plan.Plan
	Alerted bool // false when suppressed by the cooldown
}

// Recorder persists historical data for analysis.
type Recorder interface {
	// RecordScan stores the run and its candidates and returns the run id.
	RecordScan(run *ScanRun) (int64, error)
	RecordSignal(runID int64, evt *SignalEvent) error
	RecordBacktest(res *backtest.Result) error
	Close() error
}
