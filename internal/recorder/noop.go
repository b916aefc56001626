package recorder

import "SwingScanner/internal/backtest"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordScan(_ *ScanRun) (int64, error)        { return 0, nil }
func (n *NoopRecorder) RecordSignal(_ int64, _ *SignalEvent) error { return nil }
func (n *NoopRecorder) RecordBacktest(_ *backtest.Result) error    { return nil }
func (n *NoopRecorder) Close() error                               { return nil }
