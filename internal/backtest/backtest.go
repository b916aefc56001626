// Package backtest replays daily bars for one symbol through a long-only
// swing strategy with partial take-profit, break-even and trailing stops,
// a holding limit and a re-entry cooldown.
package backtest

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"SwingScanner/internal/indicator"
	"SwingScanner/internal/model"
)

const (
	// MinBars is the shortest history Run accepts.
	MinBars = 260
	// MinRangeBars is the fewest bars required inside [start, end].
	MinRangeBars = 40
	// WarmupBars is the first index that may trade.
	WarmupBars = 210
)

// Insufficient-data reasons.
const (
	ReasonEmptySymbol   = "empty_symbol"
	ReasonNotEnough     = "not_enough_bars"
	ReasonRangeTooSmall = "range_too_small"
)

// InsufficientDataError means the run produced no result. It is not a
// zero-trade success.
type InsufficientDataError struct {
	Reason string
	Bars   int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient data: %s (%d bars)", e.Reason, e.Bars)
}

// Config holds the strategy parameters. It is echoed in the result.
type Config struct {
	Capital            float64 `json:"capital" yaml:"capital"`
	RiskPerTradePct    float64 `json:"risk_per_trade_pct" yaml:"risk_per_trade_pct"`
	SLATRMult          float64 `json:"sl_atr_mult" yaml:"sl_atr_mult"`
	TP1RMult           float64 `json:"tp1_r_mult" yaml:"tp1_r_mult"`
	TP2RMult           float64 `json:"tp2_r_mult" yaml:"tp2_r_mult"`
	PartialPct         float64 `json:"partial_pct" yaml:"partial_pct"`
	TrailATRMult       float64 `json:"trail_atr_mult" yaml:"trail_atr_mult"`
	TrailAfterTP1      bool    `json:"trail_after_tp1" yaml:"trail_after_tp1"`
	MoveSLToBEAfterTP1 bool    `json:"move_sl_to_be_after_tp1" yaml:"move_sl_to_be_after_tp1"`
	MaxHoldingDays     int     `json:"max_holding_days" yaml:"max_holding_days"`
	CooldownDays       int     `json:"cooldown_days" yaml:"cooldown_days"`
}

// DefaultConfig returns the standard daily swing parameters.
func DefaultConfig() Config {
	return Config{
		Capital:            10000,
		RiskPerTradePct:    1,
		SLATRMult:          1.5,
		TP1RMult:           1.0,
		TP2RMult:           1.8,
		PartialPct:         0.5,
		TrailATRMult:       1.2,
		TrailAfterTP1:      true,
		MoveSLToBEAfterTP1: true,
		MaxHoldingDays:     12,
		CooldownDays:       2,
	}
}

// Stats aggregates the closed trades of a run.
type Stats struct {
	Trades      int     `json:"trades"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	WinRate     float64 `json:"winrate"`
	AvgR        float64 `json:"avg_r"`
	MaxDrawdown float64 `json:"max_drawdown"`
}

// Result is the summary of one backtest run.
type Result struct {
	Symbol       string        `json:"symbol"`
	Start        string        `json:"start"`
	End          string        `json:"end"`
	CapitalStart float64       `json:"capital_start"`
	CapitalEnd   float64       `json:"capital_end"`
	NetPnL       float64       `json:"net_pnl"`
	Trades       []model.Trade `json:"trades"`
	Stats        Stats         `json:"stats"`
	Params       Config        `json:"params"`
}

// snapshot holds the indicators needed at one bar.
type snapshot struct {
	ema20, ema50, ema200 float64
	rsi, atr, hist       float64
}

func indicatorsAt(closes, highs, lows []float64) (snapshot, bool) {
	var s snapshot
	var err error
	if s.ema20, err = indicator.EMA(closes, 20); err != nil {
		return s, false
	}
	if s.ema50, err = indicator.EMA(closes, 50); err != nil {
		return s, false
	}
	if s.ema200, err = indicator.EMA(closes, 200); err != nil {
		return s, false
	}
	if s.rsi, err = indicator.RSI(closes, 14); err != nil {
		return s, false
	}
	if s.atr, err = indicator.ATR(highs, lows, closes, 14); err != nil {
		return s, false
	}
	m, err := indicator.MACD(closes, 12, 26, 9)
	if err != nil {
		return s, false
	}
	s.hist = m.Hist
	return s, true
}

func (s snapshot) entrySignal(close float64) bool {
	return s.ema20 > s.ema50 && close > s.ema200 && s.rsi >= 50 && s.rsi <= 70 && s.hist > 0
}

// Run simulates the strategy over bars whose time lies in [start, end]. Bars
// before start serve as indicator warm-up. A zero start or end leaves that
// side unbounded.
func Run(symbol string, bars []model.OHLCV, start, end time.Time, cfg Config) (*Result, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, &InsufficientDataError{Reason: ReasonEmptySymbol}
	}
	bars = model.Sanitize(bars)
	if len(bars) < MinBars {
		return nil, &InsufficientDataError{Reason: ReasonNotEnough, Bars: len(bars)}
	}

	var idxs []int
	for i, b := range bars {
		if (start.IsZero() || !b.Time.Before(start)) && (end.IsZero() || !b.Time.After(end)) {
			idxs = append(idxs, i)
		}
	}
	if len(idxs) < MinRangeBars {
		return nil, &InsufficientDataError{Reason: ReasonRangeTooSmall, Bars: len(idxs)}
	}

	closes := model.Closes(bars)
	highs := model.Highs(bars)
	lows := model.Lows(bars)

	acct := newAccount(cfg.Capital)
	var trades []model.Trade
	var pos *Position
	cooldownUntil := -1

	for _, i := range idxs {
		if i < WarmupBars || i <= cooldownUntil {
			continue
		}
		snap, ok := indicatorsAt(closes[:i+1], highs[:i+1], lows[:i+1])
		if !ok {
			continue
		}
		closePx := closes[i]
		atr := snap.atr
		if atr <= 0 {
			atr = max(closePx*0.01, 0.5)
		}

		if pos != nil {
			tr := pos.Step(Day{Index: i, High: highs[i], Low: lows[i], Close: closePx, ATR: atr}, cfg)
			next := tr.Position
			if tr.Partial != nil {
				acct.realize((tr.Partial.Price - next.Entry) * float64(tr.Partial.Qty))
			}
			if tr.Exit != nil {
				pnl := (tr.Exit.Price - next.Entry) * float64(tr.Exit.Qty)
				acct.realize(pnl)
				trades = append(trades, closeTrade(symbol, bars, next, i, tr.Exit, pnl, cfg))
				pos = nil
				cooldownUntil = i + max(0, cfg.CooldownDays)
				continue
			}
			pos = &next
			continue
		}

		if !snap.entrySignal(closePx) {
			continue
		}
		if p, ok := Open(i, closePx, atr, acct.equity, cfg); ok {
			pos = &p
		}
	}

	return summarize(symbol, bars, idxs, trades, acct, cfg), nil
}

func closeTrade(symbol string, bars []model.OHLCV, p Position, exitIndex int, exit *Fill, pnl float64, cfg Config) model.Trade {
	t := model.Trade{
		Symbol:     symbol,
		EntryTime:  bars[p.EntryIndex].Time.Format(time.RFC3339),
		ExitTime:   bars[exitIndex].Time.Format(time.RFC3339),
		Entry:      round(p.Entry, 4),
		Exit:       round(exit.Price, 4),
		Qty:        p.QtyTotal,
		Side:       model.SideBuy,
		PnL:        round(pnl+p.PartialPnL(), 2),
		RMultiple:  round(p.RMultiple(exit.Price), 3),
		Outcome:    exit.Outcome,
		TP1Hit:     p.PartialHit,
		TP2Price:   round(p.Target, 4),
		TrailUsed:  p.TrailUsed,
		PartialPct: cfg.PartialPct,
	}
	if p.PartialTarget != nil {
		tp1 := round(*p.PartialTarget, 4)
		t.TP1Price = &tp1
	}
	return t
}

func summarize(symbol string, bars []model.OHLCV, idxs []int, trades []model.Trade, acct *account, cfg Config) *Result {
	net := decimal.Zero
	sumR := decimal.Zero
	var st Stats
	for _, t := range trades {
		net = net.Add(decimal.NewFromFloat(t.PnL))
		sumR = sumR.Add(decimal.NewFromFloat(t.RMultiple))
		if t.PnL > 0 {
			st.Wins++
		} else {
			st.Losses++
		}
	}
	st.Trades = len(trades)
	if st.Trades > 0 {
		n := decimal.NewFromInt(int64(st.Trades))
		st.WinRate = decimal.NewFromInt(int64(st.Wins)).Div(n).Round(3).InexactFloat64()
		st.AvgR = sumR.Div(n).Round(3).InexactFloat64()
	}
	st.MaxDrawdown = round(acct.maxDD, 4)

	if trades == nil {
		trades = []model.Trade{}
	}
	return &Result{
		Symbol:       symbol,
		Start:        bars[idxs[0]].Time.Format(time.RFC3339),
		End:          bars[idxs[len(idxs)-1]].Time.Format(time.RFC3339),
		CapitalStart: cfg.Capital,
		CapitalEnd:   round(acct.equity, 2),
		NetPnL:       net.Round(2).InexactFloat64(),
		Trades:       trades,
		Stats:        st,
		Params:       cfg,
	}
}

// account tracks equity and its drawdown from the running peak.
type account struct {
	equity float64
	peak   float64
	maxDD  float64
}

func newAccount(capital float64) *account {
	return &account{equity: capital, peak: capital}
}

func (a *account) realize(pnl float64) {
	a.equity += pnl
	if a.equity > a.peak {
		a.peak = a.equity
	}
	if a.peak > 0 {
		if dd := (a.peak - a.equity) / a.peak; dd > a.maxDD {
			a.maxDD = dd
		}
	}
}

func round(x float64, places int32) float64 {
	return decimal.NewFromFloat(x).Round(places).InexactFloat64()
}
