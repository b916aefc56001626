package backtest

import (
	"math"

	"SwingScanner/internal/model"
)

const minRiskPerShare = 1e-6

// Position is an open long position. It is a value: Step returns the next
// state and never modifies the receiver.
type Position struct {
	EntryIndex int
	Entry      float64
	BaseStop   float64
	Target     float64
	// PartialTarget is nil when no partial exit is configured.
	PartialTarget *float64
	RiskPerShare  float64
	QtyTotal      int
	QtyLeft       int
	QtyPartial    int
	PartialHit    bool
	Trail         *float64
	TrailUsed     bool
}

// Day is the per-bar input the position reacts to.
type Day struct {
	Index int
	High  float64
	Low   float64
	Close float64
	ATR   float64
}

// Fill is an executed exit, partial or full.
type Fill struct {
	Qty     int
	Price   float64
	Outcome model.Outcome
}

// Transition is the result of advancing a position by one bar.
type Transition struct {
	Position Position
	Partial  *Fill
	Exit     *Fill
}

// Open sizes and opens a position at entry. It returns false when the risk
// budget cannot buy a single share.
func Open(index int, entry, atr, equity float64, cfg Config) (Position, bool) {
	base := math.Max(0.01, entry-atr*cfg.SLATRMult)
	rps := math.Max(entry-base, minRiskPerShare)

	p := Position{
		EntryIndex:   index,
		Entry:        entry,
		BaseStop:     base,
		Target:       entry + rps*cfg.TP2RMult,
		RiskPerShare: rps,
	}
	pp := clampPartial(cfg.PartialPct)
	if pp > 0 && cfg.TP1RMult > 0 {
		tp1 := entry + rps*cfg.TP1RMult
		p.PartialTarget = &tp1
	}

	riskAmount := math.Max(0, equity*cfg.RiskPerTradePct/100)
	qty := int(riskAmount / rps)
	if qty < 1 {
		return Position{}, false
	}
	p.QtyTotal, p.QtyLeft = qty, qty

	if p.PartialTarget != nil {
		p.QtyPartial = int(math.RoundToEven(float64(qty) * pp))
	}
	if qty > 1 {
		p.QtyPartial = min(p.QtyPartial, qty-1)
	} else {
		p.QtyPartial = 0
	}
	return p, true
}

func clampPartial(pp float64) float64 {
	return math.Max(0, math.Min(0.95, pp))
}

// EffectiveStop is the tighter of the base stop and the trailing stop.
func (p Position) EffectiveStop() float64 {
	if p.Trail != nil {
		return math.Max(p.BaseStop, *p.Trail)
	}
	return p.BaseStop
}

// Step advances the position through one bar. The trailing stop is
// tightened first from the bar's close, then exactly one of these applies in
// order: stop touched, partial target touched, final target touched, holding
// period exhausted. Daily bars cannot order intrabar events, so the stop is
// assumed to trade first.
func (p Position) Step(d Day, cfg Config) Transition {
	next := p
	if p.Trail != nil {
		t := *p.Trail
		next.Trail = &t
	}

	active := !cfg.TrailAfterTP1 || p.PartialHit
	if cfg.TrailATRMult > 0 && active {
		trail := d.Close - d.ATR*cfg.TrailATRMult
		if next.Trail != nil {
			trail = math.Max(*next.Trail, trail)
		}
		next.Trail = &trail
		next.TrailUsed = true
	}

	stop := next.EffectiveStop()
	switch {
	case d.Low <= stop:
		outcome := model.OutcomeStopLoss
		if stop != next.BaseStop {
			outcome = model.OutcomeExit
		}
		return Transition{Position: next, Exit: &Fill{Qty: next.QtyLeft, Price: stop, Outcome: outcome}}

	case next.PartialTarget != nil && !next.PartialHit && next.QtyPartial > 0 && d.High >= *next.PartialTarget:
		next.PartialHit = true
		next.QtyLeft -= next.QtyPartial
		if cfg.MoveSLToBEAfterTP1 {
			next.BaseStop = math.Max(next.BaseStop, next.Entry)
		}
		return Transition{Position: next, Partial: &Fill{Qty: next.QtyPartial, Price: *next.PartialTarget}}

	case next.QtyLeft > 0 && d.High >= next.Target:
		return Transition{Position: next, Exit: &Fill{Qty: next.QtyLeft, Price: next.Target, Outcome: model.OutcomeTakeProfit}}

	case d.Index-next.EntryIndex >= cfg.MaxHoldingDays:
		return Transition{Position: next, Exit: &Fill{Qty: next.QtyLeft, Price: d.Close, Outcome: model.OutcomeTime}}
	}
	return Transition{Position: next}
}

// PartialPnL is the profit already realized by the partial exit.
func (p Position) PartialPnL() float64 {
	if !p.PartialHit || p.PartialTarget == nil {
		return 0
	}
	return (*p.PartialTarget - p.Entry) * float64(p.QtyPartial)
}

// RMultiple blends the final exit's R with the partial exit's R weighted by
// the partial share of the position.
func (p Position) RMultiple(exit float64) float64 {
	r := (exit - p.Entry) / p.RiskPerShare
	if p.PartialHit && p.PartialTarget != nil && p.QtyPartial > 0 {
		r += (*p.PartialTarget - p.Entry) / p.RiskPerShare * float64(p.QtyPartial) / float64(max(p.QtyTotal, 1))
	}
	return r
}
