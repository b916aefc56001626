// Package plan turns a ranked candidate into a manual ATR-based trade plan
// with a partial target, trailing note and risk-graded position size.
package plan

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"SwingScanner/internal/model"
)

// Settings controls plan construction.
type Settings struct {
	SLATRMult     float64 `yaml:"sl_atr_mult"`
	TPRMult       float64 `yaml:"tp_r_mult"`
	TP1RMult      float64 `yaml:"tp1_r_mult"`
	PartialPct    float64 `yaml:"partial_pct"`
	TrailATRMult  float64 `yaml:"trail_atr_mult"`
	TrailAfterTP1 bool    `yaml:"trail_after_tp1"`
	MoveSLToBE    bool    `yaml:"move_sl_to_be_after_tp1"`
	Capital       float64 `yaml:"capital"`
	RiskAPlusPct  float64 `yaml:"risk_aplus_pct"`
	RiskAPct      float64 `yaml:"risk_a_pct"`
	RiskBPct      float64 `yaml:"risk_b_pct"`
	RiskMinPct    float64 `yaml:"risk_min_pct"`
	RiskMaxPct    float64 `yaml:"risk_max_pct"`
	PositionPct   float64 `yaml:"position_pct"`
}

// DefaultSettings suits a small cash account.
func DefaultSettings() Settings {
	return Settings{
		SLATRMult:     2,
		TPRMult:       2,
		TP1RMult:      1,
		PartialPct:    0.5,
		TrailATRMult:  1.2,
		TrailAfterTP1: true,
		MoveSLToBE:    true,
		Capital:       800,
		RiskAPlusPct:  1.5,
		RiskAPct:      1.0,
		RiskBPct:      0.5,
		RiskMinPct:    0.5,
		RiskMaxPct:    2,
		PositionPct:   0.2,
	}
}

// Plan is a manual trade plan. Prices are rounded to cents and the
// quantity to three decimals for fractional shares.
type Plan struct {
	Symbol       string     `json:"symbol"`
	Side         model.Side `json:"side"`
	Setup        string     `json:"setup,omitempty"`
	SetupNotes   []string   `json:"setup_notes,omitempty"`
	Entry        float64    `json:"entry"`
	SL           float64    `json:"sl"`
	TP           float64    `json:"tp"`
	TP1          *float64   `json:"tp1,omitempty"`
	PartialPct   float64    `json:"partial_pct"`
	TrailNote    string     `json:"trail_note,omitempty"`
	Qty          float64    `json:"qty"`
	ATR          float64    `json:"atr"`
	RiskPct      float64    `json:"risk_pct"`
	RiskAmount   float64    `json:"risk_amount"`
	RiskPerShare float64    `json:"risk_per_share"`
	RR           float64    `json:"rr"`
	Grade        string     `json:"grade"`
}

// Grade maps a ranker score to A+, A or B.
func Grade(score float64) string {
	switch {
	case score >= 8.5:
		return "A+"
	case score >= 7.0:
		return "A"
	}
	return "B"
}

// Compute builds the plan for c. A non-positive entry uses the candidate's
// last close; a non-positive ATR falls back to max(1% of entry, 0.5).
func Compute(c model.Candidate, side model.Side, entry float64, s Settings) Plan {
	if entry <= 0 {
		entry = c.LastClose
	}
	entry = math.Max(entry, 0.01)
	atr := c.ATR
	if atr <= 0 {
		atr = math.Max(entry*0.01, 0.5)
	}
	long := side.IsLong()

	var sl, rps, tp float64
	if long {
		sl = math.Max(0.01, entry-atr*s.SLATRMult)
		rps = math.Max(entry-sl, 0.01)
		tp = entry + rps*s.TPRMult
	} else {
		sl = math.Max(0.01, entry+atr*s.SLATRMult)
		rps = math.Max(sl-entry, 0.01)
		tp = math.Max(0.01, entry-rps*s.TPRMult)
	}

	p := Plan{
		Symbol:       c.Symbol,
		Side:         side,
		Entry:        round(entry, 2),
		SL:           round(sl, 2),
		TP:           round(tp, 2),
		ATR:          round(atr, 2),
		RiskPerShare: round(rps, 2),
		Grade:        Grade(c.Score),
	}

	pp := math.Max(0, math.Min(0.95, s.PartialPct))
	if s.TP1RMult > 0 && pp > 0 {
		tp1 := entry + rps*s.TP1RMult
		if !long {
			tp1 = math.Max(0.01, entry-rps*s.TP1RMult)
		}
		tp1 = round(tp1, 2)
		p.TP1 = &tp1
		p.PartialPct = pp
	}

	if s.TrailATRMult > 0 {
		if s.TrailAfterTP1 {
			be := "keep SL"
			if s.MoveSLToBE {
				be = "move SL to break-even"
			}
			p.TrailNote = fmt.Sprintf("after TP1 trail ~ATRx%g (%s)", s.TrailATRMult, be)
		} else {
			p.TrailNote = fmt.Sprintf("trail from entry ~ATRx%g", s.TrailATRMult)
		}
	}

	var riskPct float64
	switch p.Grade {
	case "A+":
		riskPct = s.RiskAPlusPct
	case "A":
		riskPct = s.RiskAPct
	default:
		riskPct = s.RiskBPct
	}
	riskPct = math.Max(s.RiskMinPct, math.Min(s.RiskMaxPct, riskPct))
	riskAmount := math.Max(0.10, s.Capital*riskPct/100)

	qty := riskAmount / rps
	if maxNotional := math.Max(0, s.Capital*s.PositionPct); maxNotional > 0 {
		qty = math.Min(qty, maxNotional/entry)
	}
	p.Qty = round(math.Max(0.01, qty), 3)
	p.RiskPct = round(riskPct, 2)
	p.RiskAmount = round(riskAmount, 2)
	p.RR = round(math.Abs(tp-entry)/math.Max(math.Abs(entry-sl), 0.01), 2)
	return p
}

func round(x float64, places int32) float64 {
	return decimal.NewFromFloat(x).Round(places).InexactFloat64()
}
