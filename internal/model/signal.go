package model

import "strings"

// Side is the direction of a trade or signal.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// ParseSide maps free-form input to a Side. Anything that is not a sell
// alias is treated as buy.
func ParseSide(s string) Side {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sell", "short":
		return SideSell
	default:
		return SideBuy
	}
}

// IsLong reports whether the side is buy.
func (s Side) IsLong() bool { return s != SideSell }

// Candidate is one ranking result of a scan.
type Candidate struct {
	Symbol       string  `json:"symbol"`
	Score        float64 `json:"score"`
	LastClose    float64 `json:"last_close"`
	AvgDollarVol float64 `json:"avg_dollar_vol"`
	ATR          float64 `json:"atr"`
	RSI14        float64 `json:"rsi14"`
	Trend        string  `json:"trend"`
	Setup        string  `json:"setup"`
	Notes        string  `json:"notes"`
	DailyOK      bool    `json:"daily_ok"`
	WeeklyOK     bool    `json:"weekly_ok"`
	MonthlyOK    bool    `json:"monthly_ok"`
}

// Outcome tags how a simulated trade was closed.
type Outcome string

const (
	OutcomeTakeProfit Outcome = "tp"
	OutcomeStopLoss   Outcome = "sl"
	OutcomeTime       Outcome = "time"
	OutcomeExit       Outcome = "exit"
)

// Trade is a closed simulated position.
type Trade struct {
	Symbol     string   `json:"symbol"`
	EntryTime  string   `json:"entry_ts"`
	ExitTime   string   `json:"exit_ts"`
	Entry      float64  `json:"entry"`
	Exit       float64  `json:"exit"`
	Qty        int      `json:"qty"`
	Side       Side     `json:"side"`
	PnL        float64  `json:"pnl"`
	RMultiple  float64  `json:"r_mult"`
	Outcome    Outcome  `json:"outcome"`
	TP1Hit     bool     `json:"tp1_hit"`
	TP1Price   *float64 `json:"tp1_price,omitempty"`
	TP2Price   float64  `json:"tp2_price"`
	TrailUsed  bool     `json:"trail_used"`
	PartialPct float64  `json:"partial_pct"`
}
