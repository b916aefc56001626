package features

import (
	"fmt"
	"math"

	"SwingScanner/internal/indicator"
	"SwingScanner/internal/model"
)

// Setup names returned by ClassifySetup.
const (
	SetupGap      = "GAP"
	SetupBreakout = "BREAKOUT"
	SetupPullback = "PULLBACK"
	SetupMixed    = "MIXED"
)

// ClassifySetup names the primary daily setup of a feature set. Checks run in
// order: a gap of at least 3% in the trade direction with a volume spike, a
// breakout near the 20-day high with a volume spike, a pullback to within 2%
// of EMA20 inside a full uptrend with RSI at most 65, and otherwise MIXED.
func ClassifySetup(f Features, side model.Side) (string, []string) {
	var notes []string
	price, _ := Value(f.Price)

	if gp, ok := Value(f.GapPct); ok && math.Abs(gp) >= 0.03 && Flag(f.VolSpike) {
		if (side.IsLong() && gp > 0) || (!side.IsLong() && gp < 0) {
			notes = append(notes, fmt.Sprintf("Gap %+.1f%% on high volume", gp*100))
			return SetupGap, notes
		}
	}

	if Flag(f.NearHigh20) && Flag(f.VolSpike) {
		notes = append(notes, "Near 20D high with volume spike")
		return SetupBreakout, notes
	}

	if f.EMA20 != nil && f.EMA50 != nil && f.EMA200 != nil &&
		price > *f.EMA20 && *f.EMA20 > *f.EMA50 && *f.EMA50 > *f.EMA200 {
		dist := math.Abs(price-*f.EMA20) / math.Max(price, 1e-6)
		if dist <= 0.02 && (f.RSI14 == nil || *f.RSI14 <= 65) {
			notes = append(notes, "Pullback to EMA20 in uptrend")
			return SetupPullback, notes
		}
	}

	if f.ATRPct != nil {
		notes = append(notes, fmt.Sprintf("ATR%%~%.1f%%", *f.ATRPct*100))
	}
	if f.ADX14 != nil {
		notes = append(notes, fmt.Sprintf("ADX~%.1f", *f.ADX14))
	}
	return SetupMixed, notes
}

// Market risk states.
const (
	RiskOn      = "ON"
	RiskOff     = "OFF"
	RiskUnknown = "UNK"
)

// Regime describes the broad market state derived from an index proxy.
type Regime struct {
	Risk   string   `json:"risk"`
	Reason string   `json:"reason"`
	Last   *float64 `json:"last,omitempty"`
	EMA20  *float64 `json:"ema20,omitempty"`
	EMA50  *float64 `json:"ema50,omitempty"`
}

const minRegimeBars = 60

// MarketRegime is ON when the proxy closes at or above EMA50 with EMA20 at or
// above EMA50, OFF otherwise, and UNK with fewer than 60 closes.
func MarketRegime(closes []float64) Regime {
	if len(closes) < minRegimeBars {
		return Regime{Risk: RiskUnknown, Reason: "not enough index data"}
	}
	e20, _ := indicator.EMA(closes, 20)
	e50, _ := indicator.EMA(closes, 50)
	last := closes[len(closes)-1]
	r := Regime{Last: Float(last), EMA20: Float(e20), EMA50: Float(e50)}
	if last >= e50 && e20 >= e50 {
		r.Risk, r.Reason = RiskOn, "index above EMA50 and EMA20>=EMA50"
	} else {
		r.Risk, r.Reason = RiskOff, "index below EMA50 or EMA20<EMA50"
	}
	return r
}
