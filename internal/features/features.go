// Package features builds the canonical feature mapping consumed by the
// scoring engine, either from raw bars or from loosely keyed maps produced
// elsewhere. A nil field means the value is unavailable.
package features

// Features is the canonical, flat feature schema at the latest bar.
type Features struct {
	Price *float64 `json:"price,omitempty"`

	EMA20  *float64 `json:"ema20,omitempty"`
	EMA50  *float64 `json:"ema50,omitempty"`
	EMA100 *float64 `json:"ema100,omitempty"`
	EMA200 *float64 `json:"ema200,omitempty"`
	SMA20  *float64 `json:"sma20,omitempty"`
	SMA50  *float64 `json:"sma50,omitempty"`
	SMA100 *float64 `json:"sma100,omitempty"`
	SMA200 *float64 `json:"sma200,omitempty"`

	RSI14    *float64 `json:"rsi14,omitempty"`
	ATR14    *float64 `json:"atr14,omitempty"`
	ATRPct   *float64 `json:"atr_pct,omitempty"` // fraction of price
	MACDHist *float64 `json:"macd_hist,omitempty"`
	BBPctB   *float64 `json:"bb_pct_b,omitempty"`
	ADX14    *float64 `json:"adx14,omitempty"`
	DIPlus   *float64 `json:"di_plus,omitempty"`
	DIMinus  *float64 `json:"di_minus,omitempty"`
	StochK   *float64 `json:"stoch_k,omitempty"`
	StochD   *float64 `json:"stoch_d,omitempty"`
	VWAP20   *float64 `json:"vwap20,omitempty"`
	OBV      *float64 `json:"obv,omitempty"`
	OBVSlope *float64 `json:"obv_slope,omitempty"`
	GapPct   *float64 `json:"gap_pct,omitempty"`

	VolSpike   *bool `json:"vol_spike,omitempty"`
	NearHigh20 *bool `json:"near_high20,omitempty"`

	WClose *float64 `json:"w_close,omitempty"`
	WEMA20 *float64 `json:"w_ema20,omitempty"`
	WEMA50 *float64 `json:"w_ema50,omitempty"`
	WRSI14 *float64 `json:"w_rsi14,omitempty"`

	MarketRisk string `json:"market_risk,omitempty"`
	Notes      string `json:"notes,omitempty"`
	Error      string `json:"error,omitempty"`

	// Extra keeps input keys that have no canonical field.
	Extra map[string]any `json:"-"`
}

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }

// Bool returns a pointer to v.
func Bool(v bool) *bool { return &v }

// Flag reads an optional boolean, treating absent as false.
func Flag(b *bool) bool { return b != nil && *b }

// Value reads an optional float, returning ok=false when absent.
func Value(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}
