package features

import (
	"fmt"
	"strings"

	"SwingScanner/internal/indicator"
	"SwingScanner/internal/model"
)

const (
	volSpikeRatio  = 1.5
	nearHighRatio  = 0.98
	obvSlopeWindow = 5
)

// Compute derives the canonical features from daily bars at their last point.
// When weekly is empty the weekly bars are aggregated from daily.
func Compute(daily, weekly []model.OHLCV) Features {
	daily = model.Sanitize(daily)
	if len(daily) == 0 {
		return Features{Error: "no_bars"}
	}
	closes := model.Closes(daily)
	highs := model.Highs(daily)
	lows := model.Lows(daily)
	vols := model.Volumes(daily)
	last := closes[len(closes)-1]

	f := Features{Price: Float(last)}
	f.EMA20 = opt(indicator.EMA(closes, 20))
	f.EMA50 = opt(indicator.EMA(closes, 50))
	f.EMA100 = opt(indicator.EMA(closes, 100))
	f.EMA200 = opt(indicator.EMA(closes, 200))
	f.SMA20 = opt(indicator.SMA(closes, 20))
	f.SMA50 = opt(indicator.SMA(closes, 50))
	f.SMA100 = opt(indicator.SMA(closes, 100))
	f.SMA200 = opt(indicator.SMA(closes, 200))
	f.RSI14 = opt(indicator.RSI(closes, 14))
	f.ATR14 = opt(indicator.ATR(highs, lows, closes, 14))
	if f.ATR14 != nil {
		f.ATRPct = Float(*f.ATR14 / last)
	}
	if m, err := indicator.MACD(closes, 12, 26, 9); err == nil {
		f.MACDHist = Float(m.Hist)
	}
	if b, err := indicator.Bollinger(closes, 20, 2); err == nil {
		f.BBPctB = Float(b.PctB)
	}
	if a, err := indicator.ADX(highs, lows, closes, 14); err == nil {
		f.ADX14 = Float(a.ADX)
		f.DIPlus = Float(a.PlusDI)
		f.DIMinus = Float(a.MinusDI)
	}
	if s, err := indicator.Stochastic(highs, lows, closes, 14, 3); err == nil {
		f.StochK = Float(s.K)
		f.StochD = Float(s.D)
	}
	f.VWAP20 = opt(indicator.VWAP(highs, lows, closes, vols, 20))
	f.OBV = opt(indicator.OBV(closes, vols))
	f.OBVSlope = opt(indicator.OBVSlope(closes, vols, obvSlopeWindow))

	if avg, err := indicator.SMA(vols, 20); err == nil {
		f.VolSpike = Bool(avg > 0 && vols[len(vols)-1] >= volSpikeRatio*avg)
	}
	if hi, err := indicator.HighestHigh(highs, 20); err == nil {
		f.NearHigh20 = Bool(last >= nearHighRatio*hi)
	}
	if n := len(daily); n >= 2 && closes[n-2] > 0 {
		f.GapPct = Float(daily[n-1].Open/closes[n-2] - 1)
	}

	if len(weekly) == 0 {
		weekly = model.AggregateWeekly(daily)
	} else {
		weekly = model.Sanitize(weekly)
	}
	if len(weekly) > 0 {
		wc := model.Closes(weekly)
		f.WClose = Float(wc[len(wc)-1])
		f.WEMA20 = opt(indicator.EMA(wc, 20))
		f.WEMA50 = opt(indicator.EMA(wc, 50))
		f.WRSI14 = opt(indicator.RSI(wc, 14))
	}

	f.Notes = describe(f)
	return f
}

func opt(v float64, err error) *float64 {
	if err != nil {
		return nil
	}
	return &v
}

func describe(f Features) string {
	var notes []string
	price, _ := Value(f.Price)
	if f.EMA20 != nil && f.EMA50 != nil && *f.EMA20 > *f.EMA50 {
		notes = append(notes, "EMA20>EMA50")
	}
	if f.EMA200 != nil && price > *f.EMA200 {
		notes = append(notes, "Above EMA200")
	}
	if f.RSI14 != nil {
		notes = append(notes, fmt.Sprintf("RSI %.0f", *f.RSI14))
	}
	if f.ATRPct != nil {
		notes = append(notes, fmt.Sprintf("ATR%% %.1f", *f.ATRPct*100))
	}
	if Flag(f.NearHigh20) {
		notes = append(notes, "Near 20D high")
	}
	if Flag(f.VolSpike) {
		notes = append(notes, "Vol spike")
	}
	return strings.Join(notes, ", ")
}
