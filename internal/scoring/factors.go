package scoring

import "SwingScanner/internal/features"

// cmp returns a > b for long and a < b for short.
func cmp(long bool, a, b float64) bool {
	if long {
		return a > b
	}
	return a < b
}

// pick selects the long or short label.
func pick(long bool, buy, sell string) string {
	if long {
		return buy
	}
	return sell
}

func scoreRegime(t *tally, f features.Features, w Weights) {
	t.penalize(f.MarketRisk == features.RiskOff, w.MarketRiskOff, "market risk OFF (index weak)")
}

// scoreWeekly confirms the daily idea against the weekly trend.
func scoreWeekly(t *tally, f features.Features, long bool, w Weights) {
	if f.WClose != nil && f.WEMA20 != nil && f.WEMA50 != nil {
		c, e20, e50 := *f.WClose, *f.WEMA20, *f.WEMA50
		t.bump(cmp(long, c, e20) && cmp(long, e20, e50), w.WeeklyAligned, pick(long, "weekly trend aligned", "weekly downtrend aligned"))
		t.penalize(cmp(!long, c, e50), w.WeeklyAgainst, pick(long, "weekly trend against (avoid long)", "weekly trend against (avoid short)"))
	}
	if f.WRSI14 != nil {
		if long {
			t.penalize(*f.WRSI14 < weeklyRSIWeakBuy, w.WeeklyRSIWeak, "weekly RSI weak")
		} else {
			t.penalize(*f.WRSI14 > weeklyRSIWeakSell, w.WeeklyRSIWeak, "weekly RSI strong")
		}
	}
}

// scoreTrend checks price against three averages and the averages against
// each other.
func scoreTrend(t *tally, f features.Features, long bool, w Weights) {
	op := pick(long, ">", "<")
	if f.Price != nil {
		p := *f.Price
		if f.EMA20 != nil {
			t.bump(cmp(long, p, *f.EMA20), w.PriceAboveEMA20, "price"+op+"EMA20")
		}
		if f.EMA50 != nil {
			t.bump(cmp(long, p, *f.EMA50), w.PriceAboveEMA50, "price"+op+"EMA50")
		}
		if f.EMA200 != nil {
			t.bump(cmp(long, p, *f.EMA200), w.PriceAboveEMA200, "price"+op+"EMA200")
		}
	}
	if f.EMA20 != nil && f.EMA50 != nil {
		t.bump(cmp(long, *f.EMA20, *f.EMA50), w.EMA20AboveEMA50, "EMA20"+op+"EMA50")
	}
	if f.EMA50 != nil && f.EMA200 != nil {
		t.bump(cmp(long, *f.EMA50, *f.EMA200), w.EMA50AboveEMA200, "EMA50"+op+"EMA200")
	}
}

func scoreMomentum(t *tally, f features.Features, long bool, w Weights) {
	if f.MACDHist != nil {
		t.bump(cmp(long, *f.MACDHist, 0), w.MACDConfirm, "MACD hist confirms")
	}
	if f.RSI14 == nil {
		return
	}
	r := *f.RSI14
	if long {
		t.bump(r >= rsiBuyZoneLow && r <= rsiBuyZoneHigh, w.RSIZone, "RSI in momentum zone")
		t.penalize(r > rsiBuyHot, w.RSIExtreme, "RSI overbought risk")
		t.penalize(r < rsiBuyCold, w.RSIAgainst, "RSI weak / falling knife risk")
	} else {
		t.bump(r >= rsiSellZoneLow && r <= rsiSellZoneHigh, w.RSIZone, "RSI in short zone")
		t.penalize(r < rsiSellCold, w.RSIExtreme, "RSI oversold risk")
		t.penalize(r > rsiSellHot, w.RSIAgainst, "RSI too strong for short")
	}
}

// scoreExtension penalizes late entries stretched away from EMA20. A breakout
// context widens the allowed distance.
func scoreExtension(t *tally, f features.Features, long bool, w Weights) {
	if f.EMA20 == nil || f.Price == nil || *f.Price == 0 || f.ATRPct == nil || *f.EMA20 == 0 {
		return
	}
	ext := *f.Price / *f.EMA20 - 1
	limit := extensionBase
	if features.Flag(f.NearHigh20) {
		limit += extensionBreakout
	}
	if features.Flag(f.VolSpike) {
		limit += extensionVolume
	}
	if long {
		t.penalize(ext > limit, w.Overextended, "overextended vs EMA20 (late entry)")
	} else {
		t.penalize(ext < -limit, w.Overextended, "overextended vs EMA20 (late entry)")
	}
}

func scoreTrendStrength(t *tally, f features.Features, long bool, w Weights) {
	if f.ADX14 == nil || f.DIPlus == nil || f.DIMinus == nil {
		return
	}
	a := *f.ADX14
	t.bump(a >= adxTrendMin && cmp(long, *f.DIPlus, *f.DIMinus), w.ADXTrend,
		pick(long, "ADX trend strength + DI+>DI-", "ADX trend strength + DI->DI+"))
	t.penalize(a < adxWeakMax, w.ADXWeak, "weak trend (ADX low)")
}

func scoreStochastic(t *tally, f features.Features, long bool, w Weights) {
	if f.StochK == nil || f.StochD == nil {
		return
	}
	k, d := *f.StochK, *f.StochD
	if long {
		t.bump(k > d && k >= stochMid, w.StochCross, "stoch bullish")
		t.penalize(k > stochHigh, w.StochExtreme, "stoch overbought")
	} else {
		t.bump(k < d && k <= stochMid, w.StochCross, "stoch bearish")
		t.penalize(k < stochLow, w.StochExtreme, "stoch oversold")
	}
}

// scoreChop penalizes a trendless tape unless a breakout flag is set.
func scoreChop(t *tally, f features.Features, w Weights) {
	if f.ADX14 == nil {
		return
	}
	t.penalize(*f.ADX14 < adxChopMax && !features.Flag(f.NearHigh20) && !features.Flag(f.VolSpike),
		w.Chop, "chop filter (ADX low, no breakout)")
}

func scoreParticipation(t *tally, f features.Features, long bool, w Weights) {
	t.bump(features.Flag(f.VolSpike), w.VolSpike, "volume spike")
	if f.OBVSlope != nil {
		t.bump(cmp(long, *f.OBVSlope, 0), w.OBVConfirm, "OBV confirms")
	}
	if f.VWAP20 != nil && f.Price != nil {
		t.bump(cmp(long, *f.Price, *f.VWAP20), w.VWAPSide, "price vs VWAP20")
	}
}

func scoreVolatility(t *tally, f features.Features, w Weights) {
	if f.ATRPct == nil {
		return
	}
	t.penalize(*f.ATRPct > atrPctHighMax, w.TooVolatile, "too volatile (ATR%)")
	t.penalize(*f.ATRPct < atrPctLowMin, w.TooQuiet, "too quiet (ATR%)")
}

func scoreBollinger(t *tally, f features.Features, long bool, w Weights) {
	if f.BBPctB == nil {
		return
	}
	near := features.Flag(f.NearHigh20)
	if long {
		t.penalize(*f.BBPctB > pctBUpper && !near, w.BBExtended, "extended near upper BB")
	} else {
		t.penalize(*f.BBPctB < pctBLower && !near, w.BBExtended, "extended near lower BB")
	}
}

func scoreBreakout(t *tally, f features.Features, w Weights) {
	t.bump(features.Flag(f.NearHigh20), w.Breakout, "near 20D high (breakout context)")
}
