package ranker

import (
	"fmt"
	"math"
	"strings"

	"SwingScanner/internal/indicator"
	"SwingScanner/internal/model"
)

const (
	liquidityWindow  = 20
	nearHighRatio    = 0.98
	breakoutVolRatio = 1.2
	pullbackEMA20Pct = 0.03
	pullbackEMA50Pct = 0.08
	pullbackRSILow   = 38.0
	pullbackRSIHigh  = 70.0
	gapPenaltyPct    = 0.12
	rsWindow         = 20
)

// Evaluate scores one symbol. A nil candidate comes with the reject reason.
func Evaluate(sym SymbolBars, proxyCloses []float64, cfg Config) (*model.Candidate, string) {
	bars := model.Sanitize(sym.Bars)
	minBars := max(cfg.MinBars, liquidityWindow+1)
	if len(bars) < minBars {
		return nil, RejectBars
	}
	closes := model.Closes(bars)
	highs := model.Highs(bars)
	lows := model.Lows(bars)
	vols := model.Volumes(bars)
	n := len(closes)
	last := closes[n-1]

	if last < cfg.MinPrice || (cfg.MaxPrice > 0 && last > cfg.MaxPrice) {
		return nil, RejectPrice
	}
	adv := 0.0
	for i := n - liquidityWindow; i < n; i++ {
		adv += closes[i] * vols[i]
	}
	adv /= liquidityWindow
	if adv < cfg.MinAvgDollarVol {
		return nil, RejectLiquidity
	}

	e20, err20 := indicator.EMA(closes, 20)
	e50, err50 := indicator.EMA(closes, 50)
	e200, err200 := indicator.EMA(closes, 200)
	rsi, errRSI := indicator.RSI(closes, 14)
	atr, errATR := indicator.ATR(highs, lows, closes, 14)
	if err20 != nil || err50 != nil || err200 != nil || errRSI != nil || errATR != nil {
		return nil, RejectIndicators
	}

	hi20, _ := indicator.HighestHigh(highs, 20)
	volAvg, _ := indicator.SMA(vols, 20)
	volRatio := 0.0
	if volAvg > 0 {
		volRatio = vols[n-1] / volAvg
	}

	uptrend := e20 > e50 && last > e200
	nearHigh := last >= nearHighRatio*hi20
	breakout := nearHigh && volRatio >= breakoutVolRatio && uptrend
	pullback := uptrend &&
		math.Abs(last-e20)/e20 <= pullbackEMA20Pct &&
		math.Abs(last-e50)/e50 <= pullbackEMA50Pct &&
		rsi >= pullbackRSILow && rsi <= pullbackRSIHigh

	if !modeAccepts(cfg.Mode, breakout, pullback) {
		return nil, RejectMode
	}

	var score float64
	var notes []string

	switch {
	case last > e20 && e20 > e50 && e50 > e200:
		score += 3
		notes = append(notes, "Full EMA stack")
	case e20 > e50 && last > e200:
		score += 2
		notes = append(notes, "EMA20>EMA50, above EMA200")
	case e20 > e50:
		score += 1
		notes = append(notes, "EMA20>EMA50")
	}

	if rsi >= 45 && rsi <= 70 {
		score += 2
		notes = append(notes, fmt.Sprintf("RSI %.0f", rsi))
	} else {
		score += 0.5
		if rsi > 70 {
			notes = append(notes, "RSI hot")
		} else {
			notes = append(notes, "RSI low")
		}
	}

	atrPct := atr / last
	switch {
	case atrPct >= 0.012 && atrPct <= 0.06:
		score += 2
		notes = append(notes, fmt.Sprintf("ATR%% %.1f", atrPct*100))
	case atrPct < 0.012:
		score += 0.5
		notes = append(notes, "ATR low")
	default:
		score += 0.8
		notes = append(notes, "ATR high")
	}

	switch {
	case volRatio >= 2:
		score += 2
	case volRatio >= 1.5:
		score += 1.5
	case volRatio >= 1.2:
		score += 0.8
	}
	if volRatio >= 1.2 {
		notes = append(notes, fmt.Sprintf("Vol x%.1f", volRatio))
	}

	if m, err := indicator.MACD(closes, 12, 26, 9); err == nil && m.Hist > 0 {
		score += 1
		notes = append(notes, "MACD hist>0")
	}

	if rs, ok := relativeStrength(closes, proxyCloses); ok {
		switch {
		case rs >= 0.05:
			score += 1.5
		case rs > 0:
			score += 1
		}
		notes = append(notes, fmt.Sprintf("RS20 %+.1f%%", rs*100))
	}

	setup := ""
	switch {
	case breakout:
		score += 2
		setup = ModeBreakout
		notes = append(notes, "Breakout")
	case pullback:
		score += 1.5
		setup = ModePullback
		notes = append(notes, "Pullback")
	}

	if gap := math.Abs(closes[n-1]-closes[n-2]) / closes[n-2]; gap > gapPenaltyPct {
		score -= 1.5
		notes = append(notes, "Big gap")
	}

	trend := "down"
	if e20 > e50 {
		trend = "up"
	}
	e100, err100 := indicator.EMA(closes, 100)

	return &model.Candidate{
		Symbol:       sym.Symbol,
		Score:        score,
		LastClose:    last,
		AvgDollarVol: adv,
		ATR:          atr,
		RSI14:        rsi,
		Trend:        trend,
		Setup:        setup,
		Notes:        strings.Join(notes, ", "),
		DailyOK:      e20 > e50,
		WeeklyOK:     e50 > e200 && last > e200,
		MonthlyOK:    err100 == nil && e100 > e200 && last > e200,
	}, ""
}

func modeAccepts(mode string, breakout, pullback bool) bool {
	switch mode {
	case ModeBreakout:
		return breakout
	case ModePullback:
		return pullback
	case ModeMixed:
		return breakout || pullback
	}
	return true
}

// relativeStrength is the symbol's 20-bar return minus the proxy's.
func relativeStrength(closes, proxy []float64) (float64, bool) {
	if len(closes) <= rsWindow || len(proxy) <= rsWindow {
		return 0, false
	}
	base := closes[len(closes)-1-rsWindow]
	pbase := proxy[len(proxy)-1-rsWindow]
	if base <= 0 || pbase <= 0 {
		return 0, false
	}
	ret := closes[len(closes)-1]/base - 1
	pret := proxy[len(proxy)-1]/pbase - 1
	return ret - pret, true
}
