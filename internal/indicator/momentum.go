package indicator

import "math"

// MACDResult holds the last MACD line, signal and histogram values.
type MACDResult struct {
	Line   float64
	Signal float64
	Hist   float64
}

// MACD computes the difference of a fast and slow EMA. The signal line is an
// EMA over the MACD value at every prefix where both averages exist, so no
// value ever depends on a later bar.
func MACD(closes []float64, fast, slow, signal int) (MACDResult, error) {
	if fast <= 0 || slow <= 0 || signal <= 0 || len(closes) < slow+signal {
		return MACDResult{}, ErrInsufficientData
	}
	fastSeries := emaSeries(closes, fast)
	slowSeries := emaSeries(closes, slow)
	warmup := max(fast, slow)

	line := make([]float64, 0, len(closes)-warmup+1)
	for i := warmup - 1; i < len(closes); i++ {
		line = append(line, fastSeries[i]-slowSeries[i])
	}
	sig, err := EMA(line, signal)
	if err != nil {
		return MACDResult{}, err
	}
	last := line[len(line)-1]
	return MACDResult{Line: last, Signal: sig, Hist: last - sig}, nil
}

// StochResult holds %K and %D.
type StochResult struct {
	K float64
	D float64
}

// Stochastic computes %K from the trailing kPeriod high/low range and %D as
// the mean of the last dPeriod %K values, each recomputed on its own prefix.
// A flat range yields %K = 50.
func Stochastic(highs, lows, closes []float64, kPeriod, dPeriod int) (StochResult, error) {
	n := len(closes)
	if kPeriod <= 0 || dPeriod <= 0 || n < kPeriod || !sameLength(n, highs, lows) {
		return StochResult{}, ErrInsufficientData
	}
	kAt := func(end int) float64 {
		hh, _ := HighestHigh(highs[:end], kPeriod)
		ll, _ := LowestLow(lows[:end], kPeriod)
		if hh-ll == 0 {
			return 50.0
		}
		return 100.0 * (closes[end-1] - ll) / (hh - ll)
	}

	k := kAt(n)
	var ks []float64
	for end := n - kPeriod + 1; end <= n; end++ {
		if end < kPeriod {
			continue
		}
		ks = append(ks, kAt(end))
	}
	d := k
	if len(ks) >= dPeriod {
		d, _ = SMA(ks, dPeriod)
	}
	return StochResult{K: k, D: d}, nil
}

// ADXResult holds the average directional index and both directional
// indicators.
type ADXResult struct {
	ADX     float64
	PlusDI  float64
	MinusDI float64
}

// ADX computes directional movement with simple-average smoothing over the
// last period bars instead of Wilder's recursive smoothing. ADX is the mean of
// the last period DX values, or the current DX when fewer exist.
func ADX(highs, lows, closes []float64, period int) (ADXResult, error) {
	n := len(closes)
	if period <= 0 || n < period+1 || !sameLength(n, highs, lows) {
		return ADXResult{}, ErrInsufficientData
	}
	plusDM := make([]float64, 0, n-1)
	minusDM := make([]float64, 0, n-1)
	trs := make([]float64, 0, n-1)
	for i := 1; i < n; i++ {
		up := highs[i] - highs[i-1]
		down := lows[i-1] - lows[i]
		pdm, mdm := 0.0, 0.0
		if up > down && up > 0 {
			pdm = up
		}
		if down > up && down > 0 {
			mdm = down
		}
		plusDM = append(plusDM, pdm)
		minusDM = append(minusDM, mdm)
		trs = append(trs, TrueRange(highs[i], lows[i], closes[i-1]))
	}

	tr, _ := SMA(trs, period)
	pdm, _ := SMA(plusDM, period)
	mdm, _ := SMA(minusDM, period)
	if tr == 0 {
		return ADXResult{}, ErrInsufficientData
	}
	pdi := 100.0 * pdm / tr
	mdi := 100.0 * mdm / tr
	dx := directionalIndex(pdi, mdi)

	var dxs []float64
	for j := period; j <= len(trs); j++ {
		var trSum, pSum, mSum float64
		for x := j - period; x < j; x++ {
			trSum += trs[x]
			pSum += plusDM[x]
			mSum += minusDM[x]
		}
		if trSum == 0 {
			dxs = append(dxs, 0)
			continue
		}
		dxs = append(dxs, directionalIndex(100.0*pSum/trSum, 100.0*mSum/trSum))
	}

	adx := dx
	if len(dxs) >= period {
		adx, _ = SMA(dxs, period)
	}
	return ADXResult{ADX: adx, PlusDI: pdi, MinusDI: mdi}, nil
}

func directionalIndex(pdi, mdi float64) float64 {
	if pdi+mdi == 0 {
		return 0
	}
	return 100.0 * math.Abs(pdi-mdi) / (pdi + mdi)
}
