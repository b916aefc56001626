package indicator

import "math"

// TrueRange returns max(high-low, |high-prevClose|, |low-prevClose|).
func TrueRange(high, low, prevClose float64) float64 {
	tr := high - low
	if hc := math.Abs(high - prevClose); hc > tr {
		tr = hc
	}
	if lc := math.Abs(low - prevClose); lc > tr {
		tr = lc
	}
	return tr
}

// ATR is the simple average of the last period true ranges. It needs
// period+1 bars because the first bar has no previous close.
func ATR(highs, lows, closes []float64, period int) (float64, error) {
	n := len(closes)
	if period <= 0 || n < period+1 || !sameLength(n, highs, lows) {
		return 0, ErrInsufficientData
	}
	sum := 0.0
	for i := n - period; i < n; i++ {
		sum += TrueRange(highs[i], lows[i], closes[i-1])
	}
	return sum / float64(period), nil
}

// Bands is a Bollinger band snapshot at the last bar.
type Bands struct {
	Mid   float64
	Upper float64
	Lower float64
	PctB  float64
}

// Bollinger computes bands from the mean and population standard deviation of
// the trailing window. PctB is 0.5 when the bands collapse.
func Bollinger(closes []float64, period int, k float64) (Bands, error) {
	if period <= 1 || len(closes) < period {
		return Bands{}, ErrInsufficientData
	}
	window := closes[len(closes)-period:]
	mid := 0.0
	for _, v := range window {
		mid += v
	}
	mid /= float64(period)
	variance := 0.0
	for _, v := range window {
		d := v - mid
		variance += d * d
	}
	sd := math.Sqrt(variance / float64(period))
	b := Bands{Mid: mid, Upper: mid + k*sd, Lower: mid - k*sd, PctB: 0.5}
	if width := b.Upper - b.Lower; width != 0 {
		b.PctB = (closes[len(closes)-1] - b.Lower) / width
	}
	return b, nil
}
