package indicator

// OBVSeries returns the cumulative on-balance volume at every bar, starting
// at zero on the first bar.
func OBVSeries(closes, volumes []float64) ([]float64, error) {
	n := len(closes)
	if n < 2 || len(volumes) != n {
		return nil, ErrInsufficientData
	}
	out := make([]float64, n)
	for i := 1; i < n; i++ {
		out[i] = out[i-1]
		switch {
		case closes[i] > closes[i-1]:
			out[i] += volumes[i]
		case closes[i] < closes[i-1]:
			out[i] -= volumes[i]
		}
	}
	return out, nil
}

// OBV returns the last on-balance volume value.
func OBV(closes, volumes []float64) (float64, error) {
	series, err := OBVSeries(closes, volumes)
	if err != nil {
		return 0, err
	}
	return series[len(series)-1], nil
}

// OBVSlope returns the sign (-1, 0, 1) of the OBV change over the last
// lookback bars.
func OBVSlope(closes, volumes []float64, lookback int) (float64, error) {
	series, err := OBVSeries(closes, volumes)
	if err != nil {
		return 0, err
	}
	if lookback <= 0 || len(series) <= lookback {
		return 0, ErrInsufficientData
	}
	delta := series[len(series)-1] - series[len(series)-1-lookback]
	switch {
	case delta > 0:
		return 1, nil
	case delta < 0:
		return -1, nil
	}
	return 0, nil
}

// VWAP is the volume-weighted average of the typical price (H+L+C)/3 over the
// trailing window. Zero volume in the window leaves it unavailable.
func VWAP(highs, lows, closes, volumes []float64, period int) (float64, error) {
	n := len(closes)
	if period <= 0 || n < period || !sameLength(n, highs, lows, volumes) {
		return 0, ErrInsufficientData
	}
	var num, den float64
	for i := n - period; i < n; i++ {
		tp := (highs[i] + lows[i] + closes[i]) / 3.0
		num += tp * volumes[i]
		den += volumes[i]
	}
	if den == 0 {
		return 0, ErrInsufficientData
	}
	return num / den, nil
}
