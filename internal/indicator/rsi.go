package indicator

// RSI computes the relative strength index over the trailing period deltas
// using plain averages. An unchanged close counts as a zero gain. When no loss
// is observed the result is 100.
func RSI(closes []float64, period int) (float64, error) {
	if period <= 0 || len(closes) < period+1 {
		return 0, ErrInsufficientData
	}
	var gains, losses float64
	for i := len(closes) - period; i < len(closes); i++ {
		diff := closes[i] - closes[i-1]
		if diff >= 0 {
			gains += diff
		} else {
			losses -= diff
		}
	}
	if losses == 0 {
		return 100.0, nil
	}
	rs := gains / losses
	return 100.0 - 100.0/(1.0+rs), nil
}
