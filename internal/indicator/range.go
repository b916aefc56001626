package indicator

import "math"

// HighestHigh returns the maximum of the last period values.
func HighestHigh(highs []float64, period int) (float64, error) {
	if period <= 0 || len(highs) < period {
		return 0, ErrInsufficientData
	}
	high := math.Inf(-1)
	for i := len(highs) - period; i < len(highs); i++ {
		if highs[i] > high {
			high = highs[i]
		}
	}
	return high, nil
}

// LowestLow returns the minimum of the last period values.
func LowestLow(lows []float64, period int) (float64, error) {
	if period <= 0 || len(lows) < period {
		return 0, ErrInsufficientData
	}
	low := math.Inf(1)
	for i := len(lows) - period; i < len(lows); i++ {
		if lows[i] < low {
			low = lows[i]
		}
	}
	return low, nil
}

func sameLength(n int, series ...[]float64) bool {
	for _, s := range series {
		if len(s) != n {
			return false
		}
	}
	return true
}
