// Package indicator holds pure technical-analysis functions over price and
// volume series ordered oldest to newest. Short input never panics: every
// function returns ErrInsufficientData instead of a value.
package indicator

import "errors"

// ErrInsufficientData is returned when a series is shorter than the window
// an indicator needs, or when its parameters cannot produce a value.
var ErrInsufficientData = errors.New("insufficient data")

// SMA computes the simple moving average of the last period values.
func SMA(values []float64, period int) (float64, error) {
	if period <= 0 || len(values) < period {
		return 0, ErrInsufficientData
	}
	sum := 0.0
	for i := len(values) - period; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(period), nil
}

// EMA returns the last value of an exponential moving average seeded from the
// first element and smoothed with 2/(period+1).
func EMA(values []float64, period int) (float64, error) {
	if period <= 0 || len(values) < period {
		return 0, ErrInsufficientData
	}
	k := 2.0 / float64(period+1)
	e := values[0]
	for _, v := range values[1:] {
		e = v*k + e*(1-k)
	}
	return e, nil
}

// emaSeries returns the running EMA at every index. Because the average is
// seeded from the first element, out[i] equals EMA(values[:i+1]).
func emaSeries(values []float64, period int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	k := 2.0 / float64(period+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = values[i]*k + out[i-1]*(1-k)
	}
	return out
}
