package model

import (
	"math"
	"time"
)

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time `json:"t"`
	Open   float64   `json:"o"`
	High   float64   `json:"h"`
	Low    float64   `json:"l"`
	Close  float64   `json:"c"`
	Volume float64   `json:"v"`
}

// Sanitize drops bars without a usable close and fills a missing open/high/low
// with the close. Volume NaN becomes 0. The input slice is not modified.
func Sanitize(bars []OHLCV) []OHLCV {
	out := make([]OHLCV, 0, len(bars))
	for _, b := range bars {
		if !usable(b.Close) {
			continue
		}
		if !usable(b.High) {
			b.High = b.Close
		}
		if !usable(b.Low) {
			b.Low = b.Close
		}
		if !usable(b.Open) {
			b.Open = b.Close
		}
		if math.IsNaN(b.Volume) || b.Volume < 0 {
			b.Volume = 0
		}
		out = append(out, b)
	}
	return out
}

func usable(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Closes extracts close prices.
func Closes(bars []OHLCV) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Highs extracts high prices.
func Highs(bars []OHLCV) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.High
	}
	return out
}

// Lows extracts low prices.
func Lows(bars []OHLCV) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Low
	}
	return out
}

// Volumes extracts volumes.
func Volumes(bars []OHLCV) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Volume
	}
	return out
}

// AggregateWeekly folds daily bars into one bar per ISO week. The weekly bar
// keeps the first bar's time and open, the last close, the extreme high/low
// and the summed volume.
func AggregateWeekly(daily []OHLCV) []OHLCV {
	if len(daily) == 0 {
		return nil
	}
	var weekly []OHLCV
	week := daily[0]
	wy, ww := week.Time.ISOWeek()

	for _, d := range daily[1:] {
		y, w := d.Time.ISOWeek()
		if y != wy || w != ww {
			weekly = append(weekly, week)
			week, wy, ww = d, y, w
			continue
		}
		week.High = math.Max(week.High, d.High)
		week.Low = math.Min(week.Low, d.Low)
		week.Close = d.Close
		week.Volume += d.Volume
	}
	return append(weekly, week)
}
