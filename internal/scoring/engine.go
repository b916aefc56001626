// Package scoring turns canonical features into a 0-100 tradability score
// with the list of checks that moved it.
package scoring

import (
	"fmt"
	"math"

	"SwingScanner/internal/features"
	"SwingScanner/internal/model"
)

// Reason is one check that fired, with its signed point delta.
type Reason struct {
	Delta float64 `json:"delta"`
	Text  string  `json:"text"`
}

func (r Reason) String() string {
	if r.Delta < 0 {
		return fmt.Sprintf("-%g %s", -r.Delta, r.Text)
	}
	return fmt.Sprintf("+%g %s", r.Delta, r.Text)
}

// Result is the outcome of scoring one feature set.
type Result struct {
	Score    int               `json:"score"`
	Reasons  []Reason          `json:"reasons"`
	Features features.Features `json:"features"`
}

// ReasonStrings renders the reasons in order.
func (r *Result) ReasonStrings() []string {
	out := make([]string, len(r.Reasons))
	for i, reason := range r.Reasons {
		out[i] = reason.String()
	}
	return out
}

// Passes reports whether the score reaches minScore.
func (r *Result) Passes(minScore int) bool {
	return r.Score >= minScore
}

// tally accumulates points and reasons across checks.
type tally struct {
	score   float64
	reasons []Reason
}

func (t *tally) bump(cond bool, pts float64, why string) {
	if cond && pts != 0 {
		t.score += pts
		t.reasons = append(t.reasons, Reason{Delta: pts, Text: why})
	}
}

func (t *tally) penalize(cond bool, pts float64, why string) {
	t.bump(cond, -pts, why)
}

// Score evaluates f for side with DefaultWeights.
func Score(f features.Features, side model.Side) *Result {
	return ScoreWith(f, side, DefaultWeights)
}

// ScoreWith evaluates f for side with the given weights. Every check is
// independent and a missing feature skips only the checks that read it. A
// feature set carrying an error marker scores 0.
func ScoreWith(f features.Features, side model.Side, w Weights) *Result {
	if f.Error != "" {
		return &Result{
			Score:    0,
			Reasons:  []Reason{{Text: "data_error: " + f.Error}},
			Features: f,
		}
	}

	t := &tally{score: w.Base}
	long := side.IsLong()

	scoreRegime(t, f, w)
	scoreWeekly(t, f, long, w)
	scoreTrend(t, f, long, w)
	scoreMomentum(t, f, long, w)
	scoreExtension(t, f, long, w)
	scoreTrendStrength(t, f, long, w)
	scoreStochastic(t, f, long, w)
	scoreChop(t, f, w)
	scoreParticipation(t, f, long, w)
	scoreVolatility(t, f, w)
	scoreBollinger(t, f, long, w)
	scoreBreakout(t, f, w)

	return &Result{
		Score:    int(math.Round(clamp(t.score, 0, 100))),
		Reasons:  t.reasons,
		Features: f,
	}
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
