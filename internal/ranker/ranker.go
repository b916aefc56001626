// Package ranker filters a universe of symbols by price and liquidity,
// classifies each survivor's setup and ranks them by a composite quality
// score.
package ranker

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"SwingScanner/internal/model"
)

// Scan modes.
const (
	ModeAny      = ""
	ModeBreakout = "breakout"
	ModePullback = "pullback"
	ModeMixed    = "mixed"
)

// Reject reasons counted in ScanResult.Rejected.
const (
	RejectBars       = "bars"
	RejectPrice      = "price"
	RejectLiquidity  = "liquidity"
	RejectIndicators = "indicators"
	RejectMode       = "mode"
)

// Config controls filtering and output size.
type Config struct {
	MinPrice        float64
	MaxPrice        float64
	MinAvgDollarVol float64
	MinBars         int
	TopN            int
	Mode            string
	Workers         int
}

// DefaultConfig returns the standard scan settings.
func DefaultConfig() Config {
	return Config{
		MinPrice:        2,
		MaxPrice:        250,
		MinAvgDollarVol: 2_000_000,
		MinBars:         60,
		TopN:            80,
		Workers:         8,
	}
}

// SymbolBars pairs a symbol with its daily history, oldest first.
type SymbolBars struct {
	Symbol string
	Bars   []model.OHLCV
}

// ScanResult is the ranked, size-capped output of one scan.
type ScanResult struct {
	Candidates   []model.Candidate `json:"candidates"`
	UniverseSize int               `json:"universe_size"`
	Rejected     map[string]int    `json:"rejected"`
}

type evaluation struct {
	candidate *model.Candidate
	reject    string
}

// Rank evaluates every symbol, drops the rejected ones and returns the best
// TopN sorted by descending score. Symbols are evaluated in parallel but the
// pre-sort order is the universe order, so equal scores keep that order.
// proxy is the market index history for relative strength and may be nil.
func Rank(ctx context.Context, universe []SymbolBars, proxy []model.OHLCV, cfg Config) (*ScanResult, error) {
	switch cfg.Mode {
	case ModeAny, ModeBreakout, ModePullback, ModeMixed:
	default:
		return nil, fmt.Errorf("unknown scan mode %q", cfg.Mode)
	}
	proxyCloses := model.Closes(model.Sanitize(proxy))

	evals := make([]evaluation, len(universe))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, cfg.Workers))
	for i, sym := range universe {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			c, reject := Evaluate(sym, proxyCloses, cfg)
			evals[i] = evaluation{candidate: c, reject: reject}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("rank universe: %w", err)
	}

	res := &ScanResult{UniverseSize: len(universe), Rejected: map[string]int{}}
	for _, e := range evals {
		if e.candidate == nil {
			res.Rejected[e.reject]++
			continue
		}
		res.Candidates = append(res.Candidates, *e.candidate)
	}

	sort.SliceStable(res.Candidates, func(i, j int) bool {
		return res.Candidates[i].Score > res.Candidates[j].Score
	})
	if topN := max(1, cfg.TopN); len(res.Candidates) > topN {
		res.Candidates = res.Candidates[:topN]
	}
	return res, nil
}
