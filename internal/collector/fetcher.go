package collector

import (
	"context"
	"fmt"
	"log"
	"strings"

	"golang.org/x/sync/errgroup"

	"SwingScanner/internal/model"
	"SwingScanner/internal/ranker"
)

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.OHLCV, error)
	Name() string
}

// LoadUniverse fetches daily bars for every symbol with at most workers
// requests in flight. A symbol that fails is logged and left out so one bad
// ticker never aborts the batch. The result keeps the input order.
func LoadUniverse(ctx context.Context, f Fetcher, symbols []string, days, workers int) ([]ranker.SymbolBars, error) {
	out := make([]ranker.SymbolBars, len(symbols))
	ok := make([]bool, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, workers))
	for i, sym := range symbols {
		sym = strings.ToUpper(strings.TrimSpace(sym))
		if sym == "" {
			continue
		}
		g.Go(func() error {
			bars, err := f.FetchDailyBars(gctx, sym, days)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.Printf("[WARN] %s: fetch %s failed: %v", f.Name(), sym, err)
				return nil
			}
			out[i] = ranker.SymbolBars{Symbol: sym, Bars: model.Sanitize(bars)}
			ok[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load universe: %w", err)
	}

	universe := make([]ranker.SymbolBars, 0, len(symbols))
	for i := range out {
		if ok[i] {
			universe = append(universe, out[i])
		}
	}
	return universe, nil
}
