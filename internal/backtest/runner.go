package backtest

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/quantyard/covercall/internal/data"
	"github.com/quantyard/covercall/internal/logger"
	"github.com/quantyard/covercall/internal/volatility"
)

// DefaultConcurrency bounds the worker pool when the caller does not.
const DefaultConcurrency = 4

// Run backtests several symbols in parallel against one Provider.
//
// A single simulation is inherently sequential, but runs across symbols
// share nothing, so the fan-out happens here at the symbol level. When
// params.Volatility is zero the per-symbol volatility is estimated from
// the fetched history instead of the 0.30 default.
//
// The first provider failure cancels the remaining fetches and is
// returned; partial results are discarded.
func Run(ctx context.Context, prov data.Provider, symbols []string, from, to time.Time, params Params, concurrency int) (map[string]Result, error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	var mu sync.Mutex
	results := make(map[string]Result, len(symbols))

	for _, symbol := range symbols {
		symbol := symbol
		g.Go(func() error {
			bars, err := prov.DailyBars(ctx, symbol, from, to)
			if err != nil {
				return err
			}

			// Estimation replaces the default entirely, so the params go
			// through normalized() here and the inner simulate keeps the
			// estimate even when a flat history puts it at exactly zero.
			p := params.normalized()
			if params.Volatility <= 0 {
				p.Volatility = volatility.Annualized(data.Closes(bars))
				logger.Debugf("%s: estimated volatility %.2f%%", symbol, p.Volatility*100)
			}

			res := simulate(bars, p)
			logger.Infof("%s: %d cycles, %d assigned, premium %.2f, yield %.2f%%",
				symbol, res.TotalCycles, res.AssignmentCount, res.TotalPremiumCollected, res.AnnualizedYield)

			mu.Lock()
			results[symbol] = res
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
