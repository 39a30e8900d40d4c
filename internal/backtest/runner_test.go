package backtest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantyard/covercall/internal/data"
)

// fakeProvider serves canned bars per symbol and fails for anything else.
type fakeProvider struct {
	bars map[string][]data.Bar
}

func (f *fakeProvider) DailyBars(ctx context.Context, symbol string, from, to time.Time) ([]data.Bar, error) {
	if bars, ok := f.bars[symbol]; ok {
		return bars, nil
	}
	return nil, errors.New("no data for " + symbol)
}

func TestRunMatchesDirectSimulation(t *testing.T) {
	prov := &fakeProvider{bars: map[string][]data.Bar{
		"AAPL": flatBars(252, 100),
		"MSFT": risingBars(252, 100, 0.3),
		"KO":   flatBars(120, 60),
	}}
	params := Params{Shares: 200, MoneynessPercent: 5, CycleDays: 30, Volatility: 0.25}

	results, err := Run(context.Background(), prov, []string{"AAPL", "MSFT", "KO"}, testStart, testStart.AddDate(1, 0, 0), params, 2)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for sym, bars := range prov.bars {
		assert.Equal(t, Simulate(bars, params), results[sym], "symbol=%s", sym)
	}
}

func TestRunEstimatesVolatilityPerSymbol(t *testing.T) {
	// Flat history estimates to zero volatility, which prices the OTM
	// call at zero premium. An explicit volatility would not.
	prov := &fakeProvider{bars: map[string][]data.Bar{
		"FLAT": flatBars(252, 100),
	}}
	params := Params{Shares: 100, MoneynessPercent: 5, CycleDays: 30}

	results, err := Run(context.Background(), prov, []string{"FLAT"}, testStart, testStart.AddDate(1, 0, 0), params, 1)
	require.NoError(t, err)

	assert.Greater(t, results["FLAT"].TotalCycles, 0)
	assert.Zero(t, results["FLAT"].TotalPremiumCollected)

	// A direct Simulate with unset volatility falls back to the 0.30
	// default instead of estimating, so its premium is positive. The
	// runner must not collapse the zero estimate back to that default.
	direct := Simulate(prov.bars["FLAT"], params)
	assert.Greater(t, direct.TotalPremiumCollected, 0.0)
	assert.NotEqual(t, direct, results["FLAT"])
}

func TestRunPropagatesProviderError(t *testing.T) {
	prov := &fakeProvider{bars: map[string][]data.Bar{
		"GOOD": flatBars(100, 100),
	}}
	params := Params{Shares: 100, MoneynessPercent: 5, CycleDays: 30, Volatility: 0.3}

	results, err := Run(context.Background(), prov, []string{"GOOD", "BAD"}, testStart, testStart.AddDate(1, 0, 0), params, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BAD")
	assert.Nil(t, results)
}

func TestRunNoSymbols(t *testing.T) {
	results, err := Run(context.Background(), &fakeProvider{}, nil, testStart, testStart.AddDate(1, 0, 0), Params{Shares: 100, CycleDays: 30}, 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}
