package yield

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnnualized(t *testing.T) {
	// $2 premium on a $100 stock over 30 days, compounded to a year.
	want := (math.Pow(1.02, 365.0/30) - 1) * 100
	assert.InDelta(t, want, Annualized(2, 100, 30), 1e-12)

	// Zero premium yields zero.
	assert.Zero(t, Annualized(0, 100, 30))
}

func TestAnnualizedDegenerateInputs(t *testing.T) {
	assert.Zero(t, Annualized(2, 0, 30))
	assert.Zero(t, Annualized(2, -5, 30))
	assert.Zero(t, Annualized(2, 100, 0))
	assert.Zero(t, Annualized(2, 100, -10))
}

func TestIfCalled(t *testing.T) {
	// OTM strike: premium plus the capital gain to the strike.
	assert.Equal(t, Annualized(2+5, 100, 30), IfCalled(2, 105, 100, 30))

	// Strike below spot: no capital gain component, never negative.
	assert.Equal(t, Annualized(2, 110, 30), IfCalled(2, 105, 110, 30))
}

func TestBreakeven(t *testing.T) {
	assert.Equal(t, 98.0, Breakeven(100, 2))
	assert.Equal(t, 100.0, Breakeven(100, 0))
}

func TestMaxProfit(t *testing.T) {
	// 250 shares -> 2 contracts; the odd 50 shares are inert.
	assert.Equal(t, (5.0+2.0)*2*100, MaxProfit(250, 100, 105, 2))

	// Sub-lot holdings cannot write any calls.
	assert.Zero(t, MaxProfit(50, 100, 105, 2))
	assert.Zero(t, MaxProfit(0, 100, 105, 2))

	// Strike below spot contributes no capital gain.
	assert.Equal(t, 2.0*1*100, MaxProfit(100, 110, 105, 2))
}
