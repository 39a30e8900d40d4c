// Package backtest replays a historical price series through repeated
// covered-call write/settle cycles and accumulates yield and assignment
// statistics.
//
// The simulation is deliberately sequential: each cycle opens at the bar
// where the previous one settled, so cycle boundaries are path-dependent
// on the gaps already embedded in the input series. Across symbols,
// invocations are independent; see Run for the parallel driver.
package backtest

import (
	"fmt"
	"time"

	"github.com/quantyard/covercall/internal/data"
	"github.com/quantyard/covercall/internal/logger"
	"github.com/quantyard/covercall/internal/pricing"
	"github.com/quantyard/covercall/internal/strike"
)

// Default parameter values, applied when the caller leaves the
// corresponding Params field zero.
const (
	DefaultVolatility   = 0.30
	DefaultRiskFreeRate = 0.05
)

// SharesPerContract is the standard option contract multiplier.
const SharesPerContract = 100

// Params configures one backtest run.
type Params struct {
	Shares           int     `json:"shares"`            // shares held; only full 100-lots are written against
	MoneynessPercent float64 `json:"moneyness_percent"` // strike target above spot, e.g. 5 for 5% OTM
	CycleDays        int     `json:"cycle_days"`        // bars per write/settle cycle
	Volatility       float64 `json:"volatility"`        // annualized; 0 means DefaultVolatility
	RiskFreeRate     float64 `json:"risk_free_rate"`    // annualized; 0 means DefaultRiskFreeRate
	StrikeRule       string  `json:"strike_rule,omitempty"` // e.g. "ATM", "OTM:5", "{PRICE}*1.05"; overrides MoneynessPercent
}

// normalized returns a copy with defaults applied.
func (p Params) normalized() Params {
	if p.Volatility <= 0 {
		p.Volatility = DefaultVolatility
	}
	if p.RiskFreeRate == 0 {
		p.RiskFreeRate = DefaultRiskFreeRate
	}
	return p
}

// Cycle is one write-to-expiry period. Cycles live only for the duration
// of the simulation loop; the aggregate Result is what callers keep.
type Cycle struct {
	EntryDate       time.Time
	EntryPrice      float64
	Strike          float64
	PremiumPerShare float64
	ExpiryDate      time.Time
	ExpiryPrice     float64
	Assigned        bool
}

// PremiumPoint is one entry of the cumulative premium history, recorded
// at each cycle settlement.
type PremiumPoint struct {
	Date              time.Time `json:"date"`
	CumulativePremium float64   `json:"cumulative_premium"`
	Event             string    `json:"event"`
}

// Result aggregates all cycles of a run.
//
// Invariants: TotalCycles == len(PremiumHistory),
// AssignmentCount <= TotalCycles, and TotalPremiumCollected equals the
// sum of per-cycle premiums recorded in the history.
type Result struct {
	StartDate              time.Time      `json:"start_date"`
	EndDate                time.Time      `json:"end_date"`
	TotalPremiumCollected  float64        `json:"total_premium_collected"`
	TotalCycles            int            `json:"total_cycles"`
	AssignmentCount        int            `json:"assignment_count"`
	AveragePremiumPerCycle float64        `json:"average_premium_per_cycle"`
	AnnualizedYield        float64        `json:"annualized_yield"`
	PremiumHistory         []PremiumPoint `json:"premium_history"`
}

// Simulate replays bars through repeated covered-call cycles.
//
// Each cycle writes calls at the strike nearest to
// entryPrice*(1+moneyness%) on the exchange increment grid, or at the
// strike a configured StrikeRule resolves to, collects the
// Black-Scholes premium for the configured volatility and rate, and
// settles at the bar CycleDays ahead (clamped to the end of the series).
// A settlement price at or above the strike counts as assigned; the
// boundary is >=, exactly-at-strike is an assignment. The next cycle
// opens at the settlement bar, so cycles never overlap.
//
// Degenerate inputs (no writable contracts, history shorter than one
// cycle) return a zeroed Result rather than an error: when scanning many
// symbols unattended, an inert result beats a skipped one.
func Simulate(bars []data.Bar, p Params) Result {
	return simulate(bars, p.normalized())
}

// simulate assumes p already carries resolved values. Run calls it
// directly after per-symbol volatility estimation, where a genuinely
// zero estimate must not be re-defaulted to 0.30.
func simulate(bars []data.Bar, p Params) Result {
	var res Result
	if len(bars) > 0 {
		res.StartDate = bars[0].Date
		res.EndDate = bars[len(bars)-1].Date
	}

	contracts := p.Shares / SharesPerContract
	if contracts == 0 || p.CycleDays <= 0 || len(bars) < p.CycleDays {
		return res
	}

	for i := 0; i < len(bars)-p.CycleDays; {
		entry := bars[i]

		expiryIndex := i + p.CycleDays
		if expiryIndex > len(bars)-1 {
			expiryIndex = len(bars) - 1
		}
		expiry := bars[expiryIndex]

		k := strike.Target(entry.Close, p.MoneynessPercent, strike.Increment(entry.Close))
		if p.StrikeRule != "" {
			resolved, err := strike.ResolveRule(p.StrikeRule, entry.Close)
			if err != nil {
				logger.Errorf("strike rule %q at %.2f: %v, using moneyness target", p.StrikeRule, entry.Close, err)
			} else {
				k = resolved
			}
		}

		c := Cycle{
			EntryDate:   entry.Date,
			EntryPrice:  entry.Close,
			Strike:      k,
			ExpiryDate:  expiry.Date,
			ExpiryPrice: expiry.Close,
		}
		c.PremiumPerShare = pricing.CallPrice(
			c.EntryPrice,
			c.Strike,
			float64(p.CycleDays)/365.0,
			p.RiskFreeRate,
			p.Volatility,
		)
		c.Assigned = c.ExpiryPrice >= c.Strike

		cyclePremium := c.PremiumPerShare * float64(contracts) * SharesPerContract
		res.TotalPremiumCollected += cyclePremium
		res.TotalCycles++

		event := "Expired OTM"
		if c.Assigned {
			res.AssignmentCount++
			event = fmt.Sprintf("Assigned at %.2f", c.Strike)
		}
		res.PremiumHistory = append(res.PremiumHistory, PremiumPoint{
			Date:              c.ExpiryDate,
			CumulativePremium: res.TotalPremiumCollected,
			Event:             event,
		})

		logger.Tracef("cycle %d entry=%s spot=%.2f strike=%.2f premium=%.2f assigned=%t",
			res.TotalCycles, c.EntryDate.Format("2006-01-02"), c.EntryPrice, c.Strike, cyclePremium, c.Assigned)

		// The next cycle starts where this one settled. Near the end of
		// the series the step is shorter than CycleDays.
		i = expiryIndex
	}

	if res.TotalCycles > 0 {
		res.AveragePremiumPerCycle = res.TotalPremiumCollected / float64(res.TotalCycles)
	}

	// Yield is measured over the calendar span of the series, not
	// cycles*CycleDays, so data gaps do not inflate it.
	elapsedDays := res.EndDate.Sub(res.StartDate).Hours() / 24
	if elapsedDays > 0 && p.Shares > 0 && bars[0].Close > 0 {
		basis := bars[0].Close * float64(p.Shares)
		res.AnnualizedYield = res.TotalPremiumCollected / basis * (365 / elapsedDays) * 100
	}

	return res
}
