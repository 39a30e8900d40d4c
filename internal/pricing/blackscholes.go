// Package pricing implements closed-form option pricing for the
// covered-call engine: Black-Scholes call/put values, delta, and the
// risk-neutral probability of finishing in the money.
//
// Everything here is a pure function over value inputs. Degenerate
// inputs (expired, zero volatility) collapse to the economically correct
// intrinsic-value limits instead of returning errors, so the backtest
// can run unattended over many symbols.
package pricing

import (
	"fmt"
	"math"
)

// Inputs carries the scalar parameters for a single pricing call.
// Constructed fresh per call; the package holds no state.
type Inputs struct {
	Spot         float64 // current underlying price, > 0
	Strike       float64 // option strike, > 0
	TimeToExpiry float64 // in years, >= 0
	RiskFreeRate float64 // annualized, e.g. 0.05
	Volatility   float64 // annualized, e.g. 0.30, >= 0
}

// QuoteEstimate is the derived output of a pricing call.
type QuoteEstimate struct {
	Price                 float64 `json:"price"`                  // theoretical premium per share
	Delta                 float64 `json:"delta"`                  // call delta in [0,1]
	AssignmentProbability float64 `json:"assignment_probability"` // percent in [0,100]
}

// d1d2 returns the two Black-Scholes d terms. Callers must guard
// T > 0 and sigma > 0 before calling.
func d1d2(S, K, T, r, sigma float64) (float64, float64) {
	d1 := (math.Log(S/K) + (r+0.5*sigma*sigma)*T) / (sigma * math.Sqrt(T))
	return d1, d1 - sigma*math.Sqrt(T)
}

// CallPrice returns the Black-Scholes value of a European call.
//
// If the option is expired (T <= 0) or volatility has collapsed
// (sigma <= 0), the intrinsic value max(0, S-K) is returned, which is
// both the limiting value of the formula and safe against division by
// zero.
func CallPrice(S, K, T, r, sigma float64) float64 {
	if T <= 0 || sigma <= 0 {
		return math.Max(0, S-K) // intrinsic fallback
	}
	d1, d2 := d1d2(S, K, T, r, sigma)
	return S*NormCDF(d1) - K*math.Exp(-r*T)*NormCDF(d2)
}

// PutPrice returns the Black-Scholes value of a European put, with the
// symmetric intrinsic fallback max(0, K-S) on degenerate inputs.
func PutPrice(S, K, T, r, sigma float64) float64 {
	if T <= 0 || sigma <= 0 {
		return math.Max(0, K-S) // intrinsic fallback
	}
	d1, d2 := d1d2(S, K, T, r, sigma)
	return K*math.Exp(-r*T)*NormCDF(-d2) - S*NormCDF(-d1)
}

// Delta returns the call delta N(d1), in [0,1].
//
// On degenerate inputs the delta saturates: 1 when the option is at or
// in the money, 0 otherwise.
func Delta(S, K, T, r, sigma float64) float64 {
	if T <= 0 || sigma <= 0 {
		if S >= K {
			return 1
		}
		return 0
	}
	d1, _ := d1d2(S, K, T, r, sigma)
	return NormCDF(d1)
}

// AssignmentProbability estimates the probability, in percent, that a
// short call finishes in the money and is assigned.
//
// This is N(d2)*100 under the risk-neutral drift, NOT the delta N(d1):
// delta measures price sensitivity while d2 carries the drift adjustment
// that makes N(d2) the finish-in-the-money probability. The two must not
// be conflated.
//
// On degenerate inputs the probability saturates to 100 when S >= K and
// 0 otherwise.
func AssignmentProbability(S, K, T, r, sigma float64) float64 {
	if T <= 0 || sigma <= 0 {
		if S >= K {
			return 100
		}
		return 0
	}
	_, d2 := d1d2(S, K, T, r, sigma)
	return NormCDF(d2) * 100
}

// Quote bundles price, delta, and assignment probability for a single
// set of inputs. Used by the point-in-time calculator views.
func Quote(in Inputs) QuoteEstimate {
	return QuoteEstimate{
		Price:                 CallPrice(in.Spot, in.Strike, in.TimeToExpiry, in.RiskFreeRate, in.Volatility),
		Delta:                 Delta(in.Spot, in.Strike, in.TimeToExpiry, in.RiskFreeRate, in.Volatility),
		AssignmentProbability: AssignmentProbability(in.Spot, in.Strike, in.TimeToExpiry, in.RiskFreeRate, in.Volatility),
	}
}

// Vega returns the sensitivity of the option price to a change in
// volatility: S * pdf(d1) * sqrt(T). Returns 0 when T or sigma is
// non-positive.
func Vega(S, K, T, r, sigma float64) float64 {
	if T <= 0 || sigma <= 0 {
		return 0
	}
	d1, _ := d1d2(S, K, T, r, sigma)
	return S * NormPDF(d1) * math.Sqrt(T)
}

// ImpliedVolATM recovers the volatility implied by an observed
// at-the-money straddle: the Newton-Raphson root of
// CallPrice(sigma) == (callPrice+putPrice)/2, stepping by vega.
//
// Returns an error when the option is already expired or the iteration
// does not converge, which in practice means the quotes are inconsistent
// with any volatility.
func ImpliedVolATM(S, K, T, r, callPrice, putPrice float64) (float64, error) {
	if T <= 0 {
		return 0, fmt.Errorf("implied vol: expiry must be in the future")
	}

	target := (callPrice + putPrice) / 2
	sqrtT := math.Sqrt(T)
	discount := K * math.Exp(-r*T)

	const (
		maxIter = 100
		tol     = 1e-6
	)

	sigma := 0.20
	for i := 0; i < maxIter; i++ {
		d1, d2 := d1d2(S, K, T, r, sigma)
		diff := S*NormCDF(d1) - discount*NormCDF(d2) - target
		if math.Abs(diff) < tol {
			return sigma, nil
		}

		vega := S * NormPDF(d1) * sqrtT
		if vega < 1e-8 {
			break
		}

		// Newton can overshoot into nonsense; clamp into a plausible
		// band and let the next step recover.
		sigma = math.Min(math.Max(sigma-diff/vega, 1e-4), 5)
	}

	return 0, fmt.Errorf("implied vol: no convergence after %d iterations", maxIter)
}

// StrikeFromDelta inverts N(d1) = targetDelta to recover the strike a
// call with the given delta would carry:
//
//	K = S * exp((r + sigma^2/2)*T - NormInv(delta)*sigma*sqrt(T))
//
// Used when a caller selects strikes by delta target instead of
// moneyness. targetDelta must lie strictly in (0,1) and T and sigma must
// be positive; otherwise the spot is returned unchanged.
func StrikeFromDelta(S, targetDelta, r, sigma, T float64) float64 {
	if targetDelta <= 0 || targetDelta >= 1 || T <= 0 || sigma <= 0 {
		return S
	}
	d1 := NormInv(targetDelta)
	return S * math.Exp((r+0.5*sigma*sigma)*T-d1*sigma*math.Sqrt(T))
}
