// Package volatility estimates annualized historical volatility from a
// daily close series.
package volatility

import (
	"math"

	"github.com/quantyard/covercall/internal/data"
)

// DefaultWindow is the trailing-return window used when a caller does
// not specify one.
const DefaultWindow = 20

// tradingDaysPerYear annualizes daily return volatility.
const tradingDaysPerYear = 252

// Point is one observation of the rolling volatility series.
type Point struct {
	Date                 string  `json:"date"`
	AnnualizedVolatility float64 `json:"annualized_volatility"`
}

// Rolling computes the trailing-window historical volatility series.
//
// For each bar with at least window log returns behind it, the sample
// standard deviation (Bessel-corrected, divisor window-1) of those
// returns is annualized by sqrt(252). Bars with non-positive closes are
// skipped when forming returns, since their log return is undefined.
//
// The output has max(0, n-window-1) points for n usable bars; too-short
// input yields an empty series, not an error. The function is stateless:
// the same input always produces the same output.
func Rolling(bars []data.Bar, window int) []Point {
	if window <= 0 {
		window = DefaultWindow
	}

	// Log returns indexed by the bar that closes them: rets[i] pairs
	// with dates[i].
	var (
		rets  []float64
		dates []string
	)
	prev := 0.0
	for _, b := range bars {
		if b.Close <= 0 {
			continue
		}
		if prev > 0 {
			rets = append(rets, math.Log(b.Close/prev))
			dates = append(dates, b.Date.Format("2006-01-02"))
		}
		prev = b.Close
	}

	if len(rets) <= window {
		return nil
	}

	out := make([]Point, 0, len(rets)-window)
	for i := window; i < len(rets); i++ {
		sd := stddev(rets[i-window : i])
		out = append(out, Point{
			Date:                 dates[i],
			AnnualizedVolatility: sd * math.Sqrt(tradingDaysPerYear),
		})
	}
	return out
}

// Annualized computes a single whole-series volatility estimate from a
// close series: the Bessel-corrected standard deviation of all
// consecutive log returns, annualized by sqrt(252).
//
// Falls back to 0.30 when fewer than two closes are available, so the
// backtest always has a usable default.
func Annualized(closes []float64) float64 {
	var rets []float64
	prev := 0.0
	for _, c := range closes {
		if c <= 0 {
			continue
		}
		if prev > 0 {
			rets = append(rets, math.Log(c/prev))
		}
		prev = c
	}
	if len(rets) < 2 {
		return 0.30
	}
	return stddev(rets) * math.Sqrt(tradingDaysPerYear)
}

// stddev returns the sample standard deviation (divisor n-1) of xs.
// Callers guarantee len(xs) >= 2.
func stddev(xs []float64) float64 {
	mean := 0.0
	for _, v := range xs {
		mean += v
	}
	mean /= float64(len(xs))

	ss := 0.0
	for _, v := range xs {
		ss += (v - mean) * (v - mean)
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}
