// Package strike maps price and moneyness targets onto valid tradeable
// strikes under standard listed-option increment conventions.
package strike

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Knetic/govaluate"
)

// ErrInvalidRule reports a strike rule string that cannot be parsed.
var ErrInvalidRule = errors.New("invalid strike rule")

// incrementTier is one row of the exchange increment table.
type incrementTier struct {
	below     float64 // tier applies to prices strictly below this
	increment float64
}

// incrementTable mirrors standard listed-option strike spacing. Order
// matters: tiers are checked top to bottom, with the final row as the
// catch-all.
var incrementTable = []incrementTier{
	{below: 5, increment: 0.5},
	{below: 25, increment: 1},
	{below: 200, increment: 2.5},
}

const defaultIncrement = 5.0

// Increment returns the strike spacing in force at the given price.
func Increment(price float64) float64 {
	for _, tier := range incrementTable {
		if price < tier.below {
			return tier.increment
		}
	}
	return defaultIncrement
}

// Target computes the strike nearest to price*(1+moneynessPercent/100),
// rounded to the given increment. Positive moneyness biases
// out-of-the-money for calls.
func Target(price, moneynessPercent, increment float64) float64 {
	return math.Round(price*(1+moneynessPercent/100)/increment) * increment
}

// ClosestAvailable returns the element of strikes nearest to target by
// absolute difference.
//
// When two strikes are exactly equidistant the lower one wins, so the
// result does not depend on the ordering of the input. An empty input
// yields 0.
func ClosestAvailable(target float64, strikes []float64) float64 {
	if len(strikes) == 0 {
		return 0
	}

	best := strikes[0]
	bestDiff := math.Abs(strikes[0] - target)
	for _, s := range strikes[1:] {
		diff := math.Abs(s - target)
		if diff < bestDiff || (diff == bestDiff && s < best) {
			best = s
			bestDiff = diff
		}
	}
	return best
}

// ResolveRule converts a strike rule string into a concrete strike for
// the given spot price.
//
// Supported formats (case-insensitive):
//   - "ATM"           the spot rounded to its increment
//   - "OTM:5"         5% above spot, rounded (out-of-the-money call)
//   - "ITM:5"         5% below spot, rounded
//   - "105"           an absolute strike, taken as-is
//   - "{PRICE}*1.05"  an arithmetic expression over the spot price
//
// Expressions are evaluated with govaluate after substituting {PRICE};
// the result is rounded to the increment in force at that level.
func ResolveRule(rule string, price float64) (float64, error) {
	rule = strings.TrimSpace(strings.ToUpper(rule))

	switch {
	case rule == "ATM":
		return Target(price, 0, Increment(price)), nil

	case strings.HasPrefix(rule, "OTM:"):
		pct, err := strconv.ParseFloat(strings.TrimPrefix(rule, "OTM:"), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrInvalidRule, rule, err)
		}
		return Target(price, pct, Increment(price)), nil

	case strings.HasPrefix(rule, "ITM:"):
		pct, err := strconv.ParseFloat(strings.TrimPrefix(rule, "ITM:"), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrInvalidRule, rule, err)
		}
		return Target(price, -pct, Increment(price)), nil

	case strings.Contains(rule, "{PRICE}"):
		evalStr := strings.ReplaceAll(rule, "{PRICE}", strconv.FormatFloat(price, 'f', -1, 64))
		expr, err := govaluate.NewEvaluableExpression(evalStr)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrInvalidRule, rule, err)
		}
		res, err := expr.Evaluate(nil)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrInvalidRule, rule, err)
		}
		f, ok := res.(float64)
		if !ok {
			return 0, fmt.Errorf("%w: %s: non-numeric result", ErrInvalidRule, rule)
		}
		inc := Increment(f)
		return math.Round(f/inc) * inc, nil
	}

	// Bare number: absolute strike.
	if abs, err := strconv.ParseFloat(rule, 64); err == nil {
		return abs, nil
	}

	return 0, fmt.Errorf("%w: %s", ErrInvalidRule, rule)
}
