// Package yield holds the covered-call return formulas used by the
// calculator views and reports. All functions are pure and degrade to
// zero on undefined inputs rather than erroring.
package yield

import "math"

// Annualized compound-annualizes a single-cycle premium yield, in
// percent: ((1 + premium/stockPrice)^(365/dte) - 1) * 100.
//
// Returns 0 when stockPrice or daysToExpiration is non-positive, where
// the yield is undefined.
func Annualized(premium, stockPrice float64, daysToExpiration int) float64 {
	if stockPrice <= 0 || daysToExpiration <= 0 {
		return 0
	}
	cycle := premium / stockPrice
	return (math.Pow(1+cycle, 365/float64(daysToExpiration)) - 1) * 100
}

// IfCalled annualizes the total return assuming assignment at the
// strike: premium plus any capital gain up to the strike, compounded
// the same way as Annualized.
func IfCalled(premium, strikePrice, currentPrice float64, daysToExpiration int) float64 {
	totalReturn := premium + math.Max(0, strikePrice-currentPrice)
	return Annualized(totalReturn, currentPrice, daysToExpiration)
}

// Breakeven is the underlying price at which the covered position
// neither gains nor loses at expiry.
func Breakeven(currentPrice, premium float64) float64 {
	return currentPrice - premium
}

// MaxProfit is the best-case dollar outcome of the position: assignment
// at the strike plus premium, over the writable contracts.
//
// Only full 100-share lots can be written against; shares beyond the
// last full lot are excluded, never rounded up.
func MaxProfit(shares int, currentPrice, strikePrice, premium float64) float64 {
	contracts := shares / 100
	if contracts <= 0 {
		return 0
	}
	perShare := math.Max(0, strikePrice-currentPrice) + premium
	return perShare * float64(contracts) * 100
}
