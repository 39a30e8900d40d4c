package pricing

import "math"

const sqrt2Pi = 2.5066282746310002

// Abramowitz & Stegun 26.2.17 coefficients for the standard normal CDF.
var cdfCoeff = [5]float64{0.31938153, -0.356563782, 1.781477937, -1.821255978, 1.330274429}

// NormCDF computes the cumulative distribution function of the standard
// normal distribution using the Abramowitz-Stegun polynomial approximation
// (absolute error below 7.5e-8).
//
// The approximation is evaluated on |x| and reflected for negative inputs,
// so NormCDF(-x) == 1 - NormCDF(x) holds exactly. Large |x| saturate to 0
// or 1; the function is defined for every finite x.
//
// The polynomial form is kept deliberately isolated here so it can be
// swapped for an erf-based implementation without touching pricing logic.
func NormCDF(x float64) float64 {
	t := 1.0 / (1.0 + 0.2316419*math.Abs(x))

	// Horner evaluation of b1*t + b2*t^2 + ... + b5*t^5.
	poly := ((((cdfCoeff[4]*t+cdfCoeff[3])*t+cdfCoeff[2])*t+cdfCoeff[1])*t + cdfCoeff[0]) * t

	res := 1.0 - NormPDF(x)*poly
	if x < 0 {
		res = 1.0 - res
	}
	return res
}

// NormPDF calculates the probability density function of the standard
// normal distribution at x: exp(-0.5*x^2) / sqrt(2*pi).
func NormPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / sqrt2Pi
}

// Acklam's rational approximation coefficients for the standard normal
// quantile. The central region uses the num/den pair directly; the two
// tails share one rational in q = sqrt(-2 ln p), the upper tail by
// reflection.
var (
	invCentralNum = [6]float64{-3.969683028665376e+01, 2.209460984245205e+02, -2.759285104469687e+02, 1.383577518672690e+02, -3.066479806614716e+01, 2.506628277459239e+00}
	invCentralDen = [5]float64{-5.447609879822406e+01, 1.615858368580409e+02, -1.556989798598866e+02, 6.680131188771972e+01, -1.328068155288572e+01}
	invTailNum    = [6]float64{-7.784894002430293e-03, -3.223964580411365e-01, -2.400758277161838e+00, -2.549732539343734e+00, 4.374664141464968e+00, 2.938163982698783e+00}
	invTailDen    = [4]float64{7.784695709041462e-03, 3.224671290700398e-01, 2.445134137142996e+00, 3.754408661907416e+00}
)

// invTailCut separates the central region from the tails.
const invTailCut = 0.02425

// NormInv returns the standard normal quantile at p, the inverse of
// NormCDF up to approximation error. Strike selection uses it to turn a
// delta target back into a strike.
//
// Panics if p is not strictly between 0 and 1; callers guard their
// inputs.
func NormInv(p float64) float64 {
	if p <= 0 || p >= 1 {
		panic("NormInv: p must be in (0,1)")
	}

	switch {
	case p < invTailCut:
		return invTail(math.Sqrt(-2 * math.Log(p)))
	case p > 1-invTailCut:
		return -invTail(math.Sqrt(-2 * math.Log(1-p)))
	}

	q := p - 0.5
	r := q * q
	num := ((((invCentralNum[0]*r+invCentralNum[1])*r+invCentralNum[2])*r+invCentralNum[3])*r+invCentralNum[4])*r + invCentralNum[5]
	den := ((((invCentralDen[0]*r+invCentralDen[1])*r+invCentralDen[2])*r+invCentralDen[3])*r+invCentralDen[4])*r + 1
	return num * q / den
}

// invTail evaluates the shared tail rational on q = sqrt(-2 ln p).
func invTail(q float64) float64 {
	num := ((((invTailNum[0]*q+invTailNum[1])*q+invTailNum[2])*q+invTailNum[3])*q+invTailNum[4])*q + invTailNum[5]
	den := (((invTailDen[0]*q+invTailDen[1])*q+invTailDen[2])*q+invTailDen[3])*q + 1
	return num / den
}
