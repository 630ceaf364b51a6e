package common

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round rounds to the given number of decimal places, half away from zero.
// NaN and Inf collapse to 0 so they never reach a result.
func Round(value float64, places int32) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return decimal.NewFromFloat(value).Round(places).InexactFloat64()
}

// Clamp restricts value to [min, max]. NaN maps to min.
func Clamp(value, min, max float64) float64 {
	if math.IsNaN(value) || value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// SafeDiv returns numerator/denominator, or fallback when the denominator is zero
// or the quotient is not finite.
func SafeDiv(numerator, denominator, fallback float64) float64 {
	if denominator == 0 {
		return fallback
	}
	q := numerator / denominator
	if math.IsNaN(q) || math.IsInf(q, 0) {
		return fallback
	}
	return q
}

// IsFinite reports whether value is neither NaN nor Inf
func IsFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}
