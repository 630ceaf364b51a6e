package forecast

import (
	"math"

	"github.com/ternarybob/bizpulse/internal/common"
)

// mean returns the arithmetic mean, or 0 for an empty slice
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdDev returns the population standard deviation (divides by n)
func stdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	sumSq := 0.0
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// rSquared is the coefficient of determination of predicted against actual.
// A constant actual series scores 1 when matched exactly and 0 otherwise.
// ok is false for mismatched lengths, fewer than two points or a non-finite result.
func rSquared(actual, predicted []float64) (r2 float64, ok bool) {
	if len(actual) != len(predicted) || len(actual) < 2 {
		return 0, false
	}

	m := mean(actual)
	ssRes, ssTot := 0.0, 0.0
	for i := range actual {
		res := actual[i] - predicted[i]
		dev := actual[i] - m
		ssRes += res * res
		ssTot += dev * dev
	}

	if ssTot == 0 {
		if ssRes == 0 {
			return 1, true
		}
		return 0, true
	}

	r2 = 1 - ssRes/ssTot
	if !common.IsFinite(r2) {
		return 0, false
	}
	return r2, true
}

// accuracyScore is R² clamped at 0, as a percentage rounded to 2 places.
// Degenerate input scores 0.
func accuracyScore(actual, predicted []float64) float64 {
	r2, ok := rSquared(actual, predicted)
	if !ok {
		return 0
	}
	return common.Round(math.Max(0, r2)*100, 2)
}

// averageGrowth is the mean period-over-period growth rate, skipping periods
// that follow a non-positive value. No valid observations gives 0.
func averageGrowth(values []float64) float64 {
	var rates []float64
	for i := 1; i < len(values); i++ {
		if values[i-1] > 0 {
			rates = append(rates, (values[i]-values[i-1])/values[i-1])
		}
	}
	return mean(rates)
}

// compoundFit rebuilds a series from its first value compounding by growth each step
func compoundFit(values []float64, growth float64) []float64 {
	if len(values) == 0 {
		return nil
	}
	fitted := make([]float64, len(values))
	fitted[0] = values[0]
	for i := 1; i < len(values); i++ {
		fitted[i] = fitted[i-1] * (1 + growth)
	}
	return fitted
}
