package forecast

import (
	"fmt"
	"math"
	"time"

	"github.com/ternarybob/bizpulse/internal/common"
	"github.com/ternarybob/bizpulse/internal/models"
)

// seasonalIndex multiplies projected revenue by calendar month; the festive
// months of October to December run above trend.
var seasonalIndex = map[time.Month]float64{
	time.January:   0.85,
	time.February:  0.88,
	time.March:     0.92,
	time.April:     0.90,
	time.May:       0.87,
	time.June:      0.85,
	time.July:      0.88,
	time.August:    0.90,
	time.September: 0.95,
	time.October:   1.20,
	time.November:  1.15,
	time.December:  1.10,
}

// z-score of a two-sided 95% normal interval
const confidenceZ = 1.96

func monthKey(year int, month time.Month) int {
	return year*12 + int(month) - 1
}

func monthLabel(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, int(month))
}

// monthly buckets by calendar month, drops partial months, fits the average
// growth model and projects horizon months with the seasonal index.
func (f *Forecaster) monthly(records []Record, horizon int) (*Result, error) {
	all := aggregate(records, func(r Record) (int, string) {
		return monthKey(r.Date.Year(), r.Date.Month()), monthLabel(r.Date.Year(), r.Date.Month())
	})

	buckets := make([]bucket, 0, len(all))
	for _, b := range all {
		if b.revenue > f.opts.MinBucketRevenue {
			buckets = append(buckets, b)
		}
	}
	if len(buckets) < f.opts.MinBuckets {
		buckets = all[max(0, len(all)-f.opts.FallbackBuckets):]
	}
	if len(buckets) < f.opts.MinBuckets {
		return nil, models.NewInputError(models.ErrInsufficientData, "need at least %d months, got %d", f.opts.MinBuckets, len(buckets))
	}

	actual := revenues(buckets)
	growth := averageGrowth(actual)
	fitted := compoundFit(actual, growth)
	accuracy := accuracyScore(actual, fitted)

	residuals := make([]float64, len(actual))
	for i := range actual {
		residuals[i] = actual[i] - fitted[i]
	}
	residualStd := stdDev(residuals)
	if !common.IsFinite(residualStd) {
		residualStd = 0
	}
	band := confidenceZ * residualStd

	last := buckets[len(buckets)-1]
	lastYear, lastMonth := last.key/12, time.Month(last.key%12+1)
	baseRevenue, baseProfit := last.revenue, last.profit

	points := make([]ForecastPoint, 0, horizon)
	for i := 1; i <= horizon; i++ {
		next := time.Date(lastYear, lastMonth+time.Month(i), 1, 0, 0, 0, 0, time.UTC)

		// The unseasonal base compounds; the seasonal index applies per month only
		baseRevenue *= 1 + growth
		baseProfit *= 1 + growth

		seasonal := seasonalIndex[next.Month()]
		revenue := math.Max(0, baseRevenue*seasonal)
		profit := math.Max(0, baseProfit*seasonal)

		points = append(points, ForecastPoint{
			PeriodLabel: monthLabel(next.Year(), next.Month()),
			Revenue:     common.Round(revenue, 2),
			Profit:      common.Round(profit, 2),
			LowerBound:  common.Round(math.Max(0, revenue-band), 2),
			UpperBound:  common.Round(revenue+band, 2),
		})
	}

	return &Result{
		Granularity:        Monthly,
		Model:              ModelGrowthSeasonal,
		SeasonalAdjustment: true,
		Historical:         historical(buckets),
		Forecast:           points,
		AccuracyScore:      accuracy,
		AverageGrowth:      common.Round(growth, 6),
		ResidualStdDev:     common.Round(residualStd, 2),
		Summary:            summarize(points, accuracy),
		RiskAnalysis:       analyzeVolatility(actual),
	}, nil
}
