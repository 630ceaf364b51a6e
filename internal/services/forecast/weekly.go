package forecast

import (
	"fmt"
	"time"

	"github.com/ternarybob/bizpulse/internal/common"
	"github.com/ternarybob/bizpulse/internal/models"
)

func weekLabel(year, week int) string {
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// weekStart returns the Monday of the ISO week containing t, at midnight UTC
func weekStart(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	return day.AddDate(0, 0, -offset)
}

// weekly buckets by ISO week, keeps the most recent window and repeats the
// last observed week forward. The band has zero width: this is a naive
// baseline, not a fitted model. Accuracy is the R² of the one-step naive
// predictor (each week predicts the next) over the window.
func (f *Forecaster) weekly(records []Record, horizon int) (*Result, error) {
	all := aggregate(records, func(r Record) (int, string) {
		// Monday's day number orders weeks across ISO year boundaries
		key := int(weekStart(r.Date).Unix() / 86400)
		year, week := r.Date.ISOWeek()
		return key, weekLabel(year, week)
	})

	buckets := all[max(0, len(all)-f.opts.WeeklyWindow):]
	if len(buckets) < f.opts.MinBuckets {
		return nil, models.NewInputError(models.ErrInsufficientData, "need at least %d weeks, got %d", f.opts.MinBuckets, len(buckets))
	}

	actual := revenues(buckets)
	accuracy := accuracyScore(actual[1:], actual[:len(actual)-1])

	last := buckets[len(buckets)-1]
	lastMonday := time.Unix(int64(last.key)*86400, 0).UTC()
	revenue := common.Round(last.revenue, 2)
	profit := common.Round(last.profit, 2)

	points := make([]ForecastPoint, 0, horizon)
	for i := 1; i <= horizon; i++ {
		year, week := lastMonday.AddDate(0, 0, 7*i).ISOWeek()
		points = append(points, ForecastPoint{
			PeriodLabel: weekLabel(year, week),
			Revenue:     revenue,
			Profit:      profit,
			LowerBound:  revenue,
			UpperBound:  revenue,
		})
	}

	return &Result{
		Granularity:        Weekly,
		Model:              ModelFlatWeekly,
		SeasonalAdjustment: false,
		Historical:         historical(buckets),
		Forecast:           points,
		AccuracyScore:      accuracy,
		AverageGrowth:      0,
		ResidualStdDev:     0,
		Summary:            summarize(points, accuracy),
		RiskAnalysis:       analyzeVolatility(actual),
	}, nil
}
