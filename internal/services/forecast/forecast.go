package forecast

import (
	"sort"
	"strings"

	"github.com/ternarybob/bizpulse/internal/common"
	"github.com/ternarybob/bizpulse/internal/models"
)

// Options holds the forecaster thresholds
type Options struct {
	MinRecords       int     // Valid raw records required before bucketing
	MinBuckets       int     // Buckets required to fit or project
	MinBucketRevenue float64 // Monthly buckets at or below this are dropped as partial months
	FallbackBuckets  int     // Most recent pre-filter months used when too few buckets survive the filter
	WeeklyWindow     int     // Most recent ISO weeks kept for the weekly projection
}

// DefaultOptions returns the standard thresholds
func DefaultOptions() Options {
	return Options{
		MinRecords:       5,
		MinBuckets:       3,
		MinBucketRevenue: 100000,
		FallbackBuckets:  6,
		WeeklyWindow:     12,
	}
}

// Forecaster runs forecasts with a fixed set of Options. It holds no other
// state and is safe for concurrent use.
type Forecaster struct {
	opts Options
}

// NewForecaster creates a forecaster. Zero counts and a negative revenue
// threshold take their defaults.
func NewForecaster(opts Options) *Forecaster {
	defaults := DefaultOptions()
	if opts.MinRecords <= 0 {
		opts.MinRecords = defaults.MinRecords
	}
	if opts.MinBuckets <= 0 {
		opts.MinBuckets = defaults.MinBuckets
	}
	if opts.MinBucketRevenue < 0 {
		opts.MinBucketRevenue = defaults.MinBucketRevenue
	}
	if opts.FallbackBuckets <= 0 {
		opts.FallbackBuckets = defaults.FallbackBuckets
	}
	if opts.WeeklyWindow <= 0 {
		opts.WeeklyWindow = defaults.WeeklyWindow
	}
	return &Forecaster{opts: opts}
}

// Forecast runs a forecast with the default thresholds
func Forecast(records []Record, horizon int, granularity Granularity) (*Result, error) {
	return NewForecaster(DefaultOptions()).Forecast(records, horizon, granularity)
}

// ParseGranularity normalises a granularity name.
// Anything other than monthly or weekly is an unsupported_granularity InputError.
func ParseGranularity(value string) (Granularity, error) {
	switch g := Granularity(strings.ToLower(strings.TrimSpace(value))); g {
	case Monthly, Weekly:
		return g, nil
	default:
		return "", models.NewInputError(models.ErrUnsupportedGranularity, "granularity %q is not one of monthly, weekly", value)
	}
}

// Forecast aggregates records into periods of the given granularity and
// projects horizon periods forward. Granularity is checked before any other
// work. Rows with a zero date or non-finite revenue are dropped; the call
// fails with insufficient_data when too few valid rows or buckets remain.
// A non-positive horizon yields an empty projection and a nil Summary.
func (f *Forecaster) Forecast(records []Record, horizon int, granularity Granularity) (*Result, error) {
	if granularity != Monthly && granularity != Weekly {
		return nil, models.NewInputError(models.ErrUnsupportedGranularity, "granularity %q is not one of monthly, weekly", granularity)
	}

	valid := cleanRecords(records)
	if len(valid) < f.opts.MinRecords {
		return nil, models.NewInputError(models.ErrInsufficientData, "need at least %d valid records, got %d", f.opts.MinRecords, len(valid))
	}

	if horizon < 0 {
		horizon = 0
	}

	if granularity == Weekly {
		return f.weekly(valid, horizon)
	}
	return f.monthly(valid, horizon)
}

// cleanRecords drops unusable rows and zeroes non-finite profit.
// The input slice is not modified.
func cleanRecords(records []Record) []Record {
	valid := make([]Record, 0, len(records))
	for _, r := range records {
		if r.Date.IsZero() || !common.IsFinite(r.Revenue) {
			continue
		}
		if !common.IsFinite(r.Profit) {
			r.Profit = 0
		}
		valid = append(valid, r)
	}
	return valid
}

// bucket is one period accumulator; key orders buckets chronologically
type bucket struct {
	key     int
	label   string
	revenue float64
	profit  float64
}

// aggregate sums records into buckets keyed by keyFn and returns them in key order
func aggregate(records []Record, keyFn func(Record) (int, string)) []bucket {
	byKey := make(map[int]*bucket)
	for _, r := range records {
		key, label := keyFn(r)
		b, ok := byKey[key]
		if !ok {
			b = &bucket{key: key, label: label}
			byKey[key] = b
		}
		b.revenue += r.Revenue
		b.profit += r.Profit
	}

	buckets := make([]bucket, 0, len(byKey))
	for _, b := range byKey {
		buckets = append(buckets, *b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].key < buckets[j].key
	})
	return buckets
}

func historical(buckets []bucket) []PeriodAggregate {
	out := make([]PeriodAggregate, len(buckets))
	for i, b := range buckets {
		out[i] = PeriodAggregate{
			PeriodLabel: b.label,
			Revenue:     common.Round(b.revenue, 2),
			Profit:      common.Round(b.profit, 2),
		}
	}
	return out
}

func revenues(buckets []bucket) []float64 {
	out := make([]float64, len(buckets))
	for i, b := range buckets {
		out[i] = b.revenue
	}
	return out
}

// Volatility bands on the 0-100 risk score
const (
	lowVolatilityBelow      = 30.0
	moderateVolatilityBelow = 60.0
)

var executiveSignals = map[models.RiskLevel]string{
	models.RiskLow:      "Stable growth trajectory with controlled fluctuations.",
	models.RiskModerate: "Growth present but revenue fluctuations detected.",
	models.RiskHigh:     "High volatility: expansion risk or unstable demand pattern.",
}

// analyzeVolatility scores a revenue series by its coefficient of variation
func analyzeVolatility(values []float64) RiskAnalysis {
	m := mean(values)
	ratio := 0.0
	if m > 0 {
		ratio = common.SafeDiv(stdDev(values), m, 0)
	}

	stability := common.Clamp(common.Round((1-ratio)*100, 2), 0, 100)
	risk := common.Round(100-stability, 2)

	level := models.RiskHigh
	switch {
	case risk < lowVolatilityBelow:
		level = models.RiskLow
	case risk < moderateVolatilityBelow:
		level = models.RiskModerate
	}

	return RiskAnalysis{
		RiskScore:       risk,
		StabilityIndex:  stability,
		VolatilityRatio: common.Round(ratio, 4),
		VolatilityLevel: level,
		ExecutiveSignal: executiveSignals[level],
	}
}

// Accuracy thresholds for the confidence label
const (
	highConfidenceFrom   = 80.0
	mediumConfidenceFrom = 60.0
)

func confidenceFor(accuracy float64) string {
	switch {
	case accuracy >= highConfidenceFrom:
		return ConfidenceHigh
	case accuracy >= mediumConfidenceFrom:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// summarize rolls projected points up; nil when nothing was projected
func summarize(points []ForecastPoint, accuracy float64) *Summary {
	if len(points) == 0 {
		return nil
	}

	totalRevenue, totalProfit := 0.0, 0.0
	for _, p := range points {
		totalRevenue += p.Revenue
		totalProfit += p.Profit
	}

	trend := TrendDownward
	if points[len(points)-1].Revenue > points[0].Revenue {
		trend = TrendUpward
	}

	return &Summary{
		TotalForecastRevenue: common.Round(totalRevenue, 2),
		TotalForecastProfit:  common.Round(totalProfit, 2),
		AveragePeriodRevenue: common.Round(totalRevenue/float64(len(points)), 2),
		TrendDirection:       trend,
		ConfidenceLevel:      confidenceFor(accuracy),
		AccuracyScore:        accuracy,
	}
}
