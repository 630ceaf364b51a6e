// Package forecast aggregates sale records into periods and projects revenue
// and profit forward with a growth-plus-seasonality model.
// All functions are stateless and perform no I/O.
package forecast

import (
	"time"

	"github.com/ternarybob/bizpulse/internal/models"
)

// Granularity is the bucketing period of a forecast
type Granularity string

const (
	Monthly Granularity = "monthly"
	Weekly  Granularity = "weekly"
)

// Model labels
const (
	ModelGrowthSeasonal = "Growth-Based Forecast + Seasonal Index"
	ModelFlatWeekly     = "Flat Weekly Projection"
)

// Trend directions
const (
	TrendUpward   = "upward"
	TrendDownward = "downward"
)

// Confidence labels derived from the accuracy score
const (
	ConfidenceHigh   = "High"
	ConfidenceMedium = "Medium"
	ConfidenceLow    = "Low"
)

// Record is one raw sale observation
type Record struct {
	Date    time.Time
	Revenue float64
	Profit  float64
}

// PeriodAggregate is the revenue and profit total of one historical bucket
type PeriodAggregate struct {
	PeriodLabel string  `json:"period_label"` // "2024-03" or "2024-W09"
	Revenue     float64 `json:"revenue"`
	Profit      float64 `json:"profit"`
}

// ForecastPoint is a projected future period with its confidence band
type ForecastPoint struct {
	PeriodLabel string  `json:"period_label"`
	Revenue     float64 `json:"revenue"`
	Profit      float64 `json:"profit"`
	LowerBound  float64 `json:"lower_bound"`
	UpperBound  float64 `json:"upper_bound"`
}

// Summary rolls the projected periods up for advisory consumers
type Summary struct {
	TotalForecastRevenue float64 `json:"total_forecast_revenue"`
	TotalForecastProfit  float64 `json:"total_forecast_profit"`
	AveragePeriodRevenue float64 `json:"average_period_revenue"`
	TrendDirection       string  `json:"trend_direction"`
	ConfidenceLevel      string  `json:"confidence_level"`
	AccuracyScore        float64 `json:"accuracy_score"`
}

// RiskAnalysis is the volatility read on the historical revenue series
type RiskAnalysis struct {
	RiskScore       float64          `json:"risk_score"`      // 0-100
	StabilityIndex  float64          `json:"stability_index"` // 0-100
	VolatilityRatio float64          `json:"volatility_ratio"`
	VolatilityLevel models.RiskLevel `json:"volatility_level"` // Low, Moderate or High
	ExecutiveSignal string           `json:"executive_signal"`
}

// Result is the full output of a forecast run
type Result struct {
	Granularity        Granularity       `json:"granularity"`
	Model              string            `json:"model"`
	SeasonalAdjustment bool              `json:"seasonal_adjustment"`
	Historical         []PeriodAggregate `json:"historical"`
	Forecast           []ForecastPoint   `json:"forecast"`
	AccuracyScore      float64           `json:"accuracy_score"` // 0-100
	AverageGrowth      float64           `json:"average_growth"`
	ResidualStdDev     float64           `json:"residual_std_dev"`
	Summary            *Summary          `json:"summary"` // nil when nothing was projected
	RiskAnalysis       RiskAnalysis      `json:"risk_analysis"`
}
