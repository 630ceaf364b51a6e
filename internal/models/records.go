package models

import (
	"encoding/json"
	"time"
)

// ForecastRecord is a stored forecast run.
// Result holds the full forecast output as JSON.
type ForecastRecord struct {
	ID                 string          `json:"id"`                             // fc_{uuid}
	ForecastType       string          `json:"forecast_type"`                  // Always "revenue" for now
	Granularity        string          `json:"granularity" badgerhold:"index"` // monthly, weekly
	Horizon            int             `json:"horizon"`
	AccuracyScore      float64         `json:"accuracy_score"`
	SeasonalAdjustment bool            `json:"seasonal_adjustment"`
	Result             json.RawMessage `json:"result"`
	CreatedAt          time.Time       `json:"created_at"`
}

// SimulationRecord is a stored scenario run with its inputs and outcome
type SimulationRecord struct {
	ID               string             `json:"id"` // sim_{uuid}
	ScenarioName     string             `json:"scenario_name"`
	Levers           map[string]float64 `json:"levers"`
	BaseRevenue      float64            `json:"base_revenue"`
	BaseProfit       float64            `json:"base_profit"`
	ProjectedRevenue float64            `json:"projected_revenue"`
	ProjectedProfit  float64            `json:"projected_profit"`
	ProjectedMargin  float64            `json:"projected_margin"`
	RiskLevel        RiskLevel          `json:"risk_level"`
	Recommendation   string             `json:"recommendation"`
	CreatedAt        time.Time          `json:"created_at"`
}

// RiskSnapshot is the output of one scheduled risk refresh
type RiskSnapshot struct {
	ID               string    `json:"id"` // risk_{uuid}
	StressScore      float64   `json:"stress_score"`
	StressLevel      RiskLevel `json:"stress_level"`
	EventCount       int       `json:"event_count"`
	MarketStress     float64   `json:"market_stress"`
	MarginRisk       float64   `json:"margin_risk"`
	InventoryRisk    float64   `json:"inventory_risk"`
	RevenueTrendRisk float64   `json:"revenue_trend_risk"`
	ExpenseRatioRisk float64   `json:"expense_ratio_risk"`
	RiskScore        float64   `json:"risk_score"`
	RiskLevel        RiskLevel `json:"risk_level"`
	OpportunityScore float64   `json:"opportunity_score"`
	UsedDefaults     bool      `json:"used_defaults"` // No business summary was available
	CreatedAt        time.Time `json:"created_at"`
}
