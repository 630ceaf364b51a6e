// Package simulation projects revenue and profit under percentage-based
// what-if levers applied to a baseline.
// All functions are stateless and perform no I/O.
package simulation

import (
	"github.com/ternarybob/bizpulse/internal/common"
	"github.com/ternarybob/bizpulse/internal/models"
)

// Input is a baseline plus the levers to apply. Percentages are deltas,
// so 10 means +10%.
type Input struct {
	BaseRevenue         float64 `json:"base_revenue"`
	BaseProfit          float64 `json:"base_profit"`
	PriceChangePct      float64 `json:"price_change_percent"`
	DemandChangePct     float64 `json:"demand_change_percent"`
	CostChangePct       float64 `json:"cost_change_percent"`
	NewProductRevenue   float64 `json:"new_product_revenue"`
	ExpenseReductionPct float64 `json:"expense_reduction_percent"`
}

// Result is the projected outcome of a scenario
type Result struct {
	ProjectedRevenue float64 `json:"projected_revenue"`
	ProjectedProfit  float64 `json:"projected_profit"`
	ProjectedMargin  float64 `json:"projected_margin"` // Percent, 0 when revenue is 0
}

// Simulate applies the levers in order: price, then demand, then new product
// revenue on the revenue side; cost change, then expense reduction on the
// implied cost base (revenue minus profit). Money and margin are rounded to
// 2 places. Non-finite inputs count as 0.
func Simulate(in Input) Result {
	in = in.sanitized()

	revenueAfterPrice := in.BaseRevenue * (1 + in.PriceChangePct/100)
	revenueAfterDemand := revenueAfterPrice * (1 + in.DemandChangePct/100)
	finalRevenue := revenueAfterDemand + in.NewProductRevenue

	costEstimate := in.BaseRevenue - in.BaseProfit
	costAfterChange := costEstimate * (1 + in.CostChangePct/100)
	costAfterReduction := costAfterChange * (1 - in.ExpenseReductionPct/100)

	projectedProfit := finalRevenue - costAfterReduction

	margin := 0.0
	if finalRevenue != 0 {
		margin = projectedProfit / finalRevenue * 100
	}

	return Result{
		ProjectedRevenue: common.Round(finalRevenue, 2),
		ProjectedProfit:  common.Round(projectedProfit, 2),
		ProjectedMargin:  common.Round(margin, 2),
	}
}

func (in Input) sanitized() Input {
	finite := func(v float64) float64 {
		if common.IsFinite(v) {
			return v
		}
		return 0
	}
	return Input{
		BaseRevenue:         finite(in.BaseRevenue),
		BaseProfit:          finite(in.BaseProfit),
		PriceChangePct:      finite(in.PriceChangePct),
		DemandChangePct:     finite(in.DemandChangePct),
		CostChangePct:       finite(in.CostChangePct),
		NewProductRevenue:   finite(in.NewProductRevenue),
		ExpenseReductionPct: finite(in.ExpenseReductionPct),
	}
}

// Recommendations attached to an Outcome
const (
	RecommendationIncrease = "Scenario increases profitability."
	RecommendationReduce   = "Scenario may reduce profitability. Evaluate carefully."
)

// Outcome is a simulation with its baseline, the current risk level and a
// recommendation
type Outcome struct {
	BaselineRevenue float64          `json:"baseline_revenue"`
	BaselineProfit  float64          `json:"baseline_profit"`
	Simulation      Result           `json:"simulation"`
	RiskLevel       models.RiskLevel `json:"risk_level"`
	Recommendation  string           `json:"recommendation"`
}

// Evaluate simulates levers against a baseline and recommends the scenario
// when projected profit beats the baseline profit.
func Evaluate(baseRevenue, baseProfit float64, levers Levers, riskLevel models.RiskLevel) Outcome {
	result := Simulate(levers.Apply(baseRevenue, baseProfit))

	recommendation := RecommendationReduce
	if result.ProjectedProfit > baseProfit {
		recommendation = RecommendationIncrease
	}

	return Outcome{
		BaselineRevenue: baseRevenue,
		BaselineProfit:  baseProfit,
		Simulation:      result,
		RiskLevel:       riskLevel,
		Recommendation:  recommendation,
	}
}
