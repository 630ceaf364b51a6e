// Package risk blends market stress with internal business risk ratios into a
// single weighted risk index.
// All functions are stateless and perform no I/O.
package risk

import (
	"github.com/ternarybob/bizpulse/internal/common"
	"github.com/ternarybob/bizpulse/internal/models"
)

// Component weights (sum to 1.0)
const (
	WeightMarketStress     = 0.30
	WeightMarginRisk       = 0.25
	WeightInventoryRisk    = 0.20
	WeightRevenueTrendRisk = 0.15
	WeightExpenseRatioRisk = 0.10
)

// Sub-scores used when no business summary is available
const (
	DefaultMarginRisk       = 0.3
	DefaultInventoryRisk    = 0.2
	DefaultRevenueTrendRisk = 0.2
	DefaultExpenseRatioRisk = 0.25
)

// Binary revenue trend heuristic: a falling latest period scores high,
// anything else scores low. Magnitude is ignored.
const (
	fallingTrendRisk = 0.6
	steadyTrendRisk  = 0.2
)

// Components are the five weighted inputs, each in [0, 1]
type Components struct {
	MarketStress     float64 `json:"market_stress"`
	MarginRisk       float64 `json:"margin_risk"`
	InventoryRisk    float64 `json:"inventory_risk"`
	RevenueTrendRisk float64 `json:"revenue_trend_risk"`
	ExpenseRatioRisk float64 `json:"expense_ratio_risk"`
}

// Result is the composed risk index
type Result struct {
	RiskScore        float64          `json:"risk_score"` // [0, 1], 2 places
	RiskLevel        models.RiskLevel `json:"risk_level"`
	OpportunityScore float64          `json:"opportunity_score"` // 1 - RiskScore
	Components       Components       `json:"components"`
}

// ComputeRisk composes the risk index from the five sub-scores
func ComputeRisk(marketStress, marginRisk, inventoryRisk, revenueTrendRisk, expenseRatioRisk float64) Result {
	return Compose(Components{
		MarketStress:     marketStress,
		MarginRisk:       marginRisk,
		InventoryRisk:    inventoryRisk,
		RevenueTrendRisk: revenueTrendRisk,
		ExpenseRatioRisk: expenseRatioRisk,
	})
}

// Compose clamps each component to [0, 1], takes the weighted sum, caps it at
// 1 and rounds to 2 places. Levels share the stress thresholds.
func Compose(c Components) Result {
	c = c.clamped()

	weighted := c.MarketStress*WeightMarketStress +
		c.MarginRisk*WeightMarginRisk +
		c.InventoryRisk*WeightInventoryRisk +
		c.RevenueTrendRisk*WeightRevenueTrendRisk +
		c.ExpenseRatioRisk*WeightExpenseRatioRisk

	score := common.Round(common.Clamp(weighted, 0, 1), 2)

	return Result{
		RiskScore:        score,
		RiskLevel:        models.LevelFor(score),
		OpportunityScore: common.Round(1-score, 2),
		Components:       c,
	}
}

func (c Components) clamped() Components {
	return Components{
		MarketStress:     common.Clamp(c.MarketStress, 0, 1),
		MarginRisk:       common.Clamp(c.MarginRisk, 0, 1),
		InventoryRisk:    common.Clamp(c.InventoryRisk, 0, 1),
		RevenueTrendRisk: common.Clamp(c.RevenueTrendRisk, 0, 1),
		ExpenseRatioRisk: common.Clamp(c.ExpenseRatioRisk, 0, 1),
	}
}

// DeriveComponents turns a business summary into risk sub-scores alongside the
// given market stress. A nil summary yields the conservative defaults.
//
//   - expense ratio risk: expenses / revenue
//   - margin risk: 1 - net profit / revenue
//   - inventory risk: low-stock alerts / product count
//   - revenue trend risk: 0.6 if the latest month fell against the one before, else 0.2
//
// Zero revenue is treated as 1. The product count falls back to the number of
// categories, then to 1.
func DeriveComponents(marketStress float64, summary *models.BusinessSummary) Components {
	if summary == nil {
		return Components{
			MarketStress:     marketStress,
			MarginRisk:       DefaultMarginRisk,
			InventoryRisk:    DefaultInventoryRisk,
			RevenueTrendRisk: DefaultRevenueTrendRisk,
			ExpenseRatioRisk: DefaultExpenseRatioRisk,
		}.clamped()
	}

	revenue := summary.Financials.TotalRevenue
	if revenue == 0 {
		revenue = 1
	}

	products := summary.TotalProducts
	if products <= 0 {
		products = len(summary.CategoryPerformance)
	}
	if products <= 0 {
		products = 1
	}

	trendRisk := steadyTrendRisk
	if n := len(summary.MonthlyTrend); n >= 2 && summary.MonthlyTrend[n-1].Revenue < summary.MonthlyTrend[n-2].Revenue {
		trendRisk = fallingTrendRisk
	}

	return Components{
		MarketStress:     marketStress,
		MarginRisk:       1 - common.SafeDiv(summary.Financials.NetProfit, revenue, 0),
		InventoryRisk:    float64(len(summary.LowStockAlerts)) / float64(products),
		RevenueTrendRisk: trendRisk,
		ExpenseRatioRisk: common.SafeDiv(summary.Financials.TotalExpenses, revenue, 0),
	}.clamped()
}
