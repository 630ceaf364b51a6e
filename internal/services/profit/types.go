// Package profit breaks sales down into the products and categories that
// drive or erode profit.
package profit

// Margin status labels
const (
	MarginCritical  = "critical"
	MarginLow       = "low"
	MarginHealthy   = "healthy"
	MarginExcellent = "excellent"
)

// Efficiency labels
const (
	EfficiencyHigh   = "High"
	EfficiencyMedium = "Medium"
	EfficiencyLow    = "Low"
)

// Insight types
const (
	InsightCritical = "critical"
	InsightWarning  = "warning"
	InsightPositive = "positive"
)

// ProductProfit is one product's totals and share of overall profit
type ProductProfit struct {
	Product         string  `json:"product_name"`
	Revenue         float64 `json:"revenue"`
	Profit          float64 `json:"profit"`
	Units           int     `json:"units"`
	ContributionPct float64 `json:"profit_contribution_pct"`
	MarginPct       float64 `json:"margin_pct"`
}

// CategoryProfit is one category's totals and share of overall profit
type CategoryProfit struct {
	Category        string  `json:"category"`
	Revenue         float64 `json:"revenue"`
	Profit          float64 `json:"profit"`
	Units           int     `json:"units"`
	ContributionPct float64 `json:"profit_contribution_pct"`
	MarginPct       float64 `json:"margin_pct"`
}

// MarginEntry is a product margin with its status label
type MarginEntry struct {
	Product   string  `json:"product_name"`
	Revenue   float64 `json:"revenue"`
	Profit    float64 `json:"profit"`
	MarginPct float64 `json:"margin_pct"`
	Status    string  `json:"margin_status"`
}

// Efficiency is profit per unit for a category, scored against the best one
type Efficiency struct {
	Category      string  `json:"category"`
	Revenue       float64 `json:"revenue"`
	Profit        float64 `json:"profit"`
	Units         int     `json:"units"`
	ProfitPerUnit float64 `json:"profit_per_unit"`
	Score         float64 `json:"efficiency_score"` // 100 for the best category
	Label         string  `json:"efficiency_label"`
}

// Health holds the overall totals
type Health struct {
	TotalRevenue       float64 `json:"total_revenue"`
	TotalProfit        float64 `json:"total_profit"`
	OverallMargin      float64 `json:"overall_margin"`
	ProfitableProducts int     `json:"profitable_products"`
	LossMakingProducts int     `json:"loss_making_products"`
}

// Insight is a rule-based observation about the report
type Insight struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// Report is the full profit driver analysis
type Report struct {
	ProductContribution  []ProductProfit  `json:"product_contribution"`  // Top 10 by profit
	CategoryContribution []CategoryProfit `json:"category_contribution"` // By profit, descending
	MarginAnalysis       []MarginEntry    `json:"margin_analysis"`       // 10 lowest margins
	HiddenLossMakers     []MarginEntry    `json:"hidden_loss_makers"`
	TopProfitDrivers     []ProductProfit  `json:"top_profit_drivers"` // Top 5 by profit
	EfficiencyScores     []Efficiency     `json:"efficiency_scores"`
	Health               Health           `json:"health"`
	Insights             []Insight        `json:"insights"`
}
