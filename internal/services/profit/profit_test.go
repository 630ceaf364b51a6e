package profit

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/bizpulse/internal/models"
)

func sale(product, category string, units int, revenue, profit float64) models.SaleRecord {
	return models.SaleRecord{
		ProductName:  product,
		Category:     category,
		QuantitySold: units,
		TotalRevenue: revenue,
		GrossProfit:  profit,
	}
}

func sampleSales() []models.SaleRecord {
	return []models.SaleRecord{
		sale("Apples", "Produce", 10, 1000, 300),
		sale("Apples", "Produce", 5, 500, 150),
		sale("Bread", "Produce", 20, 2000, 100),
		sale("Cheese", "Dairy", 4, 400, -20),
		sale("Dates", "Dairy", 1, 100, 30),
	}
}

func productNames(items []ProductProfit) []string {
	out := make([]string, len(items))
	for i, p := range items {
		out[i] = p.Product
	}
	return out
}

func marginNames(items []MarginEntry) []string {
	out := make([]string, len(items))
	for i, m := range items {
		out[i] = m.Product
	}
	return out
}

func TestAnalyze_Empty(t *testing.T) {
	_, err := Analyze(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrInsufficientData))

	_, err = Analyze([]models.SaleRecord{sale("X", "Y", 1, math.NaN(), 1)})
	assert.True(t, errors.Is(err, models.ErrInsufficientData))
}

func TestAnalyze_ProductContribution(t *testing.T) {
	report, err := Analyze(sampleSales())
	require.NoError(t, err)

	assert.Equal(t, []string{"Apples", "Bread", "Dates", "Cheese"}, productNames(report.ProductContribution))

	apples := report.ProductContribution[0]
	assert.Equal(t, 1500.0, apples.Revenue)
	assert.Equal(t, 450.0, apples.Profit)
	assert.Equal(t, 15, apples.Units)
	assert.Equal(t, 80.36, apples.ContributionPct)
	assert.Equal(t, 30.0, apples.MarginPct)

	assert.Equal(t, 17.86, report.ProductContribution[1].ContributionPct)
	assert.Equal(t, -3.57, report.ProductContribution[3].ContributionPct)

	assert.Equal(t, productNames(report.ProductContribution), productNames(report.TopProfitDrivers))
}

func TestAnalyze_CategoryContribution(t *testing.T) {
	report, err := Analyze(sampleSales())
	require.NoError(t, err)

	require.Len(t, report.CategoryContribution, 2)
	produce := report.CategoryContribution[0]
	assert.Equal(t, "Produce", produce.Category)
	assert.Equal(t, 98.21, produce.ContributionPct)
	assert.Equal(t, 15.71, produce.MarginPct)
	assert.Equal(t, 35, produce.Units)

	dairy := report.CategoryContribution[1]
	assert.Equal(t, 1.79, dairy.ContributionPct)
	assert.Equal(t, 2.0, dairy.MarginPct)
}

func TestAnalyze_MarginAnalysis(t *testing.T) {
	report, err := Analyze(sampleSales())
	require.NoError(t, err)

	assert.Equal(t, []string{"Cheese", "Bread", "Apples", "Dates"}, marginNames(report.MarginAnalysis))

	statuses := make([]string, len(report.MarginAnalysis))
	for i, m := range report.MarginAnalysis {
		statuses[i] = m.Status
	}
	assert.Equal(t, []string{MarginCritical, MarginLow, MarginExcellent, MarginExcellent}, statuses)
}

func TestMarginStatus(t *testing.T) {
	tests := []struct {
		margin float64
		want   string
	}{
		{-10, MarginCritical},
		{4.99, MarginCritical},
		{5, MarginLow},
		{9.99, MarginLow},
		{10, MarginHealthy},
		{24.99, MarginHealthy},
		{25, MarginExcellent},
	}

	for _, tt := range tests {
		if got := marginStatus(tt.margin); got != tt.want {
			t.Errorf("marginStatus(%v) = %v, want %v", tt.margin, got, tt.want)
		}
	}
}

func TestAnalyze_HiddenLossMakers(t *testing.T) {
	report, err := Analyze(sampleSales())
	require.NoError(t, err)

	// Median revenue is 950; only Bread is above it with a thin margin
	require.Len(t, report.HiddenLossMakers, 1)
	assert.Equal(t, "Bread", report.HiddenLossMakers[0].Product)
	assert.Equal(t, 5.0, report.HiddenLossMakers[0].MarginPct)
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"single", []float64{7}, 7},
		{"odd", []float64{3, 1, 2}, 2},
		{"even interpolates", []float64{2000, 100, 1500, 400}, 950},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, median(tt.values))
		})
	}
}

func TestAnalyze_Efficiency(t *testing.T) {
	report, err := Analyze(sampleSales())
	require.NoError(t, err)

	require.Len(t, report.EfficiencyScores, 2)

	best := report.EfficiencyScores[0]
	assert.Equal(t, "Produce", best.Category)
	assert.Equal(t, 15.71, best.ProfitPerUnit)
	assert.Equal(t, 100.0, best.Score)
	assert.Equal(t, EfficiencyHigh, best.Label)

	worst := report.EfficiencyScores[1]
	assert.Equal(t, 2.0, worst.ProfitPerUnit)
	assert.Equal(t, 12.73, worst.Score)
	assert.Equal(t, EfficiencyLow, worst.Label)
}

func TestAnalyze_HealthAndInsights(t *testing.T) {
	report, err := Analyze(sampleSales())
	require.NoError(t, err)

	assert.Equal(t, Health{
		TotalRevenue:       4000,
		TotalProfit:        560,
		OverallMargin:      14,
		ProfitableProducts: 3,
		LossMakingProducts: 1,
	}, report.Health)

	require.Len(t, report.Insights, 4)
	assert.Equal(t, InsightWarning, report.Insights[0].Type)
	assert.Contains(t, report.Insights[0].Message, "14.00%")
	assert.Contains(t, report.Insights[1].Message, "1 product(s) are loss-making")
	assert.Contains(t, report.Insights[2].Message, "Hidden margin risk detected in: Bread.")
	assert.Equal(t, InsightPositive, report.Insights[3].Type)
	assert.Contains(t, report.Insights[3].Message, "'Apples'")
}

func TestAnalyze_ZeroRevenueAndUnits(t *testing.T) {
	report, err := Analyze([]models.SaleRecord{
		sale("Sample", "Promo", 0, 0, 0),
		sale("Freebie", "Promo", 0, 0, 0),
	})
	require.NoError(t, err)

	assert.Equal(t, 0.0, report.Health.OverallMargin)
	assert.Equal(t, 2, report.Health.LossMakingProducts)

	for _, p := range report.ProductContribution {
		assert.Equal(t, 0.0, p.ContributionPct)
		assert.Equal(t, 0.0, p.MarginPct)
	}
	for _, e := range report.EfficiencyScores {
		assert.Equal(t, 0.0, e.ProfitPerUnit)
		assert.Equal(t, 0.0, e.Score)
		assert.Equal(t, EfficiencyLow, e.Label)
	}
	assert.Equal(t, InsightCritical, report.Insights[0].Type)
}

func TestAnalyze_Limits(t *testing.T) {
	var sales []models.SaleRecord
	for i := 0; i < 15; i++ {
		sales = append(sales, sale(string(rune('A'+i)), "All", 1, 100, float64(i)))
	}

	report, err := Analyze(sales)
	require.NoError(t, err)

	assert.Len(t, report.ProductContribution, 10)
	assert.Len(t, report.MarginAnalysis, 10)
	assert.Len(t, report.TopProfitDrivers, 5)
	assert.Equal(t, "O", report.TopProfitDrivers[0].Product)
	assert.Equal(t, "A", report.MarginAnalysis[0].Product)
}
