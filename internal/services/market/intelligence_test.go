package market

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ternarybob/bizpulse/internal/models"
)

func scoredItem(category models.NewsCategory, severity models.Severity, sentiment float64) models.NewsItem {
	return models.NewsItem{Category: category, Severity: severity, SentimentScore: sentiment}
}

func TestSummarizeIntelligence_Empty(t *testing.T) {
	got := SummarizeIntelligence(nil)

	assert.Equal(t, SentimentNeutral, got.OverallSentiment)
	assert.Equal(t, 0.0, got.StressScore)
	assert.Equal(t, "None", got.DominantCategory)
	assert.Equal(t, models.SeverityLow, got.SeverityLevel)
	assert.Equal(t, 0, got.EventCount)
}

func TestSummarizeIntelligence(t *testing.T) {
	tests := []struct {
		name          string
		items         []models.NewsItem
		wantSentiment string
		wantStress    float64
		wantCategory  string
		wantSeverity  models.Severity
	}{
		{
			name: "negative window",
			items: []models.NewsItem{
				scoredItem(models.CategoryFuelPrice, models.SeverityHigh, -0.6),
				scoredItem(models.CategoryFuelPrice, models.SeverityMedium, -0.4),
				scoredItem(models.CategoryGSTTax, models.SeverityHigh, 0.1),
			},
			// |-0.3| * 50 + (8/3) * 12.5
			wantSentiment: SentimentNegative,
			wantStress:    48.33,
			wantCategory:  "fuel_price",
			wantSeverity:  models.SeverityHigh,
		},
		{
			name: "positive window",
			items: []models.NewsItem{
				scoredItem(models.CategoryRetailPerformance, models.SeverityLow, 0.5),
				scoredItem(models.CategoryRetailPerformance, models.SeverityLow, 0.3),
			},
			// 0.4 * 50 + 1 * 12.5
			wantSentiment: SentimentPositive,
			wantStress:    32.5,
			wantCategory:  "retail_performance",
			wantSeverity:  models.SeverityLow,
		},
		{
			name: "frequency ties go to first seen",
			items: []models.NewsItem{
				scoredItem(models.CategoryGSTTax, models.SeverityMedium, 0),
				scoredItem(models.CategoryFuelPrice, models.SeverityLow, 0),
			},
			wantSentiment: SentimentNeutral,
			wantStress:    18.75,
			wantCategory:  "gst_tax",
			wantSeverity:  models.SeverityMedium,
		},
		{
			name: "blank fields default to other and low",
			items: []models.NewsItem{
				scoredItem("", "", 0.1),
			},
			wantSentiment: SentimentNeutral,
			wantStress:    17.5,
			wantCategory:  "other",
			wantSeverity:  models.SeverityLow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SummarizeIntelligence(tt.items)

			assert.Equal(t, tt.wantSentiment, got.OverallSentiment)
			assert.Equal(t, tt.wantStress, got.StressScore)
			assert.Equal(t, tt.wantCategory, got.DominantCategory)
			assert.Equal(t, tt.wantSeverity, got.SeverityLevel)
			assert.Equal(t, len(tt.items), got.EventCount)
		})
	}
}
