package market

import (
	"github.com/ternarybob/bizpulse/internal/common"
	"github.com/ternarybob/bizpulse/internal/models"
)

var severityWeights = map[models.Severity]float64{
	models.SeverityLow:      1,
	models.SeverityMedium:   2,
	models.SeverityHigh:     3,
	models.SeverityCritical: 4,
}

// Category weights sum to 1.0 across the five named categories
var categoryWeights = map[models.NewsCategory]float64{
	models.CategoryFuelPrice:         0.25,
	models.CategoryInflation:         0.25,
	models.CategorySupplyChain:       0.20,
	models.CategoryGSTTax:            0.15,
	models.CategoryRetailPerformance: 0.15,
	models.CategoryOther:             0.05,
}

const (
	defaultSeverityWeight = 1.0
	defaultCategoryWeight = 0.05
	maxSeverityWeight     = 4.0
	maxCategoryWeight     = 0.25
)

func severityWeight(s models.Severity) float64 {
	if w, ok := severityWeights[s]; ok {
		return w
	}
	return defaultSeverityWeight
}

func categoryWeight(c models.NewsCategory) float64 {
	if w, ok := categoryWeights[c]; ok {
		return w
	}
	return defaultCategoryWeight
}

// ComputeStress reduces a news window to a normalised stress score.
// The score is the weighted total over its theoretical maximum (every item
// critical in a top-weighted category), clamped to 1 and rounded to 2 places.
// TopDriver is the category with the largest weighted sum; ties go to the
// category that appeared first in items.
func ComputeStress(items []models.NewsItem) StressResult {
	if len(items) == 0 {
		return StressResult{
			StressScore: 0,
			StressLevel: models.RiskLow,
			TopDriver:   nil,
			EventCount:  0,
		}
	}

	total := 0.0
	byCategory := make(map[models.NewsCategory]float64)
	var order []models.NewsCategory

	for _, item := range items {
		weighted := severityWeight(item.Severity) * categoryWeight(item.Category)
		total += weighted
		if _, seen := byCategory[item.Category]; !seen {
			order = append(order, item.Category)
		}
		byCategory[item.Category] += weighted
	}

	maxPossible := float64(len(items)) * maxSeverityWeight * maxCategoryWeight
	score := common.Round(common.Clamp(common.SafeDiv(total, maxPossible, 0), 0, 1), 2)

	top := order[0]
	for _, category := range order[1:] {
		if byCategory[category] > byCategory[top] {
			top = category
		}
	}

	return StressResult{
		StressScore: score,
		StressLevel: models.LevelFor(score),
		TopDriver:   &top,
		EventCount:  len(items),
	}
}
