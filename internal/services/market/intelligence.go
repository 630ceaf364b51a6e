package market

import (
	"math"

	"github.com/ternarybob/bizpulse/internal/common"
	"github.com/ternarybob/bizpulse/internal/models"
)

const (
	// Average sentiment beyond +/- this is Positive/Negative
	sentimentBand = 0.2
	// Stress index = |avg sentiment| * sentimentStressScale + avg severity weight * severityStressScale
	sentimentStressScale = 50.0
	severityStressScale  = 12.5
)

// SummarizeIntelligence digests a window of recent news into an overall
// sentiment label, a 0-100 stress index and the most frequent category and
// severity. Frequency ties go to the value seen first.
func SummarizeIntelligence(items []models.NewsItem) Intelligence {
	if len(items) == 0 {
		return Intelligence{
			OverallSentiment: SentimentNeutral,
			StressScore:      0,
			DominantCategory: "None",
			SeverityLevel:    models.SeverityLow,
		}
	}

	sentimentSum := 0.0
	severitySum := 0.0
	categories := newCounter[models.NewsCategory]()
	severities := newCounter[models.Severity]()

	for _, item := range items {
		if common.IsFinite(item.SentimentScore) {
			sentimentSum += item.SentimentScore
		}

		category := item.Category
		if category == "" {
			category = models.CategoryOther
		}
		categories.add(category)

		severity := item.Severity
		if severity == "" {
			severity = models.SeverityLow
		}
		severities.add(severity)
		severitySum += severityWeight(severity)
	}

	n := float64(len(items))
	avgSentiment := sentimentSum / n
	avgSeverity := severitySum / n

	overall := SentimentNeutral
	switch {
	case avgSentiment > sentimentBand:
		overall = SentimentPositive
	case avgSentiment < -sentimentBand:
		overall = SentimentNegative
	}

	return Intelligence{
		OverallSentiment: overall,
		AverageSentiment: common.Round(avgSentiment, 4),
		StressScore:      common.Round(math.Abs(avgSentiment)*sentimentStressScale+avgSeverity*severityStressScale, 2),
		DominantCategory: string(categories.top()),
		SeverityLevel:    severities.top(),
		EventCount:       len(items),
	}
}

// counter tallies values and remembers first-seen order for tie-breaks
type counter[T comparable] struct {
	counts map[T]int
	order  []T
}

func newCounter[T comparable]() *counter[T] {
	return &counter[T]{counts: make(map[T]int)}
}

func (c *counter[T]) add(v T) {
	if _, ok := c.counts[v]; !ok {
		c.order = append(c.order, v)
	}
	c.counts[v]++
}

func (c *counter[T]) top() T {
	var best T
	bestCount := 0
	for _, v := range c.order {
		if c.counts[v] > bestCount {
			best = v
			bestCount = c.counts[v]
		}
	}
	return best
}
