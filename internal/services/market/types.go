// Package market classifies news headlines and rolls recent news up into
// market stress and intelligence readings.
// All exported functions are deterministic and perform no I/O.
package market

import "github.com/ternarybob/bizpulse/internal/models"

// StressResult is the aggregate stress reading over a news window
type StressResult struct {
	StressScore float64              `json:"stress_score"` // [0, 1]
	StressLevel models.RiskLevel     `json:"stress_level"`
	TopDriver   *models.NewsCategory `json:"top_driver"` // nil when there are no events
	EventCount  int                  `json:"event_count"`
}

// Sentiment labels used by Intelligence
const (
	SentimentPositive = "Positive"
	SentimentNeutral  = "Neutral"
	SentimentNegative = "Negative"
)

// Intelligence is a sentiment and severity digest of recent news
type Intelligence struct {
	OverallSentiment string          `json:"overall_sentiment"`
	AverageSentiment float64         `json:"average_sentiment"`
	StressScore      float64         `json:"stress_score"` // 0-100 scale
	DominantCategory string          `json:"dominant_category"`
	SeverityLevel    models.Severity `json:"severity_level"`
	EventCount       int             `json:"event_count"`
}
