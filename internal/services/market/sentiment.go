package market

import (
	"strings"

	"github.com/jonreiter/govader"

	"github.com/ternarybob/bizpulse/internal/common"
)

// SentimentScorer returns a compound polarity in [-1, 1] for a piece of text.
// Negative means bad news.
type SentimentScorer interface {
	Score(text string) float64
}

// VaderScorer scores text with the VADER lexicon and rules. The analyzer
// loads its lexicon once at construction and is read-only afterwards.
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVaderScorer creates a scorer over the standard VADER lexicon
func NewVaderScorer() *VaderScorer {
	return &VaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Score returns the VADER compound score rounded to 4 places.
// Blank text scores 0.
func (s *VaderScorer) Score(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	return common.Round(s.analyzer.PolarityScores(text).Compound, 4)
}
