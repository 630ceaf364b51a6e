package market

import (
	"strings"
	"time"

	"github.com/ternarybob/bizpulse/internal/common"
	"github.com/ternarybob/bizpulse/internal/models"
)

type keywordRule struct {
	category models.NewsCategory
	keywords []string
}

// categoryKeywords is ordered; on equal hit counts the earlier category wins
var categoryKeywords = []keywordRule{
	{models.CategoryFuelPrice, []string{"petrol", "diesel", "crude", "oil price", "fuel", "brent"}},
	{models.CategoryGSTTax, []string{"gst", "tax", "tariff", "cess", "duty", "import duty"}},
	{models.CategoryInflation, []string{"inflation", "cpi", "wpi", "price rise", "costlier", "food prices"}},
	{models.CategorySupplyChain, []string{"shortage", "logistics", "freight", "port", "supply chain", "delay", "container", "shipping"}},
	{models.CategoryRetailPerformance, []string{"retail", "fmcg", "footfall", "sales growth", "consumer demand", "mall", "store expansion"}},
}

// Sentiment thresholds for severity escalation
const (
	strongNegativeSentiment = -0.5
	mildNegativeSentiment   = -0.2
)

// Classify maps a headline to a category and severity by keyword hits.
// Matching is a case-insensitive substring test, so "port" also hits "report".
// Headlines with no hits fall back to broad finance and trade signals, then other/low.
func Classify(headline string) (models.NewsCategory, models.Severity) {
	lower := strings.ToLower(headline)

	bestCategory := models.CategoryOther
	bestHits := 0
	for _, rule := range categoryKeywords {
		hits := 0
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				hits++
			}
		}
		if hits > bestHits {
			bestCategory = rule.category
			bestHits = hits
		}
	}

	if bestHits == 0 {
		switch {
		case strings.Contains(lower, "bank") || strings.Contains(lower, "finance"):
			return models.CategoryRetailPerformance, models.SeverityLow
		case strings.Contains(lower, "import") || strings.Contains(lower, "export"):
			return models.CategorySupplyChain, models.SeverityLow
		default:
			return models.CategoryOther, models.SeverityLow
		}
	}

	return bestCategory, severityForHits(bestHits)
}

func severityForHits(hits int) models.Severity {
	switch {
	case hits >= 3:
		return models.SeverityHigh
	case hits == 2:
		return models.SeverityMedium
	default:
		return models.SeverityLow
	}
}

// EscalateSeverity raises severity for clearly negative news.
// Below -0.5 the item is always high; below -0.2 a low item becomes medium.
func EscalateSeverity(severity models.Severity, sentiment float64) models.Severity {
	if sentiment < strongNegativeSentiment {
		return models.SeverityHigh
	}
	if sentiment < mildNegativeSentiment && severity == models.SeverityLow {
		return models.SeverityMedium
	}
	return severity
}

// Classifier combines keyword classification with an injected sentiment scorer
type Classifier struct {
	scorer SentimentScorer
	now    func() time.Time
}

// ClassifierOption configures a Classifier
type ClassifierOption func(*Classifier)

// WithClock overrides the clock used for FetchedAt
func WithClock(now func() time.Time) ClassifierOption {
	return func(c *Classifier) {
		c.now = now
	}
}

// NewClassifier creates a classifier. A nil scorer uses a VaderScorer.
func NewClassifier(scorer SentimentScorer, opts ...ClassifierOption) *Classifier {
	if scorer == nil {
		scorer = NewVaderScorer()
	}
	c := &Classifier{
		scorer: scorer,
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ScoreSentiment returns the compound sentiment of text in [-1, 1].
// Non-finite scorer output counts as neutral.
func (c *Classifier) ScoreSentiment(text string) float64 {
	score := c.scorer.Score(text)
	if !common.IsFinite(score) {
		return 0
	}
	return common.Clamp(score, -1, 1)
}

// Analyze classifies a headline, scores its sentiment and stamps the fetch time.
// Source, URL and PublishedAt are left for the caller.
func (c *Classifier) Analyze(headline string) models.NewsItem {
	category, severity := Classify(headline)
	sentiment := c.ScoreSentiment(headline)

	return models.NewsItem{
		Headline:       headline,
		Category:       category,
		Severity:       EscalateSeverity(severity, sentiment),
		SentimentScore: sentiment,
		FetchedAt:      c.now(),
	}
}
