package models

import "time"

// NewsCategory is the business-impact category assigned to a headline
type NewsCategory string

const (
	CategoryFuelPrice         NewsCategory = "fuel_price"
	CategoryGSTTax            NewsCategory = "gst_tax"
	CategoryInflation         NewsCategory = "inflation"
	CategorySupplyChain       NewsCategory = "supply_chain"
	CategoryRetailPerformance NewsCategory = "retail_performance"
	CategoryOther             NewsCategory = "other"
)

// Severity is the ordinal impact level of a headline
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// NewsItem is a classified headline.
// Once stored it is immutable; the URL is the deduplication key.
type NewsItem struct {
	ID             string       `json:"id"` // news_{uuid}
	Headline       string       `json:"headline"`
	Source         string       `json:"source"`
	URL            string       `json:"url" badgerhold:"index"`
	Category       NewsCategory `json:"category" badgerhold:"index"`
	Severity       Severity     `json:"severity"`
	SentimentScore float64      `json:"sentiment_score"` // [-1, 1], negative is bad news
	PublishedAt    time.Time    `json:"published_at"`
	FetchedAt      time.Time    `json:"fetched_at"`
}
