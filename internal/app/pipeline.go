package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ternarybob/bizpulse/internal/common"
	"github.com/ternarybob/bizpulse/internal/ingest"
	"github.com/ternarybob/bizpulse/internal/models"
	"github.com/ternarybob/bizpulse/internal/services/forecast"
	"github.com/ternarybob/bizpulse/internal/services/market"
	"github.com/ternarybob/bizpulse/internal/services/profit"
	"github.com/ternarybob/bizpulse/internal/services/risk"
	"github.com/ternarybob/bizpulse/internal/services/simulation"
)

// IngestResult reports what a news ingest stored
type IngestResult struct {
	Read       int               `json:"read"`
	Stored     int               `json:"stored"`
	Duplicates int               `json:"duplicates"`
	Items      []models.NewsItem `json:"items"`
}

// IngestNewsFile loads a headline CSV and ingests it
func (a *App) IngestNewsFile(ctx context.Context, path string) (*IngestResult, error) {
	headlines, _, err := a.Loader.LoadHeadlinesFile(path)
	if err != nil {
		return nil, err
	}
	return a.IngestNews(ctx, headlines)
}

// RefreshNews fetches the given feeds, or the configured ones when feeds is
// empty, and ingests their headlines
func (a *App) RefreshNews(ctx context.Context, feeds []string) (*IngestResult, error) {
	if len(feeds) == 0 {
		feeds = a.Config.Market.Feeds
	}
	if len(feeds) == 0 {
		return nil, models.NewInputError(models.ErrNoFeeds, "set market.feeds or pass --feed")
	}

	headlines, err := a.FeedFetcher.FetchAll(ctx, feeds)
	if err != nil {
		return nil, err
	}
	return a.IngestNews(ctx, headlines)
}

// IngestNews classifies headlines and stores those whose URL is not already
// known. Headlines without a URL are always stored. A missing publish time
// falls back to the fetch time.
func (a *App) IngestNews(ctx context.Context, headlines []ingest.Headline) (*IngestResult, error) {
	store := a.StorageManager.NewsStorage()
	result := &IngestResult{Read: len(headlines), Items: []models.NewsItem{}}
	seen := make(map[string]struct{})

	for _, h := range headlines {
		url := strings.TrimSpace(h.URL)
		if url != "" {
			if _, dup := seen[url]; dup {
				result.Duplicates++
				continue
			}
			exists, err := store.HeadlineExists(ctx, url)
			if err != nil {
				return nil, err
			}
			if exists {
				result.Duplicates++
				continue
			}
			seen[url] = struct{}{}
		}

		item := a.Classifier.Analyze(h.Headline)
		item.ID = common.NewRecordID(common.NewsIDPrefix)
		item.Source = h.Source
		item.URL = url
		item.PublishedAt = h.PublishedAt
		if item.PublishedAt.IsZero() {
			item.PublishedAt = item.FetchedAt
		}

		if err := store.SaveNews(ctx, &item); err != nil {
			return nil, err
		}
		result.Items = append(result.Items, item)
		result.Stored++
	}

	a.Logger.Info().
		Int("read", result.Read).
		Int("stored", result.Stored).
		Int("duplicates", result.Duplicates).
		Msg("News ingested")

	return result, nil
}

// MarketStress aggregates the most recent headlines into a stress score
func (a *App) MarketStress(ctx context.Context) (*market.StressResult, error) {
	items, err := a.StorageManager.NewsStorage().RecentNews(ctx, a.Config.Market.NewsWindow)
	if err != nil {
		return nil, err
	}

	result := market.ComputeStress(items)

	a.Logger.Info().
		Int("events", result.EventCount).
		Float64("stress_score", result.StressScore).
		Str("stress_level", string(result.StressLevel)).
		Msg("Market stress computed")

	return &result, nil
}

// MarketIntelligence digests the most recent headlines
func (a *App) MarketIntelligence(ctx context.Context) (*market.Intelligence, error) {
	items, err := a.StorageManager.NewsStorage().RecentNews(ctx, a.Config.Market.IntelligenceWindow)
	if err != nil {
		return nil, err
	}

	intel := market.SummarizeIntelligence(items)

	a.Logger.Debug().
		Int("events", intel.EventCount).
		Str("sentiment", intel.OverallSentiment).
		Msg("Market intelligence computed")

	return &intel, nil
}

// BusinessSummary builds the analytics snapshot from the configured exports.
// It returns nil when no sales export is configured.
func (a *App) BusinessSummary(ctx context.Context) (*models.BusinessSummary, error) {
	summary, err := a.loadSummary()
	if err != nil {
		return nil, err
	}
	if summary == nil {
		a.Logger.Warn().Msg("No sales file configured, business summary unavailable")
	}
	return summary, nil
}

// RiskReport is the risk index with the market stress it was built from
type RiskReport struct {
	Stress       market.StressResult `json:"market_stress"`
	Risk         risk.Result         `json:"risk"`
	UsedDefaults bool                `json:"used_defaults"` // No business summary was available
}

// RiskIndex blends current market stress with the business summary. Without a
// summary the conservative default sub-scores are used.
func (a *App) RiskIndex(ctx context.Context) (*RiskReport, error) {
	summary, err := a.loadSummary()
	if err != nil {
		return nil, err
	}
	return a.riskReport(ctx, summary)
}

func (a *App) riskReport(ctx context.Context, summary *models.BusinessSummary) (*RiskReport, error) {
	stress, err := a.MarketStress(ctx)
	if err != nil {
		return nil, err
	}

	result := risk.Compose(risk.DeriveComponents(stress.StressScore, summary))

	a.Logger.Info().
		Float64("risk_score", result.RiskScore).
		Str("risk_level", string(result.RiskLevel)).
		Bool("used_defaults", summary == nil).
		Msg("Risk index computed")

	return &RiskReport{
		Stress:       *stress,
		Risk:         result,
		UsedDefaults: summary == nil,
	}, nil
}

// RefreshRiskSnapshot recomputes the risk index and stores it as a snapshot
func (a *App) RefreshRiskSnapshot(ctx context.Context) (*models.RiskSnapshot, error) {
	report, err := a.RiskIndex(ctx)
	if err != nil {
		return nil, err
	}

	c := report.Risk.Components
	snapshot := &models.RiskSnapshot{
		ID:               common.NewRecordID(common.SnapshotIDPrefix),
		StressScore:      report.Stress.StressScore,
		StressLevel:      report.Stress.StressLevel,
		EventCount:       report.Stress.EventCount,
		MarketStress:     c.MarketStress,
		MarginRisk:       c.MarginRisk,
		InventoryRisk:    c.InventoryRisk,
		RevenueTrendRisk: c.RevenueTrendRisk,
		ExpenseRatioRisk: c.ExpenseRatioRisk,
		RiskScore:        report.Risk.RiskScore,
		RiskLevel:        report.Risk.RiskLevel,
		OpportunityScore: report.Risk.OpportunityScore,
		UsedDefaults:     report.UsedDefaults,
		CreatedAt:        a.now(),
	}

	if err := a.StorageManager.SnapshotStorage().SaveSnapshot(ctx, snapshot); err != nil {
		return nil, err
	}

	a.Logger.Info().
		Str("snapshot_id", snapshot.ID).
		Float64("risk_score", snapshot.RiskScore).
		Msg("Risk snapshot stored")

	return snapshot, nil
}

// Forecast projects revenue from the sales export and stores the run
func (a *App) Forecast(ctx context.Context, granularity forecast.Granularity, horizon int) (*forecast.Result, error) {
	sales, err := a.loadSales()
	if err != nil {
		return nil, err
	}

	records := make([]forecast.Record, len(sales))
	for i, s := range sales {
		records[i] = forecast.Record{Date: s.Date, Revenue: s.TotalRevenue, Profit: s.GrossProfit}
	}

	result, err := a.Forecaster.Forecast(records, horizon, granularity)
	if err != nil {
		a.Logger.Warn().Err(err).Str("granularity", string(granularity)).Msg("Forecast rejected")
		return nil, err
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode forecast: %w", err)
	}

	record := &models.ForecastRecord{
		ID:                 common.NewRecordID(common.ForecastIDPrefix),
		ForecastType:       "revenue",
		Granularity:        string(result.Granularity),
		Horizon:            horizon,
		AccuracyScore:      result.AccuracyScore,
		SeasonalAdjustment: result.SeasonalAdjustment,
		Result:             payload,
		CreatedAt:          a.now(),
	}
	if err := a.StorageManager.ForecastStorage().SaveForecast(ctx, record); err != nil {
		return nil, err
	}

	a.Logger.Info().
		Str("forecast_id", record.ID).
		Str("granularity", record.Granularity).
		Int("horizon", horizon).
		Float64("accuracy", result.AccuracyScore).
		Msg("Forecast stored")

	return result, nil
}

// Simulate runs a scenario against the business summary baseline (revenue
// and net profit) and stores the run. Without a summary the baseline is zero.
func (a *App) Simulate(ctx context.Context, scenario *ingest.Scenario) (*simulation.Outcome, error) {
	summary, err := a.loadSummary()
	if err != nil {
		return nil, err
	}

	baseRevenue, baseProfit := 0.0, 0.0
	if summary != nil {
		baseRevenue = summary.Financials.TotalRevenue
		baseProfit = summary.Financials.NetProfit
	}

	report, err := a.riskReport(ctx, summary)
	if err != nil {
		return nil, err
	}

	outcome := simulation.Evaluate(baseRevenue, baseProfit, scenario.Levers, report.Risk.RiskLevel)

	record := &models.SimulationRecord{
		ID:               common.NewRecordID(common.SimulationIDPrefix),
		ScenarioName:     scenario.Name,
		Levers:           scenario.Levers.AsMap(),
		BaseRevenue:      baseRevenue,
		BaseProfit:       baseProfit,
		ProjectedRevenue: outcome.Simulation.ProjectedRevenue,
		ProjectedProfit:  outcome.Simulation.ProjectedProfit,
		ProjectedMargin:  outcome.Simulation.ProjectedMargin,
		RiskLevel:        outcome.RiskLevel,
		Recommendation:   outcome.Recommendation,
		CreatedAt:        a.now(),
	}
	if err := a.StorageManager.SimulationStorage().SaveSimulation(ctx, record); err != nil {
		return nil, err
	}

	a.Logger.Info().
		Str("simulation_id", record.ID).
		Str("scenario", scenario.Name).
		Float64("projected_profit", record.ProjectedProfit).
		Msg("Simulation stored")

	return &outcome, nil
}

// ProfitDrivers analyses the sales export
func (a *App) ProfitDrivers(ctx context.Context) (*profit.Report, error) {
	sales, err := a.loadSales()
	if err != nil {
		return nil, err
	}

	report, err := profit.Analyze(sales)
	if err != nil {
		a.Logger.Warn().Err(err).Msg("Profit driver analysis rejected")
		return nil, err
	}

	a.Logger.Info().
		Int("products", report.Health.ProfitableProducts+report.Health.LossMakingProducts).
		Float64("overall_margin", report.Health.OverallMargin).
		Msg("Profit drivers analysed")

	return report, nil
}
