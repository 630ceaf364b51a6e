package badger

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/bizpulse/internal/common"
	"github.com/ternarybob/bizpulse/internal/interfaces"
	"github.com/ternarybob/bizpulse/internal/models"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()

	logger := arbor.NewLogger()
	db, err := NewBadgerDB(logger, &common.BadgerConfig{Path: filepath.Join(t.TempDir(), "db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return newManager(db, logger)
}

func newsItem(id, url string, published time.Time) *models.NewsItem {
	return &models.NewsItem{
		ID:          id,
		Headline:    "headline " + id,
		URL:         url,
		Category:    models.CategoryOther,
		Severity:    models.SeverityLow,
		PublishedAt: published,
		FetchedAt:   published,
	}
}

func TestNewsStorage_SaveAndDedup(t *testing.T) {
	ctx := context.Background()
	store := newTestManager(t).NewsStorage()

	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveNews(ctx, newsItem("news_1", "https://example.com/a", base)))

	exists, err := store.HeadlineExists(ctx, "https://example.com/a")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.HeadlineExists(ctx, "https://example.com/b")
	require.NoError(t, err)
	assert.False(t, exists)

	exists, err = store.HeadlineExists(ctx, "  ")
	require.NoError(t, err)
	assert.False(t, exists)

	got, err := store.GetNews(ctx, "news_1")
	require.NoError(t, err)
	assert.Equal(t, "headline news_1", got.Headline)

	_, err = store.GetNews(ctx, "news_missing")
	assert.True(t, errors.Is(err, interfaces.ErrNotFound))

	assert.Error(t, store.SaveNews(ctx, newsItem("", "https://example.com/c", base)))
}

func TestNewsStorage_RecentNewsOrdering(t *testing.T) {
	ctx := context.Background()
	store := newTestManager(t).NewsStorage()

	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveNews(ctx, newsItem("news_b", "https://example.com/b", base.Add(2*time.Hour))))
	require.NoError(t, store.SaveNews(ctx, newsItem("news_a", "https://example.com/a", base)))
	require.NoError(t, store.SaveNews(ctx, newsItem("news_c", "https://example.com/c", base.Add(5*time.Hour))))

	items, err := store.RecentNews(ctx, 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "news_c", items[0].ID)
	assert.Equal(t, "news_b", items[1].ID)

	all, err := store.RecentNews(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	count, err := store.CountNews(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestForecastStorage(t *testing.T) {
	ctx := context.Background()
	store := newTestManager(t).ForecastStorage()

	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	records := []*models.ForecastRecord{
		{ID: "fc_1", Granularity: "monthly", Horizon: 6, Result: json.RawMessage(`{"a":1}`), CreatedAt: base},
		{ID: "fc_2", Granularity: "weekly", Horizon: 4, CreatedAt: base.Add(time.Hour)},
		{ID: "fc_3", Granularity: "monthly", Horizon: 3, CreatedAt: base.Add(2 * time.Hour)},
	}
	for _, r := range records {
		require.NoError(t, store.SaveForecast(ctx, r))
	}

	got, err := store.GetForecast(ctx, "fc_1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(got.Result))

	monthly, err := store.ListForecasts(ctx, "monthly", 0)
	require.NoError(t, err)
	require.Len(t, monthly, 2)
	assert.Equal(t, "fc_3", monthly[0].ID)

	latest, err := store.ListForecasts(ctx, "", 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, "fc_3", latest[0].ID)

	_, err = store.GetForecast(ctx, "fc_missing")
	assert.True(t, errors.Is(err, interfaces.ErrNotFound))
}

func TestSimulationStorage(t *testing.T) {
	ctx := context.Background()
	store := newTestManager(t).SimulationStorage()

	record := &models.SimulationRecord{
		ID:              "sim_1",
		ScenarioName:    "price_push",
		Levers:          map[string]float64{"price_change_percent": 10},
		ProjectedProfit: 30000,
		RiskLevel:       models.RiskModerate,
		CreatedAt:       time.Now().UTC(),
	}
	require.NoError(t, store.SaveSimulation(ctx, record))

	got, err := store.GetSimulation(ctx, "sim_1")
	require.NoError(t, err)
	assert.Equal(t, 10.0, got.Levers["price_change_percent"])
	assert.Equal(t, models.RiskModerate, got.RiskLevel)

	list, err := store.ListSimulations(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSnapshotStorage(t *testing.T) {
	ctx := context.Background()
	store := newTestManager(t).SnapshotStorage()

	_, err := store.LatestSnapshot(ctx)
	assert.True(t, errors.Is(err, interfaces.ErrNotFound))

	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveSnapshot(ctx, &models.RiskSnapshot{ID: "risk_1", RiskScore: 0.2, CreatedAt: base}))
	require.NoError(t, store.SaveSnapshot(ctx, &models.RiskSnapshot{ID: "risk_2", RiskScore: 0.4, CreatedAt: base.Add(time.Hour)}))

	latest, err := store.LatestSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "risk_2", latest.ID)
	assert.Equal(t, 0.4, latest.RiskScore)
}

func TestNewBadgerDB_ResetOnStartup(t *testing.T) {
	ctx := context.Background()
	logger := arbor.NewLogger()
	config := &common.BadgerConfig{Path: filepath.Join(t.TempDir(), "db")}

	db, err := NewBadgerDB(logger, config)
	require.NoError(t, err)
	require.NoError(t, NewNewsStorage(db, logger).SaveNews(ctx, newsItem("news_1", "https://example.com/a", time.Now())))
	require.NoError(t, db.Close())

	config.ResetOnStartup = true
	db, err = NewBadgerDB(logger, config)
	require.NoError(t, err)
	defer db.Close()

	count, err := NewNewsStorage(db, logger).CountNews(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
