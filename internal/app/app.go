package app

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/bizpulse/internal/common"
	"github.com/ternarybob/bizpulse/internal/ingest"
	"github.com/ternarybob/bizpulse/internal/interfaces"
	"github.com/ternarybob/bizpulse/internal/models"
	"github.com/ternarybob/bizpulse/internal/services/analytics"
	"github.com/ternarybob/bizpulse/internal/services/forecast"
	"github.com/ternarybob/bizpulse/internal/services/market"
	"github.com/ternarybob/bizpulse/internal/services/scheduler"
	"github.com/ternarybob/bizpulse/internal/storage"
)

// Scheduler job names
const (
	NewsRefreshJob = "news_refresh"
	RiskRefreshJob = "risk_refresh"
)

const jobPollInterval = 100 * time.Millisecond

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	SchedulerService interfaces.SchedulerService
	Classifier       *market.Classifier
	Forecaster       *forecast.Forecaster
	Loader           *ingest.Loader
	FeedFetcher      *ingest.FeedFetcher

	now func() time.Time
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	storageManager, err := storage.NewStorageManager(logger, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	app := NewWithStorage(cfg, logger, storageManager)

	logger.Info().
		Str("granularity", cfg.Forecast.Granularity).
		Int("news_window", cfg.Market.NewsWindow).
		Bool("scheduler_enabled", cfg.Scheduler.Enabled).
		Msg("Application initialization complete")

	return app, nil
}

// NewWithStorage wires the services around an already open storage manager
func NewWithStorage(cfg *common.Config, logger arbor.ILogger, storageManager interfaces.StorageManager) *App {
	now := func() time.Time { return time.Now().UTC() }

	return &App{
		Config:           cfg,
		Logger:           logger,
		StorageManager:   storageManager,
		SchedulerService: scheduler.NewService(logger),
		Classifier:       market.NewClassifier(market.NewVaderScorer(), market.WithClock(now)),
		Forecaster: forecast.NewForecaster(forecast.Options{
			MinBucketRevenue: cfg.Forecast.MinBucketRevenue,
			FallbackBuckets:  cfg.Forecast.FallbackBuckets,
			WeeklyWindow:     cfg.Forecast.WeeklyWindow,
		}),
		Loader: ingest.NewLoader(logger),
		FeedFetcher: ingest.NewFeedFetcher(logger, ingest.FeedOptions{
			RatePerSecond: cfg.Market.FeedRatePerSecond,
			Timeout:       time.Duration(cfg.Market.FeedTimeoutSeconds) * time.Second,
			MaxItems:      cfg.Market.MaxItemsPerFeed,
		}),
		now: now,
	}
}

// StartScheduler registers the news refresh job (when feeds are configured) and
// the risk refresh job, then starts the scheduler
func (a *App) StartScheduler() error {
	if !a.Config.Scheduler.Enabled {
		return fmt.Errorf("scheduler is disabled in configuration")
	}

	if len(a.Config.Market.Feeds) > 0 {
		err := a.SchedulerService.RegisterJob(NewsRefreshJob, a.Config.Scheduler.NewsSchedule, "Fetch and classify feed headlines", func(ctx context.Context) error {
			_, err := a.RefreshNews(ctx, nil)
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to register %s: %w", NewsRefreshJob, err)
		}
	}

	err := a.SchedulerService.RegisterJob(RiskRefreshJob, a.Config.Scheduler.Schedule, "Recompute market stress and risk index", func(ctx context.Context) error {
		_, err := a.RefreshRiskSnapshot(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to register %s: %w", RiskRefreshJob, err)
	}

	return a.SchedulerService.Start()
}

// TriggerRefresh runs the scheduled jobs now: the news refresh first (when
// registered), then the risk refresh once the news run has finished.
// The scheduler must be running.
func (a *App) TriggerRefresh(ctx context.Context) error {
	if _, err := a.SchedulerService.GetJobStatus(NewsRefreshJob); err == nil {
		if err := a.SchedulerService.TriggerJob(NewsRefreshJob); err != nil {
			return err
		}
		if err := a.waitForJob(ctx, NewsRefreshJob); err != nil {
			return err
		}
	}
	return a.SchedulerService.TriggerJob(RiskRefreshJob)
}

func (a *App) waitForJob(ctx context.Context, name string) error {
	ticker := time.NewTicker(jobPollInterval)
	defer ticker.Stop()
	for {
		status, err := a.SchedulerService.GetJobStatus(name)
		if err != nil {
			return err
		}
		if !status.IsRunning {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// LogJobStatuses logs the run counters of every registered job
func (a *App) LogJobStatuses() {
	statuses := a.SchedulerService.GetAllJobStatuses()
	names := make([]string, 0, len(statuses))
	for name := range statuses {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		status := statuses[name]
		var event arbor.ILogEvent
		if status.LastError != "" {
			event = a.Logger.Warn().Str("last_error", status.LastError)
		} else {
			event = a.Logger.Info()
		}
		if status.LastRun != nil {
			event = event.Str("last_run", status.LastRun.UTC().Format(time.RFC3339))
		}
		event.
			Str("job_name", name).
			Int("runs", status.Runs).
			Int("skipped", status.Skipped).
			Msg("Job summary")
	}
}

// Close closes all application resources
func (a *App) Close() error {
	if a.SchedulerService != nil {
		if err := a.SchedulerService.Stop(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to stop scheduler service")
		}
	}

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
		a.Logger.Debug().Msg("Storage closed")
	}

	return nil
}

// loadSales reads the configured sales export. No configured file is not an error.
func (a *App) loadSales() ([]models.SaleRecord, error) {
	path := a.Config.Data.SalesFile
	if path == "" {
		return nil, nil
	}
	sales, _, err := a.Loader.LoadSalesFile(path)
	return sales, err
}

// loadSummary builds the business summary from the configured exports.
// It returns nil when no sales export is configured.
func (a *App) loadSummary() (*models.BusinessSummary, error) {
	sales, err := a.loadSales()
	if err != nil {
		return nil, err
	}
	if a.Config.Data.SalesFile == "" {
		return nil, nil
	}

	var inventory []models.InventoryItem
	if path := a.Config.Data.InventoryFile; path != "" {
		if inventory, _, err = a.Loader.LoadInventoryFile(path); err != nil {
			return nil, err
		}
	}

	var expenses []models.Expense
	if path := a.Config.Data.ExpensesFile; path != "" {
		if expenses, _, err = a.Loader.LoadExpensesFile(path); err != nil {
			return nil, err
		}
	}

	var employees []models.Employee
	if path := a.Config.Data.EmployeesFile; path != "" {
		if employees, _, err = a.Loader.LoadEmployeesFile(path); err != nil {
			return nil, err
		}
	}

	return analytics.BuildSummary(sales, inventory, expenses, employees), nil
}
