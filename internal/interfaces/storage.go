package interfaces

import (
	"context"
	"errors"

	"github.com/ternarybob/bizpulse/internal/models"
)

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("record not found")

// NewsStorage - interface for classified headline persistence
type NewsStorage interface {
	SaveNews(ctx context.Context, item *models.NewsItem) error
	GetNews(ctx context.Context, id string) (*models.NewsItem, error)
	// HeadlineExists reports whether an item with this URL is already stored
	HeadlineExists(ctx context.Context, url string) (bool, error)
	// RecentNews returns up to limit items, newest PublishedAt first
	RecentNews(ctx context.Context, limit int) ([]models.NewsItem, error)
	CountNews(ctx context.Context) (int, error)
}

// ForecastStorage - interface for forecast run persistence
type ForecastStorage interface {
	SaveForecast(ctx context.Context, record *models.ForecastRecord) error
	GetForecast(ctx context.Context, id string) (*models.ForecastRecord, error)
	// ListForecasts returns runs newest first. An empty granularity matches all.
	ListForecasts(ctx context.Context, granularity string, limit int) ([]models.ForecastRecord, error)
}

// SimulationStorage - interface for scenario run persistence
type SimulationStorage interface {
	SaveSimulation(ctx context.Context, record *models.SimulationRecord) error
	GetSimulation(ctx context.Context, id string) (*models.SimulationRecord, error)
	ListSimulations(ctx context.Context, limit int) ([]models.SimulationRecord, error)
}

// SnapshotStorage - interface for risk snapshot persistence
type SnapshotStorage interface {
	SaveSnapshot(ctx context.Context, snapshot *models.RiskSnapshot) error
	// LatestSnapshot returns ErrNotFound when none has been stored
	LatestSnapshot(ctx context.Context) (*models.RiskSnapshot, error)
	ListSnapshots(ctx context.Context, limit int) ([]models.RiskSnapshot, error)
}

// StorageManager - interface for managing all storage backends
type StorageManager interface {
	NewsStorage() NewsStorage
	ForecastStorage() ForecastStorage
	SimulationStorage() SimulationStorage
	SnapshotStorage() SnapshotStorage
	Close() error
}
