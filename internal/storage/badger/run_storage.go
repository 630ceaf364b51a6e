package badger

import (
	"context"
	"errors"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/bizpulse/internal/interfaces"
	"github.com/ternarybob/bizpulse/internal/models"
)

// newestFirst selects every record of a type, newest CreatedAt first
func newestFirst(limit int) *badgerhold.Query {
	query := badgerhold.Where("ID").Ne("").SortBy("CreatedAt").Reverse()
	if limit > 0 {
		query = query.Limit(limit)
	}
	return query
}

func getByID(db *BadgerDB, id string, dst interface{}, kind string) error {
	if err := db.Store().Get(id, dst); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return interfaces.ErrNotFound
		}
		return fmt.Errorf("failed to get %s: %w", kind, err)
	}
	return nil
}

// ForecastStorage implements the ForecastStorage interface for Badger
type ForecastStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewForecastStorage creates a new ForecastStorage instance
func NewForecastStorage(db *BadgerDB, logger arbor.ILogger) interfaces.ForecastStorage {
	return &ForecastStorage{db: db, logger: logger}
}

// SaveForecast stores a forecast run
func (s *ForecastStorage) SaveForecast(ctx context.Context, record *models.ForecastRecord) error {
	if record.ID == "" {
		return fmt.Errorf("forecast ID is required")
	}
	if err := s.db.Store().Upsert(record.ID, record); err != nil {
		return fmt.Errorf("failed to save forecast: %w", err)
	}
	return nil
}

// GetForecast retrieves a forecast run by ID
func (s *ForecastStorage) GetForecast(ctx context.Context, id string) (*models.ForecastRecord, error) {
	var record models.ForecastRecord
	if err := getByID(s.db, id, &record, "forecast"); err != nil {
		return nil, err
	}
	return &record, nil
}

// ListForecasts returns forecast runs newest first
func (s *ForecastStorage) ListForecasts(ctx context.Context, granularity string, limit int) ([]models.ForecastRecord, error) {
	query := newestFirst(limit)
	if granularity != "" {
		query = badgerhold.Where("Granularity").Eq(granularity).Index("Granularity").SortBy("CreatedAt").Reverse()
		if limit > 0 {
			query = query.Limit(limit)
		}
	}

	var records []models.ForecastRecord
	if err := s.db.Store().Find(&records, query); err != nil {
		return nil, fmt.Errorf("failed to list forecasts: %w", err)
	}
	return records, nil
}

// SimulationStorage implements the SimulationStorage interface for Badger
type SimulationStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewSimulationStorage creates a new SimulationStorage instance
func NewSimulationStorage(db *BadgerDB, logger arbor.ILogger) interfaces.SimulationStorage {
	return &SimulationStorage{db: db, logger: logger}
}

// SaveSimulation stores a scenario run
func (s *SimulationStorage) SaveSimulation(ctx context.Context, record *models.SimulationRecord) error {
	if record.ID == "" {
		return fmt.Errorf("simulation ID is required")
	}
	if err := s.db.Store().Upsert(record.ID, record); err != nil {
		return fmt.Errorf("failed to save simulation: %w", err)
	}
	return nil
}

// GetSimulation retrieves a scenario run by ID
func (s *SimulationStorage) GetSimulation(ctx context.Context, id string) (*models.SimulationRecord, error) {
	var record models.SimulationRecord
	if err := getByID(s.db, id, &record, "simulation"); err != nil {
		return nil, err
	}
	return &record, nil
}

// ListSimulations returns scenario runs newest first
func (s *SimulationStorage) ListSimulations(ctx context.Context, limit int) ([]models.SimulationRecord, error) {
	var records []models.SimulationRecord
	if err := s.db.Store().Find(&records, newestFirst(limit)); err != nil {
		return nil, fmt.Errorf("failed to list simulations: %w", err)
	}
	return records, nil
}

// SnapshotStorage implements the SnapshotStorage interface for Badger
type SnapshotStorage struct {
	db     *BadgerDB
	logger arbor.ILogger
}

// NewSnapshotStorage creates a new SnapshotStorage instance
func NewSnapshotStorage(db *BadgerDB, logger arbor.ILogger) interfaces.SnapshotStorage {
	return &SnapshotStorage{db: db, logger: logger}
}

// SaveSnapshot stores a risk snapshot
func (s *SnapshotStorage) SaveSnapshot(ctx context.Context, snapshot *models.RiskSnapshot) error {
	if snapshot.ID == "" {
		return fmt.Errorf("snapshot ID is required")
	}
	if err := s.db.Store().Upsert(snapshot.ID, snapshot); err != nil {
		return fmt.Errorf("failed to save risk snapshot: %w", err)
	}
	return nil
}

// LatestSnapshot returns the most recent risk snapshot
func (s *SnapshotStorage) LatestSnapshot(ctx context.Context) (*models.RiskSnapshot, error) {
	snapshots, err := s.ListSnapshots(ctx, 1)
	if err != nil {
		return nil, err
	}
	if len(snapshots) == 0 {
		return nil, interfaces.ErrNotFound
	}
	return &snapshots[0], nil
}

// ListSnapshots returns risk snapshots newest first
func (s *SnapshotStorage) ListSnapshots(ctx context.Context, limit int) ([]models.RiskSnapshot, error) {
	var snapshots []models.RiskSnapshot
	if err := s.db.Store().Find(&snapshots, newestFirst(limit)); err != nil {
		return nil, fmt.Errorf("failed to list risk snapshots: %w", err)
	}
	return snapshots, nil
}
