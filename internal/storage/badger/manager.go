package badger

import (
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/bizpulse/internal/common"
	"github.com/ternarybob/bizpulse/internal/interfaces"
)

// Manager implements the StorageManager interface for Badger
type Manager struct {
	db         *BadgerDB
	news       interfaces.NewsStorage
	forecast   interfaces.ForecastStorage
	simulation interfaces.SimulationStorage
	snapshot   interfaces.SnapshotStorage
	logger     arbor.ILogger
}

// NewManager creates a new Badger storage manager
func NewManager(logger arbor.ILogger, config *common.BadgerConfig) (interfaces.StorageManager, error) {
	db, err := NewBadgerDB(logger, config)
	if err != nil {
		return nil, err
	}

	manager := newManager(db, logger)
	logger.Info().Str("path", config.Path).Msg("Badger storage manager initialized")

	return manager, nil
}

func newManager(db *BadgerDB, logger arbor.ILogger) *Manager {
	return &Manager{
		db:         db,
		news:       NewNewsStorage(db, logger),
		forecast:   NewForecastStorage(db, logger),
		simulation: NewSimulationStorage(db, logger),
		snapshot:   NewSnapshotStorage(db, logger),
		logger:     logger,
	}
}

// NewsStorage returns the News storage interface
func (m *Manager) NewsStorage() interfaces.NewsStorage {
	return m.news
}

// ForecastStorage returns the Forecast storage interface
func (m *Manager) ForecastStorage() interfaces.ForecastStorage {
	return m.forecast
}

// SimulationStorage returns the Simulation storage interface
func (m *Manager) SimulationStorage() interfaces.SimulationStorage {
	return m.simulation
}

// SnapshotStorage returns the Snapshot storage interface
func (m *Manager) SnapshotStorage() interfaces.SnapshotStorage {
	return m.snapshot
}

// Close closes the database connection
func (m *Manager) Close() error {
	if m.db != nil {
		return m.db.Close()
	}
	return nil
}
