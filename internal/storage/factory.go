package storage

import (
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/bizpulse/internal/common"
	"github.com/ternarybob/bizpulse/internal/interfaces"
	"github.com/ternarybob/bizpulse/internal/storage/badger"
)

// NewStorageManager opens the Badger-backed storage described by config
func NewStorageManager(logger arbor.ILogger, config *common.Config) (interfaces.StorageManager, error) {
	return badger.NewManager(logger, &config.Storage.Badger)
}
