package badger

import (
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/ternarybob/bizpulse/internal/common"
)

// gcDiscardRatio is the value-log discard ratio used when compacting on close
const gcDiscardRatio = 0.5

// BadgerDB owns the badgerhold store holding news, runs and snapshots
type BadgerDB struct {
	store  *badgerhold.Store
	logger arbor.ILogger
	path   string
}

// NewBadgerDB opens (or creates) the store at config.Path. With ResetOnStartup
// the directory is removed first.
func NewBadgerDB(logger arbor.ILogger, config *common.BadgerConfig) (*BadgerDB, error) {
	if config.ResetOnStartup {
		if _, err := os.Stat(config.Path); err == nil {
			logger.Debug().Str("path", config.Path).Msg("Removing existing store (reset_on_startup=true)")
			if err := os.RemoveAll(config.Path); err != nil {
				logger.Warn().Err(err).Str("path", config.Path).Msg("Failed to remove store directory")
			}
		}
	}

	if err := os.MkdirAll(config.Path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	options := badgerhold.DefaultOptions
	options.Options = badger.DefaultOptions(config.Path).
		WithLogger(nil).
		WithNumVersionsToKeep(1)

	store, err := badgerhold.Open(options)
	if err != nil {
		logger.Error().Err(err).Str("path", config.Path).Msg("Failed to open store")
		return nil, fmt.Errorf("failed to open store at %s: %w", config.Path, err)
	}

	logger.Debug().Str("path", config.Path).Msg("Store opened")

	return &BadgerDB{
		store:  store,
		logger: logger,
		path:   config.Path,
	}, nil
}

// Store returns the underlying badgerhold store
func (b *BadgerDB) Store() *badgerhold.Store {
	return b.store
}

// Close runs one value-log GC pass and closes the store
func (b *BadgerDB) Close() error {
	if b.store == nil {
		return nil
	}

	if err := b.store.Badger().RunValueLogGC(gcDiscardRatio); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
		b.logger.Warn().Err(err).Str("path", b.path).Msg("Value log GC failed")
	}

	err := b.store.Close()
	b.store = nil
	return err
}
