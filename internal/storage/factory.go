package storage

import (
	"encoding/json"
	"fmt"

	"github.com/bobmcallan/fintrack/internal/common"
	"github.com/bobmcallan/fintrack/internal/interfaces"
	"github.com/bobmcallan/fintrack/internal/models"
)

// Backend type constants.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
	BackendSQLite = "sqlite"
)

// NewSnapshotStore creates a snapshot store based on the configuration.
// Supported backends: "file" (default), "badger", "sqlite".
func NewSnapshotStore(logger *common.Logger, config *common.StorageConfig) (interfaces.SnapshotStore, error) {
	backend := config.Backend
	if backend == "" {
		backend = BackendFile
	}

	switch backend {
	case BackendFile:
		return NewFileStore(logger, config)
	case BackendBadger:
		return NewBadgerStore(logger, config)
	case BackendSQLite:
		return NewSQLiteStore(logger, config)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s (supported: file, badger, sqlite)", backend)
	}
}

func jsonString(snapshot *models.Snapshot) (string, error) {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("%w: failed to marshal JSON: %v", models.ErrPersistence, err)
	}
	return string(data), nil
}
