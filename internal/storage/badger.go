package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/fintrack/internal/common"
	"github.com/bobmcallan/fintrack/internal/interfaces"
	"github.com/bobmcallan/fintrack/internal/models"
)

// SnapshotRecord is the badgerhold value holding the serialized snapshot.
type SnapshotRecord struct {
	Key       string `badgerhold:"key"`
	Data      []byte
	UpdatedAt time.Time
}

// BadgerStore wraps badgerhold for snapshot storage
type BadgerStore struct {
	store  *badgerhold.Store
	key    string
	logger *common.Logger
}

var _ interfaces.SnapshotStore = (*BadgerStore)(nil)

// NewBadgerStore opens a badgerhold store in config.Path
func NewBadgerStore(logger *common.Logger, config *common.StorageConfig) (*BadgerStore, error) {
	opts := badgerhold.DefaultOptions
	opts.Dir = config.Path
	opts.ValueDir = config.Path
	opts.Logger = nil // Disable badger's internal logging

	store, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open badger store: %v", models.ErrPersistence, err)
	}

	key := config.Key
	if key == "" {
		key = models.SnapshotKey
	}

	logger.Debug().Str("path", config.Path).Msg("BadgerStore opened")

	return &BadgerStore{
		store:  store,
		key:    key,
		logger: logger,
	}, nil
}

// Load reads the snapshot record.
func (b *BadgerStore) Load(_ context.Context) (*models.Snapshot, error) {
	var rec SnapshotRecord
	if err := b.store.Get(b.key, &rec); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, fmt.Errorf("snapshot '%s': %w", b.key, models.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: failed to get snapshot: %v", models.ErrPersistence, err)
	}
	return decodeSnapshot(rec.Data, "badger:"+b.key)
}

// Save upserts the snapshot record.
func (b *BadgerStore) Save(_ context.Context, snapshot *models.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal JSON: %v", models.ErrPersistence, err)
	}

	rec := &SnapshotRecord{Key: b.key, Data: data, UpdatedAt: time.Now()}
	if err := b.store.Upsert(b.key, rec); err != nil {
		return fmt.Errorf("%w: failed to save snapshot: %v", models.ErrPersistence, err)
	}
	b.logger.Debug().Str("key", b.key).Int("bytes", len(data)).Msg("Snapshot saved")
	return nil
}

// Close closes the database
func (b *BadgerStore) Close() error {
	if b.store != nil {
		return b.store.Close()
	}
	return nil
}
