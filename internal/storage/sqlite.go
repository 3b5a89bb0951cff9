package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/bobmcallan/fintrack/internal/common"
	"github.com/bobmcallan/fintrack/internal/interfaces"
	"github.com/bobmcallan/fintrack/internal/models"
)

// SQLiteFile is the database file name inside the storage path.
const SQLiteFile = "fintrack.db"

const createSnapshotsTableSQL = `
CREATE TABLE IF NOT EXISTS snapshots (
	key TEXT PRIMARY KEY,
	data TEXT NOT NULL,
	updated_at DATETIME NOT NULL
);
`

// SQLiteStore keeps snapshots in a single-table SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	key    string
	logger *common.Logger
}

var _ interfaces.SnapshotStore = (*SQLiteStore)(nil)

// NewSQLiteStore opens (creating if needed) <path>/fintrack.db.
func NewSQLiteStore(logger *common.Logger, config *common.StorageConfig) (*SQLiteStore, error) {
	if err := os.MkdirAll(config.Path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", config.Path, err)
	}
	dbPath := filepath.Join(config.Path, SQLiteFile)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open sqlite: %v", models.ErrPersistence, err)
	}
	// One writer at a time; the persister is the only writer anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createSnapshotsTableSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to create snapshots table: %v", models.ErrPersistence, err)
	}

	key := config.Key
	if key == "" {
		key = models.SnapshotKey
	}

	logger.Debug().Str("path", dbPath).Msg("SQLiteStore opened")
	return &SQLiteStore{db: db, key: key, logger: logger}, nil
}

// Load reads the snapshot row.
func (s *SQLiteStore) Load(ctx context.Context) (*models.Snapshot, error) {
	var data string
	err := s.db.QueryRowContext(ctx, "SELECT data FROM snapshots WHERE key = ?", s.key).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("snapshot '%s': %w", s.key, models.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: failed to query snapshot: %v", models.ErrPersistence, err)
	}
	return decodeSnapshot([]byte(data), "sqlite:"+s.key)
}

// Save upserts the snapshot row.
func (s *SQLiteStore) Save(ctx context.Context, snapshot *models.Snapshot) error {
	data, err := jsonString(snapshot)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO snapshots (key, data, updated_at) VALUES (?, ?, ?) ON CONFLICT(key) DO UPDATE SET data=excluded.data, updated_at=excluded.updated_at",
		s.key, data, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("%w: failed to upsert snapshot: %v", models.ErrPersistence, err)
	}
	return nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
