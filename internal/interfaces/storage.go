package interfaces

import (
	"context"

	"github.com/bobmcallan/fintrack/internal/models"
)

// SnapshotStore persists the single state document.
// Load returns models.ErrNotFound when nothing has been saved yet and wraps
// models.ErrPersistence on read or parse failure.
type SnapshotStore interface {
	Load(ctx context.Context) (*models.Snapshot, error)
	Save(ctx context.Context, snapshot *models.Snapshot) error
	Close() error
}
