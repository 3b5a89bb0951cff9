// Package storage persists the FinTrack snapshot with pluggable backends.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bobmcallan/fintrack/internal/common"
	"github.com/bobmcallan/fintrack/internal/interfaces"
	"github.com/bobmcallan/fintrack/internal/models"
)

// FileStore keeps the snapshot as an indented JSON file with optional versioning.
type FileStore struct {
	basePath string
	key      string
	versions int
	logger   *common.Logger
}

var _ interfaces.SnapshotStore = (*FileStore)(nil)

// NewFileStore creates a FileStore and ensures its directory exists.
func NewFileStore(logger *common.Logger, config *common.StorageConfig) (*FileStore, error) {
	versions := config.Versions
	if versions < 0 {
		versions = 0
	}
	key := config.Key
	if key == "" {
		key = models.SnapshotKey
	}

	if err := os.MkdirAll(config.Path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", config.Path, err)
	}

	fs := &FileStore{
		basePath: config.Path,
		key:      key,
		versions: versions,
		logger:   logger,
	}

	logger.Debug().Str("path", fs.Path()).Int("versions", versions).Msg("FileStore opened")
	return fs, nil
}

// sanitizeKey makes a key safe for use as a filename.
// Each "/", "\", ":" and ".." becomes "_", so "../x" maps to "__x" and no
// separator or parent reference survives.
func sanitizeKey(key string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", ":", "_", "..", "_")
	return r.Replace(key)
}

// Path returns the snapshot file location.
func (fs *FileStore) Path() string {
	return filepath.Join(fs.basePath, sanitizeKey(fs.key)+".json")
}

// Load reads and parses the snapshot file.
func (fs *FileStore) Load(_ context.Context) (*models.Snapshot, error) {
	path := fs.Path()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("snapshot '%s': %w", fs.key, models.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: failed to read %s: %v", models.ErrPersistence, path, err)
	}
	return decodeSnapshot(data, path)
}

// Save writes the snapshot atomically, rotating previous versions first when enabled.
func (fs *FileStore) Save(_ context.Context, snapshot *models.Snapshot) error {
	target := fs.Path()

	jsonData, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: failed to marshal JSON: %v", models.ErrPersistence, err)
	}
	jsonData = append(jsonData, '\n')

	if fs.versions > 0 {
		fs.rotateVersions(target)
	}

	// Atomic write: write to temp file in the same directory, then rename
	tmpFile, err := os.CreateTemp(fs.basePath, ".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: failed to create temp file: %v", models.ErrPersistence, err)
	}
	tmpPath := tmpFile.Name()

	if _, err := tmpFile.Write(jsonData); err != nil {
		tmpFile.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("%w: failed to write temp file: %v", models.ErrPersistence, err)
	}
	if err := tmpFile.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: failed to close temp file: %v", models.ErrPersistence, err)
	}

	if err := os.Rename(tmpPath, target); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("%w: failed to rename temp file: %v", models.ErrPersistence, err)
	}

	return nil
}

// rotateVersions shifts existing versions up and moves current to v1.
// v{N} -> deleted, v{N-1} -> v{N}, ..., v1 -> v2, current -> v1
func (fs *FileStore) rotateVersions(target string) {
	oldest := fmt.Sprintf("%s.v%d", target, fs.versions)
	os.Remove(oldest)

	for i := fs.versions; i > 1; i-- {
		src := fmt.Sprintf("%s.v%d", target, i-1)
		dst := fmt.Sprintf("%s.v%d", target, i)
		os.Rename(src, dst) // may not exist yet
	}

	if _, err := os.Stat(target); err == nil {
		os.Rename(target, fmt.Sprintf("%s.v1", target))
	}
}

// Close is a no-op for files.
func (fs *FileStore) Close() error {
	return nil
}

// decodeSnapshot parses a stored document. source names it in errors.
func decodeSnapshot(data []byte, source string) (*models.Snapshot, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", models.ErrPersistence, source)
	}
	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %v", models.ErrPersistence, source, err)
	}
	return &snap, nil
}
