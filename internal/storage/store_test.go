package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/fintrack/internal/common"
	"github.com/bobmcallan/fintrack/internal/interfaces"
	"github.com/bobmcallan/fintrack/internal/models"
)

// --- Test helpers ---

func testSnapshot() *models.Snapshot {
	return &models.Snapshot{
		Portfolio: models.PortfolioState{
			Holdings: []models.Holding{
				{ID: "1", Symbol: "AAPL", Name: "Apple Inc.", Shares: 50, AvgCost: 145.5, CurrentPrice: 178.72, DailyChange: 2.34, DailyChangePercent: 1.33},
			},
			HistoricalData: []models.ChartDataPoint{
				{Date: models.NewDate(2026, 10, 18), Value: 41000},
				{Date: models.NewDate(2026, 10, 19), Value: 41250.5},
			},
		},
		Watchlist: models.WatchlistState{Items: []models.WatchlistItem{
			{ID: "1", Symbol: "AMZN", Name: "Amazon.com Inc.", CurrentPrice: 178.25},
		}},
		Expenses: models.ExpensesState{Expenses: []models.Expense{
			{ID: "exp-0", Amount: 42.5, Category: models.CategoryFood, Description: "Groceries", Date: models.NewDate(2026, 10, 19)},
		}},
	}
}

func newBackends(t *testing.T) map[string]interfaces.SnapshotStore {
	t.Helper()
	logger := common.NewSilentLogger()
	out := make(map[string]interfaces.SnapshotStore)
	for _, backend := range []string{BackendFile, BackendBadger, BackendSQLite} {
		store, err := NewSnapshotStore(logger, &common.StorageConfig{
			Backend: backend,
			Path:    filepath.Join(t.TempDir(), backend),
			Key:     models.SnapshotKey,
		})
		require.NoError(t, err, backend)
		t.Cleanup(func() { store.Close() })
		out[backend] = store
	}
	return out
}

// --- Backend tests ---

func TestSnapshotStore_LoadMissing(t *testing.T) {
	for name, store := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			snap, err := store.Load(context.Background())
			assert.Nil(t, snap)
			assert.True(t, errors.Is(err, models.ErrNotFound), "got %v", err)
		})
	}
}

func TestSnapshotStore_SaveThenLoad(t *testing.T) {
	ctx := context.Background()
	for name, store := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			want := testSnapshot()
			require.NoError(t, store.Save(ctx, want))

			got, err := store.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, want, got)

			// second save overwrites
			want.Watchlist.Items = nil
			require.NoError(t, store.Save(ctx, want))
			got, err = store.Load(ctx)
			require.NoError(t, err)
			assert.Empty(t, got.Watchlist.Items)
		})
	}
}

func TestNewSnapshotStore_UnknownBackend(t *testing.T) {
	_, err := NewSnapshotStore(common.NewSilentLogger(), &common.StorageConfig{Backend: "postgres", Path: t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage backend")
}

// --- FileStore specifics ---

func newTestFileStore(t *testing.T, versions int) *FileStore {
	t.Helper()
	fs, err := NewFileStore(common.NewSilentLogger(), &common.StorageConfig{Path: t.TempDir(), Versions: versions})
	require.NoError(t, err)
	return fs
}

func TestFileStore_PathUsesKey(t *testing.T) {
	fs := newTestFileStore(t, 0)
	assert.Equal(t, "fintrack-state.json", filepath.Base(fs.Path()))
}

func TestFileStore_SanitizesKey(t *testing.T) {
	// ".." and the following "/" are replaced separately.
	assert.Equal(t, "__etc_passwd", sanitizeKey("../etc/passwd"))
	assert.Equal(t, "a___b", sanitizeKey("a/../b"))
	assert.NotContains(t, sanitizeKey("..\\..\\x"), "..")
	assert.Equal(t, "a_b_c", sanitizeKey("a:b\\c"))
}

func TestFileStore_DocumentShape(t *testing.T) {
	fs := newTestFileStore(t, 0)
	require.NoError(t, fs.Save(context.Background(), &models.Snapshot{}))

	data, err := os.ReadFile(fs.Path())
	require.NoError(t, err)
	body := string(data)
	assert.Contains(t, body, `"portfolio"`)
	assert.Contains(t, body, `"historicalData"`)
	assert.Contains(t, body, `"watchlist"`)
	assert.Contains(t, body, `"expenses"`)
	assert.NotContains(t, body, "version")
}

func TestFileStore_CorruptFile(t *testing.T) {
	fs := newTestFileStore(t, 0)
	require.NoError(t, os.WriteFile(fs.Path(), []byte("{not json"), 0644))

	_, err := fs.Load(context.Background())
	assert.True(t, errors.Is(err, models.ErrPersistence), "got %v", err)
}

func TestFileStore_EmptyFile(t *testing.T) {
	fs := newTestFileStore(t, 0)
	require.NoError(t, os.WriteFile(fs.Path(), nil, 0644))

	_, err := fs.Load(context.Background())
	assert.True(t, errors.Is(err, models.ErrPersistence), "got %v", err)
}

func TestFileStore_NoTempFilesLeft(t *testing.T) {
	fs := newTestFileStore(t, 0)
	for i := 0; i < 3; i++ {
		require.NoError(t, fs.Save(context.Background(), testSnapshot()))
	}

	entries, err := os.ReadDir(filepath.Dir(fs.Path()))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "fintrack-state.json", entries[0].Name())
}

func TestFileStore_VersionRotation(t *testing.T) {
	fs := newTestFileStore(t, 2)
	ctx := context.Background()
	for i := 0; i < 4; i++ {
		snap := testSnapshot()
		snap.Portfolio.Holdings[0].Shares = float64(i + 1)
		require.NoError(t, fs.Save(ctx, snap))
	}

	assert.FileExists(t, fs.Path()+".v1")
	assert.FileExists(t, fs.Path()+".v2")
	assert.NoFileExists(t, fs.Path()+".v3")

	got, err := fs.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4.0, got.Portfolio.Holdings[0].Shares)

	prev, err := os.ReadFile(fs.Path() + ".v1")
	require.NoError(t, err)
	older, err := decodeSnapshot(prev, "v1")
	require.NoError(t, err)
	assert.Equal(t, 3.0, older.Portfolio.Holdings[0].Shares)
}
