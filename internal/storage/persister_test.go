package storage

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/fintrack/internal/common"
	"github.com/bobmcallan/fintrack/internal/models"
	"github.com/bobmcallan/fintrack/internal/state"
)

// memoryStore is a SnapshotStore that records every save.
type memoryStore struct {
	mu      sync.Mutex
	saved   []models.Snapshot
	loadErr error
	loaded  *models.Snapshot
	saveErr error
}

func (m *memoryStore) Load(_ context.Context) (*models.Snapshot, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	if m.loaded == nil {
		return nil, models.ErrNotFound
	}
	return m.loaded, nil
}

func (m *memoryStore) Save(_ context.Context, s *models.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, *s)
	return nil
}

func (m *memoryStore) Close() error { return nil }

func (m *memoryStore) saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.saved)
}

func (m *memoryStore) last() models.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saved[len(m.saved)-1]
}

func addExpense(t *testing.T, s *state.Store, amount float64) {
	t.Helper()
	_, err := s.AddExpense(models.NewExpense{
		Amount:      amount,
		Category:    models.CategoryFood,
		Description: "Coffee",
		Date:        models.NewDate(2026, 10, 19),
	})
	require.NoError(t, err)
}

func TestPersister_BurstWritesOnce(t *testing.T) {
	store := state.New()
	backend := &memoryStore{}
	p := NewPersister(store, backend, common.NewSilentLogger(), 50*time.Millisecond)
	defer p.Close()

	for i := 1; i <= 10; i++ {
		addExpense(t, store, float64(i))
	}
	assert.Equal(t, 0, backend.saves(), "nothing written inside the debounce window")

	require.Eventually(t, func() bool { return backend.saves() == 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, 1, backend.saves())
	assert.Len(t, backend.last().Expenses.Expenses, 10)
	assert.False(t, p.Pending())
}

func TestPersister_FlushWritesPending(t *testing.T) {
	store := state.New()
	backend := &memoryStore{}
	p := NewPersister(store, backend, common.NewSilentLogger(), time.Hour)
	defer p.Close()

	p.Flush()
	assert.Equal(t, 0, backend.saves(), "flush without changes is a no-op")

	addExpense(t, store, 12)
	assert.True(t, p.Pending())
	p.Flush()
	assert.Equal(t, 1, backend.saves())
	assert.False(t, p.Pending())
}

func TestPersister_SaveErrorSwallowed(t *testing.T) {
	store := state.New()
	backend := &memoryStore{saveErr: errors.New("disk full")}
	p := NewPersister(store, backend, common.NewSilentLogger(), time.Hour)
	defer p.Close()

	addExpense(t, store, 12)
	assert.NotPanics(t, p.Flush)
	assert.Equal(t, 0, backend.saves())
	assert.False(t, p.Pending())
}

func TestPersister_CloseStopsWrites(t *testing.T) {
	store := state.New()
	backend := &memoryStore{}
	p := NewPersister(store, backend, common.NewSilentLogger(), 20*time.Millisecond)

	addExpense(t, store, 1)
	p.Close()
	addExpense(t, store, 2)

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 0, backend.saves())
	assert.False(t, p.Pending())
	assert.NotPanics(t, p.Close)
}

func TestPersister_WritesThroughFileStore(t *testing.T) {
	fs := newTestFileStore(t, 0)
	store := state.New()
	p := NewPersister(store, fs, common.NewSilentLogger(), time.Hour)
	defer p.Close()

	addExpense(t, store, 9.99)
	p.Flush()

	got, err := fs.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got.Expenses.Expenses, 1)
	assert.Equal(t, 9.99, got.Expenses.Expenses[0].Amount)
}

// slowStore is a SnapshotStore whose Save takes a while and reports when it starts.
type slowStore struct {
	memoryStore
	delay   time.Duration
	started chan struct{}
	once    sync.Once
	closed  atomic.Bool
	late    atomic.Bool // a Save finished after Close
}

func (s *slowStore) Save(ctx context.Context, snap *models.Snapshot) error {
	s.once.Do(func() { close(s.started) })
	time.Sleep(s.delay)
	if s.closed.Load() {
		s.late.Store(true)
		return errors.New("store closed")
	}
	return s.memoryStore.Save(ctx, snap)
}

func (s *slowStore) Close() error {
	s.closed.Store(true)
	return nil
}

func TestPersister_FlushWaitsForTimerSave(t *testing.T) {
	store := state.New()
	backend := &slowStore{delay: 200 * time.Millisecond, started: make(chan struct{})}
	p := NewPersister(store, backend, common.NewSilentLogger(), 20*time.Millisecond)

	addExpense(t, store, 5)

	select {
	case <-backend.started:
	case <-time.After(2 * time.Second):
		t.Fatal("timer save never started")
	}

	p.Flush()
	p.Close()
	require.NoError(t, backend.Close())

	assert.Equal(t, 1, backend.saves())
	assert.False(t, backend.late.Load(), "save still running after the backend was closed")
}

func TestPersister_StaleTimerIgnored(t *testing.T) {
	store := state.New()
	backend := &memoryStore{}
	p := NewPersister(store, backend, common.NewSilentLogger(), time.Hour)
	defer p.Close()

	addExpense(t, store, 1)
	p.mu.Lock()
	stale := p.gen
	p.mu.Unlock()
	addExpense(t, store, 2)

	// The first timer fires after the second change re-armed it.
	p.fire(stale)
	assert.Equal(t, 0, backend.saves())
	assert.True(t, p.Pending())

	p.mu.Lock()
	assert.NotNil(t, p.timer, "re-armed timer must survive a stale fire")
	current := p.gen
	p.mu.Unlock()

	p.fire(current)
	assert.Equal(t, 1, backend.saves())
	assert.Len(t, backend.last().Expenses.Expenses, 2)
}
