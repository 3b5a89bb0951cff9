package storage

import (
	"context"
	"sync"
	"time"

	"github.com/bobmcallan/fintrack/internal/common"
	"github.com/bobmcallan/fintrack/internal/interfaces"
	"github.com/bobmcallan/fintrack/internal/state"
)

// DefaultDebounce is the quiet period before a pending snapshot is written.
const DefaultDebounce = time.Second

// saveTimeout bounds a single snapshot write.
const saveTimeout = 10 * time.Second

// Persister writes the store's snapshot after changes settle. Each change re-arms the
// timer, so a burst of mutations produces one write. Save failures are logged and dropped.
type Persister struct {
	store    *state.Store
	backend  interfaces.SnapshotStore
	logger   *common.Logger
	debounce time.Duration

	mu          sync.Mutex
	idle        *sync.Cond // signalled when saving drops to zero
	timer       *time.Timer
	gen         uint64 // bumped on every re-arm; a timer from an older generation is stale
	pending     bool
	saving      int
	closed      bool
	unsubscribe func()

	saveMu sync.Mutex // serializes writes between the timer and Flush
}

// NewPersister subscribes to store and starts debouncing writes to backend.
func NewPersister(store *state.Store, backend interfaces.SnapshotStore, logger *common.Logger, debounce time.Duration) *Persister {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	p := &Persister{
		store:    store,
		backend:  backend,
		logger:   logger,
		debounce: debounce,
	}
	p.idle = sync.NewCond(&p.mu)
	p.unsubscribe = store.Subscribe(p.onChange)
	return p
}

func (p *Persister) onChange(c state.Change) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.pending = true
	if p.timer != nil {
		p.timer.Stop()
	}
	p.gen++
	gen := p.gen
	p.timer = time.AfterFunc(p.debounce, func() { p.fire(gen) })
	p.logger.Trace().Str("collection", string(c.Collection)).Str("action", string(c.Action)).Msg("Snapshot write scheduled")
}

// fire runs when the timer armed for gen expires. A timer that was re-armed or
// stopped after it had already started is ignored.
func (p *Persister) fire(gen uint64) {
	p.mu.Lock()
	if p.closed || !p.pending || gen != p.gen {
		p.mu.Unlock()
		return
	}
	p.pending = false
	p.timer = nil
	p.saving++
	p.mu.Unlock()

	p.save()
	p.saveDone()
}

func (p *Persister) saveDone() {
	p.mu.Lock()
	p.saving--
	if p.saving == 0 {
		p.idle.Broadcast()
	}
	p.mu.Unlock()
}

// waitIdle blocks until no save is running. Caller holds p.mu.
func (p *Persister) waitIdle() {
	for p.saving > 0 {
		p.idle.Wait()
	}
}

func (p *Persister) save() {
	p.saveMu.Lock()
	defer p.saveMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	snap := p.store.Snapshot()
	start := time.Now()
	if err := p.backend.Save(ctx, &snap); err != nil {
		p.logger.Warn().Err(err).Msg("Failed to persist snapshot")
		return
	}
	p.logger.Debug().
		Int("holdings", len(snap.Portfolio.Holdings)).
		Int("expenses", len(snap.Expenses.Expenses)).
		Int("watchlist", len(snap.Watchlist.Items)).
		Dur("elapsed", time.Since(start)).
		Msg("Snapshot persisted")
}

// Pending reports whether a write is scheduled but not yet done.
func (p *Persister) Pending() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending
}

// Flush writes a pending snapshot immediately and waits for any write the timer
// already started. On return the backend holds the latest state.
func (p *Persister) Flush() {
	p.mu.Lock()
	if p.pending {
		p.pending = false
		p.gen++
		if p.timer != nil {
			p.timer.Stop()
			p.timer = nil
		}
		p.saving++
		p.mu.Unlock()

		p.save()
		p.saveDone()

		p.mu.Lock()
	}
	p.waitIdle()
	p.mu.Unlock()
}

// Close unsubscribes from the store, stops the timer and waits for a running write.
// A pending write is discarded; call Flush first to keep it.
func (p *Persister) Close() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.closed = true
	p.pending = false
	p.gen++
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.waitIdle()
	p.mu.Unlock()

	p.unsubscribe()
}
