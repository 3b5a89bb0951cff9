package quote

import (
	"context"
	"errors"
	"sync"

	"github.com/bobmcallan/fintrack/internal/interfaces"
	"github.com/bobmcallan/fintrack/internal/models"
)

// Tracker serves the "currently selected symbol" quote for each client. A client's new
// selection cancels that client's selection in flight, and a superseded fetch never
// returns its result. Selections from different clients never interfere.
type Tracker struct {
	quotes interfaces.QuoteService

	mu      sync.Mutex
	clients map[string]*selection
}

// selection is one client's in-flight fetch.
type selection struct {
	seq    uint64
	cancel context.CancelCauseFunc
}

// NewTracker creates a selection tracker over quotes.
func NewTracker(quotes interfaces.QuoteService) *Tracker {
	return &Tracker{quotes: quotes, clients: make(map[string]*selection)}
}

// Select fetches the quote for symbol on behalf of client, superseding that client's
// earlier Select if it is still running. It returns models.ErrSuperseded if the same
// client started a later Select before this one finished. An empty client is not
// tracked and behaves like a plain fetch.
func (t *Tracker) Select(ctx context.Context, client, symbol string) (*models.StockQuote, error) {
	if client == "" {
		return t.quotes.FetchQuote(ctx, symbol)
	}

	ctx, cancel := context.WithCancelCause(ctx)
	defer cancel(nil)

	t.mu.Lock()
	sel, ok := t.clients[client]
	if !ok {
		sel = &selection{}
		t.clients[client] = sel
	}
	if sel.cancel != nil {
		sel.cancel(models.ErrSuperseded)
	}
	sel.seq++
	id := sel.seq
	sel.cancel = cancel
	t.mu.Unlock()

	quote, err := t.quotes.FetchQuote(ctx, symbol)

	t.mu.Lock()
	current := t.clients[client] == sel && sel.seq == id
	if current {
		delete(t.clients, client)
	}
	t.mu.Unlock()

	if !current || errors.Is(context.Cause(ctx), models.ErrSuperseded) {
		return nil, models.ErrSuperseded
	}
	return quote, err
}

// InFlight returns the number of clients with a selection running.
func (t *Tracker) InFlight() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.clients)
}

// Cancel abandons every in-flight selection.
func (t *Tracker) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for client, sel := range t.clients {
		if sel.cancel != nil {
			sel.cancel(models.ErrSuperseded)
		}
		delete(t.clients, client)
	}
}
