// Package state holds the in-process collections behind every FinTrack view
package state

import (
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/bobmcallan/fintrack/internal/models"
)

// Collection names a store collection in change notifications.
type Collection string

const (
	CollectionHoldings  Collection = "holdings"
	CollectionExpenses  Collection = "expenses"
	CollectionWatchlist Collection = "watchlist"
	CollectionHistory   Collection = "history"
)

// Action names the kind of mutation in change notifications.
type Action string

const (
	ActionAdd     Action = "add"
	ActionUpdate  Action = "update"
	ActionRemove  Action = "remove"
	ActionReplace Action = "replace"
	ActionPrices  Action = "prices"
)

// Change describes one completed mutation.
type Change struct {
	Collection Collection `json:"collection"`
	Action     Action     `json:"action"`
	ID         string     `json:"id,omitempty"`
}

type subscriber struct {
	id int
	fn func(Change)
}

// Store owns holdings, expenses, watchlist items and the portfolio history.
// Reads return copies. Subscribers are called synchronously after the write lock
// is released, in subscription order.
type Store struct {
	mu        sync.RWMutex
	holdings  []models.Holding
	expenses  []models.Expense
	watchlist []models.WatchlistItem
	history   []models.ChartDataPoint

	subMu   sync.Mutex
	subs    []subscriber
	nextSub int

	newID func() string
}

// New returns an empty store.
func New() *Store {
	return &Store{newID: uuid.NewString}
}

// NewFromSnapshot returns a store restored from snap without notifying anyone.
func NewFromSnapshot(snap models.Snapshot) *Store {
	s := New()
	s.restore(snap)
	return s
}

// Subscribe registers fn for every subsequent change and returns its unsubscribe func.
func (s *Store) Subscribe(fn func(Change)) (unsubscribe func()) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.nextSub++
	id := s.nextSub
	s.subs = append(s.subs, subscriber{id: id, fn: fn})

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		s.subs = slices.DeleteFunc(s.subs, func(sub subscriber) bool { return sub.id == id })
	}
}

func (s *Store) notify(c Change) {
	s.subMu.Lock()
	subs := slices.Clone(s.subs)
	s.subMu.Unlock()
	for _, sub := range subs {
		sub.fn(c)
	}
}

func clone[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return slices.Clone(in)
}

// --- Holdings ---

// Holdings returns the holdings in insertion order.
func (s *Store) Holdings() []models.Holding {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.holdings)
}

// AddHolding appends h under a fresh id.
func (s *Store) AddHolding(h models.Holding) (models.Holding, error) {
	if err := (models.NewHolding{Symbol: h.Symbol, Shares: h.Shares, AvgCost: h.AvgCost}).Validate(); err != nil {
		return models.Holding{}, err
	}
	h.ID = s.newID()
	h.Symbol = strings.ToUpper(strings.TrimSpace(h.Symbol))

	s.mu.Lock()
	s.holdings = append(s.holdings, h)
	s.mu.Unlock()

	s.notify(Change{Collection: CollectionHoldings, Action: ActionAdd, ID: h.ID})
	return h, nil
}

// RemoveHolding deletes the holding with id and reports whether it existed.
func (s *Store) RemoveHolding(id string) bool {
	s.mu.Lock()
	n := len(s.holdings)
	s.holdings = slices.DeleteFunc(s.holdings, func(h models.Holding) bool { return h.ID == id })
	removed := len(s.holdings) != n
	s.mu.Unlock()

	if removed {
		s.notify(Change{Collection: CollectionHoldings, Action: ActionRemove, ID: id})
	}
	return removed
}

// SetHoldings replaces every holding.
func (s *Store) SetHoldings(holdings []models.Holding) {
	s.mu.Lock()
	s.holdings = clone(holdings)
	s.mu.Unlock()

	s.notify(Change{Collection: CollectionHoldings, Action: ActionReplace})
}

// UpdateHoldingPrices stamps each update onto every holding with that symbol and
// returns how many holdings changed.
func (s *Store) UpdateHoldingPrices(updates []models.PriceUpdate) int {
	s.mu.Lock()
	n := 0
	for _, u := range updates {
		for i := range s.holdings {
			if strings.EqualFold(s.holdings[i].Symbol, u.Symbol) {
				s.holdings[i].CurrentPrice = u.Price
				s.holdings[i].DailyChange = u.Change
				s.holdings[i].DailyChangePercent = u.ChangePercent
				n++
			}
		}
	}
	s.mu.Unlock()

	if n > 0 {
		s.notify(Change{Collection: CollectionHoldings, Action: ActionPrices})
	}
	return n
}

// --- Expenses ---

// Expenses returns the expenses, most recent first.
func (s *Store) Expenses() []models.Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.expenses)
}

// sortExpenses orders by date descending. The sort is stable so a new expense
// placed at the front stays ahead of older records on the same day.
func sortExpenses(expenses []models.Expense) {
	slices.SortStableFunc(expenses, func(a, b models.Expense) int {
		return b.Date.Compare(a.Date)
	})
}

// AddExpense normalizes and validates n and inserts it under a fresh id.
func (s *Store) AddExpense(n models.NewExpense) (models.Expense, error) {
	n = n.Normalize()
	if err := n.Validate(); err != nil {
		return models.Expense{}, err
	}
	e := models.Expense{
		ID:          s.newID(),
		Amount:      n.Amount,
		Category:    n.Category,
		Description: n.Description,
		Date:        n.Date,
	}

	s.mu.Lock()
	s.expenses = append([]models.Expense{e}, s.expenses...)
	sortExpenses(s.expenses)
	s.mu.Unlock()

	s.notify(Change{Collection: CollectionExpenses, Action: ActionAdd, ID: e.ID})
	return e, nil
}

// UpdateExpense replaces the expense with e.ID and reports whether it existed.
func (s *Store) UpdateExpense(e models.Expense) (bool, error) {
	n := models.NewExpense{Amount: e.Amount, Category: e.Category, Description: e.Description, Date: e.Date}.Normalize()
	if err := n.Validate(); err != nil {
		return false, err
	}
	e.Category = n.Category
	e.Description = n.Description

	s.mu.Lock()
	idx := slices.IndexFunc(s.expenses, func(x models.Expense) bool { return x.ID == e.ID })
	if idx >= 0 {
		s.expenses[idx] = e
		sortExpenses(s.expenses)
	}
	s.mu.Unlock()

	if idx < 0 {
		return false, nil
	}
	s.notify(Change{Collection: CollectionExpenses, Action: ActionUpdate, ID: e.ID})
	return true, nil
}

// RemoveExpense deletes the expense with id and reports whether it existed.
func (s *Store) RemoveExpense(id string) bool {
	s.mu.Lock()
	n := len(s.expenses)
	s.expenses = slices.DeleteFunc(s.expenses, func(e models.Expense) bool { return e.ID == id })
	removed := len(s.expenses) != n
	s.mu.Unlock()

	if removed {
		s.notify(Change{Collection: CollectionExpenses, Action: ActionRemove, ID: id})
	}
	return removed
}

// SetExpenses replaces every expense.
func (s *Store) SetExpenses(expenses []models.Expense) {
	s.mu.Lock()
	s.expenses = clone(expenses)
	sortExpenses(s.expenses)
	s.mu.Unlock()

	s.notify(Change{Collection: CollectionExpenses, Action: ActionReplace})
}

// --- Watchlist ---

// Watchlist returns the items in insertion order.
func (s *Store) Watchlist() []models.WatchlistItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.watchlist)
}

// HasWatchlistSymbol reports whether symbol is already watched.
func (s *Store) HasWatchlistSymbol(symbol string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexWatchlistSymbol(symbol) >= 0
}

func (s *Store) indexWatchlistSymbol(symbol string) int {
	symbol = strings.TrimSpace(symbol)
	return slices.IndexFunc(s.watchlist, func(w models.WatchlistItem) bool {
		return strings.EqualFold(w.Symbol, symbol)
	})
}

// AddWatchlistItem appends item under a fresh id. A symbol already on the list is
// left alone: the existing item is returned with added=false.
func (s *Store) AddWatchlistItem(item models.WatchlistItem) (models.WatchlistItem, bool) {
	item.Symbol = strings.ToUpper(strings.TrimSpace(item.Symbol))

	s.mu.Lock()
	if idx := s.indexWatchlistSymbol(item.Symbol); idx >= 0 {
		existing := s.watchlist[idx]
		s.mu.Unlock()
		return existing, false
	}
	item.ID = s.newID()
	s.watchlist = append(s.watchlist, item)
	s.mu.Unlock()

	s.notify(Change{Collection: CollectionWatchlist, Action: ActionAdd, ID: item.ID})
	return item, true
}

// RemoveWatchlistItem deletes the item with id and reports whether it existed.
func (s *Store) RemoveWatchlistItem(id string) bool {
	s.mu.Lock()
	n := len(s.watchlist)
	s.watchlist = slices.DeleteFunc(s.watchlist, func(w models.WatchlistItem) bool { return w.ID == id })
	removed := len(s.watchlist) != n
	s.mu.Unlock()

	if removed {
		s.notify(Change{Collection: CollectionWatchlist, Action: ActionRemove, ID: id})
	}
	return removed
}

// SetWatchlist replaces every item.
func (s *Store) SetWatchlist(items []models.WatchlistItem) {
	s.mu.Lock()
	s.watchlist = clone(items)
	s.mu.Unlock()

	s.notify(Change{Collection: CollectionWatchlist, Action: ActionReplace})
}

// UpdateWatchlistPrices stamps each update onto the items with that symbol and
// returns how many items changed.
func (s *Store) UpdateWatchlistPrices(updates []models.PriceUpdate) int {
	s.mu.Lock()
	n := 0
	for _, u := range updates {
		for i := range s.watchlist {
			if strings.EqualFold(s.watchlist[i].Symbol, u.Symbol) {
				s.watchlist[i].CurrentPrice = u.Price
				s.watchlist[i].DailyChange = u.Change
				s.watchlist[i].DailyChangePercent = u.ChangePercent
				n++
			}
		}
	}
	s.mu.Unlock()

	if n > 0 {
		s.notify(Change{Collection: CollectionWatchlist, Action: ActionPrices})
	}
	return n
}

// --- History ---

// History returns the portfolio value series in ascending date order.
func (s *Store) History() []models.ChartDataPoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.history)
}

func sortHistory(points []models.ChartDataPoint) {
	slices.SortStableFunc(points, func(a, b models.ChartDataPoint) int {
		return a.Date.Compare(b.Date)
	})
}

// SetHistory replaces the series.
func (s *Store) SetHistory(points []models.ChartDataPoint) {
	s.mu.Lock()
	s.history = clone(points)
	sortHistory(s.history)
	s.mu.Unlock()

	s.notify(Change{Collection: CollectionHistory, Action: ActionReplace})
}

// RecordValue sets the value for date, inserting a point if the day has none.
func (s *Store) RecordValue(date models.Date, value float64) {
	s.mu.Lock()
	idx, found := slices.BinarySearchFunc(s.history, date, func(p models.ChartDataPoint, d models.Date) int {
		return p.Date.Compare(d)
	})
	if found {
		s.history[idx].Value = value
	} else {
		s.history = slices.Insert(s.history, idx, models.ChartDataPoint{Date: date, Value: value})
	}
	s.mu.Unlock()

	s.notify(Change{Collection: CollectionHistory, Action: ActionUpdate, ID: date.String()})
}

// --- Snapshot ---

// Snapshot returns a deep copy of every collection in persisted form.
func (s *Store) Snapshot() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.Snapshot{
		Portfolio: models.PortfolioState{
			Holdings:       clone(s.holdings),
			HistoricalData: clone(s.history),
		},
		Watchlist: models.WatchlistState{Items: clone(s.watchlist)},
		Expenses:  models.ExpensesState{Expenses: clone(s.expenses)},
	}
}

// Restore replaces every collection with snap and notifies once per collection.
func (s *Store) Restore(snap models.Snapshot) {
	s.restore(snap)
	for _, c := range []Collection{CollectionHoldings, CollectionExpenses, CollectionWatchlist, CollectionHistory} {
		s.notify(Change{Collection: c, Action: ActionReplace})
	}
}

func (s *Store) restore(snap models.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holdings = clone(snap.Portfolio.Holdings)
	s.history = clone(snap.Portfolio.HistoricalData)
	sortHistory(s.history)
	s.watchlist = clone(snap.Watchlist.Items)
	s.expenses = clone(snap.Expenses.Expenses)
	sortExpenses(s.expenses)
}
