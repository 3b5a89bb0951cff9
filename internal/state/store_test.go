package state

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/fintrack/internal/models"
)

func newTestStore() *Store {
	s := New()
	n := 0
	s.newID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	return s
}

func recordChanges(s *Store) *[]Change {
	var got []Change
	s.Subscribe(func(c Change) { got = append(got, c) })
	return &got
}

func TestStore_AddHolding(t *testing.T) {
	s := newTestStore()
	changes := recordChanges(s)

	h, err := s.AddHolding(models.Holding{Symbol: " aapl ", Name: "Apple Inc.", Shares: 2, AvgCost: 100, CurrentPrice: 110})
	require.NoError(t, err)

	assert.Equal(t, "id-1", h.ID)
	assert.Equal(t, "AAPL", h.Symbol)
	assert.Len(t, s.Holdings(), 1)
	assert.Equal(t, []Change{{Collection: CollectionHoldings, Action: ActionAdd, ID: "id-1"}}, *changes)
}

func TestStore_AddHoldingRejectsInvalid(t *testing.T) {
	s := newTestStore()
	changes := recordChanges(s)

	_, err := s.AddHolding(models.Holding{Symbol: "AAPL", Shares: 0})
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Empty(t, s.Holdings())
	assert.Empty(t, *changes)
}

func TestStore_RemoveHolding(t *testing.T) {
	s := newTestStore()
	h, _ := s.AddHolding(models.Holding{Symbol: "AAPL", Shares: 1})
	changes := recordChanges(s)

	assert.False(t, s.RemoveHolding("missing"))
	assert.Empty(t, *changes)

	assert.True(t, s.RemoveHolding(h.ID))
	assert.Empty(t, s.Holdings())
	assert.Len(t, *changes, 1)
}

func TestStore_UpdateHoldingPricesAppliesToEveryMatch(t *testing.T) {
	s := newTestStore()
	s.SetHoldings([]models.Holding{
		{ID: "a", Symbol: "AAPL", Shares: 1, CurrentPrice: 1},
		{ID: "b", Symbol: "MSFT", Shares: 1, CurrentPrice: 1},
		{ID: "c", Symbol: "AAPL", Shares: 3, CurrentPrice: 1},
	})

	n := s.UpdateHoldingPrices([]models.PriceUpdate{{Symbol: "AAPL", Price: 180, Change: 2, ChangePercent: 1.1}})

	assert.Equal(t, 2, n)
	holdings := s.Holdings()
	assert.Equal(t, 180.0, holdings[0].CurrentPrice)
	assert.Equal(t, 1.0, holdings[1].CurrentPrice)
	assert.Equal(t, 180.0, holdings[2].CurrentPrice)
	assert.Equal(t, 1.1, holdings[2].DailyChangePercent)
	// Shares and cost are untouched by price refresh.
	assert.Equal(t, 3.0, holdings[2].Shares)
}

func TestStore_ReadsReturnCopies(t *testing.T) {
	s := newTestStore()
	s.SetHoldings([]models.Holding{{ID: "a", Symbol: "AAPL", Shares: 1}})

	got := s.Holdings()
	got[0].Shares = 999

	assert.Equal(t, 1.0, s.Holdings()[0].Shares)
}

func TestStore_ExpensesSortedDescending(t *testing.T) {
	s := newTestStore()
	d := models.NewDate(2026, time.October, 10)

	_, err := s.AddExpense(models.NewExpense{Amount: 5, Category: models.CategoryFood, Description: "a", Date: d.AddDays(-2)})
	require.NoError(t, err)
	_, err = s.AddExpense(models.NewExpense{Amount: 5, Category: models.CategoryFood, Description: "b", Date: d})
	require.NoError(t, err)
	_, err = s.AddExpense(models.NewExpense{Amount: 5, Category: models.CategoryFood, Description: "c", Date: d})
	require.NoError(t, err)

	var descs []string
	for _, e := range s.Expenses() {
		descs = append(descs, e.Description)
	}
	// Newest insert comes first among same-day records.
	assert.Equal(t, []string{"c", "b", "a"}, descs)
}

func TestStore_AddExpenseValidation(t *testing.T) {
	s := newTestStore()
	_, err := s.AddExpense(models.NewExpense{Amount: -1, Category: models.CategoryFood, Description: "x", Date: models.NewDate(2026, 1, 1)})
	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Empty(t, s.Expenses())
}

func TestStore_ExpenseCategoryCanonicalized(t *testing.T) {
	s := newTestStore()
	d := models.NewDate(2026, time.October, 10)

	e, err := s.AddExpense(models.NewExpense{Amount: 5, Category: "FOOD", Description: "Bagels", Date: d})
	require.NoError(t, err)
	assert.Equal(t, models.CategoryFood, e.Category)
	assert.Equal(t, models.CategoryFood, s.Expenses()[0].Category)

	e.Category = " Transport"
	found, err := s.UpdateExpense(e)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, models.CategoryTransport, s.Expenses()[0].Category)
}

func TestStore_UpdateExpenseResorts(t *testing.T) {
	s := newTestStore()
	d := models.NewDate(2026, time.October, 10)
	older, _ := s.AddExpense(models.NewExpense{Amount: 5, Category: models.CategoryFood, Description: "older", Date: d.AddDays(-5)})
	_, _ = s.AddExpense(models.NewExpense{Amount: 5, Category: models.CategoryFood, Description: "newer", Date: d})

	older.Date = d.AddDays(1)
	older.Category = models.CategoryBills
	found, err := s.UpdateExpense(older)
	require.NoError(t, err)
	assert.True(t, found)

	expenses := s.Expenses()
	assert.Equal(t, older.ID, expenses[0].ID)
	assert.Equal(t, models.CategoryBills, expenses[0].Category)

	found, err = s.UpdateExpense(models.Expense{ID: "missing", Amount: 1, Category: models.CategoryFood, Description: "x", Date: d})
	require.NoError(t, err)
	assert.False(t, found)

	_, err = s.UpdateExpense(models.Expense{ID: older.ID, Amount: 1, Category: "rent", Description: "x", Date: d})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestStore_RemoveExpense(t *testing.T) {
	s := newTestStore()
	e, _ := s.AddExpense(models.NewExpense{Amount: 5, Category: models.CategoryFood, Description: "x", Date: models.NewDate(2026, 1, 1)})

	assert.True(t, s.RemoveExpense(e.ID))
	assert.False(t, s.RemoveExpense(e.ID))
}

func TestStore_WatchlistDuplicateIsNoop(t *testing.T) {
	s := newTestStore()
	changes := recordChanges(s)

	first, added := s.AddWatchlistItem(models.WatchlistItem{ID: "x1", Symbol: "AMD"})
	require.True(t, added)
	second, added := s.AddWatchlistItem(models.WatchlistItem{ID: "x2", Symbol: "amd"})

	assert.False(t, added)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, s.Watchlist(), 1)
	assert.Len(t, *changes, 1)
	assert.True(t, s.HasWatchlistSymbol("Amd"))
}

func TestStore_WatchlistPricesAndRemove(t *testing.T) {
	s := newTestStore()
	item, _ := s.AddWatchlistItem(models.WatchlistItem{Symbol: "META", CurrentPrice: 500})

	assert.Equal(t, 1, s.UpdateWatchlistPrices([]models.PriceUpdate{{Symbol: "META", Price: 510, Change: 10, ChangePercent: 2}}))
	assert.Equal(t, 0, s.UpdateWatchlistPrices([]models.PriceUpdate{{Symbol: "NFLX", Price: 1}}))
	assert.Equal(t, 510.0, s.Watchlist()[0].CurrentPrice)

	assert.True(t, s.RemoveWatchlistItem(item.ID))
	assert.False(t, s.HasWatchlistSymbol("META"))
}

func TestStore_RecordValueUpsertsInOrder(t *testing.T) {
	s := newTestStore()
	d := models.NewDate(2026, time.October, 10)
	s.SetHistory([]models.ChartDataPoint{{Date: d.AddDays(2), Value: 3}, {Date: d, Value: 1}})

	s.RecordValue(d.AddDays(1), 2)
	s.RecordValue(d, 10)
	s.RecordValue(d.AddDays(5), 4)

	h := s.History()
	require.Len(t, h, 4)
	assert.Equal(t, []float64{10, 2, 3, 4}, []float64{h[0].Value, h[1].Value, h[2].Value, h[3].Value})
	for i := 1; i < len(h); i++ {
		assert.True(t, h[i-1].Date.Before(h[i].Date))
	}
}

func TestStore_SnapshotRestoreRoundTrip(t *testing.T) {
	seeded := Seed(newRand(7), models.NewDate(2026, time.October, 19))
	s := NewFromSnapshot(seeded)

	assert.Equal(t, seeded, s.Snapshot())

	other := New()
	changes := recordChanges(other)
	other.Restore(s.Snapshot())
	assert.Equal(t, seeded, other.Snapshot())
	assert.Len(t, *changes, 4)
}

func TestStore_EmptySnapshotHasNoNilSlices(t *testing.T) {
	snap := New().Snapshot()
	assert.NotNil(t, snap.Portfolio.Holdings)
	assert.NotNil(t, snap.Portfolio.HistoricalData)
	assert.NotNil(t, snap.Watchlist.Items)
	assert.NotNil(t, snap.Expenses.Expenses)
}

func TestStore_UnsubscribeStopsDelivery(t *testing.T) {
	s := newTestStore()
	var calls []string
	unsubA := s.Subscribe(func(Change) { calls = append(calls, "a") })
	s.Subscribe(func(Change) { calls = append(calls, "b") })

	s.SetHoldings(nil)
	unsubA()
	s.SetHoldings(nil)

	assert.Equal(t, []string{"a", "b", "b"}, calls)
}

func TestStore_SubscriberMayReadStore(t *testing.T) {
	s := newTestStore()
	var seen int
	s.Subscribe(func(Change) { seen = len(s.Holdings()) })

	_, err := s.AddHolding(models.Holding{Symbol: "AAPL", Shares: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, seen)
}

func TestStore_ConcurrentMutations(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_, _ = s.AddHolding(models.Holding{Symbol: fmt.Sprintf("S%d", i), Shares: 1})
		}(i)
		go func() {
			defer wg.Done()
			_ = s.Snapshot()
		}()
	}
	wg.Wait()
	assert.Len(t, s.Holdings(), 20)
}
