package models

// SnapshotKey is the storage key of the single persisted document.
const SnapshotKey = "fintrack-state"

// Snapshot is the persisted form of the whole state store. It has no version field;
// schema changes are not migrated.
type Snapshot struct {
	Portfolio PortfolioState `json:"portfolio"`
	Watchlist WatchlistState `json:"watchlist"`
	Expenses  ExpensesState  `json:"expenses"`
}

// PortfolioState is the "portfolio" section of the snapshot.
type PortfolioState struct {
	Holdings       []Holding        `json:"holdings"`
	HistoricalData []ChartDataPoint `json:"historicalData"`
}

// WatchlistState is the "watchlist" section of the snapshot.
type WatchlistState struct {
	Items []WatchlistItem `json:"items"`
}

// ExpensesState is the "expenses" section of the snapshot.
type ExpensesState struct {
	Expenses []Expense `json:"expenses"`
}

// NormalizeCategories canonicalizes expense categories, coercing values outside the
// enumeration to CategoryOther. It returns how many records were coerced.
func (s *Snapshot) NormalizeCategories() int {
	n := 0
	for i := range s.Expenses.Expenses {
		c, err := ParseCategory(string(s.Expenses.Expenses[i].Category))
		if err != nil {
			c = CategoryOther
			n++
		}
		s.Expenses.Expenses[i].Category = c
	}
	return n
}
