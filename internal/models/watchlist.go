package models

// WatchlistItem is a tracked security with no position
type WatchlistItem struct {
	ID                 string  `json:"id"`
	Symbol             string  `json:"symbol"`
	Name               string  `json:"name"`
	CurrentPrice       float64 `json:"currentPrice"`
	DailyChange        float64 `json:"dailyChange"`
	DailyChangePercent float64 `json:"dailyChangePercent"`
}

// DayChangePct satisfies Mover.
func (w WatchlistItem) DayChangePct() float64 { return w.DailyChangePercent }

// WatchlistItemFromQuote builds an unsaved item (no ID) from a quote.
func WatchlistItemFromQuote(q StockQuote) WatchlistItem {
	return WatchlistItem{
		Symbol:             q.Symbol,
		Name:               q.Name,
		CurrentPrice:       q.Price,
		DailyChange:        q.Change,
		DailyChangePercent: q.ChangePercent,
	}
}

// WatchlistSummary is the header of the watchlist view
type WatchlistSummary struct {
	Count                int            `json:"count"`
	Gainers              int            `json:"gainers"`
	Losers               int            `json:"losers"`
	AverageChangePercent float64        `json:"averageChangePercent"`
	TopGainer            *WatchlistItem `json:"topGainer,omitempty"`
	TopLoser             *WatchlistItem `json:"topLoser,omitempty"`
}
