package interfaces

import (
	"context"

	"github.com/bobmcallan/fintrack/internal/models"
)

// QuoteService fetches quotes with a mock fallback
type QuoteService interface {
	// FetchQuote returns a live quote, or the mock entry when the provider is unavailable
	FetchQuote(ctx context.Context, symbol string) (*models.StockQuote, error)

	// FetchQuotes fetches several symbols concurrently, omitting failures and keeping input order
	FetchQuotes(ctx context.Context, symbols []string) []*models.StockQuote

	// SearchSymbols returns at most five matches for query
	SearchSymbols(ctx context.Context, query string) ([]models.SearchResult, error)

	// IsDemo reports whether no API key is configured
	IsDemo() bool
}
