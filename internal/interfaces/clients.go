// Package interfaces defines service contracts for FinTrack
package interfaces

import (
	"context"

	"github.com/bobmcallan/fintrack/internal/models"
)

// QuoteClient provides access to a live quote and symbol search API
type QuoteClient interface {
	// GetQuote retrieves the latest quote for a symbol
	GetQuote(ctx context.Context, symbol string) (*models.StockQuote, error)

	// SearchSymbols retrieves symbols matching keywords
	SearchSymbols(ctx context.Context, keywords string) ([]models.SearchResult, error)
}
