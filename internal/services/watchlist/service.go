// Package watchlist provides watchlist management services
package watchlist

import (
	"context"
	"fmt"
	"strings"

	"github.com/bobmcallan/fintrack/internal/analytics"
	"github.com/bobmcallan/fintrack/internal/common"
	"github.com/bobmcallan/fintrack/internal/interfaces"
	"github.com/bobmcallan/fintrack/internal/models"
	"github.com/bobmcallan/fintrack/internal/state"
)

// Service manages the tracked symbols
type Service struct {
	store  *state.Store
	quotes interfaces.QuoteService
	logger *common.Logger
}

// NewService creates a new watchlist service
func NewService(store *state.Store, quotes interfaces.QuoteService, logger *common.Logger) *Service {
	return &Service{
		store:  store,
		quotes: quotes,
		logger: logger,
	}
}

// Items returns the watchlist in insertion order.
func (s *Service) Items() []models.WatchlistItem {
	return s.store.Watchlist()
}

// Add tracks symbol. A symbol already on the list is returned unchanged with
// added=false and no quote is fetched.
func (s *Service) Add(ctx context.Context, symbol string) (models.WatchlistItem, bool, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return models.WatchlistItem{}, false, models.NewValidationError("symbol", "is required")
	}

	for _, item := range s.store.Watchlist() {
		if item.Symbol == symbol {
			s.logger.Debug().Str("symbol", symbol).Msg("Symbol already on watchlist")
			return item, false, nil
		}
	}

	quote, err := s.quotes.FetchQuote(ctx, symbol)
	if err != nil {
		return models.WatchlistItem{}, false, fmt.Errorf("failed to get quote for %s: %w", symbol, err)
	}

	item, added := s.store.AddWatchlistItem(models.WatchlistItemFromQuote(*quote))
	if added {
		s.logger.Info().Str("symbol", item.Symbol).Msg("Watchlist item added")
	}
	return item, added, nil
}

// Remove stops tracking the item with id.
func (s *Service) Remove(id string) error {
	if !s.store.RemoveWatchlistItem(id) {
		return fmt.Errorf("watchlist item '%s': %w", id, models.ErrNotFound)
	}
	s.logger.Info().Str("id", id).Msg("Watchlist item removed")
	return nil
}

// Promote buys one share of the item at its current price and drops it from the watchlist.
func (s *Service) Promote(id string) (models.Holding, error) {
	var item *models.WatchlistItem
	for _, w := range s.store.Watchlist() {
		if w.ID == id {
			item = &w
			break
		}
	}
	if item == nil {
		return models.Holding{}, fmt.Errorf("watchlist item '%s': %w", id, models.ErrNotFound)
	}

	h, err := s.store.AddHolding(models.Holding{
		Symbol:             item.Symbol,
		Name:               item.Name,
		Shares:             1,
		AvgCost:            item.CurrentPrice,
		CurrentPrice:       item.CurrentPrice,
		DailyChange:        item.DailyChange,
		DailyChangePercent: item.DailyChangePercent,
	})
	if err != nil {
		return models.Holding{}, err
	}
	s.store.RemoveWatchlistItem(id)

	s.logger.Info().Str("symbol", h.Symbol).Msg("Watchlist item moved to portfolio")
	return h, nil
}

// Summary counts gainers and losers and picks the best and worst item.
func (s *Service) Summary() models.WatchlistSummary {
	return analytics.SummarizeWatchlist(s.store.Watchlist())
}

// Movers returns the top gaining and losing items of the day.
func (s *Service) Movers() models.Movers[models.WatchlistItem] {
	return analytics.TopMovers(s.store.Watchlist())
}
