// Package portfolio provides holding management and portfolio views
package portfolio

import (
	"context"
	"fmt"
	"time"

	"github.com/bobmcallan/fintrack/internal/analytics"
	"github.com/bobmcallan/fintrack/internal/common"
	"github.com/bobmcallan/fintrack/internal/interfaces"
	"github.com/bobmcallan/fintrack/internal/models"
	"github.com/bobmcallan/fintrack/internal/state"
)

// Service combines the state store, the quote provider and the aggregation engine
type Service struct {
	store  *state.Store
	quotes interfaces.QuoteService
	logger *common.Logger
	now    func() time.Time
}

// NewService creates a new portfolio service
func NewService(store *state.Store, quotes interfaces.QuoteService, logger *common.Logger) *Service {
	return &Service{
		store:  store,
		quotes: quotes,
		logger: logger,
		now:    time.Now,
	}
}

// SetClock overrides the clock used for "today".
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

func (s *Service) today() models.Date {
	return models.DateOf(s.now())
}

// Holdings returns every holding in insertion order.
func (s *Service) Holdings() []models.Holding {
	return s.store.Holdings()
}

// AddHolding validates the input, stamps the latest quote onto it and inserts it.
// No holding is created when the quote cannot be fetched.
func (s *Service) AddHolding(ctx context.Context, input models.NewHolding) (models.Holding, error) {
	if err := input.Validate(); err != nil {
		return models.Holding{}, err
	}

	quote, err := s.quotes.FetchQuote(ctx, input.Symbol)
	if err != nil {
		return models.Holding{}, fmt.Errorf("failed to get quote for %s: %w", input.Symbol, err)
	}

	h, err := s.store.AddHolding(models.Holding{
		Symbol:             quote.Symbol,
		Name:               quote.Name,
		Shares:             input.Shares,
		AvgCost:            input.AvgCost,
		CurrentPrice:       quote.Price,
		DailyChange:        quote.Change,
		DailyChangePercent: quote.ChangePercent,
	})
	if err != nil {
		return models.Holding{}, err
	}

	s.logger.Info().Str("symbol", h.Symbol).Float64("shares", h.Shares).Str("source", quote.Source).Msg("Holding added")
	return h, nil
}

// RemoveHolding deletes a holding by id.
func (s *Service) RemoveHolding(id string) error {
	if !s.store.RemoveHolding(id) {
		return fmt.Errorf("holding '%s': %w", id, models.ErrNotFound)
	}
	s.logger.Info().Str("id", id).Msg("Holding removed")
	return nil
}

// Summary aggregates value, cost, gain and daily movement.
func (s *Service) Summary() models.PortfolioSummary {
	return analytics.Summary(s.store.Holdings())
}

// Allocation returns each holding's share of total value, largest first.
func (s *Service) Allocation() []models.AllocationItem {
	return analytics.Allocation(s.store.Holdings())
}

// Movers returns the top gaining and losing holdings of the day.
func (s *Service) Movers() models.Movers[models.Holding] {
	return analytics.TopMovers(s.store.Holdings())
}

// History returns the value series restricted to rng, ending today.
func (s *Service) History(rng models.TimeRange) []models.ChartDataPoint {
	return analytics.FilterHistory(s.store.History(), rng, s.today())
}

// RenderHistoryChart renders the ranged value series as a PNG line chart.
func (s *Service) RenderHistoryChart(rng models.TimeRange) ([]byte, error) {
	return RenderHistoryChart(s.History(rng), rng)
}
