// Package spending provides expense tracking and spending views
package spending

import (
	"fmt"
	"time"

	"github.com/bobmcallan/fintrack/internal/analytics"
	"github.com/bobmcallan/fintrack/internal/common"
	"github.com/bobmcallan/fintrack/internal/models"
	"github.com/bobmcallan/fintrack/internal/state"
)

// Service validates expense input and feeds the store's expenses to the engine
type Service struct {
	store  *state.Store
	logger *common.Logger
	now    func() time.Time
}

// NewService creates a new spending service
func NewService(store *state.Store, logger *common.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// SetClock overrides the clock used for "today".
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Expenses returns the expenses matching filter, newest first.
func (s *Service) Expenses(filter analytics.DateFilter) []models.Expense {
	all := s.store.Expenses()
	out := make([]models.Expense, 0, len(all))
	for _, e := range all {
		if filter.Match(e.Date) {
			out = append(out, e)
		}
	}
	return out
}

// AddExpense validates and records a new expense.
func (s *Service) AddExpense(input models.NewExpense) (models.Expense, error) {
	e, err := s.store.AddExpense(input)
	if err != nil {
		return models.Expense{}, err
	}
	s.logger.Info().Str("id", e.ID).Str("category", string(e.Category)).Float64("amount", e.Amount).Msg("Expense added")
	return e, nil
}

// UpdateExpense replaces the fields of the expense with id.
func (s *Service) UpdateExpense(id string, input models.NewExpense) (models.Expense, error) {
	e := models.Expense{
		ID:          id,
		Amount:      input.Amount,
		Category:    input.Category,
		Description: input.Description,
		Date:        input.Date,
	}
	found, err := s.store.UpdateExpense(e)
	if err != nil {
		return models.Expense{}, err
	}
	if !found {
		return models.Expense{}, fmt.Errorf("expense '%s': %w", id, models.ErrNotFound)
	}
	s.logger.Info().Str("id", id).Msg("Expense updated")
	for _, x := range s.store.Expenses() {
		if x.ID == id {
			return x, nil
		}
	}
	return e, nil
}

// RemoveExpense deletes an expense by id.
func (s *Service) RemoveExpense(id string) error {
	if !s.store.RemoveExpense(id) {
		return fmt.Errorf("expense '%s': %w", id, models.ErrNotFound)
	}
	s.logger.Info().Str("id", id).Msg("Expense removed")
	return nil
}

// Breakdown totals spend per category for the filter.
func (s *Service) Breakdown(filter analytics.DateFilter) ([]models.CategorySpend, error) {
	breakdown, err := analytics.SpendingBreakdown(s.store.Expenses(), filter)
	if err != nil {
		return nil, fmt.Errorf("spending breakdown for %s: %w", filter, err)
	}
	return breakdown, nil
}

// Total sums the expenses matching filter.
func (s *Service) Total(filter analytics.DateFilter) float64 {
	return analytics.TotalSpent(s.store.Expenses(), filter)
}

// Comparison compares this month's spend with last month's.
func (s *Service) Comparison() models.MonthComparison {
	return analytics.CompareMonths(s.store.Expenses(), models.DateOf(s.now()))
}

// CurrentMonth returns the calendar month containing today.
func (s *Service) CurrentMonth() models.Month {
	return models.MonthOf(models.DateOf(s.now()))
}

// RenderBreakdownChart renders the breakdown for filter as a PNG pie chart.
func (s *Service) RenderBreakdownChart(filter analytics.DateFilter) ([]byte, error) {
	breakdown, err := s.Breakdown(filter)
	if err != nil {
		return nil, err
	}
	return RenderBreakdownChart(breakdown, filter.String())
}
