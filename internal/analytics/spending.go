package analytics

import (
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/fintrack/internal/models"
)

// DateFilter selects the expenses a breakdown covers.
type DateFilter struct {
	from, to models.Date
	label    string
}

// AllTime matches every expense.
func AllTime() DateFilter {
	return DateFilter{label: "all time"}
}

// InMonth matches expenses in one calendar month.
func InMonth(m models.Month) DateFilter {
	start := models.NewDate(m.Year, m.Month, 1)
	return DateFilter{from: start, to: start.MonthEnd(), label: m.String()}
}

// Between matches expenses from..to inclusive. A zero bound is open.
func Between(from, to models.Date) DateFilter {
	return DateFilter{from: from, to: to, label: fmt.Sprintf("%s to %s", from, to)}
}

// Match reports whether d falls inside the filter.
func (f DateFilter) Match(d models.Date) bool {
	if !f.from.IsZero() && d.Before(f.from) {
		return false
	}
	if !f.to.IsZero() && d.After(f.to) {
		return false
	}
	return true
}

func (f DateFilter) String() string { return f.label }

// SpendingBreakdown totals expenses by category. Categories with no spend are
// omitted and the rest are ordered by amount, largest first, ties in category order.
// An expense outside the category enumeration fails the whole breakdown.
func SpendingBreakdown(expenses []models.Expense, filter DateFilter) ([]models.CategorySpend, error) {
	totals := make([]decimal.Decimal, len(models.Categories))
	for i := range totals {
		totals[i] = decimal.Zero
	}
	total := decimal.Zero

	for _, e := range expenses {
		if !filter.Match(e.Date) {
			continue
		}
		idx, err := e.Category.Index()
		if err != nil {
			return nil, fmt.Errorf("expense %s: %w", e.ID, err)
		}
		amount := decimal.NewFromFloat(e.Amount)
		totals[idx] = totals[idx].Add(amount)
		total = total.Add(amount)
	}

	out := make([]models.CategorySpend, 0, len(models.Categories))
	for i, c := range models.Categories {
		if !totals[i].IsPositive() {
			continue
		}
		out = append(out, models.CategorySpend{
			Category:   c,
			Label:      c.Label(),
			Amount:     totals[i].InexactFloat64(),
			Percentage: percentOf(totals[i], total),
			Color:      c.Color(),
		})
	}
	slices.SortStableFunc(out, func(a, b models.CategorySpend) int {
		switch {
		case a.Amount > b.Amount:
			return -1
		case a.Amount < b.Amount:
			return 1
		}
		return 0
	})
	return out, nil
}

// TotalSpent sums the expenses matching filter.
func TotalSpent(expenses []models.Expense, filter DateFilter) float64 {
	total := decimal.Zero
	for _, e := range expenses {
		if filter.Match(e.Date) {
			total = total.Add(decimal.NewFromFloat(e.Amount))
		}
	}
	return total.InexactFloat64()
}

// CompareMonths compares spend in today's calendar month with the whole of the
// previous one. Expenses dated after the end of today's month count toward neither.
func CompareMonths(expenses []models.Expense, today models.Date) models.MonthComparison {
	thisMonth := models.MonthOf(today)
	lastMonth := thisMonth.Previous()

	this, last := decimal.Zero, decimal.Zero
	for _, e := range expenses {
		amount := decimal.NewFromFloat(e.Amount)
		switch {
		case thisMonth.Contains(e.Date):
			this = this.Add(amount)
		case lastMonth.Contains(e.Date):
			last = last.Add(amount)
		}
	}

	return models.MonthComparison{
		ThisMonth:     this.InexactFloat64(),
		LastMonth:     last.InexactFloat64(),
		PercentChange: percentOf(this.Sub(last), last),
	}
}
