// Package analytics derives the dashboard figures from raw collections.
//
// Every function here is pure: it never mutates its inputs and takes "today"
// explicitly where the result depends on the calendar.
package analytics

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/fintrack/internal/models"
)

var hundred = decimal.NewFromInt(100)

// percentOf returns part/whole*100, or 0 when whole is zero.
func percentOf(part, whole decimal.Decimal) float64 {
	if whole.IsZero() {
		return 0
	}
	return part.Div(whole).Mul(hundred).InexactFloat64()
}

// Summary aggregates value, cost and daily movement across holdings.
func Summary(holdings []models.Holding) models.PortfolioSummary {
	value, cost, daily := decimal.Zero, decimal.Zero, decimal.Zero
	for _, h := range holdings {
		shares := decimal.NewFromFloat(h.Shares)
		value = value.Add(decimal.NewFromFloat(h.CurrentPrice).Mul(shares))
		cost = cost.Add(decimal.NewFromFloat(h.AvgCost).Mul(shares))
		daily = daily.Add(decimal.NewFromFloat(h.DailyChange).Mul(shares))
	}

	s := models.PortfolioSummary{
		TotalValue:       value.InexactFloat64(),
		TotalCost:        cost.InexactFloat64(),
		TotalGainPercent: percentOf(value.Sub(cost), cost),
		DailyChange:      daily.InexactFloat64(),
	}
	// Derived from the rounded outputs so value - cost == gain holds exactly.
	s.TotalGain = s.TotalValue - s.TotalCost

	previous := value.Sub(daily)
	if previous.IsPositive() {
		s.DailyChangePercent = percentOf(daily, previous)
	}
	return s
}

// Allocation returns each holding's share of total market value, largest first.
// Equal values keep their input order.
func Allocation(holdings []models.Holding) []models.AllocationItem {
	values := make([]decimal.Decimal, len(holdings))
	total := decimal.Zero
	for i, h := range holdings {
		values[i] = decimal.NewFromFloat(h.CurrentPrice).Mul(decimal.NewFromFloat(h.Shares))
		total = total.Add(values[i])
	}

	items := make([]models.AllocationItem, len(holdings))
	for i, h := range holdings {
		items[i] = models.AllocationItem{
			Symbol:     h.Symbol,
			Name:       h.Name,
			Value:      values[i].InexactFloat64(),
			Percentage: percentOf(values[i], total),
		}
	}
	slices.SortStableFunc(items, func(a, b models.AllocationItem) int {
		switch {
		case a.Value > b.Value:
			return -1
		case a.Value < b.Value:
			return 1
		}
		return 0
	})
	return items
}

// TotalValue is the market value of all holdings.
func TotalValue(holdings []models.Holding) float64 {
	return Summary(holdings).TotalValue
}
