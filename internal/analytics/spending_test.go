package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/fintrack/internal/models"
)

var today = models.NewDate(2026, time.October, 19)

func expense(amount float64, c models.Category, d models.Date) models.Expense {
	return models.Expense{ID: d.String() + string(c), Amount: amount, Category: c, Description: "x", Date: d}
}

func TestSpendingBreakdown_SingleExpense(t *testing.T) {
	got, err := SpendingBreakdown([]models.Expense{expense(50, models.CategoryFood, today)}, AllTime())
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Equal(t, models.CategoryFood, got[0].Category)
	assert.Equal(t, 50.0, got[0].Amount)
	assert.Equal(t, 100.0, got[0].Percentage)
	assert.Equal(t, "#f97316", got[0].Color)
	assert.Equal(t, "Food & Dining", got[0].Label)
}

func TestSpendingBreakdown_OrderAndPercentages(t *testing.T) {
	expenses := []models.Expense{
		expense(10.10, models.CategoryFood, today),
		expense(33.30, models.CategoryBills, today),
		expense(20.00, models.CategoryOther, today),
		expense(20.00, models.CategoryTransport, today),
		expense(0.20, models.CategoryFood, today),
	}

	got, err := SpendingBreakdown(expenses, AllTime())
	require.NoError(t, err)

	var order []models.Category
	var sum float64
	for _, c := range got {
		order = append(order, c.Category)
		sum += c.Percentage
		assert.Positive(t, c.Amount)
	}
	// Transport and other tie at 20; transport comes first in category order.
	assert.Equal(t, []models.Category{
		models.CategoryBills, models.CategoryTransport, models.CategoryOther, models.CategoryFood,
	}, order)
	assert.InDelta(t, 100, sum, 1e-9)
	assert.Equal(t, 10.3, got[3].Amount)
}

func TestSpendingBreakdown_MonthFilter(t *testing.T) {
	expenses := []models.Expense{
		expense(40, models.CategoryFood, models.NewDate(2026, time.October, 1)),
		expense(60, models.CategoryBills, models.NewDate(2026, time.September, 30)),
	}

	got, err := SpendingBreakdown(expenses, InMonth(models.Month{Year: 2026, Month: time.October}))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.CategoryFood, got[0].Category)
	assert.Equal(t, 100.0, got[0].Percentage)
}

func TestSpendingBreakdown_BetweenIsInclusive(t *testing.T) {
	from := models.NewDate(2026, time.October, 1)
	to := models.NewDate(2026, time.October, 10)
	expenses := []models.Expense{
		expense(1, models.CategoryFood, from),
		expense(2, models.CategoryFood, to),
		expense(4, models.CategoryFood, to.AddDays(1)),
	}

	got, err := SpendingBreakdown(expenses, Between(from, to))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 3.0, got[0].Amount)
}

func TestSpendingBreakdown_Empty(t *testing.T) {
	got, err := SpendingBreakdown(nil, AllTime())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSpendingBreakdown_UnknownCategory(t *testing.T) {
	_, err := SpendingBreakdown([]models.Expense{expense(5, "rent", today)}, AllTime())
	assert.ErrorIs(t, err, models.ErrUnknownCategory)
}

func TestCompareMonths(t *testing.T) {
	expenses := []models.Expense{
		expense(100, models.CategoryFood, models.NewDate(2026, time.October, 1)),
		expense(50, models.CategoryFood, models.NewDate(2026, time.October, 18)),
		expense(200, models.CategoryBills, models.NewDate(2026, time.September, 1)),
		expense(100, models.CategoryBills, models.NewDate(2026, time.September, 30)),
		expense(999, models.CategoryOther, models.NewDate(2026, time.August, 31)),
	}

	got := CompareMonths(expenses, today)

	assert.Equal(t, 150.0, got.ThisMonth)
	assert.Equal(t, 300.0, got.LastMonth)
	assert.Equal(t, -50.0, got.PercentChange)
}

func TestCompareMonths_JanuaryLooksAtDecember(t *testing.T) {
	jan := models.NewDate(2026, time.January, 5)
	expenses := []models.Expense{
		expense(30, models.CategoryFood, models.NewDate(2026, time.January, 2)),
		expense(20, models.CategoryFood, models.NewDate(2025, time.December, 31)),
	}

	got := CompareMonths(expenses, jan)

	assert.Equal(t, 30.0, got.ThisMonth)
	assert.Equal(t, 20.0, got.LastMonth)
	assert.Equal(t, 50.0, got.PercentChange)
}

func TestCompareMonths_NoLastMonth(t *testing.T) {
	got := CompareMonths([]models.Expense{expense(30, models.CategoryFood, today)}, today)
	assert.Equal(t, 0.0, got.PercentChange)
}

func TestCompareMonths_FutureDatedExcluded(t *testing.T) {
	expenses := []models.Expense{
		expense(40, models.CategoryFood, models.NewDate(2026, time.October, 31)),
		expense(500, models.CategoryEntertainment, models.NewDate(2026, time.November, 1)),
		expense(70, models.CategoryBills, models.NewDate(2027, time.October, 3)),
		expense(20, models.CategoryFood, models.NewDate(2026, time.September, 12)),
	}

	got := CompareMonths(expenses, today)

	assert.Equal(t, 40.0, got.ThisMonth)
	assert.Equal(t, 20.0, got.LastMonth)
	assert.Equal(t, 100.0, got.PercentChange)
}

func TestTotalSpent(t *testing.T) {
	expenses := []models.Expense{
		expense(0.1, models.CategoryFood, today),
		expense(0.2, models.CategoryFood, today),
	}
	assert.Equal(t, 0.3, TotalSpent(expenses, AllTime()))
}
