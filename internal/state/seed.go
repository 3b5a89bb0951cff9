package state

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/bobmcallan/fintrack/internal/models"
)

const (
	seedExpenseCount = 45
	seedExpenseDays  = 60
	seedHistoryDays  = 365
	seedHistoryStart = 42000.0
	seedHistoryMin   = 35000.0
	seedHistoryMax   = 55000.0
)

var seedHoldings = []models.Holding{
	{ID: "1", Symbol: "AAPL", Name: "Apple Inc.", Shares: 15, AvgCost: 142.50, CurrentPrice: 178.72, DailyChange: 2.34, DailyChangePercent: 1.33},
	{ID: "2", Symbol: "GOOGL", Name: "Alphabet Inc.", Shares: 8, AvgCost: 98.20, CurrentPrice: 141.80, DailyChange: -1.25, DailyChangePercent: -0.87},
	{ID: "3", Symbol: "MSFT", Name: "Microsoft Corp.", Shares: 12, AvgCost: 285.00, CurrentPrice: 378.91, DailyChange: 4.56, DailyChangePercent: 1.22},
	{ID: "4", Symbol: "TSLA", Name: "Tesla Inc.", Shares: 5, AvgCost: 210.00, CurrentPrice: 251.28, DailyChange: -8.42, DailyChangePercent: -3.24},
	{ID: "5", Symbol: "NVDA", Name: "NVIDIA Corp.", Shares: 10, AvgCost: 420.00, CurrentPrice: 495.22, DailyChange: 12.85, DailyChangePercent: 2.66},
}

var seedWatchlist = []models.WatchlistItem{
	{ID: "1", Symbol: "AMD", Name: "Advanced Micro Devices", CurrentPrice: 145.67, DailyChange: 3.21, DailyChangePercent: 2.25},
	{ID: "2", Symbol: "META", Name: "Meta Platforms Inc.", CurrentPrice: 505.42, DailyChange: -8.15, DailyChangePercent: -1.59},
	{ID: "3", Symbol: "AMZN", Name: "Amazon.com Inc.", CurrentPrice: 185.30, DailyChange: 2.45, DailyChangePercent: 1.34},
	{ID: "4", Symbol: "NFLX", Name: "Netflix Inc.", CurrentPrice: 478.92, DailyChange: 11.23, DailyChangePercent: 2.40},
}

var seedDescriptions = map[models.Category][]string{
	models.CategoryFood:          {"Grocery shopping", "Restaurant dinner", "Coffee shop", "Lunch takeout", "Fast food"},
	models.CategoryTransport:     {"Gas station", "Uber ride", "Bus pass", "Parking fee", "Car maintenance"},
	models.CategoryEntertainment: {"Movie tickets", "Netflix subscription", "Concert tickets", "Video game", "Books"},
	models.CategoryBills:         {"Electric bill", "Internet bill", "Phone bill", "Water bill", "Insurance"},
	models.CategoryOther:         {"Amazon purchase", "Gift", "Clothes", "Home supplies", "Personal care"},
}

// seedAmountRange gives the base and spread of a generated expense per category.
func seedAmountRange(c models.Category) (base, spread float64) {
	switch c {
	case models.CategoryFood:
		return 15, 100
	case models.CategoryTransport:
		return 10, 80
	case models.CategoryEntertainment:
		return 10, 60
	case models.CategoryBills:
		return 50, 150
	default:
		return 20, 100
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// Seed builds the default dataset used when nothing has been persisted: five holdings,
// four watchlist items, 45 expenses over the last 60 days and a year of synthetic
// portfolio values ending today. The same rng state and today give the same dataset.
func Seed(rng *rand.Rand, today models.Date) models.Snapshot {
	return models.Snapshot{
		Portfolio: models.PortfolioState{
			Holdings:       clone(seedHoldings),
			HistoricalData: seedHistory(rng, today),
		},
		Watchlist: models.WatchlistState{Items: clone(seedWatchlist)},
		Expenses:  models.ExpensesState{Expenses: seedExpenses(rng, today)},
	}
}

func seedExpenses(rng *rand.Rand, today models.Date) []models.Expense {
	expenses := make([]models.Expense, 0, seedExpenseCount)
	for i := 0; i < seedExpenseCount; i++ {
		date := today.AddDays(-rng.Intn(seedExpenseDays))
		category := models.Categories[rng.Intn(len(models.Categories))]
		descriptions := seedDescriptions[category]
		description := descriptions[rng.Intn(len(descriptions))]
		base, spread := seedAmountRange(category)

		expenses = append(expenses, models.Expense{
			ID:          fmt.Sprintf("exp-%d", i),
			Amount:      roundCents(base + rng.Float64()*spread),
			Category:    category,
			Description: description,
			Date:        date,
		})
	}
	sortExpenses(expenses)
	return expenses
}

func seedHistory(rng *rand.Rand, today models.Date) []models.ChartDataPoint {
	points := make([]models.ChartDataPoint, 0, seedHistoryDays+1)
	value := seedHistoryStart
	for i := seedHistoryDays; i >= 0; i-- {
		change := (rng.Float64() - 0.48) * 800
		value = math.Max(seedHistoryMin, math.Min(seedHistoryMax, value+change))
		points = append(points, models.ChartDataPoint{
			Date:  today.AddDays(-i),
			Value: roundCents(value),
		})
	}
	return points
}
