package analytics

import (
	"cmp"
	"slices"

	"github.com/bobmcallan/fintrack/internal/models"
)

// MoversLimit caps each side of the movers list.
const MoversLimit = 3

// TopMovers returns up to three positive movers, best first, and up to three
// negative movers, worst first. Equal moves keep their input order.
func TopMovers[T models.Mover](items []T) models.Movers[T] {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b T) int {
		return cmp.Compare(b.DayChangePct(), a.DayChangePct())
	})
	gainers := make([]T, 0, MoversLimit)
	for _, it := range sorted {
		if len(gainers) == MoversLimit || it.DayChangePct() <= 0 {
			break
		}
		gainers = append(gainers, it)
	}

	slices.SortStableFunc(sorted, func(a, b T) int {
		return cmp.Compare(a.DayChangePct(), b.DayChangePct())
	})
	losers := make([]T, 0, MoversLimit)
	for _, it := range sorted {
		if len(losers) == MoversLimit || it.DayChangePct() >= 0 {
			break
		}
		losers = append(losers, it)
	}

	return models.Movers[T]{Gainers: gainers, Losers: losers}
}

// SummarizeWatchlist counts gainers and losers, averages the daily move and picks
// the best and worst item.
func SummarizeWatchlist(items []models.WatchlistItem) models.WatchlistSummary {
	s := models.WatchlistSummary{Count: len(items)}
	if len(items) == 0 {
		return s
	}

	var sum float64
	for i := range items {
		pct := items[i].DailyChangePercent
		sum += pct
		switch {
		case pct > 0:
			s.Gainers++
		case pct < 0:
			s.Losers++
		}
	}
	s.AverageChangePercent = sum / float64(len(items))

	movers := TopMovers(items)
	if len(movers.Gainers) > 0 {
		top := movers.Gainers[0]
		s.TopGainer = &top
	}
	if len(movers.Losers) > 0 {
		bottom := movers.Losers[0]
		s.TopLoser = &bottom
	}
	return s
}
