package storage

import (
	"context"
	"errors"
	"math/rand"

	"github.com/bobmcallan/fintrack/internal/common"
	"github.com/bobmcallan/fintrack/internal/interfaces"
	"github.com/bobmcallan/fintrack/internal/models"
	"github.com/bobmcallan/fintrack/internal/state"
)

// Rehydrate returns the persisted snapshot, or the seed dataset when nothing usable is
// stored. The second result reports whether the seed was used. Expense categories outside
// the enumeration are coerced to "other" here so the engine never sees them.
func Rehydrate(ctx context.Context, backend interfaces.SnapshotStore, logger *common.Logger, rng *rand.Rand, today models.Date) (models.Snapshot, bool) {
	snap, err := backend.Load(ctx)
	switch {
	case err == nil && snap != nil:
	case errors.Is(err, models.ErrNotFound):
		logger.Info().Msg("No saved snapshot, starting from seed data")
		return state.Seed(rng, today), true
	default:
		logger.Warn().Err(err).Msg("Saved snapshot unreadable, starting from seed data")
		return state.Seed(rng, today), true
	}

	if n := snap.NormalizeCategories(); n > 0 {
		logger.Warn().Int("count", n).Msg("Coerced unknown expense categories to other")
	}
	logger.Info().
		Int("holdings", len(snap.Portfolio.Holdings)).
		Int("expenses", len(snap.Expenses.Expenses)).
		Int("watchlist", len(snap.Watchlist.Items)).
		Int("history", len(snap.Portfolio.HistoricalData)).
		Msg("Snapshot restored")
	return *snap, false
}
