package app

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/bobmcallan/fintrack/internal/analytics"
	"github.com/bobmcallan/fintrack/internal/models"
)

// refreshTimeout bounds one scheduled refresh run.
const refreshTimeout = 30 * time.Second

// RefreshResult reports what a price refresh touched.
type RefreshResult struct {
	Symbols   int         `json:"symbols"`
	Quotes    int         `json:"quotes"`
	Holdings  int         `json:"holdings"`
	Watchlist int         `json:"watchlist"`
	Date      models.Date `json:"date"`
	Value     float64     `json:"value"`
}

// refreshSymbols returns the distinct symbols held or watched, holdings first.
func (a *App) refreshSymbols() []string {
	seen := make(map[string]bool)
	var symbols []string
	add := func(sym string) {
		sym = strings.ToUpper(sym)
		if sym != "" && !seen[sym] {
			seen[sym] = true
			symbols = append(symbols, sym)
		}
	}
	for _, h := range a.Store.Holdings() {
		add(h.Symbol)
	}
	for _, w := range a.Store.Watchlist() {
		add(w.Symbol)
	}
	return symbols
}

// RefreshPrices fetches quotes for every held or watched symbol, stamps them onto
// both collections and records today's portfolio value in the history.
func (a *App) RefreshPrices(ctx context.Context) RefreshResult {
	start := time.Now()
	symbols := a.refreshSymbols()
	result := RefreshResult{Symbols: len(symbols), Date: a.Today()}

	if len(symbols) > 0 {
		quotes := a.QuoteService.FetchQuotes(ctx, symbols)
		updates := make([]models.PriceUpdate, 0, len(quotes))
		for _, q := range quotes {
			updates = append(updates, models.PriceUpdateFromQuote(*q))
		}
		result.Quotes = len(updates)
		if len(updates) > 0 {
			result.Holdings = a.Store.UpdateHoldingPrices(updates)
			result.Watchlist = a.Store.UpdateWatchlistPrices(updates)
		}
	}

	holdings := a.Store.Holdings()
	if len(holdings) > 0 {
		result.Value = analytics.TotalValue(holdings)
		a.Store.RecordValue(result.Date, result.Value)
	}

	a.Logger.Info().
		Int("symbols", result.Symbols).
		Int("quotes", result.Quotes).
		Float64("value", result.Value).
		Dur("elapsed", time.Since(start)).
		Msg("Price refresh: complete")
	return result
}

// StartPriceScheduler runs RefreshPrices on the configured cron schedule.
// It does nothing when refresh is disabled.
func (a *App) StartPriceScheduler() error {
	if !a.Config.Refresh.Enabled {
		a.Logger.Info().Msg("Price scheduler: disabled")
		return nil
	}
	if a.scheduler != nil {
		return nil
	}

	c := cron.New()
	_, err := c.AddFunc(a.Config.Refresh.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		a.RefreshPrices(ctx)
	})
	if err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", a.Config.Refresh.Schedule, err)
	}

	c.Start()
	a.scheduler = c
	a.Logger.Info().Str("schedule", a.Config.Refresh.Schedule).Msg("Price scheduler: started")
	return nil
}

// StopPriceScheduler stops the scheduler and waits for a running refresh to finish.
func (a *App) StopPriceScheduler() {
	if a.scheduler == nil {
		return
	}
	<-a.scheduler.Stop().Done()
	a.scheduler = nil
	a.Logger.Info().Msg("Price scheduler: stopped")
}

// SchedulerEntries lists the scheduled jobs' next run times.
func (a *App) SchedulerEntries() []time.Time {
	if a.scheduler == nil {
		return nil
	}
	var next []time.Time
	for _, e := range a.scheduler.Entries() {
		next = append(next, e.Next)
	}
	slices.SortFunc(next, func(x, y time.Time) int { return x.Compare(y) })
	return next
}
