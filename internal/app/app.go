// Package app wires configuration, storage, quotes and services into one runtime.
package app

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/bobmcallan/fintrack/internal/clients/alphavantage"
	"github.com/bobmcallan/fintrack/internal/common"
	"github.com/bobmcallan/fintrack/internal/interfaces"
	"github.com/bobmcallan/fintrack/internal/models"
	"github.com/bobmcallan/fintrack/internal/services/portfolio"
	"github.com/bobmcallan/fintrack/internal/services/quote"
	"github.com/bobmcallan/fintrack/internal/services/spending"
	"github.com/bobmcallan/fintrack/internal/services/watchlist"
	"github.com/bobmcallan/fintrack/internal/state"
	"github.com/bobmcallan/fintrack/internal/storage"
)

// App holds all initialized services, the state store and its persistence.
// It is the shared core used by both cmd/fintrack-server and cmd/fintrack.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Backend          interfaces.SnapshotStore
	Store            *state.Store
	Persister        *storage.Persister
	QuoteService     *quote.Service
	Tracker          *quote.Tracker
	PortfolioService *portfolio.Service
	SpendingService  *spending.Service
	WatchlistService *watchlist.Service
	Seeded           bool // no usable snapshot was found at startup
	StartupTime      time.Time

	now       func() time.Time
	scheduler *cron.Cron
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// resolveConfigPath checks the provided path, FINTRACK_CONFIG, the binary dir, then config/.
func resolveConfigPath(configPath string) string {
	if configPath != "" {
		return configPath
	}
	if env := os.Getenv("FINTRACK_CONFIG"); env != "" {
		return env
	}
	configPath = filepath.Join(getBinaryDir(), "fintrack.toml")
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return "config/fintrack.toml" // fallback for development
	}
	return configPath
}

// NewApp loads configuration, opens storage, restores the state and builds the services.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	config, err := common.LoadConfig(resolveConfigPath(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage path to binary directory
	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(getBinaryDir(), config.Storage.Path)
	}
	return NewAppWithConfig(config, common.NewLoggerFromConfig(config.Logging))
}

// NewAppWithConfig builds an App from an already loaded configuration.
func NewAppWithConfig(config *common.Config, logger *common.Logger) (*App, error) {
	startupStart := time.Now()

	if err := common.LoadVersionFile(getBinaryDir()); err != nil {
		logger.Warn().Err(err).Msg("Ignoring release stamp")
	}

	backend, err := storage.NewSnapshotStore(logger, &config.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	ctx := context.Background()
	today := models.DateOf(time.Now())

	seed := config.Seed.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	snap, seeded := storage.Rehydrate(ctx, backend, logger, rand.New(rand.NewSource(seed)), today)
	store := state.NewFromSnapshot(snap)

	if seeded {
		// Keep the generated dataset stable across restarts.
		if err := backend.Save(ctx, &snap); err != nil {
			logger.Warn().Err(err).Msg("Failed to persist seed data")
		}
	}

	quoteService := newQuoteService(config, logger)
	persister := storage.NewPersister(store, backend, logger, config.Persistence.GetDebounce())

	a := &App{
		Config:           config,
		Logger:           logger,
		Backend:          backend,
		Store:            store,
		Persister:        persister,
		QuoteService:     quoteService,
		Tracker:          quote.NewTracker(quoteService),
		PortfolioService: portfolio.NewService(store, quoteService, logger),
		SpendingService:  spending.NewService(store, logger),
		WatchlistService: watchlist.NewService(store, quoteService, logger),
		Seeded:           seeded,
		StartupTime:      startupStart,
		now:              time.Now,
	}

	logger.Info().
		Bool("demo", quoteService.IsDemo()).
		Bool("seeded", seeded).
		Str("backend", config.Storage.Backend).
		Dur("startup", time.Since(startupStart)).
		Msg("App initialized")

	return a, nil
}

// newQuoteService builds the quote provider. Without an API key it runs in demo mode.
func newQuoteService(config *common.Config, logger *common.Logger) *quote.Service {
	qc := config.Clients.Quote

	opts := []quote.Option{
		quote.WithJitter(qc.MockJitter),
		quote.WithCacheTTL(qc.GetCacheTTL()),
	}
	if qc.MockSeed != 0 {
		opts = append(opts, quote.WithSeed(qc.MockSeed))
	}

	apiKey := common.ResolveAPIKey(qc.APIKey)
	if apiKey == "" {
		logger.Warn().Msg("Alpha Vantage API key not configured - using demo quotes")
		return quote.NewService(nil, logger, opts...)
	}

	client := alphavantage.NewClient(apiKey,
		alphavantage.WithBaseURL(qc.BaseURL),
		alphavantage.WithLogger(logger),
		alphavantage.WithRateLimit(qc.RateLimit),
		alphavantage.WithTimeout(qc.GetTimeout()),
	)
	return quote.NewService(client, logger, opts...)
}

// SetClock overrides the clock of the app and its date-aware services.
func (a *App) SetClock(now func() time.Time) {
	a.now = now
	a.PortfolioService.SetClock(now)
	a.SpendingService.SetClock(now)
}

// Today returns the current calendar day.
func (a *App) Today() models.Date {
	return models.DateOf(a.now())
}

// Close releases all resources held by the App.
// Shutdown order: stop scheduler, cancel quote selection, flush and close persistence.
func (a *App) Close() {
	a.StopPriceScheduler()
	if a.Tracker != nil {
		a.Tracker.Cancel()
	}
	if a.Persister != nil {
		a.Persister.Flush()
		a.Persister.Close()
		a.Persister = nil
	}
	if a.Backend != nil {
		if err := a.Backend.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close storage")
		}
		a.Backend = nil
	}
}
