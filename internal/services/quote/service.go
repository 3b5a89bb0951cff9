// Package quote provides a stock quote service with a mock fallback
package quote

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/bobmcallan/fintrack/internal/common"
	"github.com/bobmcallan/fintrack/internal/interfaces"
	"github.com/bobmcallan/fintrack/internal/models"
)

// DefaultConcurrency bounds FetchQuotes.
const DefaultConcurrency = 4

type cachedQuote struct {
	quote     models.StockQuote
	fetchedAt time.Time
}

// Service implements QuoteService with the live client primary and the mock table as fallback.
type Service struct {
	client      interfaces.QuoteClient // nil means demo mode
	logger      *common.Logger
	now         func() time.Time // injectable clock for testing
	jitter      float64
	ttl         time.Duration
	concurrency int

	mu    sync.Mutex // guards rng and cache
	rng   *rand.Rand
	cache map[string]cachedQuote
}

// Option configures the service
type Option func(*Service)

// WithSeed makes the mock jitter reproducible.
func WithSeed(seed int64) Option {
	return func(s *Service) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

// WithJitter sets the mock price jitter amplitude. Zero returns the table unchanged.
func WithJitter(amplitude float64) Option {
	return func(s *Service) {
		s.jitter = amplitude
	}
}

// WithCacheTTL sets how long a live quote is reused. Zero disables the cache.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		s.ttl = ttl
	}
}

// WithConcurrency bounds the number of concurrent fetches in FetchQuotes.
func WithConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// NewService creates a new quote service.
// client may be nil when no API key is configured; every quote then comes from the mock table.
func NewService(client interfaces.QuoteClient, logger *common.Logger, opts ...Option) *Service {
	s := &Service{
		client:      client,
		logger:      logger,
		now:         time.Now,
		jitter:      1,
		ttl:         common.FreshnessQuote,
		concurrency: DefaultConcurrency,
		cache:       make(map[string]cachedQuote),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return s
}

// IsDemo reports whether quotes come only from the mock table.
func (s *Service) IsDemo() bool {
	return s.client == nil
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// mockQuote returns the jittered mock entry for symbol.
func (s *Service) mockQuote(symbol string) (*models.StockQuote, bool) {
	base, ok := mockQuotes[symbol]
	if !ok {
		return nil, false
	}
	q := base
	s.mu.Lock()
	variation := (s.rng.Float64() - 0.5) * 2 * s.jitter
	s.mu.Unlock()
	q.Price += variation
	q.Change += variation * 0.1
	q.Source = models.QuoteSourceMock
	q.FetchedAt = s.now()
	return &q, true
}

func (s *Service) cached(symbol string) (*models.StockQuote, bool) {
	if s.ttl <= 0 {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.cache[symbol]
	if !ok || !common.IsFreshAt(entry.fetchedAt, s.ttl, s.now()) {
		return nil, false
	}
	q := entry.quote
	return &q, true
}

func (s *Service) store(q *models.StockQuote) {
	if s.ttl <= 0 {
		return
	}
	s.mu.Lock()
	s.cache[q.Symbol] = cachedQuote{quote: *q, fetchedAt: q.FetchedAt}
	s.mu.Unlock()
}

// FetchQuote returns the quote for symbol. Without an API key the mock table answers.
// With a key, a throttled, failed or empty live response falls back to the mock entry
// when one exists.
func (s *Service) FetchQuote(ctx context.Context, symbol string) (*models.StockQuote, error) {
	sym := normalizeSymbol(symbol)
	if sym == "" {
		return nil, models.NewValidationError("symbol", "is required")
	}

	if s.IsDemo() {
		if q, ok := s.mockQuote(sym); ok {
			return q, nil
		}
		return nil, fmt.Errorf("stock %s not found in mock data: %w", sym, models.ErrNotFound)
	}

	if q, ok := s.cached(sym); ok {
		return q, nil
	}

	quote, err := s.client.GetQuote(ctx, sym)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if q, ok := s.mockQuote(sym); ok {
			s.logger.Warn().Err(err).Str("symbol", sym).Msg("Live quote unavailable, using mock data")
			return q, nil
		}
		if errors.Is(err, models.ErrNotFound) || errors.Is(err, models.ErrTransport) {
			return nil, err
		}
		return nil, fmt.Errorf("quote %s: %w: %v", sym, models.ErrTransport, err)
	}

	quote.Name = sym
	if known, ok := mockQuotes[sym]; ok {
		quote.Name = known.Name
	}
	quote.Source = models.QuoteSourceLive
	quote.FetchedAt = s.now()
	s.store(quote)

	s.logger.Debug().Str("symbol", sym).Float64("price", quote.Price).Msg("Live quote fetched")
	return quote, nil
}

// FetchQuotes fetches every symbol concurrently. Failed symbols are omitted and the
// result keeps the input order.
func (s *Service) FetchQuotes(ctx context.Context, symbols []string) []*models.StockQuote {
	results := make([]*models.StockQuote, len(symbols))

	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup

	for i, symbol := range symbols {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			defer func() { <-sem }()

			q, err := s.FetchQuote(ctx, symbol)
			if err != nil {
				s.logger.Debug().Err(err).Str("symbol", symbol).Msg("Quote omitted from batch")
				return
			}
			results[i] = q
		}(i, symbol)
	}

	wg.Wait()

	out := make([]*models.StockQuote, 0, len(results))
	for _, q := range results {
		if q != nil {
			out = append(out, q)
		}
	}
	return out
}

// SearchSymbols returns at most five matches. An empty query returns nothing; demo mode
// and any live failure search the mock table.
func (s *Service) SearchSymbols(ctx context.Context, query string) ([]models.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []models.SearchResult{}, nil
	}

	if s.IsDemo() {
		return searchMock(query), nil
	}

	results, err := s.client.SearchSymbols(ctx, query)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.logger.Warn().Err(err).Str("query", query).Msg("Live search unavailable, using mock data")
		return searchMock(query), nil
	}

	if len(results) > MaxSearchResults {
		results = results[:MaxSearchResults]
	}
	return results, nil
}

// Ensure Service implements QuoteService
var _ interfaces.QuoteService = (*Service)(nil)
