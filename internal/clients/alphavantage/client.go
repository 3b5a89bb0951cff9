// Package alphavantage provides a client for the Alpha Vantage quote API
package alphavantage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"golang.org/x/time/rate"

	"github.com/bobmcallan/fintrack/internal/common"
	"github.com/bobmcallan/fintrack/internal/interfaces"
	"github.com/bobmcallan/fintrack/internal/models"
)

const (
	DefaultBaseURL   = "https://www.alphavantage.co"
	DefaultTimeout   = 10 * time.Second
	DefaultRateLimit = 5 // requests per minute on the free tier
)

// ErrRateLimited is returned when the API answers with a throttling note instead of data.
var ErrRateLimited = fmt.Errorf("alpha vantage rate limit: %w", models.ErrTransport)

// Client implements the QuoteClient interface
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

var _ interfaces.QuoteClient = (*Client)(nil)

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit in requests per minute. Zero or less disables limiting.
func WithRateLimit(requestsPerMinute int) ClientOption {
	return func(c *Client) {
		if requestsPerMinute <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), requestsPerMinute)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Alpha Vantage client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		logger: common.NewSilentLogger(),
	}
	WithRateLimit(DefaultRateLimit)(c)

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Function   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Alpha Vantage API error: %s (status: %d, function: %s)", e.Message, e.StatusCode, e.Function)
}

// Is classifies every API error as a transport failure.
func (e *APIError) Is(target error) bool {
	return target == models.ErrTransport
}

// query performs a rate-limited GET on /query and returns the decoded document.
func (c *Client) query(ctx context.Context, params url.Values) (map[string]any, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params.Set("apikey", c.apiKey)
	reqURL := fmt.Sprintf("%s/query?%s", c.baseURL, params.Encode())
	function := params.Get("function")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("function", function).Msg("Alpha Vantage API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", models.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(body)),
			Function:   function,
		}
	}

	var doc map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", models.ErrTransport, err)
	}

	// Throttled responses come back as 200 with a single explanatory key.
	for _, key := range []string{"Note", "Information"} {
		if note, ok := doc[key].(string); ok {
			c.logger.Warn().Str("function", function).Str("note", note).Msg("Alpha Vantage rate limited")
			return nil, fmt.Errorf("%w: %s", ErrRateLimited, note)
		}
	}
	if msg, ok := doc["Error Message"].(string); ok {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg, Function: function}
	}

	return doc, nil
}

// lookup evaluates a JSONPath against doc. A missing key is reported as not found
// rather than as an error.
func lookup(doc any, path string) (any, bool) {
	v, err := jsonpath.Get(path, doc)
	if err != nil || v == nil {
		return nil, false
	}
	return v, true
}

// number reads a numeric field that the API encodes as a string, e.g. "178.7200" or "1.33%".
func number(doc any, path string) float64 {
	v, ok := lookup(doc, path)
	if !ok {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case string:
		f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(n), "%"), 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

func text(doc any, path string) string {
	v, ok := lookup(doc, path)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetQuote retrieves the GLOBAL_QUOTE for a symbol. An empty quote block means the
// symbol is unknown and is reported as models.ErrNotFound.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*models.StockQuote, error) {
	params := url.Values{}
	params.Set("function", "GLOBAL_QUOTE")
	params.Set("symbol", symbol)

	doc, err := c.query(ctx, params)
	if err != nil {
		return nil, err
	}

	block, ok := lookup(doc, `$["Global Quote"]`)
	if m, isMap := block.(map[string]any); !ok || !isMap || len(m) == 0 {
		return nil, fmt.Errorf("quote %s: %w", symbol, models.ErrNotFound)
	}

	const root = `$["Global Quote"]`
	quote := &models.StockQuote{
		Symbol:        text(doc, root+`["01. symbol"]`),
		Open:          number(doc, root+`["02. open"]`),
		High:          number(doc, root+`["03. high"]`),
		Low:           number(doc, root+`["04. low"]`),
		Price:         number(doc, root+`["05. price"]`),
		Volume:        int64(number(doc, root+`["06. volume"]`)),
		PreviousClose: number(doc, root+`["08. previous close"]`),
		Change:        number(doc, root+`["09. change"]`),
		ChangePercent: number(doc, root+`["10. change percent"]`),
		Source:        models.QuoteSourceLive,
	}
	if quote.Symbol == "" {
		quote.Symbol = symbol
	}
	return quote, nil
}

// SearchSymbols retrieves SYMBOL_SEARCH best matches for keywords
func (c *Client) SearchSymbols(ctx context.Context, keywords string) ([]models.SearchResult, error) {
	params := url.Values{}
	params.Set("function", "SYMBOL_SEARCH")
	params.Set("keywords", keywords)

	doc, err := c.query(ctx, params)
	if err != nil {
		return nil, err
	}

	raw, ok := lookup(doc, "$.bestMatches")
	if !ok {
		return nil, errors.New("search response has no bestMatches")
	}
	matches, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("unexpected bestMatches type %T", raw)
	}

	results := make([]models.SearchResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, models.SearchResult{
			Symbol: text(m, `$["1. symbol"]`),
			Name:   text(m, `$["2. name"]`),
			Type:   text(m, `$["3. type"]`),
			Region: text(m, `$["4. region"]`),
		})
	}
	return results, nil
}
