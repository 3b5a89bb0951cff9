package alphavantage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bobmcallan/fintrack/internal/models"
)

const globalQuoteBody = `{
    "Global Quote": {
        "01. symbol": "AAPL",
        "02. open": "176.1500",
        "03. high": "179.4300",
        "04. low": "175.8200",
        "05. price": "178.7200",
        "06. volume": "52345678",
        "07. latest trading day": "2026-10-16",
        "08. previous close": "176.3800",
        "09. change": "2.3400",
        "10. change percent": "1.3267%"
    }
}`

func newTestServer(t *testing.T, body string, status int, captured *http.Request) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			*captured = *r
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGetQuote_ParsesResponse(t *testing.T) {
	var req http.Request
	srv := newTestServer(t, globalQuoteBody, http.StatusOK, &req)

	client := NewClient("test-key", WithBaseURL(srv.URL), WithRateLimit(0))
	quote, err := client.GetQuote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("GetQuote failed: %v", err)
	}

	if req.URL.Path != "/query" {
		t.Errorf("expected path /query, got %s", req.URL.Path)
	}
	q := req.URL.Query()
	if q.Get("function") != "GLOBAL_QUOTE" || q.Get("symbol") != "AAPL" || q.Get("apikey") != "test-key" {
		t.Errorf("unexpected query %v", q)
	}

	if quote.Symbol != "AAPL" {
		t.Errorf("expected symbol AAPL, got %s", quote.Symbol)
	}
	if quote.Price != 178.72 {
		t.Errorf("expected price 178.72, got %.4f", quote.Price)
	}
	if quote.Change != 2.34 {
		t.Errorf("expected change 2.34, got %.4f", quote.Change)
	}
	if quote.ChangePercent != 1.3267 {
		t.Errorf("expected change percent 1.3267, got %.4f", quote.ChangePercent)
	}
	if quote.Open != 176.15 || quote.High != 179.43 || quote.Low != 175.82 {
		t.Errorf("unexpected OHL %.2f/%.2f/%.2f", quote.Open, quote.High, quote.Low)
	}
	if quote.PreviousClose != 176.38 {
		t.Errorf("expected previous close 176.38, got %.2f", quote.PreviousClose)
	}
	if quote.Volume != 52345678 {
		t.Errorf("expected volume 52345678, got %d", quote.Volume)
	}
	if quote.Source != models.QuoteSourceLive {
		t.Errorf("expected live source, got %s", quote.Source)
	}
}

func TestGetQuote_EmptyQuoteIsNotFound(t *testing.T) {
	srv := newTestServer(t, `{"Global Quote": {}}`, http.StatusOK, nil)

	client := NewClient("k", WithBaseURL(srv.URL), WithRateLimit(0))
	_, err := client.GetQuote(context.Background(), "NOPE")
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetQuote_RateLimitNote(t *testing.T) {
	for _, key := range []string{"Note", "Information"} {
		t.Run(key, func(t *testing.T) {
			srv := newTestServer(t, `{"`+key+`": "Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."}`, http.StatusOK, nil)

			client := NewClient("k", WithBaseURL(srv.URL), WithRateLimit(0))
			_, err := client.GetQuote(context.Background(), "AAPL")
			if !errors.Is(err, ErrRateLimited) {
				t.Fatalf("expected ErrRateLimited, got %v", err)
			}
			if !errors.Is(err, models.ErrTransport) {
				t.Errorf("rate limit should classify as transport failure: %v", err)
			}
		})
	}
}

func TestGetQuote_HTTPError(t *testing.T) {
	srv := newTestServer(t, "upstream down", http.StatusServiceUnavailable, nil)

	client := NewClient("k", WithBaseURL(srv.URL), WithRateLimit(0))
	_, err := client.GetQuote(context.Background(), "AAPL")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", apiErr.StatusCode)
	}
	if apiErr.Function != "GLOBAL_QUOTE" {
		t.Errorf("expected function GLOBAL_QUOTE, got %s", apiErr.Function)
	}
	if !errors.Is(err, models.ErrTransport) {
		t.Errorf("APIError should classify as transport failure")
	}
}

func TestGetQuote_ErrorMessage(t *testing.T) {
	srv := newTestServer(t, `{"Error Message": "Invalid API call."}`, http.StatusOK, nil)

	client := NewClient("k", WithBaseURL(srv.URL), WithRateLimit(0))
	_, err := client.GetQuote(context.Background(), "AAPL")

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "Invalid API call." {
		t.Fatalf("expected APIError with message, got %v", err)
	}
}

func TestGetQuote_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewClient("k", WithBaseURL(url), WithRateLimit(0))
	_, err := client.GetQuote(context.Background(), "AAPL")
	if !errors.Is(err, models.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
}

func TestGetQuote_CancelledContext(t *testing.T) {
	srv := newTestServer(t, globalQuoteBody, http.StatusOK, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient("k", WithBaseURL(srv.URL), WithRateLimit(0))
	_, err := client.GetQuote(ctx, "AAPL")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSearchSymbols_ParsesMatches(t *testing.T) {
	body := `{
    "bestMatches": [
        {"1. symbol": "TSLA", "2. name": "Tesla Inc", "3. type": "Equity", "4. region": "United States", "8. currency": "USD"},
        {"1. symbol": "TSLA.LON", "2. name": "Tesla Inc", "3. type": "Equity", "4. region": "United Kingdom"}
    ]
}`
	var req http.Request
	srv := newTestServer(t, body, http.StatusOK, &req)

	client := NewClient("k", WithBaseURL(srv.URL), WithRateLimit(0))
	results, err := client.SearchSymbols(context.Background(), "tesla")
	if err != nil {
		t.Fatalf("SearchSymbols failed: %v", err)
	}

	if req.URL.Query().Get("function") != "SYMBOL_SEARCH" || req.URL.Query().Get("keywords") != "tesla" {
		t.Errorf("unexpected query %v", req.URL.Query())
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	want := models.SearchResult{Symbol: "TSLA", Name: "Tesla Inc", Type: "Equity", Region: "United States"}
	if results[0] != want {
		t.Errorf("expected %+v, got %+v", want, results[0])
	}
	if results[1].Region != "United Kingdom" {
		t.Errorf("expected United Kingdom, got %s", results[1].Region)
	}
}

func TestSearchSymbols_MissingMatches(t *testing.T) {
	srv := newTestServer(t, `{}`, http.StatusOK, nil)

	client := NewClient("k", WithBaseURL(srv.URL), WithRateLimit(0))
	if _, err := client.SearchSymbols(context.Background(), "x"); err == nil {
		t.Fatal("expected error for missing bestMatches")
	}
}
