package quote

import (
	"strings"

	"github.com/bobmcallan/fintrack/internal/models"
)

// mockQuotes is the fallback quote table used in demo mode and when the live API fails.
var mockQuotes = map[string]models.StockQuote{
	"AAPL":  {Symbol: "AAPL", Name: "Apple Inc.", Price: 178.72, Change: 2.34, ChangePercent: 1.33, High: 180.12, Low: 176.55, Open: 177.25, PreviousClose: 176.38, Volume: 52436789},
	"GOOGL": {Symbol: "GOOGL", Name: "Alphabet Inc.", Price: 141.80, Change: -1.25, ChangePercent: -0.87, High: 143.50, Low: 140.20, Open: 142.80, PreviousClose: 143.05, Volume: 21543678},
	"MSFT":  {Symbol: "MSFT", Name: "Microsoft Corp.", Price: 378.91, Change: 4.56, ChangePercent: 1.22, High: 380.25, Low: 374.10, Open: 375.50, PreviousClose: 374.35, Volume: 18765432},
	"TSLA":  {Symbol: "TSLA", Name: "Tesla Inc.", Price: 251.28, Change: -8.42, ChangePercent: -3.24, High: 260.50, Low: 248.90, Open: 259.70, PreviousClose: 259.70, Volume: 98765432},
	"NVDA":  {Symbol: "NVDA", Name: "NVIDIA Corp.", Price: 495.22, Change: 12.85, ChangePercent: 2.66, High: 498.50, Low: 480.25, Open: 482.37, PreviousClose: 482.37, Volume: 45678901},
	"AMD":   {Symbol: "AMD", Name: "Advanced Micro Devices", Price: 145.67, Change: 3.21, ChangePercent: 2.25, High: 147.20, Low: 142.80, Open: 143.50, PreviousClose: 142.46, Volume: 34567890},
	"META":  {Symbol: "META", Name: "Meta Platforms Inc.", Price: 505.42, Change: -8.15, ChangePercent: -1.59, High: 515.30, Low: 502.10, Open: 513.57, PreviousClose: 513.57, Volume: 12345678},
	"AMZN":  {Symbol: "AMZN", Name: "Amazon.com Inc.", Price: 185.30, Change: 2.45, ChangePercent: 1.34, High: 186.80, Low: 182.90, Open: 183.50, PreviousClose: 182.85, Volume: 28976543},
	"NFLX":  {Symbol: "NFLX", Name: "Netflix Inc.", Price: 478.92, Change: 11.23, ChangePercent: 2.40, High: 480.50, Low: 465.30, Open: 467.69, PreviousClose: 467.69, Volume: 8765432},
}

// mockSearchResults backs symbol search without a working API.
var mockSearchResults = []models.SearchResult{
	{Symbol: "AAPL", Name: "Apple Inc.", Type: "Equity", Region: "United States"},
	{Symbol: "GOOGL", Name: "Alphabet Inc.", Type: "Equity", Region: "United States"},
	{Symbol: "MSFT", Name: "Microsoft Corporation", Type: "Equity", Region: "United States"},
	{Symbol: "TSLA", Name: "Tesla Inc.", Type: "Equity", Region: "United States"},
	{Symbol: "NVDA", Name: "NVIDIA Corporation", Type: "Equity", Region: "United States"},
	{Symbol: "AMD", Name: "Advanced Micro Devices", Type: "Equity", Region: "United States"},
	{Symbol: "META", Name: "Meta Platforms Inc.", Type: "Equity", Region: "United States"},
	{Symbol: "AMZN", Name: "Amazon.com Inc.", Type: "Equity", Region: "United States"},
	{Symbol: "NFLX", Name: "Netflix Inc.", Type: "Equity", Region: "United States"},
	{Symbol: "DIS", Name: "The Walt Disney Company", Type: "Equity", Region: "United States"},
	{Symbol: "JPM", Name: "JPMorgan Chase & Co.", Type: "Equity", Region: "United States"},
	{Symbol: "V", Name: "Visa Inc.", Type: "Equity", Region: "United States"},
}

// MaxSearchResults caps every search response.
const MaxSearchResults = 5

// searchMock matches query case-insensitively against symbol or name.
func searchMock(query string) []models.SearchResult {
	q := strings.ToLower(query)
	out := make([]models.SearchResult, 0, MaxSearchResults)
	for _, r := range mockSearchResults {
		if strings.Contains(strings.ToLower(r.Symbol), q) || strings.Contains(strings.ToLower(r.Name), q) {
			out = append(out, r)
			if len(out) == MaxSearchResults {
				break
			}
		}
	}
	return out
}

// MockSymbols lists the symbols with a fallback quote.
func MockSymbols() []string {
	out := make([]string, 0, len(mockSearchResults))
	for _, r := range mockSearchResults {
		if _, ok := mockQuotes[r.Symbol]; ok {
			out = append(out, r.Symbol)
		}
	}
	return out
}
