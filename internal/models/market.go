package models

import "time"

// Quote sources
const (
	QuoteSourceLive = "alphavantage"
	QuoteSourceMock = "mock"
)

// StockQuote holds a point-in-time quote for a symbol. Never persisted.
type StockQuote struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`        // absolute change from previous close
	ChangePercent float64   `json:"changePercent"` // percentage change from previous close
	High          float64   `json:"high"`
	Low           float64   `json:"low"`
	Open          float64   `json:"open"`
	PreviousClose float64   `json:"previousClose"`
	Volume        int64     `json:"volume"`
	Source        string    `json:"source,omitempty"` // "alphavantage" or "mock"
	FetchedAt     time.Time `json:"fetchedAt,omitempty"`
}

// SearchResult is one symbol search match
type SearchResult struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
	Type   string `json:"type"`
	Region string `json:"region"`
}
