// Package models defines data structures for FinTrack
package models

import (
	"fmt"
	"strings"
)

// Holding represents a position in a security
type Holding struct {
	ID                 string  `json:"id"`
	Symbol             string  `json:"symbol"`
	Name               string  `json:"name"`
	Shares             float64 `json:"shares"`
	AvgCost            float64 `json:"avgCost"`
	CurrentPrice       float64 `json:"currentPrice"`
	DailyChange        float64 `json:"dailyChange"`        // per-share move this session
	DailyChangePercent float64 `json:"dailyChangePercent"` // per-share move as a percentage
}

// MarketValue returns currentPrice × shares.
func (h Holding) MarketValue() float64 { return h.CurrentPrice * h.Shares }

// DayChangePct satisfies Mover.
func (h Holding) DayChangePct() float64 { return h.DailyChangePercent }

// NewHolding is the user input for the "add holding" action.
type NewHolding struct {
	Symbol  string  `json:"symbol"`
	Shares  float64 `json:"shares"`
	AvgCost float64 `json:"avgCost"`
}

// Validate rejects non-positive shares, negative cost and a blank symbol.
func (n NewHolding) Validate() error {
	if strings.TrimSpace(n.Symbol) == "" {
		return NewValidationError("symbol", "is required")
	}
	if n.Shares <= 0 {
		return NewValidationError("shares", "must be greater than zero")
	}
	if n.AvgCost < 0 {
		return NewValidationError("avgCost", "must not be negative")
	}
	return nil
}

// PriceUpdate stamps fresh quote fields onto every record with a matching symbol.
type PriceUpdate struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
}

// PriceUpdateFromQuote converts a quote into a PriceUpdate.
func PriceUpdateFromQuote(q StockQuote) PriceUpdate {
	return PriceUpdate{
		Symbol:        q.Symbol,
		Price:         q.Price,
		Change:        q.Change,
		ChangePercent: q.ChangePercent,
	}
}

// PortfolioSummary aggregates value, cost and daily movement across all holdings
type PortfolioSummary struct {
	TotalValue         float64 `json:"totalValue"`
	TotalCost          float64 `json:"totalCost"`
	TotalGain          float64 `json:"totalGain"`
	TotalGainPercent   float64 `json:"totalGainPercent"`
	DailyChange        float64 `json:"dailyChange"`
	DailyChangePercent float64 `json:"dailyChangePercent"`
}

// AllocationItem is one holding's share of total portfolio value
type AllocationItem struct {
	Symbol     string  `json:"symbol"`
	Name       string  `json:"name"`
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

// ChartDataPoint is one point of the portfolio value history
type ChartDataPoint struct {
	Date  Date    `json:"date"`
	Value float64 `json:"value"`
	Label string  `json:"label,omitempty"`
}

// TimeRange names a lookback window over the history series
type TimeRange string

const (
	TimeRangeWeek        TimeRange = "1W"
	TimeRangeMonth       TimeRange = "1M"
	TimeRangeThreeMonths TimeRange = "3M"
	TimeRangeYear        TimeRange = "1Y"
	TimeRangeAll         TimeRange = "ALL"
)

// TimeRanges lists every supported range in display order.
var TimeRanges = []TimeRange{TimeRangeWeek, TimeRangeMonth, TimeRangeThreeMonths, TimeRangeYear, TimeRangeAll}

// ParseTimeRange accepts a range tag case-insensitively; empty means ALL.
func ParseTimeRange(s string) (TimeRange, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return TimeRangeAll, nil
	}
	for _, r := range TimeRanges {
		if string(r) == s {
			return r, nil
		}
	}
	return "", NewValidationError("range", fmt.Sprintf("%q is not one of 1W, 1M, 3M, 1Y, ALL", s))
}

// Mover is any record carrying a daily percentage move.
type Mover interface {
	DayChangePct() float64
}

// Movers holds the top gainers and losers of a list.
type Movers[T Mover] struct {
	Gainers []T `json:"gainers"`
	Losers  []T `json:"losers"`
}
