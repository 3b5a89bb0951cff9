package main

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/fintrack/internal/format"
	"github.com/bobmcallan/fintrack/internal/models"
)

func summaryMarkdown(s models.PortfolioSummary, alloc []models.AllocationItem, movers models.Movers[models.Holding], history []models.ChartDataPoint, rng models.TimeRange) string {
	var b strings.Builder

	b.WriteString("# Portfolio\n\n")
	b.WriteString("| Total Value | Total Gain | Daily Change |\n")
	b.WriteString("|---:|---:|---:|\n")
	fmt.Fprintf(&b, "| %s | %s (%s) | %s (%s) |\n\n",
		format.CompactCurrency(s.TotalValue),
		format.Change(s.TotalGain), format.Percent(s.TotalGainPercent),
		format.Change(s.DailyChange), format.Percent(s.DailyChangePercent))

	if len(history) >= 2 {
		first, last := history[0], history[len(history)-1]
		pct := 0.0
		if first.Value != 0 {
			pct = (last.Value - first.Value) / first.Value * 100
		}
		fmt.Fprintf(&b, "Performance over %s: %s to %s (%s)\n\n",
			rng, format.Currency(first.Value), format.Currency(last.Value), format.Percent(pct))
	}

	if len(alloc) > 0 {
		b.WriteString("## Allocation\n\n")
		b.WriteString("| Symbol | Name | Value | Weight |\n")
		b.WriteString("|---|---|---:|---:|\n")
		for _, a := range alloc {
			fmt.Fprintf(&b, "| %s | %s | %s | %.1f%% |\n", a.Symbol, format.Truncate(a.Name, 24), format.Currency(a.Value), a.Percentage)
		}
		b.WriteString("\n")
	}

	b.WriteString(moversMarkdown(movers.Gainers, movers.Losers, func(h models.Holding) (string, float64, float64) {
		return h.Symbol, h.CurrentPrice, h.DailyChangePercent
	}))
	return b.String()
}

func holdingsMarkdown(holdings []models.Holding) string {
	var b strings.Builder
	b.WriteString("# Holdings\n\n")
	if len(holdings) == 0 {
		b.WriteString("No holdings yet.\n")
		return b.String()
	}
	b.WriteString("| Symbol | Shares | Avg Cost | Price | Value | Gain | Today |\n")
	b.WriteString("|---|---:|---:|---:|---:|---:|---:|\n")
	for _, h := range holdings {
		gain := h.MarketValue() - h.AvgCost*h.Shares
		fmt.Fprintf(&b, "| %s | %g | %s | %s | %s | %s | %s |\n",
			h.Symbol, h.Shares,
			format.Currency(h.AvgCost), format.Currency(h.CurrentPrice),
			format.Currency(h.MarketValue()), format.Change(gain),
			format.Percent(h.DailyChangePercent))
	}
	return b.String()
}

func spendingMarkdown(label string, total float64, breakdown []models.CategorySpend, cmp models.MonthComparison, recent []models.Expense, today models.Date) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Spending (%s)\n\n", label)
	fmt.Fprintf(&b, "Total: **%s**\n\n", format.Currency(total))

	if len(breakdown) == 0 {
		b.WriteString("No expenses in this period.\n\n")
	} else {
		b.WriteString("| Category | Amount | Share |\n")
		b.WriteString("|---|---:|---:|\n")
		for _, c := range breakdown {
			fmt.Fprintf(&b, "| %s | %s | %.1f%% |\n", c.Label, format.Currency(c.Amount), c.Percentage)
		}
		b.WriteString("\n")
	}

	b.WriteString("## This Month vs Last Month\n\n")
	fmt.Fprintf(&b, "%s vs %s (%s)\n\n",
		format.Currency(cmp.ThisMonth), format.Currency(cmp.LastMonth), format.Percent(cmp.PercentChange))

	if len(recent) > 0 {
		b.WriteString("## Recent\n\n")
		b.WriteString(expensesTable(recent, today))
	}
	return b.String()
}

func expensesTable(expenses []models.Expense, today models.Date) string {
	var b strings.Builder
	b.WriteString("| Date | Description | Category | Amount |\n")
	b.WriteString("|---|---|---|---:|\n")
	for _, e := range expenses {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			format.RelativeDate(e.Date, today), format.Truncate(e.Description, 32),
			e.Category.Label(), format.Currency(e.Amount))
	}
	return b.String()
}

func watchlistMarkdown(s models.WatchlistSummary, items []models.WatchlistItem) string {
	var b strings.Builder

	b.WriteString("# Watchlist\n\n")
	fmt.Fprintf(&b, "%d stocks, %d up, %d down, average %s\n\n",
		s.Count, s.Gainers, s.Losers, format.Percent(s.AverageChangePercent))
	if s.TopGainer != nil {
		fmt.Fprintf(&b, "- Top gainer: **%s** %s\n", s.TopGainer.Symbol, format.Percent(s.TopGainer.DailyChangePercent))
	}
	if s.TopLoser != nil {
		fmt.Fprintf(&b, "- Top loser: **%s** %s\n", s.TopLoser.Symbol, format.Percent(s.TopLoser.DailyChangePercent))
	}
	if s.TopGainer != nil || s.TopLoser != nil {
		b.WriteString("\n")
	}

	if len(items) == 0 {
		b.WriteString("Your watchlist is empty.\n")
		return b.String()
	}
	b.WriteString("| Symbol | Name | Price | Change |\n")
	b.WriteString("|---|---|---:|---:|\n")
	for _, w := range items {
		fmt.Fprintf(&b, "| %s | %s | %s | %s (%s) |\n",
			w.Symbol, format.Truncate(w.Name, 24), format.Currency(w.CurrentPrice),
			format.Change(w.DailyChange), format.Percent(w.DailyChangePercent))
	}
	return b.String()
}

func quoteMarkdown(q *models.StockQuote) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s  %s\n\n", q.Symbol, q.Name)
	fmt.Fprintf(&b, "**%s** %s (%s)\n\n", format.Currency(q.Price), format.Change(q.Change), format.Percent(q.ChangePercent))
	b.WriteString("| Open | High | Low | Prev Close | Volume |\n")
	b.WriteString("|---:|---:|---:|---:|---:|\n")
	fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n\n",
		format.Currency(q.Open), format.Currency(q.High), format.Currency(q.Low),
		format.Currency(q.PreviousClose), format.Number(float64(q.Volume)))
	return b.String()
}

func searchMarkdown(query string, results []models.SearchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Search: %s\n\n", query)
	if len(results) == 0 {
		b.WriteString("No matches.\n")
		return b.String()
	}
	b.WriteString("| Symbol | Name | Type | Region |\n")
	b.WriteString("|---|---|---|---|\n")
	for _, r := range results {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", r.Symbol, r.Name, r.Type, r.Region)
	}
	return b.String()
}

func moversMarkdown[T any](gainers, losers []T, row func(T) (string, float64, float64)) string {
	if len(gainers) == 0 && len(losers) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("## Top Movers\n\n")
	b.WriteString("| | Symbol | Price | Today |\n")
	b.WriteString("|---|---|---:|---:|\n")
	for _, g := range gainers {
		sym, price, pct := row(g)
		fmt.Fprintf(&b, "| ▲ | %s | %s | %s |\n", sym, format.Currency(price), format.Percent(pct))
	}
	for _, l := range losers {
		sym, price, pct := row(l)
		fmt.Fprintf(&b, "| ▼ | %s | %s | %s |\n", sym, format.Currency(price), format.Percent(pct))
	}
	b.WriteString("\n")
	return b.String()
}
