// Package format renders amounts, percentages and dates for display
package format

import (
	"fmt"
	"math"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/bobmcallan/fintrack/internal/models"
)

// Currency formats v as US dollars with two decimals, e.g. "$1,234.56".
func Currency(v float64) string {
	cents := decimal.NewFromFloat(v).Shift(2).Round(0).IntPart()
	return money.New(cents, money.USD).Display()
}

// CompactCurrency abbreviates amounts of a million or more ("$1.25M", "$3B") and
// otherwise behaves like Currency.
func CompactCurrency(v float64) string {
	abs := math.Abs(v)
	if abs < 1e6 {
		return Currency(v)
	}
	sign := ""
	if v < 0 {
		sign = "-"
	}
	symbol := money.GetCurrency(money.USD).Grapheme
	return sign + symbol + abbreviate(abs)
}

// Percent formats v with two decimals and a leading "+" when positive.
func Percent(v float64) string {
	sign := ""
	if v > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, v)
}

// Change formats a price move as signed currency.
func Change(v float64) string {
	if v > 0 {
		return "+" + Currency(v)
	}
	return Currency(v)
}

// Number abbreviates large values with K, M or B and two decimals.
func Number(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1e9:
		return fmt.Sprintf("%.2fB", v/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%.2fM", v/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("%.2fK", v/1e3)
	}
	return fmt.Sprintf("%.2f", v)
}

// abbreviate renders abs (≥ 1e6) with at most two trimmed decimals and a suffix.
func abbreviate(abs float64) string {
	unit, suffix := 1e6, "M"
	switch {
	case abs >= 1e12:
		unit, suffix = 1e12, "T"
	case abs >= 1e9:
		unit, suffix = 1e9, "B"
	}
	return decimal.NewFromFloat(abs/unit).Round(2).String() + suffix
}

// ShortDate formats d as "Oct 19, 2026".
func ShortDate(d models.Date) string {
	return d.Time().Format("Jan 2, 2006")
}

// LongDate formats d as "Monday, October 19, 2026".
func LongDate(d models.Date) string {
	return d.Time().Format("Monday, January 2, 2006")
}

// RelativeDate describes d relative to today: "Today", "Yesterday", "3 days ago",
// "2 weeks ago", "5 months ago", "1 years ago".
func RelativeDate(d, today models.Date) string {
	days := int(today.Time().Sub(d.Time()).Hours() / 24)
	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Yesterday"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 30:
		return fmt.Sprintf("%d weeks ago", days/7)
	case days < 365:
		return fmt.Sprintf("%d months ago", days/30)
	}
	return fmt.Sprintf("%d years ago", days/365)
}

// ChartLabel formats a history point's date for the given range's axis.
func ChartLabel(d models.Date, rng models.TimeRange) string {
	t := d.Time()
	switch rng {
	case models.TimeRangeWeek:
		return t.Format("Mon")
	case models.TimeRangeMonth, models.TimeRangeThreeMonths:
		return t.Format("Jan 2")
	case models.TimeRangeYear:
		return t.Format("Jan")
	}
	return t.Format("Jan 06")
}

// Truncate shortens s to max runes, appending "..." when cut.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
