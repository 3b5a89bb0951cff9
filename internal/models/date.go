package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateFormat is the ISO-8601 calendar day layout used on the wire and in snapshots.
const DateFormat = "2006-01-02"

// Date is a calendar day with no time-of-day component.
type Date struct {
	year  int
	month time.Month
	day   int
}

// NewDate returns a normalized Date; out-of-range days roll over like time.Date.
func NewDate(year int, month time.Month, day int) Date {
	y, m, d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Date()
	return Date{year: y, month: m, day: d}
}

// DateOf returns the calendar day of t in t's location.
func DateOf(t time.Time) Date {
	return NewDate(t.Date())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

func (d Date) Year() int          { return d.year }
func (d Date) Month() time.Month  { return d.month }
func (d Date) Day() int           { return d.day }
func (d Date) IsZero() bool       { return d.year == 0 && d.month == 0 && d.day == 0 }
func (d Date) Time() time.Time    { return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC) }
func (d Date) Before(x Date) bool { return d.Compare(x) < 0 }
func (d Date) After(x Date) bool  { return d.Compare(x) > 0 }

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after x.
func (d Date) Compare(x Date) int {
	switch {
	case d.year != x.year:
		return cmpInt(d.year, x.year)
	case d.month != x.month:
		return cmpInt(int(d.month), int(x.month))
	default:
		return cmpInt(d.day, x.day)
	}
}

func cmpInt(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// AddDays returns the date n days later (n may be negative).
func (d Date) AddDays(n int) Date {
	return NewDate(d.year, d.month, d.day+n)
}

// AddMonths shifts the date by n months, clamping the day to the last valid day of
// the target month: 2025-03-31 minus one month is 2025-02-28.
func (d Date) AddMonths(n int) Date {
	first := NewDate(d.year, d.month+time.Month(n), 1)
	last := daysIn(first.year, first.month)
	day := d.day
	if day > last {
		day = last
	}
	return Date{year: first.year, month: first.month, day: day}
}

// AddYears shifts the date by n years with the same clamping as AddMonths.
func (d Date) AddYears(n int) Date {
	return d.AddMonths(12 * n)
}

// MonthStart returns the first day of d's month.
func (d Date) MonthStart() Date {
	return Date{year: d.year, month: d.month, day: 1}
}

// MonthEnd returns the last day of d's month.
func (d Date) MonthEnd() Date {
	return Date{year: d.year, month: d.month, day: daysIn(d.year, d.month)}
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.year, d.month, d.day)
}

// MarshalJSON encodes the date as "YYYY-MM-DD".
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts "YYYY-MM-DD" and, for snapshots written by older clients, a full
// RFC 3339 timestamp whose date part is kept.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if len(s) > len(DateFormat) {
		s = s[:len(DateFormat)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Month identifies a calendar month, as used by the spending filters.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing d.
func MonthOf(d Date) Month {
	return Month{Year: d.year, Month: d.month}
}

// ParseMonth parses a YYYY-MM string.
func ParseMonth(s string) (Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Month{}, NewValidationError("month", fmt.Sprintf("%q is not YYYY-MM", s))
	}
	return Month{Year: t.Year(), Month: t.Month()}, nil
}

// Contains reports whether d falls inside the month.
func (m Month) Contains(d Date) bool {
	return d.year == m.Year && d.month == m.Month
}

// Previous returns the month before m.
func (m Month) Previous() Month {
	return MonthOf(NewDate(m.Year, m.Month-1, 1))
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, m.Month)
}
