package models

import (
	"fmt"
	"strings"
)

// Category is the closed classification of an expense
type Category string

const (
	CategoryFood          Category = "food"
	CategoryTransport     Category = "transport"
	CategoryEntertainment Category = "entertainment"
	CategoryBills         Category = "bills"
	CategoryOther         Category = "other"
)

// Categories lists the enumeration in its fixed order. Aggregations break ties by this order.
var Categories = []Category{CategoryFood, CategoryTransport, CategoryEntertainment, CategoryBills, CategoryOther}

// ParseCategory returns the category for s or a validation error.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", NewValidationError("category", fmt.Sprintf("%q is not a known category", s))
	}
	return c, nil
}

// Valid reports whether c belongs to the enumeration.
func (c Category) Valid() bool {
	_, err := c.Index()
	return err == nil
}

// Index returns the position of c in Categories.
func (c Category) Index() (int, error) {
	switch c {
	case CategoryFood:
		return 0, nil
	case CategoryTransport:
		return 1, nil
	case CategoryEntertainment:
		return 2, nil
	case CategoryBills:
		return 3, nil
	case CategoryOther:
		return 4, nil
	}
	return -1, fmt.Errorf("%w: %q", ErrUnknownCategory, string(c))
}

// Label returns the display name.
func (c Category) Label() string {
	switch c {
	case CategoryFood:
		return "Food & Dining"
	case CategoryTransport:
		return "Transport"
	case CategoryEntertainment:
		return "Entertainment"
	case CategoryBills:
		return "Bills & Utilities"
	case CategoryOther:
		return "Other"
	}
	return string(c)
}

// Color returns the hex chart color.
func (c Category) Color() string {
	switch c {
	case CategoryFood:
		return "#f97316"
	case CategoryTransport:
		return "#3b82f6"
	case CategoryEntertainment:
		return "#a855f7"
	case CategoryBills:
		return "#ef4444"
	case CategoryOther:
		return "#6b7280"
	}
	return "#6b7280"
}

// Expense is a single spending record
type Expense struct {
	ID          string   `json:"id"`
	Amount      float64  `json:"amount"`
	Category    Category `json:"category"`
	Description string   `json:"description"`
	Date        Date     `json:"date"`
}

// NewExpense is the user input for the "add expense" action.
type NewExpense struct {
	Amount      float64  `json:"amount"`
	Category    Category `json:"category"`
	Description string   `json:"description"`
	Date        Date     `json:"date"`
}

// Normalize returns n with the category in canonical lower case and the description
// trimmed. A category outside the enumeration is left as given for Validate to reject.
func (n NewExpense) Normalize() NewExpense {
	if c, err := ParseCategory(string(n.Category)); err == nil {
		n.Category = c
	}
	n.Description = strings.TrimSpace(n.Description)
	return n
}

// Validate rejects a non-positive amount, an unknown category, a blank description or a missing date.
// Category matching ignores case and surrounding space.
func (n NewExpense) Validate() error {
	if n.Amount <= 0 {
		return NewValidationError("amount", "must be greater than zero")
	}
	if _, err := ParseCategory(string(n.Category)); err != nil {
		return err
	}
	if strings.TrimSpace(n.Description) == "" {
		return NewValidationError("description", "is required")
	}
	if n.Date.IsZero() {
		return NewValidationError("date", "is required")
	}
	return nil
}

// CategorySpend is one slice of the spending breakdown
type CategorySpend struct {
	Category   Category `json:"category"`
	Label      string   `json:"label"`
	Amount     float64  `json:"amount"`
	Percentage float64  `json:"percentage"`
	Color      string   `json:"color"`
}

// MonthComparison compares this calendar month's spend with the previous one
type MonthComparison struct {
	ThisMonth     float64 `json:"thisMonth"`
	LastMonth     float64 `json:"lastMonth"`
	PercentChange float64 `json:"percentChange"`
}
