package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Category discriminates the kinds of beneficiary that can be sponsored.
type Category string

const (
	CategoryOrphan Category = "orphan"
	CategoryWidow  Category = "widow"
	CategoryFamily Category = "family"
)

// Categories lists every known category in display order.
var Categories = []Category{CategoryOrphan, CategoryWidow, CategoryFamily}

// ParseCategory normalizes user input into a Category. Plural forms used by
// the catalog tabs ("orphans", "widows", "families") are accepted too.
func ParseCategory(raw string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "orphan", "orphans":
		return CategoryOrphan, nil
	case "widow", "widows":
		return CategoryWidow, nil
	case "family", "families":
		return CategoryFamily, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidCategory, raw)
}

// Collection returns the backend collection that stores beneficiaries of the
// category. Widows are modelled as family records by the backend.
func (c Category) Collection() string {
	switch c {
	case CategoryOrphan:
		return "orphans"
	case CategoryWidow, CategoryFamily:
		return "families"
	}
	return ""
}

// Beneficiary is an orphan, widow or family profile eligible for sponsorship.
type Beneficiary struct {
	ID          string          `json:"id"`
	Category    Category        `json:"category"`
	Name        string          `json:"name"`
	Location    string          `json:"location"`
	Story       string          `json:"story,omitempty"`
	Image       string          `json:"image,omitempty"`
	Age         int             `json:"age,omitempty"`
	Children    int             `json:"children,omitempty"`
	Members     int             `json:"members,omitempty"`
	MonthlyNeed decimal.Decimal `json:"monthly_need"`
	Sponsored   bool            `json:"sponsored"`
}

// Matches reports whether the beneficiary name or location contains the query,
// ignoring case. An empty query matches everything.
func (b Beneficiary) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(b.Name), q) || strings.Contains(strings.ToLower(b.Location), q)
}

// Cause is a named donation campaign with a fundraising goal and running total.
type Cause struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Icon        string          `json:"icon,omitempty"`
	Raised      decimal.Decimal `json:"raised"`
	Goal        decimal.Decimal `json:"goal"`
}

// FindCause returns the cause with the given id, if present.
func FindCause(causes []Cause, id string) (Cause, bool) {
	for _, c := range causes {
		if c.ID == id {
			return c, true
		}
	}
	return Cause{}, false
}
