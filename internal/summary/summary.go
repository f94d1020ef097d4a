// Package summary turns a filter selection into removable "active filter" chips.
package summary

import (
	"fmt"
	"strings"

	"coursedeck/internal/domain"
)

// Field names, in display order
const (
	FieldSearch     = "searchText"
	FieldCategory   = "category"
	FieldLevel      = "level"
	FieldPriceRange = "priceRange"
	FieldRating     = "rating"
	FieldLanguage   = "language"
)

// Entry is one active constraint and the patch that removes it
type Entry struct {
	Field string
	Label string
	Clear func() domain.Partial
}

// Summarize lists the active constraints of m. Empty fields are omitted and
// the order is fixed. Each Clear touches its own field only.
func Summarize(m domain.FilterModel) []Entry {
	var entries []Entry

	if m.SearchText != "" {
		entries = append(entries, Entry{
			Field: FieldSearch,
			Label: fmt.Sprintf("Search: %q", m.SearchText),
			Clear: func() domain.Partial { return domain.Partial{SearchText: domain.Ptr("")} },
		})
	}
	if m.Category != "" {
		entries = append(entries, Entry{
			Field: FieldCategory,
			Label: "Category: " + m.Category,
			Clear: func() domain.Partial { return domain.Partial{Category: domain.Ptr("")} },
		})
	}
	if m.Level != domain.LevelAny {
		entries = append(entries, Entry{
			Field: FieldLevel,
			Label: "Level: " + LevelLabel(m.Level),
			Clear: func() domain.Partial { return domain.Partial{Level: domain.Ptr(domain.LevelAny)} },
		})
	}
	if m.PriceRange != domain.PriceAny {
		entries = append(entries, Entry{
			Field: FieldPriceRange,
			Label: "Price: " + PriceRangeLabel(m.PriceRange),
			Clear: func() domain.Partial { return domain.Partial{PriceRange: domain.Ptr(domain.PriceAny)} },
		})
	}
	if m.Rating != 0 {
		entries = append(entries, Entry{
			Field: FieldRating,
			Label: "Rating: " + RatingLabel(m.Rating),
			Clear: func() domain.Partial { return domain.Partial{Rating: domain.Ptr(0)} },
		})
	}
	if m.Language != "" {
		entries = append(entries, Entry{
			Field: FieldLanguage,
			Label: "Language: " + m.Language,
			Clear: func() domain.Partial { return domain.Partial{Language: domain.Ptr("")} },
		})
	}

	return entries
}

// LevelLabel renders a level for display
func LevelLabel(l domain.Level) string {
	switch l {
	case domain.LevelAny:
		return "Any"
	case domain.LevelAllLevels:
		return "All Levels"
	default:
		s := string(l)
		return strings.ToUpper(s[:1]) + s[1:]
	}
}

// PriceRangeLabel renders a price bucket for display
func PriceRangeLabel(p domain.PriceRange) string {
	switch p {
	case domain.PriceFree:
		return "Free"
	case domain.PriceUnder25:
		return "Under $25"
	case domain.Price25To50:
		return "$25 - $50"
	case domain.Price50To100:
		return "$50 - $100"
	case domain.PriceOver100:
		return "Over $100"
	default:
		return "Any"
	}
}

// RatingLabel renders a minimum-stars value, e.g. "4+ stars"
func RatingLabel(r int) string {
	if r == 0 {
		return "Any"
	}
	return fmt.Sprintf("%d+ stars", r)
}

// SortLabel renders an ordering for display
func SortLabel(s domain.SortBy) string {
	switch s {
	case domain.SortNewest:
		return "Newest"
	case domain.SortHighestRated:
		return "Highest Rated"
	case domain.SortPriceLow:
		return "Price: Low to High"
	case domain.SortPriceHigh:
		return "Price: High to Low"
	default:
		return "Most Popular"
	}
}
