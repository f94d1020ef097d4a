package domain

import "math"

// Level is the difficulty facet
type Level string

const (
	LevelAny          Level = ""
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
	LevelAllLevels    Level = "all-levels"
)

// Levels lists the selectable levels in display order
var Levels = []Level{LevelBeginner, LevelIntermediate, LevelAdvanced, LevelAllLevels}

// Valid reports whether l is empty or one of the known levels
func (l Level) Valid() bool {
	if l == LevelAny {
		return true
	}
	for _, known := range Levels {
		if l == known {
			return true
		}
	}
	return false
}

// PriceRange is the discrete price bucket facet
type PriceRange string

const (
	PriceAny     PriceRange = ""
	PriceFree    PriceRange = "free"
	PriceUnder25 PriceRange = "under-25"
	Price25To50  PriceRange = "25-50"
	Price50To100 PriceRange = "50-100"
	PriceOver100 PriceRange = "over-100"
)

// PriceRanges lists the selectable buckets in display order
var PriceRanges = []PriceRange{PriceFree, PriceUnder25, Price25To50, Price50To100, PriceOver100}

// Valid reports whether p is empty or one of the known buckets
func (p PriceRange) Valid() bool {
	if p == PriceAny {
		return true
	}
	for _, known := range PriceRanges {
		if p == known {
			return true
		}
	}
	return false
}

// SortBy is the result ordering; it always has a value
type SortBy string

const (
	SortPopular      SortBy = "popular"
	SortNewest       SortBy = "newest"
	SortHighestRated SortBy = "highest_rated"
	SortPriceLow     SortBy = "price_low"
	SortPriceHigh    SortBy = "price_high"
)

// SortOptions lists the orderings in display order, default first
var SortOptions = []SortBy{SortPopular, SortNewest, SortHighestRated, SortPriceLow, SortPriceHigh}

// Valid reports whether s is one of the known orderings
func (s SortBy) Valid() bool {
	for _, known := range SortOptions {
		if s == known {
			return true
		}
	}
	return false
}

// Rating bounds for the minimum-stars facet. Zero means no constraint.
const (
	MinRating = 1
	MaxRating = 4
)

// Amount is an optional non-negative price bound
type Amount struct {
	Value float64
	Set   bool
}

// Price returns a set Amount. Negative zero becomes zero so equal amounts
// share one encoding.
func Price(v float64) Amount {
	if v == 0 {
		v = 0
	}
	return Amount{Value: v, Set: true}
}

// FilterModel is the canonical active filter/search selection. It is a value:
// updates produce a new FilterModel and two models with equal fields are
// interchangeable (the type is comparable with ==).
type FilterModel struct {
	SearchText string
	Category   string // empty means all categories
	Level      Level
	Rating     int // minimum stars 1-4, 0 when unset
	Language   string
	PriceRange PriceRange // mutually exclusive with MinPrice/MaxPrice after a merge
	MinPrice   Amount
	MaxPrice   Amount
	SortBy     SortBy // never empty
}

// Default returns the model used at start-up and after a reset
func Default() FilterModel {
	return FilterModel{SortBy: SortPopular}
}

// Normalize restores the invariants a model must hold regardless of where it
// came from.
func (m FilterModel) Normalize() FilterModel {
	if !m.SortBy.Valid() {
		m.SortBy = SortPopular
	}
	if !m.Level.Valid() {
		m.Level = LevelAny
	}
	if !m.PriceRange.Valid() {
		m.PriceRange = PriceAny
	}
	if m.Rating < MinRating || m.Rating > MaxRating {
		m.Rating = 0
	}
	m.MinPrice = m.MinPrice.normalize()
	m.MaxPrice = m.MaxPrice.normalize()
	return m
}

// normalize drops unset, negative and non-finite amounts
func (a Amount) normalize() Amount {
	if !a.Set || a.Value < 0 || math.IsNaN(a.Value) || math.IsInf(a.Value, 0) {
		return Amount{}
	}
	return Price(a.Value)
}

// HasCustomPrice reports whether either continuous bound is set
func (m FilterModel) HasCustomPrice() bool {
	return m.MinPrice.Set || m.MaxPrice.Set
}

// IsDefault reports whether no constraint is active
func (m FilterModel) IsDefault() bool {
	return m == Default()
}

// Partial is a patch for a FilterModel. A nil field leaves the current value
// untouched; a pointer to the empty value clears the field.
type Partial struct {
	SearchText *string
	Category   *string
	Level      *Level
	Rating     *int
	Language   *string
	PriceRange *PriceRange
	MinPrice   *Amount
	MaxPrice   *Amount
	SortBy     *SortBy
}

// Ptr returns a pointer to v, for building Partial literals
func Ptr[T any](v T) *T {
	return &v
}

// IsEmpty reports whether the patch changes nothing
func (p Partial) IsEmpty() bool {
	return p == Partial{}
}

// Apply shallow-merges p into m and enforces the price exclusivity rule in the
// same step: a non-empty PriceRange clears both bounds, a set bound clears the
// PriceRange. When p sets both kinds at once the PriceRange wins.
func (m FilterModel) Apply(p Partial) FilterModel {
	if p.SearchText != nil {
		m.SearchText = *p.SearchText
	}
	if p.Category != nil {
		m.Category = *p.Category
	}
	if p.Level != nil {
		m.Level = *p.Level
	}
	if p.Rating != nil {
		m.Rating = *p.Rating
	}
	if p.Language != nil {
		m.Language = *p.Language
	}
	if p.SortBy != nil {
		m.SortBy = *p.SortBy
	}
	if p.MinPrice != nil {
		m.MinPrice = *p.MinPrice
	}
	if p.MaxPrice != nil {
		m.MaxPrice = *p.MaxPrice
	}
	if p.PriceRange != nil {
		m.PriceRange = *p.PriceRange
	}

	switch {
	case p.PriceRange != nil && *p.PriceRange != PriceAny:
		m.MinPrice = Amount{}
		m.MaxPrice = Amount{}
	case (p.MinPrice != nil && p.MinPrice.Set) || (p.MaxPrice != nil && p.MaxPrice.Set):
		m.PriceRange = PriceAny
	}

	return m.Normalize()
}
