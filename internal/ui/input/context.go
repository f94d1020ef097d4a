package input

import (
	"coursedeck/internal/domain"
	"coursedeck/internal/summary"
	"coursedeck/internal/ui/facets"
	"coursedeck/internal/ui/state"
)

// ModelContext implements the Context interface for the input handler
type ModelContext struct {
	State *state.AppState
}

// FacetsFocused reports whether keys go to the facet panel
func (c *ModelContext) FacetsFocused() bool {
	return c.State.FacetsFocused
}

// CurrentIndex returns the current selected index
func (c *ModelContext) CurrentIndex() int {
	return c.State.SelectedIndex
}

// TotalItems returns the number of courses on the page
func (c *ModelContext) TotalItems() int {
	return c.State.ResultCount()
}

func (c *ModelContext) HasError() bool {
	return c.State.Query.HasError()
}

// ActiveFilterCount returns the number of removable filter chips
func (c *ModelContext) ActiveFilterCount() int {
	return len(summary.Summarize(c.State.Filter))
}

func (c *ModelContext) CurrentSearch() string {
	return c.State.Filter.SearchText
}

func (c *ModelContext) CurrentSort() domain.SortBy {
	return c.State.Filter.SortBy
}

// CurrentPriceText returns the custom bounds as editable text
func (c *ModelContext) CurrentPriceText() string {
	return facets.FormatPriceBounds(c.State.Filter)
}
