package state

import (
	"coursedeck/internal/domain"
)

// AppState contains all the application state the views read from
type AppState struct {
	// Filter and query data, mirrored from the store and the controller
	Filter domain.FilterModel
	Query  domain.QueryState
	Pages  int // total result pages for the current filter

	// Selection state
	SelectedIndex int // currently selected course on the page

	// UI state
	ViewportOffset   int  // offset for scrolling
	ViewportHeight   int  // available height for the result list
	FacetsFocused    bool // whether the facet panel has keyboard focus
	ShowHelp         bool
	HelpScrollOffset int    // scroll offset for help popup
	StatusMessage    string // status bar message
	Link             string // last shareable link shown to the user

	// Search and sort state
	PendingSearch   string // typed text not yet committed by the debounce
	Searching       bool   // a debounced search is outstanding
	SortOptionIndex int    // current selected sort option in sort mode
}

// NewAppState creates a new application state
func NewAppState(filter domain.FilterModel) *AppState {
	return &AppState{
		Filter:         filter,
		Query:          domain.IdleState(),
		Pages:          1,
		ViewportHeight: 20, // Default
	}
}

// SetQuery stores a new query state and keeps the selection inside the
// result page
func (s *AppState) SetQuery(q domain.QueryState, pages int) {
	if q.Key != s.Query.Key || q.Page != s.Query.Page {
		s.SelectedIndex = 0
		s.ViewportOffset = 0
	}
	s.Query = q
	if pages < 1 {
		pages = 1
	}
	s.Pages = pages
	s.clampSelection()
}

// SetFilter stores the latest canonical filter
func (s *AppState) SetFilter(m domain.FilterModel) {
	s.Filter = m
	if !s.Searching {
		s.PendingSearch = m.SearchText
	}
}

// SelectedCourse returns the course under the cursor
func (s *AppState) SelectedCourse() (domain.Course, bool) {
	if s.SelectedIndex < 0 || s.SelectedIndex >= len(s.Query.Results) {
		return domain.Course{}, false
	}
	return s.Query.Results[s.SelectedIndex], true
}

// ResultCount returns the number of courses on the current page
func (s *AppState) ResultCount() int {
	return len(s.Query.Results)
}

func (s *AppState) clampSelection() {
	n := len(s.Query.Results)
	if s.SelectedIndex >= n {
		s.SelectedIndex = n - 1
	}
	if s.SelectedIndex < 0 {
		s.SelectedIndex = 0
	}
	if s.ViewportOffset > s.SelectedIndex {
		s.ViewportOffset = s.SelectedIndex
	}
}
