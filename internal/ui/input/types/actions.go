package types

import "coursedeck/internal/domain"

// Navigation actions
type NavigateAction struct {
	Direction string // "up", "down", "pageup", "pagedown", "home", "end"
}

func (a NavigateAction) Type() string { return "navigate" }

type ToggleFocusAction struct{}

func (a ToggleFocusAction) Type() string { return "toggle_focus" }

// Facet panel actions
type FacetMoveAction struct {
	Direction string // "up", "down", "left", "right"
}

func (a FacetMoveAction) Type() string { return "facet_move" }

type FacetToggleAction struct{}

func (a FacetToggleAction) Type() string { return "facet_toggle" }

// ClearFilterAction removes one active filter chip
type ClearFilterAction struct {
	Index int // position in the active filter summary
}

func (a ClearFilterAction) Type() string { return "clear_filter" }

type ResetFiltersAction struct{}

func (a ResetFiltersAction) Type() string { return "reset_filters" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
	Data interface{} // Optional data for the mode; a string pre-fills text modes
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
	Mode Mode
}

func (a UpdateTextAction) Type() string { return "update_text" }

type SubmitTextAction struct {
	Text string
	Mode Mode // Which mode submitted the text
}

func (a SubmitTextAction) Type() string { return "submit_text" }

type CancelTextAction struct {
	Mode Mode
}

func (a CancelTextAction) Type() string { return "cancel_text" }

// Query actions
type RetryAction struct{}

func (a RetryAction) Type() string { return "retry" }

type DismissErrorAction struct{}

func (a DismissErrorAction) Type() string { return "dismiss_error" }

type PageAction struct {
	Direction string // "next", "prev", "first", "last"
}

func (a PageAction) Type() string { return "page" }

// Other actions
type ShowLinkAction struct{}

func (a ShowLinkAction) Type() string { return "show_link" }

type ShowDetailsAction struct{}

func (a ShowDetailsAction) Type() string { return "show_details" }

type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

type QuitAction struct {
	Force bool // true for Ctrl+C, false for 'q'
}

func (a QuitAction) Type() string { return "quit" }

// Sort actions
type SortByAction struct {
	SortBy domain.SortBy
}

func (a SortByAction) Type() string { return "sort_by" }

type UpdateSortIndexAction struct {
	Index int
}

func (a UpdateSortIndexAction) Type() string { return "update_sort_index" }
