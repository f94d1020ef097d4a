package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"coursedeck/internal/domain"
	"coursedeck/internal/summary"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width  int
	Height int

	Filter domain.FilterModel
	Query  domain.QueryState
	Pages  int
	Chips  []summary.Entry

	SelectedIndex  int
	ViewportOffset int
	ViewportHeight int

	FacetsFocused bool
	FacetPanel    string // pre-rendered sidebar
	SidebarWidth  int

	StatusMessage   string
	Searching       bool
	SpinnerFrame    int
	InputMode       string
	TextInput       string // prompt and input, rendered
	SortOptionIndex int
	ShowHelp        bool
	HelpContent     string
	Footer          string
}

// Renderer handles all view rendering
type Renderer struct {
	styles       *Styles
	courseRender *CourseRenderer
	popupRender  *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer(showPrices, showStudents bool) *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:       styles,
		courseRender: NewCourseRenderer(styles, showPrices, showStudents),
		popupRender:  NewPopupRenderer(styles),
	}
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	if state.ShowHelp {
		return r.popupRender.RenderPopup(state.HelpContent, state.Height, state.Width, r.styles.InfoBox)
	}

	content := &strings.Builder{}

	content.WriteString(r.renderTitleLine(state))
	content.WriteString("\n")
	content.WriteString(r.renderChips(state))
	content.WriteString("\n")

	if state.InputMode != "" {
		if state.InputMode == "sort" {
			content.WriteString(r.renderSortOptions(state))
		} else {
			content.WriteString(r.styles.Prompt.Render(state.TextInput))
		}
		content.WriteString("\n")
	}

	if state.Query.HasError() {
		content.WriteString(r.renderErrorBanner(state.Query))
		content.WriteString("\n")
	}
	content.WriteString("\n")

	sidebar := r.styles.Sidebar.Width(state.SidebarWidth).Render(state.FacetPanel)
	results := r.renderResults(state)
	content.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, sidebar, results))
	content.WriteString("\n\n")

	if state.StatusMessage != "" {
		content.WriteString(r.styles.Status.Render(state.StatusMessage))
		content.WriteString("\n")
	}
	content.WriteString(state.Footer)

	// Apply main container style
	mainStyle := r.styles.Main
	if state.Height > 0 {
		mainStyle = mainStyle.MaxHeight(state.Height)
	}
	return mainStyle.Render(content.String())
}

// renderTitleLine renders the logo with right-aligned indicators
func (r *Renderer) renderTitleLine(state ViewState) string {
	logo := r.styles.Title.Render("coursedeck")

	var indicators []string
	spinner := spinnerFrames[state.SpinnerFrame%len(spinnerFrames)]
	if state.Query.Status == domain.StatusLoading {
		indicators = append(indicators, r.styles.StatusLoading.Render(spinner+" Loading"))
	} else if state.Searching {
		indicators = append(indicators, r.styles.StatusLoading.Render(spinner+" Searching"))
	}
	if state.Query.Status == domain.StatusSuccess || len(state.Query.Results) > 0 {
		indicators = append(indicators, r.styles.Dim.Render(fmt.Sprintf("%d courses", state.Query.TotalCount)))
	}
	pages := state.Pages
	if pages < 1 {
		pages = 1
	}
	indicators = append(indicators, r.styles.Dim.Render(fmt.Sprintf("page %d/%d", state.Query.Page, pages)))
	indicators = append(indicators, r.styles.Dim.Render("sort: "+summary.SortLabel(state.Filter.SortBy)))

	rightContent := strings.Join(indicators, r.styles.Dim.Render(" | "))

	// Use a default width if state.Width is not set
	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	availableWidth := termWidth - 4 // Account for main container padding
	paddingWidth := availableWidth - lipgloss.Width(logo) - lipgloss.Width(rightContent)
	if paddingWidth > 0 {
		return logo + strings.Repeat(" ", paddingWidth) + rightContent
	}
	return logo + "  " + rightContent
}

// renderChips renders the removable active filter summary
func (r *Renderer) renderChips(state ViewState) string {
	if len(state.Chips) == 0 {
		return r.styles.Dim.Render("No filters, showing all courses")
	}
	parts := make([]string, 0, len(state.Chips))
	for i, chip := range state.Chips {
		index := r.styles.ChipIndex.Render(fmt.Sprintf("%d", i+1))
		parts = append(parts, index+r.styles.Chip.Render(chip.Label))
	}
	return strings.Join(parts, " ") + r.styles.Dim.Render("  (R resets)")
}

func (r *Renderer) renderErrorBanner(q domain.QueryState) string {
	msg := "Could not reach the catalog service."
	if q.LastError == domain.ErrorServer {
		msg = "The catalog service returned an error."
	}
	return r.styles.ErrorBanner.Render(msg + " Press r to retry, e to dismiss.")
}

// renderResults renders the course list for the current page
func (r *Renderer) renderResults(state ViewState) string {
	q := state.Query
	switch {
	case q.Status == domain.StatusIdle:
		return r.styles.Dim.Render("Waiting for the first query...")
	case q.Status == domain.StatusLoading && len(q.Results) == 0:
		return r.styles.Dim.Render("Loading courses...")
	case len(q.Results) == 0 && q.Status == domain.StatusSuccess:
		return r.styles.Dim.Render("No courses match the current filters.")
	case len(q.Results) == 0:
		return r.styles.Dim.Render("No results to show.")
	}

	width := state.Width - state.SidebarWidth - 8
	var visibleLines []string
	for i := state.ViewportOffset; i < len(q.Results); i++ {
		isSelected := !state.FacetsFocused && i == state.SelectedIndex
		visibleLines = append(visibleLines, r.courseRender.RenderCourse(q.Results[i], isSelected, state.Filter.SearchText, width))
	}

	// Calculate effective height
	effectiveHeight := state.ViewportHeight
	if effectiveHeight <= 0 {
		effectiveHeight = len(visibleLines)
	}
	needsTopIndicator := state.ViewportOffset > 0
	needsBottomIndicator := len(visibleLines) > effectiveHeight
	if needsTopIndicator {
		effectiveHeight--
	}
	if needsBottomIndicator {
		effectiveHeight--
	}
	if effectiveHeight < 1 {
		effectiveHeight = 1
	}

	var lines []string
	if needsTopIndicator {
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↑ %d more above ↑", state.ViewportOffset)))
	}
	for i := 0; i < effectiveHeight && i < len(visibleLines); i++ {
		lines = append(lines, visibleLines[i])
	}
	if needsBottomIndicator {
		itemsBelow := len(visibleLines) - effectiveHeight
		if itemsBelow < 0 {
			itemsBelow = 0
		}
		lines = append(lines, r.styles.Scroll.Render(fmt.Sprintf("↓ %d more below ↓", itemsBelow)))
	}

	return strings.Join(lines, "\n")
}

// renderSortOptions renders the sort mode selection interface
func (r *Renderer) renderSortOptions(state ViewState) string {
	if state.SortOptionIndex < 0 || state.SortOptionIndex >= len(domain.SortOptions) {
		return ""
	}
	option := domain.SortOptions[state.SortOptionIndex]
	sortLine := fmt.Sprintf("Sort by: %s", summary.SortLabel(option))
	helpLine := r.styles.Dim.Render("↑/↓ or j/k to change • Enter to accept • Esc to cancel")
	return sortLine + "\n" + helpLine
}
