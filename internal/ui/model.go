package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"coursedeck/internal/config"
	"coursedeck/internal/domain"
	"coursedeck/internal/eventbus"
	"coursedeck/internal/filterstore"
	"coursedeck/internal/location"
	"coursedeck/internal/query"
	"coursedeck/internal/summary"
	"coursedeck/internal/ui/facets"
	"coursedeck/internal/ui/handlers"
	"coursedeck/internal/ui/input"
	inputtypes "coursedeck/internal/ui/input/types"
	"coursedeck/internal/ui/logic"
	"coursedeck/internal/ui/state"
	"coursedeck/internal/ui/views"
)

const sidebarWidth = 26

// Deps are the long-lived services the UI drives
type Deps struct {
	Store      *filterstore.Store
	Controller *query.Controller
	Location   *location.Location
	Bus        eventbus.EventBus
	Config     *config.Config
	Log        zerolog.Logger
}

// Model represents the UI state
type Model struct {
	deps  Deps
	state *state.AppState // centralized state

	// UI-specific state not in AppState
	width        int
	height       int
	help         help.Model
	keys         keyMap
	inPagerMode  bool // tracks if we're currently in pager mode
	ticking      bool // a spinner tick is scheduled
	spinnerFrame int
	searchBefore string // search text when search mode was entered

	// Handlers
	navigator    *logic.Navigator       // navigation and viewport handler
	renderer     *views.Renderer        // view renderer
	eventHandler *handlers.EventHandler // event processing handler
	inputHandler *input.Handler         // input handling
	panel        *facets.Panel          // facet sidebar
	helpRenderer *HelpRenderer
	pager        *PagerOps

	// Program reference for terminal management
	program *tea.Program
}

// NewModel creates a new UI model
func NewModel(deps Deps) *Model {
	appState := state.NewAppState(deps.Store.Current())
	appState.SetQuery(deps.Controller.State(), deps.Controller.Pages())

	cfg := deps.Config
	m := &Model{
		deps:         deps,
		state:        appState,
		help:         help.New(),
		keys:         newKeyMap(),
		navigator:    logic.NewNavigator(),
		renderer:     views.NewRenderer(cfg.UI.ShowPrices, cfg.UI.ShowStudents),
		inputHandler: input.New(),
		panel:        facets.New(cfg.Catalog.Categories, cfg.Catalog.Languages),
		helpRenderer: NewHelpRenderer(),
	}
	m.eventHandler = handlers.NewEventHandler(appState, deps.Controller.PageSize())

	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager = NewPagerOps(p)
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	// Initialize viewport with reasonable defaults
	m.state.ViewportHeight = 20 // Will be updated on first WindowSizeMsg
	return m.startTicking(nil)
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.updateViewportHeight()

	case tea.KeyMsg:
		// Handle the help popup first
		if m.state.ShowHelp {
			m.handleHelpKey(msg)
			return m, nil
		}

		ctx := &input.ModelContext{State: m.state}
		before := m.inputHandler.CurrentMode()
		actions, cmd := m.inputHandler.HandleKey(msg, ctx)
		if after := m.inputHandler.CurrentMode(); after != before && after == inputtypes.ModeSearch {
			m.searchBefore = m.state.Filter.SearchText
		}

		cmds := []tea.Cmd{}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		for _, action := range actions {
			if actionCmd := m.processAction(action); actionCmd != nil {
				cmds = append(cmds, actionCmd)
			}
		}
		cmds = append(cmds, m.startTicking(nil))

		return m, tea.Batch(cmds...)

	default:
		// Handle non-keyboard messages
		if cmd := m.inputHandler.Update(msg); cmd != nil {
			return m, cmd
		}
		return m.handleNonKeyboardMsg(msg)
	}

	return m, nil
}

func (m *Model) handleNonKeyboardMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EventMsg:
		cmd := m.eventHandler.HandleEvent(msg.Event)
		_, m.state.Searching = m.deps.Store.PendingSearch()
		m.syncNavigator()
		return m, m.startTicking(cmd)

	case handlers.TickMsg:
		m.ticking = false
		if m.inPagerMode || !m.needsTick() {
			return m, nil
		}
		m.spinnerFrame++
		return m, m.startTicking(nil)

	case pagerMsg:
		if msg.err != nil {
			m.reportError("pager failed", msg.err)
		}
		return m, nil

	case pauseRenderingMsg:
		// Signal that rendering should be paused for external pager
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		// Bubble Tea's RestoreTerminal() handles the actual resuming
		m.inPagerMode = false
		return m, m.startTicking(nil)
	}
	return m, nil
}

// processAction processes an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	switch a := action.(type) {
	case inputtypes.QuitAction:
		return tea.Quit

	case inputtypes.NavigateAction:
		m.syncNavigator()
		m.state.SelectedIndex, m.state.ViewportOffset = m.navigator.Move(a.Direction)

	case inputtypes.ToggleFocusAction:
		m.state.FacetsFocused = !m.state.FacetsFocused

	case inputtypes.FacetMoveAction:
		// Switching facets pulls focus to the panel
		m.state.FacetsFocused = true
		m.panel.Move(a.Direction)

	case inputtypes.FacetToggleAction:
		m.merge(m.panel.Toggle(m.state.Filter))

	case inputtypes.ClearFilterAction:
		entries := summary.Summarize(m.state.Filter)
		if a.Index >= 0 && a.Index < len(entries) {
			m.merge(entries[a.Index].Clear())
			m.state.StatusMessage = "Removed " + entries[a.Index].Label
		}

	case inputtypes.ResetFiltersAction:
		m.state.SetFilter(m.deps.Store.Reset())
		m.state.Searching = false
		m.state.StatusMessage = "Filters reset"

	case inputtypes.UpdateTextAction:
		if a.Mode == inputtypes.ModeSearch {
			m.deps.Store.SetSearchText(a.Text)
			m.state.PendingSearch = a.Text
			m.state.Searching = true
		}

	case inputtypes.SubmitTextAction:
		switch a.Mode {
		case inputtypes.ModeSearch:
			m.state.Searching = false
			m.state.SetFilter(m.deps.Store.CommitSearchText(a.Text))
		case inputtypes.ModePrice:
			patch, err := facets.ParsePriceBounds(a.Text)
			if err != nil {
				m.reportError("invalid price range", err)
				return nil
			}
			m.merge(patch)
		}

	case inputtypes.CancelTextAction:
		if a.Mode == inputtypes.ModeSearch {
			// Abandon the edit, including text the debounce already applied
			m.state.Searching = false
			m.state.SetFilter(m.deps.Store.CommitSearchText(m.searchBefore))
		}

	case inputtypes.SortByAction:
		m.merge(domain.Partial{SortBy: domain.Ptr(a.SortBy)})

	case inputtypes.UpdateSortIndexAction:
		m.state.SortOptionIndex = a.Index

	case inputtypes.RetryAction:
		m.state.StatusMessage = "Retrying..."
		m.deps.Controller.Retry()

	case inputtypes.DismissErrorAction:
		m.deps.Controller.DismissError()

	case inputtypes.PageAction:
		ctrl := m.deps.Controller
		switch a.Direction {
		case "next":
			ctrl.NextPage()
		case "prev":
			ctrl.PrevPage()
		case "first":
			ctrl.SetPage(1)
		case "last":
			ctrl.SetPage(ctrl.Pages())
		}

	case inputtypes.ShowLinkAction:
		link := m.deps.Location.Link(m.deps.Config.UI.LinkBase)
		m.state.Link = link
		if link == "" {
			m.state.StatusMessage = "Link: no filters set"
		} else {
			m.state.StatusMessage = "Link: " + link
		}

	case inputtypes.ShowDetailsAction:
		if course, ok := m.state.SelectedCourse(); ok {
			return m.showInPager(views.RenderCourseDetails(course))
		}

	case inputtypes.ToggleHelpAction:
		m.state.ShowHelp = !m.state.ShowHelp
		m.state.HelpScrollOffset = 0
	}

	return nil
}

// reportError logs err and shows it in the status bar through the bus
func (m *Model) reportError(what string, err error) {
	m.deps.Log.Warn().Err(err).Msg(what)
	message := fmt.Sprintf("%s: %v", what, err)
	if m.deps.Bus == nil {
		m.state.StatusMessage = "Error: " + message
		return
	}
	m.deps.Bus.Publish(eventbus.ErrorEvent{Message: message, Err: err})
}

// merge writes a patch to the store and mirrors the result
func (m *Model) merge(p domain.Partial) {
	if p.IsEmpty() {
		return
	}
	m.state.SetFilter(m.deps.Store.Merge(p))
	if p.SearchText != nil {
		m.state.Searching = false
	}
}

func (m *Model) handleHelpKey(msg tea.KeyMsg) {
	switch msg.String() {
	case "esc", "?", "q":
		m.state.ShowHelp = false
		m.state.HelpScrollOffset = 0
	case "up", "k":
		if m.state.HelpScrollOffset > 0 {
			m.state.HelpScrollOffset--
		}
	case "down", "j":
		m.state.HelpScrollOffset++
	}
}

// showInPager suspends the TUI and shows content in ov
func (m *Model) showInPager(content string) tea.Cmd {
	if m.program == nil || m.pager == nil {
		return nil
	}
	return func() tea.Msg {
		m.program.Send(pauseRenderingMsg{})

		err := m.pager.ShowInPager(content)

		// Send resume message to restart rendering
		m.program.Send(resumeRenderingMsg{})

		return pagerMsg{err: err}
	}
}

// needsTick reports whether something animated is on screen
func (m *Model) needsTick() bool {
	return m.state.Query.Status == domain.StatusLoading || m.state.Searching
}

// startTicking schedules a spinner tick unless one is already pending
func (m *Model) startTicking(cmd tea.Cmd) tea.Cmd {
	if m.ticking {
		return nil
	}
	if cmd == nil && m.needsTick() {
		cmd = handlers.Tick()
	}
	if cmd == nil {
		return nil
	}
	m.ticking = true
	return cmd
}

// syncNavigator updates the navigator with current model state
func (m *Model) syncNavigator() {
	m.navigator.UpdateState(
		m.state.SelectedIndex,
		m.state.ViewportOffset,
		m.state.ViewportHeight,
		m.state.ResultCount(),
	)
}

// updateViewportHeight calculates the available height for the result list
func (m *Model) updateViewportHeight() {
	// Account for title, chips, input, banner, status, footer and padding
	reservedLines := 11
	m.state.ViewportHeight = m.height - reservedLines
	if m.state.ViewportHeight < 1 {
		m.state.ViewportHeight = 1
	}

	m.syncNavigator()
	m.state.SelectedIndex, m.state.ViewportOffset = m.navigator.SetSelectedIndex(m.state.SelectedIndex)
}

// View renders the UI
func (m *Model) View() string {
	if m.inPagerMode {
		return ""
	}
	if m.width == 0 {
		return "Loading..."
	}

	vs := views.ViewState{
		Width:           m.width,
		Height:          m.height,
		Filter:          m.state.Filter,
		Query:           m.state.Query,
		Pages:           m.state.Pages,
		Chips:           summary.Summarize(m.state.Filter),
		SelectedIndex:   m.state.SelectedIndex,
		ViewportOffset:  m.state.ViewportOffset,
		ViewportHeight:  m.state.ViewportHeight,
		FacetsFocused:   m.state.FacetsFocused,
		FacetPanel:      m.panel.View(m.state.Filter, sidebarWidth, m.state.FacetsFocused),
		SidebarWidth:    sidebarWidth,
		StatusMessage:   m.state.StatusMessage,
		Searching:       m.state.Searching,
		SpinnerFrame:    m.spinnerFrame,
		SortOptionIndex: m.state.SortOptionIndex,
		ShowHelp:        m.state.ShowHelp,
		Footer:          m.help.View(m.keys.withError(m.state.Query.HasError())),
	}

	if m.inputHandler.CurrentMode() != inputtypes.ModeNormal {
		vs.InputMode = m.inputHandler.ModeName()
		if ti := m.inputHandler.TextInput(); ti != nil {
			vs.TextInput = m.inputHandler.Prompt() + ti.View()
		}
	}

	if m.state.ShowHelp {
		vs.HelpContent = m.helpRenderer.renderHelpContent(m.height, m.state.HelpScrollOffset)
	}

	return m.renderer.Render(vs)
}
