package modes

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"coursedeck/internal/ui/input/types"
)

type NormalMode struct {
	lastKeyWasG bool
	lastGTime   time.Time
}

func NewNormalMode() *NormalMode {
	return &NormalMode{}
}

func (m *NormalMode) Name() string {
	return "normal"
}

func (m *NormalMode) Enter(ctx types.Context) []types.Action {
	return nil // No special actions on enter
}

func (m *NormalMode) Exit(ctx types.Context) []types.Action {
	return nil // No special actions on exit
}

func (m *NormalMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return []types.Action{types.QuitAction{Force: true}}, true

	case tea.KeyEsc:
		// Esc dismisses the error banner, nothing else
		if ctx.HasError() {
			return []types.Action{types.DismissErrorAction{}}, true
		}
		return nil, true

	case tea.KeyTab:
		return []types.Action{types.ToggleFocusAction{}}, true

	case tea.KeyUp:
		return m.vertical("up", ctx), true

	case tea.KeyDown:
		return m.vertical("down", ctx), true

	case tea.KeyLeft:
		return []types.Action{types.FacetMoveAction{Direction: "left"}}, true

	case tea.KeyRight:
		return []types.Action{types.FacetMoveAction{Direction: "right"}}, true

	case tea.KeyPgUp:
		return []types.Action{types.NavigateAction{Direction: "pageup"}}, true

	case tea.KeyPgDown:
		return []types.Action{types.NavigateAction{Direction: "pagedown"}}, true

	case tea.KeyHome:
		return []types.Action{types.NavigateAction{Direction: "home"}}, true

	case tea.KeyEnd:
		return []types.Action{types.NavigateAction{Direction: "end"}}, true

	case tea.KeyEnter:
		// Enter toggles the facet option under the cursor, or opens the course
		if ctx.FacetsFocused() {
			return []types.Action{types.FacetToggleAction{}}, true
		}
		if ctx.TotalItems() > 0 {
			return []types.Action{types.ShowDetailsAction{}}, true
		}
		return nil, true
	}

	// Handle string keys
	switch key := msg.String(); key {
	case "j":
		return m.vertical("down", ctx), true

	case "k":
		return m.vertical("up", ctx), true

	case "h":
		return []types.Action{types.FacetMoveAction{Direction: "left"}}, true

	case "l":
		return []types.Action{types.FacetMoveAction{Direction: "right"}}, true

	case " ":
		if ctx.FacetsFocused() {
			return []types.Action{types.FacetToggleAction{}}, true
		}
		return nil, true

	case "/":
		// Enter search mode with the current text
		return []types.Action{types.ChangeModeAction{
			Mode: types.ModeSearch,
			Data: ctx.CurrentSearch(),
		}}, true

	case "$":
		return []types.Action{types.ChangeModeAction{
			Mode: types.ModePrice,
			Data: ctx.CurrentPriceText(),
		}}, true

	case "s":
		// Sort mode
		return []types.Action{types.ChangeModeAction{Mode: types.ModeSort}}, true

	case "1", "2", "3", "4", "5", "6":
		index := int(key[0] - '1')
		if index < ctx.ActiveFilterCount() {
			return []types.Action{types.ClearFilterAction{Index: index}}, true
		}
		return nil, true

	case "R":
		return []types.Action{types.ResetFiltersAction{}}, true

	case "r":
		return []types.Action{types.RetryAction{}}, true

	case "e":
		if ctx.HasError() {
			return []types.Action{types.DismissErrorAction{}}, true
		}
		return nil, true

	case "n", "]":
		return []types.Action{types.PageAction{Direction: "next"}}, true

	case "p", "[":
		return []types.Action{types.PageAction{Direction: "prev"}}, true

	case "y":
		return []types.Action{types.ShowLinkAction{}}, true

	case "?":
		// Toggle help
		return []types.Action{types.ToggleHelpAction{}}, true

	case "q":
		// Quit
		return []types.Action{types.QuitAction{Force: false}}, true

	case "g":
		if m.lastKeyWasG && time.Since(m.lastGTime) < 500*time.Millisecond {
			// gg - go to top (within timeout)
			m.lastKeyWasG = false
			return []types.Action{types.NavigateAction{Direction: "home"}}, true
		}
		// First g, wait for next key
		m.lastKeyWasG = true
		m.lastGTime = time.Now()
		return nil, true

	case "G":
		m.lastKeyWasG = false
		return []types.Action{types.NavigateAction{Direction: "end"}}, true

	default:
		// Any other key cancels the 'g' prefix
		m.lastKeyWasG = false
	}

	return nil, false
}

// vertical moves through facet options when the panel has focus, otherwise
// through the result list
func (m *NormalMode) vertical(direction string, ctx types.Context) []types.Action {
	m.lastKeyWasG = false
	if ctx.FacetsFocused() {
		return []types.Action{types.FacetMoveAction{Direction: direction}}
	}
	return []types.Action{types.NavigateAction{Direction: direction}}
}
