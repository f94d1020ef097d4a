package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"coursedeck/internal/domain"
	"coursedeck/internal/ui/input/types"
)

type SortSelectMode struct {
	sortIndex     int
	originalIndex int // Remember the original sort when entering
}

func NewSortSelectMode() *SortSelectMode {
	return &SortSelectMode{}
}

func (m *SortSelectMode) Name() string {
	return "sort"
}

func (m *SortSelectMode) Enter(ctx types.Context) []types.Action {
	// Start with the current sort option
	m.sortIndex = 0
	m.originalIndex = 0
	current := ctx.CurrentSort()
	for i, option := range domain.SortOptions {
		if option == current {
			m.sortIndex = i
			m.originalIndex = i
			break
		}
	}

	return []types.Action{types.UpdateSortIndexAction{Index: m.sortIndex}}
}

func (m *SortSelectMode) Exit(ctx types.Context) []types.Action {
	return nil
}

// HandleKey processes key messages for sort selection
func (m *SortSelectMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true

	case "esc", "q":
		// Cancel and restore original sort
		actions := []types.Action{}
		if m.sortIndex != m.originalIndex {
			actions = append(actions, types.SortByAction{SortBy: domain.SortOptions[m.originalIndex]})
		}
		return append(actions, types.ChangeModeAction{Mode: types.ModeNormal}), true

	case "enter":
		// Accept current sort and return to normal mode
		return []types.Action{types.ChangeModeAction{Mode: types.ModeNormal}}, true

	case "up", "k":
		return m.move(-1), true

	case "down", "j":
		return m.move(1), true
	}

	return nil, true
}

// move steps through the options with wrap-around and applies the choice
// immediately
func (m *SortSelectMode) move(delta int) []types.Action {
	n := len(domain.SortOptions)
	m.sortIndex = ((m.sortIndex+delta)%n + n) % n
	return []types.Action{
		types.UpdateSortIndexAction{Index: m.sortIndex},
		types.SortByAction{SortBy: domain.SortOptions[m.sortIndex]},
	}
}

// CurrentIndex returns the current sort option index
func (m *SortSelectMode) CurrentIndex() int {
	return m.sortIndex
}
