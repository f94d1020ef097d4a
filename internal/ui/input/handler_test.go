package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursedeck/internal/domain"
	"coursedeck/internal/ui/input/types"
)

type fakeContext struct {
	facets  bool
	items   int
	hasErr  bool
	filters int
	search  string
	sort    domain.SortBy
	price   string
}

func (c fakeContext) FacetsFocused() bool        { return c.facets }
func (c fakeContext) CurrentIndex() int          { return 0 }
func (c fakeContext) TotalItems() int            { return c.items }
func (c fakeContext) HasError() bool             { return c.hasErr }
func (c fakeContext) ActiveFilterCount() int     { return c.filters }
func (c fakeContext) CurrentSearch() string      { return c.search }
func (c fakeContext) CurrentSort() domain.SortBy { return c.sort }
func (c fakeContext) CurrentPriceText() string   { return c.price }

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSearchModeEditsAndSubmits(t *testing.T) {
	h := New()
	ctx := fakeContext{search: "go"}

	actions, cmd := h.HandleKey(runes("/"), ctx)
	assert.Empty(t, actions)
	assert.NotNil(t, cmd, "entering a text mode starts the cursor blink")
	require.Equal(t, types.ModeSearch, h.CurrentMode())
	require.NotNil(t, h.TextInput())
	assert.Equal(t, "go", h.TextInput().Value())
	assert.Equal(t, "Search: ", h.Prompt())

	actions, _ = h.HandleKey(runes("a"), ctx)
	require.Len(t, actions, 1)
	assert.Equal(t, types.UpdateTextAction{Text: "goa", Mode: types.ModeSearch}, actions[0])

	// Normal mode keys are plain text here
	actions, _ = h.HandleKey(runes("q"), ctx)
	require.Len(t, actions, 1)
	assert.Equal(t, "goaq", actions[0].(types.UpdateTextAction).Text)

	actions, _ = h.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}, ctx)
	require.Len(t, actions, 1)
	assert.Equal(t, types.SubmitTextAction{Text: "goaq", Mode: types.ModeSearch}, actions[0])
	assert.Equal(t, types.ModeNormal, h.CurrentMode())
	assert.Nil(t, h.TextInput())
}

func TestSearchModeEscCancels(t *testing.T) {
	h := New()
	ctx := fakeContext{}

	h.HandleKey(runes("/"), ctx)
	h.HandleKey(runes("x"), ctx)
	actions, _ := h.HandleKey(tea.KeyMsg{Type: tea.KeyEsc}, ctx)

	require.Len(t, actions, 1)
	assert.Equal(t, types.CancelTextAction{Mode: types.ModeSearch}, actions[0])
	assert.Equal(t, types.ModeNormal, h.CurrentMode())
}

func TestPriceModePrefillsBounds(t *testing.T) {
	h := New()
	ctx := fakeContext{price: "10-50"}

	h.HandleKey(runes("$"), ctx)
	require.Equal(t, types.ModePrice, h.CurrentMode())
	assert.Equal(t, "10-50", h.TextInput().Value())
	assert.Equal(t, "price", h.ModeName())

	actions, _ := h.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}, ctx)
	require.Len(t, actions, 1)
	assert.Equal(t, types.SubmitTextAction{Text: "10-50", Mode: types.ModePrice}, actions[0])
}

func TestNormalModeFilterKeys(t *testing.T) {
	h := New()

	actions, _ := h.HandleKey(runes("1"), fakeContext{filters: 1})
	assert.Equal(t, []types.Action{types.ClearFilterAction{Index: 0}}, actions)

	actions, _ = h.HandleKey(runes("2"), fakeContext{filters: 1})
	assert.Empty(t, actions, "no chip at that position")

	actions, _ = h.HandleKey(runes("R"), fakeContext{})
	assert.Equal(t, []types.Action{types.ResetFiltersAction{}}, actions)
}

func TestNormalModeErrorKeys(t *testing.T) {
	h := New()

	actions, _ := h.HandleKey(runes("e"), fakeContext{})
	assert.Empty(t, actions)

	actions, _ = h.HandleKey(runes("e"), fakeContext{hasErr: true})
	assert.Equal(t, []types.Action{types.DismissErrorAction{}}, actions)

	actions, _ = h.HandleKey(tea.KeyMsg{Type: tea.KeyEsc}, fakeContext{hasErr: true})
	assert.Equal(t, []types.Action{types.DismissErrorAction{}}, actions)

	actions, _ = h.HandleKey(runes("r"), fakeContext{})
	assert.Equal(t, []types.Action{types.RetryAction{}}, actions)
}

func TestNormalModeFocusRoutesVerticalKeys(t *testing.T) {
	h := New()

	actions, _ := h.HandleKey(runes("j"), fakeContext{})
	assert.Equal(t, []types.Action{types.NavigateAction{Direction: "down"}}, actions)

	actions, _ = h.HandleKey(runes("j"), fakeContext{facets: true})
	assert.Equal(t, []types.Action{types.FacetMoveAction{Direction: "down"}}, actions)

	actions, _ = h.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}, fakeContext{facets: true})
	assert.Equal(t, []types.Action{types.FacetToggleAction{}}, actions)

	actions, _ = h.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}, fakeContext{items: 3})
	assert.Equal(t, []types.Action{types.ShowDetailsAction{}}, actions)
}

func TestNormalModeDoubleG(t *testing.T) {
	h := New()
	ctx := fakeContext{items: 10}

	actions, _ := h.HandleKey(runes("g"), ctx)
	assert.Empty(t, actions)
	actions, _ = h.HandleKey(runes("g"), ctx)
	assert.Equal(t, []types.Action{types.NavigateAction{Direction: "home"}}, actions)
}

func TestSortModeCyclesAndRestores(t *testing.T) {
	h := New()
	ctx := fakeContext{sort: domain.SortNewest}

	actions, _ := h.HandleKey(runes("s"), ctx)
	require.Equal(t, types.ModeSort, h.CurrentMode())
	assert.Equal(t, []types.Action{types.UpdateSortIndexAction{Index: 1}}, actions)

	actions, _ = h.HandleKey(runes("j"), ctx)
	assert.Equal(t, []types.Action{
		types.UpdateSortIndexAction{Index: 2},
		types.SortByAction{SortBy: domain.SortHighestRated},
	}, actions)

	// Esc puts the original ordering back
	actions, _ = h.HandleKey(tea.KeyMsg{Type: tea.KeyEsc}, ctx)
	assert.Equal(t, []types.Action{types.SortByAction{SortBy: domain.SortNewest}}, actions)
	assert.Equal(t, types.ModeNormal, h.CurrentMode())
}

func TestSortModeWrapsAround(t *testing.T) {
	h := New()
	ctx := fakeContext{sort: domain.SortPopular}

	h.HandleKey(runes("s"), ctx)
	actions, _ := h.HandleKey(runes("k"), ctx)
	last := len(domain.SortOptions) - 1
	assert.Equal(t, []types.Action{
		types.UpdateSortIndexAction{Index: last},
		types.SortByAction{SortBy: domain.SortOptions[last]},
	}, actions)

	actions, _ = h.HandleKey(tea.KeyMsg{Type: tea.KeyEnter}, ctx)
	assert.Empty(t, actions)
	assert.Equal(t, types.ModeNormal, h.CurrentMode())
}
