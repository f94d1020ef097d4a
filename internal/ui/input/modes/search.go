package modes

import (
	"github.com/charmbracelet/bubbles/textinput"

	"coursedeck/internal/ui/input/types"
)

// SearchMode edits the free-text search. Every edit is reported so the
// debounced search can follow the typing.
type SearchMode struct {
	TextInputMode
}

func NewSearchMode(ti *textinput.Model) *SearchMode {
	return &SearchMode{
		TextInputMode: NewTextInputMode(types.ModeSearch, "search", "Search: ", ti),
	}
}
