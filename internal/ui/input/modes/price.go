package modes

import (
	"github.com/charmbracelet/bubbles/textinput"

	"coursedeck/internal/ui/input/types"
)

// PriceMode edits custom price bounds written as "min-max"
type PriceMode struct {
	TextInputMode
}

func NewPriceMode(ti *textinput.Model) *PriceMode {
	return &PriceMode{
		TextInputMode: NewTextInputMode(types.ModePrice, "price", "Price (min-max): ", ti),
	}
}
