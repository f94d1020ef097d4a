package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Dim           lipgloss.Style
	Status        lipgloss.Style
	Chip          lipgloss.Style
	ChipIndex     lipgloss.Style
	Prompt        lipgloss.Style
	InfoBox       lipgloss.Style
	ErrorBanner   lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	Sidebar       lipgloss.Style
	Scroll        lipgloss.Style
	Highlight     lipgloss.Style
	SelectionBg   lipgloss.Style
	Price         lipgloss.Style
	Free          lipgloss.Style
	Rating        lipgloss.Style
	StatusLoading lipgloss.Style
	StatusError   lipgloss.Style
	StatusSuccess lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Dim: lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Chip: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")). // yellow
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), false, true).
			BorderForeground(lipgloss.Color("241")),
		ChipIndex: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Prompt:    lipgloss.NewStyle().Bold(true),
		InfoBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(1).
			BorderForeground(lipgloss.Color("241")),
		ErrorBanner: lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Background(lipgloss.Color("124")).
			Padding(0, 1),
		Help: lipgloss.NewStyle().Faint(true),
		Main: lipgloss.NewStyle().
			Padding(1, 2),
		Sidebar: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			BorderForeground(lipgloss.Color("238")).
			PaddingRight(1).
			MarginRight(1),
		Scroll:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		Highlight:     lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true),
		SelectionBg:   lipgloss.NewStyle().Background(lipgloss.Color("238")),
		Price:         lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Free:          lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
		Rating:        lipgloss.NewStyle().Foreground(lipgloss.Color("220")), // gold
		StatusLoading: lipgloss.NewStyle().Foreground(lipgloss.Color("241")), // gray
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")), // red
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),  // green
	}
}

// CategoryColor returns a stable color for a course category
func CategoryColor(category string) string {
	switch category {
	case "Development":
		return "33" // blue
	case "Design":
		return "170" // magenta
	case "Business":
		return "214" // yellow
	case "Data Science":
		return "51" // cyan
	case "":
		return "241"
	default:
		return "252"
	}
}
