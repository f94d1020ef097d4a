package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"
)

// pagerMsg contains the result of a pager command
type pagerMsg struct {
	err error
}

type helpEntry struct {
	keys string
	desc string
}

type helpSection struct {
	title   string
	entries []helpEntry
}

var helpSections = []helpSection{
	{"Navigation", []helpEntry{
		{"↑/↓, j/k", "Move through results or facet options"},
		{"PgUp/PgDn", "Page up/down"},
		{"gg/G", "Go to top/bottom"},
		{"Tab", "Switch between results and filters"},
		{"Enter", "Course details"},
	}},
	{"Filters", []helpEntry{
		{"←/→, h/l", "Previous/next facet"},
		{"Space", "Toggle facet option"},
		{"/", "Search courses"},
		{"$", "Custom price range (min-max)"},
		{"s", "Sort options"},
		{"1-6", "Remove an active filter"},
		{"R", "Reset all filters"},
	}},
	{"Results", []helpEntry{
		{"n/p, ]/[", "Next/previous page"},
		{"r", "Retry the last fetch"},
		{"e, Esc", "Dismiss the error"},
		{"y", "Show shareable link"},
	}},
	{"Other", []helpEntry{
		{"?", "Toggle this help"},
		{"q", "Quit"},
	}},
}

// HelpRenderer handles help content rendering
type HelpRenderer struct {
	titleStyle   lipgloss.Style
	sectionStyle lipgloss.Style
	keyStyle     lipgloss.Style
	descStyle    lipgloss.Style
}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer() *HelpRenderer {
	return &HelpRenderer{
		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			MarginBottom(1),
		sectionStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginTop(1),
		keyStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		descStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
	}
}

// RenderHelpContentPlain generates the full help text
func (r *HelpRenderer) RenderHelpContentPlain() string {
	var help strings.Builder

	help.WriteString(r.titleStyle.Render("coursedeck Help"))
	help.WriteString("\n")

	for i, section := range helpSections {
		help.WriteString(r.sectionStyle.Render(section.title))
		help.WriteString("\n")
		for _, e := range section.entries {
			// Pad before styling so the columns line up
			help.WriteString(fmt.Sprintf("  %s  %s\n", r.keyStyle.Render(fmt.Sprintf("%-10s", e.keys)), r.descStyle.Render(e.desc)))
		}
		if i < len(helpSections)-1 {
			help.WriteString("\n")
		}
	}

	return strings.TrimSuffix(help.String(), "\n")
}

// renderHelpContent renders the help popup window starting at scrollOffset
func (r *HelpRenderer) renderHelpContent(height int, scrollOffset int) string {
	lines := strings.Split(r.RenderHelpContentPlain(), "\n")
	totalLines := len(lines)

	// Calculate visible window (account for popup border and padding)
	visibleHeight := height - 4
	if visibleHeight < 5 {
		visibleHeight = 5
	}
	if totalLines <= visibleHeight {
		return strings.Join(lines, "\n")
	}

	// Ensure scroll offset is valid
	maxOffset := totalLines - visibleHeight
	if scrollOffset > maxOffset {
		scrollOffset = maxOffset
	}
	if scrollOffset < 0 {
		scrollOffset = 0
	}

	endLine := scrollOffset + visibleHeight
	visibleLines := lines[scrollOffset:endLine]

	// Add scroll indicators
	indicator := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	if scrollOffset > 0 {
		visibleLines[0] = indicator.Render("↑ (more above)")
	}
	if endLine < totalLines {
		visibleLines[len(visibleLines)-1] = indicator.Render("↓ (more below)")
	}

	return strings.Join(visibleLines, "\n")
}

// PagerOps shows long text in ov while the TUI is suspended
type PagerOps struct {
	program *tea.Program // reference to Bubble Tea program for terminal management
}

// NewPagerOps creates a new pager operations instance
func NewPagerOps(program *tea.Program) *PagerOps {
	return &PagerOps{
		program: program,
	}
}

// ShowInPager shows content using the ov pager
func (p *PagerOps) ShowInPager(content string) error {
	if p.program == nil {
		return fmt.Errorf("program not set")
	}

	// Release terminal control to run ov
	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}

	// Ensure terminal is restored even if ov fails
	defer func() {
		// Small delay to ensure ov has fully exited before restoring terminal
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return err
	}

	// Configure ov to not write on exit (to avoid messing with our screen)
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}
