package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"coursedeck/internal/domain"
	"coursedeck/internal/summary"
)

// CourseRenderer handles rendering of course rows
type CourseRenderer struct {
	styles       *Styles
	showPrices   bool
	showStudents bool
}

// NewCourseRenderer creates a new course renderer
func NewCourseRenderer(styles *Styles, showPrices, showStudents bool) *CourseRenderer {
	return &CourseRenderer{
		styles:       styles,
		showPrices:   showPrices,
		showStudents: showStudents,
	}
}

// RenderCourse renders one result row
func (r *CourseRenderer) RenderCourse(c domain.Course, isSelected bool, searchQuery string, width int) string {
	// Background color for selection
	bgColor := ""
	if isSelected {
		bgColor = "238"
	}
	base := lipgloss.NewStyle().Background(lipgloss.Color(bgColor))

	var parts []string

	cursor := "  "
	if isSelected {
		cursor = "▸ "
	}
	parts = append(parts, base.Render(cursor))

	// Title (with search highlighting if applicable)
	title := c.Title
	if searchQuery != "" && strings.Contains(strings.ToLower(title), strings.ToLower(searchQuery)) {
		title = r.highlightMatch(title, searchQuery, base.Foreground(lipgloss.Color("226")), base)
	} else {
		title = base.Bold(isSelected).Render(title)
	}
	parts = append(parts, title)

	if c.Instructor != "" {
		parts = append(parts, base.Faint(true).Render(" by "+c.Instructor))
	}

	categoryStyle := base.Foreground(lipgloss.Color(CategoryColor(c.Category)))
	parts = append(parts, categoryStyle.Render(fmt.Sprintf("  [%s · %s]", c.Category, summary.LevelLabel(c.Level))))

	parts = append(parts, r.styles.Rating.Background(lipgloss.Color(bgColor)).Render(fmt.Sprintf("  ★ %.1f", c.Rating)))

	if r.showStudents && c.Students > 0 {
		parts = append(parts, base.Faint(true).Render(fmt.Sprintf(" (%s students)", formatCount(c.Students))))
	}

	if r.showPrices {
		parts = append(parts, r.renderPrice(c, bgColor))
	}

	line := strings.Join(parts, "")
	if width > 0 && lipgloss.Width(line) > width {
		line = lipgloss.NewStyle().MaxWidth(width).Render(line)
	}
	return line
}

func (r *CourseRenderer) renderPrice(c domain.Course, bgColor string) string {
	if c.IsFree() {
		return r.styles.Free.Background(lipgloss.Color(bgColor)).Render("  Free")
	}
	return r.styles.Price.Background(lipgloss.Color(bgColor)).Render(fmt.Sprintf("  $%.2f", c.Price))
}

// RenderCourseDetails renders the full description shown in the pager
func RenderCourseDetails(c domain.Course) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n%s\n\n", c.Title, strings.Repeat("=", len([]rune(c.Title))))
	row := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "%-12s %s\n", label+":", value)
		}
	}
	row("Instructor", c.Instructor)
	row("Category", c.Category)
	row("Level", summary.LevelLabel(c.Level))
	row("Language", c.Language)
	row("Rating", fmt.Sprintf("%.1f (%s reviews)", c.Rating, formatCount(c.Reviews)))
	if c.IsFree() {
		row("Price", "Free")
	} else {
		row("Price", fmt.Sprintf("$%.2f", c.Price))
	}
	if c.DurationHours > 0 {
		row("Duration", fmt.Sprintf("%.1f hours", c.DurationHours))
	}
	row("Students", formatCount(c.Students))
	row("ID", c.ID)
	return b.String()
}

// formatCount renders large counts compactly, e.g. 12.3k
func formatCount(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fk", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

// highlightMatch highlights matching text within a string
func (r *CourseRenderer) highlightMatch(text, query string, highlightStyle, normalStyle lipgloss.Style) string {
	lowerText := strings.ToLower(text)
	lowerQuery := strings.ToLower(query)

	index := strings.Index(lowerText, lowerQuery)
	// Lowercasing can change byte lengths for some runes
	if index == -1 || len(lowerText) != len(text) {
		return normalStyle.Render(text)
	}

	before := text[:index]
	match := text[index : index+len(query)]
	after := text[index+len(query):]

	var result []string
	if before != "" {
		result = append(result, normalStyle.Render(before))
	}
	result = append(result, highlightStyle.Render(match))
	if after != "" {
		result = append(result, normalStyle.Render(after))
	}

	return strings.Join(result, "")
}
