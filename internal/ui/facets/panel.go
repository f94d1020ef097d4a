// Package facets renders the filter sidebar and turns cursor toggles into
// filter patches.
package facets

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"coursedeck/internal/domain"
	"coursedeck/internal/location"
	"coursedeck/internal/summary"
)

// ErrPriceBounds is returned for price input that is not "min-max"
var ErrPriceBounds = errors.New("price bounds must look like min-max, e.g. 10-50")

type option struct {
	label    string
	selected func(domain.FilterModel) bool
	set      domain.Partial
	clear    domain.Partial
}

type section struct {
	title   string
	options []option
}

// Panel is the facet sidebar. It keeps only the cursor; the selection itself
// always comes from the model passed in.
type Panel struct {
	sections []section
	section  int
	cursor   int

	titleStyle    lipgloss.Style
	activeStyle   lipgloss.Style
	cursorStyle   lipgloss.Style
	dimStyle      lipgloss.Style
	selectedStyle lipgloss.Style
}

// New builds the panel with the configured free-form facet values
func New(categories, languages []string) *Panel {
	p := &Panel{
		titleStyle:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99")),
		activeStyle:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("226")),
		cursorStyle:   lipgloss.NewStyle().Background(lipgloss.Color("238")),
		dimStyle:      lipgloss.NewStyle().Faint(true),
		selectedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
	}

	categorySection := section{title: "Category"}
	for _, c := range categories {
		categorySection.options = append(categorySection.options, option{
			label:    c,
			selected: func(m domain.FilterModel) bool { return m.Category == c },
			set:      domain.Partial{Category: domain.Ptr(c)},
			clear:    domain.Partial{Category: domain.Ptr("")},
		})
	}

	levelSection := section{title: "Level"}
	for _, l := range domain.Levels {
		levelSection.options = append(levelSection.options, option{
			label:    summary.LevelLabel(l),
			selected: func(m domain.FilterModel) bool { return m.Level == l },
			set:      domain.Partial{Level: domain.Ptr(l)},
			clear:    domain.Partial{Level: domain.Ptr(domain.LevelAny)},
		})
	}

	priceSection := section{title: "Price"}
	for _, r := range domain.PriceRanges {
		priceSection.options = append(priceSection.options, option{
			label:    summary.PriceRangeLabel(r),
			selected: func(m domain.FilterModel) bool { return m.PriceRange == r },
			set:      domain.Partial{PriceRange: domain.Ptr(r)},
			clear:    domain.Partial{PriceRange: domain.Ptr(domain.PriceAny)},
		})
	}

	ratingSection := section{title: "Rating"}
	for r := domain.MaxRating; r >= domain.MinRating; r-- {
		ratingSection.options = append(ratingSection.options, option{
			label:    summary.RatingLabel(r),
			selected: func(m domain.FilterModel) bool { return m.Rating == r },
			set:      domain.Partial{Rating: domain.Ptr(r)},
			clear:    domain.Partial{Rating: domain.Ptr(0)},
		})
	}

	languageSection := section{title: "Language"}
	for _, lang := range languages {
		languageSection.options = append(languageSection.options, option{
			label:    lang,
			selected: func(m domain.FilterModel) bool { return m.Language == lang },
			set:      domain.Partial{Language: domain.Ptr(lang)},
			clear:    domain.Partial{Language: domain.Ptr("")},
		})
	}

	for _, s := range []section{categorySection, levelSection, priceSection, ratingSection, languageSection} {
		if len(s.options) > 0 {
			p.sections = append(p.sections, s)
		}
	}
	return p
}

// Move moves the cursor. Left and right switch section, up and down move
// within it.
func (p *Panel) Move(direction string) {
	if len(p.sections) == 0 {
		return
	}
	switch direction {
	case "left":
		if p.section > 0 {
			p.section--
			p.cursor = 0
		}
	case "right":
		if p.section < len(p.sections)-1 {
			p.section++
			p.cursor = 0
		}
	case "up":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down":
		if p.cursor < len(p.sections[p.section].options)-1 {
			p.cursor++
		}
	}
}

// Section returns the title of the section under the cursor
func (p *Panel) Section() string {
	if len(p.sections) == 0 {
		return ""
	}
	return p.sections[p.section].title
}

// Toggle returns the patch for the option under the cursor: it selects the
// option, or clears the facet when the option is already selected.
func (p *Panel) Toggle(m domain.FilterModel) domain.Partial {
	if len(p.sections) == 0 {
		return domain.Partial{}
	}
	opt := p.sections[p.section].options[p.cursor]
	if opt.selected(m) {
		return opt.clear
	}
	return opt.set
}

// View renders the panel for m
func (p *Panel) View(m domain.FilterModel, width int, focused bool) string {
	var b strings.Builder
	for i, s := range p.sections {
		title := s.title
		if focused && i == p.section {
			title = p.activeStyle.Render("▸ " + title)
		} else {
			title = p.titleStyle.Render("  " + title)
		}
		b.WriteString(title)
		b.WriteString("\n")

		for j, opt := range s.options {
			mark := "( )"
			style := lipgloss.NewStyle()
			if opt.selected(m) {
				mark = "(•)"
				style = p.selectedStyle
			}
			line := fmt.Sprintf("   %s %s", mark, opt.label)
			if width > 0 {
				line = truncate(line, width)
			}
			if focused && i == p.section && j == p.cursor {
				b.WriteString(p.cursorStyle.Render(style.Render(line)))
			} else {
				b.WriteString(style.Render(line))
			}
			b.WriteString("\n")
		}

		if s.title == "Price" && m.HasCustomPrice() {
			b.WriteString(p.selectedStyle.Render("   Custom: " + FormatPriceBounds(m)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(p.dimStyle.Render("  $ sets custom price"))
	return b.String()
}

// ParsePriceBounds turns "min-max" text into a patch for both bounds. Either
// side may be left empty to clear it, and empty text clears both.
func ParsePriceBounds(text string) (domain.Partial, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Partial{MinPrice: &domain.Amount{}, MaxPrice: &domain.Amount{}}, nil
	}

	lo, hi, found := strings.Cut(text, "-")
	if !found {
		return domain.Partial{}, ErrPriceBounds
	}
	minAmount, err := parseBound(lo)
	if err != nil {
		return domain.Partial{}, err
	}
	maxAmount, err := parseBound(hi)
	if err != nil {
		return domain.Partial{}, err
	}
	if !minAmount.Set && !maxAmount.Set {
		return domain.Partial{}, ErrPriceBounds
	}
	if minAmount.Set && maxAmount.Set && minAmount.Value > maxAmount.Value {
		return domain.Partial{}, fmt.Errorf("minimum price %s is above maximum %s",
			location.FormatAmount(minAmount), location.FormatAmount(maxAmount))
	}
	return domain.Partial{MinPrice: &minAmount, MaxPrice: &maxAmount}, nil
}

// FormatPriceBounds renders the custom bounds of m in the form
// ParsePriceBounds accepts, "" when neither is set
func FormatPriceBounds(m domain.FilterModel) string {
	if !m.HasCustomPrice() {
		return ""
	}
	return location.FormatAmount(m.MinPrice) + "-" + location.FormatAmount(m.MaxPrice)
}

func parseBound(s string) (domain.Amount, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if s == "" {
		return domain.Amount{}, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return domain.Amount{}, ErrPriceBounds
	}
	return domain.Price(v), nil
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}
