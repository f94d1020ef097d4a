package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap lists the bindings shown in the footer. Dispatch happens in the
// input modes; these only describe the keys.
type keyMap struct {
	Search key.Binding
	Facets key.Binding
	Toggle key.Binding
	Sort   key.Binding
	Price  key.Binding
	Page   key.Binding
	Retry  key.Binding
	Link   key.Binding
	Reset  key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Search: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Facets: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "filters")),
		Toggle: key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "toggle")),
		Sort:   key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
		Price:  key.NewBinding(key.WithKeys("$"), key.WithHelp("$", "price")),
		Page:   key.NewBinding(key.WithKeys("n", "p"), key.WithHelp("n/p", "page")),
		Retry:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		Link:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "link")),
		Reset:  key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Facets, k.Sort, k.Page, k.Retry, k.Link, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Search, k.Price, k.Sort},
		{k.Facets, k.Toggle, k.Reset},
		{k.Page, k.Retry, k.Link},
		{k.Help, k.Quit},
	}
}

// withError enables the retry hint only while an error is shown
func (k keyMap) withError(hasError bool) keyMap {
	k.Retry.SetEnabled(hasError)
	return k
}
