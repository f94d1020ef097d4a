package logic

// Navigator handles navigation and viewport management over a flat list
type Navigator struct {
	selectedIndex  int
	viewportOffset int
	viewportHeight int
	totalItems     int
}

// NewNavigator creates a new navigator
func NewNavigator() *Navigator {
	return &Navigator{}
}

// UpdateState updates the navigator's state
func (n *Navigator) UpdateState(selectedIndex, viewportOffset, viewportHeight, totalItems int) {
	n.selectedIndex = selectedIndex
	n.viewportOffset = viewportOffset
	n.viewportHeight = viewportHeight
	n.totalItems = totalItems
}

// SelectedIndex returns the current selected index
func (n *Navigator) SelectedIndex() int {
	return n.selectedIndex
}

// ViewportOffset returns the current viewport offset
func (n *Navigator) ViewportOffset() int {
	return n.viewportOffset
}

// SetSelectedIndex sets the selected index and ensures it's visible
func (n *Navigator) SetSelectedIndex(index int) (int, int) {
	n.selectedIndex = index
	n.clamp()
	n.ensureSelectedVisible()
	return n.selectedIndex, n.viewportOffset
}

// Move applies a named navigation step
func (n *Navigator) Move(direction string) (int, int) {
	page := n.viewportHeight - 1
	if page < 1 {
		page = 1
	}
	switch direction {
	case "up":
		return n.SetSelectedIndex(n.selectedIndex - 1)
	case "down":
		return n.SetSelectedIndex(n.selectedIndex + 1)
	case "pageup":
		return n.SetSelectedIndex(n.selectedIndex - page)
	case "pagedown":
		return n.SetSelectedIndex(n.selectedIndex + page)
	case "home":
		return n.SetSelectedIndex(0)
	case "end":
		return n.SetSelectedIndex(n.totalItems - 1)
	}
	return n.selectedIndex, n.viewportOffset
}

// MaxIndex returns the maximum selectable index
func (n *Navigator) MaxIndex() int {
	return n.totalItems - 1
}

func (n *Navigator) clamp() {
	if n.selectedIndex > n.MaxIndex() {
		n.selectedIndex = n.MaxIndex()
	}
	if n.selectedIndex < 0 {
		n.selectedIndex = 0
	}
}

// ensureSelectedVisible adjusts the viewport to keep the selected item visible
func (n *Navigator) ensureSelectedVisible() {
	// If selected item is above viewport, scroll up
	if n.selectedIndex < n.viewportOffset {
		n.viewportOffset = n.selectedIndex
	}

	// Determine if we'll have scroll indicators
	needsTopIndicator := n.viewportOffset > 0
	needsBottomIndicator := n.viewportOffset+n.viewportHeight < n.totalItems

	// Calculate effective visible area
	effectiveHeight := n.viewportHeight
	if needsTopIndicator {
		effectiveHeight--
	}
	if needsBottomIndicator {
		effectiveHeight--
	}

	// Ensure we have at least 1 line for content
	if effectiveHeight < 1 {
		effectiveHeight = 1
	}

	// If selected item is below effective viewport, scroll down
	if n.selectedIndex >= n.viewportOffset+effectiveHeight {
		n.viewportOffset = n.selectedIndex - effectiveHeight + 1
	}

	// The maximum offset should ensure we can still fill the viewport
	maxOffset := n.totalItems - effectiveHeight
	if maxOffset < 0 {
		maxOffset = 0
	}
	if n.viewportOffset > maxOffset {
		n.viewportOffset = maxOffset
	}
	if n.viewportOffset < 0 {
		n.viewportOffset = 0
	}
}
