// Package logic holds UI behaviour that does not depend on rendering.
package logic

// Navigator tracks the selected row and the window of rows that fits on screen
type Navigator struct {
	selectedIndex  int
	viewportOffset int
	viewportHeight int
	total          int
}

// NewNavigator creates a new navigator
func NewNavigator() *Navigator {
	return &Navigator{}
}

// SetViewportHeight sets how many lines the rows may use, including the
// scroll indicators. 0 means unlimited.
func (n *Navigator) SetViewportHeight(height int) {
	if height < 0 {
		height = 0
	}
	n.viewportHeight = height
	n.ensureSelectedVisible()
}

// SetTotal sets the number of rows and clamps the selection to it
func (n *Navigator) SetTotal(total int) {
	if total < 0 {
		total = 0
	}
	n.total = total
	n.SetSelectedIndex(n.selectedIndex)
}

// Reset selects the first row
func (n *Navigator) Reset() {
	n.selectedIndex = 0
	n.viewportOffset = 0
}

// GetSelectedIndex returns the current selected index
func (n *Navigator) GetSelectedIndex() int {
	return n.selectedIndex
}

// GetViewportOffset returns the current viewport offset
func (n *Navigator) GetViewportOffset() int {
	return n.viewportOffset
}

// SetSelectedIndex sets the selected index and ensures it's visible
func (n *Navigator) SetSelectedIndex(index int) (int, int) {
	if index >= n.total {
		index = n.total - 1
	}
	if index < 0 {
		index = 0
	}
	n.selectedIndex = index
	n.ensureSelectedVisible()
	return n.selectedIndex, n.viewportOffset
}

// Move moves the selection: "up", "down", "home" or "end"
func (n *Navigator) Move(direction string) {
	switch direction {
	case "up":
		n.SetSelectedIndex(n.selectedIndex - 1)
	case "down":
		n.SetSelectedIndex(n.selectedIndex + 1)
	case "home":
		n.SetSelectedIndex(0)
	case "end":
		n.SetSelectedIndex(n.total - 1)
	}
}

// Window returns the rows to draw as [start, end)
func (n *Navigator) Window() (start, end int) {
	start = n.viewportOffset
	end = start + n.effectiveHeight(start)
	if end > n.total {
		end = n.total
	}
	return start, end
}

// fits reports whether every row fits without scrolling
func (n *Navigator) fits() bool {
	return n.viewportHeight == 0 || n.total <= n.viewportHeight
}

// effectiveHeight is the number of rows shown at offset once the
// "more above" and "more below" indicators take their lines
func (n *Navigator) effectiveHeight(offset int) int {
	if n.fits() {
		return n.total
	}
	height := n.viewportHeight
	if offset > 0 {
		height--
	}
	if offset+height < n.total {
		height--
	}
	if height < 1 {
		height = 1
	}
	return height
}

// ensureSelectedVisible adjusts the viewport to keep the selected item visible
func (n *Navigator) ensureSelectedVisible() {
	if n.fits() {
		n.viewportOffset = 0
		return
	}

	// The last rows are shown under a top indicator only
	maxOffset := n.total - (n.viewportHeight - 1)
	if maxOffset < 0 {
		maxOffset = 0
	}

	// If selected item is above viewport, scroll up
	if n.selectedIndex < n.viewportOffset {
		n.viewportOffset = n.selectedIndex
	}

	// If selected item is below viewport, scroll down until it shows
	for n.viewportOffset < maxOffset &&
		n.selectedIndex >= n.viewportOffset+n.effectiveHeight(n.viewportOffset) {
		n.viewportOffset++
	}

	if n.viewportOffset > maxOffset {
		n.viewportOffset = maxOffset
	}
	if n.viewportOffset < 0 {
		n.viewportOffset = 0
	}
}
