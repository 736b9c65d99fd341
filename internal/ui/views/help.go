package views

import (
	"fmt"
	"strings"
)

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
		{"↑/↓, j/k", "Move between users"},
		{"g/G", "First/last user on the page"},
		{"Enter, i", "Show user details"},
	}},
	{"Pages", []helpEntry{
		{"←/→, h/l", "Previous/next page"},
		{"+/-", "More/fewer users per page"},
		{"[/]", "Back/forward through earlier queries"},
	}},
	{"Search", []helpEntry{
		{"/", "Search by name"},
		{"Enter", "Search now"},
		{"Esc", "Leave the search box, press again to clear the search"},
	}},
	{"Other", []helpEntry{
		{"r", "Retry after a failed load"},
		{"t", "Toggle light/dark theme"},
		{"p", "Edit your profile"},
		{"L", "Sign out"},
		{"?", "Toggle this help"},
		{"q", "Quit"},
	}},
}

// RenderHelp renders the key reference
func (r *Renderer) RenderHelp() string {
	s := r.styles
	var help strings.Builder

	help.WriteString(s.Title.Render("userdash help"))
	help.WriteString("\n")

	for i, section := range helpSections {
		help.WriteString(s.Section.Render(section.title))
		help.WriteString("\n")
		for j, e := range section.entries {
			help.WriteString(fmt.Sprintf("  %s  %s", s.Key.Render(fmt.Sprintf("%-10s", e.keys)), s.Text.Render(e.desc)))
			if i < len(helpSections)-1 || j < len(section.entries)-1 {
				help.WriteString("\n")
			}
		}
	}
	return help.String()
}

// scrollHelp cuts the help to the visible window, marking hidden lines
func (r *Renderer) scrollHelp(content string, height, scrollOffset int) string {
	lines := strings.Split(content, "\n")
	totalLines := len(lines)

	// Account for popup border and padding
	visibleHeight := height - 6
	if visibleHeight < 5 {
		visibleHeight = 5
	}
	if totalLines <= visibleHeight {
		return content
	}

	maxOffset := totalLines - visibleHeight
	if scrollOffset > maxOffset {
		scrollOffset = maxOffset
	}
	if scrollOffset < 0 {
		scrollOffset = 0
	}
	endLine := scrollOffset + visibleHeight
	lines = lines[scrollOffset:endLine]

	if scrollOffset > 0 {
		lines[0] = r.styles.Dim.Render("↑ (more above)")
	}
	if endLine < totalLines {
		lines[len(lines)-1] = r.styles.Dim.Render("↓ (more below)")
	}
	return strings.Join(lines, "\n")
}
