package views

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"userdash/internal/domain"
)

// PopupRenderer handles popup/modal rendering
type PopupRenderer struct {
	styles *Styles
}

// NewPopupRenderer creates a new popup renderer
func NewPopupRenderer(styles *Styles) *PopupRenderer {
	return &PopupRenderer{
		styles: styles,
	}
}

// RenderPopupOverlay draws the popup centred on top of the main content.
// The content underneath is kept but greyed out.
func (pr *PopupRenderer) RenderPopupOverlay(mainContent, popupContent string, height, width int) string {
	styledPopup := pr.styles.Popup.Render(popupContent)

	modalW := lipgloss.Width(styledPopup)
	modalH := lipgloss.Height(styledPopup)
	if width <= 0 {
		width = lipgloss.Width(mainContent)
	}
	if height <= 0 {
		height = lipgloss.Height(mainContent)
	}

	base := strings.Split(desaturateANSI(mainContent, pr.styles.Palette.Muted), "\n")
	for len(base) < height {
		base = append(base, "")
	}

	x := (width - modalW) / 2
	if x < 0 {
		x = 0
	}
	y := (height - modalH) / 2
	if y < 0 {
		y = 0
	}

	dim := lipgloss.NewStyle().Foreground(pr.styles.Palette.Muted)
	for i, line := range strings.Split(styledPopup, "\n") {
		row := y + i
		for row >= len(base) {
			base = append(base, "")
		}
		plain := ansiRE.ReplaceAllString(base[row], "")
		left, right := cutAround(plain, x, lipgloss.Width(line))
		base[row] = dim.Render(left) + line + dim.Render(right)
	}
	return strings.Join(base, "\n")
}

// RenderUserDetails formats the details popup body for one user
func (pr *PopupRenderer) RenderUserDetails(u domain.User) string {
	var b strings.Builder
	b.WriteString(pr.styles.Title.Render(u.FullName()))
	b.WriteString("\n\n")

	rows := [][2]string{
		{"Email", u.Email},
		{"Phone", u.Phone},
		{"Gender", u.Gender},
		{"Address", u.Address()},
	}
	if u.ID.Value != "" {
		rows = append(rows, [2]string{"ID", fmt.Sprintf("%s %s", u.ID.Name, u.ID.Value)})
	}
	if u.Picture.Large != "" {
		rows = append(rows, [2]string{"Picture", u.Picture.Large})
	}
	for _, r := range rows {
		b.WriteString(pr.styles.Label.Render(fmt.Sprintf("%-8s", r[0])))
		b.WriteString("  ")
		b.WriteString(pr.styles.Text.Render(r[1]))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(pr.styles.Help.Render("esc close  ↑/↓ previous/next user"))
	return b.String()
}

// ANSI escape sequence regex to strip styles/colors
var ansiRE = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// desaturateANSI strips ANSI color/style codes and recolors text
func desaturateANSI(s string, c lipgloss.Color) string {
	plain := ansiRE.ReplaceAllString(s, "")
	lines := strings.Split(plain, "\n")
	style := lipgloss.NewStyle().Foreground(c)
	for i, l := range lines {
		if l != "" {
			lines[i] = style.Render(l)
		}
	}
	return strings.Join(lines, "\n")
}

// cutAround returns the parts of a plain line left of column x and right of x+w
func cutAround(line string, x, w int) (string, string) {
	left := runewidth.Truncate(line, x, "")
	if pad := x - runewidth.StringWidth(left); pad > 0 {
		left += strings.Repeat(" ", pad)
	}

	col := 0
	for i, r := range line {
		if col >= x+w {
			return left, line[i:]
		}
		col += runewidth.RuneWidth(r)
	}
	return left, ""
}
