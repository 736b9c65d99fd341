package views

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"userdash/internal/domain"
)

// UserColumns are the table headings, in display order
var UserColumns = []string{"Name", "Email", "City", "Country"}

// UserRow returns the cells of one table row
func UserRow(u domain.User) []string {
	return []string{u.FullName(), u.Email, u.Location.City, u.Location.Country}
}

// TableRenderer draws the users table
type TableRenderer struct {
	styles *Styles
}

// NewTableRenderer creates a new table renderer
func NewTableRenderer(styles *Styles) *TableRenderer {
	return &TableRenderer{styles: styles}
}

// Render draws users with the row at selected highlighted. A negative
// selected highlights nothing. width <= 0 lets the table size itself.
func (tr *TableRenderer) Render(users []domain.User, selected, width int) string {
	rows := make([][]string, len(users))
	for i, u := range users {
		rows[i] = UserRow(u)
	}

	s := tr.styles
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(s.Palette.Border)).
		BorderRow(false).
		Headers(UserColumns...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return s.Header
			case row == selected:
				return s.Selected
			default:
				return s.Cell
			}
		})
	if width > 0 {
		t = t.Width(width)
	}
	return t.Render()
}
