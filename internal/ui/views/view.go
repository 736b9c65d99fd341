package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"userdash/internal/domain"
)

// FetchErrorMessage is what the users screen shows when a page could not be loaded
const FetchErrorMessage = "failed to fetch users, please try again"

// LoadState is what the users table area is showing
type LoadState int

const (
	LoadLoading LoadState = iota
	LoadRefreshing
	LoadReady
	LoadFailed
)

// ViewState contains all the state needed for rendering the users screen
type ViewState struct {
	Width         int
	Height        int
	Email         string
	SearchBox     string
	SearchFocused bool
	SearchPending bool
	Search        string
	Users         []domain.User
	SelectedIndex int
	RowStart      int // window of Users drawn in the table; RowEnd 0 draws all
	RowEnd        int
	Load          LoadState
	Spinner       string
	Page          int
	TotalPages    int
	PageSize      int
	StatusMessage string
	StatusIsError bool
	ShowDetails   bool
	ConfirmLogout bool
	ShowHelp      bool
	HelpScroll    int
}

// Renderer handles all view rendering
type Renderer struct {
	styles      *Styles
	table       *TableRenderer
	popupRender *PopupRenderer
}

// NewRenderer creates a renderer for a theme
func NewRenderer(mode domain.ThemeMode) *Renderer {
	styles := NewStyles(mode)
	return &Renderer{
		styles:      styles,
		table:       NewTableRenderer(styles),
		popupRender: NewPopupRenderer(styles),
	}
}

// Styles returns the styles in use
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Render produces the complete users screen
func (r *Renderer) Render(state ViewState) string {
	content := &strings.Builder{}

	content.WriteString(r.renderTitle(state))
	content.WriteString("\n\n")

	searchStyle := r.styles.Search
	if state.SearchFocused {
		searchStyle = r.styles.SearchFocused
	}
	content.WriteString(searchStyle.Render(state.SearchBox))
	content.WriteString("\n")

	content.WriteString(r.renderBody(state))
	content.WriteString("\n")
	content.WriteString(r.styles.Footer.Render(Footer(state.Page, state.TotalPages, len(state.Users)) +
		fmt.Sprintf("  (%d per page)", state.PageSize)))
	content.WriteString("\n")

	switch {
	case state.ConfirmLogout:
		content.WriteString(r.styles.StatusWarning.Render("Sign out? (y/n)"))
	case state.StatusMessage != "" && state.StatusIsError:
		content.WriteString(r.styles.StatusError.Render(state.StatusMessage))
	case state.StatusMessage != "":
		content.WriteString(r.styles.StatusSuccess.Render(state.StatusMessage))
	default:
		content.WriteString(r.styles.Help.Render("Press ? for help"))
	}

	mainStyle := r.styles.Main
	if state.Height > 0 {
		mainStyle = mainStyle.MaxHeight(state.Height)
	}
	finalContent := mainStyle.Render(content.String())

	// Overlay popups on top of main content
	if state.ShowDetails && state.SelectedIndex >= 0 && state.SelectedIndex < len(state.Users) {
		details := r.popupRender.RenderUserDetails(state.Users[state.SelectedIndex])
		return r.popupRender.RenderPopupOverlay(finalContent, details, state.Height, state.Width)
	}
	if state.ShowHelp {
		help := r.scrollHelp(r.RenderHelp(), state.Height, state.HelpScroll)
		return r.popupRender.RenderPopupOverlay(finalContent, help, state.Height, state.Width)
	}

	return finalContent
}

// chromeLines is everything on the users screen that is not a table row:
// padding, title, gap, search box, table borders and header, footer, status
const chromeLines = 13

// TableRows is how many lines the table rows may use at a terminal height.
// 0 means unlimited.
func TableRows(height int) int {
	if height <= 0 {
		return 0
	}
	rows := height - chromeLines
	if rows < 3 {
		rows = 3
	}
	return rows
}

// Footer is the pagination line under the table
func Footer(page, totalPages, results int) string {
	return fmt.Sprintf("page %d of %d · %d results", page, totalPages, results)
}

func (r *Renderer) renderTitle(state ViewState) string {
	logo := r.styles.Title.Render("userdash")

	var right []string
	if state.Load == LoadRefreshing || (state.Load == LoadLoading && len(state.Users) > 0) {
		right = append(right, r.styles.StatusLoading.Render(state.Spinner+" Refreshing"))
	}
	if state.SearchPending {
		right = append(right, r.styles.Dim.Render("typing..."))
	}
	if state.Email != "" {
		right = append(right, r.styles.Dim.Render(state.Email))
	}
	if len(right) == 0 {
		return logo
	}

	rightContent := strings.Join(right, "  ")
	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	// Account for main container padding
	padding := termWidth - 4 - lipgloss.Width(logo) - lipgloss.Width(rightContent)
	if padding < 2 {
		padding = 2
	}
	return logo + strings.Repeat(" ", padding) + rightContent
}

func (r *Renderer) renderBody(state ViewState) string {
	switch state.Load {
	case LoadLoading:
		return r.styles.StatusLoading.Render(state.Spinner + " Loading users...")
	case LoadFailed:
		return r.styles.StatusError.Render(FetchErrorMessage) + "\n" +
			r.styles.Dim.Render("Press r to retry")
	}

	if len(state.Users) == 0 {
		if state.Search != "" {
			return r.styles.Dim.Render(fmt.Sprintf("No users match %q on this page", state.Search))
		}
		return r.styles.Dim.Render("No users found")
	}

	width := state.Width - 4
	if width < 40 {
		width = 0
	}

	start, end := state.RowStart, state.RowEnd
	if end <= 0 || end > len(state.Users) {
		end = len(state.Users)
	}
	if start < 0 || start >= end {
		start = 0
	}

	var b strings.Builder
	if start > 0 {
		b.WriteString(r.styles.Dim.Render(fmt.Sprintf("↑ %d more", start)))
		b.WriteString("\n")
	}
	b.WriteString(r.table.Render(state.Users[start:end], state.SelectedIndex-start, width))
	if below := len(state.Users) - end; below > 0 {
		b.WriteString("\n")
		b.WriteString(r.styles.Dim.Render(fmt.Sprintf("↓ %d more", below)))
	}
	return b.String()
}
