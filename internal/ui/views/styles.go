package views

import (
	"github.com/charmbracelet/lipgloss"

	"userdash/internal/domain"
)

// Palette is the set of colours a theme is built from
type Palette struct {
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color
	Border    lipgloss.Color
	Selection lipgloss.Color
	Error     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Key       lipgloss.Color
}

var (
	lightPalette = Palette{
		Accent:    lipgloss.Color("27"),
		Text:      lipgloss.Color("235"),
		Muted:     lipgloss.Color("244"),
		Border:    lipgloss.Color("250"),
		Selection: lipgloss.Color("153"),
		Error:     lipgloss.Color("160"),
		Success:   lipgloss.Color("28"),
		Warning:   lipgloss.Color("166"),
		Key:       lipgloss.Color("130"),
	}
	darkPalette = Palette{
		Accent:    lipgloss.Color("99"),
		Text:      lipgloss.Color("252"),
		Muted:     lipgloss.Color("241"),
		Border:    lipgloss.Color("238"),
		Selection: lipgloss.Color("238"),
		Error:     lipgloss.Color("203"),
		Success:   lipgloss.Color("78"),
		Warning:   lipgloss.Color("214"),
		Key:       lipgloss.Color("220"),
	}
)

// PaletteFor returns the colours of a theme
func PaletteFor(mode domain.ThemeMode) Palette {
	if mode == domain.ThemeDark {
		return darkPalette
	}
	return lightPalette
}

// Styles contains all the style definitions for the UI
type Styles struct {
	Mode    domain.ThemeMode
	Palette Palette

	Title         lipgloss.Style
	Dim           lipgloss.Style
	Text          lipgloss.Style
	Label         lipgloss.Style
	Key           lipgloss.Style
	Section       lipgloss.Style
	Search        lipgloss.Style
	SearchFocused lipgloss.Style
	Header        lipgloss.Style
	Cell          lipgloss.Style
	Selected      lipgloss.Style
	Footer        lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	Popup         lipgloss.Style
	Form          lipgloss.Style
	FieldError    lipgloss.Style
	StatusError   lipgloss.Style
	StatusLoading lipgloss.Style
	StatusSuccess lipgloss.Style
	StatusWarning lipgloss.Style
}

// NewStyles builds the styles for a theme
func NewStyles(mode domain.ThemeMode) *Styles {
	p := PaletteFor(mode)
	return &Styles{
		Mode:    mode,
		Palette: p,
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Accent),
		Dim:   lipgloss.NewStyle().Foreground(p.Muted),
		Text:  lipgloss.NewStyle().Foreground(p.Text),
		Label: lipgloss.NewStyle().Bold(true).Foreground(p.Text),
		Key:   lipgloss.NewStyle().Foreground(p.Key),
		Section: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Accent).
			MarginTop(1),
		Search: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 1),
		SearchFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Accent).
			Padding(0, 1),
		Header:   lipgloss.NewStyle().Bold(true).Foreground(p.Accent).Padding(0, 1),
		Cell:     lipgloss.NewStyle().Foreground(p.Text).Padding(0, 1),
		Selected: lipgloss.NewStyle().Foreground(p.Text).Background(p.Selection).Bold(true).Padding(0, 1),
		Footer:   lipgloss.NewStyle().Foreground(p.Muted).MarginTop(1),
		Help:     lipgloss.NewStyle().Foreground(p.Muted).Faint(true),
		Main:     lipgloss.NewStyle().Padding(1, 2),
		Popup: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Accent).
			Padding(1, 2),
		Form: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(1, 2),
		FieldError:    lipgloss.NewStyle().Foreground(p.Error),
		StatusError:   lipgloss.NewStyle().Foreground(p.Error),
		StatusLoading: lipgloss.NewStyle().Foreground(p.Muted),
		StatusSuccess: lipgloss.NewStyle().Foreground(p.Success),
		StatusWarning: lipgloss.NewStyle().Foreground(p.Warning),
	}
}
