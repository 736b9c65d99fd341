package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// FormField is one labelled input of a form
type FormField struct {
	Label string
	Input string // rendered text input
	Error string
}

// FormState contains what is needed to draw the login or profile form
type FormState struct {
	Width   int
	Height  int
	Title   string
	Fields  []FormField
	Busy    bool
	Spinner string
	BusyMsg string
	Status  string
	IsError bool
	Hint    string
}

// RenderForm draws a centred form box
func (r *Renderer) RenderForm(state FormState) string {
	s := r.styles
	var b strings.Builder

	b.WriteString(s.Title.Render(state.Title))
	b.WriteString("\n")
	for _, f := range state.Fields {
		b.WriteString("\n")
		b.WriteString(s.Label.Render(f.Label))
		b.WriteString("\n")
		b.WriteString(f.Input)
		if f.Error != "" {
			b.WriteString("\n")
			b.WriteString(s.FieldError.Render(f.Error))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case state.Busy:
		b.WriteString(s.StatusLoading.Render(state.Spinner + " " + state.BusyMsg))
	case state.Status != "" && state.IsError:
		b.WriteString(s.StatusError.Render(state.Status))
	case state.Status != "":
		b.WriteString(s.StatusSuccess.Render(state.Status))
	}
	if state.Hint != "" {
		b.WriteString("\n")
		b.WriteString(s.Help.Render(state.Hint))
	}

	form := s.Form.Render(b.String())
	if state.Width <= 0 || state.Height <= 0 {
		return form
	}
	return lipgloss.Place(state.Width, state.Height, lipgloss.Center, lipgloss.Center, form)
}
