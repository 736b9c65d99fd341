package ui

import (
	"errors"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"userdash/internal/auth"
	"userdash/internal/ui/views"
	"userdash/internal/validation"
)

// loginForm is the sign-in screen: an email and a password input
type loginForm struct {
	email      textinput.Model
	password   textinput.Model
	focus      int
	submitting bool
	errs       validation.FieldErrors
	failure    string
}

func newLoginForm() *loginForm {
	email := textinput.New()
	email.Placeholder = "you@example.com"
	email.CharLimit = 254
	email.Prompt = "> "

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 128
	password.Prompt = "> "

	f := &loginForm{email: email, password: password}
	f.email.Focus()
	return f
}

func (f *loginForm) inputs() []*textinput.Model {
	return []*textinput.Model{&f.email, &f.password}
}

func (f *loginForm) setFocus(i int) tea.Cmd {
	inputs := f.inputs()
	f.focus = (i + len(inputs)) % len(inputs)
	for j, in := range inputs {
		if j == f.focus {
			in.Focus()
		} else {
			in.Blur()
		}
	}
	return textinput.Blink
}

func (f *loginForm) credentials() auth.Credentials {
	return auth.Credentials{Email: f.email.Value(), Password: f.password.Value()}
}

// Update handles a key. It reports true when the form should be submitted.
func (f *loginForm) Update(msg tea.KeyMsg) (bool, tea.Cmd) {
	if f.submitting {
		return false, nil
	}
	switch msg.String() {
	case "tab", "down":
		return false, f.setFocus(f.focus + 1)
	case "shift+tab", "up":
		return false, f.setFocus(f.focus - 1)
	case "enter":
		if f.focus == 0 && f.password.Value() == "" {
			return false, f.setFocus(1)
		}
		return true, nil
	}

	var cmd tea.Cmd
	in := f.inputs()[f.focus]
	*in, cmd = in.Update(msg)
	return false, cmd
}

// Blink forwards cursor messages to the focused input
func (f *loginForm) Blink(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	in := f.inputs()[f.focus]
	*in, cmd = in.Update(msg)
	return cmd
}

// Result applies the outcome of a sign-in attempt
func (f *loginForm) Result(err error) {
	f.submitting = false
	f.errs = nil
	f.failure = ""
	if err == nil {
		f.password.Reset()
		return
	}
	if fields := validation.Fields(err); fields != nil {
		f.errs = fields
		return
	}
	if errors.Is(err, auth.ErrInvalidCredentials) {
		f.failure = err.Error()
		return
	}
	f.failure = "sign-in failed: " + err.Error()
}

// Reset clears the form for the next sign-in
func (f *loginForm) Reset() {
	f.email.Reset()
	f.password.Reset()
	f.errs = nil
	f.failure = ""
	f.submitting = false
	f.setFocus(0)
}

func (f *loginForm) viewState(width, height int, spinner string) views.FormState {
	return views.FormState{
		Width:  width,
		Height: height,
		Title:  "Sign in to userdash",
		Fields: []views.FormField{
			{Label: "Email", Input: f.email.View(), Error: f.errs["email"]},
			{Label: "Password", Input: f.password.View(), Error: f.errs["password"]},
		},
		Busy:    f.submitting,
		Spinner: spinner,
		BusyMsg: "Signing in...",
		Status:  f.failure,
		IsError: f.failure != "",
		Hint:    "tab switch field • enter sign in • ctrl+c quit",
	}
}
