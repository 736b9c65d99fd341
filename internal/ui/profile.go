package ui

import (
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"userdash/internal/domain"
	"userdash/internal/profile"
	"userdash/internal/ui/views"
	"userdash/internal/validation"
)

// profileField describes one input of the profile form. key matches the
// field names used in validation errors.
type profileField struct {
	key     string
	label   string
	numeric bool
}

var profileFields = []profileField{
	{key: "name", label: "Name"},
	{key: "phone", label: "Phone"},
	{key: "address", label: "Address"},
	{key: "jobTitle", label: "Job title"},
	{key: "yearsOfExperience", label: "Years of experience", numeric: true},
	{key: "workingHours", label: "Working hours per week", numeric: true},
}

const notANumber = "must be a number"

// profileForm edits the signed-in user's profile
type profileForm struct {
	inputs  []textinput.Model
	focus   int
	email   string
	saving  bool
	errs    validation.FieldErrors
	status  string
	isError bool
}

func newProfileForm(p domain.Profile) *profileForm {
	values := []string{
		p.Name,
		p.Phone,
		p.Address,
		p.JobTitle,
		strconv.Itoa(p.YearsOfExperience),
		strconv.Itoa(p.WorkingHours),
	}

	f := &profileForm{email: p.Email}
	for i, field := range profileFields {
		in := textinput.New()
		in.Prompt = "> "
		in.CharLimit = 120
		if field.numeric {
			in.CharLimit = 3
		}
		in.SetValue(values[i])
		f.inputs = append(f.inputs, in)
	}
	f.setFocus(0)
	return f
}

func (f *profileForm) setFocus(i int) tea.Cmd {
	f.focus = (i + len(f.inputs)) % len(f.inputs)
	for j := range f.inputs {
		if j == f.focus {
			f.inputs[j].Focus()
			f.inputs[j].CursorEnd()
		} else {
			f.inputs[j].Blur()
		}
	}
	return textinput.Blink
}

// Profile reads the form. Numeric fields that do not parse are reported as
// field errors keyed like validation errors.
func (f *profileForm) Profile() (domain.Profile, validation.FieldErrors) {
	value := func(i int) string { return strings.TrimSpace(f.inputs[i].Value()) }

	errs := validation.FieldErrors{}
	number := func(i int) int {
		n, err := strconv.Atoi(value(i))
		if err != nil {
			errs[profileFields[i].key] = notANumber
		}
		return n
	}

	p := domain.Profile{
		Name:              value(0),
		Email:             f.email,
		Phone:             value(1),
		Address:           value(2),
		JobTitle:          value(3),
		YearsOfExperience: number(4),
		WorkingHours:      number(5),
	}
	if len(errs) == 0 {
		return p, nil
	}
	return p, errs
}

// profileKey is what the profile form asks of the model
type profileKey int

const (
	profileKeyNone profileKey = iota
	profileKeySubmit
	profileKeyBack
)

func (f *profileForm) Update(msg tea.KeyMsg) (profileKey, tea.Cmd) {
	if f.saving {
		return profileKeyNone, nil
	}
	switch msg.String() {
	case "esc":
		return profileKeyBack, nil
	case "tab", "down":
		return profileKeyNone, f.setFocus(f.focus + 1)
	case "shift+tab", "up":
		return profileKeyNone, f.setFocus(f.focus - 1)
	case "enter", "ctrl+s":
		return profileKeySubmit, nil
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return profileKeyNone, cmd
}

// Blink forwards cursor messages to the focused input
func (f *profileForm) Blink(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// Invalid shows field errors found before saving
func (f *profileForm) Invalid(errs validation.FieldErrors) {
	f.errs = errs
	f.status = ""
	f.isError = false
}

// Result applies the outcome of a save
func (f *profileForm) Result(err error) {
	f.saving = false
	f.errs = nil
	switch {
	case err == nil:
		f.status = "Profile updated successfully"
		f.isError = false
	case validation.Fields(err) != nil:
		f.errs = validation.Fields(err)
		f.status = ""
	case errors.Is(err, profile.ErrSaveFailed):
		f.status = err.Error()
		f.isError = true
	default:
		f.status = "failed to save profile: " + err.Error()
		f.isError = true
	}
}

func (f *profileForm) viewState(width, height int, spinner string) views.FormState {
	fields := make([]views.FormField, len(f.inputs))
	for i, in := range f.inputs {
		fields[i] = views.FormField{
			Label: profileFields[i].label,
			Input: in.View(),
			Error: f.errs[profileFields[i].key],
		}
	}
	title := "Profile"
	if f.email != "" {
		title += " · " + f.email
	}
	return views.FormState{
		Width:   width,
		Height:  height,
		Title:   title,
		Fields:  fields,
		Busy:    f.saving,
		Spinner: spinner,
		BusyMsg: "Saving...",
		Status:  f.status,
		IsError: f.isError,
		Hint:    "tab next field • enter save • esc back",
	}
}
