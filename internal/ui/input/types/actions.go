package types

// Row navigation
type NavigateAction struct {
	Direction string // "up", "down", "home", "end"
}

func (a NavigateAction) Type() string { return "navigate" }

// Pagination actions
type PageAction struct {
	Delta int
}

func (a PageAction) Type() string { return "page" }

type PageSizeAction struct {
	Delta int // steps through the configured page size options
}

func (a PageSizeAction) Type() string { return "page_size" }

type HistoryAction struct {
	Forward bool
}

func (a HistoryAction) Type() string { return "history" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

type SubmitTextAction struct {
	Text string
	Mode Mode
}

func (a SubmitTextAction) Type() string { return "submit_text" }

type CancelTextAction struct{}

func (a CancelTextAction) Type() string { return "cancel_text" }

type ClearSearchAction struct{}

func (a ClearSearchAction) Type() string { return "clear_search" }

// Command actions
type RetryAction struct{}

func (a RetryAction) Type() string { return "retry" }

type ToggleThemeAction struct{}

func (a ToggleThemeAction) Type() string { return "toggle_theme" }

type OpenProfileAction struct{}

func (a OpenProfileAction) Type() string { return "open_profile" }

type LogoutAction struct{}

func (a LogoutAction) Type() string { return "logout" }

type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

type QuitAction struct {
	Force bool // true for Ctrl+C, false for 'q'
}

func (a QuitAction) Type() string { return "quit" }
