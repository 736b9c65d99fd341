package ui

import (
	"userdash/internal/domain"
	"userdash/internal/eventbus"
	"userdash/internal/users"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// usersLoadedMsg carries a resolved fetch back to the model
type usersLoadedMsg struct {
	outcome users.Outcome
}

// loginResultMsg is the answer of a sign-in attempt
type loginResultMsg struct {
	err error
}

// profileSavedMsg is the answer of a profile save
type profileSavedMsg struct {
	profile domain.Profile
	err     error
}

// helpPagerMsg contains the result of a help pager command
type helpPagerMsg struct {
	err error
}

// clearStatusMsg clears the status line
type clearStatusMsg struct {
	seq int
}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}
