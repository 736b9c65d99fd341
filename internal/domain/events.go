package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventQueryChanged  EventType = "QueryChanged"
	EventUsersFetched  EventType = "UsersFetched"
	EventFetchFailed   EventType = "FetchFailed"
	EventLoggedIn      EventType = "LoggedIn"
	EventLoggedOut     EventType = "LoggedOut"
	EventProfileSaved  EventType = "ProfileSaved"
	EventThemeChanged  EventType = "ThemeChanged"
	EventConfigLoaded  EventType = "ConfigLoaded"
	EventConfigChanged EventType = "ConfigChanged"
	EventError         EventType = "Error"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// QueryChangedEvent is emitted when the query state is replaced
type QueryChangedEvent struct {
	Previous QueryState
	Current  QueryState
}

func (e QueryChangedEvent) Type() EventType { return EventQueryChanged }

// SearchChanged reports whether the transition changed the search term
func (e QueryChangedEvent) SearchChanged() bool {
	return e.Previous.Search != e.Current.Search
}

// UsersFetchedEvent is emitted when a fetch for the current key resolves
type UsersFetchedEvent struct {
	Key    QueryKey
	Result PaginatedResult
}

func (e UsersFetchedEvent) Type() EventType { return EventUsersFetched }

// FetchFailedEvent is emitted when a fetch for the current key fails
type FetchFailedEvent struct {
	Key QueryKey
	Err error
}

func (e FetchFailedEvent) Type() EventType { return EventFetchFailed }

// LoggedInEvent is emitted after a successful mock sign-in
type LoggedInEvent struct {
	Email string
}

func (e LoggedInEvent) Type() EventType { return EventLoggedIn }

// LoggedOutEvent is emitted when the session is cleared
type LoggedOutEvent struct{}

func (e LoggedOutEvent) Type() EventType { return EventLoggedOut }

// ProfileSavedEvent is emitted after the simulated profile save succeeds
type ProfileSavedEvent struct {
	Profile Profile
}

func (e ProfileSavedEvent) Type() EventType { return EventProfileSaved }

// ThemeChangedEvent is emitted when the theme is toggled
type ThemeChangedEvent struct {
	Mode ThemeMode
}

func (e ThemeChangedEvent) Type() EventType { return EventThemeChanged }

// ConfigLoadedEvent is emitted when configuration is read
type ConfigLoadedEvent struct {
	Path string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigChangedEvent is emitted when configuration has been saved
type ConfigChangedEvent struct {
	Path string
}

func (e ConfigChangedEvent) Type() EventType { return EventConfigChanged }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }
