package domain

import (
	"fmt"
	"strings"
)

// QueryState is the page/pageSize/search triple that parameterizes the current fetch.
// Search is "" when absent.
type QueryState struct {
	Page     int
	PageSize int
	Search   string
}

// Key returns the key triple identifying which fetch result is current
func (q QueryState) Key() QueryKey {
	return QueryKey{Page: q.Page, PageSize: q.PageSize, Search: q.Search}
}

// QueryKey identifies a fetch. Two fetches with equal keys are interchangeable.
type QueryKey struct {
	Page     int
	PageSize int
	Search   string
}

func (k QueryKey) String() string {
	return fmt.Sprintf("page=%d size=%d search=%q", k.Page, k.PageSize, k.Search)
}

// User represents a user record as delivered by the record source
type User struct {
	Gender   string
	Name     Name
	Email    string
	Phone    string
	Location Location
	Picture  Picture
	ID       Identity
}

// Name holds the parts of a user's name
type Name struct {
	Title string
	First string
	Last  string
}

// Location represents a postal location
type Location struct {
	Street  Street
	City    string
	State   string
	Country string
}

// Street is the street part of a location
type Street struct {
	Number int
	Name   string
}

// Picture holds avatar URLs in three sizes
type Picture struct {
	Large     string
	Medium    string
	Thumbnail string
}

// Identity is a national identifier; Value may be empty
type Identity struct {
	Name  string
	Value string
}

// DisplayName returns "first last", the string name searches match against
func (u User) DisplayName() string {
	return u.Name.First + " " + u.Name.Last
}

// FullName returns the name including its title
func (u User) FullName() string {
	return strings.TrimSpace(fmt.Sprintf("%s %s %s", u.Name.Title, u.Name.First, u.Name.Last))
}

// Address formats the user's location on one line
func (u User) Address() string {
	l := u.Location
	return fmt.Sprintf("%d %s, %s, %s, %s", l.Street.Number, l.Street.Name, l.City, l.State, l.Country)
}

// PageInfo is the pagination metadata for one fetched page
type PageInfo struct {
	Total      int
	Page       int
	PerPage    int
	TotalPages int
	Seed       string
}

// PaginatedResult is one page of users with its metadata
type PaginatedResult struct {
	Users []User
	Info  PageInfo
}

// Profile is the locally edited profile of the signed-in user
type Profile struct {
	Name              string `toml:"name" json:"name" validate:"required,min=2"`
	Email             string `toml:"email" json:"email"`
	Phone             string `toml:"phone" json:"phone" validate:"required,phone"`
	Address           string `toml:"address" json:"address" validate:"required"`
	JobTitle          string `toml:"job_title" json:"jobTitle" validate:"required"`
	YearsOfExperience int    `toml:"years_of_experience" json:"yearsOfExperience" validate:"gte=0,lte=99"`
	WorkingHours      int    `toml:"working_hours" json:"workingHours" validate:"gte=1,lte=168"`
}

// ThemeMode is the dashboard colour scheme
type ThemeMode string

const (
	ThemeLight ThemeMode = "light"
	ThemeDark  ThemeMode = "dark"
)

// Toggle returns the opposite theme
func (t ThemeMode) Toggle() ThemeMode {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// ParseThemeMode accepts "light" or "dark"; anything else yields ThemeLight and false
func ParseThemeMode(s string) (ThemeMode, bool) {
	switch ThemeMode(strings.ToLower(strings.TrimSpace(s))) {
	case ThemeDark:
		return ThemeDark, true
	case ThemeLight:
		return ThemeLight, true
	default:
		return ThemeLight, false
	}
}
