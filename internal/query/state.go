package query

import (
	"net/url"
	"strconv"
	"strings"

	"userdash/internal/domain"
)

// DefaultPageSize is used when a query carries no usable page size
const DefaultPageSize = 10

// Normalize clamps a query state to its invariants: page >= 1, page size > 0,
// and a trimmed search term where whitespace-only means absent.
func Normalize(q domain.QueryState, defaultPageSize int) domain.QueryState {
	if defaultPageSize <= 0 {
		defaultPageSize = DefaultPageSize
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = defaultPageSize
	}
	q.Search = strings.TrimSpace(q.Search)
	return q
}

// WithSearch is the transition for a new search term. The page always resets to 1.
func WithSearch(q domain.QueryState, term string) domain.QueryState {
	return domain.QueryState{
		Page:     1,
		PageSize: q.PageSize,
		Search:   strings.TrimSpace(term),
	}
}

// WithPage is the transition for pagination controls. The search term is kept.
func WithPage(q domain.QueryState, page, pageSize int) domain.QueryState {
	return domain.QueryState{
		Page:     page,
		PageSize: pageSize,
		Search:   q.Search,
	}
}

// Encode renders a query state the way it would appear in a URL query string.
// An absent search term is omitted.
func Encode(q domain.QueryState) string {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("pageSize", strconv.Itoa(q.PageSize))
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	return v.Encode()
}

// Parse reads a query string. Like a lenient route schema it never fails on
// bad values: an invalid page becomes 1 and an invalid page size the default.
func Parse(raw string, defaultPageSize int) domain.QueryState {
	raw = strings.TrimPrefix(strings.TrimSpace(raw), "?")
	values, err := url.ParseQuery(raw)
	if err != nil {
		values = url.Values{}
	}
	return FromValues(values, defaultPageSize)
}

// FromValues reads a query state out of already parsed URL values
func FromValues(values url.Values, defaultPageSize int) domain.QueryState {
	q := domain.QueryState{
		Page:     positiveInt(values.Get("page"), 1),
		PageSize: positiveInt(values.Get("pageSize"), defaultPageSize),
		Search:   values.Get("search"),
	}
	return Normalize(q, defaultPageSize)
}

func positiveInt(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
