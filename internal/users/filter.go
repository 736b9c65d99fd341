package users

import (
	"fmt"
	"strings"

	"userdash/internal/domain"
)

// FilterByName keeps users whose "first last" name contains term,
// case-insensitively. A blank term returns users unchanged.
func FilterByName(users []domain.User, term string) []domain.User {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return users
	}

	filtered := make([]domain.User, 0, len(users))
	for _, u := range users {
		if strings.Contains(strings.ToLower(u.DisplayName()), term) {
			filtered = append(filtered, u)
		}
	}
	return filtered
}

// NewPageInfo derives pagination metadata from the size of the (filtered) page
func NewPageInfo(total, page, perPage int, seed string) domain.PageInfo {
	totalPages := 0
	if perPage > 0 {
		totalPages = (total + perPage - 1) / perPage
	}
	return domain.PageInfo{
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
		Seed:       seed,
	}
}

// RowKeys returns a display key per user. Email is the natural key but the
// record source does not guarantee it is unique, so repeats on one page fall
// back to the national id and then to a positional suffix.
func RowKeys(users []domain.User) []string {
	keys := make([]string, len(users))
	seen := make(map[string]int, len(users))
	for i, u := range users {
		key := u.Email
		if _, dup := seen[key]; dup || key == "" {
			if u.ID.Value != "" {
				key = fmt.Sprintf("%s:%s", u.ID.Name, u.ID.Value)
			}
		}
		base := key
		if n, dup := seen[base]; dup {
			key = fmt.Sprintf("%s#%d", base, n+1)
		}
		seen[base]++
		keys[i] = key
	}
	return keys
}

// EstimatedTotal stands in for the total row count, which the API does not report
const EstimatedTotal = 300

// PageCount returns how many pages of pageSize the pager offers
func PageCount(pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (EstimatedTotal + pageSize - 1) / pageSize
}
