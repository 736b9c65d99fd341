package httpapi

import (
	"encoding/json"
	"net/http"

	"userdash/internal/domain"
	"userdash/internal/users"
)

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error string `json:"error"`
}

// UsersResponse is one page of users as served by GET /api/users
type UsersResponse struct {
	Query   QueryJSON  `json:"query"`
	Info    InfoJSON   `json:"info"`
	Results []UserJSON `json:"results"`
}

// QueryJSON echoes the normalized query the page was fetched for
type QueryJSON struct {
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
	Search   string `json:"search,omitempty"`
}

type InfoJSON struct {
	Total      int    `json:"total"`
	Page       int    `json:"page"`
	PerPage    int    `json:"perPage"`
	TotalPages int    `json:"totalPages"`
	Seed       string `json:"seed"`
}

// UserJSON is a user record. Key is unique within the page.
type UserJSON struct {
	Key     string `json:"key"`
	Name    string `json:"name"`
	Title   string `json:"title,omitempty"`
	Gender  string `json:"gender,omitempty"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	City    string `json:"city"`
	State   string `json:"state,omitempty"`
	Country string `json:"country"`
	Address string `json:"address"`
	Picture string `json:"picture,omitempty"`
	IDName  string `json:"idName,omitempty"`
	IDValue string `json:"idValue,omitempty"`
}

// NewUsersResponse converts a fetched page for the wire
func NewUsersResponse(q domain.QueryState, result domain.PaginatedResult) UsersResponse {
	keys := users.RowKeys(result.Users)
	out := UsersResponse{
		Query: QueryJSON{Page: q.Page, PageSize: q.PageSize, Search: q.Search},
		Info: InfoJSON{
			Total:      result.Info.Total,
			Page:       result.Info.Page,
			PerPage:    result.Info.PerPage,
			TotalPages: result.Info.TotalPages,
			Seed:       result.Info.Seed,
		},
		Results: make([]UserJSON, 0, len(result.Users)),
	}
	for i, u := range result.Users {
		out.Results = append(out.Results, UserJSON{
			Key:     keys[i],
			Name:    u.DisplayName(),
			Title:   u.Name.Title,
			Gender:  u.Gender,
			Email:   u.Email,
			Phone:   u.Phone,
			City:    u.Location.City,
			State:   u.Location.State,
			Country: u.Location.Country,
			Address: u.Address(),
			Picture: u.Picture.Medium,
			IDName:  u.ID.Name,
			IDValue: u.ID.Value,
		})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
