package users

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"

	"userdash/internal/domain"
)

// errMalformedPayload marks a response that decoded but lacks its envelope
var errMalformedPayload = errors.New("malformed payload")

// Global validator instance for the ingestion boundary
var validate = validator.New()

// apiResponse mirrors the random-user API envelope
type apiResponse struct {
	Results []apiUser `json:"results"`
	Info    *apiInfo  `json:"info"`
}

type apiInfo struct {
	Seed    string `json:"seed"`
	Results int    `json:"results" validate:"gte=0"`
	Page    int    `json:"page" validate:"gte=1"`
	Version string `json:"version"`
}

type apiUser struct {
	Gender   string      `json:"gender"`
	Name     apiName     `json:"name"`
	Email    string      `json:"email" validate:"required"`
	Phone    string      `json:"phone"`
	Location apiLocation `json:"location"`
	Picture  apiPicture  `json:"picture"`
	ID       apiID       `json:"id"`
}

type apiName struct {
	Title string `json:"title"`
	First string `json:"first" validate:"required_without=Last"`
	Last  string `json:"last" validate:"required_without=First"`
}

type apiLocation struct {
	Street  apiStreet `json:"street"`
	City    string    `json:"city"`
	State   string    `json:"state"`
	Country string    `json:"country"`
}

type apiStreet struct {
	Number flexInt `json:"number"`
	Name   string  `json:"name"`
}

type apiPicture struct {
	Large     string `json:"large"`
	Medium    string `json:"medium"`
	Thumbnail string `json:"thumbnail"`
}

type apiID struct {
	Name  string  `json:"name"`
	Value *string `json:"value"`
}

// flexInt accepts a JSON number or a numeric string
type flexInt int

func (n *flexInt) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = 0
		return nil
	}
	var i int
	if err := json.Unmarshal(data, &i); err == nil {
		*n = flexInt(i)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("street number: %w", err)
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("street number %q: %w", s, err)
	}
	*n = flexInt(i)
	return nil
}

// decodeResponse parses and validates a response body. Invalid records are
// returned separately so the caller can log them; a missing envelope fails.
func decodeResponse(body []byte) (users []domain.User, info apiInfo, rejected []error, err error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, apiInfo{}, nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.Results == nil {
		return nil, apiInfo{}, nil, fmt.Errorf("%w: missing results", errMalformedPayload)
	}
	if resp.Info == nil {
		return nil, apiInfo{}, nil, fmt.Errorf("%w: missing info", errMalformedPayload)
	}
	if err := validate.Struct(resp.Info); err != nil {
		return nil, apiInfo{}, nil, fmt.Errorf("%w: info: %v", errMalformedPayload, err)
	}

	users = make([]domain.User, 0, len(resp.Results))
	for i, u := range resp.Results {
		if err := validate.Struct(u); err != nil {
			rejected = append(rejected, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		users = append(users, u.toDomain())
	}
	return users, *resp.Info, rejected, nil
}

func (u apiUser) toDomain() domain.User {
	idValue := ""
	if u.ID.Value != nil {
		idValue = *u.ID.Value
	}
	return domain.User{
		Gender: u.Gender,
		Name: domain.Name{
			Title: u.Name.Title,
			First: u.Name.First,
			Last:  u.Name.Last,
		},
		Email: u.Email,
		Phone: u.Phone,
		Location: domain.Location{
			Street: domain.Street{
				Number: int(u.Location.Street.Number),
				Name:   u.Location.Street.Name,
			},
			City:    u.Location.City,
			State:   u.Location.State,
			Country: u.Location.Country,
		},
		Picture: domain.Picture{
			Large:     u.Picture.Large,
			Medium:    u.Picture.Medium,
			Thumbnail: u.Picture.Thumbnail,
		},
		ID: domain.Identity{
			Name:  u.ID.Name,
			Value: idValue,
		},
	}
}
