// Package users fetches pages of user records from the random-user API and
// narrows them by name.
package users

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"userdash/internal/domain"
)

// DefaultBaseURL is the public random-user endpoint
const DefaultBaseURL = "https://randomuser.me/api/"

// includedFields limits the API response to what the dashboard renders
const includedFields = "gender,name,email,phone,location,picture,id"

const maxBodyBytes = 8 << 20

// ErrFetchFailed is the only error FetchUsers returns. The underlying cause is logged.
var ErrFetchFailed = errors.New("failed to fetch users, please try again")

// Params selects one page of users
type Params struct {
	Page       int
	Results    int
	SearchTerm string
	Seed       string
}

// Fetcher retrieves a page of users
type Fetcher interface {
	FetchUsers(ctx context.Context, p Params) (domain.PaginatedResult, error)
}

// Client talks to the random-user API
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
	group   singleflight.Group
}

// ClientOption configures a Client
type ClientOption func(*Client)

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds each request
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger sets the client's logger
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a client for the API at baseURL
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchUsers fetches one page and, when SearchTerm is set, keeps only users
// whose name contains it. Matching is limited to the fetched page. Concurrent
// calls with identical params share one request.
func (c *Client) FetchUsers(ctx context.Context, p Params) (domain.PaginatedResult, error) {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Results < 1 {
		p.Results = 10
	}
	p.SearchTerm = strings.TrimSpace(p.SearchTerm)

	key := fmt.Sprintf("%d|%d|%s|%s", p.Page, p.Results, p.Seed, p.SearchTerm)
	v, err, shared := c.group.Do(key, func() (interface{}, error) {
		return c.fetch(ctx, p)
	})
	if shared {
		c.logger.Debug("joined in-flight users request", zap.String("key", key))
	}
	if err != nil {
		return domain.PaginatedResult{}, err
	}
	return v.(domain.PaginatedResult), nil
}

func (c *Client) fetch(ctx context.Context, p Params) (domain.PaginatedResult, error) {
	start := time.Now()
	log := c.logger.With(
		zap.Int("page", p.Page),
		zap.Int("results", p.Results),
		zap.String("seed", p.Seed))

	body, err := c.get(ctx, p)
	if err != nil {
		log.Error("error fetching users", zap.Error(err))
		return domain.PaginatedResult{}, ErrFetchFailed
	}

	users, info, rejected, err := decodeResponse(body)
	if err != nil {
		log.Error("error fetching users", zap.Error(err))
		return domain.PaginatedResult{}, ErrFetchFailed
	}
	for _, r := range rejected {
		log.Warn("dropping invalid user record", zap.Error(r))
	}

	users = FilterByName(users, p.SearchTerm)
	result := domain.PaginatedResult{
		Users: users,
		Info:  NewPageInfo(len(users), info.Page, info.Results, info.Seed),
	}

	log.Debug("fetched users",
		zap.Int("count", len(users)),
		zap.Bool("filtered", p.SearchTerm != ""),
		zap.Duration("elapsed", time.Since(start)))
	return result, nil
}

func (c *Client) get(ctx context.Context, p Params) ([]byte, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("results", strconv.Itoa(p.Results))
	q.Set("inc", includedFields)
	if p.Seed != "" {
		q.Set("seed", p.Seed)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	return body, nil
}
