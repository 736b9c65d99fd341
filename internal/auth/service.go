// Package auth implements the mock sign-in: a fixed demo account, signed
// session tokens and a session file standing in for browser cookies.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"userdash/internal/clock"
	"userdash/internal/domain"
	"userdash/internal/eventbus"
	"userdash/internal/validation"
)

// Demo account accepted by the mock sign-in
const (
	MockEmail    = "q@quantum.io"
	MockPassword = "qTask123#"
)

// DefaultLatency simulates the round trip of a real sign-in
const DefaultLatency = time.Second

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotAuthenticated   = errors.New("not signed in")
)

// Credentials is the login form
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Service signs users in and out
type Service struct {
	store   SessionStore
	tokens  *TokenManager
	email   string
	hash    []byte
	latency time.Duration
	cost    int
	clock   clock.Clock
	bus     eventbus.EventBus
	logger  *zap.Logger
}

// Option configures a Service
type Option func(*Service)

// WithLatency overrides the simulated sign-in delay
func WithLatency(d time.Duration) Option {
	return func(s *Service) { s.latency = d }
}

// WithHashCost sets the bcrypt cost of the demo password hash
func WithHashCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

func WithClock(c clock.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

func WithBus(bus eventbus.EventBus) Option {
	return func(s *Service) { s.bus = bus }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates the sign-in service. The demo password is hashed once here.
func NewService(store SessionStore, signingKey string, opts ...Option) (*Service, error) {
	s := &Service{
		store:   store,
		email:   MockEmail,
		latency: DefaultLatency,
		cost:    bcrypt.DefaultCost,
		clock:   clock.Real{},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tokens = NewTokenManager(signingKey, s.clock)

	hash, err := bcrypt.GenerateFromPassword([]byte(MockPassword), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash demo password: %w", err)
	}
	s.hash = hash
	return s, nil
}

// Tokens exposes the token manager for callers that verify tokens themselves
func (s *Service) Tokens() *TokenManager { return s.tokens }

// Login validates the form, checks the demo account and stores a new session.
// Validation failures are returned as validation.FieldErrors.
func (s *Service) Login(ctx context.Context, creds Credentials) (Session, error) {
	creds.Email = strings.TrimSpace(creds.Email)
	if err := validation.Check(creds); err != nil {
		return Session{}, err
	}

	if err := s.wait(ctx); err != nil {
		return Session{}, err
	}

	emailOK := strings.EqualFold(creds.Email, s.email)
	passwordOK := bcrypt.CompareHashAndPassword(s.hash, []byte(creds.Password)) == nil
	if !emailOK || !passwordOK {
		// The attempted email is not logged
		s.logger.Info("sign-in failed: invalid credentials")
		return Session{}, ErrInvalidCredentials
	}

	access, err := s.tokens.GenerateAccessToken(s.email)
	if err != nil {
		return Session{}, err
	}
	refresh, err := s.tokens.GenerateRefreshToken(s.email)
	if err != nil {
		return Session{}, err
	}

	prev, err := s.store.Load()
	if err != nil {
		return Session{}, err
	}
	session := Session{AccessToken: access, RefreshToken: refresh, Email: s.email}
	// Keep the profile edited in an earlier session of the same account
	if prev.Email == s.email {
		session.User = prev.User
	}
	if err := s.store.Save(session); err != nil {
		return Session{}, err
	}

	s.logger.Info("signed in", zap.String("email", s.email))
	if s.bus != nil {
		s.bus.Publish(domain.LoggedInEvent{Email: s.email})
	}
	return session, nil
}

// Logout clears tokens and the stored profile
func (s *Service) Logout() error {
	if err := s.store.Clear(); err != nil {
		return err
	}
	s.logger.Info("signed out")
	if s.bus != nil {
		s.bus.Publish(domain.LoggedOutEvent{})
	}
	return nil
}

// IsAuthenticated reports whether a valid, unexpired access token is stored
func (s *Service) IsAuthenticated() bool {
	session, err := s.store.Load()
	if err != nil || session.AccessToken == "" {
		return false
	}
	if _, err := s.tokens.ValidateAccessToken(session.AccessToken); err != nil {
		s.logger.Debug("stored access token rejected", zap.Error(err))
		return false
	}
	return true
}

// Session returns the stored session
func (s *Service) Session() (Session, error) {
	return s.store.Load()
}

// User returns the stored profile, seeded with the account email when none was saved
func (s *Service) User() (domain.Profile, error) {
	if !s.IsAuthenticated() {
		return domain.Profile{}, ErrNotAuthenticated
	}
	session, err := s.store.Load()
	if err != nil {
		return domain.Profile{}, err
	}
	if session.User != nil {
		return *session.User, nil
	}
	return domain.Profile{Email: session.Email, WorkingHours: 40}, nil
}

// SaveUser stores the profile in the current session
func (s *Service) SaveUser(p domain.Profile) error {
	if !s.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	session, err := s.store.Load()
	if err != nil {
		return err
	}
	if p.Email == "" {
		p.Email = session.Email
	}
	session.User = &p
	return s.store.Save(session)
}

func (s *Service) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	done := make(chan struct{})
	timer := s.clock.AfterFunc(s.latency, func() { close(done) })
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	}
}
