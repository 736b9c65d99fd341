// Package profile edits the signed-in user's profile. Saving goes to a
// simulated backend that is slow and sometimes fails.
package profile

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"

	"userdash/internal/clock"
	"userdash/internal/domain"
	"userdash/internal/eventbus"
	"userdash/internal/validation"
)

const (
	DefaultLatency     = 1500 * time.Millisecond
	DefaultFailureRate = 0.2
	DefaultHours       = 40
)

var ErrSaveFailed = errors.New("failed to save profile, please try again")

// UserStore is where a saved profile ends up
type UserStore interface {
	User() (domain.Profile, error)
	SaveUser(p domain.Profile) error
}

// Service validates and saves profiles
type Service struct {
	store       UserStore
	latency     time.Duration
	failureRate float64
	random      func() float64
	clock       clock.Clock
	bus         eventbus.EventBus
	logger      *zap.Logger
}

type Option func(*Service)

func WithLatency(d time.Duration) Option {
	return func(s *Service) { s.latency = d }
}

// WithFailureRate sets the probability of a simulated backend error
func WithFailureRate(p float64) Option {
	return func(s *Service) { s.failureRate = p }
}

// WithRandom replaces the source deciding simulated failures
func WithRandom(f func() float64) Option {
	return func(s *Service) {
		if f != nil {
			s.random = f
		}
	}
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

func NewService(store UserStore, opts ...Option) *Service {
	s := &Service{
		store:       store,
		latency:     DefaultLatency,
		failureRate: DefaultFailureRate,
		random:      rand.Float64,
		clock:       clock.Real{},
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Defaults returns an empty form with the default working hours
func Defaults() domain.Profile {
	return domain.Profile{WorkingHours: DefaultHours}
}

// Load returns the stored profile
func (s *Service) Load() (domain.Profile, error) {
	p, err := s.store.User()
	if err != nil {
		return domain.Profile{}, err
	}
	if p.WorkingHours == 0 {
		p.WorkingHours = DefaultHours
	}
	return p, nil
}

// Validate returns nil or validation.FieldErrors for the form
func Validate(p domain.Profile) error {
	return validation.Check(p)
}

// Save validates p, waits for the simulated backend and stores the result.
// A simulated backend failure returns ErrSaveFailed and stores nothing.
func (s *Service) Save(ctx context.Context, p domain.Profile) error {
	if err := Validate(p); err != nil {
		return err
	}

	if err := s.wait(ctx); err != nil {
		return err
	}

	if s.random() < s.failureRate {
		s.logger.Error("profile update error", zap.Error(errors.New("backend error")))
		return ErrSaveFailed
	}

	if err := s.store.SaveUser(p); err != nil {
		s.logger.Error("profile update error", zap.Error(err))
		return err
	}

	s.logger.Info("profile updated", zap.String("name", p.Name))
	if s.bus != nil {
		s.bus.Publish(domain.ProfileSavedEvent{Profile: p})
	}
	return nil
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
