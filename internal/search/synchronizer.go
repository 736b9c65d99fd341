// Package search keeps the search text box, its debounced value and the
// persisted query state consistent.
package search

import (
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"userdash/internal/clock"
	"userdash/internal/debounce"
	"userdash/internal/domain"
	"userdash/internal/query"
)

// DefaultDelay is the quiet period before typed text becomes a search
const DefaultDelay = 500 * time.Millisecond

// Synchronizer reconciles the live text box value, the persisted search term
// and the current page. It never mutates query state in place; it only
// proposes whole replacement states to the store.
type Synchronizer struct {
	mu          sync.Mutex
	store       query.Store
	input       string
	debouncer   *debounce.Debouncer[string]
	unsubscribe func()
	closed      bool

	delay  time.Duration
	clock  clock.Clock
	logger *zap.Logger
}

// Option configures a Synchronizer
type Option func(*Synchronizer)

// WithDelay overrides the debounce delay
func WithDelay(d time.Duration) Option {
	return func(s *Synchronizer) {
		if d >= 0 {
			s.delay = d
		}
	}
}

// WithClock replaces the wall clock used by the debouncer
func WithClock(c clock.Clock) Option {
	return func(s *Synchronizer) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLogger sets the synchronizer's logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *Synchronizer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New starts a synchronizer with the text box initialised from the store
func New(store query.Store, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		store:  store,
		delay:  DefaultDelay,
		clock:  clock.Real{},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.input = store.Current().Search
	s.debouncer = debounce.New(s.input, s.delay,
		debounce.WithClock[string](s.clock),
		debounce.OnSettle(s.settled))
	s.unsubscribe = store.Subscribe(s.storeChanged)
	return s
}

// Input returns the live text box value
func (s *Synchronizer) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// Debounced returns the text box value as of the last settled pause
func (s *Synchronizer) Debounced() string {
	return s.debouncer.Value()
}

// Pending reports whether typed text is waiting for the quiet period
func (s *Synchronizer) Pending() bool {
	return s.debouncer.Pending()
}

// SetInput records a change of the text box made by the user
func (s *Synchronizer) SetInput(v string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.input = v
	s.mu.Unlock()

	s.debouncer.Set(v)
}

// Commit applies pending text immediately instead of waiting for the pause
func (s *Synchronizer) Commit() {
	s.debouncer.Flush()
}

// ChangePage navigates to a page and page size, keeping the current search term
func (s *Synchronizer) ChangePage(page, pageSize int) bool {
	return s.store.Navigate(query.WithPage(s.store.Current(), page, pageSize))
}

// Close stops the debouncer and detaches from the store
func (s *Synchronizer) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.debouncer.Stop()
	s.unsubscribe()
}

func (s *Synchronizer) settled(v string) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return
	}

	trimmed := strings.TrimSpace(v)
	cur := s.store.Current()
	if trimmed == cur.Search {
		return
	}

	s.logger.Debug("search settled", zap.String("term", trimmed), zap.Int("from_page", cur.Page))
	s.store.Navigate(query.WithSearch(cur, trimmed))
}

// storeChanged pulls the text box back in line when the search term changed
// through a route the text box did not drive (direct navigation, history).
func (s *Synchronizer) storeChanged(prev, cur domain.QueryState) {
	if prev.Search == cur.Search {
		return
	}

	s.mu.Lock()
	if s.closed || strings.TrimSpace(s.input) == cur.Search {
		s.mu.Unlock()
		return
	}
	s.input = cur.Search
	s.mu.Unlock()

	s.logger.Debug("search box reset from query state", zap.String("term", cur.Search))
	s.debouncer.Set(cur.Search)
}
