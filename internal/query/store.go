package query

import (
	"sync"

	"go.uber.org/zap"

	"userdash/internal/domain"
	"userdash/internal/eventbus"
)

// Listener is notified after the current query state has been replaced
type Listener func(prev, cur domain.QueryState)

// Store is the externally owned, URL-equivalent query state. State is only
// ever replaced wholesale.
type Store interface {
	Current() domain.QueryState
	Navigate(next domain.QueryState) bool
	Back() bool
	Forward() bool
	Subscribe(fn Listener) func()
}

// MemoryStore keeps the query state and its navigation history in memory
type MemoryStore struct {
	mu              sync.Mutex
	history         []domain.QueryState
	index           int
	defaultPageSize int
	listeners       map[int]Listener
	nextID          int
	bus             eventbus.EventBus
	logger          *zap.Logger
}

// StoreOption configures a MemoryStore
type StoreOption func(*MemoryStore)

// WithBus publishes a QueryChangedEvent for every transition
func WithBus(bus eventbus.EventBus) StoreOption {
	return func(s *MemoryStore) {
		s.bus = bus
	}
}

// WithLogger sets the store's logger
func WithLogger(logger *zap.Logger) StoreOption {
	return func(s *MemoryStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewMemoryStore creates a store positioned at initial
func NewMemoryStore(initial domain.QueryState, defaultPageSize int, opts ...StoreOption) *MemoryStore {
	if defaultPageSize <= 0 {
		defaultPageSize = DefaultPageSize
	}
	s := &MemoryStore{
		history:         []domain.QueryState{Normalize(initial, defaultPageSize)},
		defaultPageSize: defaultPageSize,
		listeners:       make(map[int]Listener),
		logger:          zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current returns the current query state
func (s *MemoryStore) Current() domain.QueryState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history[s.index]
}

// Navigate replaces the current state, discarding any forward history.
// It returns false when next equals the current state.
func (s *MemoryStore) Navigate(next domain.QueryState) bool {
	next = Normalize(next, s.defaultPageSize)

	s.mu.Lock()
	prev := s.history[s.index]
	if prev == next {
		s.mu.Unlock()
		return false
	}
	s.history = append(s.history[:s.index+1], next)
	s.index++
	listeners := s.snapshotLocked()
	s.mu.Unlock()

	s.notify(listeners, prev, next)
	return true
}

// Back moves to the previous state in history
func (s *MemoryStore) Back() bool {
	return s.move(-1)
}

// Forward moves to the next state in history
func (s *MemoryStore) Forward() bool {
	return s.move(1)
}

// Subscribe registers fn and returns a function that removes it
func (s *MemoryStore) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *MemoryStore) move(delta int) bool {
	s.mu.Lock()
	target := s.index + delta
	if target < 0 || target >= len(s.history) {
		s.mu.Unlock()
		return false
	}
	prev := s.history[s.index]
	s.index = target
	cur := s.history[s.index]
	listeners := s.snapshotLocked()
	s.mu.Unlock()

	if prev != cur {
		s.notify(listeners, prev, cur)
	}
	return true
}

func (s *MemoryStore) snapshotLocked() []Listener {
	out := make([]Listener, 0, len(s.listeners))
	for i := 1; i <= s.nextID; i++ {
		if fn, ok := s.listeners[i]; ok {
			out = append(out, fn)
		}
	}
	return out
}

func (s *MemoryStore) notify(listeners []Listener, prev, cur domain.QueryState) {
	s.logger.Debug("query state changed",
		zap.String("from", Encode(prev)),
		zap.String("to", Encode(cur)))

	for _, fn := range listeners {
		fn(prev, cur)
	}
	if s.bus != nil {
		s.bus.Publish(domain.QueryChangedEvent{Previous: prev, Current: cur})
	}
}
