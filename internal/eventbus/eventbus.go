package eventbus

import (
	"runtime/debug"
	"sync"

	"go.uber.org/zap"

	"userdash/internal/domain"
)

// Re-export domain types for convenience
type DomainEvent = domain.DomainEvent
type EventType = domain.EventType

// Event type constants
const (
	EventQueryChanged  = domain.EventQueryChanged
	EventUsersFetched  = domain.EventUsersFetched
	EventFetchFailed   = domain.EventFetchFailed
	EventLoggedIn      = domain.EventLoggedIn
	EventLoggedOut     = domain.EventLoggedOut
	EventProfileSaved  = domain.EventProfileSaved
	EventThemeChanged  = domain.EventThemeChanged
	EventConfigLoaded  = domain.EventConfigLoaded
	EventConfigChanged = domain.EventConfigChanged
	EventError         = domain.EventError
)

// EventHandler is a function that handles domain events
type EventHandler func(DomainEvent)

// EventBus is the interface for the event bus
type EventBus interface {
	Publish(event DomainEvent)
	Subscribe(eventType EventType, handler EventHandler) func()
	Close()
}

type subscription struct {
	id      uint64
	handler EventHandler
}

// bus is the concrete implementation of EventBus
type bus struct {
	mu        sync.RWMutex
	handlers  map[EventType][]subscription
	nextID    uint64
	eventChan chan DomainEvent
	wg        sync.WaitGroup
	quit      chan struct{}
	closeOnce sync.Once
	logger    *zap.Logger
}

// Option configures the bus
type Option func(*bus)

// WithLogger routes bus diagnostics to logger
func WithLogger(logger *zap.Logger) Option {
	return func(b *bus) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithBuffer sets the size of the event queue
func WithBuffer(size int) Option {
	return func(b *bus) {
		if size > 0 {
			b.eventChan = make(chan DomainEvent, size)
		}
	}
}

// New creates a new event bus
func New(opts ...Option) EventBus {
	b := &bus{
		handlers:  make(map[EventType][]subscription),
		eventChan: make(chan DomainEvent, 1000),
		quit:      make(chan struct{}),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}

	b.wg.Add(1)
	go b.dispatch()

	return b
}

// Publish publishes an event to all subscribers
func (b *bus) Publish(event DomainEvent) {
	// Query changes follow every keystroke pause, keep them at debug
	switch event.Type() {
	case EventQueryChanged, EventUsersFetched:
		b.logger.Debug("publishing event", zap.String("type", string(event.Type())))
	default:
		b.logger.Info("publishing event", zap.String("type", string(event.Type())))
	}

	select {
	case <-b.quit:
		return
	default:
	}

	select {
	case b.eventChan <- event:
	default:
		b.logger.Warn("event bus channel full, dropping event", zap.String("type", string(event.Type())))
	}
}

// Subscribe subscribes to events of a specific type
// Returns an unsubscribe function
func (b *bus) Subscribe(eventType EventType, handler EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.handlers[eventType] = append(b.handlers[eventType], subscription{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		subs := b.handlers[eventType]
		for i, s := range subs {
			if s.id == id {
				b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
	}
}

// Close stops the dispatcher. Queued events are discarded.
func (b *bus) Close() {
	b.closeOnce.Do(func() {
		close(b.quit)
		b.wg.Wait()
	})
}

// dispatch handles event distribution to subscribers
func (b *bus) dispatch() {
	defer b.wg.Done()

	for {
		select {
		case event := <-b.eventChan:
			b.mu.RLock()
			subs := b.handlers[event.Type()]
			// Copy so handlers run without the lock held
			handlers := make([]EventHandler, len(subs))
			for i, s := range subs {
				handlers[i] = s.handler
			}
			b.mu.RUnlock()

			for _, handler := range handlers {
				go func(h EventHandler, event DomainEvent) {
					defer func() {
						if r := recover(); r != nil {
							b.logger.Error("event handler panic",
								zap.String("type", string(event.Type())),
								zap.Any("panic", r),
								zap.ByteString("stack", debug.Stack()))
						}
					}()
					h(event)
				}(handler, event)
			}

		case <-b.quit:
			for {
				select {
				case <-b.eventChan:
				default:
					return
				}
			}
		}
	}
}
