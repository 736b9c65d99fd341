// Package debounce holds a value and exposes a delayed copy of it that only
// follows the input once the input has been quiet for a fixed delay.
package debounce

import (
	"sync"
	"time"

	"userdash/internal/clock"
)

// State is the debouncer's scheduling state
type State int

const (
	// Idle means the settled value equals the latest input
	Idle State = iota
	// Pending means a newer input is waiting for its deadline
	Pending
	// Stopped means the debouncer was disposed; nothing will change again
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Debouncer is a trailing debounce over values of any type.
// It is safe for concurrent use.
type Debouncer[T any] struct {
	// cbMu is held across a settle and its callback so Stop can wait one out
	cbMu     sync.Mutex
	mu       sync.Mutex
	clock    clock.Clock
	delay    time.Duration
	settled  T
	latest   T
	state    State
	deadline time.Time
	timer    clock.Timer
	gen      uint64
	onSettle func(T)
}

// Option configures a Debouncer
type Option[T any] func(*Debouncer[T])

// WithClock replaces the wall clock
func WithClock[T any](c clock.Clock) Option[T] {
	return func(d *Debouncer[T]) {
		if c != nil {
			d.clock = c
		}
	}
}

// OnSettle registers a callback run once per settled burst with the surviving value.
// It runs on the timer's goroutine, outside the debouncer's lock. It must not
// call Stop.
func OnSettle[T any](fn func(T)) Option[T] {
	return func(d *Debouncer[T]) {
		d.onSettle = fn
	}
}

// New returns a debouncer whose value is initial right away
func New[T any](initial T, delay time.Duration, opts ...Option[T]) *Debouncer[T] {
	if delay < 0 {
		delay = 0
	}
	d := &Debouncer[T]{
		clock:   clock.Real{},
		delay:   delay,
		settled: initial,
		latest:  initial,
		state:   Idle,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Set records a new input. Any pending update is cancelled and the delay
// restarts against v, whether or not v equals the previous input.
func (d *Debouncer[T]) Set(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.state == Stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}

	d.latest = v
	d.gen++
	gen := d.gen
	d.state = Pending
	d.deadline = d.clock.Now().Add(d.delay)
	d.timer = d.clock.AfterFunc(d.delay, func() { d.fire(gen) })
}

// Value returns the settled value
func (d *Debouncer[T]) Value() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.settled
}

// Latest returns the most recent input, settled or not
func (d *Debouncer[T]) Latest() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.latest
}

// State returns the current scheduling state
func (d *Debouncer[T]) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Pending reports whether an update is scheduled
func (d *Debouncer[T]) Pending() bool {
	return d.State() == Pending
}

// Deadline returns when the pending update is due
func (d *Debouncer[T]) Deadline() (time.Time, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != Pending {
		return time.Time{}, false
	}
	return d.deadline, true
}

// Flush settles a pending input immediately
func (d *Debouncer[T]) Flush() {
	d.mu.Lock()
	if d.state != Pending {
		d.mu.Unlock()
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	gen := d.gen
	d.mu.Unlock()

	d.fire(gen)
}

// Stop disposes the debouncer. A pending update is dropped and no value
// change or callback is observable afterwards. A callback already running
// finishes before Stop returns.
func (d *Debouncer[T]) Stop() {
	d.cbMu.Lock()
	defer d.cbMu.Unlock()
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	d.state = Stopped
}

func (d *Debouncer[T]) fire(gen uint64) {
	d.cbMu.Lock()
	defer d.cbMu.Unlock()

	d.mu.Lock()
	// A timer that lost the race with Set or Stop must not publish
	if d.state != Pending || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.settled = d.latest
	d.state = Idle
	d.timer = nil
	value := d.settled
	cb := d.onSettle
	d.mu.Unlock()

	if cb != nil {
		cb(value)
	}
}
