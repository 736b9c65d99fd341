package users

import (
	"context"
	"sync"

	"userdash/internal/domain"
	"userdash/internal/eventbus"
)

// Status is the fetch state for the current key
type Status int

const (
	StatusIdle Status = iota
	StatusFetching
	StatusSucceeded
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusFetching:
		return "fetching"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Outcome is a resolved fetch for a key
type Outcome struct {
	Key    domain.QueryKey
	Result domain.PaginatedResult
	Err    error
}

// Snapshot is what should be rendered right now
type Snapshot struct {
	Key    domain.QueryKey
	Status Status
	Result domain.PaginatedResult
	Err    error
}

// Loader tracks which key triple is current and only accepts results for it.
// Fetches for superseded keys may resolve in any order; their results are dropped.
type Loader struct {
	mu      sync.Mutex
	fetcher Fetcher
	seed    string
	bus     eventbus.EventBus

	key    domain.QueryKey
	begun  bool
	status Status
	result domain.PaginatedResult
	err    error
}

// NewLoader creates a loader that fetches with seed for stable pagination
func NewLoader(fetcher Fetcher, seed string, bus eventbus.EventBus) *Loader {
	return &Loader{
		fetcher: fetcher,
		seed:    seed,
		bus:     bus,
	}
}

// Begin makes key current and returns the fetch to run for it.
// A different key discards the previous result.
func (l *Loader) Begin(key domain.QueryKey) func(ctx context.Context) Outcome {
	l.mu.Lock()
	if !l.begun || l.key != key {
		l.result = domain.PaginatedResult{}
	}
	l.key = key
	l.begun = true
	l.status = StatusFetching
	l.err = nil
	l.mu.Unlock()

	fetcher, seed := l.fetcher, l.seed
	return func(ctx context.Context) Outcome {
		result, err := fetcher.FetchUsers(ctx, Params{
			Page:       key.Page,
			Results:    key.PageSize,
			SearchTerm: key.Search,
			Seed:       seed,
		})
		return Outcome{Key: key, Result: result, Err: err}
	}
}

// Resolve applies an outcome if its key is still current and reports whether it did
func (l *Loader) Resolve(o Outcome) bool {
	l.mu.Lock()
	if !l.begun || o.Key != l.key {
		l.mu.Unlock()
		return false
	}
	if o.Err != nil {
		l.status = StatusFailed
		l.err = o.Err
		l.result = domain.PaginatedResult{}
	} else {
		l.status = StatusSucceeded
		l.err = nil
		l.result = o.Result
	}
	l.mu.Unlock()

	if l.bus != nil {
		if o.Err != nil {
			l.bus.Publish(domain.FetchFailedEvent{Key: o.Key, Err: o.Err})
		} else {
			l.bus.Publish(domain.UsersFetchedEvent{Key: o.Key, Result: o.Result})
		}
	}
	return true
}

// Load fetches key synchronously and applies the outcome
func (l *Loader) Load(ctx context.Context, key domain.QueryKey) (Snapshot, bool) {
	applied := l.Resolve(l.Begin(key)(ctx))
	return l.Snapshot(), applied
}

// Current returns the current key and whether any fetch has begun
func (l *Loader) Current() (domain.QueryKey, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.key, l.begun
}

// Snapshot returns the state for the current key
func (l *Loader) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Snapshot{
		Key:    l.key,
		Status: l.status,
		Result: l.result,
		Err:    l.err,
	}
}
