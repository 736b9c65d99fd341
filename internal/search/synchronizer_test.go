package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userdash/internal/clock"
	"userdash/internal/domain"
	"userdash/internal/query"
)

type fixture struct {
	clock       *clock.Fake
	store       *query.MemoryStore
	sync        *Synchronizer
	transitions []domain.QueryState
}

func newFixture(t *testing.T, initial domain.QueryState) *fixture {
	t.Helper()
	f := &fixture{
		clock: clock.NewFake(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		store: query.NewMemoryStore(initial, 10),
	}
	f.store.Subscribe(func(_, cur domain.QueryState) {
		f.transitions = append(f.transitions, cur)
	})
	f.sync = New(f.store, WithClock(f.clock))
	t.Cleanup(f.sync.Close)
	return f
}

func (f *fixture) typeText(text string, gap time.Duration) {
	for i := 1; i <= len(text); i++ {
		f.sync.SetInput(text[:i])
		f.clock.Advance(gap)
	}
}

func TestInitialInputFromStore(t *testing.T) {
	f := newFixture(t, domain.QueryState{Page: 3, PageSize: 10, Search: "doe"})
	assert.Equal(t, "doe", f.sync.Input())

	f = newFixture(t, domain.QueryState{Page: 1, PageSize: 10})
	assert.Equal(t, "", f.sync.Input())
}

func TestTypingProducesOneTransitionPerPause(t *testing.T) {
	f := newFixture(t, domain.QueryState{Page: 4, PageSize: 25})

	f.typeText("jane", 100*time.Millisecond)
	assert.Empty(t, f.transitions, "no navigation while typing")

	f.clock.Advance(DefaultDelay)
	require.Len(t, f.transitions, 1)
	assert.Equal(t, domain.QueryState{Page: 1, PageSize: 25, Search: "jane"}, f.store.Current())
}

func TestSearchChangeResetsPage(t *testing.T) {
	f := newFixture(t, domain.QueryState{Page: 7, PageSize: 10, Search: "old"})

	f.sync.SetInput("new")
	f.clock.Advance(DefaultDelay)

	assert.Equal(t, 1, f.store.Current().Page)
	assert.Equal(t, "new", f.store.Current().Search)
}

func TestWhitespaceIsAbsent(t *testing.T) {
	f := newFixture(t, domain.QueryState{Page: 2, PageSize: 10})

	f.sync.SetInput("   ")
	f.clock.Advance(DefaultDelay)
	assert.Empty(t, f.transitions, "whitespace equals no search, nothing to navigate")

	f.sync.SetInput("  doe  ")
	f.clock.Advance(DefaultDelay)
	assert.Equal(t, "doe", f.store.Current().Search)

	f.sync.SetInput("  ")
	f.clock.Advance(DefaultDelay)
	assert.Equal(t, domain.QueryState{Page: 1, PageSize: 10}, f.store.Current())
}

func TestSelfDrivenNavigationKeepsTypedText(t *testing.T) {
	f := newFixture(t, domain.QueryState{Page: 1, PageSize: 10})

	f.sync.SetInput("jane ")
	f.clock.Advance(DefaultDelay)

	assert.Equal(t, "jane", f.store.Current().Search)
	assert.Equal(t, "jane ", f.sync.Input(), "trailing space the user is still typing survives")
}

func TestExternalNavigationResetsInput(t *testing.T) {
	f := newFixture(t, domain.QueryState{Page: 1, PageSize: 10})

	f.sync.SetInput("doe")
	f.clock.Advance(DefaultDelay)
	f.sync.SetInput("smith")
	f.clock.Advance(DefaultDelay)
	require.Equal(t, "smith", f.store.Current().Search)

	require.True(t, f.store.Back())
	assert.Equal(t, "doe", f.sync.Input())

	// The reset goes through the debouncer and settles without another navigation
	before := len(f.transitions)
	f.clock.Advance(DefaultDelay)
	assert.Len(t, f.transitions, before)
	assert.Equal(t, "doe", f.store.Current().Search)
}

func TestExternalNavigationCancelsPendingTyping(t *testing.T) {
	f := newFixture(t, domain.QueryState{Page: 1, PageSize: 10})

	f.sync.SetInput("half-typ")
	f.clock.Advance(200 * time.Millisecond)
	f.store.Navigate(domain.QueryState{Page: 1, PageSize: 10, Search: "direct"})
	assert.Equal(t, "direct", f.sync.Input())

	f.clock.Advance(DefaultDelay)
	assert.Equal(t, "direct", f.store.Current().Search)
}

func TestPageChangeDoesNotTouchInput(t *testing.T) {
	f := newFixture(t, domain.QueryState{Page: 1, PageSize: 10, Search: "doe"})

	require.True(t, f.sync.ChangePage(3, 25))
	assert.Equal(t, domain.QueryState{Page: 3, PageSize: 25, Search: "doe"}, f.store.Current())
	assert.Equal(t, "doe", f.sync.Input())
}

func TestCommitAppliesImmediately(t *testing.T) {
	f := newFixture(t, domain.QueryState{Page: 5, PageSize: 10})

	f.sync.SetInput("bob")
	f.sync.Commit()
	assert.Equal(t, domain.QueryState{Page: 1, PageSize: 10, Search: "bob"}, f.store.Current())
	assert.False(t, f.sync.Pending())
}

func TestCloseStopsPendingSearch(t *testing.T) {
	f := newFixture(t, domain.QueryState{Page: 1, PageSize: 10})

	f.sync.SetInput("late")
	f.sync.Close()
	f.clock.Advance(time.Second)

	assert.Empty(t, f.transitions)
	f.store.Navigate(domain.QueryState{Page: 1, PageSize: 10, Search: "x"})
	assert.Equal(t, "late", f.sync.Input(), "closed synchronizer no longer follows the store")
}

func TestSettleAfterCloseDoesNotNavigate(t *testing.T) {
	f := newFixture(t, domain.QueryState{Page: 2, PageSize: 10})

	// A settle already handed off by the debouncer when Close ran
	f.sync.Close()
	f.sync.settled("late")

	assert.Empty(t, f.transitions)
	assert.Equal(t, domain.QueryState{Page: 2, PageSize: 10}, f.store.Current())
}
