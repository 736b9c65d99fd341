package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"userdash/internal/ui/input/types"
)

type fakeContext struct {
	index, total int
	search       string
	failed       bool
}

func (c fakeContext) CurrentIndex() int  { return c.index }
func (c fakeContext) TotalItems() int    { return c.total }
func (c fakeContext) SearchText() string { return c.search }
func (c fakeContext) HasError() bool     { return c.failed }

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func TestNormalModeKeys(t *testing.T) {
	ctx := fakeContext{total: 3}
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want types.Action
	}{
		{"down", key(tea.KeyDown), types.NavigateAction{Direction: "down"}},
		{"j", runes("j"), types.NavigateAction{Direction: "down"}},
		{"up", key(tea.KeyUp), types.NavigateAction{Direction: "up"}},
		{"next page", key(tea.KeyRight), types.PageAction{Delta: 1}},
		{"prev page", key(tea.KeyLeft), types.PageAction{Delta: -1}},
		{"bigger pages", runes("+"), types.PageSizeAction{Delta: 1}},
		{"smaller pages", runes("-"), types.PageSizeAction{Delta: -1}},
		{"back", runes("["), types.HistoryAction{Forward: false}},
		{"forward", runes("]"), types.HistoryAction{Forward: true}},
		{"theme", runes("t"), types.ToggleThemeAction{}},
		{"profile", runes("p"), types.OpenProfileAction{}},
		{"help", runes("?"), types.ToggleHelpAction{}},
		{"quit", runes("q"), types.QuitAction{}},
		{"force quit", key(tea.KeyCtrlC), types.QuitAction{Force: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := New()
			actions, _ := h.HandleKey(tt.msg, ctx)
			require.Len(t, actions, 1)
			assert.Equal(t, tt.want, actions[0])
			assert.Equal(t, types.ModeNormal, h.CurrentMode())
		})
	}
}

func TestRetryOnlyAfterError(t *testing.T) {
	h := New()
	actions, _ := h.HandleKey(runes("r"), fakeContext{})
	assert.Empty(t, actions)

	actions, _ = h.HandleKey(runes("r"), fakeContext{failed: true})
	assert.Equal(t, []types.Action{types.RetryAction{}}, actions)
}

func TestEscClearsActiveSearch(t *testing.T) {
	h := New()
	actions, _ := h.HandleKey(key(tea.KeyEsc), fakeContext{})
	assert.Empty(t, actions)

	actions, _ = h.HandleKey(key(tea.KeyEsc), fakeContext{search: "doe"})
	assert.Equal(t, []types.Action{types.ClearSearchAction{}}, actions)
}

func TestSearchModeTyping(t *testing.T) {
	h := New()
	ctx := fakeContext{total: 3}

	_, cmd := h.HandleKey(runes("/"), ctx)
	assert.NotNil(t, cmd)
	assert.Equal(t, types.ModeSearch, h.CurrentMode())
	assert.True(t, h.TextInput().Focused())

	// Letters are text here, not commands
	actions, _ := h.HandleKey(runes("q"), ctx)
	assert.Equal(t, []types.Action{types.UpdateTextAction{Text: "q"}}, actions)
	actions, _ = h.HandleKey(runes("u"), ctx)
	assert.Equal(t, []types.Action{types.UpdateTextAction{Text: "qu"}}, actions)
	assert.Equal(t, types.ModeSearch, h.CurrentMode())

	actions, _ = h.HandleKey(key(tea.KeyEnter), ctx)
	assert.Equal(t, []types.Action{types.SubmitTextAction{Text: "qu", Mode: types.ModeSearch}}, actions)
	assert.Equal(t, types.ModeNormal, h.CurrentMode())
	assert.False(t, h.TextInput().Focused())
	assert.Equal(t, "qu", h.TextInput().Value(), "leaving the box keeps its text")
}

func TestSearchModeEscKeepsText(t *testing.T) {
	h := New()
	ctx := fakeContext{}
	h.HandleKey(runes("/"), ctx)
	h.HandleKey(runes("a"), ctx)

	actions, _ := h.HandleKey(key(tea.KeyEsc), ctx)
	assert.Equal(t, []types.Action{types.CancelTextAction{}}, actions)
	assert.Equal(t, types.ModeNormal, h.CurrentMode())
	assert.Equal(t, "a", h.TextInput().Value())
}

func TestSetTextDoesNotEmit(t *testing.T) {
	h := New()
	h.SetText("jane")
	assert.Equal(t, "jane", h.TextInput().Value())

	h.HandleKey(runes("/"), fakeContext{search: "jane"})
	actions, _ := h.HandleKey(key(tea.KeyBackspace), fakeContext{search: "jane"})
	assert.Equal(t, []types.Action{types.UpdateTextAction{Text: "jan"}}, actions)
}

func TestDetailsMode(t *testing.T) {
	h := New()
	ctx := fakeContext{total: 2}

	_, _ = h.HandleKey(key(tea.KeyEnter), ctx)
	require.Equal(t, types.ModeDetails, h.CurrentMode())

	actions, _ := h.HandleKey(runes("t"), ctx)
	assert.Empty(t, actions, "keys under the popup are swallowed")

	_, _ = h.HandleKey(key(tea.KeyEsc), ctx)
	assert.Equal(t, types.ModeNormal, h.CurrentMode())
}

func TestEnterWithoutRowsDoesNothing(t *testing.T) {
	h := New()
	actions, _ := h.HandleKey(key(tea.KeyEnter), fakeContext{})
	assert.Empty(t, actions)
	assert.Equal(t, types.ModeNormal, h.CurrentMode())
}

func TestLogoutConfirm(t *testing.T) {
	h := New()
	ctx := fakeContext{}

	h.HandleKey(runes("L"), ctx)
	require.Equal(t, types.ModeLogoutConfirm, h.CurrentMode())

	actions, _ := h.HandleKey(runes("n"), ctx)
	assert.Empty(t, actions)
	assert.Equal(t, types.ModeNormal, h.CurrentMode())

	h.HandleKey(runes("L"), ctx)
	actions, _ = h.HandleKey(runes("y"), ctx)
	assert.Equal(t, []types.Action{types.LogoutAction{}}, actions)
	assert.Equal(t, types.ModeNormal, h.CurrentMode())
}
