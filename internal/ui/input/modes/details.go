package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"userdash/internal/ui/input/types"
)

// DetailsMode is active while the user details popup is open
type DetailsMode struct{}

func NewDetailsMode() *DetailsMode {
	return &DetailsMode{}
}

func (m *DetailsMode) Name() string {
	return "details"
}

func (m *DetailsMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *DetailsMode) Exit(ctx types.Context) []types.Action {
	return nil
}

func (m *DetailsMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.String() {
	case "ctrl+c":
		return []types.Action{types.QuitAction{Force: true}}, true
	case "esc", "enter", "q", "i":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeNormal}}, true
	case "up", "k":
		return []types.Action{types.NavigateAction{Direction: "up"}}, true
	case "down", "j":
		return []types.Action{types.NavigateAction{Direction: "down"}}, true
	}
	// Swallow everything else so the table underneath stays put
	return nil, true
}
