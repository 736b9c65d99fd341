package modes

import (
	tea "github.com/charmbracelet/bubbletea"

	"userdash/internal/ui/input/types"
)

type NormalMode struct{}

func NewNormalMode() *NormalMode {
	return &NormalMode{}
}

func (m *NormalMode) Name() string {
	return "normal"
}

func (m *NormalMode) Enter(ctx types.Context) []types.Action {
	return nil // No special actions on enter
}

func (m *NormalMode) Exit(ctx types.Context) []types.Action {
	return nil // No special actions on exit
}

func (m *NormalMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return []types.Action{types.QuitAction{Force: true}}, true

	case tea.KeyEsc:
		// Esc clears an active search
		if ctx.SearchText() != "" {
			return []types.Action{types.ClearSearchAction{}}, true
		}
		return nil, false

	case tea.KeyUp:
		return []types.Action{types.NavigateAction{Direction: "up"}}, true

	case tea.KeyDown:
		return []types.Action{types.NavigateAction{Direction: "down"}}, true

	case tea.KeyLeft:
		return []types.Action{types.PageAction{Delta: -1}}, true

	case tea.KeyRight:
		return []types.Action{types.PageAction{Delta: 1}}, true

	case tea.KeyHome:
		return []types.Action{types.NavigateAction{Direction: "home"}}, true

	case tea.KeyEnd:
		return []types.Action{types.NavigateAction{Direction: "end"}}, true

	case tea.KeyEnter:
		if ctx.TotalItems() > 0 {
			return []types.Action{types.ChangeModeAction{Mode: types.ModeDetails}}, true
		}
		return nil, false
	}

	// Handle string keys
	switch msg.String() {
	case "j":
		return []types.Action{types.NavigateAction{Direction: "down"}}, true
	case "k":
		return []types.Action{types.NavigateAction{Direction: "up"}}, true
	case "h":
		return []types.Action{types.PageAction{Delta: -1}}, true
	case "l":
		return []types.Action{types.PageAction{Delta: 1}}, true
	case "g":
		return []types.Action{types.NavigateAction{Direction: "home"}}, true
	case "G":
		return []types.Action{types.NavigateAction{Direction: "end"}}, true
	case "+", "=":
		return []types.Action{types.PageSizeAction{Delta: 1}}, true
	case "-", "_":
		return []types.Action{types.PageSizeAction{Delta: -1}}, true
	case "[":
		return []types.Action{types.HistoryAction{Forward: false}}, true
	case "]":
		return []types.Action{types.HistoryAction{Forward: true}}, true
	case "i":
		if ctx.TotalItems() > 0 {
			return []types.Action{types.ChangeModeAction{Mode: types.ModeDetails}}, true
		}
		return nil, false
	case "/":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeSearch}}, true
	case "r":
		if ctx.HasError() {
			return []types.Action{types.RetryAction{}}, true
		}
		return nil, false
	case "t":
		return []types.Action{types.ToggleThemeAction{}}, true
	case "p":
		return []types.Action{types.OpenProfileAction{}}, true
	case "L":
		return []types.Action{types.ChangeModeAction{Mode: types.ModeLogoutConfirm}}, true
	case "?":
		return []types.Action{types.ToggleHelpAction{}}, true
	case "q":
		return []types.Action{types.QuitAction{Force: false}}, true
	}

	return nil, false
}
