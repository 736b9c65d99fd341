// Package input routes key presses on the users screen through mode handlers
// and turns them into actions for the model.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"userdash/internal/ui/input/modes"
	"userdash/internal/ui/input/types"
)

type Handler struct {
	currentMode types.Mode
	modes       map[types.Mode]types.ModeHandler
	textInput   *textinput.Model // Search box, shared with the view
}

func New() *Handler {
	ti := textinput.New()
	ti.Placeholder = "Search by name..."
	ti.CharLimit = 100

	h := &Handler{
		currentMode: types.ModeNormal,
		textInput:   &ti,
		modes:       make(map[types.Mode]types.ModeHandler),
	}

	// Register all mode handlers
	h.modes[types.ModeNormal] = modes.NewNormalMode()
	h.modes[types.ModeSearch] = modes.NewSearchMode(h.textInput)
	h.modes[types.ModeDetails] = modes.NewDetailsMode()
	h.modes[types.ModeLogoutConfirm] = modes.NewConfirmMode()

	return h
}

func (h *Handler) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, tea.Cmd) {
	handler := h.modes[h.currentMode]
	if handler == nil {
		return nil, nil
	}

	actions, consumed := handler.HandleKey(msg, ctx)

	// If not consumed and we're not in text mode, nothing to do
	if !consumed && !h.isTextMode(h.currentMode) {
		return nil, nil
	}

	var cmd tea.Cmd
	var allActions []types.Action

	// Handle mode changes
	for _, action := range actions {
		if changeMode, ok := action.(types.ChangeModeAction); ok {
			allActions = append(allActions, h.switchMode(changeMode.Mode, ctx)...)
			if h.isTextMode(h.currentMode) {
				cmd = textinput.Blink
			}
		} else {
			allActions = append(allActions, action)
		}
	}

	// In a text mode, keys the mode did not handle edit the text
	if h.isTextMode(h.currentMode) && !consumed {
		before := h.textInput.Value()
		var textCmd tea.Cmd
		*h.textInput, textCmd = h.textInput.Update(msg)
		cmd = textCmd
		if h.textInput.Value() != before {
			allActions = append(allActions, types.UpdateTextAction{Text: h.textInput.Value()})
		}
	}

	return allActions, cmd
}

// Update forwards non-key messages (cursor blink) to the text input
func (h *Handler) Update(msg tea.Msg) tea.Cmd {
	if !h.isTextMode(h.currentMode) {
		return nil
	}
	var cmd tea.Cmd
	*h.textInput, cmd = h.textInput.Update(msg)
	return cmd
}

func (h *Handler) switchMode(mode types.Mode, ctx types.Context) []types.Action {
	var actions []types.Action
	if h.modes[h.currentMode] != nil {
		actions = append(actions, h.modes[h.currentMode].Exit(ctx)...)
	}
	h.currentMode = mode
	if h.modes[h.currentMode] != nil {
		actions = append(actions, h.modes[h.currentMode].Enter(ctx)...)
	}
	return actions
}

// Reset returns to normal mode, e.g. when the screen changes
func (h *Handler) Reset(ctx types.Context) {
	if h.currentMode != types.ModeNormal {
		h.switchMode(types.ModeNormal, ctx)
	}
}

func (h *Handler) CurrentMode() types.Mode {
	return h.currentMode
}

// TextInput returns the search box
func (h *Handler) TextInput() *textinput.Model {
	return h.textInput
}

// SetText replaces the search box content without emitting an update
func (h *Handler) SetText(s string) {
	if h.textInput.Value() != s {
		h.textInput.SetValue(s)
		h.textInput.CursorEnd()
	}
}

func (h *Handler) RegisterMode(mode types.Mode, handler types.ModeHandler) {
	h.modes[mode] = handler
}

func (h *Handler) isTextMode(mode types.Mode) bool {
	return mode == types.ModeSearch
}
