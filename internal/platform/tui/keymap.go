package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-probot/internal/core"
)

// KeyMapper translates Bubble Tea key messages to game actions.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to an editor or interpreter action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	switch msg.String() {
	case "ctrl+c", "q":
		return core.ActionQuit, true
	case "up", "k", "w":
		return core.ActionUp, false
	case "down", "j":
		return core.ActionDown, false
	case "tab":
		return core.ActionFocus, false
	case "enter":
		return core.ActionPlace, false
	case "K", "shift+up":
		return core.ActionRaise, false
	case "J", "shift+down":
		return core.ActionLower, false
	case "x", "delete", "backspace":
		return core.ActionTrash, false
	case "c":
		return core.ActionCycle, false
	case "r":
		return core.ActionRun, false
	case "s":
		return core.ActionStop, false
	case "ctrl+r":
		return core.ActionResetAll, false
	case "h", "?":
		return core.ActionHint, false
	case "esc", "b":
		return core.ActionBack, false
	}
	return core.ActionNone, false
}

// MapKeyToFrame updates an input frame based on a key message.
// Returns true if the key was a quit request.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action, isQuit := km.MapKey(msg)
	if action != core.ActionNone {
		frame.Set(action)
	}
	return isQuit
}

// IsEditKey reports whether the key opens the parameter editor.
func (km *KeyMapper) IsEditKey(msg tea.KeyMsg) bool {
	return msg.String() == "e"
}

// IsScreenshotKey reports whether the key saves a screenshot.
func (km *KeyMapper) IsScreenshotKey(msg tea.KeyMsg) bool {
	return msg.String() == "ctrl+s"
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionScoreboard
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	}
	return MenuActionNone
}
