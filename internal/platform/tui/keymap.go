package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tilematch/internal/core"
)

// KeyMapper translates Bubble Tea key and mouse messages to game input.
// This centralizes bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to a game action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	key := msg.String()

	// Global quit keys
	switch key {
	case "ctrl+c", "q":
		return core.ActionQuit, true
	}

	switch key {
	case "w", "up", "k":
		return core.ActionUp, false
	case "s", "down", "j":
		return core.ActionDown, false
	case "a", "left", "h":
		return core.ActionLeft, false
	case "d", "right", "l":
		return core.ActionRight, false
	case " ":
		return core.ActionGrab, false
	case "enter":
		return core.ActionConfirm, false
	case "e":
		return core.ActionRotate, false
	case "f":
		return core.ActionFlip, false
	case "b", "esc":
		return core.ActionBack, false
	case "p":
		return core.ActionPause, false
	case "r":
		return core.ActionRestart, false
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

// MapMouse translates a mouse message to a pointer event. Wheel events and
// buttons the game does not use report false.
func (km *KeyMapper) MapMouse(msg tea.MouseMsg) (core.PointerEvent, bool) {
	ev := core.PointerEvent{X: msg.X, Y: msg.Y}

	switch msg.Action {
	case tea.MouseActionPress:
		ev.Kind = core.PointerPress
	case tea.MouseActionMotion:
		ev.Kind = core.PointerMotion
	case tea.MouseActionRelease:
		ev.Kind = core.PointerRelease
	default:
		return ev, false
	}

	switch msg.Button {
	case tea.MouseButtonLeft:
		ev.Button = core.ButtonLeft
	case tea.MouseButtonMiddle:
		ev.Button = core.ButtonMiddle
	case tea.MouseButtonRight:
		ev.Button = core.ButtonRight
	case tea.MouseButtonNone:
		ev.Button = core.ButtonNone
	default:
		return ev, false
	}

	return ev, true
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionLeft
	MenuActionRight
	MenuActionSelect
	MenuActionBack
	MenuActionScoreboard
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "a", "left", "h":
		return MenuActionLeft
	case "d", "right", "l":
		return MenuActionRight
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	}

	return MenuActionNone
}
