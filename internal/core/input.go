package core

// Action represents a semantic game action, abstracted from physical key presses.
// This allows games to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // W, Up arrow - move cursor up
	ActionDown           // S, Down arrow - move cursor down
	ActionLeft           // A, Left arrow - move cursor left
	ActionRight          // D, Right arrow - move cursor right
	ActionGrab           // Space, Enter - pick up or drop the piece under the cursor
	ActionRotate         // E - rotate the held or hovered piece
	ActionFlip           // F - flip the held or hovered piece
	ActionConfirm        // Enter - confirm selection in menu
	ActionBack           // B, Escape - cancel the current drag
	ActionRestart        // R key - restart level, or the game once finished
	ActionQuit           // Q, Ctrl+C - exit game/session
	ActionPause          // P - pause/unpause game
)

var actionNames = map[Action]string{
	ActionNone:    "None",
	ActionUp:      "Up",
	ActionDown:    "Down",
	ActionLeft:    "Left",
	ActionRight:   "Right",
	ActionGrab:    "Grab",
	ActionRotate:  "Rotate",
	ActionFlip:    "Flip",
	ActionConfirm: "Confirm",
	ActionBack:    "Back",
	ActionRestart: "Restart",
	ActionQuit:    "Quit",
	ActionPause:   "Pause",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "Unknown"
}

// PointerButton identifies a mouse button.
type PointerButton int

const (
	ButtonNone PointerButton = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

// PointerKind tells what happened to the pointer.
type PointerKind int

const (
	PointerPress PointerKind = iota
	PointerMotion
	PointerRelease
)

// PointerEvent is a mouse event in screen cells, origin at the top-left.
type PointerEvent struct {
	X, Y   int
	Button PointerButton
	Kind   PointerKind
}

// InputFrame represents the input state for a single player during one simulation tick.
// It contains all actions that were triggered during this frame.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
	// Using a map allows checking multiple actions without order dependency.
	Actions map[Action]bool

	// Pointer holds mouse events in arrival order. Order matters for
	// press, drag and release sequences.
	Pointer []PointerEvent
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// AddPointer appends a mouse event to the frame.
func (f *InputFrame) AddPointer(e PointerEvent) {
	f.Pointer = append(f.Pointer, e)
}

// Empty reports whether nothing was triggered this frame.
func (f InputFrame) Empty() bool {
	return len(f.Actions) == 0 && len(f.Pointer) == 0
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	clear(f.Actions)
	f.Pointer = f.Pointer[:0]
}

