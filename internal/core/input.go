package core

// Action represents a semantic editor or run action, abstracted from physical key presses.
type Action int

const (
	ActionNone      Action = iota
	ActionUp               // Up arrow, k - previous palette entry or block
	ActionDown             // Down arrow, j - next palette entry or block
	ActionFocus            // Tab - switch between palette and program
	ActionPlace            // Enter - clone the selected palette block under the selected program block
	ActionRaise            // K, shift+up - move the selected block up one slot
	ActionLower            // J, shift+down - move the selected block down one slot
	ActionTrash            // x, Delete - drop the selected block on the trash
	ActionCycle            // c - cycle the predicate of the selected conditional
	ActionRun              // r - compile and run the program
	ActionStop             // s - stop the running program
	ActionResetAll         // ctrl+r - remove every placed block
	ActionHint             // h - show the level hint
	ActionBack             // Esc - back to the level selector
	ActionQuit             // q, ctrl+c - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionFocus:
		return "Focus"
	case ActionPlace:
		return "Place"
	case ActionRaise:
		return "Raise"
	case ActionLower:
		return "Lower"
	case ActionTrash:
		return "Trash"
	case ActionCycle:
		return "Cycle"
	case ActionRun:
		return "Run"
	case ActionStop:
		return "Stop"
	case ActionResetAll:
		return "ResetAll"
	case ActionHint:
		return "Hint"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame holds the actions triggered during one simulation tick.
type InputFrame struct {
	Actions map[Action]bool
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

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	for k := range f.Actions {
		delete(f.Actions, k)
	}
}

// Clone creates a copy of this input frame.
func (f InputFrame) Clone() InputFrame {
	clone := NewInputFrame()
	for k, v := range f.Actions {
		clone.Actions[k] = v
	}
	return clone
}
