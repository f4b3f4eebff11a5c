package core

// Action represents a semantic game action, abstracted from physical key
// presses. The platform maps keys to actions; the game never sees raw input.
type Action int

const (
	ActionNone    Action = iota
	ActionUp             // move the cursor toward the top of the board
	ActionDown           // move the cursor toward the bottom
	ActionLeft           // move the cursor left
	ActionRight          // move the cursor right
	ActionConfirm        // remove the selected piece
	ActionHammer         // spend a hammer on the selected piece
	ActionShuffle        // spend a shuffle on the whole board
	ActionHint           // highlight a suggested piece
	ActionPause          // pause/unpause
	ActionRestart        // regenerate the current level
	ActionNext           // advance to the next level after a win
	ActionBack           // back to menu
	ActionQuit           // exit game/session
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
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionConfirm:
		return "Confirm"
	case ActionHammer:
		return "Hammer"
	case ActionShuffle:
		return "Shuffle"
	case ActionHint:
		return "Hint"
	case ActionPause:
		return "Pause"
	case ActionRestart:
		return "Restart"
	case ActionNext:
		return "Next"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame represents the input state for a single simulation tick.
// It contains all actions that were triggered during this frame.
type InputFrame struct {
	// Actions maps action types to whether they were triggered this frame.
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
