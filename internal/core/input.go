package core

// Button identifies the pointer button of a pointer event.
type Button int

const (
	ButtonNone Button = iota
	ButtonLeft
	ButtonRight
	ButtonMiddle
)

// String returns a human-readable name for the button.
func (b Button) String() string {
	switch b {
	case ButtonNone:
		return "None"
	case ButtonLeft:
		return "Left"
	case ButtonRight:
		return "Right"
	case ButtonMiddle:
		return "Middle"
	default:
		return "Unknown"
	}
}

// PointerEvent is a pointer press, drag or release at a viewport pixel.
// Button is the button pressed or held; ButtonNone on a plain move.
type PointerEvent struct {
	Button Button
	Pos    PixelPoint
}

// Action is a semantic editor command, abstracted from physical key presses.
type Action int

const (
	ActionNone      Action = iota
	ActionEscape           // Esc - cancel the current mode
	ActionCopy             // C - capture the selection as a stamp
	ActionCut              // X - capture and clear the selection
	ActionFill             // F - toggle fill mode
	ActionSelect           // S - start a selection
	ActionTeleport         // T - start linking teleports
	ActionConfirm          // Enter - commit teleport link
	ActionHome             // Home - go to start position
	ActionUndo             // Ctrl+Z
	ActionRedo             // Ctrl+Y
	ActionOverwrite        // O - toggle overwrite
	ActionPanLeft          // Left arrow
	ActionPanRight         // Right arrow
	ActionPanUp            // Up arrow
	ActionPanDown          // Down arrow
	ActionZoomIn           // +
	ActionZoomOut          // -
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionEscape:
		return "Escape"
	case ActionCopy:
		return "Copy"
	case ActionCut:
		return "Cut"
	case ActionFill:
		return "Fill"
	case ActionSelect:
		return "Select"
	case ActionTeleport:
		return "Teleport"
	case ActionConfirm:
		return "Confirm"
	case ActionHome:
		return "Home"
	case ActionUndo:
		return "Undo"
	case ActionRedo:
		return "Redo"
	case ActionOverwrite:
		return "Overwrite"
	case ActionPanLeft:
		return "PanLeft"
	case ActionPanRight:
		return "PanRight"
	case ActionPanUp:
		return "PanUp"
	case ActionPanDown:
		return "PanDown"
	case ActionZoomIn:
		return "ZoomIn"
	case ActionZoomOut:
		return "ZoomOut"
	default:
		return "Unknown"
	}
}
