package editor

// Mode is the active interaction mode of the editor.
type Mode int

const (
	ModeNone Mode = iota
	ModeAddBlock
	ModeSelection
	ModeAddSelection
	ModeFill
	ModeConnectTeleports
)

// String returns a human-readable name for the mode.
func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "None"
	case ModeAddBlock:
		return "Add Block"
	case ModeSelection:
		return "Selection"
	case ModeAddSelection:
		return "Add Selection"
	case ModeFill:
		return "Fill"
	case ModeConnectTeleports:
		return "Connect Teleports"
	default:
		return "Unknown"
	}
}
