package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/blockedit/internal/core"
)

// EditorKeyMap defines the key bindings of the editor screen.
type EditorKeyMap struct {
	Escape    key.Binding
	Select    key.Binding
	Copy      key.Binding
	Cut       key.Binding
	Paste     key.Binding
	Fill      key.Binding
	Teleport  key.Binding
	Color     key.Binding
	Confirm   key.Binding
	Home      key.Binding
	Undo      key.Binding
	Redo      key.Binding
	Overwrite key.Binding
	PanLeft   key.Binding
	PanRight  key.Binding
	PanUp     key.Binding
	PanDown   key.Binding
	ZoomIn    key.Binding
	ZoomOut   key.Binding
	NextBlock key.Binding
	PrevBlock key.Binding
	Save      key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k EditorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Fill, k.Teleport, k.Undo, k.Save, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k EditorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Select, k.Copy, k.Cut, k.Paste, k.Fill},
		{k.Teleport, k.Color, k.Confirm, k.Escape},
		{k.Undo, k.Redo, k.Overwrite, k.Home},
		{k.PanLeft, k.PanRight, k.PanUp, k.PanDown, k.ZoomIn, k.ZoomOut},
		{k.NextBlock, k.PrevBlock, k.Save, k.Help, k.Quit},
	}
}

// DefaultEditorKeyMap returns default key bindings.
func DefaultEditorKeyMap() EditorKeyMap {
	return EditorKeyMap{
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Select: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "select"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy"),
		),
		Cut: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "cut"),
		),
		Paste: key.NewBinding(
			key.WithKeys("ctrl+v"),
			key.WithHelp("ctrl+v", "paste"),
		),
		Fill: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "fill"),
		),
		Teleport: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "link teleports"),
		),
		Color: key.NewBinding(
			key.WithKeys("k"),
			key.WithHelp("k", "teleport color"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "commit link"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("home/g", "start position"),
		),
		Undo: key.NewBinding(
			key.WithKeys("ctrl+z", "u"),
			key.WithHelp("ctrl+z/u", "undo"),
		),
		Redo: key.NewBinding(
			key.WithKeys("ctrl+y", "r"),
			key.WithHelp("ctrl+y/r", "redo"),
		),
		Overwrite: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "overwrite"),
		),
		PanLeft: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "pan left"),
		),
		PanRight: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "pan right"),
		),
		PanUp: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("up", "pan up"),
		),
		PanDown: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "pan down"),
		),
		ZoomIn: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "zoom in"),
		),
		ZoomOut: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "zoom out"),
		),
		NextBlock: key.NewBinding(
			key.WithKeys("]", "tab"),
			key.WithHelp("]", "next block"),
		),
		PrevBlock: key.NewBinding(
			key.WithKeys("[", "shift+tab"),
			key.WithHelp("[", "prev block"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// KeyMapper translates Bubble Tea key messages to editor actions.
// Keys handled by the model itself (palette, save, paste, help, quit)
// map to core.ActionNone.
type KeyMapper struct {
	keys EditorKeyMap
}

// NewKeyMapper creates a key mapper over the given bindings.
func NewKeyMapper(keys EditorKeyMap) *KeyMapper {
	return &KeyMapper{keys: keys}
}

// MapKey translates a key message to an editor action.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) core.Action {
	k := km.keys
	switch {
	case key.Matches(msg, k.Escape):
		return core.ActionEscape
	case key.Matches(msg, k.Select):
		return core.ActionSelect
	case key.Matches(msg, k.Copy):
		return core.ActionCopy
	case key.Matches(msg, k.Cut):
		return core.ActionCut
	case key.Matches(msg, k.Fill):
		return core.ActionFill
	case key.Matches(msg, k.Teleport):
		return core.ActionTeleport
	case key.Matches(msg, k.Confirm):
		return core.ActionConfirm
	case key.Matches(msg, k.Home):
		return core.ActionHome
	case key.Matches(msg, k.Undo):
		return core.ActionUndo
	case key.Matches(msg, k.Redo):
		return core.ActionRedo
	case key.Matches(msg, k.Overwrite):
		return core.ActionOverwrite
	case key.Matches(msg, k.PanLeft):
		return core.ActionPanLeft
	case key.Matches(msg, k.PanRight):
		return core.ActionPanRight
	case key.Matches(msg, k.PanUp):
		return core.ActionPanUp
	case key.Matches(msg, k.PanDown):
		return core.ActionPanDown
	case key.Matches(msg, k.ZoomIn):
		return core.ActionZoomIn
	case key.Matches(msg, k.ZoomOut):
		return core.ActionZoomOut
	}
	return core.ActionNone
}

// MapMouseButton translates a Bubble Tea mouse button to a pointer button.
func MapMouseButton(b tea.MouseButton) core.Button {
	switch b {
	case tea.MouseButtonLeft:
		return core.ButtonLeft
	case tea.MouseButtonRight:
		return core.ButtonRight
	case tea.MouseButtonMiddle:
		return core.ButtonMiddle
	}
	return core.ButtonNone
}
