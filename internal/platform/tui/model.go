package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/blockedit/internal/core"
	"github.com/vovakirdan/blockedit/internal/editor"
	"github.com/vovakirdan/blockedit/internal/mapfile"
	"github.com/vovakirdan/blockedit/internal/registry"
	"github.com/vovakirdan/blockedit/internal/storage"
)

// Layout constants
const (
	paletteWidth     = 24 // Width of the block palette panel, borders included
	statusLines      = 1
	eventBufferSize  = 64
	defaultPauseWait = 2 * time.Second
)

// teleportColors are cycled by the teleport color key.
var teleportColors = []string{"#ff8800", "#00c8ff", "#ff3cac", "#7cff4f", "#ffe14d"}

// Clipboard is the system clipboard used for copy, cut and paste.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) ReadAll() (string, error) { return clipboard.ReadAll() }

func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// SystemClipboard returns the host clipboard, or nil when the platform has
// no clipboard utility.
func SystemClipboard() Clipboard {
	if clipboard.Unsupported {
		return nil
	}
	return systemClipboard{}
}

// EditorOptions configures an editor screen.
type EditorOptions struct {
	// Name is the map name used for the library.
	Name string
	// FilePath is the YAML file saved by ctrl+s. Empty saves to the library only.
	FilePath string
	// Store is the map library. May be nil.
	Store *storage.Store
	// Watch reloads FilePath when it changes on disk.
	Watch bool
	// Clipboard receives copied stamps. Nil keeps them inside the session.
	Clipboard Clipboard
	// PauseTimeout bounds how long a focus change waits for the frame loop.
	PauseTimeout time.Duration
	Logger       *log.Logger
}

// EditorModel is the Bubble Tea model for one editing session.
type EditorModel struct {
	editor    *editor.Editor
	sub       *editor.Subscription
	watcher   *mapfile.Watcher
	screen    *core.Screen
	keys      EditorKeyMap
	keyMapper *KeyMapper
	help      help.Model
	opts      EditorOptions
	logger    *log.Logger

	ctx    context.Context
	cancel context.CancelFunc

	width    int
	height   int
	centered bool
	pressed  core.Button
	paused   bool

	clipText   string
	colorIndex int

	status   string
	errMsg   string
	busy     bool
	dirty    bool
	savedRev uuid.UUID // editor revision at the last save or load
	quitting bool
}

// NewEditorModel creates the model for ed. The editor's frame loop is
// started by Init and stopped when the model quits.
func NewEditorModel(ctx context.Context, ed *editor.Editor, opts EditorOptions) (EditorModel, error) {
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.PauseTimeout <= 0 {
		opts.PauseTimeout = defaultPauseWait
	}
	if opts.Name == "" && opts.FilePath != "" {
		opts.Name = strings.TrimSuffix(filepath.Base(opts.FilePath), filepath.Ext(opts.FilePath))
	}

	var w *mapfile.Watcher
	if opts.Watch && opts.FilePath != "" {
		var err error
		w, err = mapfile.Watch(opts.FilePath)
		if err != nil {
			return EditorModel{}, err
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	keys := DefaultEditorKeyMap()
	h := help.New()
	h.ShowAll = false

	cam := ed.Camera()
	return EditorModel{
		editor:    ed,
		sub:       ed.Subscribe(eventBufferSize),
		watcher:   w,
		screen:    core.NewScreen(cam.ScreenSize.X, cam.ScreenSize.Y),
		keys:      keys,
		keyMapper: NewKeyMapper(keys),
		help:      h,
		opts:      opts,
		logger:    opts.Logger,
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// Init starts the frame loop and the event listeners.
func (m EditorModel) Init() tea.Cmd {
	m.editor.Start(m.ctx)
	cmds := []tea.Cmd{waitForEvent(m.ctx, m.sub)}
	if m.watcher != nil {
		cmds = append(cmds, waitForFileChange(m.watcher))
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model state.
func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.layout()
		if !m.centered {
			m.editor.GoToStartPosition()
			m.centered = true
		}
		return m, nil

	case tea.BlurMsg:
		m.pause()
		return m, nil

	case tea.FocusMsg:
		m.resume()
		return m, nil

	case EditorEventMsg:
		m.handleEvent(msg.Event)
		return m, waitForEvent(m.ctx, m.sub)

	case FillDoneMsg:
		m.busy = false
		m.showError(msg.Err)
		return m, nil

	case FileChangedMsg:
		m.reload(msg.Path)
		return m, waitForFileChange(m.watcher)

	case FileWatchErrorMsg:
		m.logger.Warn("map watcher error", "error", msg.Err)
		return m, waitForFileChange(m.watcher)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m EditorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.shutdown()
		return m, tea.Quit
	}
	// Any key dismisses an error.
	if m.errMsg != "" {
		m.errMsg = ""
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.shutdown()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.layout()

	case key.Matches(msg, m.keys.Save):
		m.showError(m.save())

	case key.Matches(msg, m.keys.Paste):
		m.showError(m.paste())

	case key.Matches(msg, m.keys.NextBlock):
		m.cyclePalette(1)

	case key.Matches(msg, m.keys.PrevBlock):
		m.cyclePalette(-1)

	case key.Matches(msg, m.keys.Color):
		m.showError(m.cycleTeleportColor())

	case key.Matches(msg, m.keys.Copy), key.Matches(msg, m.keys.Cut):
		if m.editor.Mode() == editor.ModeSelection {
			m.showError(m.capture(key.Matches(msg, m.keys.Cut)))
		}

	default:
		if action := m.keyMapper.MapKey(msg); action != core.ActionNone {
			m.showError(m.editor.Key(action))
		}
	}
	return m, nil
}

// handleMouse maps terminal mouse events onto viewport pointer events.
func (m EditorModel) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	vw, vh := m.viewportSize()
	viewport := core.NewRect(0, 0, vw, vh)
	inView := viewport.Contains(msg.X, msg.Y)
	pos := core.PP(msg.X, msg.Y)

	var err error
	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.editor.ZoomStep(1)
			return m, nil
		case tea.MouseButtonWheelDown:
			m.editor.ZoomStep(-1)
			return m, nil
		}
		if m.errMsg != "" {
			m.errMsg = ""
		}
		if !inView {
			if msg.X >= viewport.Right() && msg.Y < viewport.Bottom() {
				m.clickPalette(msg.Y)
			}
			return m, nil
		}
		m.pressed = MapMouseButton(msg.Button)
		ev := core.PointerEvent{Button: m.pressed, Pos: pos}
		if m.pressed == core.ButtonLeft && m.editor.Mode() == editor.ModeFill {
			m.busy = true
			return m, runFill(m.editor, ev)
		}
		err = m.editor.PointerDown(ev)

	case tea.MouseActionMotion:
		if !inView {
			m.editor.PointerLeave()
			return m, nil
		}
		err = m.editor.PointerMove(core.PointerEvent{Button: m.pressed, Pos: pos})

	case tea.MouseActionRelease:
		b := m.pressed
		m.pressed = core.ButtonNone
		if b == core.ButtonNone {
			return m, nil
		}
		err = m.editor.PointerUp(core.PointerEvent{Button: b, Pos: pos})
	}

	m.showError(err)
	return m, nil
}

func (m *EditorModel) handleEvent(evt editor.Event) {
	switch evt := evt.(type) {
	case editor.BusyChanged:
		m.busy = evt.Busy
	case editor.ContentChanged:
		m.dirty = m.editor.Revision() != m.savedRev
	case editor.ModeChanged:
		m.logger.Debug("mode changed", "mode", evt.Mode)
	}
}

// viewportSize returns the size of the map viewport in cells.
func (m EditorModel) viewportSize() (int, int) {
	w := m.width - paletteWidth
	h := m.height - statusLines - lipgloss.Height(m.help.View(m.keys))
	return max(w, 0), max(h, 0)
}

func (m *EditorModel) layout() {
	w, h := m.viewportSize()
	m.screen.Resize(w, h)
	m.editor.Resize(w, h)
}

func (m *EditorModel) pause() {
	if m.paused {
		return
	}
	ctx, cancel := context.WithTimeout(m.ctx, m.opts.PauseTimeout)
	defer cancel()
	if err := m.editor.Engine().Pause(ctx); err != nil {
		m.logger.Warn("could not pause frame loop", "error", err)
		return
	}
	m.paused = true
}

func (m *EditorModel) resume() {
	if !m.paused {
		return
	}
	m.paused = false
	if err := m.editor.Engine().Resume(m.ctx); err != nil {
		m.logger.Warn("could not resume frame loop", "error", err)
	}
}

func (m *EditorModel) showError(err error) {
	if err == nil {
		return
	}
	m.errMsg = err.Error()
	m.logger.Debug("editor error", "error", err)
}

// capture copies or cuts the selection and publishes it to the clipboard.
func (m *EditorModel) capture(cut bool) error {
	var (
		stamp core.Stamp
		err   error
	)
	if cut {
		stamp, err = m.editor.Cut()
	} else {
		stamp, err = m.editor.Copy()
	}
	if err != nil {
		return err
	}

	text, err := mapfile.EncodeStamp(stamp)
	if err != nil {
		return err
	}
	m.clipText = text
	if m.opts.Clipboard != nil {
		if err := m.opts.Clipboard.WriteAll(text); err != nil {
			m.logger.Warn("clipboard write failed", "error", err)
		}
	}
	m.status = fmt.Sprintf("copied %d cells", len(stamp))
	return nil
}

// paste loads a stamp from the clipboard, falling back to the last copy
// made in this session.
func (m *EditorModel) paste() error {
	text := m.clipText
	if m.opts.Clipboard != nil {
		if t, err := m.opts.Clipboard.ReadAll(); err == nil && strings.TrimSpace(t) != "" {
			text = t
		}
	}
	if text == "" {
		return errors.New("clipboard is empty")
	}
	stamp, err := mapfile.DecodeStamp(text)
	if err != nil {
		return err
	}
	return m.editor.PasteStamp(stamp)
}

// save writes the map to its file and to the library.
func (m *EditorModel) save() error {
	if m.opts.FilePath == "" && (m.opts.Store == nil || m.opts.Name == "") {
		return errors.New("nowhere to save: no file and no library name")
	}
	doc := mapfile.Document{Name: m.opts.Name, Map: m.editor.Snapshot()}

	var targets []string
	if m.opts.FilePath != "" {
		if err := mapfile.Save(m.opts.FilePath, doc); err != nil {
			return err
		}
		targets = append(targets, m.opts.FilePath)
	}
	if m.opts.Store != nil && m.opts.Name != "" {
		if err := m.opts.Store.SaveMap(doc); err != nil {
			return err
		}
		targets = append(targets, "library")
	}

	m.dirty = false
	m.savedRev = m.editor.Revision()
	m.status = "saved to " + strings.Join(targets, ", ")
	m.logger.Info("map saved", "name", m.opts.Name, "targets", targets)
	return nil
}

// reload replaces the map with the file on disk unless it matches what is
// being edited, as it does right after a save.
func (m *EditorModel) reload(path string) {
	current := m.editor.Snapshot()
	doc, err := mapfile.Load(path, current.BlockPixelSize())
	if err != nil {
		m.showError(err)
		return
	}
	if doc.Map.Equal(current) {
		return
	}

	ctx, cancel := context.WithTimeout(m.ctx, m.opts.PauseTimeout)
	defer cancel()
	if err := m.editor.LoadMap(ctx, doc.Map); err != nil {
		m.showError(err)
		return
	}
	m.dirty = false
	m.savedRev = uuid.Nil
	m.status = "reloaded " + filepath.Base(path)
	m.logger.Info("map reloaded", "path", path)
}

func (m *EditorModel) cyclePalette(delta int) {
	types := m.editor.Palette().Types()
	if len(types) == 0 {
		return
	}
	i := paletteIndex(types, m.editor.SelectedBlock())
	switch {
	case i < 0 && delta > 0:
		i = 0
	case i < 0:
		i = len(types) - 1
	default:
		i = (i + delta + len(types)) % len(types)
	}
	m.editor.SelectBlock(types[i].ID)
}

func (m *EditorModel) cycleTeleportColor() error {
	if m.editor.Mode() != editor.ModeConnectTeleports {
		return nil
	}
	c := teleportColors[m.colorIndex%len(teleportColors)]
	m.colorIndex++
	if err := m.editor.SetTeleportColor(c); err != nil {
		return err
	}
	m.status = "teleport color " + c
	return nil
}

// clickPalette selects the block on palette panel row y.
func (m *EditorModel) clickPalette(y int) {
	types := m.editor.Palette().Types()
	_, vh := m.viewportSize()
	row := y - 2 + paletteOffset(types, m.editor.SelectedBlock(), paletteRows(vh))
	if row >= 0 && row < len(types) && y >= 2 {
		m.editor.SelectBlock(types[row].ID)
	}
}

func (m *EditorModel) shutdown() {
	m.quitting = true
	if m.paused {
		m.resume()
	}
	m.cancel()
	m.editor.Stop()
	m.sub.Close()
	if m.watcher != nil {
		if err := m.watcher.Close(); err != nil {
			m.logger.Warn("closing map watcher", "error", err)
		}
	}
}

// View renders the viewport, palette, status line and help.
func (m EditorModel) View() string {
	if m.quitting {
		return ""
	}

	m.editor.Render(m.screen)
	_, vh := m.viewportSize()
	body := lipgloss.JoinHorizontal(lipgloss.Top, RenderScreen(m.screen), m.renderPalette(vh))

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	return lipgloss.JoinVertical(lipgloss.Left,
		body,
		m.renderStatus(),
		helpStyle.Render(m.help.View(m.keys)),
	)
}

func paletteIndex(types []registry.BlockType, id core.BlockID) int {
	for i, bt := range types {
		if bt.ID == id {
			return i
		}
	}
	return -1
}

// paletteRows is the number of block rows that fit in a panel of height h.
func paletteRows(h int) int {
	return max(h-3, 1)
}

// paletteOffset scrolls the list so the selected block stays visible.
func paletteOffset(types []registry.BlockType, id core.BlockID, rows int) int {
	i := paletteIndex(types, id)
	if i < rows {
		return 0
	}
	return i - rows + 1
}

func (m EditorModel) renderPalette(height int) string {
	panelStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(paletteWidth - 2)
	if height > 2 {
		panelStyle = panelStyle.Height(height - 2)
	}

	types := m.editor.Palette().Types()
	selected := m.editor.SelectedBlock()
	rows := paletteRows(height)
	offset := paletteOffset(types, selected, rows)

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("Blocks"))
	for i := offset; i < len(types) && i < offset+rows; i++ {
		bt := types[i]
		cursor := "  "
		nameStyle := lipgloss.NewStyle()
		if bt.ID == selected {
			cursor = "> "
			nameStyle = nameStyle.Bold(true).Foreground(lipgloss.Color("229"))
		}
		name := bt.Name
		if maxLen := paletteWidth - 8; len(name) > maxLen {
			name = name[:maxLen-1] + "."
		}
		b.WriteString("\n")
		b.WriteString(cursor)
		b.WriteString(colorStyle(bt.Color).Render(string(bt.Glyph)))
		b.WriteString(" ")
		b.WriteString(nameStyle.Render(name))
	}
	return panelStyle.Render(b.String())
}

func (m EditorModel) renderStatus() string {
	if m.errMsg != "" {
		errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
		return errStyle.Render("error: " + m.errMsg + "  (press any key)")
	}

	block := "none"
	if id := m.editor.SelectedBlock(); id != core.NoBlock {
		block = id.String()
		if bt, ok := m.editor.Palette().Lookup(id); ok {
			block = bt.Name
		}
	}
	undo, redo := m.editor.HistoryDepth()

	name := m.opts.Name
	if m.dirty {
		name += "*"
	}
	var parts []string
	if name != "" {
		parts = append(parts, name)
	}
	parts = append(parts,
		"mode: "+m.editor.Mode().String(),
		"block: "+block,
		fmt.Sprintf("zoom: %d", m.editor.BlockPixelSize()),
		fmt.Sprintf("overwrite: %t", m.editor.Overwrite()),
		fmt.Sprintf("undo %d/redo %d", undo, redo),
	)
	if m.editor.Mode() == editor.ModeConnectTeleports {
		cells, options := m.editor.TeleportLink()
		parts = append(parts, fmt.Sprintf("linked: %d (%s)", len(cells), options))
	}
	if m.busy {
		parts = append(parts, "working...")
	}
	if m.paused {
		parts = append(parts, "paused")
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}

	statusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236"))
	line := strings.Join(parts, " | ")
	if m.width > 0 {
		statusStyle = statusStyle.Width(m.width).MaxWidth(m.width).MaxHeight(statusLines)
	}
	return statusStyle.Render(line)
}

// Run starts the Bubble Tea program for an editing session.
func Run(ctx context.Context, ed *editor.Editor, opts EditorOptions) error {
	model, err := NewEditorModel(ctx, ed, opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
		tea.WithContext(ctx),
	)

	final, err := p.Run()
	if fm, ok := final.(EditorModel); ok {
		fm.shutdown()
	} else {
		model.shutdown()
	}
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
