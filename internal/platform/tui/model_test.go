package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/blockedit/internal/core"
	"github.com/vovakirdan/blockedit/internal/editor"
	"github.com/vovakirdan/blockedit/internal/mapfile"
)

type fakeClipboard struct {
	text string
}

func (c *fakeClipboard) ReadAll() (string, error) { return c.text, nil }

func (c *fakeClipboard) WriteAll(text string) error {
	c.text = text
	return nil
}

func newTestModel(t *testing.T, opts EditorOptions) (EditorModel, *editor.Editor) {
	t.Helper()
	return newTestModelWith(t, editor.Options{}, opts)
}

func newTestModelWith(t *testing.T, edOpts editor.Options, opts EditorOptions) (EditorModel, *editor.Editor) {
	t.Helper()
	ed := editor.New(core.NewMap(20, 10, 2), edOpts)
	m, err := NewEditorModel(context.Background(), ed, opts)
	if err != nil {
		t.Fatalf("NewEditorModel() failed: %v", err)
	}
	t.Cleanup(m.shutdown)
	m = update(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})
	return m, ed
}

func update(t *testing.T, m EditorModel, msg tea.Msg) EditorModel {
	t.Helper()
	next, _ := m.Update(msg)
	em, ok := next.(EditorModel)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return em
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func mouse(action tea.MouseAction, b tea.MouseButton, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: b}
}

// at returns a mouse event over the top-left pixel of grid cell (x, y),
// shifted by (dx, dy) pixels.
func at(ed *editor.Editor, action tea.MouseAction, b tea.MouseButton, x, y, dx, dy int) tea.MouseMsg {
	cam := ed.Camera()
	p := cam.GridIndexToScreen(core.GI(x, y), ed.BlockPixelSize())
	return mouse(action, b, p.X+dx, p.Y+dy)
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper(DefaultEditorKeyMap())

	tests := []struct {
		msg  tea.KeyMsg
		want core.Action
	}{
		{tea.KeyMsg{Type: tea.KeyEsc}, core.ActionEscape},
		{runes("s"), core.ActionSelect},
		{runes("c"), core.ActionCopy},
		{runes("x"), core.ActionCut},
		{runes("f"), core.ActionFill},
		{runes("t"), core.ActionTeleport},
		{tea.KeyMsg{Type: tea.KeyEnter}, core.ActionConfirm},
		{tea.KeyMsg{Type: tea.KeyHome}, core.ActionHome},
		{tea.KeyMsg{Type: tea.KeyCtrlZ}, core.ActionUndo},
		{tea.KeyMsg{Type: tea.KeyCtrlY}, core.ActionRedo},
		{runes("o"), core.ActionOverwrite},
		{tea.KeyMsg{Type: tea.KeyLeft}, core.ActionPanLeft},
		{tea.KeyMsg{Type: tea.KeyRight}, core.ActionPanRight},
		{tea.KeyMsg{Type: tea.KeyUp}, core.ActionPanUp},
		{tea.KeyMsg{Type: tea.KeyDown}, core.ActionPanDown},
		{runes("+"), core.ActionZoomIn},
		{runes("-"), core.ActionZoomOut},
		{runes("z"), core.ActionNone},
		{tea.KeyMsg{Type: tea.KeyCtrlS}, core.ActionNone},
	}
	for _, tt := range tests {
		t.Run(tt.msg.String(), func(t *testing.T) {
			if got := km.MapKey(tt.msg); got != tt.want {
				t.Errorf("MapKey(%q) = %v, want %v", tt.msg.String(), got, tt.want)
			}
		})
	}
}

func TestMouseDrawsBlocks(t *testing.T) {
	m, ed := newTestModel(t, EditorOptions{})
	ed.SelectBlock(1)

	m = update(t, m, at(ed, tea.MouseActionPress, tea.MouseButtonLeft, 1, 1, 0, 0))
	m = update(t, m, at(ed, tea.MouseActionMotion, tea.MouseButtonLeft, 2, 1, 0, 0))
	m = update(t, m, at(ed, tea.MouseActionRelease, tea.MouseButtonNone, 2, 1, 0, 0))

	snap := ed.Snapshot()
	if snap.At(core.GI(1, 1)).ID != 1 || snap.At(core.GI(2, 1)).ID != 1 {
		t.Error("mouse drag did not place blocks")
	}
	if m.errMsg != "" {
		t.Errorf("unexpected error: %s", m.errMsg)
	}

	m = update(t, m, at(ed, tea.MouseActionPress, tea.MouseButtonRight, 1, 1, 0, 0))
	if ed.Snapshot().At(core.GI(1, 1)).ID != core.NoBlock {
		t.Error("right click did not delete")
	}
}

func TestCopyPasteThroughClipboard(t *testing.T) {
	clip := &fakeClipboard{}
	m, ed := newTestModel(t, EditorOptions{Clipboard: clip})
	ed.SelectBlock(3)
	m = update(t, m, at(ed, tea.MouseActionPress, tea.MouseButtonLeft, 0, 0, 0, 0))
	m = update(t, m, at(ed, tea.MouseActionRelease, tea.MouseButtonLeft, 0, 0, 0, 0))

	m = update(t, m, runes("s"))
	m = update(t, m, at(ed, tea.MouseActionPress, tea.MouseButtonLeft, 0, 0, 0, 0))
	m = update(t, m, at(ed, tea.MouseActionRelease, tea.MouseButtonLeft, 1, 1, 1, 1))
	if region, ok := ed.Region(); !ok || region != core.NewRegion(core.GI(0, 0), core.GI(1, 1)) {
		t.Fatalf("Region() = %v, %v", region, ok)
	}

	m = update(t, m, runes("c"))
	if m.errMsg != "" {
		t.Fatalf("copy failed: %s", m.errMsg)
	}
	if !strings.Contains(clip.text, "blockedit_stamp") {
		t.Fatalf("clipboard text = %q", clip.text)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if ed.Mode() != editor.ModeNone {
		t.Fatalf("mode = %v after esc", ed.Mode())
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlV})
	if ed.Mode() != editor.ModeAddSelection {
		t.Fatalf("mode = %v after paste, want AddSelection", ed.Mode())
	}
	m = update(t, m, at(ed, tea.MouseActionPress, tea.MouseButtonLeft, 5, 5, 0, 0))
	if ed.Snapshot().At(core.GI(5, 5)).ID != 3 {
		t.Error("pasted stamp not placed")
	}
}

func TestPasteRejectsForeignText(t *testing.T) {
	m, ed := newTestModel(t, EditorOptions{Clipboard: &fakeClipboard{text: "hello"}})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlV})
	if m.errMsg == "" {
		t.Error("expected an error for non-stamp clipboard text")
	}
	if ed.Mode() != editor.ModeNone {
		t.Errorf("mode = %v, want None", ed.Mode())
	}
}

func TestErrorDismissedByAnyKey(t *testing.T) {
	m, ed := newTestModel(t, EditorOptions{})
	m = update(t, m, runes("f"))
	m = update(t, m, at(ed, tea.MouseActionPress, tea.MouseButtonLeft, 1, 1, 0, 0))
	if m.errMsg == "" {
		t.Fatal("fill without a pick should report an error")
	}

	m = update(t, m, runes("s"))
	if m.errMsg != "" {
		t.Error("key did not dismiss the error")
	}
	if ed.Mode() != editor.ModeFill {
		t.Errorf("dismissing key was also handled: mode = %v", ed.Mode())
	}
}

func TestSaveWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "level.yaml")
	m, ed := newTestModel(t, EditorOptions{FilePath: path})
	ed.SelectBlock(4)
	m = update(t, m, at(ed, tea.MouseActionPress, tea.MouseButtonLeft, 3, 2, 0, 0))
	m = update(t, m, EditorEventMsg{Event: editor.ContentChanged{}})
	if !m.dirty {
		t.Fatal("content change did not mark the model dirty")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.errMsg != "" {
		t.Fatalf("save failed: %s", m.errMsg)
	}
	if m.dirty {
		t.Error("model still dirty after save")
	}

	doc, err := mapfile.Load(path, 2)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if doc.Name != "level" {
		t.Errorf("Name = %q, want level", doc.Name)
	}
	if !doc.Map.Equal(ed.Snapshot()) {
		t.Error("saved file differs from the editor map")
	}
}

func TestSaveWithoutTarget(t *testing.T) {
	m, _ := newTestModel(t, EditorOptions{})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.errMsg == "" {
		t.Error("save without a file or library should fail")
	}
}

func TestPaletteCycle(t *testing.T) {
	m, ed := newTestModel(t, EditorOptions{})
	types := ed.Palette().Types()

	m = update(t, m, runes("]"))
	if ed.SelectedBlock() != types[0].ID {
		t.Errorf("first ] picked %v, want %v", ed.SelectedBlock(), types[0].ID)
	}
	m = update(t, m, runes("["))
	if ed.SelectedBlock() != types[len(types)-1].ID {
		t.Errorf("[ picked %v, want %v", ed.SelectedBlock(), types[len(types)-1].ID)
	}
	_ = m
}

func TestFocusPausesFrameLoop(t *testing.T) {
	m, ed := newTestModel(t, EditorOptions{})
	m = update(t, m, tea.BlurMsg{})
	if !ed.Engine().Paused() {
		t.Fatal("blur did not pause the frame loop")
	}
	m = update(t, m, tea.BlurMsg{})
	m = update(t, m, tea.FocusMsg{})
	if ed.Engine().Paused() {
		t.Error("focus did not resume the frame loop")
	}
	_ = m
}

func TestViewShowsStatus(t *testing.T) {
	m, ed := newTestModel(t, EditorOptions{Name: "arena"})
	ed.SelectBlock(1)
	view := m.View()
	for _, want := range []string{"mode: Add Block", "arena", "Blocks"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestQuitStopsSession(t *testing.T) {
	m, _ := newTestModel(t, EditorOptions{})
	next, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Fatal("quit returned no command")
	}
	em := next.(EditorModel)
	if em.View() != "" {
		t.Error("view after quit should be empty")
	}
	select {
	case <-em.sub.Done():
	default:
		t.Error("subscription not closed on quit")
	}
}

func TestFillRunsAsCommand(t *testing.T) {
	m, ed := newTestModel(t, EditorOptions{})
	ed.SelectBlock(3)
	m = update(t, m, runes("f"))
	if ed.Mode() != editor.ModeFill {
		t.Fatalf("Mode() = %v, expected Fill", ed.Mode())
	}

	next, cmd := m.Update(at(ed, tea.MouseActionPress, tea.MouseButtonLeft, 4, 4, 0, 0))
	m = next.(EditorModel)
	if cmd == nil {
		t.Fatal("fill click should return a command")
	}
	if !m.busy {
		t.Error("model should be busy while the fill runs")
	}
	if ed.Snapshot().Count() != 0 {
		t.Error("fill ran inside Update")
	}

	done, ok := cmd().(FillDoneMsg)
	if !ok {
		t.Fatal("fill command did not report completion")
	}
	m = update(t, m, done)
	if m.busy {
		t.Error("model still busy after the fill finished")
	}
	if m.errMsg != "" {
		t.Errorf("unexpected error: %s", m.errMsg)
	}
	if n := ed.Snapshot().Count(); n != 20*10 {
		t.Errorf("filled %d cells, expected the whole map", n)
	}
	if ed.Mode() != editor.ModeNone {
		t.Errorf("Mode() = %v after fill, expected None", ed.Mode())
	}
}

func TestFillWithoutPickReportsError(t *testing.T) {
	m, ed := newTestModel(t, EditorOptions{})
	m = update(t, m, runes("f"))

	next, cmd := m.Update(at(ed, tea.MouseActionPress, tea.MouseButtonLeft, 1, 1, 0, 0))
	m = update(t, next.(EditorModel), cmd())
	if m.busy {
		t.Error("model still busy after a failed fill")
	}
	if m.errMsg == "" {
		t.Error("fill without a block should show an error")
	}
}

func TestDirtyAtHistoryLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "level.yaml")
	m, ed := newTestModelWith(t, editor.Options{HistoryLimit: 2}, EditorOptions{FilePath: path})
	ed.SelectBlock(1)

	place := func(x int) {
		t.Helper()
		m = update(t, m, at(ed, tea.MouseActionPress, tea.MouseButtonLeft, x, 0, 0, 0))
		m = update(t, m, at(ed, tea.MouseActionRelease, tea.MouseButtonNone, x, 0, 0, 0))
		m = update(t, m, EditorEventMsg{Event: editor.ContentChanged{}})
	}
	for x := 0; x < 3; x++ {
		place(x)
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.errMsg != "" {
		t.Fatalf("save failed: %s", m.errMsg)
	}
	if m.dirty {
		t.Fatal("model dirty right after save")
	}

	place(3)
	if undo, _ := ed.HistoryDepth(); undo != 2 {
		t.Fatalf("undo depth = %d, expected the limit", undo)
	}
	if !m.dirty {
		t.Error("an edit after saving at the history limit should mark the model dirty")
	}

	if err := ed.Undo(); err != nil {
		t.Fatal(err)
	}
	m = update(t, m, EditorEventMsg{Event: editor.ContentChanged{}})
	if m.dirty {
		t.Error("undoing back to the saved content should clear dirty")
	}
}
