// Package tui provides the Bubble Tea front end for the block editor.
// It maps terminal input onto editor operations, draws the editor's screen
// buffer, and serves editor sessions over SSH.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/blockedit/internal/core"
	"github.com/vovakirdan/blockedit/internal/editor"
	"github.com/vovakirdan/blockedit/internal/mapfile"
)

// EditorEventMsg carries an editor event into the Bubble Tea loop.
// FrameRendered events play the role of ticks: each one triggers a redraw.
type EditorEventMsg struct {
	Event editor.Event
}

// FileChangedMsg reports that the watched map file changed on disk.
type FileChangedMsg struct {
	Path string
}

// FileWatchErrorMsg reports a watcher failure.
type FileWatchErrorMsg struct {
	Err error
}

// FillDoneMsg reports that a fill click has been processed.
type FillDoneMsg struct {
	Err error
}

// runFill processes a fill click off the update loop so the status line can
// show the editor as busy while a large flood runs.
func runFill(ed *editor.Editor, ev core.PointerEvent) tea.Cmd {
	return func() tea.Msg {
		return FillDoneMsg{Err: ed.PointerDown(ev)}
	}
}

// waitForEvent returns a command that delivers the next editor event.
// It returns nil once the subscription is closed or ctx is done.
func waitForEvent(ctx context.Context, sub *editor.Subscription) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-sub.Events():
			if !ok {
				return nil
			}
			return EditorEventMsg{Event: evt}
		case <-sub.Done():
			return nil
		}
	}
}

// waitForFileChange returns a command that delivers the next watcher event.
func waitForFileChange(w *mapfile.Watcher) tea.Cmd {
	return func() tea.Msg {
		select {
		case path, ok := <-w.Events:
			if !ok {
				return nil
			}
			return FileChangedMsg{Path: path}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			return FileWatchErrorMsg{Err: err}
		}
	}
}
