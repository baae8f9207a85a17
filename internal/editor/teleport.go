package editor

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/vovakirdan/blockedit/internal/core"
	"github.com/vovakirdan/blockedit/internal/history"
	"github.com/vovakirdan/blockedit/internal/registry"
)

// teleportLink collects teleport cells that will share one option string.
type teleportLink struct {
	cells   []core.GridIndex
	options string
}

func (l *teleportLink) reset() {
	l.cells = nil
	l.options = ""
}

func (l *teleportLink) add(idx core.GridIndex) bool {
	if slices.Contains(l.cells, idx) {
		return false
	}
	l.cells = append(l.cells, idx)
	return true
}

// ColorToOptions converts a hex colour such as "#ff8800" to the decimal
// option string stored on teleport blocks. The empty string stays empty.
func ColorToOptions(hex string) (string, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if s == "" {
		return "", nil
	}
	v, err := strconv.ParseInt(s, 16, 32)
	if err != nil || v < 0 {
		return "", fmt.Errorf("colour %q is not a hex value: %w", hex, core.ErrInvalidOperation)
	}
	return strconv.FormatInt(v, 10), nil
}

// BeginTeleportLink enters ConnectTeleports mode with an empty link set.
func (e *Editor) BeginTeleportLink() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.beginTeleportLocked()
}

func (e *Editor) beginTeleportLocked() {
	e.sel.Clean()
	e.link.reset()
	e.setMode(ModeConnectTeleports)
}

// SetTeleportColor sets the link colour applied on commit.
func (e *Editor) SetTeleportColor(hex string) error {
	opts, err := ColorToOptions(hex)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.mode != ModeConnectTeleports {
		return fmt.Errorf("set teleport colour outside link mode: %w", core.ErrInvalidOperation)
	}
	e.link.options = opts
	return nil
}

// TeleportLink returns the pending link cells and option string.
func (e *Editor) TeleportLink() ([]core.GridIndex, string) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.link.cells), e.link.options
}

// CommitTeleportLink writes the option string to every linked cell as one
// operation and returns to None.
func (e *Editor) CommitTeleportLink() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.commitTeleportLocked()
}

func (e *Editor) commitTeleportLocked() error {
	if e.mode != ModeConnectTeleports {
		return fmt.Errorf("commit teleport link outside link mode: %w", core.ErrInvalidOperation)
	}
	if len(e.link.cells) == 0 {
		return fmt.Errorf("no teleports linked: %w", core.ErrInvalidOperation)
	}
	placements := make([]history.Placement, 0, len(e.link.cells))
	for _, idx := range e.link.cells {
		b, err := e.grid.Get(idx)
		if err != nil {
			return err
		}
		placements = append(placements, history.Placement{
			Index: idx,
			Block: core.Block{ID: b.ID, Options: e.link.options},
		})
	}
	op, err := history.NewPlaceBlocks(e.grid, placements, true)
	if err != nil {
		return err
	}
	if err := e.execute(op); err != nil {
		return err
	}
	e.cleanup()
	return nil
}

// isTeleport reports whether b links with other teleports.
func (e *Editor) isTeleport(b core.Block) bool {
	if b.IsEmpty() {
		return false
	}
	return b.ID == e.teleportBlock || e.palette.KindOf(b.ID) == registry.KindTeleport
}

// linkTeleport adds the teleport at idx to the pending set. Caller holds e.mu.
func (e *Editor) linkTeleport(idx core.GridIndex) {
	if !e.isTeleport(e.grid.At(idx)) {
		return
	}
	if e.link.add(idx) {
		e.logger.Debug("teleport linked", "index", idx, "count", len(e.link.cells))
	}
}
