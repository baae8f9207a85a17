package editor

import (
	"fmt"

	"github.com/vovakirdan/blockedit/internal/core"
	"github.com/vovakirdan/blockedit/internal/fill"
	"github.com/vovakirdan/blockedit/internal/history"
)

// index converts a viewport pixel to a grid index. Caller holds e.mu.
func (e *Editor) index(p core.PixelPoint) core.GridIndex {
	idx, _ := e.camera.ScreenToGridIndex(&p, e.grid.BlockPixelSize())
	return idx
}

func (e *Editor) mapPixel(p core.PixelPoint) core.PixelPoint {
	return p.Add(e.camera.Position)
}

func (e *Editor) track(p core.PixelPoint) {
	e.pointer = &p
}

// PointerDown handles a button press in the viewport.
func (e *Editor) PointerDown(ev core.PointerEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.track(ev.Pos)
	idx := e.index(ev.Pos)

	switch e.mode {
	case ModeNone:
		if ev.Button == core.ButtonRight {
			return e.deleteBlock(idx, true)
		}

	case ModeAddBlock:
		switch ev.Button {
		case core.ButtonLeft:
			return e.placeBlock(idx, true)
		case core.ButtonRight:
			return e.deleteBlock(idx, true)
		}

	case ModeSelection:
		switch ev.Button {
		case core.ButtonLeft:
			e.sel.beginDrag(e.mapPixel(ev.Pos), idx)
		case core.ButtonRight:
			return e.deleteSelection(idx)
		}

	case ModeAddSelection:
		if ev.Button == core.ButtonLeft {
			return e.stamp(idx, true)
		}

	case ModeFill:
		if ev.Button == core.ButtonLeft {
			return e.fillAt(idx)
		}

	case ModeConnectTeleports:
		if ev.Button == core.ButtonLeft && e.grid.InBounds(idx) {
			e.linkTeleport(idx)
		}
	}
	return nil
}

// PointerMove handles pointer motion, with ev.Button held or ButtonNone.
// Drags that leave the map are ignored rather than reported.
func (e *Editor) PointerMove(ev core.PointerEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.track(ev.Pos)
	idx := e.index(ev.Pos)

	switch e.mode {
	case ModeAddBlock:
		switch ev.Button {
		case core.ButtonLeft:
			return e.placeBlock(idx, false)
		case core.ButtonRight:
			return e.deleteBlock(idx, false)
		}

	case ModeAddSelection:
		if ev.Button == core.ButtonLeft {
			if e.hasLastStamp && e.lastStamp == idx {
				return nil
			}
			return e.stamp(idx, false)
		}
	}
	return nil
}

// PointerUp handles a button release.
func (e *Editor) PointerUp(ev core.PointerEvent) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.track(ev.Pos)

	switch e.mode {
	case ModeSelection:
		if ev.Button == core.ButtonLeft {
			e.sel.endDrag(e.mapPixel(ev.Pos), e.grid.BlockPixelSize())
			if r, ok := e.sel.Region(); ok {
				e.logger.Debug("region selected", "region", r)
			}
		}
	case ModeAddSelection:
		e.hasLastStamp = false
	}
	return nil
}

// PointerLeave records that the pointer left the viewport.
func (e *Editor) PointerLeave() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pointer = nil
}

// Pointer returns the last pointer position inside the viewport.
func (e *Editor) Pointer() (core.PixelPoint, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.pointer == nil {
		return core.PixelPoint{}, false
	}
	return *e.pointer, true
}

// Key dispatches an action. Copy and Cut outside Selection mode are
// ignored; call Copy or Cut directly to receive the captured stamp.
func (e *Editor) Key(a core.Action) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch a {
	case core.ActionEscape:
		e.escapeLocked()
	case core.ActionCopy, core.ActionCut:
		if e.mode != ModeSelection {
			return nil
		}
		_, err := e.captureLocked(a == core.ActionCut)
		return err
	case core.ActionFill:
		e.toggleFillLocked()
	case core.ActionSelect:
		e.beginSelectionLocked()
	case core.ActionTeleport:
		e.beginTeleportLocked()
	case core.ActionConfirm:
		if e.mode == ModeConnectTeleports {
			return e.commitTeleportLocked()
		}
	case core.ActionHome:
		e.goToStartLocked()
	case core.ActionUndo:
		return e.undoLocked()
	case core.ActionRedo:
		return e.redoLocked()
	case core.ActionOverwrite:
		e.toggleOverwriteLocked()
	case core.ActionPanLeft:
		e.panLocked(-1, 0)
	case core.ActionPanRight:
		e.panLocked(1, 0)
	case core.ActionPanUp:
		e.panLocked(0, -1)
	case core.ActionPanDown:
		e.panLocked(0, 1)
	case core.ActionZoomIn:
		e.zoomStepLocked(1)
	case core.ActionZoomOut:
		e.zoomStepLocked(-1)
	}
	return nil
}

// placeBlock places the palette pick at idx. Caller holds e.mu.
func (e *Editor) placeBlock(idx core.GridIndex, strict bool) error {
	if e.sel.SelectedBlock == core.NoBlock {
		return fmt.Errorf("no block selected: %w", core.ErrInvalidOperation)
	}
	if !e.grid.InBounds(idx) {
		return outOfBounds(idx, strict)
	}
	op, err := history.NewPlaceBlocks(e.grid, []history.Placement{
		{Index: idx, Block: core.B(e.sel.SelectedBlock)},
	}, e.grid.Overwrite())
	if err != nil {
		return err
	}
	return e.execute(op)
}

// deleteBlock clears idx. Caller holds e.mu.
func (e *Editor) deleteBlock(idx core.GridIndex, strict bool) error {
	if !e.grid.InBounds(idx) {
		return outOfBounds(idx, strict)
	}
	op, err := history.NewClearBlocks(e.grid, []core.GridIndex{idx})
	if err != nil {
		return err
	}
	return e.execute(op)
}

// stamp replays the captured stamp at idx. Caller holds e.mu.
func (e *Editor) stamp(idx core.GridIndex, strict bool) error {
	if len(e.sel.Stamp) == 0 {
		return fmt.Errorf("nothing to paste: %w", core.ErrInvalidOperation)
	}
	if !e.grid.InBounds(idx) {
		return outOfBounds(idx, strict)
	}
	e.lastStamp = idx
	e.hasLastStamp = true
	op, err := history.NewBatchStamp(e.grid, idx, e.sel.Stamp, e.grid.Overwrite())
	if err != nil {
		return err
	}
	return e.execute(op)
}

// deleteSelection handles a right click in Selection mode: outside the
// finalized region it deletes the region and returns to None.
// Caller holds e.mu.
func (e *Editor) deleteSelection(idx core.GridIndex) error {
	region, ok := e.sel.Region()
	if ok && region.Contains(idx) {
		return nil
	}
	defer e.cleanup()
	if !ok {
		return nil
	}
	op, err := history.NewDeleteRegion(e.grid, region)
	if err != nil {
		return err
	}
	return e.execute(op)
}

// fillAt runs a fill for a click at idx. A click inside the finalized
// region fills the rectangle, elsewhere it floods from idx.
// Caller holds e.mu.
func (e *Editor) fillAt(idx core.GridIndex) error {
	target := e.sel.SelectedBlock
	if target == core.NoBlock {
		return fmt.Errorf("select a block to fill with: %w", core.ErrInvalidOperation)
	}
	region, hasRegion := e.sel.Region()
	e.sel.clearRegion()
	e.setMode(ModeNone)

	e.hub.publish(BusyChanged{Busy: true})
	defer e.hub.publish(BusyChanged{Busy: false})

	var changes []fill.Change
	if hasRegion && region.Contains(idx) {
		changes = fill.Rect(e.grid, target, region)
	} else {
		var err error
		changes, err = fill.Flood(e.grid, idx, target)
		if err != nil {
			return err
		}
	}

	placements := make([]history.Placement, len(changes))
	for i, c := range changes {
		placements[i] = history.Placement{Index: c.Index, Block: core.B(c.ID)}
	}
	// Fills replace content explicitly and ignore the overwrite flag.
	op, err := history.NewPlaceBlocks(e.grid, placements, true)
	if err != nil {
		return err
	}
	return e.execute(op)
}

func outOfBounds(idx core.GridIndex, strict bool) error {
	if !strict {
		return nil
	}
	return fmt.Errorf("cell %v: %w", idx, core.ErrOutOfBounds)
}
