package editor

import (
	"slices"

	"github.com/vovakirdan/blockedit/internal/core"
)

// Overlay is the transient decoration drawn over the grid. The frame loop
// recomputes it from the pointer and selection state; it never touches the
// grid itself.
type Overlay struct {
	Mode Mode

	Hover    core.GridIndex
	HasHover bool

	// DragFrom and DragTo are the corner cells on the anchor's and the
	// pointer's side of the cells a release would select. They are not
	// normalized while the drag is live.
	DragFrom core.GridIndex
	DragTo   core.GridIndex
	Dragging bool

	Region    core.Region
	HasRegion bool

	// StampAt is where the captured stamp would land on the next click.
	StampAt   core.GridIndex
	ShowStamp bool

	Teleports []core.GridIndex
}

func (o Overlay) equal(p Overlay) bool {
	return o.Mode == p.Mode &&
		o.Hover == p.Hover && o.HasHover == p.HasHover &&
		o.DragFrom == p.DragFrom && o.DragTo == p.DragTo && o.Dragging == p.Dragging &&
		o.Region == p.Region && o.HasRegion == p.HasRegion &&
		o.StampAt == p.StampAt && o.ShowStamp == p.ShowStamp &&
		slices.Equal(o.Teleports, p.Teleports)
}

// computeOverlay builds the overlay from the current state. Caller holds e.mu.
func (e *Editor) computeOverlay() Overlay {
	o := Overlay{Mode: e.mode}
	size := e.grid.BlockPixelSize()

	if idx, ok := e.camera.ScreenToGridIndex(e.pointer, size); ok && e.grid.InBounds(idx) {
		o.Hover = idx
		o.HasHover = true
		if e.mode == ModeAddSelection && len(e.sel.Stamp) > 0 {
			o.StampAt = idx
			o.ShowStamp = true
		}
	}

	if e.sel.dragging {
		o.Dragging = true
		end := e.sel.anchor
		if e.pointer != nil {
			end = e.mapPixel(*e.pointer)
		}
		o.DragFrom, o.DragTo = dragCorners(e.sel.anchor, end, size)
	}
	if r, ok := e.sel.Region(); ok {
		o.Region = r
		o.HasRegion = true
	}
	if len(e.link.cells) > 0 {
		o.Teleports = slices.Clone(e.link.cells)
	}
	return o
}

// frame is the frame loop callback.
func (e *Editor) frame(tick uint64) {
	e.mu.Lock()
	next := e.computeOverlay()
	changed := !next.equal(e.overlay)
	if changed {
		e.overlay = next
	}
	e.mu.Unlock()

	if changed {
		e.hub.publish(FrameRendered{Tick: tick})
	}
}

// Overlay returns the overlay of the last frame.
func (e *Editor) Overlay() Overlay {
	e.mu.RLock()
	defer e.mu.RUnlock()
	o := e.overlay
	o.Teleports = slices.Clone(o.Teleports)
	return o
}
