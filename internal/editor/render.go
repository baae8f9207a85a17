package editor

import (
	"github.com/vovakirdan/blockedit/internal/core"
)

const (
	glyphEmpty   = '·'
	glyphUnknown = '?'
	glyphHover   = '+'
)

// Render draws the visible part of the map and the last overlay into dst.
// One screen cell is one pixel; a block covers BlockPixelSize² cells.
func (e *Editor) Render(dst *core.Screen) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	dst.Clear()
	size := e.grid.BlockPixelSize()
	o := e.overlay

	var stampCells map[core.GridIndex]core.Block
	if o.ShowStamp {
		stampCells = make(map[core.GridIndex]core.Block, len(e.sel.Stamp))
		for _, c := range e.sel.Stamp {
			stampCells[o.StampAt.Add(c.Offset)] = c.Block
		}
	}
	teleports := make(map[core.GridIndex]bool, len(o.Teleports))
	for _, idx := range o.Teleports {
		teleports[idx] = true
	}
	var drag core.Region
	if o.Dragging {
		drag = core.NewRegion(o.DragFrom, o.DragTo)
	}

	for y := 0; y < dst.Height(); y++ {
		for x := 0; x < dst.Width(); x++ {
			p := core.PP(x, y)
			idx, _ := e.camera.ScreenToGridIndex(&p, size)
			if !e.grid.InBounds(idx) {
				continue
			}
			origin := e.camera.GridIndexToScreen(idx, size)
			corner := origin.X == x && origin.Y == y

			r, c := e.cellGlyph(e.grid.At(idx), corner)
			if b, ok := stampCells[idx]; ok && !b.IsEmpty() {
				r, _ = e.cellGlyph(b, true)
				c = core.ColorGray
			}

			switch {
			case teleports[idx]:
				c = core.ColorBrightYellow
			case o.Dragging && drag.Contains(idx):
				c = core.ColorBrightCyan
				if r == ' ' || r == glyphEmpty {
					r = '░'
				}
			case o.HasRegion && o.Region.Contains(idx):
				c = core.ColorCyan
				if r == ' ' || r == glyphEmpty {
					r = '░'
				}
			}
			if o.HasHover && o.Hover == idx && corner && stampCells == nil {
				r, c = glyphHover, core.ColorBrightWhite
			}
			dst.SetColored(x, y, r, c)
		}
	}
}

// cellGlyph returns the rune and colour of one pixel of block b. Empty
// blocks show a dot in their top-left pixel only.
func (e *Editor) cellGlyph(b core.Block, corner bool) (rune, core.Color) {
	if b.IsEmpty() {
		if corner {
			return glyphEmpty, core.ColorGray
		}
		return ' ', core.ColorDefault
	}
	bt, ok := e.palette.Lookup(b.ID)
	if !ok {
		return glyphUnknown, core.ColorRed
	}
	return bt.Glyph, bt.Color
}
