package editor

import (
	"testing"

	"github.com/vovakirdan/blockedit/internal/core"
	"github.com/vovakirdan/blockedit/internal/registry"
)

func TestRenderBlocks(t *testing.T) {
	m := core.NewMap(3, 2, 2)
	_ = m.Set(core.GI(1, 0), core.B(4))
	e := New(m, Options{Palette: registry.NewPalette(
		registry.BlockType{ID: 4, Name: "Wall", Glyph: 'W', Color: core.ColorGreen},
	)})
	e.Resize(8, 4)
	scr := core.NewScreen(8, 4)
	e.Render(scr)

	for _, p := range [][2]int{{2, 0}, {3, 0}, {2, 1}, {3, 1}} {
		cell := scr.GetCell(p[0], p[1])
		if cell.Rune != 'W' || cell.Color != core.ColorGreen {
			t.Errorf("cell %v = %+v, expected green W", p, cell)
		}
	}
	if scr.Get(0, 0) != glyphEmpty || scr.Get(1, 0) != ' ' {
		t.Error("empty block should show a dot in its corner only")
	}
	if scr.Get(6, 0) != ' ' {
		t.Error("pixels off the map should stay blank")
	}
}

func TestRenderOverlay(t *testing.T) {
	e := newTestEditor(4, 4, 1)
	e.Resize(4, 4)
	e.BeginSelection()
	down(t, e, core.ButtonLeft, 0, 0)
	up(t, e, core.ButtonLeft, 2, 2)
	if err := e.PointerMove(core.PointerEvent{Pos: core.PP(3, 3)}); err != nil {
		t.Fatal(err)
	}
	e.frame(1)

	scr := core.NewScreen(4, 4)
	e.Render(scr)
	if scr.GetCell(1, 1).Color != core.ColorCyan {
		t.Error("selected region should be highlighted")
	}
	if scr.Get(3, 3) != glyphHover {
		t.Error("hovered cell should show the cursor")
	}
}
