package editor

import "github.com/vovakirdan/blockedit/internal/core"

// BlockSelection is the selection state of one editing session: the palette
// pick, the captured stamp and the region being dragged or finalized.
type BlockSelection struct {
	// SelectedBlock is the palette pick, core.NoBlock when nothing is picked.
	SelectedBlock core.BlockID

	// Stamp is the captured pattern replayed in AddSelection mode.
	Stamp core.Stamp

	region    core.Region
	hasRegion bool
	dragging  bool
	anchor    core.PixelPoint // map pixel where the drag started
}

func newBlockSelection() BlockSelection {
	return BlockSelection{SelectedBlock: core.NoBlock}
}

// Region returns the finalized selection region.
func (s *BlockSelection) Region() (core.Region, bool) {
	if !s.hasRegion || s.dragging {
		return core.Region{}, false
	}
	return s.region, true
}

// Clean drops the stamp and the region. The palette pick is kept.
func (s *BlockSelection) Clean() {
	s.Stamp = nil
	s.clearRegion()
}

func (s *BlockSelection) clearRegion() {
	s.region = core.Region{}
	s.hasRegion = false
	s.dragging = false
}

// beginDrag starts a region at the cell under mapPixel.
func (s *BlockSelection) beginDrag(mapPixel core.PixelPoint, idx core.GridIndex) {
	s.anchor = mapPixel
	s.region = core.Region{Start: idx, End: idx}
	s.hasRegion = true
	s.dragging = true
}

// endDrag finalizes the region to every cell overlapped by the half-open
// pixel rectangle between the drag anchor and mapPixel. A zero-size drag
// selects the cell under the pointer.
func (s *BlockSelection) endDrag(mapPixel core.PixelPoint, blockPixelSize int) {
	if !s.dragging {
		return
	}
	s.region = pixelSpan(s.anchor, mapPixel, blockPixelSize)
	s.dragging = false
}

// dragCorners returns the cells that endDrag would finalize for a drag from
// anchor to p, with from on the anchor's side and to on the pointer's side.
// The pair is not normalized.
func dragCorners(anchor, p core.PixelPoint, size int) (from, to core.GridIndex) {
	span := pixelSpan(anchor, p, size)
	from, to = span.Start, span.End
	if p.X < anchor.X {
		from.X, to.X = span.End.X, span.Start.X
	}
	if p.Y < anchor.Y {
		from.Y, to.Y = span.End.Y, span.Start.Y
	}
	return from, to
}

func pixelSpan(a, b core.PixelPoint, size int) core.Region {
	lo := core.PP(core.Min(a.X, b.X), core.Min(a.Y, b.Y))
	hi := core.PP(core.Max(a.X, b.X), core.Max(a.Y, b.Y))
	end := func(lo, hi int) int {
		if hi > lo {
			return core.FloorDiv(hi-1, size)
		}
		return core.FloorDiv(lo, size)
	}
	return core.Region{
		Start: core.GI(core.FloorDiv(lo.X, size), core.FloorDiv(lo.Y, size)),
		End:   core.GI(end(lo.X, hi.X), end(lo.Y, hi.Y)),
	}
}
