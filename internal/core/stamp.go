package core

// StampCell is one captured cell of a stamp, positioned relative to the
// stamp's minimum corner.
type StampCell struct {
	Offset GridIndex
	Block  Block
}

// Stamp is a captured multi-cell pattern that can be replayed at any anchor.
type Stamp []StampCell

// CaptureStamp reads every cell of region that lies on the map, row-major,
// with offsets relative to region.Start. Empty cells are captured too so a
// pasted stamp reproduces holes.
func CaptureStamp(m *Map, region Region) Stamp {
	bounds, ok := m.Bounds()
	if !ok {
		return nil
	}
	clipped, ok := region.Intersect(bounds)
	if !ok {
		return nil
	}
	stamp := make(Stamp, 0, clipped.Area())
	clipped.Each(func(idx GridIndex) {
		stamp = append(stamp, StampCell{Offset: idx.Sub(region.Start), Block: m.At(idx)})
	})
	return stamp
}

// Size returns the extent of the stamp in cells.
func (s Stamp) Size() (w, h int) {
	for _, c := range s {
		w = Max(w, c.Offset.X+1)
		h = Max(h, c.Offset.Y+1)
	}
	return w, h
}
