package core

// Camera is the viewport over the map in pixel space. Position is the map
// pixel shown at the top-left of the viewport.
type Camera struct {
	Position   PixelPoint
	ScreenSize PixelPoint
}

// ScreenToGridIndex converts a viewport pixel to the grid cell under it.
// A nil point means the pointer is outside the viewport and yields false.
// The result may lie outside the map; callers check bounds.
func (c *Camera) ScreenToGridIndex(p *PixelPoint, blockPixelSize int) (GridIndex, bool) {
	if p == nil || blockPixelSize <= 0 {
		return GridIndex{}, false
	}
	return GI(
		FloorDiv(p.X+c.Position.X, blockPixelSize),
		FloorDiv(p.Y+c.Position.Y, blockPixelSize),
	), true
}

// GridIndexToScreen returns the viewport pixel of the top-left corner of idx.
func (c *Camera) GridIndexToScreen(idx GridIndex, blockPixelSize int) PixelPoint {
	return PP(idx.X*blockPixelSize-c.Position.X, idx.Y*blockPixelSize-c.Position.Y)
}

// CenterIndex returns the grid cell at the geometric centre of the viewport.
func (c *Camera) CenterIndex(blockPixelSize int) GridIndex {
	half := c.ScreenSize.Half()
	idx, _ := c.ScreenToGridIndex(&half, blockPixelSize)
	return idx
}

// CenterOn moves the camera so idx sits at the centre of the viewport.
func (c *Camera) CenterOn(idx GridIndex, blockPixelSize int) {
	half := c.ScreenSize.Half()
	c.Position = PP(idx.X*blockPixelSize-half.X, idx.Y*blockPixelSize-half.Y)
}

// OnZoomChanged switches the map to newBlockPixelSize and keeps the cell that
// was centred under the old size centred under the new one.
func (c *Camera) OnZoomChanged(m *Map, newBlockPixelSize int) {
	if newBlockPixelSize <= 0 {
		return
	}
	center := c.CenterIndex(m.BlockPixelSize())
	m.SetBlockPixelSize(newBlockPixelSize)
	c.CenterOn(center, newBlockPixelSize)
}

// OnResize records the new viewport size. Position is left unchanged.
func (c *Camera) OnResize(width, height int) {
	c.ScreenSize = PP(Max(width, 0), Max(height, 0))
}

// Pan moves the camera by a pixel delta.
func (c *Camera) Pan(dx, dy int) {
	c.Position = c.Position.Add(PP(dx, dy))
}
