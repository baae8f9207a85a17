package core

import "fmt"

// DefaultBlockPixelSize is the block size used when a map is created
// without an explicit zoom.
const DefaultBlockPixelSize = 2

// MaxDimension is the largest map width or height, in blocks.
const MaxDimension = 1024

// CheckSize reports whether a map of width x height blocks can be created.
func CheckSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("map size %dx%d must be positive", width, height)
	}
	if width > MaxDimension || height > MaxDimension {
		return fmt.Errorf("map size %dx%d exceeds %dx%d: %w", width, height, MaxDimension, MaxDimension, ErrOutOfBounds)
	}
	return nil
}

// Map is the block grid being edited. Cells are stored row-major and every
// stored index lies inside [0,W) x [0,H).
// Map is not safe for concurrent use; the editor serializes access.
type Map struct {
	width          int
	height         int
	cells          []Block
	blockPixelSize int
	overwrite      bool
}

// NewMap creates an empty map. Non-positive dimensions yield an empty grid,
// dimensions above MaxDimension are cut to it, and a non-positive block size
// falls back to DefaultBlockPixelSize. Use CheckSize to reject bad sizes.
func NewMap(width, height, blockPixelSize int) *Map {
	width = Min(Max(width, 0), MaxDimension)
	height = Min(Max(height, 0), MaxDimension)
	if blockPixelSize <= 0 {
		blockPixelSize = DefaultBlockPixelSize
	}
	m := &Map{
		width:          width,
		height:         height,
		cells:          make([]Block, width*height),
		blockPixelSize: blockPixelSize,
		overwrite:      true,
	}
	for i := range m.cells {
		m.cells[i] = EmptyBlock
	}
	return m
}

// W returns the number of columns.
func (m *Map) W() int { return m.width }

// H returns the number of rows.
func (m *Map) H() int { return m.height }

// Bounds returns the region covering the whole map and false if the map has
// no cells.
func (m *Map) Bounds() (Region, bool) {
	if m.width == 0 || m.height == 0 {
		return Region{}, false
	}
	return Region{Start: GI(0, 0), End: GI(m.width-1, m.height-1)}, true
}

// BlockPixelSize returns the edge length of one block in pixels.
func (m *Map) BlockPixelSize() int { return m.blockPixelSize }

// SetBlockPixelSize changes the zoom. Non-positive sizes are ignored.
func (m *Map) SetBlockPixelSize(size int) {
	if size > 0 {
		m.blockPixelSize = size
	}
}

// PixelSize returns the map extent in pixels at the current zoom.
func (m *Map) PixelSize() PixelPoint {
	return PP(m.width*m.blockPixelSize, m.height*m.blockPixelSize)
}

// Overwrite reports whether single placements may replace occupied cells.
func (m *Map) Overwrite() bool { return m.overwrite }

// SetOverwrite sets the overwrite flag.
func (m *Map) SetOverwrite(v bool) { m.overwrite = v }

// InBounds reports whether idx addresses a cell of the map.
func (m *Map) InBounds(idx GridIndex) bool {
	return idx.X >= 0 && idx.X < m.width && idx.Y >= 0 && idx.Y < m.height
}

func (m *Map) offset(idx GridIndex) int {
	return idx.Y*m.width + idx.X
}

// Get returns the block at idx.
func (m *Map) Get(idx GridIndex) (Block, error) {
	if !m.InBounds(idx) {
		return EmptyBlock, fmt.Errorf("get %v in %dx%d map: %w", idx, m.width, m.height, ErrOutOfBounds)
	}
	return m.cells[m.offset(idx)], nil
}

// At returns the block at idx, or EmptyBlock when idx is outside the map.
func (m *Map) At(idx GridIndex) Block {
	if !m.InBounds(idx) {
		return EmptyBlock
	}
	return m.cells[m.offset(idx)]
}

// Set stores b at idx. Out-of-bounds indices are rejected, never clamped.
func (m *Map) Set(idx GridIndex, b Block) error {
	if !m.InBounds(idx) {
		return fmt.Errorf("set %v in %dx%d map: %w", idx, m.width, m.height, ErrOutOfBounds)
	}
	m.cells[m.offset(idx)] = b
	return nil
}

// Each calls fn for every cell in row-major order.
func (m *Map) Each(fn func(idx GridIndex, b Block)) {
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			fn(GI(x, y), m.cells[y*m.width+x])
		}
	}
}

// Count returns the number of non-empty cells.
func (m *Map) Count() int {
	n := 0
	for _, b := range m.cells {
		if !b.IsEmpty() {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of the map.
func (m *Map) Clone() *Map {
	c := *m
	c.cells = make([]Block, len(m.cells))
	copy(c.cells, m.cells)
	return &c
}

// Equal reports whether two maps have the same size and cell contents.
// Zoom and the overwrite flag are not compared.
func (m *Map) Equal(o *Map) bool {
	if m == nil || o == nil {
		return m == o
	}
	if m.width != o.width || m.height != o.height {
		return false
	}
	for i := range m.cells {
		if m.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}
