// Package core provides the fundamental types of the block editor: grid
// indices, pixel points, blocks, the map grid, regions, the camera and the
// input events handed to the editing kernel.
// It contains no external dependencies (especially no Bubble Tea) so the
// kernel stays pure and testable.
package core

import "fmt"

// GridIndex addresses a single cell of the map grid.
// X is the column and Y the row.
type GridIndex struct {
	X int
	Y int
}

// GI is a convenience constructor for GridIndex.
func GI(x, y int) GridIndex {
	return GridIndex{X: x, Y: y}
}

// String returns a string representation of the index.
func (i GridIndex) String() string {
	return fmt.Sprintf("(%d,%d)", i.X, i.Y)
}

// Add returns the index offset by another index.
func (i GridIndex) Add(o GridIndex) GridIndex {
	return GridIndex{X: i.X + o.X, Y: i.Y + o.Y}
}

// Sub returns the offset from o to i.
func (i GridIndex) Sub(o GridIndex) GridIndex {
	return GridIndex{X: i.X - o.X, Y: i.Y - o.Y}
}

// Neighbors4 returns the four edge-adjacent indices (right, left, down, up).
func (i GridIndex) Neighbors4() [4]GridIndex {
	return [4]GridIndex{
		{X: i.X + 1, Y: i.Y},
		{X: i.X - 1, Y: i.Y},
		{X: i.X, Y: i.Y + 1},
		{X: i.X, Y: i.Y - 1},
	}
}

// PixelPoint is a position in screen or map pixel space.
// It is never interchangeable with a GridIndex.
type PixelPoint struct {
	X int
	Y int
}

// PP is a convenience constructor for PixelPoint.
func PP(x, y int) PixelPoint {
	return PixelPoint{X: x, Y: y}
}

// Add returns the sum of two points.
func (p PixelPoint) Add(o PixelPoint) PixelPoint {
	return PixelPoint{X: p.X + o.X, Y: p.Y + o.Y}
}

// Sub returns p - o.
func (p PixelPoint) Sub(o PixelPoint) PixelPoint {
	return PixelPoint{X: p.X - o.X, Y: p.Y - o.Y}
}

// Half returns the point with both components halved (integer division).
func (p PixelPoint) Half() PixelPoint {
	return PixelPoint{X: p.X / 2, Y: p.Y / 2}
}

// Rect represents an axis-aligned rectangle in screen cells.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains returns true if the point (x, y) is inside this rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// FloorDiv divides rounding toward negative infinity.
// Pixel positions left of or above the map origin must land in negative cells.
func FloorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
