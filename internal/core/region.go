package core

import "fmt"

// Region is a rectangular span of grid cells, inclusive on both corners.
// Start is always the minimum corner and End the maximum.
type Region struct {
	Start GridIndex
	End   GridIndex
}

// NewRegion returns the normalized region spanning two corners given in any
// order.
func NewRegion(a, b GridIndex) Region {
	return Region{
		Start: GI(Min(a.X, b.X), Min(a.Y, b.Y)),
		End:   GI(Max(a.X, b.X), Max(a.Y, b.Y)),
	}
}

// String returns a string representation of the region.
func (r Region) String() string {
	return fmt.Sprintf("%v-%v", r.Start, r.End)
}

// Contains reports whether idx lies inside the region, corners included.
func (r Region) Contains(idx GridIndex) bool {
	return r.Start.X <= idx.X && idx.X <= r.End.X &&
		r.Start.Y <= idx.Y && idx.Y <= r.End.Y
}

// Width returns the number of columns covered.
func (r Region) Width() int { return r.End.X - r.Start.X + 1 }

// Height returns the number of rows covered.
func (r Region) Height() int { return r.End.Y - r.Start.Y + 1 }

// Area returns the number of cells covered.
func (r Region) Area() int { return r.Width() * r.Height() }

// Intersect returns the overlap of two regions and false if they are disjoint.
func (r Region) Intersect(o Region) (Region, bool) {
	out := Region{
		Start: GI(Max(r.Start.X, o.Start.X), Max(r.Start.Y, o.Start.Y)),
		End:   GI(Min(r.End.X, o.End.X), Min(r.End.Y, o.End.Y)),
	}
	if out.Start.X > out.End.X || out.Start.Y > out.End.Y {
		return Region{}, false
	}
	return out, true
}

// Each calls fn for every index of the region in row-major order.
func (r Region) Each(fn func(idx GridIndex)) {
	for y := r.Start.Y; y <= r.End.Y; y++ {
		for x := r.Start.X; x <= r.End.X; x++ {
			fn(GI(x, y))
		}
	}
}
