// Package fill implements flood fill and rectangle fill over a block map.
// Both functions only read the map and return the cell changes for the
// caller to apply through the command history.
package fill

import (
	"fmt"

	"github.com/vovakirdan/blockedit/internal/core"
)

// Change assigns a block id to one cell.
type Change struct {
	Index core.GridIndex
	ID    core.BlockID
}

// Flood returns the changes that paint the 4-connected area around seed
// sharing seed's block id with target. A seed already holding target yields
// no changes. Cells are visited with an explicit stack so large areas do not
// grow the goroutine stack.
func Flood(m *core.Map, seed core.GridIndex, target core.BlockID) ([]Change, error) {
	origin, err := m.Get(seed)
	if err != nil {
		return nil, fmt.Errorf("flood fill: %w", err)
	}
	if origin.ID == target {
		return nil, nil
	}

	visited := make([]bool, m.W()*m.H())
	mark := func(idx core.GridIndex) bool {
		o := idx.Y*m.W() + idx.X
		if visited[o] {
			return false
		}
		visited[o] = true
		return true
	}

	var changes []Change
	stack := []core.GridIndex{seed}
	mark(seed)
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		changes = append(changes, Change{Index: idx, ID: target})

		for _, n := range idx.Neighbors4() {
			if !m.InBounds(n) || m.At(n).ID != origin.ID {
				continue
			}
			if mark(n) {
				stack = append(stack, n)
			}
		}
	}
	return changes, nil
}

// Rect returns a change to target for every cell of region that lies on the
// map, regardless of the cell's current content.
func Rect(m *core.Map, target core.BlockID, region core.Region) []Change {
	bounds, ok := m.Bounds()
	if !ok {
		return nil
	}
	clipped, ok := region.Intersect(bounds)
	if !ok {
		return nil
	}
	changes := make([]Change, 0, clipped.Area())
	clipped.Each(func(idx core.GridIndex) {
		changes = append(changes, Change{Index: idx, ID: target})
	})
	return changes
}
