// Package history records reversible grid mutations and replays them for
// undo and redo.
package history

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/blockedit/internal/core"
)

// Kind tags the variant of an Operation.
type Kind int

const (
	KindPlaceBlocks Kind = iota + 1
	KindClearBlocks
	KindBatchStamp
	KindDeleteRegion
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindPlaceBlocks:
		return "PlaceBlocks"
	case KindClearBlocks:
		return "ClearBlocks"
	case KindBatchStamp:
		return "BatchStamp"
	case KindDeleteRegion:
		return "DeleteRegion"
	default:
		return "Unknown"
	}
}

// CellChange records the content of one cell before and after an operation.
type CellChange struct {
	Index  core.GridIndex
	Before core.Block
	After  core.Block
}

// Placement requests block b at Index.
type Placement struct {
	Index core.GridIndex
	Block core.Block
}

// Operation is a reversible batch of cell changes.
// Apply and Revert are all-or-nothing: the whole batch is validated against
// the map before the first cell is written.
type Operation struct {
	ID        uuid.UUID
	Kind      Kind
	Changes   []CellChange
	Anchor    core.GridIndex // BatchStamp only
	Region    core.Region    // DeleteRegion only
	Timestamp time.Time
}

func newOperation(kind Kind, changes []CellChange) *Operation {
	if len(changes) == 0 {
		return nil
	}
	return &Operation{
		ID:        uuid.New(),
		Kind:      kind,
		Changes:   changes,
		Timestamp: time.Now(),
	}
}

// collect turns placements into changes against the current map content.
// Out-of-bounds placements fail the whole batch. No-op placements are
// dropped, and so are placements on occupied cells when skipOccupied is set.
func collect(m *core.Map, placements []Placement, skipOccupied bool) ([]CellChange, error) {
	changes := make([]CellChange, 0, len(placements))
	seen := make(map[core.GridIndex]int, len(placements))
	for _, p := range placements {
		before, err := m.Get(p.Index)
		if err != nil {
			return nil, err
		}
		if skipOccupied && !before.IsEmpty() {
			continue
		}
		if before == p.Block {
			continue
		}
		// Last placement on a cell wins; Before stays the map content.
		if i, ok := seen[p.Index]; ok {
			changes[i].After = p.Block
			continue
		}
		seen[p.Index] = len(changes)
		changes = append(changes, CellChange{Index: p.Index, Before: before, After: p.Block})
	}
	return changes, nil
}

// NewPlaceBlocks builds an operation placing blocks. When overwrite is false
// occupied cells are left alone. A nil operation means nothing would change.
func NewPlaceBlocks(m *core.Map, placements []Placement, overwrite bool) (*Operation, error) {
	changes, err := collect(m, placements, !overwrite)
	if err != nil {
		return nil, fmt.Errorf("place blocks: %w", err)
	}
	return newOperation(KindPlaceBlocks, changes), nil
}

// NewClearBlocks builds an operation emptying the given cells.
func NewClearBlocks(m *core.Map, indices []core.GridIndex) (*Operation, error) {
	placements := make([]Placement, len(indices))
	for i, idx := range indices {
		placements[i] = Placement{Index: idx, Block: core.EmptyBlock}
	}
	changes, err := collect(m, placements, false)
	if err != nil {
		return nil, fmt.Errorf("clear blocks: %w", err)
	}
	return newOperation(KindClearBlocks, changes), nil
}

// NewBatchStamp builds an operation replaying stamp with its minimum corner
// at anchor. The anchor must lie on the map; stamp cells falling off the
// map are dropped.
func NewBatchStamp(m *core.Map, anchor core.GridIndex, stamp core.Stamp, overwrite bool) (*Operation, error) {
	if !m.InBounds(anchor) {
		return nil, fmt.Errorf("batch stamp at %v: %w", anchor, core.ErrOutOfBounds)
	}
	placements := make([]Placement, 0, len(stamp))
	for _, c := range stamp {
		idx := anchor.Add(c.Offset)
		if !m.InBounds(idx) {
			continue
		}
		placements = append(placements, Placement{Index: idx, Block: c.Block})
	}
	changes, err := collect(m, placements, !overwrite)
	if err != nil {
		return nil, fmt.Errorf("batch stamp: %w", err)
	}
	op := newOperation(KindBatchStamp, changes)
	if op != nil {
		op.Anchor = anchor
	}
	return op, nil
}

// NewDeleteRegion builds an operation emptying every cell of region that
// lies on the map.
func NewDeleteRegion(m *core.Map, region core.Region) (*Operation, error) {
	bounds, ok := m.Bounds()
	if !ok {
		return nil, nil
	}
	clipped, ok := bounds.Intersect(region)
	if !ok {
		return nil, fmt.Errorf("delete region %v: %w", region, core.ErrOutOfBounds)
	}
	var placements []Placement
	clipped.Each(func(idx core.GridIndex) {
		placements = append(placements, Placement{Index: idx, Block: core.EmptyBlock})
	})
	changes, err := collect(m, placements, false)
	if err != nil {
		return nil, fmt.Errorf("delete region: %w", err)
	}
	op := newOperation(KindDeleteRegion, changes)
	if op != nil {
		op.Region = clipped
	}
	return op, nil
}

// Apply writes the After side of every change.
func (op *Operation) Apply(m *core.Map) error {
	switch op.Kind {
	case KindPlaceBlocks, KindClearBlocks, KindBatchStamp, KindDeleteRegion:
		return op.write(m, func(c CellChange) core.Block { return c.After })
	default:
		return fmt.Errorf("apply %v: unknown kind %d", op.ID, op.Kind)
	}
}

// Revert writes the Before side of every change.
func (op *Operation) Revert(m *core.Map) error {
	switch op.Kind {
	case KindPlaceBlocks, KindClearBlocks, KindBatchStamp, KindDeleteRegion:
		return op.write(m, func(c CellChange) core.Block { return c.Before })
	default:
		return fmt.Errorf("revert %v: unknown kind %d", op.ID, op.Kind)
	}
}

func (op *Operation) write(m *core.Map, side func(CellChange) core.Block) error {
	for _, c := range op.Changes {
		if !m.InBounds(c.Index) {
			return fmt.Errorf("%s cell %v: %w", op.Kind, c.Index, core.ErrOutOfBounds)
		}
	}
	for _, c := range op.Changes {
		// Bounds were checked above.
		_ = m.Set(c.Index, side(c))
	}
	return nil
}

// Len returns the number of cells the operation touches.
func (op *Operation) Len() int {
	return len(op.Changes)
}

// Description returns a short label for logs and the status line.
func (op *Operation) Description() string {
	switch op.Kind {
	case KindBatchStamp:
		return fmt.Sprintf("stamp %d cells at %v", len(op.Changes), op.Anchor)
	case KindDeleteRegion:
		return fmt.Sprintf("delete region %v", op.Region)
	case KindClearBlocks:
		return fmt.Sprintf("clear %d cells", len(op.Changes))
	default:
		return fmt.Sprintf("place %d cells", len(op.Changes))
	}
}
