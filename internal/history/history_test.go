package history

import (
	"errors"
	"math/rand"
	"sync"
	"testing"

	"github.com/vovakirdan/blockedit/internal/core"
)

func place(t *testing.T, m *core.Map, idx core.GridIndex, id core.BlockID) *Operation {
	t.Helper()
	op, err := NewPlaceBlocks(m, []Placement{{Index: idx, Block: core.B(id)}}, true)
	if err != nil {
		t.Fatalf("NewPlaceBlocks: %v", err)
	}
	return op
}

func TestExecuteUndoRedo(t *testing.T) {
	m := core.NewMap(3, 3, 1)
	h := New(0)

	if err := h.Execute(m, place(t, m, core.GI(1, 1), 4)); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if m.At(core.GI(1, 1)).ID != 4 {
		t.Fatal("Execute did not apply the operation")
	}

	op, err := h.Undo(m)
	if err != nil || op == nil {
		t.Fatalf("Undo = %v, %v", op, err)
	}
	if !m.At(core.GI(1, 1)).IsEmpty() {
		t.Error("Undo did not restore the empty cell")
	}
	if h.UndoCount() != 0 || h.RedoCount() != 1 {
		t.Errorf("stacks = %d/%d, expected 0/1", h.UndoCount(), h.RedoCount())
	}

	if _, err := h.Redo(m); err != nil {
		t.Fatalf("Redo: %v", err)
	}
	if m.At(core.GI(1, 1)).ID != 4 {
		t.Error("Redo did not reapply the operation")
	}
}

func TestEmptyStacksAreNoOps(t *testing.T) {
	m := core.NewMap(1, 1, 1)
	h := New(0)
	if op, err := h.Undo(m); op != nil || err != nil {
		t.Errorf("Undo on empty history = %v, %v", op, err)
	}
	if op, err := h.Redo(m); op != nil || err != nil {
		t.Errorf("Redo on empty history = %v, %v", op, err)
	}
	if err := h.Execute(m, nil); err != nil {
		t.Errorf("Execute(nil) = %v", err)
	}
	if h.UndoCount() != 0 {
		t.Error("nil operation should not be recorded")
	}
}

func TestExecuteClearsRedo(t *testing.T) {
	m := core.NewMap(4, 1, 1)
	h := New(0)
	for x := 0; x < 3; x++ {
		if err := h.Execute(m, place(t, m, core.GI(x, 0), 1)); err != nil {
			t.Fatal(err)
		}
	}
	_, _ = h.Undo(m)
	_, _ = h.Undo(m)
	if h.RedoCount() != 2 {
		t.Fatalf("RedoCount() = %d, expected 2", h.RedoCount())
	}
	if err := h.Execute(m, place(t, m, core.GI(3, 0), 2)); err != nil {
		t.Fatal(err)
	}
	if h.RedoCount() != 0 {
		t.Errorf("RedoCount() = %d after Execute, expected 0", h.RedoCount())
	}
}

func TestRoundTripRandomSequence(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	m := core.NewMap(8, 8, 1)
	_ = m.Set(core.GI(2, 2), core.B(3))
	original := m.Clone()
	h := New(1000)

	const n = 60
	executed := 0
	for i := 0; i < n; i++ {
		var op *Operation
		var err error
		switch rng.Intn(4) {
		case 0:
			op, err = NewPlaceBlocks(m, []Placement{
				{Index: core.GI(rng.Intn(8), rng.Intn(8)), Block: core.B(core.BlockID(rng.Intn(4)))},
				{Index: core.GI(rng.Intn(8), rng.Intn(8)), Block: core.B(core.BlockID(rng.Intn(4)))},
			}, rng.Intn(2) == 0)
		case 1:
			op, err = NewClearBlocks(m, []core.GridIndex{core.GI(rng.Intn(8), rng.Intn(8))})
		case 2:
			stamp := core.Stamp{
				{Offset: core.GI(0, 0), Block: core.B(1)},
				{Offset: core.GI(1, 1), Block: core.B(2)},
			}
			op, err = NewBatchStamp(m, core.GI(rng.Intn(8), rng.Intn(8)), stamp, true)
		case 3:
			a := core.GI(rng.Intn(8), rng.Intn(8))
			op, err = NewDeleteRegion(m, core.NewRegion(a, a.Add(core.GI(2, 1))))
		}
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if op == nil {
			continue
		}
		if err := h.Execute(m, op); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if h.RedoCount() != 0 {
			t.Fatalf("step %d: redo stack not empty after Execute", i)
		}
		executed++
	}

	for i := 0; i < executed; i++ {
		if _, err := h.Undo(m); err != nil {
			t.Fatalf("undo %d: %v", i, err)
		}
	}
	if !m.Equal(original) {
		t.Error("undoing every operation did not restore the original map")
	}
}

func TestLimitEvictsOldest(t *testing.T) {
	m := core.NewMap(5, 1, 1)
	h := New(3)
	for x := 0; x < 5; x++ {
		if err := h.Execute(m, place(t, m, core.GI(x, 0), 1)); err != nil {
			t.Fatal(err)
		}
	}
	if h.UndoCount() != 3 {
		t.Fatalf("UndoCount() = %d, expected 3", h.UndoCount())
	}
	for i := 0; i < 5; i++ {
		_, _ = h.Undo(m)
	}
	if m.At(core.GI(0, 0)).ID != 1 || m.At(core.GI(1, 0)).ID != 1 {
		t.Error("evicted operations should not be undone")
	}
	if !m.At(core.GI(2, 0)).IsEmpty() {
		t.Error("retained operations should be undone")
	}
}

func TestFailedApplyLeavesStacks(t *testing.T) {
	big := core.NewMap(4, 4, 1)
	h := New(0)
	op := place(t, big, core.GI(3, 3), 1)
	if err := h.Execute(big, op); err != nil {
		t.Fatal(err)
	}

	small := core.NewMap(2, 2, 1)
	_ = small.Set(core.GI(0, 0), core.B(9))
	before := small.Clone()

	_, err := h.Undo(small)
	if !errors.Is(err, core.ErrHistoryApply) || !errors.Is(err, core.ErrOutOfBounds) {
		t.Fatalf("Undo error = %v, expected ErrHistoryApply wrapping ErrOutOfBounds", err)
	}
	if h.UndoCount() != 1 || h.RedoCount() != 0 {
		t.Errorf("stacks = %d/%d after failed undo, expected 1/0", h.UndoCount(), h.RedoCount())
	}
	if !small.Equal(before) {
		t.Error("failed revert mutated the map")
	}

	if err := h.Execute(small, place(t, big, core.GI(3, 0), 2)); !errors.Is(err, core.ErrHistoryApply) {
		t.Errorf("Execute error = %v, expected ErrHistoryApply", err)
	}
	if h.UndoCount() != 1 {
		t.Error("failed Execute should not be recorded")
	}
}

func TestClear(t *testing.T) {
	m := core.NewMap(2, 1, 1)
	h := New(0)
	_ = h.Execute(m, place(t, m, core.GI(0, 0), 1))
	_ = h.Execute(m, place(t, m, core.GI(1, 0), 1))
	_, _ = h.Undo(m)
	h.Clear()
	if h.UndoCount() != 0 || h.RedoCount() != 0 {
		t.Errorf("stacks = %d/%d after Clear", h.UndoCount(), h.RedoCount())
	}
}

func TestConcurrentCallers(t *testing.T) {
	const (
		workers = 4
		rounds  = 100
	)
	m := core.NewMap(rounds, workers, 1)
	original := m.Clone()
	h := New(workers * rounds)

	var wg sync.WaitGroup
	errs := make(chan error, workers*rounds*3)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(row int) {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				// Each cell is built once, before any operation touches it.
				op, err := NewPlaceBlocks(m, []Placement{{Index: core.GI(i, row), Block: core.B(1)}}, true)
				if err != nil {
					errs <- err
					return
				}
				if err := h.Execute(m, op); err != nil {
					errs <- err
				}
				if _, err := h.Undo(m); err != nil {
					errs <- err
				}
				if _, err := h.Redo(m); err != nil {
					errs <- err
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	undo, redo := h.UndoCount(), h.RedoCount()
	if undo+redo > workers*rounds {
		t.Errorf("stacks hold %d+%d operations, more than %d executed", undo, redo, workers*rounds)
	}
	if n := m.Count(); n != undo {
		t.Errorf("map has %d blocks, expected one per undo entry (%d)", n, undo)
	}
	for h.UndoCount() > 0 {
		if _, err := h.Undo(m); err != nil {
			t.Fatal(err)
		}
	}
	if !m.Equal(original) {
		t.Error("undoing every operation did not restore the original map")
	}
}
