package history

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/vovakirdan/blockedit/internal/core"
)

// DefaultLimit caps the undo stack when no limit is configured.
const DefaultLimit = 500

// History is a linear undo/redo stack of operations.
// Execute, Undo, Redo and Clear hold one lock for their whole body, so
// concurrent callers are serialized including the grid write itself.
type History struct {
	mu sync.Mutex

	undoStack []*Operation
	redoStack []*Operation

	limit int
}

// New creates a history keeping at most limit undo entries.
func New(limit int) *History {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &History{limit: limit}
}

// Execute applies op to m, clears the redo stack and pushes op for undo.
// A nil op is a no-op. If apply fails the stacks are left untouched.
func (h *History) Execute(m *core.Map, op *Operation) error {
	if op == nil {
		return nil
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := op.Apply(m); err != nil {
		return fmt.Errorf("execute %s: %w: %w", op.Kind, core.ErrHistoryApply, err)
	}
	h.redoStack = nil
	h.undoStack = append(h.undoStack, op)
	if len(h.undoStack) > h.limit {
		excess := len(h.undoStack) - h.limit
		h.undoStack = h.undoStack[excess:]
	}
	return nil
}

// Undo reverts the newest operation and moves it to the redo stack. It
// returns the reverted operation, or nil when there is nothing to undo.
// On failure the operation stays on the undo stack.
func (h *History) Undo(m *core.Map) (*Operation, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.undoStack) == 0 {
		return nil, nil
	}
	op := h.undoStack[len(h.undoStack)-1]
	if err := op.Revert(m); err != nil {
		return nil, fmt.Errorf("undo %s: %w: %w", op.Kind, core.ErrHistoryApply, err)
	}
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, op)
	return op, nil
}

// Redo reapplies the newest undone operation and moves it back to the undo
// stack. It returns nil when there is nothing to redo.
// On failure the operation stays on the redo stack.
func (h *History) Redo(m *core.Map) (*Operation, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(h.redoStack) == 0 {
		return nil, nil
	}
	op := h.redoStack[len(h.redoStack)-1]
	if err := op.Apply(m); err != nil {
		return nil, fmt.Errorf("redo %s: %w: %w", op.Kind, core.ErrHistoryApply, err)
	}
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, op)
	return op, nil
}

// Clear empties both stacks.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.undoStack = nil
	h.redoStack = nil
}

// UndoCount returns the number of operations available for undo.
func (h *History) UndoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.undoStack)
}

// RedoCount returns the number of operations available for redo.
func (h *History) RedoCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.redoStack)
}

// Top returns the id of the newest undo entry, or uuid.Nil when there is
// nothing to undo. It identifies the grid content reached through history
// even after old entries are evicted.
func (h *History) Top() uuid.UUID {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.undoStack) == 0 {
		return uuid.Nil
	}
	return h.undoStack[len(h.undoStack)-1].ID
}

// Limit returns the maximum number of undo entries.
func (h *History) Limit() int {
	return h.limit
}
