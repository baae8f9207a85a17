// Package editor implements the interactive editing kernel: the mode state
// machine that turns pointer and key input into grid operations, the
// selection and stamp state, teleport linking, and the overlay refreshed by
// the frame loop.
//
// The package has no Bubble Tea dependency. A platform layer feeds it
// pointer events, actions and viewport sizes, subscribes to its events, and
// asks it to Render into a core.Screen.
package editor

import (
	"context"
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/blockedit/internal/core"
	"github.com/vovakirdan/blockedit/internal/engine"
	"github.com/vovakirdan/blockedit/internal/history"
	"github.com/vovakirdan/blockedit/internal/registry"
)

// DefaultZoomLevels are the block pixel sizes stepped through by ZoomStep.
var DefaultZoomLevels = []int{1, 2, 3, 4}

// Options configures an Editor. Zero values select defaults.
type Options struct {
	Palette       *registry.Palette
	ZoomLevels    []int
	HistoryLimit  int
	FPS           int
	TeleportBlock core.BlockID // 0 picks the palette's teleport type
	Logger        *log.Logger
}

// Editor is one editing session over a map.
type Editor struct {
	mu sync.RWMutex

	grid    *core.Map
	camera  core.Camera
	mode    Mode
	sel     BlockSelection
	link    teleportLink
	pointer *core.PixelPoint
	overlay Overlay

	// lastStamp is the anchor of the previous stamp in the current drag.
	lastStamp    core.GridIndex
	hasLastStamp bool

	history *history.History
	engine  *engine.Engine
	hub     hub

	palette       *registry.Palette
	zoomLevels    []int
	teleportBlock core.BlockID
	logger        *log.Logger
}

// New creates an editor over m. The frame loop is not started.
func New(m *core.Map, opts Options) *Editor {
	if m == nil {
		m = core.NewMap(0, 0, 0)
	}
	if opts.Palette == nil {
		opts.Palette = registry.NewPalette()
	}
	if len(opts.ZoomLevels) == 0 {
		opts.ZoomLevels = DefaultZoomLevels
	}
	levels := slices.Clone(opts.ZoomLevels)
	slices.Sort(levels)
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	// Zero means unset; block 0 cannot be the teleport block.
	if opts.TeleportBlock == 0 {
		opts.TeleportBlock = core.NoBlock
		if id, ok := opts.Palette.FirstOfKind(registry.KindTeleport); ok {
			opts.TeleportBlock = id
		}
	}

	e := &Editor{
		grid:          m,
		mode:          ModeNone,
		sel:           newBlockSelection(),
		history:       history.New(opts.HistoryLimit),
		palette:       opts.Palette,
		zoomLevels:    levels,
		teleportBlock: opts.TeleportBlock,
		logger:        opts.Logger,
	}
	e.engine = engine.New(opts.FPS, e.frame, opts.Logger)
	return e
}

// Start launches the frame loop. It runs until ctx is cancelled.
func (e *Editor) Start(ctx context.Context) {
	e.engine.Start(ctx)
}

// Stop stops the frame loop and waits for it to exit.
func (e *Editor) Stop() {
	e.engine.Stop()
}

// Engine returns the frame loop, for pausing it while the terminal is
// unfocused.
func (e *Editor) Engine() *engine.Engine {
	return e.engine
}

// Subscribe registers a listener for editor events.
func (e *Editor) Subscribe(bufferSize int) *Subscription {
	return e.hub.subscribe(bufferSize)
}

// Mode returns the current mode.
func (e *Editor) Mode() Mode {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.mode
}

// SelectedBlock returns the palette pick, core.NoBlock if none.
func (e *Editor) SelectedBlock() core.BlockID {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sel.SelectedBlock
}

// Region returns the finalized selection region.
func (e *Editor) Region() (core.Region, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.sel.Region()
}

// Stamp returns a copy of the captured stamp.
func (e *Editor) Stamp() core.Stamp {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.sel.Stamp)
}

// Camera returns the camera state.
func (e *Editor) Camera() core.Camera {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.camera
}

// Snapshot returns a copy of the map for saving or export.
func (e *Editor) Snapshot() *core.Map {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.grid.Clone()
}

// BlockPixelSize returns the current zoom.
func (e *Editor) BlockPixelSize() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.grid.BlockPixelSize()
}

// Palette returns the block palette of the session.
func (e *Editor) Palette() *registry.Palette {
	return e.palette
}

// HistoryDepth returns the number of undo and redo entries.
func (e *Editor) HistoryDepth() (undo, redo int) {
	return e.history.UndoCount(), e.history.RedoCount()
}

// Revision identifies the current map content: the id of the newest
// undoable operation, or uuid.Nil right after a load.
func (e *Editor) Revision() uuid.UUID {
	return e.history.Top()
}

// Overwrite reports whether placements replace occupied cells.
func (e *Editor) Overwrite() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.grid.Overwrite()
}

// setMode switches mode and publishes the change. Caller holds e.mu.
func (e *Editor) setMode(m Mode) {
	if e.mode == m {
		return
	}
	e.logger.Debug("mode changed", "from", e.mode, "to", m)
	e.mode = m
	e.hub.publish(ModeChanged{Mode: m})
}

// cleanup drops selection and link state and returns to ModeNone.
// Caller holds e.mu.
func (e *Editor) cleanup() {
	e.sel.Clean()
	e.link.reset()
	e.hasLastStamp = false
	e.setMode(ModeNone)
}

// execute runs op through the history. Caller holds e.mu.
func (e *Editor) execute(op *history.Operation) error {
	if op == nil {
		return nil
	}
	if err := e.history.Execute(e.grid, op); err != nil {
		e.logger.Error("operation failed", "kind", op.Kind, "err", err)
		return err
	}
	e.logger.Info("operation executed", "kind", op.Kind, "cells", op.Len(), "id", op.ID)
	e.hub.publish(ContentChanged{})
	return nil
}

// Undo reverts the newest operation.
func (e *Editor) Undo() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.undoLocked()
}

func (e *Editor) undoLocked() error {
	op, err := e.history.Undo(e.grid)
	if err != nil {
		e.logger.Error("undo failed", "err", err)
		return err
	}
	if op != nil {
		e.logger.Info("operation undone", "kind", op.Kind, "cells", op.Len(), "id", op.ID)
		e.hub.publish(ContentChanged{})
	}
	return nil
}

// Redo reapplies the newest undone operation.
func (e *Editor) Redo() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.redoLocked()
}

func (e *Editor) redoLocked() error {
	op, err := e.history.Redo(e.grid)
	if err != nil {
		e.logger.Error("redo failed", "err", err)
		return err
	}
	if op != nil {
		e.logger.Info("operation redone", "kind", op.Kind, "cells", op.Len(), "id", op.ID)
		e.hub.publish(ContentChanged{})
	}
	return nil
}

// SelectBlock handles a palette pick. The pick is always recorded. Outside
// Selection and Fill the stamp and region are dropped and the editor
// switches to AddBlock. Picking core.NoBlock clears the pick.
func (e *Editor) SelectBlock(id core.BlockID) {
	e.mu.Lock()
	defer e.mu.Unlock()

	keep := e.mode == ModeSelection || e.mode == ModeFill
	if !keep {
		e.sel.Clean()
		e.link.reset()
	}
	e.sel.SelectedBlock = id
	if id != core.NoBlock && !keep {
		e.setMode(ModeAddBlock)
	}
}

// BeginSelection enters Selection mode with an empty region.
func (e *Editor) BeginSelection() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.beginSelectionLocked()
}

func (e *Editor) beginSelectionLocked() {
	e.sel.Clean()
	e.link.reset()
	e.setMode(ModeSelection)
}

// ToggleFill enters Fill mode, or leaves it for None. A finalized region
// survives entering Fill so a click inside it fills the rectangle.
func (e *Editor) ToggleFill() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.toggleFillLocked()
}

func (e *Editor) toggleFillLocked() {
	if e.mode == ModeFill {
		e.cleanup()
		return
	}
	e.sel.Stamp = nil
	e.link.reset()
	if e.sel.dragging {
		e.sel.clearRegion()
	}
	e.setMode(ModeFill)
}

// Escape cancels the current mode and deselects the palette.
func (e *Editor) Escape() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.escapeLocked()
}

func (e *Editor) escapeLocked() {
	e.sel.SelectedBlock = core.NoBlock
	e.cleanup()
	e.hub.publish(PaletteCleared{})
}

// Copy captures the finalized selection as a stamp and switches to
// AddSelection.
func (e *Editor) Copy() (core.Stamp, error) {
	return e.capture(false)
}

// Cut captures the finalized selection, clears it through the history and
// switches to AddSelection.
func (e *Editor) Cut() (core.Stamp, error) {
	return e.capture(true)
}

func (e *Editor) capture(cut bool) (core.Stamp, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.captureLocked(cut)
}

func (e *Editor) captureLocked(cut bool) (core.Stamp, error) {
	if e.mode != ModeSelection {
		return nil, fmt.Errorf("copy outside selection mode: %w", core.ErrInvalidOperation)
	}
	region, ok := e.sel.Region()
	if !ok {
		return nil, fmt.Errorf("copy without a selected region: %w", core.ErrInvalidOperation)
	}
	stamp := core.CaptureStamp(e.grid, region)
	if len(stamp) == 0 {
		return nil, fmt.Errorf("selection %v is off the map: %w", region, core.ErrOutOfBounds)
	}

	if cut {
		indices := make([]core.GridIndex, len(stamp))
		for i, c := range stamp {
			indices[i] = region.Start.Add(c.Offset)
		}
		op, err := history.NewClearBlocks(e.grid, indices)
		if err != nil {
			return nil, err
		}
		if err := e.execute(op); err != nil {
			return nil, err
		}
	}

	e.sel.Stamp = stamp
	e.sel.clearRegion()
	e.hasLastStamp = false
	e.setMode(ModeAddSelection)
	return slices.Clone(stamp), nil
}

// PasteStamp loads an externally captured stamp, such as clipboard text,
// and switches to AddSelection so left clicks place it.
func (e *Editor) PasteStamp(stamp core.Stamp) error {
	if len(stamp) == 0 {
		return fmt.Errorf("paste of an empty stamp: %w", core.ErrInvalidOperation)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.link.reset()
	e.sel.Stamp = slices.Clone(stamp)
	e.sel.clearRegion()
	e.hasLastStamp = false
	e.setMode(ModeAddSelection)
	return nil
}

// ToggleOverwrite flips the overwrite flag and returns the new value.
func (e *Editor) ToggleOverwrite() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.toggleOverwriteLocked()
}

func (e *Editor) toggleOverwriteLocked() bool {
	v := !e.grid.Overwrite()
	e.grid.SetOverwrite(v)
	e.logger.Debug("overwrite toggled", "overwrite", v)
	return v
}

// Resize records the viewport size in pixels.
func (e *Editor) Resize(width, height int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.camera.OnResize(width, height)
}

// Zoom changes the block pixel size keeping the centred cell centred.
func (e *Editor) Zoom(blockPixelSize int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.zoomLocked(blockPixelSize)
}

func (e *Editor) zoomLocked(size int) {
	if size <= 0 || size == e.grid.BlockPixelSize() {
		return
	}
	e.camera.OnZoomChanged(e.grid, size)
	e.hub.publish(ContentChanged{})
}

// ZoomStep moves delta steps through the zoom levels.
func (e *Editor) ZoomStep(delta int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.zoomStepLocked(delta)
}

func (e *Editor) zoomStepLocked(delta int) {
	i, found := slices.BinarySearch(e.zoomLevels, e.grid.BlockPixelSize())
	switch {
	case found:
		i += delta
	case delta > 0:
		// i is the next larger level.
		i += delta - 1
	default:
		i += delta
	}
	if i < 0 || i >= len(e.zoomLevels) {
		return
	}
	e.zoomLocked(e.zoomLevels[i])
}

// Pan moves the camera by whole blocks.
func (e *Editor) Pan(dx, dy int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.panLocked(dx, dy)
}

func (e *Editor) panLocked(dx, dy int) {
	size := e.grid.BlockPixelSize()
	e.camera.Pan(dx*size, dy*size)
	e.hub.publish(ContentChanged{})
}

// GoToStartPosition centres the camera on the first start block in
// row-major order, or on the map centre when there is none.
func (e *Editor) GoToStartPosition() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.goToStartLocked()
}

func (e *Editor) goToStartLocked() {
	target := core.GI(e.grid.W()/2, e.grid.H()/2)
	found := false
	e.grid.Each(func(idx core.GridIndex, b core.Block) {
		if found || b.IsEmpty() {
			return
		}
		if e.palette.KindOf(b.ID) == registry.KindStart {
			target = idx
			found = true
		}
	})
	e.camera.CenterOn(target, e.grid.BlockPixelSize())
	e.hub.publish(ContentChanged{})
}

// LoadMap replaces the edited map. The frame loop is paused and has
// acknowledged before the swap. Zoom and the overwrite flag carry over, history
// and selection are cleared, and the mode returns to None.
func (e *Editor) LoadMap(ctx context.Context, m *core.Map) error {
	if m == nil {
		return nil
	}
	err := e.engine.WhilePaused(ctx, func() error {
		e.mu.Lock()
		defer e.mu.Unlock()

		m.SetBlockPixelSize(e.grid.BlockPixelSize())
		m.SetOverwrite(e.grid.Overwrite())
		e.grid = m
		e.history.Clear()
		e.pointer = nil
		e.overlay = Overlay{}
		e.escapeLocked()
		e.goToStartLocked()
		return nil
	})
	if err != nil {
		return fmt.Errorf("load map: %w", err)
	}
	e.logger.Info("map loaded", "width", m.W(), "height", m.H(), "blocks", m.Count())
	return nil
}
