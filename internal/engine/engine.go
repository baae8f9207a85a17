// Package engine runs the fixed-rate frame loop that refreshes editor
// overlays. The loop can be paused with an acknowledged handshake so the
// caller knows no frame is in flight before it swaps the map.
package engine

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultFPS is the frame rate used when none is configured.
const DefaultFPS = 30

// ErrNotPaused is returned by Resume when no pause is outstanding.
var ErrNotPaused = errors.New("engine: resume without pause")

// FrameFunc is called once per frame with a monotonically increasing tick.
// It runs on the loop goroutine and must not block for long.
type FrameFunc func(tick uint64)

type pauseRequest struct {
	ack chan struct{}
}

// Engine is the background frame loop.
type Engine struct {
	fps     int
	onFrame FrameFunc
	logger  *log.Logger

	requests chan pauseRequest

	mu      sync.Mutex
	depth   int
	running bool
	done    chan struct{}
	stop    context.CancelFunc
	tick    uint64
}

// New creates an engine calling onFrame fps times per second.
// A nil logger discards output.
func New(fps int, onFrame FrameFunc, logger *log.Logger) *Engine {
	if fps <= 0 {
		fps = DefaultFPS
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if onFrame == nil {
		onFrame = func(uint64) {}
	}
	return &Engine{
		fps:      fps,
		onFrame:  onFrame,
		logger:   logger,
		requests: make(chan pauseRequest),
	}
}

// FPS returns the frame rate.
func (e *Engine) FPS() int {
	return e.fps
}

// Start launches the loop. It runs until ctx is cancelled or Stop is called.
// Starting a running engine is a no-op.
func (e *Engine) Start(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	e.running = true
	e.stop = cancel
	e.done = make(chan struct{})
	go e.run(ctx, e.done)
}

// Stop cancels the loop and waits for it to exit.
func (e *Engine) Stop() {
	e.mu.Lock()
	stop, done := e.stop, e.done
	e.mu.Unlock()
	if stop == nil {
		return
	}
	stop()
	<-done
}

// Done returns a channel closed when the loop exits, or nil if it was
// never started.
func (e *Engine) Done() <-chan struct{} {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.done
}

func (e *Engine) run(ctx context.Context, done chan struct{}) {
	defer func() {
		e.mu.Lock()
		e.running = false
		e.stop = nil
		e.mu.Unlock()
		close(done)
	}()

	ticker := time.NewTicker(time.Second / time.Duration(e.fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case req := <-e.requests:
			// Requests are served between frames, so no frame is running now.
			close(req.ack)

		case <-ticker.C:
			e.mu.Lock()
			paused := e.depth > 0
			if !paused {
				e.tick++
			}
			tick := e.tick
			e.mu.Unlock()
			if !paused {
				e.onFrame(tick)
			}
		}
	}
}

// Pause stops frame delivery and returns once the loop has acknowledged it.
// After Pause returns no frame is running and none starts until a matching
// Resume. Pauses nest.
func (e *Engine) Pause(ctx context.Context) error {
	e.mu.Lock()
	e.depth++
	running, done := e.running, e.done
	depth := e.depth
	e.mu.Unlock()

	e.logger.Debug("frame loop pause requested", "depth", depth)
	if !running {
		return nil
	}

	req := pauseRequest{ack: make(chan struct{})}
	select {
	case e.requests <- req:
	case <-done:
		return nil
	case <-ctx.Done():
		e.release()
		return ctx.Err()
	}

	select {
	case <-req.ack:
		return nil
	case <-done:
		return nil
	case <-ctx.Done():
		e.release()
		return ctx.Err()
	}
}

// Resume undoes one Pause.
func (e *Engine) Resume(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !e.release() {
		return ErrNotPaused
	}
	e.logger.Debug("frame loop resumed")
	return nil
}

func (e *Engine) release() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.depth == 0 {
		return false
	}
	e.depth--
	return true
}

// Paused reports whether at least one pause is outstanding.
func (e *Engine) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.depth > 0
}

// Ticks returns the number of frames delivered so far.
func (e *Engine) Ticks() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tick
}

// WhilePaused runs fn with the loop paused and resumes afterwards, even when
// fn fails.
func (e *Engine) WhilePaused(ctx context.Context, fn func() error) error {
	if err := e.Pause(ctx); err != nil {
		return err
	}
	defer func() {
		// Resume only fails for a missing pause, which Pause above rules out.
		_ = e.Resume(context.Background())
	}()
	return fn()
}
