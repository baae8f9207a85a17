package editor

import (
	"sync"

	"github.com/google/uuid"
)

// Event is a notification published by the editor to its subscribers.
type Event interface {
	editorEvent()
}

// ContentChanged is sent when grid content changed and a re-render is due.
type ContentChanged struct{}

func (ContentChanged) editorEvent() {}

// ModeChanged is sent when the mode changes.
type ModeChanged struct {
	Mode Mode
}

func (ModeChanged) editorEvent() {}

// PaletteCleared is sent when the palette pick should be deselected.
type PaletteCleared struct{}

func (PaletteCleared) editorEvent() {}

// FrameRendered is sent by the frame loop when the overlay changed.
type FrameRendered struct {
	Tick uint64
}

func (FrameRendered) editorEvent() {}

// BusyChanged brackets long synchronous work such as a large fill.
type BusyChanged struct {
	Busy bool
}

func (BusyChanged) editorEvent() {}

// Subscription receives editor events on a buffered channel.
type Subscription struct {
	id       uuid.UUID
	events   chan Event
	done     chan struct{}
	doneOnce sync.Once
}

func newSubscription(bufferSize int) *Subscription {
	if bufferSize < 1 {
		bufferSize = 64
	}
	return &Subscription{
		id:     uuid.New(),
		events: make(chan Event, bufferSize),
		done:   make(chan struct{}),
	}
}

// ID returns the subscription identifier.
func (s *Subscription) ID() uuid.UUID {
	return s.id
}

// send delivers an event without blocking.
// If the buffer is full the oldest event is dropped.
func (s *Subscription) send(evt Event) {
	select {
	case <-s.done:
		return
	default:
	}

	select {
	case s.events <- evt:
	default:
		select {
		case <-s.events:
		default:
		}
		select {
		case s.events <- evt:
		default:
		}
	}
}

// Events returns the channel to receive events from.
func (s *Subscription) Events() <-chan Event {
	return s.events
}

// Done returns a channel closed when the subscription ends.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Close ends the subscription. Safe to call multiple times.
func (s *Subscription) Close() {
	s.doneOnce.Do(func() {
		close(s.done)
	})
}

func (s *Subscription) closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// hub fans events out to subscribers.
type hub struct {
	mu   sync.Mutex
	subs []*Subscription
}

func (h *hub) subscribe(bufferSize int) *Subscription {
	s := newSubscription(bufferSize)
	h.mu.Lock()
	h.subs = append(h.subs, s)
	h.mu.Unlock()
	return s
}

func (h *hub) publish(evt Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	live := h.subs[:0]
	for _, s := range h.subs {
		if s.closed() {
			continue
		}
		s.send(evt)
		live = append(live, s)
	}
	h.subs = live
}
