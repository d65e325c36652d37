// Package bus is a small process-wide publish/subscribe registry. It lets
// any screen request the study-guide overlay without the caller knowing
// which listeners are mounted.
package bus

import (
	"log/slog"
	"sync"
)

// Event is what gets delivered to every listener.
type Event struct {
	// Kind identifies the request, e.g. EventOpenGuide.
	Kind string

	// DeckID scopes the event to a deck when relevant.
	DeckID string
}

// EventOpenGuide asks whichever screen owns the overlay to show the
// study guide.
const EventOpenGuide = "open_guide"

// Listener receives published events.
type Listener func(Event)

// Bus dispatches events to subscribed listeners.
type Bus struct {
	mu        sync.RWMutex
	nextID    int
	listeners map[int]Listener
	logger    *slog.Logger
}

// New creates an empty Bus. A nil logger discards log output.
func New(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Bus{
		listeners: make(map[int]Listener),
		logger:    logger.With("component", "bus"),
	}
}

// Subscribe registers fn and returns its unsubscribe handle. The handle is
// idempotent.
func (b *Bus) Subscribe(fn Listener) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.listeners[id] = fn
	count := len(b.listeners)
	b.mu.Unlock()

	b.logger.Debug("listener subscribed", "listener_count", count)

	return func() {
		b.mu.Lock()
		delete(b.listeners, id)
		b.mu.Unlock()
	}
}

// Publish delivers event to every listener subscribed at the time of the
// call. The listener set is snapshotted first, so a listener unsubscribing
// (or subscribing another) mid-notification cannot corrupt iteration. A
// panicking listener is contained and does not stop delivery.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	snapshot := make([]Listener, 0, len(b.listeners))
	for _, fn := range b.listeners {
		snapshot = append(snapshot, fn)
	}
	b.mu.RUnlock()

	if len(snapshot) == 0 {
		b.logger.Debug("no listeners for event", "kind", event.Kind)
		return
	}

	for _, fn := range snapshot {
		b.deliver(fn, event)
	}
}

func (b *Bus) deliver(fn Listener, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("listener panicked", "kind", event.Kind, "panic", r)
		}
	}()
	fn(event)
}

// Len returns the current number of listeners.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}
