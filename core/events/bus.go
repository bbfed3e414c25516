package events

import "sync"

// Bus fans emitted events out to registered subscribers. Subscribers run
// synchronously in registration order; a slow subscriber delays the caller, so
// long-running consumers should hand off to their own queue.
type Bus struct {
	mu   sync.RWMutex
	subs []func(Event)
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a callback for every subsequently emitted event.
func (b *Bus) Subscribe(fn func(Event)) {
	if fn == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, fn)
}

// Emit implements the Emitter interface.
func (b *Bus) Emit(evt Event) {
	if b == nil || evt == nil {
		return
	}
	b.mu.RLock()
	subs := make([]func(Event), len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()
	for _, fn := range subs {
		fn(evt)
	}
}
