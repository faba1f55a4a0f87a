// Package keys dispatches key presses to registered listeners, standing
// in for the document-level keydown listeners of a browser page.
package keys

import (
	"sort"
	"sync"
)

// Escape is the key name for the escape key.
const Escape = "Escape"

// Listener handles one key press.
type Listener func(key string)

// Registration identifies a registered listener.
type Registration struct {
	bus *Bus
	id  uint64
}

// Remove unregisters the listener. Removing twice is a no-op.
func (r *Registration) Remove() {
	if r == nil || r.bus == nil {
		return
	}
	r.bus.remove(r.id)
	r.bus = nil
}

type entry struct {
	name string
	fn   Listener
}

// Bus holds listeners. It is safe for concurrent use.
type Bus struct {
	mu        sync.Mutex
	next      uint64
	listeners map[uint64]entry
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{listeners: make(map[uint64]entry)}
}

// Register adds fn under name. Names are informational; the same name may
// be registered more than once.
func (b *Bus) Register(name string, fn Listener) *Registration {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	b.listeners[b.next] = entry{name: name, fn: fn}
	return &Registration{bus: b, id: b.next}
}

func (b *Bus) remove(id uint64) {
	b.mu.Lock()
	delete(b.listeners, id)
	b.mu.Unlock()
}

// Dispatch calls every listener with key in registration order and
// returns how many were called. Listeners may register or remove others.
func (b *Bus) Dispatch(key string) int {
	b.mu.Lock()
	ids := make([]uint64, 0, len(b.listeners))
	for id := range b.listeners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	fns := make([]Listener, len(ids))
	for i, id := range ids {
		fns[i] = b.listeners[id].fn
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(key)
	}
	return len(fns)
}

// Count returns how many listeners are registered under name.
func (b *Bus) Count(name string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, e := range b.listeners {
		if e.name == name {
			n++
		}
	}
	return n
}

// Len returns the total number of listeners.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners)
}
