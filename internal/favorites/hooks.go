package favorites

import (
	"sync"

	"github.com/agentstation/cinemap/pkg/movies"
)

// Action is what a toggle did.
type Action string

// Toggle outcomes.
const (
	Added   Action = "added"
	Removed Action = "removed"
)

// Change describes one mutation. Favorites is the collection after it.
type Change struct {
	Action    Action         `json:"action"`
	Movie     movies.Movie   `json:"movie"`
	Favorites []movies.Movie `json:"favorites"`
}

// ChangeHook is called after every persisted mutation.
type ChangeHook func(Change)

// hooks holds registered observers. Hooks run synchronously on the
// mutating goroutine, after the store lock is released.
type hooks struct {
	mu       sync.RWMutex
	onChange []ChangeHook
}

func (h *hooks) addChange(fn ChangeHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onChange = append(h.onChange, fn)
}

func (h *hooks) trigger(c Change) {
	h.mu.RLock()
	changeHooks := append([]ChangeHook(nil), h.onChange...)
	h.mu.RUnlock()

	for _, fn := range changeHooks {
		fn(c)
	}
}
