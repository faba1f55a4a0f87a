// Package toast keeps the notice currently shown to the user. A notice
// expires on its own after its TTL; showing a new one replaces the old.
package toast

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/agentstation/cinemap/internal/favorites"
	"github.com/agentstation/cinemap/pkg/constants"
)

const currentKey = "current"

// Board holds at most one live notice.
type Board struct {
	store *gocache.Cache
	ttl   time.Duration
}

// New creates a board whose notices live for ttl. Expired notices are
// purged every cleanup interval; reads never return an expired notice.
func New(ttl, cleanup time.Duration) *Board {
	if ttl <= 0 {
		ttl = constants.NoticeTTL
	}
	return &Board{store: gocache.New(ttl, cleanup), ttl: ttl}
}

// Notify shows n, replacing any current notice. It implements
// favorites.Notifier.
func (b *Board) Notify(n favorites.Notice) {
	b.store.Set(currentKey, n, b.ttl)
}

// Current returns the live notice.
func (b *Board) Current() (favorites.Notice, bool) {
	v, ok := b.store.Get(currentKey)
	if !ok {
		return favorites.Notice{}, false
	}
	n, ok := v.(favorites.Notice)
	return n, ok
}

// Dismiss removes the current notice.
func (b *Board) Dismiss() {
	b.store.Delete(currentKey)
}

// OnExpire registers fn to run when the janitor purges an expired notice
// or Dismiss removes one.
func (b *Board) OnExpire(fn func(favorites.Notice)) {
	b.store.OnEvicted(func(_ string, v any) {
		if n, ok := v.(favorites.Notice); ok {
			fn(n)
		}
	})
}
