// Package favorites owns the user's favorites list: an ordered collection
// of movies keyed by ID, persisted to durable storage on every change.
//
// The Store is the only holder of the collection. Views read snapshots
// through List or Contains and re-read after each Change notification.
package favorites

import (
	"context"
	"sync"

	"github.com/goccy/go-json"

	"github.com/agentstation/cinemap/pkg/constants"
	"github.com/agentstation/cinemap/pkg/errors"
	"github.com/agentstation/cinemap/pkg/logging"
	"github.com/agentstation/cinemap/pkg/movies"
)

// KV is the durable storage the store persists into. Get must return an
// error matching errors.ErrNotFound for a missing key.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Store is the favorites collection. It is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	kv        KV
	key       string
	list      []movies.Movie
	notifiers []Notifier
	hooks     hooks
}

// Option configures a Store.
type Option func(*Store)

// WithNotifier adds a destination for toggle notices.
func WithNotifier(n Notifier) Option {
	return func(s *Store) { s.notifiers = append(s.notifiers, n) }
}

// New creates an empty store over kv. Call Load to read persisted state.
func New(kv KV, opts ...Option) *Store {
	s := &Store{
		kv:   kv,
		key:  constants.FavoritesKey,
		list: []movies.Movie{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the persisted collection and makes it current. A missing key
// or an undecodable value yields an empty collection; the latter is logged.
func (s *Store) Load(ctx context.Context) []movies.Movie {
	list := s.read(ctx)

	s.mu.Lock()
	s.list = list
	s.mu.Unlock()

	return clone(list)
}

func (s *Store) read(ctx context.Context) []movies.Movie {
	data, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if !errors.IsNotFound(err) {
			logging.Ctx(ctx).Warn().Err(err).Str("key", s.key).Msg("Failed to read favorites, starting empty")
		}
		return []movies.Movie{}
	}

	var list []movies.Movie
	if err := json.Unmarshal(data, &list); err != nil {
		logging.Ctx(ctx).Warn().
			Err(errors.WrapParse("json", s.key, err)).
			Msg("Stored favorites are corrupt, starting empty")
		return []movies.Movie{}
	}
	return dedupe(list)
}

// List returns a copy of the current collection in insertion order.
func (s *Store) List() []movies.Movie {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clone(s.list)
}

// Contains reports whether id is a favorite.
func (s *Store) Contains(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return movies.IndexOf(s.list, id) >= 0
}

// Len returns the number of favorites.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.list)
}

// Toggle removes m if its ID is present, otherwise appends it, then
// persists the result before returning it. If persisting fails the
// collection is left unchanged and the error is returned.
func (s *Store) Toggle(ctx context.Context, m movies.Movie) ([]movies.Movie, error) {
	s.mu.Lock()
	next := clone(s.list)
	action := Added
	if i := movies.IndexOf(next, m.ID); i >= 0 {
		action = Removed
		m = next[i]
		next = append(next[:i], next[i+1:]...)
	} else {
		next = append(next, m)
	}

	if err := s.write(ctx, next); err != nil {
		s.mu.Unlock()
		logging.Ctx(ctx).Error().Err(err).Int("movie_id", m.ID).Msg("Failed to persist favorites")
		return s.List(), err
	}
	s.list = next
	s.mu.Unlock()

	logging.Ctx(ctx).Debug().Int("movie_id", m.ID).Str("action", string(action)).Msg("Favorite toggled")

	s.mu.RLock()
	notifiers := append([]Notifier(nil), s.notifiers...)
	s.mu.RUnlock()
	notice := NewNotice(action, m.ID, m.Title)
	for _, n := range notifiers {
		n.Notify(notice)
	}
	s.hooks.trigger(Change{Action: action, Movie: m, Favorites: clone(next)})

	return clone(next), nil
}

// Save replaces the collection with list and persists it. Duplicate IDs
// keep their first occurrence.
func (s *Store) Save(ctx context.Context, list []movies.Movie) error {
	list = dedupe(clone(list))

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.write(ctx, list); err != nil {
		return err
	}
	s.list = list
	return nil
}

func (s *Store) write(ctx context.Context, list []movies.Movie) error {
	data, err := json.Marshal(list)
	if err != nil {
		return errors.WrapParse("json", s.key, err)
	}
	return s.kv.Set(ctx, s.key, data)
}

// AddNotifier adds a destination for toggle notices.
func (s *Store) AddNotifier(n Notifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifiers = append(s.notifiers, n)
}

// OnChange registers fn to run after every toggle.
func (s *Store) OnChange(fn ChangeHook) {
	s.hooks.addChange(fn)
}

func clone(list []movies.Movie) []movies.Movie {
	out := make([]movies.Movie, len(list))
	copy(out, list)
	return out
}

func dedupe(list []movies.Movie) []movies.Movie {
	seen := make(map[int]struct{}, len(list))
	out := list[:0]
	for _, m := range list {
		if _, ok := seen[m.ID]; ok {
			continue
		}
		seen[m.ID] = struct{}{}
		out = append(out, m)
	}
	return out
}
