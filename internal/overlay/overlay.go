// Package overlay implements the movie detail overlay as an explicit
// state machine:
//
//	closed -> loading -> shown | error
//	shown | error -> closed   (close button, background click, Escape)
//
// While the overlay is not closed exactly one Escape listener is
// registered on the key bus. Opening again while open reuses it.
package overlay

import (
	"context"
	"sync"

	"github.com/agentstation/cinemap/internal/keys"
	"github.com/agentstation/cinemap/pkg/logging"
	"github.com/agentstation/cinemap/pkg/movies"
)

// State is the overlay lifecycle state.
type State string

// Overlay states.
const (
	Closed  State = "closed"
	Loading State = "loading"
	Shown   State = "shown"
	Failed  State = "error"
)

// Target is what a dismissal click landed on.
type Target string

// Click targets.
const (
	CloseButton Target = "close-button"
	Background  Target = "background"
	Content     Target = "content"
)

// ListenerName is the key bus name of the Escape listener.
const ListenerName = "overlay.escape"

// Fetcher loads extended movie records.
type Fetcher interface {
	FetchDetails(ctx context.Context, id int) (*movies.Details, error)
}

// Snapshot is the overlay state at a point in time.
type Snapshot struct {
	State   State
	MovieID int
	Details *movies.Details
	Err     error
}

// Controller owns the overlay. It is safe for concurrent use.
type Controller struct {
	fetcher  Fetcher
	bus      *keys.Bus
	onChange func(Snapshot)

	mu         sync.Mutex
	state      State
	movieID    int
	details    *movies.Details
	err        error
	generation uint64
	escape     *keys.Registration
}

// Option configures a Controller.
type Option func(*Controller)

// OnChange registers fn to receive every state transition.
func OnChange(fn func(Snapshot)) Option {
	return func(c *Controller) { c.onChange = fn }
}

// New creates a closed overlay that listens for Escape on bus.
func New(fetcher Fetcher, bus *keys.Bus, opts ...Option) *Controller {
	if bus == nil {
		bus = keys.NewBus()
	}
	c := &Controller{fetcher: fetcher, bus: bus, state: Closed}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Open shows the overlay in loading state, fetches details for id and
// moves to shown or error. If another Open or a Close happens while the
// fetch is in flight, its result is discarded.
func (c *Controller) Open(ctx context.Context, id int) Snapshot {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.state = Loading
	c.movieID = id
	c.details = nil
	c.err = nil
	c.registerEscapeLocked()
	c.mu.Unlock()
	c.emit()

	d, err := c.fetcher.FetchDetails(ctx, id)

	c.mu.Lock()
	if gen != c.generation {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		logging.Ctx(ctx).Debug().Int("movie_id", id).Msg("Discarding stale details response")
		return snap
	}
	if err != nil {
		c.state = Failed
		c.err = err
	} else {
		c.state = Shown
		c.details = d
	}
	c.mu.Unlock()
	c.emit()

	return c.Snapshot()
}

// Close hides the overlay and removes the Escape listener. Closing a
// closed overlay is a no-op.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.state == Closed {
		c.mu.Unlock()
		return
	}
	c.generation++
	c.state = Closed
	c.movieID = 0
	c.details = nil
	c.err = nil
	c.escape.Remove()
	c.escape = nil
	c.mu.Unlock()
	c.emit()
}

// Click handles a click on target. Only the close button and the
// background close the overlay; clicks on the content do nothing.
func (c *Controller) Click(target Target) {
	switch target {
	case CloseButton, Background:
		c.Close()
	}
}

// registerEscapeLocked adds the Escape listener unless it is already there.
func (c *Controller) registerEscapeLocked() {
	if c.escape != nil {
		return
	}
	c.escape = c.bus.Register(ListenerName, func(key string) {
		if key == keys.Escape {
			c.Close()
		}
	})
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{State: c.state, MovieID: c.movieID, Details: c.details, Err: c.err}
}

func (c *Controller) emit() {
	if c.onChange != nil {
		c.onChange(c.Snapshot())
	}
}
