// Package search drives the search panel: debounced typing, immediate
// submit, dismissal, and discarding of out-of-order responses.
//
// Every search that is issued takes a new token. Only the response for
// the most recently issued token is applied; anything older is dropped,
// so a slow early request can never overwrite a newer result.
package search

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/agentstation/cinemap/internal/clock"
	"github.com/agentstation/cinemap/pkg/constants"
	"github.com/agentstation/cinemap/pkg/logging"
	"github.com/agentstation/cinemap/pkg/movies"
)

// Searcher runs a catalog search. Failures are expected to come back as
// an empty list.
type Searcher interface {
	Search(ctx context.Context, query string) []movies.Movie
}

// Status is the display state of the results panel.
type Status string

// Panel states.
const (
	Hidden  Status = "hidden"
	Loading Status = "loading"
	Results Status = "results"
	Empty   Status = "empty"
	Failed  Status = "error"
)

// Panel messages.
const (
	LoadingMessage = "검색 중..."
	EmptyMessage   = "검색 결과가 없습니다."
	ErrorMessage   = "검색 중 오류가 발생했습니다."
)

// Panel is a snapshot of the results panel.
type Panel struct {
	Status  Status         `json:"status"`
	Query   string         `json:"query,omitempty"`
	Results []movies.Movie `json:"results,omitempty"`
	Message string         `json:"message,omitempty"`
	Token   uint64         `json:"token"`
}

// Visible reports whether the panel shows anything.
func (p Panel) Visible() bool { return p.Status != Hidden }

// Controller owns the panel state. It is safe for concurrent use.
type Controller struct {
	searcher Searcher
	clock    clock.Clock
	quiet    time.Duration
	minLen   int
	onChange func(Panel)
	base     context.Context

	mu        sync.Mutex
	pending   clock.Timer
	scheduled uint64
	issued    uint64
	panel     Panel
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock replaces the wall clock.
func WithClock(c clock.Clock) Option {
	return func(s *Controller) { s.clock = c }
}

// WithQuietPeriod sets how long typing must pause before a search runs.
func WithQuietPeriod(d time.Duration) Option {
	return func(s *Controller) {
		if d > 0 {
			s.quiet = d
		}
	}
}

// WithMinLength sets the shortest typed query that triggers a search.
func WithMinLength(n int) Option {
	return func(s *Controller) {
		if n > 0 {
			s.minLen = n
		}
	}
}

// OnChange registers fn to receive every applied panel state.
func OnChange(fn func(Panel)) Option {
	return func(s *Controller) { s.onChange = fn }
}

// WithContext sets the context debounced searches run under.
func WithContext(ctx context.Context) Option {
	return func(s *Controller) { s.base = ctx }
}

// New creates a controller with a hidden panel.
func New(searcher Searcher, opts ...Option) *Controller {
	c := &Controller{
		searcher: searcher,
		clock:    clock.Real{},
		quiet:    constants.SearchDebounce,
		minLen:   constants.MinQueryLength,
		base:     context.Background(),
		panel:    Panel{Status: Hidden},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Panel returns the current panel snapshot.
func (c *Controller) Panel() Panel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return clonePanel(c.panel)
}

// Input handles a keystroke. Any pending search is cancelled. An empty
// query hides the panel; a query of at least the minimum length schedules
// a search after the quiet period; anything shorter waits for more input.
func (c *Controller) Input(query string) {
	query = strings.TrimSpace(query)

	c.mu.Lock()
	c.cancelPendingLocked()
	switch n := len([]rune(query)); {
	case n == 0:
		c.hideLocked()
		c.mu.Unlock()
		c.emit()
		return
	case n < c.minLen:
		c.mu.Unlock()
		return
	}
	seq := c.scheduled
	c.pending = c.clock.AfterFunc(c.quiet, func() {
		c.fire(seq, query)
	})
	c.mu.Unlock()
}

// Submit searches immediately, bypassing the quiet period. An empty query
// hides the panel. It returns the panel state once the search settles.
func (c *Controller) Submit(ctx context.Context, query string) Panel {
	query = strings.TrimSpace(query)

	c.mu.Lock()
	c.cancelPendingLocked()
	if query == "" {
		c.hideLocked()
		c.mu.Unlock()
		c.emit()
		return c.Panel()
	}
	token := c.issueLocked(query)
	c.mu.Unlock()
	c.emit()

	c.run(ctx, token, query)
	return c.Panel()
}

// Dismiss hides the panel, as on a click outside it or Escape. Pending
// and in-flight searches are abandoned.
func (c *Controller) Dismiss() {
	c.mu.Lock()
	c.cancelPendingLocked()
	wasVisible := c.panel.Visible()
	c.hideLocked()
	c.mu.Unlock()
	if wasVisible {
		c.emit()
	}
}

// ClickOutside is Dismiss for clicks outside the search area.
func (c *Controller) ClickOutside() { c.Dismiss() }

// HandleKey dismisses the panel on Escape.
func (c *Controller) HandleKey(key string) {
	if key == "Escape" {
		c.Dismiss()
	}
}

// fire runs a debounced search unless it was cancelled in the meantime.
func (c *Controller) fire(seq uint64, query string) {
	c.mu.Lock()
	if seq != c.scheduled {
		c.mu.Unlock()
		return
	}
	c.pending = nil
	token := c.issueLocked(query)
	c.mu.Unlock()
	c.emit()

	c.run(c.base, token, query)
}

func (c *Controller) run(ctx context.Context, token uint64, query string) {
	results, failed := c.call(ctx, query)

	c.mu.Lock()
	if token != c.issued {
		c.mu.Unlock()
		logging.Ctx(ctx).Debug().
			Uint64("token", token).
			Str("query", query).
			Msg("Discarding stale search response")
		return
	}
	switch {
	case failed:
		c.panel = Panel{Status: Failed, Query: query, Message: ErrorMessage, Token: token}
	case len(results) == 0:
		c.panel = Panel{Status: Empty, Query: query, Message: EmptyMessage, Token: token}
	default:
		c.panel = Panel{Status: Results, Query: query, Results: results, Token: token}
	}
	c.mu.Unlock()
	c.emit()
}

// call shields the panel from a misbehaving searcher.
func (c *Controller) call(ctx context.Context, query string) (results []movies.Movie, failed bool) {
	defer func() {
		if r := recover(); r != nil {
			logging.Ctx(ctx).Error().Interface("panic", r).Str("query", query).Msg("Search failed")
			results, failed = nil, true
		}
	}()
	return c.searcher.Search(ctx, query), false
}

func (c *Controller) issueLocked(query string) uint64 {
	c.issued++
	c.panel = Panel{Status: Loading, Query: query, Message: LoadingMessage, Token: c.issued}
	return c.issued
}

// hideLocked hides the panel and invalidates any in-flight search.
func (c *Controller) hideLocked() {
	c.issued++
	c.panel = Panel{Status: Hidden, Token: c.issued}
}

func (c *Controller) cancelPendingLocked() {
	c.scheduled++
	if c.pending != nil {
		c.pending.Stop()
		c.pending = nil
	}
}

func (c *Controller) emit() {
	if c.onChange != nil {
		c.onChange(c.Panel())
	}
}

func clonePanel(p Panel) Panel {
	if p.Results != nil {
		p.Results = append([]movies.Movie(nil), p.Results...)
	}
	return p
}
