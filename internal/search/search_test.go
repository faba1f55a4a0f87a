package search_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/cinemap/internal/clock"
	"github.com/agentstation/cinemap/internal/search"
	"github.com/agentstation/cinemap/pkg/constants"
	"github.com/agentstation/cinemap/pkg/movies"
)

// recorder is a Searcher that records queries and answers from a table.
type recorder struct {
	mu      sync.Mutex
	queries []string
	answers map[string][]movies.Movie
}

func (r *recorder) Search(_ context.Context, q string) []movies.Movie {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, q)
	return r.answers[q]
}

func (r *recorder) calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.queries...)
}

func newController(r search.Searcher, fc *clock.Fake, opts ...search.Option) *search.Controller {
	return search.New(r, append([]search.Option{search.WithClock(fc)}, opts...)...)
}

func TestShortQueryNeverSchedules(t *testing.T) {
	fc := clock.NewFake()
	r := &recorder{}
	c := newController(r, fc)

	c.Input("a")
	assert.Equal(t, 0, fc.Pending())
	fc.Advance(time.Second)
	assert.Empty(t, r.calls())
	assert.Equal(t, search.Hidden, c.Panel().Status)
}

func TestDebounceCollapsesBurst(t *testing.T) {
	fc := clock.NewFake()
	r := &recorder{answers: map[string][]movies.Movie{
		"inception": {{ID: 27205, Title: "Inception"}},
	}}
	c := newController(r, fc)

	word := "inception"
	for i := 1; i <= len(word); i++ {
		c.Input(word[:i])
		fc.Advance(constants.SearchDebounce / 10)
	}
	assert.Empty(t, r.calls())

	fc.Advance(constants.SearchDebounce)
	assert.Equal(t, []string{"inception"}, r.calls())

	p := c.Panel()
	assert.Equal(t, search.Results, p.Status)
	require.Len(t, p.Results, 1)
	assert.Equal(t, "Inception", p.Results[0].Title)
}

func TestSubmitBypassesDebounce(t *testing.T) {
	fc := clock.NewFake()
	r := &recorder{}
	c := newController(r, fc)

	c.Input("dune")
	p := c.Submit(context.Background(), "dune")

	assert.Equal(t, []string{"dune"}, r.calls())
	assert.Equal(t, search.Empty, p.Status)
	assert.Equal(t, search.EmptyMessage, p.Message)

	// The pending debounced search was cancelled by the submit.
	fc.Advance(time.Second)
	assert.Len(t, r.calls(), 1)
}

func TestSubmitSingleCharacterSearches(t *testing.T) {
	r := &recorder{}
	c := newController(r, clock.NewFake())
	c.Submit(context.Background(), "x")
	assert.Equal(t, []string{"x"}, r.calls())
}

func TestEmptyQueryHides(t *testing.T) {
	fc := clock.NewFake()
	r := &recorder{answers: map[string][]movies.Movie{"up": {{ID: 1, Title: "Up"}}}}
	c := newController(r, fc)

	require.Equal(t, search.Results, c.Submit(context.Background(), "up").Status)

	c.Input("")
	assert.Equal(t, search.Hidden, c.Panel().Status)

	require.Equal(t, search.Results, c.Submit(context.Background(), "up").Status)
	assert.Equal(t, search.Hidden, c.Submit(context.Background(), "   ").Status)
}

func TestDismissCancelsPendingAndHides(t *testing.T) {
	fc := clock.NewFake()
	r := &recorder{}
	c := newController(r, fc)

	c.Input("matrix")
	c.ClickOutside()
	fc.Advance(time.Second)
	assert.Empty(t, r.calls())

	c.Submit(context.Background(), "matrix")
	c.HandleKey("Enter")
	assert.Equal(t, search.Empty, c.Panel().Status)
	c.HandleKey("Escape")
	assert.Equal(t, search.Hidden, c.Panel().Status)
}

// gated blocks each query until released, so responses can be delivered
// out of order.
type gated struct {
	gates   map[string]chan struct{}
	answers map[string][]movies.Movie
}

func (g *gated) Search(_ context.Context, q string) []movies.Movie {
	<-g.gates[q]
	return g.answers[q]
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	g := &gated{
		gates: map[string]chan struct{}{"old": make(chan struct{}), "new": make(chan struct{})},
		answers: map[string][]movies.Movie{
			"old": {{ID: 1, Title: "Old"}},
			"new": {{ID: 2, Title: "New"}},
		},
	}

	var mu sync.Mutex
	var applied []search.Panel
	c := search.New(g, search.WithClock(clock.NewFake()), search.OnChange(func(p search.Panel) {
		mu.Lock()
		applied = append(applied, p)
		mu.Unlock()
	}))

	oldDone := make(chan search.Panel)
	go func() { oldDone <- c.Submit(context.Background(), "old") }()
	require.Eventually(t, func() bool { return c.Panel().Query == "old" }, time.Second, time.Millisecond)

	newDone := make(chan search.Panel)
	go func() { newDone <- c.Submit(context.Background(), "new") }()
	require.Eventually(t, func() bool { return c.Panel().Query == "new" }, time.Second, time.Millisecond)

	close(g.gates["new"])
	p := <-newDone
	assert.Equal(t, "New", p.Results[0].Title)

	close(g.gates["old"])
	<-oldDone

	final := c.Panel()
	assert.Equal(t, search.Results, final.Status)
	assert.Equal(t, "New", final.Results[0].Title)

	mu.Lock()
	defer mu.Unlock()
	for _, p := range applied {
		if p.Status == search.Results {
			assert.Equal(t, "new", p.Query)
		}
	}
}

type panicky struct{}

func (panicky) Search(context.Context, string) []movies.Movie { panic("boom") }

func TestSearcherPanicShowsError(t *testing.T) {
	c := newController(panicky{}, clock.NewFake())
	p := c.Submit(context.Background(), "anything")
	assert.Equal(t, search.Failed, p.Status)
	assert.Equal(t, search.ErrorMessage, p.Message)
}

func TestLoadingStateIsEmitted(t *testing.T) {
	var statuses []search.Status
	c := newController(&recorder{}, clock.NewFake(), search.OnChange(func(p search.Panel) {
		statuses = append(statuses, p.Status)
	}))
	c.Submit(context.Background(), "her")
	assert.Equal(t, []search.Status{search.Loading, search.Empty}, statuses)
}
