// Package page wires the discovery page together: the trending and search
// carousels, the search panel, the favorites grid and the detail overlay.
//
// Every view that shows favorite state is rebuilt from the favorites
// store whenever the store reports a change, so a card's heart always
// matches the store after a toggle, whichever view the toggle came from.
package page

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/agentstation/cinemap/internal/carousel"
	"github.com/agentstation/cinemap/internal/favorites"
	"github.com/agentstation/cinemap/internal/keys"
	"github.com/agentstation/cinemap/internal/overlay"
	"github.com/agentstation/cinemap/internal/render"
	"github.com/agentstation/cinemap/internal/search"
	"github.com/agentstation/cinemap/internal/toast"
	"github.com/agentstation/cinemap/pkg/constants"
	"github.com/agentstation/cinemap/pkg/errors"
	"github.com/agentstation/cinemap/pkg/logging"
	"github.com/agentstation/cinemap/pkg/movies"
)

// Catalog is what the page needs from the movie catalog.
type Catalog interface {
	FetchTrending(ctx context.Context) []movies.Movie
	Search(ctx context.Context, query string) []movies.Movie
	FetchDetails(ctx context.Context, id int) (*movies.Details, error)
	ImageURL(path *string) string
	BackdropURL(path *string) string
}

// Publisher receives page events for connected clients.
type Publisher interface {
	Publish(event string, data any)
}

// Event names published by the page.
const (
	EventFavoritesChanged = "favorites.changed"
	EventSearchUpdated    = "search.updated"
	EventOverlayUpdated   = "overlay.updated"
	EventCarouselMoved    = "carousel.moved"
	EventToastShown       = "toast.shown"
	EventToastExpired     = "toast.expired"
)

// Carousel names.
const (
	TrendingCarousel = "trending"
	SearchCarousel   = "search"
)

// Section titles.
const (
	TrendingTitle  = "인기 영화"
	FavoritesTitle = "내가 찜한 영화"
)

// Config holds page settings.
type Config struct {
	Language      string
	ViewportWidth int
	CardWidth     int
	CardGap       int
	Debounce      time.Duration
	NoticeTTL     time.Duration
}

// DefaultConfig returns the standard layout and timing.
func DefaultConfig() Config {
	return Config{
		Language:      constants.DefaultLanguage,
		ViewportWidth: 1280,
		CardWidth:     constants.CardWidth,
		CardGap:       constants.CardGap,
		Debounce:      constants.SearchDebounce,
		NoticeTTL:     constants.NoticeTTL,
	}
}

// Page is the orchestrator. It is safe for concurrent use.
type Page struct {
	cfg       Config
	catalog   Catalog
	store     *favorites.Store
	toasts    *toast.Board
	bus       *keys.Bus
	viewport  *carousel.FixedWidth
	carousels map[string]*carousel.Controller
	search    *search.Controller
	overlay   *overlay.Controller
	publisher Publisher

	mu       sync.RWMutex
	trending []movies.Movie
	loaded   bool
	view     render.Page
	seq      uint64
	applied  uint64
}

// Option configures a Page.
type Option func(*pageOptions)

type pageOptions struct {
	publisher  Publisher
	searchOpts []search.Option
	toasts     *toast.Board
	bus        *keys.Bus
}

// WithPublisher sends page events to p.
func WithPublisher(p Publisher) Option {
	return func(o *pageOptions) { o.publisher = p }
}

// WithSearchOptions passes options to the search controller.
func WithSearchOptions(opts ...search.Option) Option {
	return func(o *pageOptions) { o.searchOpts = append(o.searchOpts, opts...) }
}

// WithToasts uses b for notices.
func WithToasts(b *toast.Board) Option {
	return func(o *pageOptions) { o.toasts = b }
}

// WithKeyBus uses bus for key dispatch.
func WithKeyBus(bus *keys.Bus) Option {
	return func(o *pageOptions) { o.bus = bus }
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, any) {}

// New builds a page over catalog and store and subscribes it to the
// store's notices and changes.
func New(cfg Config, catalog Catalog, store *favorites.Store, opts ...Option) *Page {
	o := pageOptions{publisher: nopPublisher{}}
	for _, opt := range opts {
		opt(&o)
	}
	def := DefaultConfig()
	if cfg.CardWidth <= 0 {
		cfg.CardWidth = def.CardWidth
	}
	if cfg.CardGap < 0 {
		cfg.CardGap = def.CardGap
	}
	if cfg.ViewportWidth <= 0 {
		cfg.ViewportWidth = def.ViewportWidth
	}
	if cfg.NoticeTTL <= 0 {
		cfg.NoticeTTL = def.NoticeTTL
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = def.Debounce
	}
	if o.toasts == nil {
		o.toasts = toast.New(cfg.NoticeTTL, constants.NoticeCleanupInterval)
	}
	if o.bus == nil {
		o.bus = keys.NewBus()
	}

	p := &Page{
		cfg:       cfg,
		catalog:   catalog,
		store:     store,
		toasts:    o.toasts,
		bus:       o.bus,
		viewport:  carousel.NewFixedWidth(cfg.ViewportWidth),
		publisher: o.publisher,
	}

	metrics := carousel.WithCardMetrics(cfg.CardWidth, cfg.CardGap)
	p.carousels = map[string]*carousel.Controller{
		TrendingCarousel: carousel.New(p.viewport, 0, metrics),
		SearchCarousel:   carousel.New(p.viewport, 0, metrics),
	}

	searchOpts := append([]search.Option{
		search.WithQuietPeriod(cfg.Debounce),
		search.OnChange(p.onSearchChange),
	}, o.searchOpts...)
	p.search = search.New(catalog, searchOpts...)
	p.bus.Register("search.escape", p.search.HandleKey)

	p.overlay = overlay.New(catalog, p.bus, overlay.OnChange(p.onOverlayChange))

	store.AddNotifier(p.toasts)
	store.OnChange(p.onFavoritesChange)
	p.toasts.OnExpire(func(n favorites.Notice) {
		p.publisher.Publish(EventToastExpired, n)
	})

	p.rerender()
	return p
}

// Load reads persisted favorites and fetches trending movies.
func (p *Page) Load(ctx context.Context) render.Page {
	ctx = logging.WithView(ctx, "page")

	favs := p.store.Load(ctx)
	trending := p.catalog.FetchTrending(ctx)

	p.mu.Lock()
	p.trending = trending
	p.loaded = true
	p.mu.Unlock()

	p.carousels[TrendingCarousel].Reset(len(trending))

	logging.Ctx(ctx).Info().
		Int("trending", len(trending)).
		Int("favorites", len(favs)).
		Msg("Page loaded")

	return p.rerender()
}

// View returns the current page with the live notice, if any.
func (p *Page) View() render.Page {
	p.mu.RLock()
	v := p.view
	p.mu.RUnlock()

	if n, ok := p.toasts.Current(); ok {
		v.Toast = &render.Toast{Action: string(n.Action), Message: n.Message}
	}
	return v
}

// Trending returns the movies fetched by the last Load.
func (p *Page) Trending() []movies.Movie {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]movies.Movie(nil), p.trending...)
}

// Loaded reports whether Load has completed.
func (p *Page) Loaded() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loaded
}

// Favorites returns the current favorites list.
func (p *Page) Favorites() []movies.Movie {
	return p.store.List()
}

// ToggleFavorite toggles the movie with id, which must be visible in one
// of the page's views.
func (p *Page) ToggleFavorite(ctx context.Context, id int) ([]movies.Movie, error) {
	m, ok := p.lookup(id)
	if !ok {
		return p.store.List(), errors.NewNotFoundError("movie", itoa(id))
	}
	return p.store.Toggle(logging.WithMovie(ctx, id), m)
}

// lookup finds id among the movies currently on screen.
func (p *Page) lookup(id int) (movies.Movie, bool) {
	p.mu.RLock()
	trending := p.trending
	p.mu.RUnlock()

	if m, ok := movies.Find(trending, id); ok {
		return m, true
	}
	if m, ok := movies.Find(p.search.Panel().Results, id); ok {
		return m, true
	}
	if m, ok := movies.Find(p.store.List(), id); ok {
		return m, true
	}
	if snap := p.overlay.Snapshot(); snap.Details != nil && snap.Details.ID == id {
		return snap.Details.Movie, true
	}
	return movies.Movie{}, false
}

// Advance moves the named carousel forward.
func (p *Page) Advance(name string) (carousel.State, error) {
	return p.moveCarousel(name, (*carousel.Controller).Advance)
}

// Retreat moves the named carousel back.
func (p *Page) Retreat(name string) (carousel.State, error) {
	return p.moveCarousel(name, (*carousel.Controller).Retreat)
}

func (p *Page) moveCarousel(name string, move func(*carousel.Controller) carousel.State) (carousel.State, error) {
	c, ok := p.carousels[name]
	if !ok {
		return carousel.State{}, errors.NewNotFoundError("carousel", name)
	}
	st := move(c)
	p.rerender()
	p.publisher.Publish(EventCarouselMoved, map[string]any{"carousel": name, "state": st})
	return st, nil
}

// Resize records a new viewport width and repositions every carousel.
func (p *Page) Resize(width int) render.Page {
	if width > 0 && width != p.viewport.Width() {
		p.viewport.Resize(width)
		for _, c := range p.carousels {
			c.OnResize()
		}
	}
	return p.rerender()
}

// SearchInput handles typing in the search box.
func (p *Page) SearchInput(query string) {
	p.search.Input(query)
}

// SearchSubmit runs a search immediately.
func (p *Page) SearchSubmit(ctx context.Context, query string) render.Page {
	p.search.Submit(logging.WithView(ctx, "search"), query)
	return p.View()
}

// DismissSearch hides the search results.
func (p *Page) DismissSearch() {
	p.search.ClickOutside()
}

// OpenDetails opens the overlay for id and waits for it to settle.
func (p *Page) OpenDetails(ctx context.Context, id int) render.Overlay {
	p.overlay.Open(logging.WithMovie(logging.WithView(ctx, "overlay"), id), id)
	return p.View().Overlay
}

// CloseDetails closes the overlay via target.
func (p *Page) CloseDetails(target overlay.Target) render.Overlay {
	p.overlay.Click(target)
	return p.View().Overlay
}

// ClickCard handles a click on the card for id. target is the card
// affordance that was hit; an empty target is the card body. The
// favorite button toggles without opening details.
func (p *Page) ClickCard(ctx context.Context, id int, target render.Action) (render.Action, error) {
	m, ok := p.lookup(id)
	if !ok {
		return "", errors.NewNotFoundError("movie", itoa(id))
	}
	card := render.NewCard(m, p.store.Contains(id), p.catalog)
	if target != "" && !slices.Contains(card.Affordances(), target) {
		return "", errors.NewValidationError("target", string(target), "not a card action")
	}

	switch action := card.Click(target); action {
	case render.ToggleFavorite:
		_, err := p.ToggleFavorite(ctx, id)
		return action, err
	default:
		p.OpenDetails(ctx, id)
		return action, nil
	}
}

// HandleKey dispatches a key press to every listener on the page.
func (p *Page) HandleKey(key string) int {
	return p.bus.Dispatch(key)
}

func (p *Page) onFavoritesChange(c favorites.Change) {
	p.rerender()
	if n, ok := p.toasts.Current(); ok {
		p.publisher.Publish(EventToastShown, n)
	}
	p.publisher.Publish(EventFavoritesChanged, c)
}

func (p *Page) onSearchChange(panel search.Panel) {
	if panel.Status == search.Results {
		p.carousels[SearchCarousel].Reset(len(panel.Results))
	}
	p.rerender()
	p.publisher.Publish(EventSearchUpdated, map[string]any{
		"status": panel.Status,
		"query":  panel.Query,
		"token":  panel.Token,
	})
}

func (p *Page) onOverlayChange(s overlay.Snapshot) {
	p.rerender()
	p.publisher.Publish(EventOverlayUpdated, map[string]any{
		"state":    s.State,
		"movie_id": s.MovieID,
	})
}
