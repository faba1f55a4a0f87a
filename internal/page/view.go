package page

import (
	"strconv"

	"github.com/agentstation/cinemap/internal/overlay"
	"github.com/agentstation/cinemap/internal/render"
	"github.com/agentstation/cinemap/internal/search"
	"github.com/agentstation/cinemap/pkg/movies"
)

// rerender rebuilds every section from its source of truth and stores the
// result as the current view. Concurrent rebuilds are ordered by sequence
// number so an older build never replaces a newer one.
func (p *Page) rerender() render.Page {
	p.mu.Lock()
	p.seq++
	seq := p.seq
	trending := p.trending
	loaded := p.loaded
	p.mu.Unlock()

	v := render.Page{
		Language:  p.cfg.Language,
		Trending:  p.trendingSection(trending, loaded),
		Search:    p.searchPanel(),
		Favorites: p.favoritesSection(),
		Overlay:   p.overlayView(),
	}

	p.mu.Lock()
	if seq > p.applied {
		p.applied = seq
		p.view = v
	}
	v = p.view
	p.mu.Unlock()
	return v
}

func (p *Page) trendingSection(list []movies.Movie, loaded bool) render.Section {
	s := render.Section{ID: TrendingCarousel, Title: TrendingTitle}
	switch {
	case !loaded:
		s.Message = render.LoadingMoviesMessage
		s.MessageClass = "loading"
	case len(list) == 0:
		s.Message = render.NoMoviesMessage
		s.MessageClass = "error"
	default:
		s.Cards = render.Cards(list, p.store.Contains, p.catalog)
		st := p.carousels[TrendingCarousel].Reposition()
		s.Carousel = &st
	}
	return s
}

func (p *Page) favoritesSection() render.Section {
	list := p.store.List()
	s := render.Section{ID: "favorites", Title: FavoritesTitle}
	if len(list) == 0 {
		s.Message = render.EmptyFavoritesMessage
		s.Hint = render.EmptyFavoritesHint
		s.MessageClass = "empty-favorites"
		return s
	}
	s.Cards = make([]render.Card, len(list))
	for i, m := range list {
		s.Cards[i] = render.NewCard(m, true, p.catalog)
	}
	return s
}

func (p *Page) searchPanel() render.SearchPanel {
	panel := p.search.Panel()
	out := render.SearchPanel{
		Status:  string(panel.Status),
		Query:   panel.Query,
		Message: panel.Message,
	}
	if panel.Status == search.Results {
		out.Cards = make([]render.Card, len(panel.Results))
		for i, m := range panel.Results {
			out.Cards[i] = render.NewListItem(m, p.store.Contains(m.ID), p.catalog)
		}
		st := p.carousels[SearchCarousel].Reposition()
		out.Carousel = &st
	}
	return out
}

func (p *Page) overlayView() render.Overlay {
	snap := p.overlay.Snapshot()
	out := render.Overlay{State: string(snap.State), MovieID: snap.MovieID}
	switch snap.State {
	case overlay.Loading:
		out.Message = render.OverlayLoadingMessage
	case overlay.Failed:
		out.Message = render.OverlayErrorMessage
	case overlay.Shown:
		if snap.Details != nil {
			d := render.NewDetail(snap.Details, p.store.Contains(snap.Details.ID), p.catalog)
			out.Detail = &d
		}
	}
	return out
}

func itoa(n int) string { return strconv.Itoa(n) }
