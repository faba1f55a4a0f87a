package handlers

import (
	"net/http"
	"strings"

	"github.com/agentstation/cinemap/internal/overlay"
	"github.com/agentstation/cinemap/internal/server/response"
	"github.com/agentstation/cinemap/pkg/errors"
	"github.com/agentstation/cinemap/pkg/logging"
	"github.com/agentstation/cinemap/pkg/movies"
)

// HandleView handles GET /api/v1/view.
func (h *Handlers) HandleView(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, h.page.View())
}

// HandleTrending handles GET /api/v1/trending.
func (h *Handlers) HandleTrending(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, h.page.Trending())
}

// HandleSearch handles GET /api/v1/search?q=. It queries the catalog
// without touching the page's search panel.
func (h *Handlers) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		response.OK(w, []movies.Movie{})
		return
	}
	response.OK(w, h.catalog.Search(logging.WithView(r.Context(), "search"), q))
}

// HandleMovie handles GET /api/v1/movies/{id}.
func (h *Handlers) HandleMovie(w http.ResponseWriter, r *http.Request) {
	id, err := movieID(r)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	d, err := h.catalog.FetchDetails(logging.WithMovie(r.Context(), id), id)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, d)
}

// HandleFavorites handles GET /api/v1/favorites.
func (h *Handlers) HandleFavorites(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, h.page.Favorites())
}

// HandleToggleFavorite handles POST /api/v1/favorites/{id}/toggle.
func (h *Handlers) HandleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := movieID(r)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	list, err := h.page.ToggleFavorite(r.Context(), id)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, list)
}

// HandleCardClick handles POST /api/v1/cards/{id}/click.
func (h *Handlers) HandleCardClick(w http.ResponseWriter, r *http.Request) {
	id, err := movieID(r)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	in, err := decodeInteraction(r)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	action, err := h.page.ClickCard(r.Context(), id, in.Target)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, map[string]any{"id": id, "action": action, "view": h.page.View()})
}

// HandleCarousel handles POST /api/v1/carousels/{name}/{action} where
// action is advance, retreat or resize.
func (h *Handlers) HandleCarousel(w http.ResponseWriter, r *http.Request) {
	in, err := decodeInteraction(r)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	if in.Width > 0 {
		h.page.Resize(in.Width)
	}

	name := r.PathValue("name")
	switch action := r.PathValue("action"); action {
	case "advance":
		st, err := h.page.Advance(name)
		if err != nil {
			response.ErrorFromType(w, err)
			return
		}
		response.OK(w, st)
	case "retreat":
		st, err := h.page.Retreat(name)
		if err != nil {
			response.ErrorFromType(w, err)
			return
		}
		response.OK(w, st)
	case "resize":
		response.OK(w, h.page.View())
	default:
		response.NotFound(w, "unknown carousel action "+action, "")
	}
}

// HandleViewport handles POST /api/v1/viewport.
func (h *Handlers) HandleViewport(w http.ResponseWriter, r *http.Request) {
	in, err := decodeInteraction(r)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	if in.Width <= 0 {
		response.ErrorFromType(w, errors.NewValidationError("width", in.Width, "must be positive"))
		return
	}
	response.OK(w, h.page.Resize(in.Width))
}

// HandleSearchAction handles POST /api/v1/search/{action} where action is
// input, submit or dismiss.
func (h *Handlers) HandleSearchAction(w http.ResponseWriter, r *http.Request) {
	in, err := decodeInteraction(r)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	if in.Width > 0 {
		h.page.Resize(in.Width)
	}

	switch action := r.PathValue("action"); action {
	case "input":
		h.page.SearchInput(in.Query)
		response.JSON(w, http.StatusAccepted, response.Success(h.page.View().Search))
	case "submit":
		response.OK(w, h.page.SearchSubmit(r.Context(), in.Query).Search)
	case "dismiss":
		h.page.DismissSearch()
		response.OK(w, h.page.View().Search)
	default:
		response.NotFound(w, "unknown search action "+action, "")
	}
}

// HandleOpenDetails handles POST /api/v1/overlay/open/{id}.
func (h *Handlers) HandleOpenDetails(w http.ResponseWriter, r *http.Request) {
	id, err := movieID(r)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	response.OK(w, h.page.OpenDetails(r.Context(), id))
}

// HandleCloseDetails handles POST /api/v1/overlay/{target} where target
// is close (the close button), background or content.
func (h *Handlers) HandleCloseDetails(w http.ResponseWriter, r *http.Request) {
	var target overlay.Target
	switch t := r.PathValue("target"); t {
	case "close":
		target = overlay.CloseButton
	case "background":
		target = overlay.Background
	case "content":
		target = overlay.Content
	default:
		response.NotFound(w, "unknown overlay target "+t, "")
		return
	}
	response.OK(w, h.page.CloseDetails(target))
}

// HandleKey handles POST /api/v1/keys.
func (h *Handlers) HandleKey(w http.ResponseWriter, r *http.Request) {
	in, err := decodeInteraction(r)
	if err != nil {
		response.ErrorFromType(w, err)
		return
	}
	if in.Key == "" {
		response.ErrorFromType(w, errors.NewValidationError("key", in.Key, "required"))
		return
	}
	listeners := h.page.HandleKey(in.Key)
	response.OK(w, map[string]any{"key": in.Key, "listeners": listeners})
}
