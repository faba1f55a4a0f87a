package handlers

import (
	"bytes"
	"net/http"

	"github.com/agentstation/cinemap/internal/render"
	"github.com/agentstation/cinemap/internal/server/response"
	"github.com/agentstation/cinemap/pkg/errors"
	"github.com/agentstation/cinemap/pkg/logging"
)

// HandlePage handles GET / and GET /fragments/page.
func (h *Handlers) HandlePage(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.renderer.Page(&buf, h.page.View()); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to render page")
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	writeHTML(w, buf.Bytes())
}

// HandleFragment handles GET /fragments/{name}.
func (h *Handlers) HandleFragment(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "page" {
		h.HandlePage(w, r)
		return
	}

	var buf bytes.Buffer
	if err := h.renderer.Fragment(&buf, name, h.page.View()); err != nil {
		if errors.IsNotFound(err) {
			response.NotFound(w, err.Error(), "")
			return
		}
		logging.Ctx(r.Context()).Error().Err(err).Str("fragment", name).Msg("Failed to render fragment")
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	writeHTML(w, buf.Bytes())
}

// Static serves the page's stylesheet and script under /static/.
func (h *Handlers) Static() http.Handler {
	return http.StripPrefix("/static/", http.FileServer(http.FS(render.Static())))
}

func writeHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
