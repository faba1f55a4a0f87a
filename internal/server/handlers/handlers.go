// Package handlers provides the HTTP handlers for the discovery page and
// its JSON API.
package handlers

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/agentstation/cinemap/internal/page"
	"github.com/agentstation/cinemap/internal/render"
	"github.com/agentstation/cinemap/internal/server/sse"
	ws "github.com/agentstation/cinemap/internal/server/websocket"
	"github.com/agentstation/cinemap/pkg/errors"
)

// Handlers serves one page.
type Handlers struct {
	page           *page.Page
	catalog        page.Catalog
	renderer       *render.Renderer
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	upgrader       websocket.Upgrader
	logger         *zerolog.Logger
	startTime      time.Time
}

// New creates the handlers.
func New(
	pg *page.Page,
	catalog page.Catalog,
	renderer *render.Renderer,
	wsHub *ws.Hub,
	sseBroadcaster *sse.Broadcaster,
	upgrader websocket.Upgrader,
	logger *zerolog.Logger,
) *Handlers {
	return &Handlers{
		page:           pg,
		catalog:        catalog,
		renderer:       renderer,
		wsHub:          wsHub,
		sseBroadcaster: sseBroadcaster,
		upgrader:       upgrader,
		logger:         logger,
		startTime:      time.Now(),
	}
}

// interaction is the body of the page's POST endpoints. Every field is
// optional; Width, when set, is the browser's current carousel viewport.
// Target is the card affordance a click landed on.
type interaction struct {
	Query  string        `json:"query"`
	Width  int           `json:"width"`
	Key    string        `json:"key"`
	Target render.Action `json:"target"`
}

func decodeInteraction(r *http.Request) (interaction, error) {
	var in interaction
	if r.Body == nil {
		return in, nil
	}
	err := json.NewDecoder(io.LimitReader(r.Body, 1<<16)).Decode(&in)
	if err != nil && err != io.EOF {
		return in, errors.NewValidationError("body", nil, err.Error())
	}
	return in, nil
}

func movieID(r *http.Request) (int, error) {
	raw := r.PathValue("id")
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, errors.NewValidationError("id", raw, "must be a positive integer")
	}
	return id, nil
}
