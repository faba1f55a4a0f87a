package handlers

import (
	"net/http"
	"time"

	"github.com/agentstation/cinemap/internal/server/response"
)

// HandleHealth handles GET /health (liveness).
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": "cinemap",
		"version": "v1",
	})
}

// HandleReady handles GET /api/v1/ready. The page is ready once trending
// movies have been requested, even if the catalog returned none.
func (h *Handlers) HandleReady(w http.ResponseWriter, _ *http.Request) {
	if !h.page.Loaded() {
		response.ServiceUnavailable(w, "Page not loaded")
		return
	}

	response.OK(w, map[string]any{
		"status":            "ready",
		"uptime":            time.Since(h.startTime).Round(time.Second).String(),
		"trending":          len(h.page.Trending()),
		"favorites":         len(h.page.Favorites()),
		"websocket_clients": h.wsHub.ClientCount(),
		"sse_clients":       h.sseBroadcaster.ClientCount(),
	})
}
