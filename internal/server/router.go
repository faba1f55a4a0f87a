package server

import (
	"net/http"

	"github.com/agentstation/cinemap/internal/server/handlers"
	"github.com/agentstation/cinemap/internal/server/middleware"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	mux := http.NewServeMux()

	h := handlers.New(
		s.page,
		s.catalog,
		s.renderer,
		s.wsHub,
		s.sseBroadcaster,
		s.upgrader,
		s.logger,
	)

	s.registerRoutes(mux, h)
	return s.applyMiddleware(mux)
}

// registerRoutes registers all HTTP routes.
func (s *Server) registerRoutes(mux *http.ServeMux, h *handlers.Handlers) {
	prefix := s.config.PathPrefix

	mux.HandleFunc("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Page
	mux.HandleFunc("GET /{$}", h.HandlePage)
	mux.HandleFunc("GET /fragments/{name}", h.HandleFragment)
	mux.Handle("GET /static/", h.Static())

	// Health
	mux.HandleFunc("GET /health", h.HandleHealth)
	mux.HandleFunc("GET "+prefix+"/health", h.HandleHealth)
	mux.HandleFunc("GET "+prefix+"/ready", h.HandleReady)

	// Catalog and favorites
	mux.HandleFunc("GET "+prefix+"/view", h.HandleView)
	mux.HandleFunc("GET "+prefix+"/trending", h.HandleTrending)
	mux.HandleFunc("GET "+prefix+"/search", h.HandleSearch)
	mux.HandleFunc("GET "+prefix+"/movies/{id}", h.HandleMovie)
	mux.HandleFunc("GET "+prefix+"/favorites", h.HandleFavorites)
	mux.HandleFunc("POST "+prefix+"/favorites/{id}/toggle", h.HandleToggleFavorite)

	// Interactions
	mux.HandleFunc("POST "+prefix+"/cards/{id}/click", h.HandleCardClick)
	mux.HandleFunc("POST "+prefix+"/carousels/{name}/{action}", h.HandleCarousel)
	mux.HandleFunc("POST "+prefix+"/search/{action}", h.HandleSearchAction)
	mux.HandleFunc("POST "+prefix+"/overlay/open/{id}", h.HandleOpenDetails)
	mux.HandleFunc("POST "+prefix+"/overlay/{target}", h.HandleCloseDetails)
	mux.HandleFunc("POST "+prefix+"/keys", h.HandleKey)
	mux.HandleFunc("POST "+prefix+"/viewport", h.HandleViewport)

	// Real-time
	mux.HandleFunc("GET "+prefix+"/updates/ws", h.HandleWebSocket)
	mux.HandleFunc("GET "+prefix+"/updates/stream", h.HandleSSE)
}

// applyMiddleware wraps handler with the middleware chain.
func (s *Server) applyMiddleware(handler http.Handler) http.Handler {
	cfg := s.config

	if cfg.RateLimit > 0 {
		handler = middleware.RateLimit(middleware.NewRateLimiter(cfg.RateLimit, s.logger))(handler)
	}

	if cfg.CORSEnabled {
		corsConfig := middleware.DefaultCORSConfig()
		if len(cfg.CORSOrigins) > 0 {
			corsConfig.AllowedOrigins = cfg.CORSOrigins
		} else {
			corsConfig.AllowAll = true
		}
		handler = middleware.CORS(corsConfig)(handler)
	}

	return middleware.Chain(
		middleware.Recovery(s.logger),
		middleware.RequestID(),
		middleware.Logger(s.logger),
	)(handler)
}
