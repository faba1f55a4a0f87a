// Package server serves the discovery page over HTTP: the rendered page,
// a JSON API for every interaction, and SSE and WebSocket streams that
// push page events to connected browsers.
package server

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/agentstation/cinemap/internal/page"
	"github.com/agentstation/cinemap/internal/render"
	"github.com/agentstation/cinemap/internal/server/events"
	"github.com/agentstation/cinemap/internal/server/events/adapters"
	"github.com/agentstation/cinemap/internal/server/sse"
	ws "github.com/agentstation/cinemap/internal/server/websocket"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	page           *page.Page
	catalog        page.Catalog
	renderer       *render.Renderer
	broker         *events.Broker
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	upgrader       websocket.Upgrader
	logger         *zerolog.Logger
	config         Config
	ctx            context.Context
	cancel         context.CancelFunc
	done           chan struct{}
	started        atomic.Bool
}

// New creates a server for pg. The page should publish into broker
// (page.WithPublisher(broker.Emitter())) so its events reach the streams.
func New(cfg Config, pg *page.Page, catalog page.Catalog, broker *events.Broker, logger *zerolog.Logger) (*Server, error) {
	if cfg.PathPrefix == "" {
		cfg.PathPrefix = DefaultConfig().PathPrefix
	}

	renderer, err := render.New()
	if err != nil {
		return nil, err
	}

	wsHub := ws.NewHub(logger)
	sseBroadcaster := sse.NewBroadcaster(logger)

	broker.Subscribe(adapters.NewWebSocketSubscriber(wsHub))
	broker.Subscribe(adapters.NewSSESubscriber(sseBroadcaster))
	logger.Debug().Msg("Transports subscribed to event broker")

	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		page:           pg,
		catalog:        catalog,
		renderer:       renderer,
		broker:         broker,
		wsHub:          wsHub,
		sseBroadcaster: sseBroadcaster,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
		logger: logger,
		config: cfg,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}, nil
}

// Start runs the broker, hub and broadcaster in the background.
func (s *Server) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	s.logger.Debug().Msg("Starting background services")

	go func() {
		defer close(s.done)
		s.broker.Run(s.ctx)
	}()
	go s.wsHub.Run(s.ctx)
	go s.sseBroadcaster.Run(s.ctx)
}

// Handler returns the routes wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// Shutdown stops the background services, waiting for the broker to
// close its subscribers or for ctx to expire.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down server background services")
	s.cancel()
	if !s.started.Load() {
		return nil
	}

	select {
	case <-s.done:
		s.logger.Info().Msg("Background services shut down successfully")
		return nil
	case <-ctx.Done():
		s.logger.Warn().Msg("Background services shutdown timed out")
		return ctx.Err()
	}
}

// HTTPServer returns an http.Server for the configured address.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadTimeout:       s.config.ReadTimeout,
		ReadHeaderTimeout: s.config.ReadTimeout,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       s.config.IdleTimeout,
	}
}

// WSHub returns the WebSocket hub.
func (s *Server) WSHub() *ws.Hub {
	return s.wsHub
}

// SSEBroadcaster returns the SSE broadcaster.
func (s *Server) SSEBroadcaster() *sse.Broadcaster {
	return s.sseBroadcaster
}

// Broker returns the event broker.
func (s *Server) Broker() *events.Broker {
	return s.broker
}
