// Package serve provides the command that serves the discovery page.
package serve

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/agentstation/cinemap/cmd/application"
	"github.com/agentstation/cinemap/internal/cmd/emoji"
	"github.com/agentstation/cinemap/internal/page"
	"github.com/agentstation/cinemap/internal/server"
	"github.com/agentstation/cinemap/internal/server/events"
	"github.com/agentstation/cinemap/pkg/constants"
)

// NewCommand creates the serve command.
func NewCommand(app application.Application) *cobra.Command {
	def := server.DefaultConfig()

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"server"},
		GroupID: "core",
		Short:   "Serve the movie discovery page",
		Long: `Start an HTTP server for the movie discovery page.

Features:
  - The rendered page with trending, search and favorites sections
  - A JSON API for every page interaction (/api/v1/...)
  - WebSocket updates (/api/v1/updates/ws)
  - Server-Sent Events (/api/v1/updates/stream)
  - Rate limiting (requests per minute per IP)
  - CORS support
  - Request logging and panic recovery
  - Graceful shutdown`,
		Example: `  # Start on default port 8080
  cinemap serve

  # Custom port and CORS origins
  cinemap serve --port 3000 --cors-origins "https://example.com"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd, args, app)
		},
	}

	cmd.Flags().Int("port", def.Port, "Server port")
	cmd.Flags().String("host", def.Host, "Bind address")
	cmd.Flags().Bool("cors", false, "Enable CORS for all origins")
	cmd.Flags().StringSlice("cors-origins", []string{}, "Allowed CORS origins (comma-separated)")
	cmd.Flags().Int("rate-limit", def.RateLimit, "Requests per minute per IP (0 to disable)")
	cmd.Flags().Duration("read-timeout", def.ReadTimeout, "HTTP read timeout")
	cmd.Flags().Duration("write-timeout", def.WriteTimeout, "HTTP write timeout")
	cmd.Flags().Duration("idle-timeout", def.IdleTimeout, "HTTP idle timeout")
	cmd.Flags().String("prefix", def.PathPrefix, "API path prefix")

	return cmd
}

func runServer(cmd *cobra.Command, _ []string, app application.Application) error {
	cfg := parseConfig(cmd)
	logger := app.Logger()
	ctx := cmd.Context()

	logger.Info().
		Int("port", cfg.Port).
		Str("host", cfg.Host).
		Str("prefix", cfg.PathPrefix).
		Bool("cors", cfg.CORSEnabled).
		Int("rate_limit", cfg.RateLimit).
		Msg("Starting server")

	srv, pg, err := build(ctx, cfg, app)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	srv.Start()

	view := pg.Load(ctx)
	logger.Info().
		Int("trending", len(view.Trending.Cards)).
		Int("favorites", len(view.Favorites.Cards)).
		Msg("Page loaded")

	httpServer := srv.HTTPServer(fmt.Sprintf("%s:%d", cfg.Host, cfg.Port))
	return startWithGracefulShutdown(ctx, httpServer, srv, logger)
}

// build wires the broker, page and server. The page publishes into the
// broker, which fans events out to the server's streams.
func build(ctx context.Context, cfg server.Config, app application.Application) (*server.Server, *page.Page, error) {
	logger := app.Logger()

	catalog, err := app.Catalog()
	if err != nil {
		return nil, nil, err
	}
	store, err := app.Favorites(ctx)
	if err != nil {
		return nil, nil, err
	}

	broker := events.NewBroker(logger)
	pg := page.New(app.PageConfig(), catalog, store, page.WithPublisher(broker.Emitter()))

	srv, err := server.New(cfg, pg, catalog, broker, logger)
	if err != nil {
		return nil, nil, err
	}
	return srv, pg, nil
}

func parseConfig(cmd *cobra.Command) server.Config {
	port := mustGetInt(cmd, "port")
	host := mustGetString(cmd, "host")

	if envPort := os.Getenv("HTTP_PORT"); envPort != "" && !cmd.Flags().Changed("port") {
		if p, err := parsePort(envPort); err == nil {
			port = p
		}
	}
	if envHost := os.Getenv("HTTP_HOST"); envHost != "" && !cmd.Flags().Changed("host") {
		host = envHost
	}

	return server.Config{
		Host:         host,
		Port:         port,
		PathPrefix:   mustGetString(cmd, "prefix"),
		CORSEnabled:  mustGetBool(cmd, "cors"),
		CORSOrigins:  mustGetStringSlice(cmd, "cors-origins"),
		RateLimit:    mustGetInt(cmd, "rate-limit"),
		ReadTimeout:  mustGetDuration(cmd, "read-timeout"),
		WriteTimeout: mustGetDuration(cmd, "write-timeout"),
		IdleTimeout:  mustGetDuration(cmd, "idle-timeout"),
	}
}

func parsePort(portStr string) (int, error) {
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0, fmt.Errorf("invalid port number: %s", portStr)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("port out of range: %d", port)
	}
	return port, nil
}

// startWithGracefulShutdown serves until ctx is cancelled, then drains
// connections and stops the background services.
func startWithGracefulShutdown(ctx context.Context, httpServer *http.Server, srv *server.Server, logger *zerolog.Logger) error {
	serverErr := make(chan error, 1)

	go func() {
		logger.Info().Str("addr", httpServer.Addr).Msg("HTTP server listening")

		fmt.Printf("%s cinemap listening on http://%s\n", emoji.Launch, httpServer.Addr)
		fmt.Println("   Press Ctrl+C to stop")

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- fmt.Errorf("server failed: %w", err)
		}
	}()

	select {
	case err := <-serverErr:
		shutdownBackground(srv, logger)
		return err
	case <-ctx.Done():
		logger.Info().Msg("Shutdown signal received via context")
		fmt.Printf("\n%s Shutting down server...\n", emoji.Stop)

		// The parent context is already cancelled.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("Background services shutdown had issues")
		}

		logger.Info().Msg("Server stopped gracefully")
		fmt.Printf("%s Server stopped gracefully\n", emoji.Success)
		return nil
	}
}

func shutdownBackground(srv *server.Server, logger *zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn().Err(err).Msg("Background services shutdown had issues")
	}
}

func mustGetInt(cmd *cobra.Command, name string) int {
	val, err := cmd.Flags().GetInt(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}

func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}

func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}

func mustGetStringSlice(cmd *cobra.Command, name string) []string {
	val, err := cmd.Flags().GetStringSlice(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}

func mustGetDuration(cmd *cobra.Command, name string) time.Duration {
	val, err := cmd.Flags().GetDuration(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}
