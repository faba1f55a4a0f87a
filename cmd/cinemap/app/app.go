// Package app provides the application context and dependency management
// for the cinemap CLI. It centralizes configuration, logging and the
// lazily built catalog client and favorites store.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/cinemap/cmd/application"
	"github.com/agentstation/cinemap/internal/catalog"
	"github.com/agentstation/cinemap/internal/favorites"
	"github.com/agentstation/cinemap/internal/page"
	"github.com/agentstation/cinemap/internal/storage"
	"github.com/agentstation/cinemap/pkg/errors"
)

var _ application.Application = (*App)(nil)

// App holds the cinemap application and its dependencies.
type App struct {
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Lazily built, guarded by mu.
	mu        sync.RWMutex
	catalog   page.Catalog
	store     *storage.Store
	favorites *favorites.Store
}

// New creates an App with configuration loaded from the environment.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string { return a.version }

// Config returns the application configuration.
func (a *App) Config() *Config { return a.config }

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger { return a.logger }

// OutputFormat returns the --format flag value.
func (a *App) OutputFormat() string { return a.config.Format }

// PageConfig returns the page layout and timing.
func (a *App) PageConfig() page.Config { return a.config.PageConfig() }

// Catalog returns the catalog client, creating it on first use.
func (a *App) Catalog() (page.Catalog, error) {
	a.mu.RLock()
	if a.catalog != nil {
		c := a.catalog
		a.mu.RUnlock()
		return c, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.catalog != nil {
		return a.catalog, nil
	}

	client, err := catalog.New(a.config.CatalogConfig())
	if err != nil {
		return nil, errors.WrapResource("create", "catalog", "", err)
	}
	a.catalog = client
	return client, nil
}

// Favorites opens the favorites database on first use. The returned store
// is empty until its owner calls Load; the page does that when it loads.
func (a *App) Favorites(_ context.Context) (*favorites.Store, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.favorites != nil {
		return a.favorites, nil
	}

	db, err := storage.Open(a.config.DataDir)
	if err != nil {
		return nil, errors.WrapResource("open", "favorites", a.config.DataDir, err)
	}

	fav := favorites.New(db)

	a.store = db
	a.favorites = fav
	return fav, nil
}

// Shutdown releases the favorites database.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	a.favorites = nil
	if err != nil {
		a.logger.Error().Err(err).Msg("Failed to close favorites database")
		return errors.WrapResource("close", "favorites", a.config.DataDir, err)
	}
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithCatalog sets the catalog (useful for testing).
func WithCatalog(c page.Catalog) Option {
	return func(a *App) error {
		a.catalog = c
		return nil
	}
}
