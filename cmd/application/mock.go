package application

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/cinemap/internal/favorites"
	"github.com/agentstation/cinemap/internal/page"
	"github.com/agentstation/cinemap/pkg/errors"
	"github.com/agentstation/cinemap/pkg/movies"
)

// Mock is an Application with overridable parts. Unset functions return
// zero values.
type Mock struct {
	CatalogFunc   func() (page.Catalog, error)
	FavoritesFunc func(ctx context.Context) (*favorites.Store, error)
	PageCfg       page.Config
	Format        string
	Log           *zerolog.Logger
}

var _ Application = (*Mock)(nil)

// Catalog calls CatalogFunc.
func (m *Mock) Catalog() (page.Catalog, error) {
	if m.CatalogFunc == nil {
		return nil, nil
	}
	return m.CatalogFunc()
}

// Favorites calls FavoritesFunc.
func (m *Mock) Favorites(ctx context.Context) (*favorites.Store, error) {
	if m.FavoritesFunc == nil {
		return nil, nil
	}
	return m.FavoritesFunc(ctx)
}

// PageConfig returns PageCfg, or the default when unset.
func (m *Mock) PageConfig() page.Config {
	if m.PageCfg == (page.Config{}) {
		return page.DefaultConfig()
	}
	return m.PageCfg
}

// OutputFormat returns Format.
func (m *Mock) OutputFormat() string { return m.Format }

// Logger returns Log or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.Log == nil {
		l := zerolog.Nop()
		return &l
	}
	return m.Log
}

// Version returns "test".
func (m *Mock) Version() string { return "test" }

// StaticCatalog is a page.Catalog over fixed data.
type StaticCatalog struct {
	Trending []movies.Movie
	Results  map[string][]movies.Movie
	Details  map[int]*movies.Details
}

var _ page.Catalog = (*StaticCatalog)(nil)

// FetchTrending returns Trending.
func (c *StaticCatalog) FetchTrending(context.Context) []movies.Movie { return c.Trending }

// Search returns Results[query].
func (c *StaticCatalog) Search(_ context.Context, query string) []movies.Movie {
	return c.Results[query]
}

// FetchDetails returns Details[id], or a 404 catalog error.
func (c *StaticCatalog) FetchDetails(_ context.Context, id int) (*movies.Details, error) {
	if d, ok := c.Details[id]; ok {
		return d, nil
	}
	return nil, errors.NewAPIError("tmdb", 404, "The resource you requested could not be found.")
}

// ImageURL returns the path itself.
func (c *StaticCatalog) ImageURL(path *string) string {
	if path == nil {
		return ""
	}
	return *path
}

// BackdropURL returns the path itself.
func (c *StaticCatalog) BackdropURL(path *string) string { return c.ImageURL(path) }
