// Package application defines what cinemap commands need from the
// application, so commands can be tested against a mock.
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            cat, err := app.Catalog()
//	            if err != nil {
//	                return err
//	            }
//	            movies := cat.FetchTrending(cmd.Context())
//	            // ...
//	        },
//	    }
//	}
package application

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/cinemap/internal/favorites"
	"github.com/agentstation/cinemap/internal/page"
)

// Application is implemented by cmd/cinemap/app.App.
type Application interface {
	// Catalog returns the shared catalog client.
	Catalog() (page.Catalog, error)

	// Favorites returns the favorites store. Callers Load it once.
	Favorites(ctx context.Context) (*favorites.Store, error)

	// PageConfig returns layout and timing settings for the page.
	PageConfig() page.Config

	// OutputFormat returns the requested output format, possibly empty.
	OutputFormat() string

	// Logger returns the application logger.
	Logger() *zerolog.Logger

	// Version returns the build version.
	Version() string
}
