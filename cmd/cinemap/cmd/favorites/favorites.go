// Package favorites provides the commands that manage the saved
// favorites list.
package favorites

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/cinemap/cmd/application"
	moviescmd "github.com/agentstation/cinemap/cmd/cinemap/cmd/movies"
	"github.com/agentstation/cinemap/internal/cmd/output"
	"github.com/agentstation/cinemap/internal/favorites"
	"github.com/agentstation/cinemap/pkg/constants"
	"github.com/agentstation/cinemap/pkg/logging"
	"github.com/agentstation/cinemap/pkg/movies"
)

// NewCommand creates the favorites command and its subcommands.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"fav", "favs"},
		GroupID: "management",
		Short:   "List and toggle favorite movies",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, app)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List favorite movies",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, app)
		},
	})
	cmd.AddCommand(newToggleCommand(app))
	cmd.AddCommand(newClearCommand(app))
	return cmd
}

// loadStore opens the favorites store and reads the persisted list.
func loadStore(ctx context.Context, app application.Application) (*favorites.Store, error) {
	store, err := app.Favorites(ctx)
	if err != nil {
		return nil, err
	}
	store.Load(ctx)
	return store, nil
}

func runList(cmd *cobra.Command, app application.Application) error {
	store, err := loadStore(cmd.Context(), app)
	if err != nil {
		return err
	}
	return output.Favorites(cmd.OutOrStdout(), output.DetectFormat(app.OutputFormat()), store.List())
}

func newToggleCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Add a movie to favorites, or remove it if already there",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := moviescmd.ParseID(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), constants.DefaultTimeout)
			defer cancel()
			ctx = logging.WithMovie(logging.WithLogger(ctx, app.Logger()), id)

			store, err := loadStore(ctx, app)
			if err != nil {
				return err
			}

			movie, err := resolve(ctx, app, store, id)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			store.AddNotifier(favorites.NotifierFunc(func(n favorites.Notice) {
				fmt.Fprintln(out, n.Message)
			}))

			_, err = store.Toggle(ctx, movie)
			return err
		},
	}
}

// resolve finds the movie to toggle. A saved favorite is removed as
// stored; anything else is looked up in the catalog.
func resolve(ctx context.Context, app application.Application, store *favorites.Store, id int) (movies.Movie, error) {
	if m, ok := movies.Find(store.List(), id); ok {
		return m, nil
	}
	catalog, err := app.Catalog()
	if err != nil {
		return movies.Movie{}, err
	}
	details, err := catalog.FetchDetails(ctx, id)
	if err != nil {
		return movies.Movie{}, fmt.Errorf("looking up movie %d: %w", id, err)
	}
	return details.Movie, nil
}

func newClearCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every favorite",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := loadStore(cmd.Context(), app)
			if err != nil {
				return err
			}
			n := store.Len()
			if err := store.Save(cmd.Context(), nil); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d favorites\n", n)
			return nil
		},
	}
}
