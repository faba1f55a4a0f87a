// Package movies provides the commands that query the movie catalog.
package movies

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentstation/cinemap/cmd/application"
	"github.com/agentstation/cinemap/internal/cmd/output"
	"github.com/agentstation/cinemap/pkg/constants"
	"github.com/agentstation/cinemap/pkg/errors"
)

// NewCommand creates the movies command and its subcommands.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "movies",
		Aliases: []string{"movie", "m"},
		GroupID: "core",
		Short:   "Browse trending movies, search and show details",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newTrendingCommand(app))
	cmd.AddCommand(newSearchCommand(app))
	cmd.AddCommand(newDetailsCommand(app))
	return cmd
}

func newTrendingCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "trending",
		Short: "List this week's trending movies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			catalog, err := app.Catalog()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), constants.DefaultTimeout)
			defer cancel()

			list := catalog.FetchTrending(ctx)
			app.Logger().Debug().Int("count", len(list)).Msg("Fetched trending movies")
			return output.Movies(cmd.OutOrStdout(), output.DetectFormat(app.OutputFormat()), list)
		},
	}
}

func newSearchCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "search <query>",
		Short:   "Search movies by title",
		Example: `  cinemap movies search 기생충`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return errors.NewValidationError("query", query, "must not be blank")
			}
			catalog, err := app.Catalog()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), constants.DefaultTimeout)
			defer cancel()

			list := catalog.Search(ctx, query)
			app.Logger().Debug().Str("query", query).Int("count", len(list)).Msg("Searched movies")
			return output.Movies(cmd.OutOrStdout(), output.DetectFormat(app.OutputFormat()), list)
		},
	}
}

func newDetailsCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:     "details <id>",
		Aliases: []string{"show"},
		Short:   "Show a movie's details",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ParseID(args[0])
			if err != nil {
				return err
			}
			catalog, err := app.Catalog()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), constants.DefaultTimeout)
			defer cancel()

			details, err := catalog.FetchDetails(ctx, id)
			if err != nil {
				return fmt.Errorf("fetching movie %d: %w", id, err)
			}
			return output.Details(cmd.OutOrStdout(), output.DetectFormat(app.OutputFormat()), details)
		},
	}
}

// ParseID parses a positive movie ID.
func ParseID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return 0, errors.NewValidationError("id", s, "must be a positive integer")
	}
	return id, nil
}
