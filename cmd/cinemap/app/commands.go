package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/cinemap/cmd/cinemap/cmd/favorites"
	"github.com/agentstation/cinemap/cmd/cinemap/cmd/movies"
	"github.com/agentstation/cinemap/cmd/cinemap/cmd/serve"
	"github.com/agentstation/cinemap/internal/cmd/output"
)

func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(serve.NewCommand(a))
	rootCmd.AddCommand(movies.NewCommand(a))

	// Management commands
	rootCmd.AddCommand(favorites.NewCommand(a))

	rootCmd.AddCommand(a.newVersionCommand())
}

func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("cinemap %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}

func parseFormat(s string) (output.Format, error) {
	return output.ParseFormat(s)
}
