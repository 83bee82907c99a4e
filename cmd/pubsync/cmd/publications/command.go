// Package publications provides the publications resource command and subcommands.
package publications

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agentstation/pubsync/internal/cmd/application"
	"github.com/agentstation/pubsync/internal/cmd/catalog"
	"github.com/agentstation/pubsync/internal/cmd/cmdutil"
	"github.com/agentstation/pubsync/internal/cmd/output"
	"github.com/agentstation/pubsync/pkg/errors"
)

// NewCommand creates the publications resource command.
func NewCommand(app application.Application) *cobra.Command {
	var flags *cmdutil.ResourceFlags

	cmd := &cobra.Command{
		Use:     "publications [id]",
		Aliases: []string{"pub", "publikasi"},
		GroupID: "catalog",
		Short:   "Manage the publication catalog",
		Long: `Manage the publication catalog kept on the REST backend.

Without arguments the catalog is fetched and listed newest first. With an id
the single publication is shown.`,
		Args: cobra.MaximumNArgs(1),
		Example: `  pubsync publications                          # List all publications
  pubsync publications 7                        # Show publication 7
  pubsync publications add -t "Statistik 2024" -d 2024-01-10 -f cover.png
  pubsync publications edit 7 --clear-cover
  pubsync publications delete 7`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				return showPublication(cmd, app, args[0])
			}
			return listPublications(cmd, app, flags)
		},
	}

	flags = cmdutil.AddResourceFlags(cmd)

	cmd.AddCommand(NewAddCommand(app))
	cmd.AddCommand(NewEditCommand(app))
	cmd.AddCommand(NewDeleteCommand(app))

	return cmd
}

// listPublications refreshes the store and prints the list.
func listPublications(cmd *cobra.Command, app application.Application, flags *cmdutil.ResourceFlags) error {
	format, err := output.DetectFormat(cmd.OutOrStdout(), app.OutputFormat())
	if err != nil {
		return err
	}

	client, err := catalog.Load(cmd.Context(), app)
	if err != nil {
		return err
	}

	list := flags.Filter(client.Publications())
	app.Logger().Info().Msgf("Found %d publications", len(list))

	return output.FormatPublications(cmd.OutOrStdout(), list, format)
}

// showPublication refreshes the store and prints one record.
func showPublication(cmd *cobra.Command, app application.Application, arg string) error {
	id, err := parseID(arg)
	if err != nil {
		return err
	}
	format, err := output.DetectFormat(cmd.OutOrStdout(), app.OutputFormat())
	if err != nil {
		return err
	}

	client, err := catalog.Load(cmd.Context(), app)
	if err != nil {
		return err
	}

	rec, ok := client.Publication(id)
	if !ok {
		cmd.SilenceUsage = true
		return errors.NewNotFoundError("publication", arg)
	}

	return output.FormatPublication(cmd.OutOrStdout(), rec, format)
}

// parseID parses a positive publication id.
func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewValidationError("id", s, "must be a positive integer")
	}
	return id, nil
}
