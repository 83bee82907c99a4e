package publications

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/pubsync/internal/cmd/application"
	"github.com/agentstation/pubsync/internal/cmd/catalog"
	"github.com/agentstation/pubsync/internal/cmd/cmdutil"
	"github.com/agentstation/pubsync/internal/cmd/output"
	"github.com/agentstation/pubsync/pkg/errors"
	"github.com/agentstation/pubsync/pkg/publications"
)

// NewEditCommand creates the edit subcommand.
func NewEditCommand(app application.Application) *cobra.Command {
	var flags *cmdutil.PublicationFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update a publication",
		Long: `Update a publication on the server.

The current record is fetched first and only the fields given as flags are
changed. The existing cover is kept unless --cover-file uploads a new one,
--cover-url replaces it, or --clear-cover removes it.`,
		Example: `  pubsync publications edit 7 --title "Statistik 2024 (revisi)"
  pubsync publications edit 7 --cover-file new-cover.jpg
  pubsync publications edit 7 --clear-cover`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
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

			current, ok := client.Publication(id)
			if !ok {
				cmd.SilenceUsage = true
				return errors.NewNotFoundError("publication", args[0])
			}

			p := publications.EditOf(current)
			if err := flags.Apply(cmd, &p); err != nil {
				return err
			}

			rec, err := client.Edit(cmd.Context(), p)
			if err != nil {
				cmd.SilenceUsage = true
				return err
			}

			app.Logger().Info().Int64("id", rec.ID).Msg("Publication updated")
			return output.FormatPublication(cmd.OutOrStdout(), rec, format)
		},
	}

	flags = cmdutil.AddPublicationFlags(cmd, true)
	cmd.MarkFlagsMutuallyExclusive("clear-cover", "cover-file")
	cmd.MarkFlagsMutuallyExclusive("clear-cover", "cover-url")

	return cmd
}
