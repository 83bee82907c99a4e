package publications

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/pubsync/internal/cmd/application"
	"github.com/agentstation/pubsync/internal/cmd/catalog"
	"github.com/agentstation/pubsync/internal/cmd/cmdutil"
	"github.com/agentstation/pubsync/internal/cmd/output"
	"github.com/agentstation/pubsync/pkg/publications"
)

// NewAddCommand creates the add subcommand.
func NewAddCommand(app application.Application) *cobra.Command {
	var flags *cmdutil.PublicationFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a publication",
		Long: `Create a publication on the server.

When --cover-file is given the image is uploaded to the configured object
store first and the resulting URL is sent with the record. Otherwise
--cover-url is used as is, or the record is created without a cover.`,
		Example: `  pubsync publications add --title "Statistik 2024" --release-date 2024-01-10
  pubsync publications add -t "Inflasi" -d 2024-02-01 --cover-file cover.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := output.DetectFormat(cmd.OutOrStdout(), app.OutputFormat())
			if err != nil {
				return err
			}

			var p publications.PendingEdit
			if err := flags.Apply(cmd, &p); err != nil {
				return err
			}

			client, err := catalog.Open(cmd.Context(), app)
			if err != nil {
				return err
			}

			rec, err := client.Add(cmd.Context(), p)
			if err != nil {
				cmd.SilenceUsage = true
				return err
			}

			app.Logger().Info().Int64("id", rec.ID).Msg("Publication added")
			return output.FormatPublication(cmd.OutOrStdout(), rec, format)
		},
	}

	flags = cmdutil.AddPublicationFlags(cmd, false)
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("release-date")

	return cmd
}
