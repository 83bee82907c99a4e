package publications

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/pubsync/internal/cmd/application"
	"github.com/agentstation/pubsync/internal/cmd/catalog"
)

// NewDeleteCommand creates the delete subcommand.
func NewDeleteCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a publication",
		Example: `  pubsync publications delete 7`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			client, err := catalog.Open(cmd.Context(), app)
			if err != nil {
				return err
			}

			if err := client.Delete(cmd.Context(), id); err != nil {
				cmd.SilenceUsage = true
				return err
			}

			app.Logger().Info().Int64("id", id).Msg("Publication deleted")
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Deleted publication %d\n", id)
			return err
		},
	}

	return cmd
}
