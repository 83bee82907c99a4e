package app

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/agentstation/pubsync/cmd/pubsync/cmd/publications"
	"github.com/agentstation/pubsync/internal/cmd/completion"
)

// NewPublicationsCommand creates the publications command with app dependencies.
func (a *App) NewPublicationsCommand() *cobra.Command {
	return publications.NewCommand(a)
}

// NewCompletionCommand creates the completion command.
func (a *App) NewCompletionCommand() *cobra.Command {
	return completion.NewCommand()
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("pubsync %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
				cmd.Printf("  go:       %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			}
		},
	}
}
