// Package main provides the entry point for the pubsync CLI tool.
package main

import (
	"context"
	"os"

	"github.com/agentstation/pubsync/cmd/pubsync/app"
	"github.com/agentstation/pubsync/pkg/constants"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	application, err := app.New(version, commit, date, builtBy)
	if err != nil {
		app.ExitOnError(err)
	}

	// Create context with signal handling for graceful shutdown
	ctx, cancel := app.ContextWithSignals(context.Background())
	defer cancel()
	ctx, timeoutCancel := context.WithTimeout(ctx, constants.CommandTimeout)
	defer timeoutCancel()

	if err := application.Execute(ctx, os.Args[1:]); err != nil {
		// Fresh context, the signal context may already be cancelled
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
		defer shutdownCancel()

		if shutdownErr := application.Shutdown(shutdownCtx); shutdownErr != nil {
			application.Logger().Error().Err(shutdownErr).Msg("Shutdown error during error handling")
		}
		app.ExitOnError(err)
	}
}
