// Package catalog provides common catalog operations for CLI commands.
package catalog

import (
	"context"

	"github.com/agentstation/pubsync"
	"github.com/agentstation/pubsync/internal/cmd/application"
)

// Load gets the store from the app and refreshes it from the server.
// This handles the common pattern of app.Client() -> client.Refresh().
func Load(ctx context.Context, app application.Application) (pubsync.Client, error) {
	client, err := app.Client(ctx)
	if err != nil {
		return nil, err
	}

	if err := client.Refresh(ctx); err != nil {
		return nil, err
	}

	return client, nil
}

// Open gets the store from the app without refreshing it.
// Useful for commands that only create or delete by id.
func Open(ctx context.Context, app application.Application) (pubsync.Client, error) {
	return app.Client(ctx)
}
