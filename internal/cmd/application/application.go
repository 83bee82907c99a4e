// Package application defines what commands need from the running app.
// Commands accept this interface rather than the concrete App type so they
// can be tested with Mock.
package application

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/pubsync"
)

// Application defines the application context interface that commands need.
type Application interface {
	// Client returns the catalog store, creating it lazily. Missing upload
	// configuration is reported here as a ConfigError.
	Client(ctx context.Context) (pubsync.Client, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table, wide).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
