// Package app provides the application context and dependency management
// for the pubsync CLI. It centralizes configuration, logging and the
// lazily built catalog store.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/pubsync"
	"github.com/agentstation/pubsync/internal/cmd/application"
	"github.com/agentstation/pubsync/internal/config"
	"github.com/agentstation/pubsync/internal/objectstore"
	"github.com/agentstation/pubsync/internal/transport"
)

// Ensure App implements application.Application at compile time.
var _ application.Application = (*App)(nil)

// App represents the pubsync application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *config.Config

	// Logger
	logger *zerolog.Logger

	// Catalog store (lazy-initialized, singleton)
	mu     sync.RWMutex
	client pubsync.Client
}

// New creates a new App instance with the given version information.
// The app is initialized with configuration loaded from files and the
// environment, which can be replaced using functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	app.config = cfg

	logger := NewLogger(cfg)
	app.logger = &logger

	// Apply any custom options
	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *config.Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Client returns the catalog store, creating it lazily if needed.
// Configuration is validated on first use, so commands that never touch the
// backend work without upload settings. Thread-safe.
func (a *App) Client(ctx context.Context) (pubsync.Client, error) {
	a.mu.RLock()
	if a.client != nil {
		c := a.client
		a.mu.RUnlock()
		return c, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.client != nil {
		return a.client, nil
	}

	opts, err := a.buildClientOptions(ctx)
	if err != nil {
		return nil, err
	}

	c, err := pubsync.New(opts...)
	if err != nil {
		return nil, err
	}

	a.client = c
	return c, nil
}

// Shutdown performs graceful shutdown of the application.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		a.logger.Debug().Msg("Releasing catalog store")
		a.client = nil
	}
	return nil
}

// buildClientOptions constructs store options from the app configuration.
func (a *App) buildClientOptions(ctx context.Context) ([]pubsync.Option, error) {
	if err := a.config.Validate(); err != nil {
		return nil, err
	}

	uploader, err := objectstore.New(ctx, a.config.ObjectStore())
	if err != nil {
		return nil, err
	}

	opts := []pubsync.Option{
		pubsync.WithRemote(a.config.APIURL, transport.StaticToken(a.config.APIToken)),
		pubsync.WithUploader(uploader),
		pubsync.WithRequiredUploader(),
		pubsync.WithLogger(*a.logger),
	}

	if a.config.HTTPTimeout > 0 {
		opts = append(opts, pubsync.WithHTTPTimeout(a.config.HTTPTimeout))
	}
	if a.config.RateLimit > 0 {
		opts = append(opts, pubsync.WithRateLimit(a.config.RateLimit))
	}

	return opts, nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(cfg *config.Config) Option {
	return func(a *App) error {
		a.config = cfg
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithClient sets a custom catalog store (useful for testing).
func WithClient(c pubsync.Client) Option {
	return func(a *App) error {
		a.client = c
		return nil
	}
}
