// Package pubsync provides the catalog store for a publication catalog kept
// in sync with a REST backend.
//
// The store holds the ordered list of publication records in memory and is
// the only way to change it. Every change goes through one of four
// operations (Refresh, Add, Edit, Delete), each of which delegates the network
// work to the sync service and then applies the server's answer to the list.
// A failed Add, Edit or Delete leaves the list exactly as it was.
//
// Example usage:
//
//	client, err := pubsync.New(
//	    pubsync.WithRemote("https://api.example.com", transport.StaticToken(token)),
//	    pubsync.WithUploader(uploader),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	client.OnPublicationAdded(func(r publications.Record) {
//	    log.Printf("added %d: %s", r.ID, r.Title)
//	})
//
//	if err := client.Refresh(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	rec, err := client.Add(ctx, publications.PendingEdit{
//	    Title:       "Statistik 2024",
//	    ReleaseDate: "2024-01-10",
//	})
package pubsync

import (
	"context"
	"sync"

	"github.com/agentstation/pubsync/internal/transport"
	"github.com/agentstation/pubsync/pkg/errors"
	"github.com/agentstation/pubsync/pkg/logging"
	"github.com/agentstation/pubsync/pkg/publications"
	"github.com/agentstation/pubsync/pkg/syncer"
)

// Compile-time interface checks.
var (
	_ Client = (*client)(nil)
	_ Syncer = (*syncer.Service)(nil)
)

// Catalog provides copy-on-read access to the publication list.
type Catalog interface {
	// Publications returns a snapshot of the list in store order.
	Publications() publications.List

	// Publication returns the record with id.
	Publication(id int64) (publications.Record, bool)

	// Status reports whether a refresh is in flight and the last recorded error.
	Status() Status
}

// Mutator is the finite set of operations that change the list.
type Mutator interface {
	// Refresh replaces the list with the server's catalog.
	Refresh(ctx context.Context) error

	// Add creates a publication and puts it first in the list.
	Add(ctx context.Context, p publications.PendingEdit) (publications.Record, error)

	// Edit updates a publication and replaces it in place.
	Edit(ctx context.Context, p publications.PendingEdit) (publications.Record, error)

	// Delete removes a publication.
	Delete(ctx context.Context, id int64) error
}

// Client is the catalog store.
type Client interface {
	// Catalog provides copy-on-read access to the list
	Catalog

	// Mutator changes the list through the sync service
	Mutator

	// Hooks provides access to event callback registration
	Hooks
}

// Syncer is the network side of the store. *syncer.Service implements it.
type Syncer interface {
	Authenticated() error
	List(ctx context.Context) (publications.List, error)
	Create(ctx context.Context, p publications.PendingEdit) (publications.Record, error)
	Update(ctx context.Context, p publications.PendingEdit) (publications.Record, error)
	Delete(ctx context.Context, id int64) error
}

// Status is the observable state of the store besides the list.
type Status struct {
	Loading bool
	Err     error
}

// client is the internal implementation of the Client interface.
type client struct {
	options *options
	sync    Syncer

	mu       sync.RWMutex
	list     publications.List
	inflight int // refreshes in flight
	err      error

	hooks *hooks
}

// New creates a catalog store. Without WithSyncer, a sync service is built
// from the remote and uploader options.
func New(opts ...Option) (Client, error) {
	o, err := defaults().apply(opts...)
	if err != nil {
		return nil, err
	}

	c := &client{
		options: o,
		sync:    o.syncer,
		list:    o.initial.Clone(),
		hooks:   newHooks(),
	}

	if c.sync == nil {
		if o.needUpload && o.uploader == nil {
			return nil, errors.NewMissingConfigError("cover_store", "uploader")
		}
		remote := transport.New(o.remoteURL,
			transport.WithTokenSource(o.tokenSource),
			transport.WithTimeout(o.httpTimeout),
			transport.WithRateLimit(o.rateLimit),
			transport.WithHTTPClient(o.httpClient),
		)
		var sopts []syncer.Option
		if o.uploader != nil {
			sopts = append(sopts, syncer.WithUploader(o.uploader))
		}
		c.sync = syncer.New(remote, sopts...)
	}

	logging.FromContext(c.withLogger(context.Background())).Debug().
		Str("remote", o.remoteURL).
		Int("publications", len(c.list)).
		Msg("catalog store created")

	return c, nil
}

// Publications returns a deep copy of the list.
func (c *client) Publications() publications.List {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.list.Clone()
}

// Publication returns a copy of the record with id.
func (c *client) Publication(id int64) (publications.Record, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.list.Find(id)
}

// Status returns the loading flag and last recorded error.
func (c *client) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Status{Loading: c.inflight > 0, Err: c.err}
}

// withLogger attaches the store's logger to ctx unless ctx already carries one.
func (c *client) withLogger(ctx context.Context) context.Context {
	if logging.HasLogger(ctx) || c.options.logger == nil {
		return ctx
	}
	return logging.WithLogger(ctx, c.options.logger)
}
