package pubsync

import (
	"context"
	"strconv"

	"github.com/agentstation/pubsync/pkg/errors"
	"github.com/agentstation/pubsync/pkg/logging"
	"github.com/agentstation/pubsync/pkg/publications"
)

// Refresh replaces the list with the server's catalog in server order.
//
// Without a usable credential the list is set to empty and an
// AuthenticationError is returned; no request is made. Any other failure
// also empties the list and records the error. There is no automatic retry.
func (c *client) Refresh(ctx context.Context) error {
	ctx = logging.WithOperation(c.withLogger(ctx), "refresh")
	logger := logging.FromContext(ctx)
	logger.Debug().Msg("refreshing publications")

	c.setLoading(true)
	defer c.setLoading(false)

	if err := c.sync.Authenticated(); err != nil {
		logger.Warn().Err(err).Msg("no credential, catalog cleared")
		c.swap(publications.List{}, err)
		return err
	}

	list, err := c.sync.List(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("refresh failed, catalog cleared")
		c.swap(publications.List{}, err)
		return err
	}

	list, dropped := list.Dedupe()
	if dropped > 0 {
		logger.Warn().Int("dropped", dropped).Msg("server returned duplicate publication ids")
	}

	c.swap(list, nil)
	logger.Info().Int("publications", len(list)).Msg("publications refreshed")
	return nil
}

// Add creates a publication. A draft without a title is rejected before
// any request. On success the server's record is put first in
// the list and returned. On failure the list is unchanged.
func (c *client) Add(ctx context.Context, p publications.PendingEdit) (publications.Record, error) {
	ctx = logging.WithOperation(c.withLogger(ctx), "add")
	logger := logging.FromContext(ctx)
	logger.Debug().Str("title", p.Title).Bool("cover_file", p.NeedsUpload()).Msg("adding publication")

	if err := p.Validate(publications.ModeAdd); err != nil {
		return publications.Record{}, c.fail(ctx, err, "add rejected")
	}

	rec, err := c.sync.Create(ctx, p)
	if err != nil {
		return publications.Record{}, c.fail(ctx, err, "add failed")
	}

	c.mu.Lock()
	c.list = c.list.Prepend(rec)
	c.err = nil
	c.mu.Unlock()

	c.hooks.added(rec)
	logger.Info().Int64("publication_id", rec.ID).Msg("publication added")
	return rec.Clone(), nil
}

// Edit updates a publication. The id must be set and present in the list
// and the draft must be valid; otherwise a ValidationError is returned
// before any request. On success the
// record is replaced in place with the server's version.
func (c *client) Edit(ctx context.Context, p publications.PendingEdit) (publications.Record, error) {
	ctx = logging.WithOperation(c.withLogger(ctx), "edit")
	if err := p.Validate(publications.ModeEdit); err != nil {
		return publications.Record{}, c.fail(ctx, err, "edit rejected")
	}
	ctx = logging.WithPublication(ctx, p.ID)
	logger := logging.FromContext(ctx)

	if _, ok := c.Publication(p.ID); !ok {
		return publications.Record{}, c.fail(ctx, errors.NewNotFoundError("publication", strconv.FormatInt(p.ID, 10)), "edit rejected")
	}

	logger.Debug().Bool("cover_file", p.NeedsUpload()).Msg("editing publication")
	rec, err := c.sync.Update(ctx, p)
	if err != nil {
		return publications.Record{}, c.fail(ctx, err, "edit failed")
	}

	c.mu.Lock()
	old, existed := c.list.Find(p.ID)
	if existed {
		c.list = c.list.Replace(p.ID, rec)
	} else {
		// removed by a concurrent delete or refresh while in flight
		c.list = c.list.Prepend(rec)
	}
	c.err = nil
	c.mu.Unlock()

	if existed {
		c.hooks.updated(old, rec)
	} else {
		c.hooks.added(rec)
	}
	logger.Info().Msg("publication updated")
	return rec.Clone(), nil
}

// Delete removes a publication. On success no record with id remains in the
// list. On failure the list is unchanged.
func (c *client) Delete(ctx context.Context, id int64) error {
	ctx = logging.WithPublication(logging.WithOperation(c.withLogger(ctx), "delete"), id)
	logger := logging.FromContext(ctx)
	logger.Debug().Msg("deleting publication")

	if err := c.sync.Delete(ctx, id); err != nil {
		return c.fail(ctx, err, "delete failed")
	}

	c.mu.Lock()
	old, existed := c.list.Find(id)
	c.list = c.list.Remove(id)
	c.err = nil
	c.mu.Unlock()

	if existed {
		c.hooks.removed(old)
	}
	logger.Info().Msg("publication deleted")
	return nil
}

// swap replaces the whole list and records err, then fires diff hooks.
func (c *client) swap(list publications.List, err error) {
	c.mu.Lock()
	old := c.list
	c.list = list
	c.err = err
	c.mu.Unlock()

	c.hooks.triggerListUpdate(old, list)
}

// fail records err without touching the list and returns it unchanged.
func (c *client) fail(ctx context.Context, err error, msg string) error {
	logging.FromContext(ctx).Error().
		Err(err).
		Str("kind", errors.KindOf(err).String()).
		Msg(msg)

	c.mu.Lock()
	c.err = err
	c.mu.Unlock()
	return err
}

func (c *client) setLoading(on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if on {
		c.inflight++
	} else {
		c.inflight--
	}
}
