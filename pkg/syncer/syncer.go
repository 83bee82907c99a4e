// Package syncer is the sync service between the in-memory catalog and the
// outside world. It is the only component that performs network I/O: it
// resolves the cover image for a submission, maps each operation to exactly
// one REST call, and wraps every failure into a kinded error.
package syncer

import (
	"context"
	"net/http"
	"strconv"

	"github.com/agentstation/pubsync/internal/objectstore"
	"github.com/agentstation/pubsync/internal/transport"
	"github.com/agentstation/pubsync/pkg/constants"
	"github.com/agentstation/pubsync/pkg/errors"
	"github.com/agentstation/pubsync/pkg/logging"
	"github.com/agentstation/pubsync/pkg/publications"
)

// Service talks to the REST backend and the cover object store.
type Service struct {
	remote   *transport.Client
	uploader objectstore.Uploader
	path     string
}

// Option configures a Service.
type Option func(*Service)

// WithUploader sets the object store used for new covers.
func WithUploader(u objectstore.Uploader) Option {
	return func(s *Service) {
		s.uploader = u
	}
}

// WithPath overrides the collection path (default /publikasi).
func WithPath(p string) Option {
	return func(s *Service) {
		if p != "" {
			s.path = p
		}
	}
}

// New creates a sync service over remote.
func New(remote *transport.Client, opts ...Option) *Service {
	s := &Service{
		remote: remote,
		path:   constants.PublicationsPath,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Authenticated reports whether a credential is available for REST calls.
func (s *Service) Authenticated() error {
	return s.remote.Authenticated()
}

// List fetches the full catalog in server order.
func (s *Service) List(ctx context.Context) (publications.List, error) {
	resp, err := s.remote.Get(ctx, s.path)
	if err != nil {
		return nil, remoteError(OpList, http.MethodGet, s.path, nil, err)
	}
	if !resp.OK() {
		return nil, remoteError(OpList, http.MethodGet, s.path, resp, nil)
	}

	var list publications.List
	if err := resp.Decode(&list); err != nil {
		return nil, decodeError(OpList, http.MethodGet, s.path, resp, err)
	}
	if list == nil {
		list = publications.List{}
	}
	return list, nil
}

// Create resolves the cover and POSTs the new publication.
// It returns the record exactly as the server sent it.
func (s *Service) Create(ctx context.Context, p publications.PendingEdit) (publications.Record, error) {
	if err := p.Validate(publications.ModeAdd); err != nil {
		return publications.Record{}, err
	}

	cover, err := s.ResolveCover(ctx, p, publications.ModeAdd)
	if err != nil {
		return publications.Record{}, err
	}

	return s.send(ctx, OpCreate, http.MethodPost, s.path, p.Payload(cover))
}

// Update resolves the cover and PUTs the publication by id.
func (s *Service) Update(ctx context.Context, p publications.PendingEdit) (publications.Record, error) {
	if err := p.Validate(publications.ModeEdit); err != nil {
		return publications.Record{}, err
	}

	cover, err := s.ResolveCover(ctx, p, publications.ModeEdit)
	if err != nil {
		return publications.Record{}, err
	}

	return s.send(ctx, OpUpdate, http.MethodPut, s.itemPath(p.ID), p.Payload(cover))
}

// Delete removes the publication by id. The acknowledgement body is ignored.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return errors.NewValidationError("id", id, "publication id is required for delete")
	}

	path := s.itemPath(id)
	resp, err := s.remote.Delete(ctx, path)
	if err != nil {
		return remoteError(OpDelete, http.MethodDelete, path, nil, err)
	}
	if !resp.OK() {
		return remoteError(OpDelete, http.MethodDelete, path, resp, nil)
	}
	return nil
}

// ResolveCover computes the cover decision for one submission. A new cover
// payload is uploaded first; upload failure aborts the submission.
func (s *Service) ResolveCover(ctx context.Context, p publications.PendingEdit, mode publications.Mode) (publications.Cover, error) {
	logger := logging.FromContext(ctx)

	if !p.NeedsUpload() {
		cover, err := p.ExistingCover(mode)
		if err != nil {
			return publications.Cover{}, err
		}
		logger.Debug().
			Str("mode", mode.String()).
			Stringer("cover", cover.Action).
			Msg("cover resolved without upload")
		return cover, nil
	}

	if s.uploader == nil {
		return publications.Cover{}, errors.NewConfigError("cover_store", "no object store configured for cover uploads", nil)
	}

	url, err := s.uploader.Upload(ctx, *p.CoverFile)
	if err != nil {
		return publications.Cover{}, errors.WrapUpload(s.uploader.Name(), err)
	}

	logger.Debug().
		Str("mode", mode.String()).
		Str("store", s.uploader.Name()).
		Str("url", url).
		Msg("cover uploaded")
	return publications.Uploaded(url), nil
}

func (s *Service) send(ctx context.Context, op Operation, method, path string, body publications.Payload) (publications.Record, error) {
	var (
		resp *transport.Response
		err  error
	)
	if method == http.MethodPut {
		resp, err = s.remote.Put(ctx, path, body)
	} else {
		resp, err = s.remote.Post(ctx, path, body)
	}
	if err != nil {
		return publications.Record{}, remoteError(op, method, path, nil, err)
	}
	if !resp.OK() {
		return publications.Record{}, remoteError(op, method, path, resp, nil)
	}

	var rec publications.Record
	if err := resp.Decode(&rec); err != nil {
		return publications.Record{}, decodeError(op, method, path, resp, err)
	}
	if rec.ID <= 0 {
		return publications.Record{}, decodeError(op, method, path, resp, errors.New("response has no publication id"))
	}
	return rec, nil
}

func (s *Service) itemPath(id int64) string {
	return s.path + "/" + strconv.FormatInt(id, 10)
}
