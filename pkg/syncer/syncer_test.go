package syncer_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/pubsync/internal/transport"
	"github.com/agentstation/pubsync/pkg/errors"
	"github.com/agentstation/pubsync/pkg/publications"
	"github.com/agentstation/pubsync/pkg/syncer"
)

type request struct {
	Method string
	Path   string
	Auth   string
	Body   map[string]any
}

// backend is a fake REST server that records every request.
type backend struct {
	mu       sync.Mutex
	requests []request
	handler  func(w http.ResponseWriter, r request)
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req := request{Method: r.Method, Path: r.URL.Path, Auth: r.Header.Get("Authorization")}
	if data, _ := io.ReadAll(r.Body); len(data) > 0 {
		_ = json.Unmarshal(data, &req.Body)
	}
	b.mu.Lock()
	b.requests = append(b.requests, req)
	b.mu.Unlock()
	b.handler(w, req)
}

func (b *backend) calls() []request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]request(nil), b.requests...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// echo answers POST/PUT with the body plus an id.
func echo(w http.ResponseWriter, r request) {
	out := map[string]any{"id": 7}
	for k, v := range r.Body {
		out[k] = v
	}
	writeJSON(w, http.StatusOK, out)
}

type fakeUploader struct {
	url   string
	err   error
	calls int
}

func (f *fakeUploader) Name() string { return "fake" }

func (f *fakeUploader) Upload(_ context.Context, _ publications.Image) (string, error) {
	f.calls++
	return f.url, f.err
}

func newService(t *testing.T, handler func(w http.ResponseWriter, r request), opts ...syncer.Option) (*syncer.Service, *backend) {
	t.Helper()
	b := &backend{handler: handler}
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)
	remote := transport.New(srv.URL, transport.WithTokenSource(transport.StaticToken("tok")))
	return syncer.New(remote, opts...), b
}

func TestList(t *testing.T) {
	svc, b := newService(t, func(w http.ResponseWriter, _ request) {
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": 3, "title": "C", "releaseDate": "2024-03-01", "description": nil, "coverUrl": nil},
			{"id": 1, "title": "A", "releaseDate": "2024-01-01", "description": "d", "coverUrl": "https://img/a.png"},
		})
	})

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(3), list[0].ID)
	assert.Equal(t, "https://img/a.png", publications.Deref(list[1].CoverURL))

	calls := b.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodGet, calls[0].Method)
	assert.Equal(t, "/publikasi", calls[0].Path)
	assert.Equal(t, "Bearer tok", calls[0].Auth)
}

func TestListEmptyBody(t *testing.T) {
	svc, _ := newService(t, func(w http.ResponseWriter, _ request) {
		_, _ = w.Write([]byte("null"))
	})
	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestCreateWithoutCover(t *testing.T) {
	svc, b := newService(t, echo)

	rec, err := svc.Create(context.Background(), publications.PendingEdit{
		Title:       "Statistik 2024",
		ReleaseDate: "2024-01-10",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), rec.ID)
	assert.Nil(t, rec.CoverURL)

	calls := b.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodPost, calls[0].Method)
	assert.Equal(t, "/publikasi", calls[0].Path)
	assert.Equal(t, map[string]any{
		"title":       "Statistik 2024",
		"releaseDate": "2024-01-10",
		"description": nil,
		"coverUrl":    nil,
	}, calls[0].Body)
}

func TestCreateUsesSuppliedURL(t *testing.T) {
	svc, b := newService(t, echo)

	_, err := svc.Create(context.Background(), publications.PendingEdit{
		Title:       "A",
		ReleaseDate: "2024-01-10",
		CoverURL:    publications.String("https://cdn.example.com/a.png"),
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/a.png", b.calls()[0].Body["coverUrl"])
}

func TestCreateUploadsCoverFile(t *testing.T) {
	up := &fakeUploader{url: "https://res.cloudinary.com/demo/new.png"}
	svc, b := newService(t, echo, syncer.WithUploader(up))

	rec, err := svc.Create(context.Background(), publications.PendingEdit{
		Title:       "A",
		ReleaseDate: "2024-01-10",
		CoverURL:    publications.String("https://cdn.example.com/ignored.png"),
		CoverFile:   &publications.Image{Name: "a.png", Data: []byte{1}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, up.calls)
	assert.Equal(t, "https://res.cloudinary.com/demo/new.png", b.calls()[0].Body["coverUrl"])
	assert.Equal(t, "https://res.cloudinary.com/demo/new.png", publications.Deref(rec.CoverURL))
}

func TestCreateRejectsMissingTitle(t *testing.T) {
	svc, b := newService(t, echo)

	_, err := svc.Create(context.Background(), publications.PendingEdit{ReleaseDate: "2024-01-10"})
	assert.Equal(t, errors.KindValidation, errors.KindOf(err))
	assert.Empty(t, b.calls())
}

func TestUpdateCoverResolution(t *testing.T) {
	tests := []struct {
		name string
		edit publications.PendingEdit
		want any
	}{
		{
			name: "preserves current cover",
			edit: publications.PendingEdit{
				ID:                    7,
				Title:                 "Statistik 2024 (rev)",
				ReleaseDate:           "2024-01-10",
				CurrentCoverURLFromDB: publications.String("https://img/old.png"),
			},
			want: "https://img/old.png",
		},
		{
			name: "clears when no current cover",
			edit: publications.PendingEdit{
				ID:          7,
				Title:       "Statistik 2024",
				ReleaseDate: "2024-01-10",
			},
			want: nil,
		},
		{
			name: "clears when current cover is empty",
			edit: publications.PendingEdit{
				ID:                    7,
				Title:                 "Statistik 2024",
				ReleaseDate:           "2024-01-10",
				CurrentCoverURLFromDB: publications.String(""),
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, b := newService(t, echo)

			_, err := svc.Update(context.Background(), tt.edit)
			require.NoError(t, err)

			calls := b.calls()
			require.Len(t, calls, 1)
			assert.Equal(t, http.MethodPut, calls[0].Method)
			assert.Equal(t, "/publikasi/7", calls[0].Path)
			assert.Contains(t, calls[0].Body, "coverUrl")
			assert.Equal(t, tt.want, calls[0].Body["coverUrl"])
		})
	}
}

func TestUpdateUploadFailureSkipsREST(t *testing.T) {
	up := &fakeUploader{err: errors.New("network down")}
	svc, b := newService(t, echo, syncer.WithUploader(up))

	_, err := svc.Update(context.Background(), publications.PendingEdit{
		ID:          7,
		Title:       "A",
		ReleaseDate: "2024-01-10",
		CoverFile:   &publications.Image{Name: "a.png", Data: []byte{1}},
	})
	require.Error(t, err)
	assert.Equal(t, errors.KindUpload, errors.KindOf(err))
	assert.Empty(t, b.calls())
}

func TestUpdateWithoutUploaderIsConfigError(t *testing.T) {
	svc, b := newService(t, echo)

	_, err := svc.Update(context.Background(), publications.PendingEdit{
		ID:          7,
		Title:       "A",
		ReleaseDate: "2024-01-10",
		CoverFile:   &publications.Image{Name: "a.png", Data: []byte{1}},
	})
	assert.Equal(t, errors.KindConfiguration, errors.KindOf(err))
	assert.Empty(t, b.calls())
}

func TestUpdateRequiresID(t *testing.T) {
	svc, b := newService(t, echo)

	_, err := svc.Update(context.Background(), publications.PendingEdit{Title: "A", ReleaseDate: "2024-01-10"})
	var ve *errors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "id", ve.Field)
	assert.Empty(t, b.calls())
}

func TestDelete(t *testing.T) {
	svc, b := newService(t, func(w http.ResponseWriter, _ request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Publikasi dihapus"})
	})

	require.NoError(t, svc.Delete(context.Background(), 7))
	calls := b.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodDelete, calls[0].Method)
	assert.Equal(t, "/publikasi/7", calls[0].Path)

	err := svc.Delete(context.Background(), 0)
	assert.True(t, errors.IsValidationError(err))
	assert.Len(t, b.calls(), 1)
}

func TestRemoteErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		call    func(*syncer.Service) error
		wantMsg string
	}{
		{
			name:   "list with server message",
			status: http.StatusInternalServerError,
			body:   `{"message":"database unavailable"}`,
			call: func(s *syncer.Service) error {
				_, err := s.List(context.Background())
				return err
			},
			wantMsg: "failed to fetch publications: database unavailable",
		},
		{
			name:   "create without server message",
			status: http.StatusBadGateway,
			body:   `<html>bad gateway</html>`,
			call: func(s *syncer.Service) error {
				_, err := s.Create(context.Background(), publications.PendingEdit{Title: "A", ReleaseDate: "2024-01-10"})
				return err
			},
			wantMsg: "failed to add publication: an unexpected error occurred",
		},
		{
			name:   "update not found",
			status: http.StatusNotFound,
			body:   `{"error":"Publikasi tidak ditemukan"}`,
			call: func(s *syncer.Service) error {
				_, err := s.Update(context.Background(), publications.PendingEdit{ID: 9, Title: "A", ReleaseDate: "2024-01-10"})
				return err
			},
			wantMsg: "failed to update publication: Publikasi tidak ditemukan",
		},
		{
			name:   "delete forbidden",
			status: http.StatusForbidden,
			body:   `{"message":"forbidden"}`,
			call: func(s *syncer.Service) error {
				return s.Delete(context.Background(), 9)
			},
			wantMsg: "failed to delete publication: forbidden",
		},
		{
			name:   "create response without id",
			status: http.StatusCreated,
			body:   `{"title":"A"}`,
			call: func(s *syncer.Service) error {
				_, err := s.Create(context.Background(), publications.PendingEdit{Title: "A", ReleaseDate: "2024-01-10"})
				return err
			},
			wantMsg: "failed to add publication: invalid response from server",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newService(t, func(w http.ResponseWriter, _ request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			err := tt.call(svc)
			var apiErr *errors.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, []byte(tt.body), apiErr.Payload)
			assert.Equal(t, errors.KindRemoteRequest, errors.KindOf(err))
		})
	}
}

func TestNetworkErrorUsesFallback(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	svc := syncer.New(transport.New(url))
	_, err := svc.List(context.Background())

	var apiErr *errors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "failed to fetch publications: an unexpected error occurred", apiErr.Message)
	assert.Zero(t, apiErr.StatusCode)
	assert.Error(t, apiErr.Unwrap())
}

func TestMissingCredentialPassesThrough(t *testing.T) {
	b := &backend{handler: echo}
	srv := httptest.NewServer(b)
	defer srv.Close()

	svc := syncer.New(transport.New(srv.URL, transport.WithTokenSource(transport.StaticToken(""))))
	assert.True(t, errors.IsNotAuthenticated(svc.Authenticated()))

	err := svc.Delete(context.Background(), 7)
	assert.Equal(t, errors.KindAuthentication, errors.KindOf(err))
	assert.Empty(t, b.calls())
}
