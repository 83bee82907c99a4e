package pubsync_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/pubsync"
	"github.com/agentstation/pubsync/pkg/errors"
	"github.com/agentstation/pubsync/pkg/logging"
	"github.com/agentstation/pubsync/pkg/publications"
)

// fakeSyncer is an in-memory Syncer that records calls.
type fakeSyncer struct {
	mu      sync.Mutex
	authErr error
	list    publications.List
	listErr error
	record  publications.Record
	err     error
	calls   []string
}

func (f *fakeSyncer) track(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func (f *fakeSyncer) Authenticated() error { return f.authErr }

func (f *fakeSyncer) List(context.Context) (publications.List, error) {
	f.track("list")
	return f.list.Clone(), f.listErr
}

func (f *fakeSyncer) Create(_ context.Context, _ publications.PendingEdit) (publications.Record, error) {
	f.track("create")
	return f.record, f.err
}

func (f *fakeSyncer) Update(_ context.Context, _ publications.PendingEdit) (publications.Record, error) {
	f.track("update")
	return f.record, f.err
}

func (f *fakeSyncer) Delete(context.Context, int64) error {
	f.track("delete")
	return f.err
}

func (f *fakeSyncer) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func rec(id int64, title string) publications.Record {
	return publications.Record{ID: id, Title: title, ReleaseDate: "2024-01-10"}
}

func seed() publications.List {
	return publications.List{rec(3, "C"), rec(2, "B"), rec(1, "A")}
}

func newStore(t *testing.T, f *fakeSyncer, list publications.List) pubsync.Client {
	t.Helper()
	logging.DisableLoggingForTest(t)
	c, err := pubsync.New(pubsync.WithSyncer(f), pubsync.WithInitialPublications(list))
	require.NoError(t, err)
	return c
}

func TestRefresh(t *testing.T) {
	f := &fakeSyncer{list: publications.List{rec(9, "Z"), rec(4, "D"), rec(9, "dup")}}
	c := newStore(t, f, seed())

	require.NoError(t, c.Refresh(context.Background()))

	got := c.Publications()
	require.Len(t, got, 2)
	assert.Equal(t, int64(9), got[0].ID)
	assert.Equal(t, "Z", got[0].Title)
	assert.Equal(t, int64(4), got[1].ID)
	assert.NoError(t, c.Status().Err)
	assert.False(t, c.Status().Loading)
}

func TestRefreshWithoutCredential(t *testing.T) {
	f := &fakeSyncer{authErr: errors.NewAuthenticationError("bearer", "no credential available", nil)}
	c := newStore(t, f, seed())

	err := c.Refresh(context.Background())
	assert.True(t, errors.IsNotAuthenticated(err))
	assert.Empty(t, c.Publications())
	assert.Empty(t, f.Calls())
	assert.Equal(t, err, c.Status().Err)
}

func TestRefreshFailureClearsList(t *testing.T) {
	f := &fakeSyncer{listErr: errors.NewAPIError("list", 500, "failed to fetch publications: down")}
	c := newStore(t, f, seed())

	err := c.Refresh(context.Background())
	assert.Equal(t, errors.KindRemoteRequest, errors.KindOf(err))
	assert.Empty(t, c.Publications())
	assert.Same(t, err, c.Status().Err)
	assert.Equal(t, []string{"list"}, f.Calls())
}

func TestAdd(t *testing.T) {
	f := &fakeSyncer{record: rec(7, "Statistik 2024")}
	c := newStore(t, f, seed())
	before := c.Publications()

	got, err := c.Add(context.Background(), publications.PendingEdit{Title: "Statistik 2024", ReleaseDate: "2024-01-10"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, -1, before.Index(got.ID))

	after := c.Publications()
	require.Len(t, after, len(before)+1)
	assert.Equal(t, got, after[0])
	assert.Equal(t, before, after[1:])
}

func TestAddRejectsMissingTitle(t *testing.T) {
	f := &fakeSyncer{record: rec(7, "x")}
	c := newStore(t, f, seed())

	_, err := c.Add(context.Background(), publications.PendingEdit{ReleaseDate: "2024-01-10"})
	assert.Equal(t, errors.KindValidation, errors.KindOf(err))
	assert.Empty(t, f.Calls())
	assert.Equal(t, seed(), c.Publications())
}

func TestEdit(t *testing.T) {
	f := &fakeSyncer{record: rec(2, "B (rev)")}
	c := newStore(t, f, seed())
	before := c.Publications()

	got, err := c.Edit(context.Background(), publications.PendingEdit{ID: 2, Title: "B (rev)", ReleaseDate: "2024-01-10"})
	require.NoError(t, err)
	assert.Equal(t, "B (rev)", got.Title)

	after := c.Publications()
	require.Len(t, after, len(before))
	diff := 0
	for i := range after {
		assert.Equal(t, before[i].ID, after[i].ID)
		if !before[i].Equal(after[i]) {
			diff++
		}
	}
	assert.Equal(t, 1, diff)
	assert.Equal(t, "B (rev)", after[1].Title)
}

func TestEditPreconditions(t *testing.T) {
	tests := []struct {
		name string
		edit publications.PendingEdit
	}{
		{"missing id", publications.PendingEdit{Title: "A", ReleaseDate: "2024-01-10"}},
		{"unknown id", publications.PendingEdit{ID: 99, Title: "A", ReleaseDate: "2024-01-10"}},
		{"partial draft without title", publications.PendingEdit{ID: 2, ReleaseDate: "2024-01-10"}},
		{"partial draft without release date", publications.PendingEdit{ID: 2, Title: "B"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeSyncer{record: rec(99, "A")}
			c := newStore(t, f, seed())

			_, err := c.Edit(context.Background(), tt.edit)
			assert.Equal(t, errors.KindValidation, errors.KindOf(err))
			assert.Empty(t, f.Calls())
			assert.Equal(t, seed(), c.Publications())
		})
	}
}

func TestDelete(t *testing.T) {
	f := &fakeSyncer{}
	c := newStore(t, f, seed())

	require.NoError(t, c.Delete(context.Background(), 2))
	after := c.Publications()
	assert.Len(t, after, 2)
	_, ok := c.Publication(2)
	assert.False(t, ok)
}

func TestFailedMutationsLeaveListUnchanged(t *testing.T) {
	failures := []error{
		errors.NewAPIError("x", 500, "failed: boom"),
		errors.NewUploadError("cloudinary", "rejected", nil),
		errors.NewMissingConfigError("cloudinary", "cloudinary_upload_preset"),
	}

	for _, failure := range failures {
		t.Run(errors.KindOf(failure).String(), func(t *testing.T) {
			f := &fakeSyncer{err: failure}
			c := newStore(t, f, seed())
			ctx := context.Background()

			_, err := c.Add(ctx, publications.PendingEdit{Title: "A", ReleaseDate: "2024-01-10"})
			assert.Same(t, failure, err)
			assert.Equal(t, seed(), c.Publications())

			_, err = c.Edit(ctx, publications.PendingEdit{ID: 1, Title: "A", ReleaseDate: "2024-01-10"})
			assert.Same(t, failure, err)
			assert.Equal(t, seed(), c.Publications())

			err = c.Delete(ctx, 1)
			assert.Same(t, failure, err)
			assert.Equal(t, seed(), c.Publications())

			assert.Same(t, failure, c.Status().Err)
		})
	}
}

func TestSuccessClearsRecordedError(t *testing.T) {
	f := &fakeSyncer{err: errors.NewAPIError("delete", 500, "failed to delete publication: boom")}
	c := newStore(t, f, seed())

	require.Error(t, c.Delete(context.Background(), 1))
	require.Error(t, c.Status().Err)

	f.err = nil
	require.NoError(t, c.Delete(context.Background(), 1))
	assert.NoError(t, c.Status().Err)
}

func TestSnapshotsAreCopies(t *testing.T) {
	list := seed()
	list[0].CoverURL = publications.String("https://img/c.png")
	c := newStore(t, &fakeSyncer{}, list)

	snap := c.Publications()
	snap[0].Title = "mutated"
	*snap[0].CoverURL = "mutated"

	r, ok := c.Publication(3)
	require.True(t, ok)
	assert.Equal(t, "C", r.Title)
	assert.Equal(t, "https://img/c.png", *r.CoverURL)
}

func TestInitialPublicationsRejectDuplicates(t *testing.T) {
	_, err := pubsync.New(pubsync.WithInitialPublications(publications.List{rec(1, "A"), rec(1, "B")}))
	assert.True(t, errors.IsValidationError(err))
}

func TestRequiredUploader(t *testing.T) {
	t.Run("missing uploader fails at construction", func(t *testing.T) {
		_, err := pubsync.New(pubsync.WithRequiredUploader())
		require.Error(t, err)
		assert.True(t, errors.IsConfigError(err))
		assert.Contains(t, err.Error(), "uploader")
	})

	t.Run("uploader is optional by default", func(t *testing.T) {
		_, err := pubsync.New()
		assert.NoError(t, err)
	})

	t.Run("injected syncer owns the upload side", func(t *testing.T) {
		_, err := pubsync.New(pubsync.WithSyncer(&fakeSyncer{}), pubsync.WithRequiredUploader())
		assert.NoError(t, err)
	})
}

func TestHooks(t *testing.T) {
	f := &fakeSyncer{}
	c := newStore(t, f, seed())

	var added, removed []int64
	var updated [][2]string
	c.OnPublicationAdded(func(r publications.Record) { added = append(added, r.ID) })
	c.OnPublicationRemoved(func(r publications.Record) { removed = append(removed, r.ID) })
	c.OnPublicationUpdated(func(old, new publications.Record) {
		updated = append(updated, [2]string{old.Title, new.Title})
	})

	ctx := context.Background()

	f.record = rec(7, "G")
	_, err := c.Add(ctx, publications.PendingEdit{Title: "G", ReleaseDate: "2024-01-10"})
	require.NoError(t, err)

	f.record = rec(3, "C2")
	_, err = c.Edit(ctx, publications.PendingEdit{ID: 3, Title: "C2", ReleaseDate: "2024-01-10"})
	require.NoError(t, err)

	require.NoError(t, c.Delete(ctx, 1))

	f.list = publications.List{rec(7, "G"), rec(3, "C3"), rec(5, "E")}
	require.NoError(t, c.Refresh(ctx))

	assert.Equal(t, []int64{7, 5}, added)
	assert.Equal(t, []int64{1, 2}, removed)
	assert.Equal(t, [][2]string{{"C", "C2"}, {"C2", "C3"}}, updated)
}

func TestConcurrentMutationsKeepIDsUnique(t *testing.T) {
	f := &fakeSyncer{record: rec(7, "same")}
	c := newStore(t, f, seed())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.Add(context.Background(), publications.PendingEdit{Title: "same", ReleaseDate: "2024-01-10"})
			_ = c.Status()
		}()
	}
	wg.Wait()

	list := c.Publications()
	_, dropped := list.Dedupe()
	assert.Zero(t, dropped)
	assert.Len(t, list, 4)
}
