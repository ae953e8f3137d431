package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/use-agent/mediascout/models"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestStore(t *testing.T) (*SQLiteStore, *fakeClock) {
	t.Helper()
	st, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))

	clock := &fakeClock{t: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	st.now = clock.now
	return st, clock
}

func addSource(t *testing.T, st *SQLiteStore, clock *fakeClock, url, status string) *models.Source {
	t.Helper()
	src, err := st.Add(context.Background(), models.SourceRequest{SourceURL: url, Status: status})
	require.NoError(t, err)
	clock.advance(time.Second)
	return src
}

func TestAddAndGet(t *testing.T) {
	st, _ := newTestStore(t)
	ctx := context.Background()

	src, err := st.Add(ctx, models.SourceRequest{
		SourceURL: "https://anime.example.com/series/frieren/",
		ContentID: "c-42",
		Metadata:  map[string]any{"title": "Frieren"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, src.ID)
	assert.Equal(t, "auto", src.ScraperType)
	assert.Equal(t, models.SourceActive, src.Status)

	got, err := st.Get(ctx, src.ID)
	require.NoError(t, err)
	assert.Equal(t, src.SourceURL, got.SourceURL)
	assert.Equal(t, "c-42", got.ContentID)
	assert.Nil(t, got.LastChecked)
	assert.JSONEq(t, `{"title":"Frieren"}`, string(got.Metadata))
	assert.True(t, src.CreatedAt.Equal(got.CreatedAt))
}

func TestGetMissing(t *testing.T) {
	st, _ := newTestStore(t)

	_, err := st.Get(context.Background(), "nope")
	var se *models.ScrapeError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, models.ErrCodeNotFound, se.Code)
}

func TestListNewestFirst(t *testing.T) {
	st, clock := newTestStore(t)
	a := addSource(t, st, clock, "https://a.example.com/", "")
	b := addSource(t, st, clock, "https://b.example.com/", "")

	list, err := st.List(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, b.ID, list[0].ID)
	assert.Equal(t, a.ID, list[1].ID)

	list, err = st.List(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestListEmptyIsNonNil(t *testing.T) {
	st, _ := newTestStore(t)
	list, err := st.List(context.Background(), 0)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestUpdateStatus(t *testing.T) {
	st, clock := newTestStore(t)
	ctx := context.Background()
	src := addSource(t, st, clock, "https://a.example.com/", "")

	checked := clock.now()
	require.NoError(t, st.UpdateStatus(ctx, src.ID, models.SourceOffline, "request failed with status code 503", checked))

	got, err := st.Get(ctx, src.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SourceOffline, got.Status)
	assert.Equal(t, "request failed with status code 503", got.ErrorMessage)
	require.NotNil(t, got.LastChecked)
	assert.True(t, checked.Equal(*got.LastChecked))

	err = st.UpdateStatus(ctx, "missing", models.SourceActive, "", checked)
	var se *models.ScrapeError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, models.ErrCodeNotFound, se.Code)
}

func TestListDue(t *testing.T) {
	st, clock := newTestStore(t)
	ctx := context.Background()

	fresh := addSource(t, st, clock, "https://fresh.example.com/", "")
	stale := addSource(t, st, clock, "https://stale.example.com/", "")
	broken := addSource(t, st, clock, "https://broken.example.com/", models.SourceError)
	never := addSource(t, st, clock, "https://never.example.com/", models.SourcePending)

	require.NoError(t, st.UpdateStatus(ctx, stale.ID, models.SourceActive, "", clock.now().Add(-48*time.Hour)))
	require.NoError(t, st.UpdateStatus(ctx, fresh.ID, models.SourceActive, "", clock.now().Add(-time.Hour)))

	due, err := st.ListDue(ctx, false, 24*time.Hour, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{never.ID, stale.ID}, ids(due))

	due, err = st.ListDue(ctx, true, 24*time.Hour, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{never.ID, stale.ID, fresh.ID}, ids(due))
	assert.NotContains(t, ids(due), broken.ID)

	due, err = st.ListDue(ctx, true, 24*time.Hour, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{never.ID}, ids(due))
}

func ids(sources []models.Source) []string {
	out := make([]string, len(sources))
	for i, s := range sources {
		out[i] = s.ID
	}
	return out
}
