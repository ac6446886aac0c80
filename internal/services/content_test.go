package services

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-hq/inkwell/internal/cache"
	"github.com/inkwell-hq/inkwell/internal/content"
	"github.com/inkwell-hq/inkwell/internal/model"
	"github.com/inkwell-hq/inkwell/internal/revalidate"
	"github.com/inkwell-hq/inkwell/internal/store/memstore"
)

type routeRecorder struct {
	paths []string
}

func (r *routeRecorder) Revalidate(_ context.Context, path string) error {
	r.paths = append(r.paths, path)
	return nil
}

func newFixture(t *testing.T) (*memstore.Store, *cache.MemoryStore, *routeRecorder, *Content, content.Fetcher) {
	t.Helper()
	st := memstore.New()
	tags := cache.NewMemoryStore()
	routes := &routeRecorder{}
	rev := revalidate.New(tags, routes, zerolog.Nop())
	svc := NewContent(st, rev, zerolog.Nop())
	fetcher := content.NewCached(content.NewFetcher(st), tags, zerolog.Nop())
	return st, tags, routes, svc, fetcher
}

func TestSave_InsertReturnsGeneratedID(t *testing.T) {
	ctx := context.Background()
	_, _, _, svc, _ := newFixture(t)

	res := svc.Posts.Save(ctx, &model.Post{Title: "t", Content: "c", Author: "a", Status: model.StatusShow})
	require.True(t, res.Success)
	assert.NotEmpty(t, res.ID)
	assert.Empty(t, res.Error)
}

func TestSave_UpdateKeepsID(t *testing.T) {
	ctx := context.Background()
	st, _, _, svc, _ := newFixture(t)

	p, err := st.Posts().Insert(ctx, &model.Post{Title: "t", Content: "c", Author: "a", Status: model.StatusShow})
	require.NoError(t, err)

	p.Title = "edited"
	res := svc.Posts.Save(ctx, p)
	require.True(t, res.Success)
	assert.Equal(t, p.ID, res.ID)

	got, err := st.Posts().Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Title)
}

func TestSave_BackendErrorBecomesResult(t *testing.T) {
	ctx := context.Background()
	st, tags, routes, svc, fetcher := newFixture(t)

	// warm a cache entry so we can observe that failure invalidates nothing
	_, err := fetcher.ListPosts(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, tags.Len())

	st.FailWrites = errors.New("constraint violation")
	res := svc.Posts.Save(ctx, &model.Post{Title: "t", Content: "c", Author: "a", Status: model.StatusShow})
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "constraint violation")

	assert.Equal(t, 1, tags.Len(), "nothing changed, nothing invalidated")
	assert.Empty(t, routes.paths)
}

func TestMutation_InvalidationIsReadAfterWrite(t *testing.T) {
	ctx := context.Background()
	_, _, _, svc, fetcher := newFixture(t)

	res := svc.Posts.Save(ctx, &model.Post{Title: "one", Content: "c", Author: "a", Status: model.StatusShow})
	require.True(t, res.Success)

	listed, err := fetcher.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	// a second save must be visible on the very next cached read
	res = svc.Posts.Save(ctx, &model.Post{Title: "two", Content: "c", Author: "a", Status: model.StatusShow})
	require.True(t, res.Success)

	listed, err = fetcher.ListPosts(ctx)
	require.NoError(t, err)
	assert.Len(t, listed, 2, "no stale read survives a successful mutation")
}

func TestRemove_InvalidatesAndReports(t *testing.T) {
	ctx := context.Background()
	st, _, routes, svc, fetcher := newFixture(t)

	th, err := st.Thoughts().Insert(ctx, &model.Thought{Content: "c", Author: "a", Status: model.StatusShow})
	require.NoError(t, err)

	_, err = fetcher.ListThoughts(ctx)
	require.NoError(t, err)

	res := svc.Thoughts.Remove(ctx, th.ID)
	require.True(t, res.Success)
	assert.ElementsMatch(t, []string{revalidate.RouteHome, revalidate.RouteThoughts}, routes.paths)

	listed, err := fetcher.ListThoughts(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestRemove_UnknownIDFails(t *testing.T) {
	ctx := context.Background()
	_, tags, _, svc, _ := newFixture(t)

	res := svc.Events.Remove(ctx, "missing")
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "not found")
	assert.Equal(t, 0, tags.Len())
}

func TestUpdateStatus_PublishScenario(t *testing.T) {
	ctx := context.Background()
	st, _, _, svc, fetcher := newFixture(t)

	// create hidden, confirm the public listing excludes it
	res := svc.Posts.Save(ctx, &model.Post{Title: "draft", Content: "c", Author: "a", Status: model.StatusHide})
	require.True(t, res.Success)

	listed, err := fetcher.ListPosts(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)

	// publish, confirm the next fetch includes it
	res = svc.Posts.UpdateStatus(ctx, res.ID, model.StatusShow)
	require.True(t, res.Success)

	listed, err = fetcher.ListPosts(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "draft", listed[0].Title)

	got, err := st.Posts().Get(ctx, res.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.UpdatedAt)
}

func TestUpdateStatus_RejectsUnknownStatus(t *testing.T) {
	ctx := context.Background()
	_, _, _, svc, _ := newFixture(t)

	res := svc.Posts.UpdateStatus(ctx, "any", model.Status("archived"))
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "validation")
}

func TestSave_PostRoutesIncludeDetail(t *testing.T) {
	ctx := context.Background()
	st, _, routes, svc, _ := newFixture(t)

	p, err := st.Posts().Insert(ctx, &model.Post{Title: "t", Content: "c", Author: "a", Status: model.StatusShow})
	require.NoError(t, err)

	res := svc.Posts.Save(ctx, p)
	require.True(t, res.Success)
	assert.ElementsMatch(t,
		[]string{revalidate.RouteHome, revalidate.RoutePosts, revalidate.PostRoute(p.ID)},
		routes.paths)
}
