package revalidate

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkwell-hq/inkwell/internal/cache"
)

func TestFor_Posts(t *testing.T) {
	tgt := For("posts", "")
	assert.ElementsMatch(t, []string{TagPosts, TagSummary}, tgt.Tags)
	assert.ElementsMatch(t, []string{RouteHome, RoutePosts}, tgt.Routes)
}

func TestFor_PostsWithID(t *testing.T) {
	tgt := For("posts", "abc-123")
	assert.ElementsMatch(t, []string{TagPosts, TagSummary, "post-abc-123"}, tgt.Tags)
	assert.ElementsMatch(t, []string{RouteHome, RoutePosts, "/posts/abc-123"}, tgt.Routes)
}

func TestFor_ThoughtsAndEvents(t *testing.T) {
	tgt := For("thoughts", "ignored-id")
	assert.ElementsMatch(t, []string{TagThoughts, TagSummary}, tgt.Tags)
	assert.ElementsMatch(t, []string{RouteHome, RouteThoughts}, tgt.Routes)

	tgt = For("events", "")
	assert.ElementsMatch(t, []string{TagEvents, TagSummary}, tgt.Tags)
	assert.ElementsMatch(t, []string{RouteHome, RouteEvents}, tgt.Routes)
}

func TestFor_UnknownTableIsNoop(t *testing.T) {
	tgt := For("users", "42")
	assert.True(t, tgt.IsZero())
}

type recordingPinger struct {
	paths []string
}

func (p *recordingPinger) Revalidate(_ context.Context, path string) error {
	p.paths = append(p.paths, path)
	return nil
}

func TestRevalidator_Apply(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()
	require.NoError(t, store.Set(ctx, "posts-list", []byte("x"), []string{TagPosts}, time.Minute))
	require.NoError(t, store.Set(ctx, "summary", []byte("y"), []string{TagSummary}, time.Minute))
	require.NoError(t, store.Set(ctx, "events-list", []byte("z"), []string{TagEvents}, time.Minute))

	pinger := &recordingPinger{}
	rev := New(store, pinger, zerolog.Nop())

	require.NoError(t, rev.Apply(ctx, For("posts", "")))

	_, ok, _ := store.Get(ctx, "posts-list")
	assert.False(t, ok)
	_, ok, _ = store.Get(ctx, "summary")
	assert.False(t, ok)
	_, ok, _ = store.Get(ctx, "events-list")
	assert.True(t, ok, "unrelated tags survive")

	assert.ElementsMatch(t, []string{RouteHome, RoutePosts}, pinger.paths)
}

func TestRevalidator_ApplyZeroTarget(t *testing.T) {
	store := cache.NewMemoryStore()
	pinger := &recordingPinger{}
	rev := New(store, pinger, zerolog.Nop())

	require.NoError(t, rev.Apply(context.Background(), For("unknown", "")))
	assert.Empty(t, pinger.paths)
}

func TestRevalidator_NilPinger(t *testing.T) {
	rev := New(cache.NewMemoryStore(), nil, zerolog.Nop())
	require.NoError(t, rev.Apply(context.Background(), For("posts", "p1")))
}
