package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Set(ctx, "k1", []byte("v1"), []string{"posts"}, time.Minute))

	val, ok, err := s.Get(ctx, "k1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v1"), val)

	_, ok, err = s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := NewMemoryStore().WithClock(func() time.Time { return now })

	require.NoError(t, s.Set(ctx, "k1", []byte("v1"), []string{"posts"}, 600*time.Second))

	now = now.Add(599 * time.Second)
	_, ok, err := s.Get(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, ok, "entry should be live just before the TTL boundary")

	now = now.Add(time.Second)
	_, ok, err = s.Get(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, ok, "entry must be stale at t0+ttl even without invalidation")
}

func TestMemoryStore_InvalidateTag(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Set(ctx, "posts-list", []byte("a"), []string{"posts"}, time.Minute))
	require.NoError(t, s.Set(ctx, "post-1", []byte("b"), []string{"posts", "post-1"}, time.Minute))
	require.NoError(t, s.Set(ctx, "events-list", []byte("c"), []string{"events"}, time.Minute))

	require.NoError(t, s.InvalidateTag(ctx, "posts"))

	_, ok, _ := s.Get(ctx, "posts-list")
	assert.False(t, ok)
	_, ok, _ = s.Get(ctx, "post-1")
	assert.False(t, ok, "entry carrying the tag among others is dropped too")
	_, ok, _ = s.Get(ctx, "events-list")
	assert.True(t, ok, "entries with other tags survive")
}

func TestMemoryStore_InvalidateTagIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Set(ctx, "k1", []byte("v"), []string{"summary"}, time.Minute))

	require.NoError(t, s.InvalidateTag(ctx, "summary"))
	require.NoError(t, s.InvalidateTag(ctx, "summary"), "second invalidation is a no-op")
	require.NoError(t, s.InvalidateTag(ctx, "never-used"), "unknown tag is a no-op")
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStore_SetReplacesTags(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Set(ctx, "k1", []byte("v1"), []string{"posts"}, time.Minute))
	require.NoError(t, s.Set(ctx, "k1", []byte("v2"), []string{"thoughts"}, time.Minute))

	// old tag no longer reaches the entry
	require.NoError(t, s.InvalidateTag(ctx, "posts"))
	val, ok, _ := s.Get(ctx, "k1")
	require.True(t, ok)
	assert.Equal(t, []byte("v2"), val)

	require.NoError(t, s.InvalidateTag(ctx, "thoughts"))
	_, ok, _ = s.Get(ctx, "k1")
	assert.False(t, ok)
}
