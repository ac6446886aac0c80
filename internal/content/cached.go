package content

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/inkwell-hq/inkwell/internal/cache"
	"github.com/inkwell-hq/inkwell/internal/model"
	"github.com/inkwell-hq/inkwell/internal/revalidate"
)

// DefaultTTL bounds staleness for every cached read: even when an
// invalidation signal is lost, an entry expires after ten minutes.
const DefaultTTL = 600 * time.Second

// Cache keys. Detail entries append the post id.
const (
	keyPostsList    = "posts-list"
	keyThoughtsList = "thoughts-list"
	keyEventsList   = "events-list"
	keyPostPrefix   = "post:"
	keySummary      = "summary"
)

// NewCached wraps next with tag-addressable memoization. Cache read/write
// failures degrade to the uncached call; a failed repopulation leaves the
// entry absent and surfaces the fetch error unchanged.
func NewCached(next Fetcher, store cache.TagStore, log zerolog.Logger) Fetcher {
	return &cachedFetcher{next: next, store: store, ttl: DefaultTTL, log: log}
}

type cachedFetcher struct {
	next  Fetcher
	store cache.TagStore
	ttl   time.Duration
	log   zerolog.Logger
}

// through memoizes one fetch under key with the given tags.
func through[T any](ctx context.Context, c *cachedFetcher, key string, tags []string, fetch func(context.Context) (T, error)) (T, error) {
	var zero T

	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
	} else if ok {
		var out T
		if err := json.Unmarshal(raw, &out); err == nil {
			return out, nil
		}
		c.log.Warn().Str("key", key).Msg("cache entry undecodable, refetching")
	}

	out, err := fetch(ctx)
	if err != nil {
		return zero, err
	}

	if raw, err := json.Marshal(out); err == nil {
		if err := c.store.Set(ctx, key, raw, tags, c.ttl); err != nil {
			c.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
		}
	}
	return out, nil
}

func (c *cachedFetcher) ListPosts(ctx context.Context) ([]*model.Post, error) {
	return through(ctx, c, keyPostsList, []string{revalidate.TagPosts}, c.next.ListPosts)
}

func (c *cachedFetcher) GetPost(ctx context.Context, id string) (*model.Post, error) {
	key := keyPostPrefix + id
	tags := []string{revalidate.TagPosts, revalidate.PostTag(id)}
	return through(ctx, c, key, tags, func(ctx context.Context) (*model.Post, error) {
		return c.next.GetPost(ctx, id)
	})
}

func (c *cachedFetcher) ListThoughts(ctx context.Context) ([]*model.Thought, error) {
	return through(ctx, c, keyThoughtsList, []string{revalidate.TagThoughts}, c.next.ListThoughts)
}

func (c *cachedFetcher) ListEvents(ctx context.Context) ([]*model.Event, error) {
	return through(ctx, c, keyEventsList, []string{revalidate.TagEvents}, c.next.ListEvents)
}

func (c *cachedFetcher) Summary(ctx context.Context, recentLimit int) (*model.Summary, error) {
	key := fmt.Sprintf("%s:%d", keySummary, recentLimit)
	return through(ctx, c, key, []string{revalidate.TagSummary}, func(ctx context.Context) (*model.Summary, error) {
		return c.next.Summary(ctx, recentLimit)
	})
}
