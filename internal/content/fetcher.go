// Package content is the typed read boundary over the backend store, plus a
// tag-cached decorator for the public read paths.
package content

import (
	"context"

	"github.com/inkwell-hq/inkwell/internal/model"
	"github.com/inkwell-hq/inkwell/internal/store"
)

// Fetcher exposes the public reads. List calls return visible rows only,
// ordered by published_at descending. Get returns model.ErrNotFound for an
// unknown id; any other error is a backend failure.
type Fetcher interface {
	ListPosts(ctx context.Context) ([]*model.Post, error)
	GetPost(ctx context.Context, id string) (*model.Post, error)
	ListThoughts(ctx context.Context) ([]*model.Thought, error)
	ListEvents(ctx context.Context) ([]*model.Event, error)
	Summary(ctx context.Context, recentLimit int) (*model.Summary, error)
}

// NewFetcher returns the uncached fetch layer: a pure typed call boundary
// with no side effects.
func NewFetcher(st store.Store) Fetcher { return &storeFetcher{st: st} }

type storeFetcher struct{ st store.Store }

func (f *storeFetcher) ListPosts(ctx context.Context) ([]*model.Post, error) {
	return f.st.Posts().List(ctx, true)
}

func (f *storeFetcher) GetPost(ctx context.Context, id string) (*model.Post, error) {
	return f.st.Posts().Get(ctx, id)
}

func (f *storeFetcher) ListThoughts(ctx context.Context) ([]*model.Thought, error) {
	return f.st.Thoughts().List(ctx, true)
}

func (f *storeFetcher) ListEvents(ctx context.Context) ([]*model.Event, error) {
	return f.st.Events().List(ctx, true)
}

func (f *storeFetcher) Summary(ctx context.Context, recentLimit int) (*model.Summary, error) {
	return f.st.Summary(ctx, recentLimit)
}
