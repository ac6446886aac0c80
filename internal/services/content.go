// Package services holds the mutation actions: the only write path for
// content, responsible for invalidating caches and routes after a
// successful write.
package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/inkwell-hq/inkwell/internal/model"
	"github.com/inkwell-hq/inkwell/internal/revalidate"
	"github.com/inkwell-hq/inkwell/internal/store"
)

// Result is the outcome shape returned to the dashboard. Backend errors are
// reported inside it; these actions never surface a Go error to the caller.
type Result struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
	Error   string `json:"error,omitempty"`
}

func failure(err error) Result { return Result{Success: false, Error: err.Error()} }

// Actions implements save/remove/updateStatus for one content kind. The same
// parametrized type serves posts, thoughts and events; the only per-kind
// pieces are the collection, the kind name and the id accessor.
type Actions[T any] struct {
	kind model.Kind
	coll store.Collection[T]
	rev  *revalidate.Revalidator
	log  zerolog.Logger
	id   func(*T) string
}

func newActions[T any](kind model.Kind, coll store.Collection[T], rev *revalidate.Revalidator, log zerolog.Logger, id func(*T) string) *Actions[T] {
	return &Actions[T]{kind: kind, coll: coll, rev: rev, log: log, id: id}
}

// Save inserts when the payload has no id, updates editable fields
// otherwise. On success it invalidates before returning, so a client
// refetching immediately afterwards observes fresh data.
func (a *Actions[T]) Save(ctx context.Context, row *T) Result {
	var (
		saved *T
		err   error
	)
	if a.id(row) == "" {
		saved, err = a.coll.Insert(ctx, row)
	} else {
		saved, err = a.coll.Update(ctx, row)
	}
	if err != nil {
		a.log.Error().Stack().Err(err).Str("kind", string(a.kind)).Msg("save failed")
		return failure(err)
	}
	a.invalidate(ctx, a.id(saved))
	return Result{Success: true, ID: a.id(saved)}
}

// Remove deletes the row.
func (a *Actions[T]) Remove(ctx context.Context, id string) Result {
	if err := a.coll.Delete(ctx, id); err != nil {
		a.log.Error().Stack().Err(err).Str("kind", string(a.kind)).Str("id", id).Msg("remove failed")
		return failure(err)
	}
	a.invalidate(ctx, id)
	return Result{Success: true, ID: id}
}

// UpdateStatus changes only the status field.
func (a *Actions[T]) UpdateStatus(ctx context.Context, id string, status model.Status) Result {
	if !status.Valid() {
		return failure(fmt.Errorf("%w: unknown status %q", model.ErrValidation, status))
	}
	if err := a.coll.UpdateStatus(ctx, id, status); err != nil {
		a.log.Error().Stack().Err(err).Str("kind", string(a.kind)).Str("id", id).Msg("status update failed")
		return failure(err)
	}
	a.invalidate(ctx, id)
	return Result{Success: true, ID: id}
}

// invalidate applies the shared mapping for this kind. An invalidation
// failure after a successful write is non-fatal: the caller still gets
// success and the stale entries expire at the cache TTL.
func (a *Actions[T]) invalidate(ctx context.Context, id string) {
	target := revalidate.For(string(a.kind), id)
	if err := a.rev.Apply(ctx, target); err != nil {
		a.log.Error().Stack().Err(err).Str("kind", string(a.kind)).Msg("cache invalidation failed after write")
	}
}

// Content bundles the per-kind actions plus the dashboard reads
// (both statuses, never cached).
type Content struct {
	Posts    *Actions[model.Post]
	Thoughts *Actions[model.Thought]
	Events   *Actions[model.Event]

	st store.Store
}

// NewContent wires the three action sets over one store and revalidator.
func NewContent(st store.Store, rev *revalidate.Revalidator, log zerolog.Logger) *Content {
	return &Content{
		Posts: newActions(model.KindPosts, st.Posts(), rev, log,
			func(p *model.Post) string { return p.ID }),
		Thoughts: newActions(model.KindThoughts, st.Thoughts(), rev, log,
			func(t *model.Thought) string { return t.ID }),
		Events: newActions(model.KindEvents, st.Events(), rev, log,
			func(e *model.Event) string { return e.ID }),
		st: st,
	}
}

// Dashboard reads: all rows regardless of status, straight from the store.

func (c *Content) AllPosts(ctx context.Context) ([]*model.Post, error) {
	return c.st.Posts().List(ctx, false)
}

func (c *Content) AllThoughts(ctx context.Context) ([]*model.Thought, error) {
	return c.st.Thoughts().List(ctx, false)
}

func (c *Content) AllEvents(ctx context.Context) ([]*model.Event, error) {
	return c.st.Events().List(ctx, false)
}

func (c *Content) GetPost(ctx context.Context, id string) (*model.Post, error) {
	return c.st.Posts().Get(ctx, id)
}

func (c *Content) GetThought(ctx context.Context, id string) (*model.Thought, error) {
	return c.st.Thoughts().Get(ctx, id)
}

func (c *Content) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	return c.st.Events().Get(ctx, id)
}
