package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/inkwell-hq/inkwell/internal/model"
	"github.com/inkwell-hq/inkwell/internal/store"
)

// Run exercises a compliance suite against a store.Store implementation.
// Implementations should provide a clean, isolated store from makeStore.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	// Posts CRUD
	p1, err := s.Posts().Insert(ctx, &model.Post{
		Title: "first", Content: "hello world", Author: "ada",
		Tags: []string{"go"}, Status: model.StatusShow, PublishedAt: base,
	})
	if err != nil {
		t.Fatalf("InsertPost: %v", err)
	}
	if p1.ID == "" {
		t.Fatalf("InsertPost: empty id")
	}
	p2, err := s.Posts().Insert(ctx, &model.Post{
		Title: "second", Content: "draft", Author: "ada",
		Status: model.StatusHide, PublishedAt: base.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("InsertPost p2: %v", err)
	}

	if got, err := s.Posts().Get(ctx, p1.ID); err != nil || got.Title != "first" {
		t.Fatalf("GetPost: got=%+v err=%v", got, err)
	}
	if _, err := s.Posts().Get(ctx, "00000000-0000-0000-0000-000000000000"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetPost unknown id: want ErrNotFound, got %v", err)
	}

	// Public listing excludes hidden rows and orders by published_at desc
	pub, err := s.Posts().List(ctx, true)
	if err != nil {
		t.Fatalf("ListPosts visible: %v", err)
	}
	if len(pub) != 1 || pub[0].ID != p1.ID {
		t.Fatalf("ListPosts visible: want only p1, got %d rows", len(pub))
	}
	all, err := s.Posts().List(ctx, false)
	if err != nil || len(all) != 2 {
		t.Fatalf("ListPosts all: n=%d err=%v", len(all), err)
	}
	if all[0].ID != p2.ID || all[1].ID != p1.ID {
		t.Fatalf("ListPosts all: not ordered by published_at desc")
	}

	// Update rewrites editable fields and stamps updated_at
	p1.Content = "hello, edited"
	upd, err := s.Posts().Update(ctx, p1)
	if err != nil {
		t.Fatalf("UpdatePost: %v", err)
	}
	if upd.Content != "hello, edited" || upd.UpdatedAt == nil {
		t.Fatalf("UpdatePost: got=%+v", upd)
	}
	if upd.CreatedAt.IsZero() || !upd.CreatedAt.Equal(p1.CreatedAt) {
		t.Fatalf("UpdatePost must not touch created_at")
	}

	// An update payload carries only the id and editable fields; created_at
	// stays what Insert stamped even when the payload leaves it zero.
	upd, err = s.Posts().Update(ctx, &model.Post{
		ID: p1.ID, Title: "first", Content: "hello, edited", Author: "ada",
		Tags: []string{"go"}, Status: model.StatusShow, PublishedAt: base,
	})
	if err != nil {
		t.Fatalf("UpdatePost sparse payload: %v", err)
	}
	if upd.CreatedAt.IsZero() || !upd.CreatedAt.Equal(p1.CreatedAt) {
		t.Fatalf("UpdatePost sparse payload: created_at lost, got=%+v", upd)
	}
	if got, err := s.Posts().Get(ctx, p1.ID); err != nil || got.CreatedAt.IsZero() {
		t.Fatalf("GetPost after sparse update: created_at lost, got=%+v err=%v", got, err)
	}

	// Status flip makes the row publicly visible
	if err := s.Posts().UpdateStatus(ctx, p2.ID, model.StatusShow); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	pub, err = s.Posts().List(ctx, true)
	if err != nil || len(pub) != 2 {
		t.Fatalf("ListPosts after publish: n=%d err=%v", len(pub), err)
	}
	if pub[0].ID != p2.ID {
		t.Fatalf("ListPosts after publish: newest first expected")
	}

	// Thoughts
	th, err := s.Thoughts().Insert(ctx, &model.Thought{
		Content: "a passing note", Images: []string{"https://img/1.png"},
		Author: "ada", Status: model.StatusShow, PublishedAt: base,
	})
	if err != nil {
		t.Fatalf("InsertThought: %v", err)
	}
	if got, err := s.Thoughts().Get(ctx, th.ID); err != nil || len(got.Images) != 1 {
		t.Fatalf("GetThought: got=%+v err=%v", got, err)
	}

	// Events
	ev, err := s.Events().Insert(ctx, &model.Event{
		Title: "launch", Description: "v1 shipped", Color: "green",
		Status: model.StatusHide, PublishedAt: base,
	})
	if err != nil {
		t.Fatalf("InsertEvent: %v", err)
	}
	if lst, err := s.Events().List(ctx, true); err != nil || len(lst) != 0 {
		t.Fatalf("ListEvents visible: hidden event leaked, n=%d err=%v", len(lst), err)
	}

	// Summary aggregates counts, character totals and recent visible posts
	sum, err := s.Summary(ctx, 10)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.Posts.Visible != 2 || sum.Posts.Hidden != 0 {
		t.Fatalf("Summary posts counts: %+v", sum.Posts)
	}
	if sum.Posts.VisibleChars != len("hello, edited")+len("draft") {
		t.Fatalf("Summary posts chars: %+v", sum.Posts)
	}
	if sum.Thoughts.Visible != 1 || sum.Events.Hidden != 1 {
		t.Fatalf("Summary thought/event counts: %+v %+v", sum.Thoughts, sum.Events)
	}
	if len(sum.RecentPosts) != 2 || sum.RecentPosts[0].ID != p2.ID {
		t.Fatalf("Summary recent posts: n=%d", len(sum.RecentPosts))
	}

	// recentLimit caps the recent posts slice
	sum, err = s.Summary(ctx, 1)
	if err != nil || len(sum.RecentPosts) != 1 {
		t.Fatalf("Summary limit: n=%d err=%v", len(sum.RecentPosts), err)
	}

	// Deletes
	if err := s.Posts().Delete(ctx, p2.ID); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}
	if err := s.Posts().Delete(ctx, p2.ID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("DeletePost twice: want ErrNotFound, got %v", err)
	}
	if err := s.Thoughts().Delete(ctx, th.ID); err != nil {
		t.Fatalf("DeleteThought: %v", err)
	}
	if err := s.Events().Delete(ctx, ev.ID); err != nil {
		t.Fatalf("DeleteEvent: %v", err)
	}
	if err := s.Events().UpdateStatus(ctx, ev.ID, model.StatusShow); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("UpdateStatus after delete: want ErrNotFound, got %v", err)
	}
}
