// Package memstore provides an in-memory store.Store used by tests and
// handler fakes. It mirrors the SQL drivers' semantics: generated ids,
// published_at defaulting, status gating and descending publish order.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/inkwell-hq/inkwell/internal/model"
	"github.com/inkwell-hq/inkwell/internal/store"
)

// New returns an empty in-memory store.
func New() *Store {
	s := &Store{}
	s.posts = &collection[model.Post]{meta: postMeta, rows: map[string]*model.Post{}}
	s.thoughts = &collection[model.Thought]{meta: thoughtMeta, rows: map[string]*model.Thought{}}
	s.events = &collection[model.Event]{meta: eventMeta, rows: map[string]*model.Event{}}
	return s
}

// Store is safe for concurrent use; each collection holds its own lock.
type Store struct {
	posts    *collection[model.Post]
	thoughts *collection[model.Thought]
	events   *collection[model.Event]

	// FailReads forces every read to return this error; lets tests exercise
	// the degrade-to-empty and cache-repopulation failure paths.
	FailReads  error
	FailWrites error
}

func (s *Store) Posts() store.Collection[model.Post] {
	return &guarded[model.Post]{c: s.posts, s: s}
}
func (s *Store) Thoughts() store.Collection[model.Thought] {
	return &guarded[model.Thought]{c: s.thoughts, s: s}
}
func (s *Store) Events() store.Collection[model.Event] {
	return &guarded[model.Event]{c: s.events, s: s}
}

func (s *Store) Summary(ctx context.Context, recentLimit int) (*model.Summary, error) {
	if s.FailReads != nil {
		return nil, s.FailReads
	}
	out := &model.Summary{RecentPosts: []*model.Post{}}
	tally := func(visible bool, chars int, dst *model.KindCount) {
		if visible {
			dst.Visible++
			dst.VisibleChars += chars
		} else {
			dst.Hidden++
			dst.HiddenChars += chars
		}
	}
	for _, p := range s.posts.all() {
		tally(p.Status == model.StatusShow, len(p.Content), &out.Posts)
	}
	for _, t := range s.thoughts.all() {
		tally(t.Status == model.StatusShow, len(t.Content), &out.Thoughts)
	}
	for _, e := range s.events.all() {
		tally(e.Status == model.StatusShow, len(e.Description), &out.Events)
	}
	recent, err := s.posts.list(true)
	if err != nil {
		return nil, err
	}
	if len(recent) > recentLimit {
		recent = recent[:recentLimit]
	}
	out.RecentPosts = recent
	return out, nil
}

// meta carries the per-kind field accessors the generic collection needs.
type meta[T any] struct {
	id           func(*T) string
	setID        func(*T, string)
	status       func(*T) model.Status
	setStatus    func(*T, model.Status)
	published    func(*T) time.Time
	setPublished func(*T, time.Time)
	created      func(*T) time.Time
	setCreated   func(*T, time.Time)
	setUpdated   func(*T, *time.Time)
}

var postMeta = meta[model.Post]{
	id:           func(p *model.Post) string { return p.ID },
	setID:        func(p *model.Post, id string) { p.ID = id },
	status:       func(p *model.Post) model.Status { return p.Status },
	setStatus:    func(p *model.Post, st model.Status) { p.Status = st },
	published:    func(p *model.Post) time.Time { return p.PublishedAt },
	setPublished: func(p *model.Post, t time.Time) { p.PublishedAt = t },
	created:      func(p *model.Post) time.Time { return p.CreatedAt },
	setCreated:   func(p *model.Post, t time.Time) { p.CreatedAt = t },
	setUpdated:   func(p *model.Post, t *time.Time) { p.UpdatedAt = t },
}

var thoughtMeta = meta[model.Thought]{
	id:           func(t *model.Thought) string { return t.ID },
	setID:        func(t *model.Thought, id string) { t.ID = id },
	status:       func(t *model.Thought) model.Status { return t.Status },
	setStatus:    func(t *model.Thought, st model.Status) { t.Status = st },
	published:    func(t *model.Thought) time.Time { return t.PublishedAt },
	setPublished: func(t *model.Thought, ts time.Time) { t.PublishedAt = ts },
	created:      func(t *model.Thought) time.Time { return t.CreatedAt },
	setCreated:   func(t *model.Thought, ts time.Time) { t.CreatedAt = ts },
	setUpdated:   func(t *model.Thought, ts *time.Time) { t.UpdatedAt = ts },
}

var eventMeta = meta[model.Event]{
	id:           func(e *model.Event) string { return e.ID },
	setID:        func(e *model.Event, id string) { e.ID = id },
	status:       func(e *model.Event) model.Status { return e.Status },
	setStatus:    func(e *model.Event, st model.Status) { e.Status = st },
	published:    func(e *model.Event) time.Time { return e.PublishedAt },
	setPublished: func(e *model.Event, t time.Time) { e.PublishedAt = t },
	created:      func(e *model.Event) time.Time { return e.CreatedAt },
	setCreated:   func(e *model.Event, t time.Time) { e.CreatedAt = t },
	setUpdated:   func(e *model.Event, t *time.Time) { e.UpdatedAt = t },
}

type collection[T any] struct {
	mu   sync.Mutex
	meta meta[T]
	rows map[string]*T
}

func (c *collection[T]) all() []*T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*T, 0, len(c.rows))
	for _, r := range c.rows {
		cp := *r
		out = append(out, &cp)
	}
	return out
}

func (c *collection[T]) list(visibleOnly bool) ([]*T, error) {
	rows := c.all()
	if visibleOnly {
		filtered := rows[:0]
		for _, r := range rows {
			if c.meta.status(r) == model.StatusShow {
				filtered = append(filtered, r)
			}
		}
		rows = filtered
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return c.meta.published(rows[i]).After(c.meta.published(rows[j]))
	})
	return rows, nil
}

func (c *collection[T]) get(id string) (*T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.rows[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (c *collection[T]) insert(row *T) (*T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *row
	c.meta.setID(&cp, uuid.New().String())
	now := time.Now().UTC()
	if c.meta.published(&cp).IsZero() {
		c.meta.setPublished(&cp, now)
	}
	c.meta.setCreated(&cp, now)
	stored := cp
	c.rows[c.meta.id(&cp)] = &stored
	return &cp, nil
}

func (c *collection[T]) update(row *T) (*T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.meta.id(row)
	prev, ok := c.rows[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	cp := *row
	// created_at is immutable; the payload never carries it.
	c.meta.setCreated(&cp, c.meta.created(prev))
	now := time.Now().UTC()
	c.meta.setUpdated(&cp, &now)
	stored := cp
	c.rows[id] = &stored
	return &cp, nil
}

func (c *collection[T]) delete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.rows[id]; !ok {
		return model.ErrNotFound
	}
	delete(c.rows, id)
	return nil
}

func (c *collection[T]) updateStatus(id string, status model.Status) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.rows[id]
	if !ok {
		return model.ErrNotFound
	}
	c.meta.setStatus(r, status)
	now := time.Now().UTC()
	c.meta.setUpdated(r, &now)
	return nil
}

// guarded applies the store's failure injection before delegating.
type guarded[T any] struct {
	c *collection[T]
	s *Store
}

func (g *guarded[T]) List(_ context.Context, visibleOnly bool) ([]*T, error) {
	if g.s.FailReads != nil {
		return nil, g.s.FailReads
	}
	return g.c.list(visibleOnly)
}

func (g *guarded[T]) Get(_ context.Context, id string) (*T, error) {
	if g.s.FailReads != nil {
		return nil, g.s.FailReads
	}
	return g.c.get(id)
}

func (g *guarded[T]) Insert(_ context.Context, row *T) (*T, error) {
	if g.s.FailWrites != nil {
		return nil, g.s.FailWrites
	}
	return g.c.insert(row)
}

func (g *guarded[T]) Update(_ context.Context, row *T) (*T, error) {
	if g.s.FailWrites != nil {
		return nil, g.s.FailWrites
	}
	return g.c.update(row)
}

func (g *guarded[T]) Delete(_ context.Context, id string) error {
	if g.s.FailWrites != nil {
		return g.s.FailWrites
	}
	return g.c.delete(id)
}

func (g *guarded[T]) UpdateStatus(_ context.Context, id string, status model.Status) error {
	if g.s.FailWrites != nil {
		return g.s.FailWrites
	}
	return g.c.updateStatus(id, status)
}
