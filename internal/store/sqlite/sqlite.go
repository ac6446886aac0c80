// Package sqlite provides the store driver used by the local build target:
// a single-file database with the same semantics as the postgres driver.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/inkwell-hq/inkwell/internal/model"
	"github.com/inkwell-hq/inkwell/internal/store"
)

var ddl = []string{
	`CREATE TABLE IF NOT EXISTS posts (
        id           TEXT PRIMARY KEY,
        title        TEXT NOT NULL,
        content      TEXT NOT NULL,
        author       TEXT NOT NULL,
        tags         TEXT,
        status       TEXT NOT NULL DEFAULT 'hide',
        published_at TEXT NOT NULL,
        created_at   TEXT NOT NULL,
        updated_at   TEXT
    )`,
	`CREATE TABLE IF NOT EXISTS thoughts (
        id           TEXT PRIMARY KEY,
        content      TEXT NOT NULL,
        images       TEXT,
        author       TEXT NOT NULL,
        status       TEXT NOT NULL DEFAULT 'hide',
        published_at TEXT NOT NULL,
        created_at   TEXT NOT NULL,
        updated_at   TEXT
    )`,
	`CREATE TABLE IF NOT EXISTS events (
        id           TEXT PRIMARY KEY,
        title        TEXT NOT NULL,
        description  TEXT NOT NULL,
        tags         TEXT,
        color        TEXT NOT NULL DEFAULT '',
        status       TEXT NOT NULL DEFAULT 'hide',
        published_at TEXT NOT NULL,
        created_at   TEXT NOT NULL,
        updated_at   TEXT
    )`,
}

// Open opens (or creates) the SQLite database at path and applies the schema.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// The modernc driver is not safe for concurrent writes on one connection
	// pool entry with WAL disabled; serialize with a single connection.
	db.SetMaxOpenConns(1)
	for _, stmt := range ddl {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	return db, nil
}

// New opens the database at path and returns a store over it.
func New(path string) (store.Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	return NewWithDB(db), nil
}

// NewWithDB allows wiring with an existing connection (tests, factory).
func NewWithDB(db *sql.DB) store.Store { return &liteStore{db: db} }

type liteStore struct{ db *sql.DB }

func (s *liteStore) Posts() store.Collection[model.Post]       { return &posts{db: s.db} }
func (s *liteStore) Thoughts() store.Collection[model.Thought] { return &thoughts{db: s.db} }
func (s *liteStore) Events() store.Collection[model.Event]     { return &events{db: s.db} }

// HealthPing implements health.HealthPinger.
func (s *liteStore) HealthPing(ctx context.Context) error { return s.db.PingContext(ctx) }

// Summary computes the aggregate the postgres get_summary function returns,
// natively in SQL plus a recent-posts query, so callers see one shape.
func (s *liteStore) Summary(ctx context.Context, recentLimit int) (*model.Summary, error) {
	out := &model.Summary{}
	type target struct {
		table, textCol string
		dst            *model.KindCount
	}
	for _, tg := range []target{
		{"posts", "content", &out.Posts},
		{"thoughts", "content", &out.Thoughts},
		{"events", "description", &out.Events},
	} {
		row := s.db.QueryRowContext(ctx, `
            SELECT
                COALESCE(SUM(CASE WHEN status='show' THEN 1 ELSE 0 END), 0),
                COALESCE(SUM(CASE WHEN status='hide' THEN 1 ELSE 0 END), 0),
                COALESCE(SUM(CASE WHEN status='show' THEN length(`+tg.textCol+`) ELSE 0 END), 0),
                COALESCE(SUM(CASE WHEN status='hide' THEN length(`+tg.textCol+`) ELSE 0 END), 0)
            FROM `+tg.table)
		if err := row.Scan(&tg.dst.Visible, &tg.dst.Hidden, &tg.dst.VisibleChars, &tg.dst.HiddenChars); err != nil {
			return nil, err
		}
	}

	rows, err := s.db.QueryContext(ctx, `
        SELECT `+postCols+` FROM posts WHERE status='show'
        ORDER BY published_at DESC LIMIT ?`, recentLimit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	out.RecentPosts = []*model.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out.RecentPosts = append(out.RecentPosts, p)
	}
	return out, rows.Err()
}

// --- scan/format helpers ---

func timeText(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

func parseTime(s string) (time.Time, error) { return time.Parse(time.RFC3339Nano, s) }

func parseTimePtr(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := parseTime(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func marshalList(v []string) (any, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func unmarshalList(raw *string) ([]string, error) {
	if raw == nil {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(*raw), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func mapNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}
	return err
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func visibilityClause(visibleOnly bool) string {
	if visibleOnly {
		return ` WHERE status = 'show'`
	}
	return ``
}

type scanner interface{ Scan(...any) error }

// --- Posts ---

type posts struct{ db *sql.DB }

const postCols = `id, title, content, author, tags, status, published_at, created_at, updated_at`

func scanPost(row scanner) (*model.Post, error) {
	var out model.Post
	var tags *string
	var published, created string
	var updated *string
	if err := row.Scan(&out.ID, &out.Title, &out.Content, &out.Author, &tags,
		&out.Status, &published, &created, &updated); err != nil {
		return nil, err
	}
	var err error
	if out.Tags, err = unmarshalList(tags); err != nil {
		return nil, err
	}
	if out.PublishedAt, err = parseTime(published); err != nil {
		return nil, err
	}
	if out.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if out.UpdatedAt, err = parseTimePtr(updated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *posts) List(ctx context.Context, visibleOnly bool) ([]*model.Post, error) {
	rows, err := p.db.QueryContext(ctx,
		`SELECT `+postCols+` FROM posts`+visibilityClause(visibleOnly)+` ORDER BY published_at DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []*model.Post
	for rows.Next() {
		row, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, row)
	}
	return res, rows.Err()
}

func (p *posts) Get(ctx context.Context, id string) (*model.Post, error) {
	out, err := scanPost(p.db.QueryRowContext(ctx, `SELECT `+postCols+` FROM posts WHERE id=?`, id))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return out, nil
}

func (p *posts) Insert(ctx context.Context, row *model.Post) (*model.Post, error) {
	tags, err := marshalList(row.Tags)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	out := *row
	out.ID = uuid.New().String()
	if out.PublishedAt.IsZero() {
		out.PublishedAt = now
	}
	out.CreatedAt = now
	_, err = p.db.ExecContext(ctx, `
        INSERT INTO posts (id, title, content, author, tags, status, published_at, created_at)
        VALUES (?,?,?,?,?,?,?,?)
    `, out.ID, out.Title, out.Content, out.Author, tags, out.Status, timeText(out.PublishedAt), timeText(now))
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (p *posts) Update(ctx context.Context, row *model.Post) (*model.Post, error) {
	tags, err := marshalList(row.Tags)
	if err != nil {
		return nil, err
	}
	res, err := p.db.ExecContext(ctx, `
        UPDATE posts SET title=?, content=?, author=?, tags=?, status=?, published_at=?, updated_at=?
        WHERE id=?
    `, row.Title, row.Content, row.Author, tags, row.Status, timeText(row.PublishedAt), timeText(time.Now()), row.ID)
	if err != nil {
		return nil, err
	}
	if err := checkAffected(res); err != nil {
		return nil, err
	}
	return p.Get(ctx, row.ID)
}

func (p *posts) Delete(ctx context.Context, id string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM posts WHERE id=?`, id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (p *posts) UpdateStatus(ctx context.Context, id string, status model.Status) error {
	res, err := p.db.ExecContext(ctx,
		`UPDATE posts SET status=?, updated_at=? WHERE id=?`, status, timeText(time.Now()), id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

// --- Thoughts ---

type thoughts struct{ db *sql.DB }

const thoughtCols = `id, content, images, author, status, published_at, created_at, updated_at`

func scanThought(row scanner) (*model.Thought, error) {
	var out model.Thought
	var images *string
	var published, created string
	var updated *string
	if err := row.Scan(&out.ID, &out.Content, &images, &out.Author,
		&out.Status, &published, &created, &updated); err != nil {
		return nil, err
	}
	var err error
	if out.Images, err = unmarshalList(images); err != nil {
		return nil, err
	}
	if out.PublishedAt, err = parseTime(published); err != nil {
		return nil, err
	}
	if out.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if out.UpdatedAt, err = parseTimePtr(updated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *thoughts) List(ctx context.Context, visibleOnly bool) ([]*model.Thought, error) {
	rows, err := t.db.QueryContext(ctx,
		`SELECT `+thoughtCols+` FROM thoughts`+visibilityClause(visibleOnly)+` ORDER BY published_at DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []*model.Thought
	for rows.Next() {
		row, err := scanThought(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, row)
	}
	return res, rows.Err()
}

func (t *thoughts) Get(ctx context.Context, id string) (*model.Thought, error) {
	out, err := scanThought(t.db.QueryRowContext(ctx, `SELECT `+thoughtCols+` FROM thoughts WHERE id=?`, id))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return out, nil
}

func (t *thoughts) Insert(ctx context.Context, row *model.Thought) (*model.Thought, error) {
	images, err := marshalList(row.Images)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	out := *row
	out.ID = uuid.New().String()
	if out.PublishedAt.IsZero() {
		out.PublishedAt = now
	}
	out.CreatedAt = now
	_, err = t.db.ExecContext(ctx, `
        INSERT INTO thoughts (id, content, images, author, status, published_at, created_at)
        VALUES (?,?,?,?,?,?,?)
    `, out.ID, out.Content, images, out.Author, out.Status, timeText(out.PublishedAt), timeText(now))
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (t *thoughts) Update(ctx context.Context, row *model.Thought) (*model.Thought, error) {
	images, err := marshalList(row.Images)
	if err != nil {
		return nil, err
	}
	res, err := t.db.ExecContext(ctx, `
        UPDATE thoughts SET content=?, images=?, author=?, status=?, published_at=?, updated_at=?
        WHERE id=?
    `, row.Content, images, row.Author, row.Status, timeText(row.PublishedAt), timeText(time.Now()), row.ID)
	if err != nil {
		return nil, err
	}
	if err := checkAffected(res); err != nil {
		return nil, err
	}
	return t.Get(ctx, row.ID)
}

func (t *thoughts) Delete(ctx context.Context, id string) error {
	res, err := t.db.ExecContext(ctx, `DELETE FROM thoughts WHERE id=?`, id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (t *thoughts) UpdateStatus(ctx context.Context, id string, status model.Status) error {
	res, err := t.db.ExecContext(ctx,
		`UPDATE thoughts SET status=?, updated_at=? WHERE id=?`, status, timeText(time.Now()), id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

// --- Events ---

type events struct{ db *sql.DB }

const eventCols = `id, title, description, tags, color, status, published_at, created_at, updated_at`

func scanEvent(row scanner) (*model.Event, error) {
	var out model.Event
	var tags *string
	var published, created string
	var updated *string
	if err := row.Scan(&out.ID, &out.Title, &out.Description, &tags, &out.Color,
		&out.Status, &published, &created, &updated); err != nil {
		return nil, err
	}
	var err error
	if out.Tags, err = unmarshalList(tags); err != nil {
		return nil, err
	}
	if out.PublishedAt, err = parseTime(published); err != nil {
		return nil, err
	}
	if out.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if out.UpdatedAt, err = parseTimePtr(updated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (e *events) List(ctx context.Context, visibleOnly bool) ([]*model.Event, error) {
	rows, err := e.db.QueryContext(ctx,
		`SELECT `+eventCols+` FROM events`+visibilityClause(visibleOnly)+` ORDER BY published_at DESC`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []*model.Event
	for rows.Next() {
		row, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, row)
	}
	return res, rows.Err()
}

func (e *events) Get(ctx context.Context, id string) (*model.Event, error) {
	out, err := scanEvent(e.db.QueryRowContext(ctx, `SELECT `+eventCols+` FROM events WHERE id=?`, id))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return out, nil
}

func (e *events) Insert(ctx context.Context, row *model.Event) (*model.Event, error) {
	tags, err := marshalList(row.Tags)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	out := *row
	out.ID = uuid.New().String()
	if out.PublishedAt.IsZero() {
		out.PublishedAt = now
	}
	out.CreatedAt = now
	_, err = e.db.ExecContext(ctx, `
        INSERT INTO events (id, title, description, tags, color, status, published_at, created_at)
        VALUES (?,?,?,?,?,?,?,?)
    `, out.ID, out.Title, out.Description, tags, out.Color, out.Status, timeText(out.PublishedAt), timeText(now))
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (e *events) Update(ctx context.Context, row *model.Event) (*model.Event, error) {
	tags, err := marshalList(row.Tags)
	if err != nil {
		return nil, err
	}
	res, err := e.db.ExecContext(ctx, `
        UPDATE events SET title=?, description=?, tags=?, color=?, status=?, published_at=?, updated_at=?
        WHERE id=?
    `, row.Title, row.Description, tags, row.Color, row.Status, timeText(row.PublishedAt), timeText(time.Now()), row.ID)
	if err != nil {
		return nil, err
	}
	if err := checkAffected(res); err != nil {
		return nil, err
	}
	return e.Get(ctx, row.ID)
}

func (e *events) Delete(ctx context.Context, id string) error {
	res, err := e.db.ExecContext(ctx, `DELETE FROM events WHERE id=?`, id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (e *events) UpdateStatus(ctx context.Context, id string, status model.Status) error {
	res, err := e.db.ExecContext(ctx,
		`UPDATE events SET status=?, updated_at=? WHERE id=?`, status, timeText(time.Now()), id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}
