package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/inkwell-hq/inkwell/internal/model"
	"github.com/inkwell-hq/inkwell/internal/store"
)

// Open opens a PostgreSQL connection using the pgx stdlib driver and verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a native Postgres store backed directly by database/sql.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Posts() store.Collection[model.Post]       { return &posts{db: s.db} }
func (s *pgStore) Thoughts() store.Collection[model.Thought] { return &thoughts{db: s.db} }
func (s *pgStore) Events() store.Collection[model.Event]     { return &events{db: s.db} }

// HealthPing implements health.HealthPinger for the Postgres-backed store.
func (s *pgStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Summary invokes the get_summary SQL function and decodes its jsonb result.
func (s *pgStore) Summary(ctx context.Context, recentLimit int) (*model.Summary, error) {
	var raw []byte
	if err := s.db.QueryRowContext(ctx, `SELECT get_summary($1)`, recentLimit).Scan(&raw); err != nil {
		return nil, err
	}
	var out model.Summary
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode get_summary result: %w", err)
	}
	return &out, nil
}

func visibilityClause(visibleOnly bool) string {
	if visibleOnly {
		return ` WHERE status = 'show'`
	}
	return ``
}

// marshalList encodes an optional string list as jsonb, keeping NULL for nil.
func marshalList(v []string) (any, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}

func unmarshalList(raw []byte) ([]string, error) {
	if raw == nil {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
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

// --- Posts ---

type posts struct{ db *sql.DB }

const postCols = `id, title, content, author, tags, status, published_at, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (*model.Post, error) {
	var out model.Post
	var tags []byte
	if err := row.Scan(&out.ID, &out.Title, &out.Content, &out.Author, &tags,
		&out.Status, &out.PublishedAt, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, err
	}
	var err error
	if out.Tags, err = unmarshalList(tags); err != nil {
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
	out, err := scanPost(p.db.QueryRowContext(ctx, `SELECT `+postCols+` FROM posts WHERE id=$1`, id))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return out, nil
}

func (p *posts) Insert(ctx context.Context, row *model.Post) (*model.Post, error) {
	id := uuid.New().String()
	tags, err := marshalList(row.Tags)
	if err != nil {
		return nil, err
	}
	publishedAt := row.PublishedAt
	if publishedAt.IsZero() {
		publishedAt = time.Now().UTC()
	}
	out := *row
	out.ID = id
	out.PublishedAt = publishedAt
	err = p.db.QueryRowContext(ctx, `
        INSERT INTO posts (id, title, content, author, tags, status, published_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING created_at
    `, id, row.Title, row.Content, row.Author, tags, row.Status, publishedAt).Scan(&out.CreatedAt)
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
	out, err := scanPost(p.db.QueryRowContext(ctx, `
        UPDATE posts
        SET title=$2, content=$3, author=$4, tags=$5, status=$6, published_at=$7, updated_at=now()
        WHERE id=$1
        RETURNING `+postCols+`
    `, row.ID, row.Title, row.Content, row.Author, tags, row.Status, row.PublishedAt))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return out, nil
}

func (p *posts) Delete(ctx context.Context, id string) error {
	res, err := p.db.ExecContext(ctx, `DELETE FROM posts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (p *posts) UpdateStatus(ctx context.Context, id string, status model.Status) error {
	res, err := p.db.ExecContext(ctx,
		`UPDATE posts SET status=$2, updated_at=now() WHERE id=$1`, id, status)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

// --- Thoughts ---

type thoughts struct{ db *sql.DB }

const thoughtCols = `id, content, images, author, status, published_at, created_at, updated_at`

func scanThought(row interface{ Scan(...any) error }) (*model.Thought, error) {
	var out model.Thought
	var images []byte
	if err := row.Scan(&out.ID, &out.Content, &images, &out.Author,
		&out.Status, &out.PublishedAt, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, err
	}
	var err error
	if out.Images, err = unmarshalList(images); err != nil {
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
	out, err := scanThought(t.db.QueryRowContext(ctx, `SELECT `+thoughtCols+` FROM thoughts WHERE id=$1`, id))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return out, nil
}

func (t *thoughts) Insert(ctx context.Context, row *model.Thought) (*model.Thought, error) {
	id := uuid.New().String()
	images, err := marshalList(row.Images)
	if err != nil {
		return nil, err
	}
	publishedAt := row.PublishedAt
	if publishedAt.IsZero() {
		publishedAt = time.Now().UTC()
	}
	out := *row
	out.ID = id
	out.PublishedAt = publishedAt
	err = t.db.QueryRowContext(ctx, `
        INSERT INTO thoughts (id, content, images, author, status, published_at)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING created_at
    `, id, row.Content, images, row.Author, row.Status, publishedAt).Scan(&out.CreatedAt)
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
	out, err := scanThought(t.db.QueryRowContext(ctx, `
        UPDATE thoughts
        SET content=$2, images=$3, author=$4, status=$5, published_at=$6, updated_at=now()
        WHERE id=$1
        RETURNING `+thoughtCols+`
    `, row.ID, row.Content, images, row.Author, row.Status, row.PublishedAt))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return out, nil
}

func (t *thoughts) Delete(ctx context.Context, id string) error {
	res, err := t.db.ExecContext(ctx, `DELETE FROM thoughts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (t *thoughts) UpdateStatus(ctx context.Context, id string, status model.Status) error {
	res, err := t.db.ExecContext(ctx,
		`UPDATE thoughts SET status=$2, updated_at=now() WHERE id=$1`, id, status)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

// --- Events ---

type events struct{ db *sql.DB }

const eventCols = `id, title, description, tags, color, status, published_at, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (*model.Event, error) {
	var out model.Event
	var tags []byte
	if err := row.Scan(&out.ID, &out.Title, &out.Description, &tags, &out.Color,
		&out.Status, &out.PublishedAt, &out.CreatedAt, &out.UpdatedAt); err != nil {
		return nil, err
	}
	var err error
	if out.Tags, err = unmarshalList(tags); err != nil {
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
	out, err := scanEvent(e.db.QueryRowContext(ctx, `SELECT `+eventCols+` FROM events WHERE id=$1`, id))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return out, nil
}

func (e *events) Insert(ctx context.Context, row *model.Event) (*model.Event, error) {
	id := uuid.New().String()
	tags, err := marshalList(row.Tags)
	if err != nil {
		return nil, err
	}
	publishedAt := row.PublishedAt
	if publishedAt.IsZero() {
		publishedAt = time.Now().UTC()
	}
	out := *row
	out.ID = id
	out.PublishedAt = publishedAt
	err = e.db.QueryRowContext(ctx, `
        INSERT INTO events (id, title, description, tags, color, status, published_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING created_at
    `, id, row.Title, row.Description, tags, row.Color, row.Status, publishedAt).Scan(&out.CreatedAt)
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
	out, err := scanEvent(e.db.QueryRowContext(ctx, `
        UPDATE events
        SET title=$2, description=$3, tags=$4, color=$5, status=$6, published_at=$7, updated_at=now()
        WHERE id=$1
        RETURNING `+eventCols+`
    `, row.ID, row.Title, row.Description, tags, row.Color, row.Status, row.PublishedAt))
	if err != nil {
		return nil, mapNoRows(err)
	}
	return out, nil
}

func (e *events) Delete(ctx context.Context, id string) error {
	res, err := e.db.ExecContext(ctx, `DELETE FROM events WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (e *events) UpdateStatus(ctx context.Context, id string, status model.Status) error {
	res, err := e.db.ExecContext(ctx,
		`UPDATE events SET status=$2, updated_at=now() WHERE id=$1`, id, status)
	if err != nil {
		return err
	}
	return checkAffected(res)
}
