package postgres

import (
	"context"
	"database/sql"
)

// Schema statements are idempotent so EnsureSchema can run at every startup.
// Compose-managed migrations apply the same statements in deployed targets.
var ddl = []string{
	`CREATE TABLE IF NOT EXISTS posts (
        id           uuid PRIMARY KEY,
        title        text NOT NULL,
        content      text NOT NULL,
        author       text NOT NULL,
        tags         jsonb,
        status       text NOT NULL DEFAULT 'hide',
        published_at timestamptz NOT NULL DEFAULT now(),
        created_at   timestamptz NOT NULL DEFAULT now(),
        updated_at   timestamptz
    )`,
	`CREATE TABLE IF NOT EXISTS thoughts (
        id           uuid PRIMARY KEY,
        content      text NOT NULL,
        images       jsonb,
        author       text NOT NULL,
        status       text NOT NULL DEFAULT 'hide',
        published_at timestamptz NOT NULL DEFAULT now(),
        created_at   timestamptz NOT NULL DEFAULT now(),
        updated_at   timestamptz
    )`,
	`CREATE TABLE IF NOT EXISTS events (
        id           uuid PRIMARY KEY,
        title        text NOT NULL,
        description  text NOT NULL,
        tags         jsonb,
        color        text NOT NULL DEFAULT '',
        status       text NOT NULL DEFAULT 'hide',
        published_at timestamptz NOT NULL DEFAULT now(),
        created_at   timestamptz NOT NULL DEFAULT now(),
        updated_at   timestamptz
    )`,
	`CREATE INDEX IF NOT EXISTS posts_published_idx ON posts (published_at DESC)`,
	`CREATE INDEX IF NOT EXISTS thoughts_published_idx ON thoughts (published_at DESC)`,
	`CREATE INDEX IF NOT EXISTS events_published_idx ON events (published_at DESC)`,
	// Aggregate statistics computed server-side. The JSON keys match the
	// model.Summary field tags so the driver can unmarshal the result directly.
	`CREATE OR REPLACE FUNCTION get_summary(recent_limit integer DEFAULT 5)
    RETURNS jsonb LANGUAGE sql STABLE AS $fn$
    SELECT jsonb_build_object(
        'posts', (SELECT jsonb_build_object(
            'visible',      count(*) FILTER (WHERE status = 'show'),
            'hidden',       count(*) FILTER (WHERE status = 'hide'),
            'visibleChars', coalesce(sum(length(content)) FILTER (WHERE status = 'show'), 0),
            'hiddenChars',  coalesce(sum(length(content)) FILTER (WHERE status = 'hide'), 0)
        ) FROM posts),
        'thoughts', (SELECT jsonb_build_object(
            'visible',      count(*) FILTER (WHERE status = 'show'),
            'hidden',       count(*) FILTER (WHERE status = 'hide'),
            'visibleChars', coalesce(sum(length(content)) FILTER (WHERE status = 'show'), 0),
            'hiddenChars',  coalesce(sum(length(content)) FILTER (WHERE status = 'hide'), 0)
        ) FROM thoughts),
        'events', (SELECT jsonb_build_object(
            'visible',      count(*) FILTER (WHERE status = 'show'),
            'hidden',       count(*) FILTER (WHERE status = 'hide'),
            'visibleChars', coalesce(sum(length(description)) FILTER (WHERE status = 'show'), 0),
            'hiddenChars',  coalesce(sum(length(description)) FILTER (WHERE status = 'hide'), 0)
        ) FROM events),
        'recentPosts', coalesce((
            SELECT jsonb_agg(p) FROM (
                SELECT id, title, content, author, tags, status,
                       published_at AS "publishedAt",
                       created_at   AS "createdAt",
                       updated_at   AS "updatedAt"
                FROM posts WHERE status = 'show'
                ORDER BY published_at DESC
                LIMIT recent_limit
            ) p
        ), '[]'::jsonb)
    )
    $fn$`,
}

// EnsureSchema creates tables, indexes and the get_summary function if absent.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range ddl {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
