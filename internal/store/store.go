package store

import (
	"context"

	"github.com/inkwell-hq/inkwell/internal/model"
)

// Collection exposes the persistence operations shared by all three content
// tables. The type parameter keeps one operation set for posts, thoughts and
// events instead of three hand-duplicated interfaces.
type Collection[T any] interface {
	// List returns rows ordered by published_at descending. With visibleOnly
	// set, rows whose status is not "show" are excluded (public listings).
	List(ctx context.Context, visibleOnly bool) ([]*T, error)

	// Get returns the row with the given id, or model.ErrNotFound.
	Get(ctx context.Context, id string) (*T, error)

	// Insert stores a new row, generating its id, and returns the stored row.
	Insert(ctx context.Context, row *T) (*T, error)

	// Update rewrites the row's editable fields. Id and created_at are never
	// touched. Returns model.ErrNotFound when the id does not exist.
	Update(ctx context.Context, row *T) (*T, error)

	// Delete removes the row. Deleting an unknown id returns model.ErrNotFound.
	Delete(ctx context.Context, id string) error

	// UpdateStatus changes only the status field (and updated_at).
	UpdateStatus(ctx context.Context, id string, status model.Status) error
}

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (postgres, sqlite, memstore).
type Store interface {
	Posts() Collection[model.Post]
	Thoughts() Collection[model.Thought]
	Events() Collection[model.Event]

	// Summary calls the backend's get_summary aggregation: per-kind counts and
	// character totals split by visibility, plus the recentLimit most recent
	// visible posts.
	Summary(ctx context.Context, recentLimit int) (*model.Summary, error)
}
