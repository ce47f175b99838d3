package server

import (
	"context"
	"errors"

	"daylist/internal/api"
)

// ErrNotFound reports an unknown task id.
var ErrNotFound = errors.New("task not found")

// Repository is the storage backend behind the REST API. Implementations
// must keep tasks within a date ordered newest first and date groups
// ordered by ascending date.
type Repository interface {
	Create(ctx context.Context, text, date string, completed bool) (api.Task, error)
	ListAll(ctx context.Context) ([]api.DateGroup, error)
	ListByDate(ctx context.Context, date string) ([]api.Task, error)
	Update(ctx context.Context, id string, text *string, completed *bool) (api.Task, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (api.Stats, error)
}
