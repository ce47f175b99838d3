package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"daylist/internal/api"
)

// PostgresRepo is a PostgreSQL-backed Repository.
type PostgresRepo struct {
	pool *pgxpool.Pool
}

// NewPostgresRepo creates a PostgresRepo over an existing pool.
func NewPostgresRepo(pool *pgxpool.Pool) *PostgresRepo {
	return &PostgresRepo{pool: pool}
}

// EnsureSchema creates the tasks table if it doesn't exist.
func (r *PostgresRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS tasks (
			id         TEXT PRIMARY KEY,
			text       TEXT NOT NULL,
			completed  BOOLEAN NOT NULL DEFAULT FALSE,
			date       TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `CREATE INDEX IF NOT EXISTS idx_tasks_date ON tasks(date)`)
	return err
}

func (r *PostgresRepo) Create(ctx context.Context, text, date string, completed bool) (api.Task, error) {
	id := uuid.Must(uuid.NewV7()).String()
	now := time.Now().UTC().Truncate(time.Second)

	_, err := r.pool.Exec(ctx, `
		INSERT INTO tasks (id, text, completed, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)`,
		id, text, completed, date, now)
	if err != nil {
		return api.Task{}, fmt.Errorf("create task: %w", err)
	}
	return api.Task{
		ID:        id,
		Text:      text,
		Completed: completed,
		Date:      date,
		CreatedAt: now.Format(time.RFC3339),
		UpdatedAt: now.Format(time.RFC3339),
	}, nil
}

func (r *PostgresRepo) ListAll(ctx context.Context) ([]api.DateGroup, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, text, completed, date, created_at, updated_at
		FROM tasks ORDER BY date ASC, created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var groups []api.DateGroup
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		if n := len(groups); n > 0 && groups[n-1].Date == t.Date {
			groups[n-1].Tasks = append(groups[n-1].Tasks, t)
			continue
		}
		groups = append(groups, api.DateGroup{Date: t.Date, Tasks: []api.Task{t}})
	}
	return groups, rows.Err()
}

func (r *PostgresRepo) ListByDate(ctx context.Context, date string) ([]api.Task, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, text, completed, date, created_at, updated_at
		FROM tasks WHERE date = $1 ORDER BY created_at DESC`, date)
	if err != nil {
		return nil, fmt.Errorf("list tasks for %s: %w", date, err)
	}
	defer rows.Close()

	tasks := []api.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *PostgresRepo) Update(ctx context.Context, id string, text *string, completed *bool) (api.Task, error) {
	now := time.Now().UTC().Truncate(time.Second)

	setClauses := "updated_at = $1"
	args := []any{now}
	argIdx := 2
	if text != nil {
		setClauses += fmt.Sprintf(", text = $%d", argIdx)
		args = append(args, *text)
		argIdx++
	}
	if completed != nil {
		setClauses += fmt.Sprintf(", completed = $%d", argIdx)
		args = append(args, *completed)
		argIdx++
	}
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE tasks SET %s WHERE id = $%d
		RETURNING id, text, completed, date, created_at, updated_at`, setClauses, argIdx)

	t, err := scanTask(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return api.Task{}, ErrNotFound
		}
		return api.Task{}, fmt.Errorf("update task %s: %w", id, err)
	}
	return t, nil
}

func (r *PostgresRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) Stats(ctx context.Context) (api.Stats, error) {
	var s api.Stats
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE completed)
		FROM tasks`).Scan(&s.Total, &s.Completed)
	if err != nil {
		return api.Stats{}, fmt.Errorf("stats: %w", err)
	}
	s.Pending = s.Total - s.Completed
	return s, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (api.Task, error) {
	var t api.Task
	var createdAt, updatedAt time.Time
	if err := row.Scan(&t.ID, &t.Text, &t.Completed, &t.Date, &createdAt, &updatedAt); err != nil {
		return api.Task{}, err
	}
	t.CreatedAt = createdAt.UTC().Format(time.RFC3339)
	t.UpdatedAt = updatedAt.UTC().Format(time.RFC3339)
	return t, nil
}
