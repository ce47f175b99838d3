package server

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"daylist/internal/api"
)

// MemoryRepo is an in-memory Repository used by the development server and
// the tests. Data does not survive a restart.
type MemoryRepo struct {
	mu     sync.RWMutex
	byDate map[string][]api.Task // newest first within a date
	dateOf map[string]string     // task id -> date key
}

// NewMemoryRepo builds an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byDate: make(map[string][]api.Task),
		dateOf: make(map[string]string),
	}
}

func (r *MemoryRepo) Create(ctx context.Context, text, date string, completed bool) (api.Task, error) {
	now := time.Now().UTC().Format(time.RFC3339)
	t := api.Task{
		ID:        uuid.Must(uuid.NewV7()).String(),
		Text:      text,
		Completed: completed,
		Date:      date,
		CreatedAt: now,
		UpdatedAt: now,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byDate[date] = append([]api.Task{t}, r.byDate[date]...)
	r.dateOf[t.ID] = date
	return t, nil
}

func (r *MemoryRepo) ListAll(ctx context.Context) ([]api.DateGroup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	dates := make([]string, 0, len(r.byDate))
	for date := range r.byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	groups := make([]api.DateGroup, 0, len(dates))
	for _, date := range dates {
		tasks := make([]api.Task, len(r.byDate[date]))
		copy(tasks, r.byDate[date])
		groups = append(groups, api.DateGroup{Date: date, Tasks: tasks})
	}
	return groups, nil
}

func (r *MemoryRepo) ListByDate(ctx context.Context, date string) ([]api.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tasks := make([]api.Task, len(r.byDate[date]))
	copy(tasks, r.byDate[date])
	return tasks, nil
}

func (r *MemoryRepo) Update(ctx context.Context, id string, text *string, completed *bool) (api.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	date, ok := r.dateOf[id]
	if !ok {
		return api.Task{}, ErrNotFound
	}
	day := r.byDate[date]
	for i := range day {
		if day[i].ID != id {
			continue
		}
		if text != nil {
			day[i].Text = *text
		}
		if completed != nil {
			day[i].Completed = *completed
		}
		day[i].UpdatedAt = time.Now().UTC().Format(time.RFC3339)
		return day[i], nil
	}
	return api.Task{}, ErrNotFound
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	date, ok := r.dateOf[id]
	if !ok {
		return ErrNotFound
	}
	day := r.byDate[date]
	remaining := make([]api.Task, 0, len(day))
	for _, t := range day {
		if t.ID != id {
			remaining = append(remaining, t)
		}
	}
	if len(remaining) == 0 {
		delete(r.byDate, date)
	} else {
		r.byDate[date] = remaining
	}
	delete(r.dateOf, id)
	return nil
}

func (r *MemoryRepo) Stats(ctx context.Context) (api.Stats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var s api.Stats
	for _, day := range r.byDate {
		s.Total += len(day)
		for _, t := range day {
			if t.Completed {
				s.Completed++
			}
		}
	}
	s.Pending = s.Total - s.Completed
	return s, nil
}
