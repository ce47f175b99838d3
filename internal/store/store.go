package store

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"daylist/internal/api"
	"daylist/internal/task"
)

var (
	// ErrTaskNotFound reports a task id absent from the in-memory collection
	// for the given date. This is a client-side precondition failure; the
	// server is never contacted.
	ErrTaskNotFound = errors.New("task not found")

	// ErrOpInFlight rejects a second mutation on a task whose previous
	// request has not resolved yet. There is no queuing.
	ErrOpInFlight = errors.New("task operation already in progress")
)

// Fallback is the local persistence backup the store mirrors into after
// every successful mutation. Implemented by *snapshot.Store.
type Fallback interface {
	Save(task.Collection) error
	Load() task.Collection
}

// Store owns the authoritative in-memory task collection, keyed by date.
// All mutations are server-confirmed before any local state change: the
// collection never shows a task the server has not acknowledged. State is
// replaced wholesale on every mutation, so a previously returned slice is
// never mutated underneath its holder.
type Store struct {
	mu       sync.RWMutex
	client   api.TaskAPI
	fallback Fallback

	tasks   task.Collection
	loading bool
	err     string

	inflight map[string]struct{}

	subMu   sync.Mutex
	subs    map[int]func()
	nextSub int
}

// New builds a Store. The fallback may be nil, which disables the local
// backup. The store performs no I/O until LoadAll is called.
func New(client api.TaskAPI, fallback Fallback) *Store {
	return &Store{
		client:   client,
		fallback: fallback,
		tasks:    task.Collection{},
		inflight: make(map[string]struct{}),
		subs:     make(map[int]func()),
	}
}

// Subscribe registers fn to run after every state change. The returned
// function cancels the subscription.
func (s *Store) Subscribe(fn func()) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs, id)
	}
}

// LoadAll replaces the entire collection with the server's grouping. On
// failure it records the error and falls back to the last persisted
// snapshot, or an empty collection if none exists.
func (s *Store) LoadAll(ctx context.Context) error {
	s.setStatus(true, "")
	s.notify()

	groups, err := s.client.ListAllTasks(ctx)
	if err != nil {
		restored := task.Collection{}
		if s.fallback != nil {
			restored = s.fallback.Load()
		}
		s.mu.Lock()
		s.err = err.Error()
		s.loading = false
		s.tasks = restored
		s.mu.Unlock()
		s.notify()
		return err
	}

	next := make(task.Collection, len(groups))
	for _, g := range groups {
		if len(g.Tasks) == 0 {
			continue
		}
		day := make([]task.Task, 0, len(g.Tasks))
		for _, t := range g.Tasks {
			day = append(day, t.Local())
		}
		next[g.Date] = day
	}

	s.mu.Lock()
	s.tasks = next
	s.loading = false
	s.mu.Unlock()
	s.persist()
	s.notify()
	return nil
}

// Refresh re-runs the full load on demand.
func (s *Store) Refresh(ctx context.Context) error {
	return s.LoadAll(ctx)
}

// Add creates a task for the given date and prepends the server's task to
// that day. Nothing is inserted locally until the server confirms.
func (s *Store) Add(ctx context.Context, date time.Time, text string) error {
	key := task.Key(date)
	s.setStatus(true, "")
	s.notify()

	created, err := s.client.CreateTask(ctx, api.CreateTaskRequest{Text: text, Date: key})
	if err != nil {
		s.setStatus(false, err.Error())
		s.notify()
		return err
	}

	s.mu.Lock()
	next := s.tasks.Clone()
	next[key] = append([]task.Task{created.Local()}, next[key]...)
	s.tasks = next
	s.loading = false
	s.mu.Unlock()
	s.persist()
	s.notify()
	return nil
}

// Toggle flips a task's completed flag, server first. On success only the
// boolean is changed locally; every other field keeps its current value.
func (s *Store) Toggle(ctx context.Context, date time.Time, id string) error {
	key := task.Key(date)

	current, err := s.beginTaskOp(key, id)
	if err != nil {
		return err
	}
	defer s.endTaskOp(id)

	if _, err := s.client.ToggleTask(ctx, id, !current.Completed); err != nil {
		s.setErr(err.Error())
		s.notify()
		return err
	}

	s.mu.Lock()
	next := s.tasks.Clone()
	day := next[key]
	for i := range day {
		if day[i].ID == id {
			day[i].Completed = !current.Completed
		}
	}
	s.tasks = next
	s.mu.Unlock()
	s.persist()
	s.notify()
	return nil
}

// Delete removes a task, server first. When the last task of a day goes
// away the date key is removed with it.
func (s *Store) Delete(ctx context.Context, date time.Time, id string) error {
	key := task.Key(date)

	if _, err := s.beginTaskOp(key, id); err != nil {
		return err
	}
	defer s.endTaskOp(id)

	if err := s.client.DeleteTask(ctx, id); err != nil {
		s.setErr(err.Error())
		s.notify()
		return err
	}

	s.mu.Lock()
	next := s.tasks.Clone()
	day := next[key]
	remaining := make([]task.Task, 0, len(day))
	for _, t := range day {
		if t.ID != id {
			remaining = append(remaining, t)
		}
	}
	if len(remaining) == 0 {
		delete(next, key)
	} else {
		next[key] = remaining
	}
	s.tasks = next
	s.mu.Unlock()
	s.persist()
	s.notify()
	return nil
}

// TasksFor returns the tasks for a date, newest first. The result is a
// copy and never nil.
func (s *Store) TasksFor(date time.Time) []task.Task {
	key := task.Key(date)
	s.mu.RLock()
	defer s.mu.RUnlock()
	day := s.tasks[key]
	out := make([]task.Task, len(day))
	copy(out, day)
	return out
}

// HasTasksFor reports whether any tasks exist for the date.
func (s *Store) HasTasksFor(date time.Time) bool {
	key := task.Key(date)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks[key]) > 0
}

// Tasks returns a copy of the full date-keyed collection.
func (s *Store) Tasks() task.Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tasks.Clone()
}

// Stats derives aggregate counts from the current collection.
func (s *Store) Stats() task.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tasks.Stats()
}

// Loading reports whether a blocking request is outstanding.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the message of the most recent failed operation, or "" when
// the last operation succeeded. It is cleared at the start of every attempt.
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// beginTaskOp clears the error status, locates the task, and claims the
// per-id in-flight slot. Failures are recorded in the error status.
func (s *Store) beginTaskOp(key, id string) (task.Task, error) {
	s.mu.Lock()
	s.err = ""
	var found task.Task
	ok := false
	for _, t := range s.tasks[key] {
		if t.ID == id {
			found = t
			ok = true
			break
		}
	}
	if !ok {
		s.err = ErrTaskNotFound.Error()
		s.mu.Unlock()
		s.notify()
		return task.Task{}, ErrTaskNotFound
	}
	if _, busy := s.inflight[id]; busy {
		s.err = ErrOpInFlight.Error()
		s.mu.Unlock()
		s.notify()
		return task.Task{}, ErrOpInFlight
	}
	s.inflight[id] = struct{}{}
	s.mu.Unlock()
	s.notify()
	return found, nil
}

func (s *Store) endTaskOp(id string) {
	s.mu.Lock()
	delete(s.inflight, id)
	s.mu.Unlock()
}

func (s *Store) setStatus(loading bool, errMsg string) {
	s.mu.Lock()
	s.loading = loading
	s.err = errMsg
	s.mu.Unlock()
}

func (s *Store) setErr(msg string) {
	s.mu.Lock()
	s.err = msg
	s.mu.Unlock()
}

// persist mirrors the collection into the fallback. Best-effort: a failed
// write is logged and swallowed, it must never fail a user-facing operation.
func (s *Store) persist() {
	if s.fallback == nil {
		return
	}
	s.mu.RLock()
	c := s.tasks.Clone()
	s.mu.RUnlock()
	if err := s.fallback.Save(c); err != nil {
		log.Printf("task snapshot save failed: %v", err)
	}
}

func (s *Store) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
