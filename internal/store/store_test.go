package store

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"daylist/internal/api"
	"daylist/internal/snapshot"
	"daylist/internal/task"
)

// fakeAPI implements api.TaskAPI with overridable behavior per operation.
type fakeAPI struct {
	createFn func(ctx context.Context, req api.CreateTaskRequest) (api.Task, error)
	listFn   func(ctx context.Context) ([]api.DateGroup, error)
	updateFn func(ctx context.Context, id string, req api.UpdateTaskRequest) (api.Task, error)
	deleteFn func(ctx context.Context, id string) error
}

func (f *fakeAPI) CreateTask(ctx context.Context, req api.CreateTaskRequest) (api.Task, error) {
	if f.createFn == nil {
		return api.Task{}, errors.New("unexpected CreateTask")
	}
	return f.createFn(ctx, req)
}

func (f *fakeAPI) ListAllTasks(ctx context.Context) ([]api.DateGroup, error) {
	if f.listFn == nil {
		return nil, nil
	}
	return f.listFn(ctx)
}

func (f *fakeAPI) ListTasksByDate(ctx context.Context, date string) ([]api.Task, error) {
	return nil, errors.New("unexpected ListTasksByDate")
}

func (f *fakeAPI) UpdateTask(ctx context.Context, id string, req api.UpdateTaskRequest) (api.Task, error) {
	if f.updateFn == nil {
		return api.Task{}, errors.New("unexpected UpdateTask")
	}
	return f.updateFn(ctx, id, req)
}

func (f *fakeAPI) ToggleTask(ctx context.Context, id string, completed bool) (api.Task, error) {
	return f.UpdateTask(ctx, id, api.UpdateTaskRequest{Completed: &completed})
}

func (f *fakeAPI) DeleteTask(ctx context.Context, id string) error {
	if f.deleteFn == nil {
		return errors.New("unexpected DeleteTask")
	}
	return f.deleteFn(ctx, id)
}

func (f *fakeAPI) FetchStats(ctx context.Context) (api.Stats, error) {
	return api.Stats{}, errors.New("unexpected FetchStats")
}

// recordingFallback captures every mirrored snapshot.
type recordingFallback struct {
	mu     sync.Mutex
	saved  []task.Collection
	loaded task.Collection
}

func (r *recordingFallback) Save(c task.Collection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saved = append(r.saved, c.Clone())
	return nil
}

func (r *recordingFallback) Load() task.Collection {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loaded == nil {
		return task.Collection{}
	}
	return r.loaded.Clone()
}

var today = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.Local)

// serverAPI is a minimal in-memory server-side fake for full scenarios.
func serverAPI() *fakeAPI {
	var mu sync.Mutex
	tasks := map[string]api.Task{}
	n := 0

	f := &fakeAPI{}
	f.createFn = func(ctx context.Context, req api.CreateTaskRequest) (api.Task, error) {
		mu.Lock()
		defer mu.Unlock()
		n++
		t := api.Task{
			ID:        "srv-" + string(rune('a'+n-1)),
			Text:      req.Text,
			Completed: req.Completed,
			Date:      req.Date,
			CreatedAt: "2025-06-01T10:00:00Z",
		}
		tasks[t.ID] = t
		return t, nil
	}
	f.updateFn = func(ctx context.Context, id string, req api.UpdateTaskRequest) (api.Task, error) {
		mu.Lock()
		defer mu.Unlock()
		t, ok := tasks[id]
		if !ok {
			return api.Task{}, &api.Error{Status: 404, Message: "task not found"}
		}
		if req.Completed != nil {
			t.Completed = *req.Completed
		}
		if req.Text != nil {
			t.Text = *req.Text
		}
		tasks[id] = t
		return t, nil
	}
	f.deleteFn = func(ctx context.Context, id string) error {
		mu.Lock()
		defer mu.Unlock()
		if _, ok := tasks[id]; !ok {
			return &api.Error{Status: 404, Message: "task not found"}
		}
		delete(tasks, id)
		return nil
	}
	return f
}

func TestStore_FreshScenario(t *testing.T) {
	s := New(serverAPI(), nil)
	ctx := context.Background()

	if err := s.LoadAll(ctx); err != nil {
		t.Fatalf("LoadAll returned error: %v", err)
	}
	if got := s.TasksFor(today); len(got) != 0 {
		t.Fatalf("TasksFor on fresh store = %#v, want empty", got)
	}
	if got := s.TasksFor(today); got == nil {
		t.Fatal("TasksFor returned nil, want empty slice")
	}

	if err := s.Add(ctx, today, "buy milk"); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	day := s.TasksFor(today)
	if len(day) != 1 || day[0].Text != "buy milk" || day[0].Completed {
		t.Fatalf("TasksFor after add = %#v, want one incomplete buy milk task", day)
	}
	id := day[0].ID

	if err := s.Toggle(ctx, today, id); err != nil {
		t.Fatalf("Toggle returned error: %v", err)
	}
	day = s.TasksFor(today)
	if !day[0].Completed {
		t.Fatalf("task after toggle = %#v, want completed", day[0])
	}

	if err := s.Delete(ctx, today, id); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if got := s.TasksFor(today); len(got) != 0 {
		t.Fatalf("TasksFor after delete = %#v, want empty", got)
	}
	if s.HasTasksFor(today) {
		t.Fatal("HasTasksFor = true after deleting the only task")
	}
	if _, ok := s.Tasks()[task.Key(today)]; ok {
		t.Fatal("date key still present after last task removed")
	}
	if got := s.Err(); got != "" {
		t.Fatalf("Err = %q, want empty after successful ops", got)
	}
	if s.Loading() {
		t.Fatal("Loading = true after all operations resolved")
	}
}

func TestStore_AddPrependsNewestFirst(t *testing.T) {
	s := New(serverAPI(), nil)
	ctx := context.Background()

	for _, text := range []string{"first", "second", "third"} {
		if err := s.Add(ctx, today, text); err != nil {
			t.Fatalf("Add(%q) returned error: %v", text, err)
		}
	}

	day := s.TasksFor(today)
	if len(day) != 3 {
		t.Fatalf("TasksFor = %d tasks, want 3", len(day))
	}
	if day[0].Text != "third" || day[2].Text != "first" {
		t.Fatalf("order = [%s %s %s], want newest first", day[0].Text, day[1].Text, day[2].Text)
	}
}

func TestStore_DoubleToggleRestores(t *testing.T) {
	s := New(serverAPI(), nil)
	ctx := context.Background()

	if err := s.Add(ctx, today, "water plants"); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	id := s.TasksFor(today)[0].ID
	orig := s.TasksFor(today)[0].Completed

	if err := s.Toggle(ctx, today, id); err != nil {
		t.Fatalf("first Toggle returned error: %v", err)
	}
	if err := s.Toggle(ctx, today, id); err != nil {
		t.Fatalf("second Toggle returned error: %v", err)
	}
	if got := s.TasksFor(today)[0].Completed; got != orig {
		t.Fatalf("completed after double toggle = %v, want %v", got, orig)
	}
}

func TestStore_ToggleFlipsOnlyTheBoolean(t *testing.T) {
	f := serverAPI()
	// The server answers updates with rewritten text; the store must keep
	// the local text and only flip the flag.
	inner := f.updateFn
	f.updateFn = func(ctx context.Context, id string, req api.UpdateTaskRequest) (api.Task, error) {
		resp, err := inner(ctx, id, req)
		resp.Text = "SERVER REWRITE"
		return resp, err
	}

	s := New(f, nil)
	ctx := context.Background()
	if err := s.Add(ctx, today, "original text"); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	id := s.TasksFor(today)[0].ID

	if err := s.Toggle(ctx, today, id); err != nil {
		t.Fatalf("Toggle returned error: %v", err)
	}
	got := s.TasksFor(today)[0]
	if got.Text != "original text" {
		t.Fatalf("text after toggle = %q, want local text preserved", got.Text)
	}
	if !got.Completed {
		t.Fatal("completed = false after toggle, want true")
	}
}

func TestStore_StatsInvariant(t *testing.T) {
	s := New(serverAPI(), nil)
	ctx := context.Background()
	other := today.AddDate(0, 0, 1)

	check := func(step string) {
		t.Helper()
		stats := s.Stats()
		if stats.Total != stats.Completed+stats.Pending {
			t.Fatalf("%s: stats = %+v, total != completed+pending", step, stats)
		}
		sum := 0
		for _, day := range s.Tasks() {
			sum += len(day)
		}
		if stats.Total != sum {
			t.Fatalf("%s: total = %d, want sum of day lengths %d", step, stats.Total, sum)
		}
	}

	check("empty")
	_ = s.Add(ctx, today, "a")
	_ = s.Add(ctx, today, "b")
	_ = s.Add(ctx, other, "c")
	check("after adds")

	id := s.TasksFor(today)[0].ID
	_ = s.Toggle(ctx, today, id)
	check("after toggle")
	if got := s.Stats(); got.Completed != 1 || got.Pending != 2 {
		t.Fatalf("stats = %+v, want completed=1 pending=2", got)
	}

	_ = s.Delete(ctx, today, id)
	check("after delete")
	if got := s.Stats(); got.Total != 2 || got.Completed != 0 {
		t.Fatalf("stats = %+v, want total=2 completed=0", got)
	}
}

func TestStore_FailedCreateLeavesStateUnchanged(t *testing.T) {
	f := &fakeAPI{
		createFn: func(ctx context.Context, req api.CreateTaskRequest) (api.Task, error) {
			return api.Task{}, &api.Error{Status: 0, Message: "network error: connection refused"}
		},
	}
	s := New(f, nil)

	err := s.Add(context.Background(), today, "doomed")
	if err == nil {
		t.Fatal("Add returned nil error, want transport failure")
	}
	if got := s.TasksFor(today); len(got) != 0 {
		t.Fatalf("collection changed on failed create: %#v", got)
	}
	if s.Err() == "" {
		t.Fatal("Err = empty, want a failure message")
	}
	if s.Loading() {
		t.Fatal("Loading = true after failed create, want false")
	}
}

func TestStore_LoadFailureFallsBackToSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	snap := snapshot.New(path)
	backup := task.Collection{"2025-06-01": {{ID: "cached", Text: "from backup"}}}
	if err := snap.Save(backup); err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}

	f := &fakeAPI{
		listFn: func(ctx context.Context) ([]api.DateGroup, error) {
			return nil, &api.Error{Status: 0, Message: "network error: no route to host"}
		},
	}
	s := New(f, snap)

	if err := s.LoadAll(context.Background()); err == nil {
		t.Fatal("LoadAll returned nil error, want failure")
	}
	day := s.TasksFor(today)
	if len(day) != 1 || day[0].ID != "cached" {
		t.Fatalf("TasksFor after fallback = %#v, want snapshot contents", day)
	}
	if s.Err() == "" {
		t.Fatal("Err = empty after load failure")
	}
	if s.Loading() {
		t.Fatal("Loading = true after load failure resolved")
	}
}

func TestStore_LoadFailureWithoutSnapshotYieldsEmpty(t *testing.T) {
	f := &fakeAPI{
		listFn: func(ctx context.Context) ([]api.DateGroup, error) {
			return nil, &api.Error{Status: 500, Message: "boom"}
		},
	}
	s := New(f, snapshot.New(filepath.Join(t.TempDir(), "absent.json")))

	_ = s.LoadAll(context.Background())
	if got := s.Tasks(); len(got) != 0 {
		t.Fatalf("Tasks = %#v, want empty collection", got)
	}
}

func TestStore_LoadDropsEmptyDateGroups(t *testing.T) {
	f := &fakeAPI{
		listFn: func(ctx context.Context) ([]api.DateGroup, error) {
			return []api.DateGroup{
				{Date: "2025-06-01", Tasks: []api.Task{{ID: "a", Text: "x"}}},
				{Date: "2025-06-02", Tasks: nil},
			}, nil
		},
	}
	s := New(f, nil)

	if err := s.LoadAll(context.Background()); err != nil {
		t.Fatalf("LoadAll returned error: %v", err)
	}
	got := s.Tasks()
	if _, ok := got["2025-06-02"]; ok {
		t.Fatal("empty date group produced a map key")
	}
	if len(got["2025-06-01"]) != 1 {
		t.Fatalf("collection = %#v, want one task on 2025-06-01", got)
	}
}

func TestStore_ToggleMissingTaskFailsLocally(t *testing.T) {
	called := false
	f := &fakeAPI{
		updateFn: func(ctx context.Context, id string, req api.UpdateTaskRequest) (api.Task, error) {
			called = true
			return api.Task{}, nil
		},
	}
	s := New(f, nil)

	err := s.Toggle(context.Background(), today, "ghost")
	if !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("Toggle error = %v, want ErrTaskNotFound", err)
	}
	if called {
		t.Fatal("server was contacted for a locally missing task")
	}
	if s.Err() != ErrTaskNotFound.Error() {
		t.Fatalf("Err = %q, want %q", s.Err(), ErrTaskNotFound.Error())
	}
}

func TestStore_FailedToggleKeepsState(t *testing.T) {
	f := serverAPI()
	s := New(f, nil)
	ctx := context.Background()
	if err := s.Add(ctx, today, "fragile"); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	id := s.TasksFor(today)[0].ID

	f.updateFn = func(ctx context.Context, id string, req api.UpdateTaskRequest) (api.Task, error) {
		return api.Task{}, &api.Error{Status: 503, Message: "unavailable"}
	}

	if err := s.Toggle(ctx, today, id); err == nil {
		t.Fatal("Toggle returned nil error, want failure")
	}
	if got := s.TasksFor(today)[0].Completed; got {
		t.Fatal("completed flipped despite server failure")
	}
	if s.Err() == "" {
		t.Fatal("Err = empty after failed toggle")
	}
}

func TestStore_SecondOpOnSameTaskRejected(t *testing.T) {
	f := serverAPI()
	s := New(f, nil)
	ctx := context.Background()
	if err := s.Add(ctx, today, "slow"); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	id := s.TasksFor(today)[0].ID

	entered := make(chan struct{})
	release := make(chan struct{})
	inner := f.updateFn
	f.updateFn = func(ctx context.Context, id string, req api.UpdateTaskRequest) (api.Task, error) {
		close(entered)
		<-release
		return inner(ctx, id, req)
	}

	done := make(chan error, 1)
	go func() { done <- s.Toggle(ctx, today, id) }()
	<-entered

	if err := s.Toggle(ctx, today, id); !errors.Is(err, ErrOpInFlight) {
		t.Fatalf("concurrent Toggle error = %v, want ErrOpInFlight", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first Toggle returned error: %v", err)
	}
	if got := s.TasksFor(today)[0].Completed; !got {
		t.Fatal("first toggle did not land")
	}
}

func TestStore_MirrorsToFallbackAfterEveryMutation(t *testing.T) {
	rec := &recordingFallback{}
	s := New(serverAPI(), rec)
	ctx := context.Background()

	if err := s.LoadAll(ctx); err != nil {
		t.Fatalf("LoadAll returned error: %v", err)
	}
	if err := s.Add(ctx, today, "persist me"); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	id := s.TasksFor(today)[0].ID
	if err := s.Toggle(ctx, today, id); err != nil {
		t.Fatalf("Toggle returned error: %v", err)
	}
	if err := s.Delete(ctx, today, id); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.saved) != 4 {
		t.Fatalf("fallback saved %d times, want 4 (load + 3 mutations)", len(rec.saved))
	}
	afterAdd := rec.saved[1]
	if len(afterAdd[task.Key(today)]) != 1 || afterAdd[task.Key(today)][0].Text != "persist me" {
		t.Fatalf("snapshot after add = %#v, want the new task mirrored", afterAdd)
	}
	if len(rec.saved[3]) != 0 {
		t.Fatalf("snapshot after delete = %#v, want empty", rec.saved[3])
	}
}

func TestStore_SubscribeAndCancel(t *testing.T) {
	s := New(serverAPI(), nil)
	ctx := context.Background()

	var mu sync.Mutex
	count := 0
	cancel := s.Subscribe(func() {
		mu.Lock()
		count++
		mu.Unlock()
	})

	if err := s.Add(ctx, today, "observe me"); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	mu.Lock()
	after := count
	mu.Unlock()
	if after == 0 {
		t.Fatal("subscriber never notified by Add")
	}

	cancel()
	id := s.TasksFor(today)[0].ID
	if err := s.Toggle(ctx, today, id); err != nil {
		t.Fatalf("Toggle returned error: %v", err)
	}
	mu.Lock()
	final := count
	mu.Unlock()
	if final != after {
		t.Fatalf("subscriber notified after cancel: %d -> %d", after, final)
	}
}

func TestStore_TasksForReturnsIndependentCopy(t *testing.T) {
	s := New(serverAPI(), nil)
	ctx := context.Background()
	if err := s.Add(ctx, today, "immutable"); err != nil {
		t.Fatalf("Add returned error: %v", err)
	}

	got := s.TasksFor(today)
	got[0].Text = "mutated"
	if s.TasksFor(today)[0].Text != "immutable" {
		t.Fatal("TasksFor shares backing array with store state")
	}
}
