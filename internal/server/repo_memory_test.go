package server

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryRepoCreateAssignsUniqueIDs(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	a, err := repo.Create(ctx, "first", "2026-03-01", false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	b, err := repo.Create(ctx, "second", "2026-03-01", false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.ID == b.ID {
		t.Fatalf("ids collide: %q", a.ID)
	}
	if a.CreatedAt == "" || a.UpdatedAt == "" {
		t.Fatalf("timestamps missing: %+v", a)
	}
}

func TestMemoryRepoNewestFirstWithinDay(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	first, _ := repo.Create(ctx, "first", "2026-03-01", false)
	second, _ := repo.Create(ctx, "second", "2026-03-01", false)

	tasks, err := repo.ListByDate(ctx, "2026-03-01")
	if err != nil {
		t.Fatalf("ListByDate: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("len(tasks) = %d, want 2", len(tasks))
	}
	if tasks[0].ID != second.ID || tasks[1].ID != first.ID {
		t.Fatalf("order = [%q %q], want newest first", tasks[0].ID, tasks[1].ID)
	}
}

func TestMemoryRepoUpdatePartialFields(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	created, _ := repo.Create(ctx, "original", "2026-03-01", false)

	completed := true
	updated, err := repo.Update(ctx, created.ID, nil, &completed)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Text != "original" {
		t.Fatalf("updated.Text = %q, want unchanged", updated.Text)
	}
	if !updated.Completed {
		t.Fatal("updated.Completed = false, want true")
	}

	text := "revised"
	updated, err = repo.Update(ctx, created.ID, &text, nil)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Text != "revised" || !updated.Completed {
		t.Fatalf("updated = %+v, want revised text and completed kept", updated)
	}
}

func TestMemoryRepoDeleteRemovesEmptyDay(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	created, _ := repo.Create(ctx, "only one", "2026-03-01", false)
	if err := repo.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	groups, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(groups) != 0 {
		t.Fatalf("len(groups) = %d, want 0", len(groups))
	}
}

func TestMemoryRepoUnknownID(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	completed := true
	if _, err := repo.Update(ctx, "missing", nil, &completed); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Update err = %v, want ErrNotFound", err)
	}
	if err := repo.Delete(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete err = %v, want ErrNotFound", err)
	}
}

func TestMemoryRepoStats(t *testing.T) {
	repo := NewMemoryRepo()
	ctx := context.Background()

	repo.Create(ctx, "a", "2026-03-01", true)
	repo.Create(ctx, "b", "2026-03-01", false)
	repo.Create(ctx, "c", "2026-03-02", true)

	stats, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Total != 3 || stats.Completed != 2 {
		t.Fatalf("stats = %+v, want total 3 completed 2", stats)
	}
}
