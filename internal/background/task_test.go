package background_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"jobreach-utils/internal/background"
)

func newResult(processID string, createdAt time.Time) *background.TaskResult {
	return &background.TaskResult{
		ProcessID: processID,
		Type:      background.TaskTypeFindEmail,
		Status:    background.TaskStatusAccepted,
		CreatedAt: createdAt,
	}
}

func TestInMemoryTaskStore_StoreAndGet(t *testing.T) {
	store := background.NewInMemoryTaskStore()
	ctx := context.Background()

	if err := store.Store(ctx, newResult("p1", time.Now())); err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	got, err := store.Get(ctx, "p1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.ProcessID != "p1" || got.Status != background.TaskStatusAccepted {
		t.Errorf("Get() = %+v, want accepted task p1", got)
	}
}

func TestInMemoryTaskStore_GetMissing(t *testing.T) {
	store := background.NewInMemoryTaskStore()
	if _, err := store.Get(context.Background(), "nope"); !errors.Is(err, background.ErrTaskNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrTaskNotFound", err)
	}
}

func TestInMemoryTaskStore_Update(t *testing.T) {
	store := background.NewInMemoryTaskStore()
	ctx := context.Background()

	result := newResult("p1", time.Now())
	store.Store(ctx, result)

	result.Status = background.TaskStatusSuccess
	if err := store.Update(ctx, result); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, _ := store.Get(ctx, "p1")
	if got.Status != background.TaskStatusSuccess {
		t.Errorf("status after update = %s, want SUCCESS", got.Status)
	}

	if err := store.Update(ctx, newResult("ghost", time.Now())); !errors.Is(err, background.ErrTaskNotFound) {
		t.Errorf("Update(missing) error = %v, want ErrTaskNotFound", err)
	}
}

func TestInMemoryTaskStore_Delete(t *testing.T) {
	store := background.NewInMemoryTaskStore()
	ctx := context.Background()

	store.Store(ctx, newResult("p1", time.Now()))
	if err := store.Delete(ctx, "p1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := store.Get(ctx, "p1"); !errors.Is(err, background.ErrTaskNotFound) {
		t.Errorf("Get(deleted) error = %v, want ErrTaskNotFound", err)
	}
	if err := store.Delete(ctx, "p1"); !errors.Is(err, background.ErrTaskNotFound) {
		t.Errorf("Delete(missing) error = %v, want ErrTaskNotFound", err)
	}
}

func TestInMemoryTaskStore_CleanupExpiresOldTasks(t *testing.T) {
	store := background.NewInMemoryTaskStore()
	ctx := context.Background()

	store.Store(ctx, newResult("old", time.Now().Add(-48*time.Hour)))
	store.Store(ctx, newResult("fresh", time.Now()))

	if err := store.Cleanup(ctx, 24*time.Hour); err != nil {
		t.Fatalf("Cleanup() error = %v", err)
	}

	if _, err := store.Get(ctx, "old"); !errors.Is(err, background.ErrTaskNotFound) {
		t.Errorf("old task should be expired, got error %v", err)
	}
	if _, err := store.Get(ctx, "fresh"); err != nil {
		t.Errorf("fresh task should survive cleanup, got error %v", err)
	}
}

func TestInMemoryTaskStore_List(t *testing.T) {
	store := background.NewInMemoryTaskStore()
	ctx := context.Background()

	store.Store(ctx, newResult("p1", time.Now()))
	store.Store(ctx, newResult("p2", time.Now()))

	results, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(results) != 2 {
		t.Errorf("List() returned %d tasks, want 2", len(results))
	}
}
