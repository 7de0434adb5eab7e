package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"taskboard-go/app/models"
	"taskboard-go/app/repository"
)

func newTestService(t *testing.T) (*TaskService, *repository.MemoryRepository) {
	t.Helper()
	repo := repository.NewMemoryRepository()
	svc := NewTaskService(repo)
	svc.SetClock(func() time.Time { return wednesday })
	return svc, repo
}

func mustCreate(t *testing.T, svc *TaskService, title, dueDate string, parentID *int64) *models.Task {
	t.Helper()
	task, err := svc.Create(context.Background(), repository.CreateTask{
		Title:       title,
		DueDate:     dueDate,
		Description: "notes",
		ParentID:    parentID,
	})
	if err != nil {
		t.Fatalf("failed to create task %q: %v", title, err)
	}
	return task
}

func TestCreate(t *testing.T) {
	t.Run("new tasks start pending and top-level", func(t *testing.T) {
		svc, _ := newTestService(t)

		task := mustCreate(t, svc, "Plan trip", "2024-06-01", nil)
		if task.ID == 0 {
			t.Error("expected an assigned id")
		}
		if task.RecordStatus != models.StatusPending {
			t.Errorf("expected status P, got %q", task.RecordStatus)
		}
		if task.ParentID != nil {
			t.Errorf("expected no parent, got %v", *task.ParentID)
		}
		if task.CreatedAt.IsZero() || task.UpdatedAt.IsZero() {
			t.Error("expected timestamps to be set")
		}
	})

	t.Run("child task links to its parent", func(t *testing.T) {
		svc, _ := newTestService(t)

		parent := mustCreate(t, svc, "Plan trip", "2024-06-01", nil)
		child := mustCreate(t, svc, "Book flight", "2024-06-01", &parent.ID)

		if child.ParentID == nil || *child.ParentID != parent.ID {
			t.Errorf("expected parent %d, got %v", parent.ID, child.ParentID)
		}
	})

	t.Run("linking to a missing parent fails", func(t *testing.T) {
		svc, _ := newTestService(t)

		missing := int64(99)
		_, err := svc.Create(context.Background(), repository.CreateTask{
			Title:       "orphan",
			DueDate:     "2024-06-01",
			Description: "x",
			ParentID:    &missing,
		})
		if err == nil {
			t.Fatal("expected an error for a missing parent")
		}
	})
}

func TestDelete(t *testing.T) {
	t.Run("soft-deletes the whole subtree", func(t *testing.T) {
		svc, repo := newTestService(t)

		parent := mustCreate(t, svc, "Plan trip", "2024-06-01", nil)
		child := mustCreate(t, svc, "Book flight", "2024-06-01", &parent.ID)
		grandchild := mustCreate(t, svc, "Pick seats", "2024-06-01", &child.ID)

		if err := svc.Delete(context.Background(), parent.ID); err != nil {
			t.Fatalf("delete failed: %v", err)
		}

		for _, id := range []int64{parent.ID, child.ID, grandchild.ID} {
			stored, ok := repo.Get(id)
			if !ok {
				t.Fatalf("task %d disappeared from the store", id)
			}
			if stored.DeletedAt == nil {
				t.Errorf("expected task %d to be soft-deleted", id)
			}
		}
	})

	t.Run("deleted tasks are no longer addressable", func(t *testing.T) {
		svc, _ := newTestService(t)

		task := mustCreate(t, svc, "Plan trip", "2024-06-01", nil)
		if err := svc.Delete(context.Background(), task.ID); err != nil {
			t.Fatalf("delete failed: %v", err)
		}

		if err := svc.Delete(context.Background(), task.ID); !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("expected ErrNotFound on second delete, got %v", err)
		}
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		svc, _ := newTestService(t)

		if err := svc.Delete(context.Background(), 404); !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestUpdateStatus(t *testing.T) {
	t.Run("completing a parent completes its direct children", func(t *testing.T) {
		svc, repo := newTestService(t)

		parent := mustCreate(t, svc, "Plan trip", "2024-06-01", nil)
		child := mustCreate(t, svc, "Book flight", "2024-06-01", &parent.ID)

		if err := svc.UpdateStatus(context.Background(), parent.ID, models.StatusCompleted); err != nil {
			t.Fatalf("update status failed: %v", err)
		}

		for _, id := range []int64{parent.ID, child.ID} {
			stored, _ := repo.Get(id)
			if stored.RecordStatus != models.StatusCompleted {
				t.Errorf("expected task %d to be completed, got %q", id, stored.RecordStatus)
			}
		}
	})

	t.Run("propagation is one level only", func(t *testing.T) {
		svc, repo := newTestService(t)

		parent := mustCreate(t, svc, "Plan trip", "2024-06-01", nil)
		child := mustCreate(t, svc, "Book flight", "2024-06-01", &parent.ID)
		grandchild := mustCreate(t, svc, "Pick seats", "2024-06-01", &child.ID)

		if err := svc.UpdateStatus(context.Background(), parent.ID, models.StatusCompleted); err != nil {
			t.Fatalf("update status failed: %v", err)
		}

		stored, _ := repo.Get(grandchild.ID)
		if stored.RecordStatus != models.StatusPending {
			t.Errorf("expected grandchild to stay pending, got %q", stored.RecordStatus)
		}
	})

	t.Run("reopening a parent leaves children alone", func(t *testing.T) {
		svc, repo := newTestService(t)

		parent := mustCreate(t, svc, "Plan trip", "2024-06-01", nil)
		child := mustCreate(t, svc, "Book flight", "2024-06-01", &parent.ID)

		if err := svc.UpdateStatus(context.Background(), parent.ID, models.StatusCompleted); err != nil {
			t.Fatalf("complete failed: %v", err)
		}
		if err := svc.UpdateStatus(context.Background(), parent.ID, models.StatusPending); err != nil {
			t.Fatalf("reopen failed: %v", err)
		}

		stored, _ := repo.Get(child.ID)
		if stored.RecordStatus != models.StatusCompleted {
			t.Errorf("expected child to remain completed, got %q", stored.RecordStatus)
		}
	})

	t.Run("cascade touches the children's updated_at", func(t *testing.T) {
		svc, repo := newTestService(t)

		parent := mustCreate(t, svc, "Plan trip", "2024-06-01", nil)
		child := mustCreate(t, svc, "Book flight", "2024-06-01", &parent.ID)

		later := wednesday.Add(2 * time.Hour)
		repo.SetClock(func() time.Time { return later })

		if err := svc.UpdateStatus(context.Background(), parent.ID, models.StatusCompleted); err != nil {
			t.Fatalf("update status failed: %v", err)
		}

		stored, _ := repo.Get(child.ID)
		if !stored.UpdatedAt.Equal(later) {
			t.Errorf("expected child updated_at %v, got %v", later, stored.UpdatedAt)
		}
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		svc, _ := newTestService(t)

		err := svc.UpdateStatus(context.Background(), 404, models.StatusCompleted)
		if !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestUpdateFields(t *testing.T) {
	t.Run("is a no-op on existing tasks", func(t *testing.T) {
		svc, repo := newTestService(t)

		task := mustCreate(t, svc, "Plan trip", "2024-06-01", nil)
		if _, err := svc.UpdateFields(context.Background(), task.ID); err != nil {
			t.Fatalf("update fields failed: %v", err)
		}

		stored, _ := repo.Get(task.ID)
		if stored.Title != "Plan trip" || !stored.UpdatedAt.Equal(task.UpdatedAt) {
			t.Errorf("expected task to be untouched, got %+v", stored)
		}
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.UpdateFields(context.Background(), 404)
		if !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestList(t *testing.T) {
	t.Run("returns top-level tasks with children nested", func(t *testing.T) {
		svc, _ := newTestService(t)

		parent := mustCreate(t, svc, "Plan trip", "2024-06-01", nil)
		mustCreate(t, svc, "Book flight", "2024-06-01", &parent.ID)

		tasks, err := svc.List(context.Background(), ListOptions{})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(tasks) != 1 {
			t.Fatalf("expected 1 top-level task, got %d", len(tasks))
		}
		if len(tasks[0].SubTasks) != 1 || tasks[0].SubTasks[0].Title != "Book flight" {
			t.Errorf("expected one nested child, got %+v", tasks[0].SubTasks)
		}
	})

	t.Run("excludes soft-deleted tasks", func(t *testing.T) {
		svc, _ := newTestService(t)

		keep := mustCreate(t, svc, "Keep", "2024-06-01", nil)
		gone := mustCreate(t, svc, "Gone", "2024-06-01", nil)
		if err := svc.Delete(context.Background(), gone.ID); err != nil {
			t.Fatalf("delete failed: %v", err)
		}

		tasks, err := svc.List(context.Background(), ListOptions{})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(tasks) != 1 || tasks[0].ID != keep.ID {
			t.Errorf("expected only the kept task, got %+v", tasks)
		}
	})

	t.Run("today returns tasks due on the current date", func(t *testing.T) {
		svc, _ := newTestService(t)

		due := mustCreate(t, svc, "Due today", "2024-06-05", nil)
		mustCreate(t, svc, "Due later", "2024-06-20", nil)

		tasks, err := svc.List(context.Background(), ListOptions{Filter: "today"})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(tasks) != 1 || tasks[0].ID != due.ID {
			t.Errorf("expected only the task due today, got %+v", tasks)
		}
	})

	t.Run("overdue excludes future and completed tasks", func(t *testing.T) {
		svc, _ := newTestService(t)

		late := mustCreate(t, svc, "Late", "2024-05-20", nil)
		doneLate := mustCreate(t, svc, "Done late", "2024-05-20", nil)
		mustCreate(t, svc, "Due today", "2024-06-05", nil)
		mustCreate(t, svc, "Future", "2024-06-20", nil)

		if err := svc.UpdateStatus(context.Background(), doneLate.ID, models.StatusCompleted); err != nil {
			t.Fatalf("complete failed: %v", err)
		}

		tasks, err := svc.List(context.Background(), ListOptions{Filter: "overdue"})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(tasks) != 1 || tasks[0].ID != late.ID {
			t.Errorf("expected only the pending overdue task, got %+v", tasks)
		}
	})

	t.Run("current_week keeps only pending tasks inside the window", func(t *testing.T) {
		svc, _ := newTestService(t)

		monday := mustCreate(t, svc, "Monday", "2024-06-03", nil)
		sunday := mustCreate(t, svc, "Sunday", "2024-06-09", nil)
		mustCreate(t, svc, "Next monday", "2024-06-10", nil)
		done := mustCreate(t, svc, "Done", "2024-06-04", nil)
		if err := svc.UpdateStatus(context.Background(), done.ID, models.StatusCompleted); err != nil {
			t.Fatalf("complete failed: %v", err)
		}

		tasks, err := svc.List(context.Background(), ListOptions{Filter: "current_week"})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(tasks) != 2 || tasks[0].ID != monday.ID || tasks[1].ID != sunday.ID {
			t.Errorf("expected the monday and sunday tasks, got %+v", tasks)
		}
	})

	t.Run("next_week shifts the window by seven days", func(t *testing.T) {
		svc, _ := newTestService(t)

		mustCreate(t, svc, "This week", "2024-06-05", nil)
		next := mustCreate(t, svc, "Next week", "2024-06-12", nil)

		tasks, err := svc.List(context.Background(), ListOptions{Filter: "next_week"})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(tasks) != 1 || tasks[0].ID != next.ID {
			t.Errorf("expected only next week's task, got %+v", tasks)
		}
	})

	t.Run("status pending filters children too", func(t *testing.T) {
		svc, repo := newTestService(t)

		parent := mustCreate(t, svc, "Plan trip", "2024-06-01", nil)
		mustCreate(t, svc, "Book flight", "2024-06-01", &parent.ID)
		doneChild := mustCreate(t, svc, "Book hotel", "2024-06-01", &parent.ID)
		if err := repo.UpdateStatus(context.Background(), doneChild.ID, models.StatusCompleted, false); err != nil {
			t.Fatalf("complete failed: %v", err)
		}

		tasks, err := svc.List(context.Background(), ListOptions{Status: "pending"})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(tasks) != 1 {
			t.Fatalf("expected 1 task, got %d", len(tasks))
		}
		if len(tasks[0].SubTasks) != 1 || tasks[0].SubTasks[0].Title != "Book flight" {
			t.Errorf("expected only the pending child, got %+v", tasks[0].SubTasks)
		}
	})

	t.Run("search matches title substrings case-insensitively", func(t *testing.T) {
		svc, _ := newTestService(t)

		trip := mustCreate(t, svc, "Plan Trip", "2024-06-01", nil)
		mustCreate(t, svc, "Taxes", "2024-06-01", nil)

		tasks, err := svc.List(context.Background(), ListOptions{Search: "trip"})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(tasks) != 1 || tasks[0].ID != trip.ID {
			t.Errorf("expected only the trip task, got %+v", tasks)
		}
	})

	t.Run("orders by due date ascending", func(t *testing.T) {
		svc, _ := newTestService(t)

		mustCreate(t, svc, "Later", "2024-06-20", nil)
		mustCreate(t, svc, "Sooner", "2024-06-01", nil)

		tasks, err := svc.List(context.Background(), ListOptions{})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(tasks) != 2 || tasks[0].Title != "Sooner" || tasks[1].Title != "Later" {
			t.Errorf("expected due-date ascending order, got %+v", tasks)
		}
	})

	t.Run("no matches is an empty list", func(t *testing.T) {
		svc, _ := newTestService(t)

		tasks, err := svc.List(context.Background(), ListOptions{Search: "nothing"})
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if tasks == nil || len(tasks) != 0 {
			t.Errorf("expected empty slice, got %#v", tasks)
		}
	})
}
