package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"taskboard-go/app/models"
)

// MemoryRepository is an in-process TaskRepository with the same contract
// as the Neo4j one. It backs the test suite and local runs without a
// database.
type MemoryRepository struct {
	mu     sync.Mutex
	tasks  map[int64]*models.Task
	nextID int64
	now    func() time.Time
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		tasks: map[int64]*models.Task{},
		now:   time.Now,
	}
}

// SetClock overrides the repository clock. Test hook.
func (r *MemoryRepository) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

func (r *MemoryRepository) Create(ctx context.Context, input CreateTask) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if input.ParentID != nil {
		parent, ok := r.tasks[*input.ParentID]
		if !ok || parent.DeletedAt != nil {
			return nil, fmt.Errorf("parent task %d not found", *input.ParentID)
		}
	}

	r.nextID++
	now := r.now().UTC()
	task := &models.Task{
		ID:           r.nextID,
		Title:        input.Title,
		RecordStatus: models.StatusPending,
		DueDate:      input.DueDate,
		Description:  input.Description,
		ParentID:     input.ParentID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.tasks[task.ID] = task

	out := *task
	return &out, nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id int64) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok || task.DeletedAt != nil {
		return nil, ErrNotFound
	}

	out := *task
	return &out, nil
}

func (r *MemoryRepository) List(ctx context.Context, filter ListFilter) ([]models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tasks := []models.Task{}
	for _, t := range r.tasks {
		if t.DeletedAt != nil || t.ParentID != nil {
			continue
		}
		if !matchesFilter(t, filter) {
			continue
		}

		out := *t
		out.SubTasks = nil
		for _, c := range r.tasks {
			if c.DeletedAt != nil || c.ParentID == nil || *c.ParentID != t.ID {
				continue
			}
			if filter.PendingOnly && c.RecordStatus != models.StatusPending {
				continue
			}
			out.SubTasks = append(out.SubTasks, *c)
		}
		sort.Slice(out.SubTasks, func(i, j int) bool {
			return out.SubTasks[i].ID < out.SubTasks[j].ID
		})

		tasks = append(tasks, out)
	}

	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].DueDate != tasks[j].DueDate {
			return tasks[i].DueDate < tasks[j].DueDate
		}
		return tasks[i].ID < tasks[j].ID
	})

	return tasks, nil
}

func matchesFilter(t *models.Task, filter ListFilter) bool {
	if filter.Search != "" &&
		!strings.Contains(strings.ToLower(t.Title), strings.ToLower(filter.Search)) {
		return false
	}
	if filter.PendingOnly && t.RecordStatus != models.StatusPending {
		return false
	}
	if filter.DueOn != "" && t.DueDate != filter.DueOn {
		return false
	}
	if filter.DueFrom != "" && t.DueDate < filter.DueFrom {
		return false
	}
	if filter.DueTo != "" && t.DueDate > filter.DueTo {
		return false
	}
	if filter.DueBefore != "" && t.DueDate >= filter.DueBefore {
		return false
	}
	return true
}

func (r *MemoryRepository) UpdateStatus(ctx context.Context, id int64, status models.Status, cascade bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok || task.DeletedAt != nil {
		return ErrNotFound
	}

	now := r.now().UTC()
	task.RecordStatus = status
	task.UpdatedAt = now

	if cascade {
		for _, c := range r.tasks {
			if c.DeletedAt != nil || c.ParentID == nil || *c.ParentID != id {
				continue
			}
			c.RecordStatus = status
			c.UpdatedAt = now
		}
	}
	return nil
}

func (r *MemoryRepository) SoftDelete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok || task.DeletedAt != nil {
		return ErrNotFound
	}

	now := r.now().UTC()
	r.softDeleteTree(task, now)
	return nil
}

func (r *MemoryRepository) softDeleteTree(task *models.Task, now time.Time) {
	deletedAt := now
	task.DeletedAt = &deletedAt
	task.UpdatedAt = now

	for _, c := range r.tasks {
		if c.DeletedAt != nil || c.ParentID == nil || *c.ParentID != task.ID {
			continue
		}
		r.softDeleteTree(c, now)
	}
}

func (r *MemoryRepository) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	purged := 0
	for id, t := range r.tasks {
		if t.DeletedAt != nil && t.DeletedAt.Before(cutoff) {
			delete(r.tasks, id)
			purged++
		}
	}
	return purged, nil
}

// Get returns the raw stored task regardless of deletion state. Test hook.
func (r *MemoryRepository) Get(id int64) (models.Task, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok {
		return models.Task{}, false
	}
	return *task, true
}
