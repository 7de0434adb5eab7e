package services

import (
	"context"
	"time"

	"taskboard-go/app/models"
	"taskboard-go/app/repository"
)

// TaskService handles task-related operations on top of a TaskRepository.
type TaskService struct {
	repo repository.TaskRepository
	now  func() time.Time
}

// NewTaskService creates a new instance of TaskService.
func NewTaskService(repo repository.TaskRepository) *TaskService {
	return &TaskService{repo: repo, now: time.Now}
}

// SetClock overrides the service clock. Test hook for the date filters.
func (s *TaskService) SetClock(now func() time.Time) {
	s.now = now
}

// Create persists a new pending task from already-validated input.
func (s *TaskService) Create(ctx context.Context, input repository.CreateTask) (*models.Task, error) {
	return s.repo.Create(ctx, input)
}

// List returns the visible top-level tasks for the given query options,
// each with its children attached.
func (s *TaskService) List(ctx context.Context, opts ListOptions) ([]models.Task, error) {
	filter := buildListFilter(opts, s.now())
	return s.repo.List(ctx, filter)
}

// Delete soft-deletes the task and all of its descendants.
// Returns repository.ErrNotFound for unknown ids.
func (s *TaskService) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, id)
}

// UpdateStatus sets the task's record_status. Completing a task also
// completes its direct children; the cascade decision is passed to the
// store explicitly so the whole write happens in one transaction.
// Propagation is one level only: grandchildren are never touched here.
func (s *TaskService) UpdateStatus(ctx context.Context, id int64, status models.Status) error {
	cascade := status == models.StatusCompleted
	return s.repo.UpdateStatus(ctx, id, status, cascade)
}

// UpdateFields looks the task up and deliberately changes nothing. The
// field-update endpoint has never mutated anything; this keeps that
// contract while still reporting NotFound for unknown ids.
func (s *TaskService) UpdateFields(ctx context.Context, id int64) (*models.Task, error) {
	return s.repo.FindByID(ctx, id)
}
