package repository

import (
	"context"
	"errors"
	"time"

	"taskboard-go/app/models"
)

// ErrNotFound is returned when an operation targets a task that does not
// exist or has been soft-deleted.
var ErrNotFound = errors.New("task not found")

// CreateTask carries the validated fields for a new task.
type CreateTask struct {
	Title       string
	DueDate     string
	Description string
	ParentID    *int64
}

// ListFilter is the predicate set the listing query applies to top-level
// tasks. Fields compound: the service sets them through sequential
// conditional checks, mirroring how the query parameters are interpreted.
type ListFilter struct {
	// Search restricts titles to those containing the string,
	// case-insensitively.
	Search string
	// PendingOnly restricts both parents and their attached children
	// to record_status P.
	PendingOnly bool
	// DueOn matches due_date exactly (Y-m-d).
	DueOn string
	// DueFrom and DueTo bound due_date inclusively.
	DueFrom string
	DueTo   string
	// DueBefore matches due_date strictly earlier than the given date.
	DueBefore string
}

// TaskRepository is the persistence boundary for tasks. Implementations
// must keep each mutating operation inside a single transaction, including
// the child writes of UpdateStatus and the descendant writes of SoftDelete.
type TaskRepository interface {
	// Create persists a new pending task and returns it with its
	// assigned id and timestamps. Linking to a missing parent fails
	// the whole operation.
	Create(ctx context.Context, input CreateTask) (*models.Task, error)

	// FindByID returns the task, or ErrNotFound if it is absent or
	// soft-deleted. Children are not attached.
	FindByID(ctx context.Context, id int64) (*models.Task, error)

	// List returns top-level, non-deleted tasks matching the filter,
	// ordered by due_date then id ascending, each with its matching
	// children attached.
	List(ctx context.Context, filter ListFilter) ([]models.Task, error)

	// UpdateStatus sets the task's record_status. When cascade is true
	// every direct, non-deleted child is set to the same status in the
	// same transaction. Returns ErrNotFound for unknown ids.
	UpdateStatus(ctx context.Context, id int64, status models.Status, cascade bool) error

	// SoftDelete marks the task and all of its descendants deleted in
	// one transaction. Returns ErrNotFound for unknown ids.
	SoftDelete(ctx context.Context, id int64) error

	// PurgeDeletedBefore permanently removes every soft-deleted task
	// whose deleted_at is strictly earlier than cutoff, returning the
	// number of tasks removed.
	PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int, error)
}
