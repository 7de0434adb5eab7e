package models

import "time"

// Status is the record_status of a task. The store only ever holds
// "P" (pending) or "C" (completed).
type Status string

const (
	StatusPending   Status = "P"
	StatusCompleted Status = "C"
)

// DateLayout is the calendar-date format used for due_date values.
const DateLayout = "2006-01-02"

// Task represents a task with an optional parent task.
type Task struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	RecordStatus Status     `json:"record_status"`
	DueDate      string     `json:"due_date"`
	Description  string     `json:"description"`
	ParentID     *int64     `json:"task_id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at"`
	SubTasks     []Task     `json:"sub_task,omitempty"`
}

// IsTopLevel reports whether the task has no parent.
func (t *Task) IsTopLevel() bool {
	return t.ParentID == nil
}
