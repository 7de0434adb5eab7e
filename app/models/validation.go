package models

import (
	"encoding/json"
	"regexp"
	"strconv"
	"time"
)

// fieldPattern matches the characters allowed in title and description:
// alphanumerics, spaces and _[]()-
var fieldPattern = regexp.MustCompile(`^[ a-zA-Z0-9_\[\]()-]+$`)

// FieldErrors maps a field name to its validation messages.
type FieldErrors map[string][]string

// Empty reports whether no field failed validation.
func (e FieldErrors) Empty() bool {
	return len(e) == 0
}

func (e FieldErrors) add(field, message string) {
	e[field] = append(e[field], message)
}

// CreateTaskRequest is the POST /task payload. TaskID is decoded loosely
// because clients send it either as a JSON number or a numeric string.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	DueDate     string `json:"due_date"`
	Description string `json:"description"`
	TaskID      any    `json:"task_id"`
}

// ParentID returns the numeric parent id, if one was supplied.
// The second return value is false when task_id is present but not numeric.
func (r *CreateTaskRequest) ParentID() (*int64, bool) {
	switch v := r.TaskID.(type) {
	case nil:
		return nil, true
	case float64:
		id := int64(v)
		return &id, true
	case json.Number:
		id, err := v.Int64()
		if err != nil {
			return nil, false
		}
		return &id, true
	case string:
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, false
		}
		return &id, true
	default:
		return nil, false
	}
}

// Validate checks the create payload against the field rules:
// title and description are required and restricted to the allowed
// character set, due_date is required and must be a Y-m-d date,
// task_id must be numeric when present.
func (r *CreateTaskRequest) Validate() FieldErrors {
	errs := FieldErrors{}

	if r.Title == "" {
		errs.add("title", "The title field is required.")
	} else if !fieldPattern.MatchString(r.Title) {
		errs.add("title", "The title format is invalid.")
	}

	if r.DueDate == "" {
		errs.add("due_date", "The due date field is required.")
	} else if _, err := time.Parse(DateLayout, r.DueDate); err != nil {
		errs.add("due_date", "The due date is not a valid date.")
	}

	if r.Description == "" {
		errs.add("description", "The description field is required.")
	} else if !fieldPattern.MatchString(r.Description) {
		errs.add("description", "The description format is invalid.")
	}

	if _, ok := r.ParentID(); !ok {
		errs.add("task_id", "The task id must be a number.")
	}

	return errs
}

// UpdateStatusRequest is the PUT /task/update_status/{id} payload.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// Validate checks that status is present and one of C or P.
func (r *UpdateStatusRequest) Validate() FieldErrors {
	errs := FieldErrors{}

	switch Status(r.Status) {
	case StatusPending, StatusCompleted:
	default:
		if r.Status == "" {
			errs.add("status", "The status field is required.")
		} else {
			errs.add("status", "The selected status is invalid.")
		}
	}

	return errs
}
