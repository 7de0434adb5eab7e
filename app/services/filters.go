package services

import (
	"time"

	"taskboard-go/app/models"
	"taskboard-go/app/repository"
)

// ListOptions are the raw listing query parameters.
type ListOptions struct {
	Search string
	Status string
	Filter string
}

// buildListFilter translates query parameters into store predicates.
// Each check is applied sequentially and independently, so combinations
// compound: status=pending stacks with any filter value, and the week and
// overdue filters imply the pending restriction on their own.
func buildListFilter(opts ListOptions, now time.Time) repository.ListFilter {
	var f repository.ListFilter

	if opts.Search != "" {
		f.Search = opts.Search
	}

	if opts.Status == "pending" {
		f.PendingOnly = true
	}

	if opts.Filter == "today" {
		f.DueOn = now.Format(models.DateLayout)
	}

	if opts.Filter == "current_week" {
		start, end := weekBounds(now)
		f.DueFrom = start.Format(models.DateLayout)
		f.DueTo = end.Format(models.DateLayout)
		f.PendingOnly = true
	}

	if opts.Filter == "next_week" {
		start, end := weekBounds(now)
		f.DueFrom = start.AddDate(0, 0, 7).Format(models.DateLayout)
		f.DueTo = end.AddDate(0, 0, 7).Format(models.DateLayout)
		f.PendingOnly = true
	}

	if opts.Filter == "overdue" {
		f.DueBefore = now.Format(models.DateLayout)
		f.PendingOnly = true
	}

	return f
}

// weekBounds returns the Monday and Sunday of the week containing t.
func weekBounds(t time.Time) (time.Time, time.Time) {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // count Sunday as the last day of the week
	}
	start := t.AddDate(0, 0, 1-weekday)
	return start, start.AddDate(0, 0, 6)
}
