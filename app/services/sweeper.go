package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/metric"

	"taskboard-go/app/logging"
	"taskboard-go/app/repository"
)

// RetentionSweeper permanently removes tasks that were soft-deleted more
// than one calendar month ago. It runs on its own schedule, independent of
// request traffic; a failed sweep is logged and retried at the next tick.
type RetentionSweeper struct {
	repo        repository.TaskRepository
	interval    time.Duration
	now         func() time.Time
	purgedTotal metric.Float64Counter
}

// NewRetentionSweeper creates a sweeper that fires every interval.
func NewRetentionSweeper(repo repository.TaskRepository, interval time.Duration) *RetentionSweeper {
	counter, _ := logging.InitializeFloatCounter("sweeper_tasks_purged",
		"Number of soft-deleted tasks permanently removed by the retention sweeper", "Task")

	return &RetentionSweeper{
		repo:        repo,
		interval:    interval,
		now:         time.Now,
		purgedTotal: counter,
	}
}

// SetClock overrides the sweeper clock. Test hook for the retention cutoff.
func (s *RetentionSweeper) SetClock(now func() time.Time) {
	s.now = now
}

// Run sweeps once immediately, then on every tick until the context is
// cancelled. Sweep errors never stop the loop.
func (s *RetentionSweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	if err := s.Sweep(ctx); err != nil {
		logging.Log(fmt.Sprintf("Sweep failed: %v", err), slog.LevelError)
	}

	for {
		select {
		case <-ctx.Done():
			logging.Log("Retention sweeper stopping", slog.LevelInfo)
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				logging.Log(fmt.Sprintf("Sweep failed: %v", err), slog.LevelError)
			}
		}
	}
}

// Sweep performs a single purge pass. The cutoff is one calendar month
// before now, truncated to a date, and only tasks soft-deleted strictly
// earlier are removed.
func (s *RetentionSweeper) Sweep(ctx context.Context) error {
	logging.Log("Retention sweep starting", slog.LevelInfo)

	cutoff := s.cutoff()
	purged, err := s.repo.PurgeDeletedBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("purge tasks deleted before %s: %w",
			cutoff.Format("2006-01-02"), err)
	}

	if s.purgedTotal != nil {
		s.purgedTotal.Add(ctx, float64(purged))
	}
	logging.Log(fmt.Sprintf("Retention sweep done, purged %d tasks", purged), slog.LevelInfo)
	return nil
}

func (s *RetentionSweeper) cutoff() time.Time {
	t := s.now().UTC().AddDate(0, -1, 0)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
