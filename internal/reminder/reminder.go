// Package reminder periodically reports how many entries are due for review.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/phrazzld/enlearn/internal/platform/logger"
)

// DueCounter reports the number of entries due today.
type DueCounter interface {
	DueCount(ctx context.Context) (int, error)
}

// Notifier delivers a due-count reminder.
type Notifier interface {
	Notify(ctx context.Context, due int) error
}

// LogNotifier writes reminders to a structured logger.
type LogNotifier struct {
	Logger *slog.Logger
}

// Notify implements Notifier.
func (n LogNotifier) Notify(ctx context.Context, due int) error {
	l := n.Logger
	if l == nil {
		l = logger.FromContext(ctx)
	}
	l.InfoContext(ctx, "review reminder", slog.Int("due_count", due))
	return nil
}

// Scheduler runs the reminder job on a cron schedule.
type Scheduler struct {
	scheduler *gocron.Scheduler
	counter   DueCounter
	notifier  Notifier
	logger    *slog.Logger
	timeout   time.Duration
}

// New creates a Scheduler that evaluates cron expressions in UTC.
func New(counter DueCounter, notifier Notifier, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		counter:   counter,
		notifier:  notifier,
		logger:    logger.With(slog.String("component", "reminder")),
		timeout:   30 * time.Second,
	}
}

// Start registers the job for the cron expression and starts the scheduler
// in a non-blocking manner.
func (s *Scheduler) Start(schedule string) error {
	if _, err := s.scheduler.Cron(schedule).Do(s.run); err != nil {
		return fmt.Errorf("invalid reminder schedule %q: %w", schedule, err)
	}
	s.scheduler.StartAsync()
	s.logger.Info("reminder scheduler started", slog.String("schedule", schedule))
	return nil
}

// Stop terminates the scheduled job.
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	s.logger.Info("reminder scheduler stopped")
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.RunOnce(logger.WithLogger(ctx, s.logger)); err != nil {
		s.logger.Error("reminder run failed", slog.String("error", err.Error()))
	}
}

// RunOnce counts due entries and, when there are any, notifies.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	due, err := s.counter.DueCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count due entries: %w", err)
	}

	if due == 0 {
		s.logger.Debug("no entries due, skipping reminder")
		return 0, nil
	}

	if err := s.notifier.Notify(ctx, due); err != nil {
		return due, fmt.Errorf("failed to send reminder: %w", err)
	}
	return due, nil
}
