// Package scheduler drives due reminders through the delivery lifecycle.
//
// The lock is a cooperative status write, not a mutual exclusion: running
// more than one scheduler instance against the same sheet can double-deliver.
// Deploy a single instance.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/ayane2751/fairybot/internal/format"
	"github.com/ayane2751/fairybot/internal/heartbeat"
	"github.com/ayane2751/fairybot/internal/models"
	"github.com/ayane2751/fairybot/internal/recurrence"
	"github.com/ayane2751/fairybot/internal/repository"
)

// Target is a resolved delivery destination.
type Target interface {
	Send(ctx context.Context, text string) error
}

// Notifier resolves a reminder's scope and identifiers to a delivery target.
// A nil target without an error means the destination does not exist; the
// scheduler treats both the same way, as a delivery failure.
type Notifier interface {
	ResolveTarget(ctx context.Context, reminder *models.Reminder) (Target, error)
}

type Scheduler struct {
	repo       *repository.ReminderRepository
	notifier   Notifier
	heartbeat  *heartbeat.Writer
	interval   time.Duration
	maxRetries int
	notifyCh   chan struct{}
	now        func() time.Time
}

func New(repo *repository.ReminderRepository, notifier Notifier, hb *heartbeat.Writer, interval time.Duration, maxRetries int) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &Scheduler{
		repo:       repo,
		notifier:   notifier,
		heartbeat:  hb,
		interval:   interval,
		maxRetries: maxRetries,
		notifyCh:   make(chan struct{}, 1),
		now:        time.Now,
	}
}

// Notify triggers an immediate check. Non-blocking if a check is already pending.
func (s *Scheduler) Notify() {
	select {
	case s.notifyCh <- struct{}{}:
	default:
		// Channel already has a pending notification, skip
	}
}

func (s *Scheduler) Start(ctx context.Context) {
	slog.Info("scheduler started", "interval", s.interval)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		case <-s.notifyCh:
			slog.Debug("scheduler triggered by notification")
			s.tick(ctx)
		}
	}
}

// tick processes every reminder due right now, sequentially. A store failure
// while listing aborts the tick (nothing was claimed, safe to retry next
// tick); failures on individual reminders never stop the loop.
func (s *Scheduler) tick(ctx context.Context) {
	if s.heartbeat != nil {
		s.heartbeat.Beat()
	}

	now := s.now().UTC()
	due, err := s.repo.ListDue(ctx, now)
	if err != nil {
		slog.Error("failed to list due reminders", "error", err)
		return
	}
	if len(due) == 0 {
		slog.Debug("no reminders due")
		return
	}

	slog.Info("processing due reminders", "count", len(due))
	for _, reminder := range due {
		s.process(ctx, reminder)
	}
}

func (s *Scheduler) process(ctx context.Context, reminder *models.Reminder) {
	// Claim the row before touching the outside world. last_sent goes
	// first so the status cell, the claim signal, is the final write.
	err := s.repo.UpdateFields(ctx, reminder.ID, []repository.Field{
		{Name: models.ColLastSent, Value: models.FormatTime(s.now())},
		{Name: models.ColStatus, Value: string(models.StatusSending)},
	}, reminder.RowIndex)
	if err != nil {
		slog.Error("failed to lock reminder", "reminderId", reminder.ID, "error", err)
		s.recordFailure(ctx, reminder)
		return
	}
	slog.Debug("locked reminder", "reminderId", reminder.ID)

	if err := s.deliver(ctx, reminder); err != nil {
		slog.Error("failed to deliver reminder", "reminderId", reminder.ID, "error", err)
		s.recordFailure(ctx, reminder)
		return
	}
	slog.Info("sent notification", "reminderId", reminder.ID)

	s.finalize(ctx, reminder)
}

func (s *Scheduler) deliver(ctx context.Context, reminder *models.Reminder) error {
	target, err := s.notifier.ResolveTarget(ctx, reminder)
	if err != nil {
		return err
	}
	if target == nil {
		return fmt.Errorf("no delivery target for scope %q", reminder.Scope)
	}
	return target.Send(ctx, format.Notification(reminder.Content))
}

// finalize records the outcome of a successful delivery: recurring
// reminders go back to pending at their next occurrence, everything else is
// sent. retry_count deliberately stays as it was; a recurring reminder that
// failed before keeps its count across occurrences.
func (s *Scheduler) finalize(ctx context.Context, reminder *models.Reminder) {
	if reminder.IsRecurring() {
		next, ok := recurrence.NextDate(reminder.NotifyTimeUTC, reminder.Recurring)
		if ok {
			err := s.repo.UpdateFields(ctx, reminder.ID, []repository.Field{
				{Name: models.ColNotifyTimeUTC, Value: next},
				{Name: models.ColLastSent, Value: models.FormatTime(s.now())},
				{Name: models.ColStatus, Value: string(models.StatusPending)},
			}, reminder.RowIndex)
			if err != nil {
				slog.Error("failed to reschedule reminder", "reminderId", reminder.ID, "error", err)
				return
			}
			slog.Debug("rescheduled reminder", "reminderId", reminder.ID, "next", next)
			return
		}
		// Leaving the row pending at a stale time would re-deliver every
		// tick, so a reminder we cannot reschedule terminates as sent.
		slog.Error("failed to compute next occurrence, marking sent",
			"reminderId", reminder.ID, "recurring", reminder.Recurring,
			"notifyTime", reminder.NotifyTimeUTC)
	}

	err := s.repo.UpdateFields(ctx, reminder.ID, []repository.Field{
		{Name: models.ColLastSent, Value: models.FormatTime(s.now())},
		{Name: models.ColStatus, Value: string(models.StatusSent)},
	}, reminder.RowIndex)
	if err != nil {
		slog.Error("failed to mark reminder as sent", "reminderId", reminder.ID, "error", err)
		return
	}
	slog.Debug("marked reminder as sent", "reminderId", reminder.ID)
}

// recordFailure bumps the retry count, parking the reminder as failed once
// the count reaches the ceiling and otherwise releasing it back to pending
// for a later tick.
func (s *Scheduler) recordFailure(ctx context.Context, reminder *models.Reminder) {
	retryCount := reminder.RetryCountValue() + 1
	status := models.StatusPending
	if retryCount >= s.maxRetries {
		status = models.StatusFailed
		slog.Error("reminder reached the retry limit, marking failed",
			"reminderId", reminder.ID, "retryCount", retryCount)
	}

	err := s.repo.UpdateFields(ctx, reminder.ID, []repository.Field{
		{Name: models.ColRetryCount, Value: strconv.Itoa(retryCount)},
		{Name: models.ColStatus, Value: string(status)},
	}, reminder.RowIndex)
	if err != nil {
		slog.Error("failed to update reminder after delivery failure",
			"reminderId", reminder.ID, "error", err)
	}
}
