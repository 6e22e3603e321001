// Package engine implements the reminder sweep: the batch loop that walks
// outstanding invoices, consults the decision engine and dispatches due
// reminders.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/microrent/rentflow/internal/common"
	"github.com/microrent/rentflow/internal/message"
	"github.com/microrent/rentflow/internal/model"
	"github.com/microrent/rentflow/internal/reminder"
	"github.com/microrent/rentflow/internal/service"
)

// SweepEngine orchestrates one reminder sweep over all eligible invoices.
type SweepEngine struct {
	storage  service.Storage
	notifier service.Notifier
	decider  *reminder.DecisionEngine
	retry    service.RetryOptions
	dryRun   bool
}

// Config holds configuration options for the sweep engine.
type Config struct {
	Retry  service.RetryOptions
	DryRun bool
}

// DefaultConfig returns the default configuration. The retry bound keeps a
// permanently unreachable destination from stalling the batch.
func DefaultConfig() Config {
	return Config{
		Retry: service.RetryOptions{
			MaxAttempts:  2,
			InitialDelay: 500 * time.Millisecond,
			MaxDelay:     5 * time.Second,
			Multiplier:   2.0,
		},
	}
}

// New creates a sweep engine with the given dependencies.
func New(storage service.Storage, notifier service.Notifier) *SweepEngine {
	return NewWithConfig(storage, notifier, DefaultConfig())
}

// NewWithConfig creates a sweep engine with custom configuration.
func NewWithConfig(storage service.Storage, notifier service.Notifier, config Config) *SweepEngine {
	return &SweepEngine{
		storage:  storage,
		notifier: notifier,
		decider:  reminder.NewDecisionEngine(storage, storage),
		retry:    config.Retry,
		dryRun:   config.DryRun,
	}
}

// RunSweep evaluates every eligible unpaid invoice as of the given time and
// dispatches at most one new escalation stage per invoice. A zero asOf
// means now; passing an earlier date supports backfill and testing.
//
// Failures are handled per §tenant: a malformed row or a transport error is
// logged, counted and skipped, never aborting the batch. A storage failure
// aborts the whole sweep, because without reliable sent-stage state a rerun
// could double-send.
func (e *SweepEngine) RunSweep(ctx context.Context, asOf time.Time) (model.SweepStats, error) {
	var stats model.SweepStats

	if asOf.IsZero() {
		asOf = time.Now()
	}

	slog.Info("Starting reminder sweep", "as_of", asOf.Format("2006-01-02"), "dry_run", e.dryRun)

	targets, err := e.storage.ListEligibleUnpaid(ctx)
	if err != nil {
		return stats, fmt.Errorf("%w: listing unpaid invoices: %v", common.ErrPersistence, err)
	}

	if len(targets) == 0 {
		slog.Info("No eligible unpaid invoices")
		return stats, nil
	}

	slog.Info("Found eligible unpaid invoices", "count", len(targets))

	for i := range targets {
		// Each tenant's write is independent; interruption between
		// tenants leaves no partial state.
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		target := &targets[i]
		stats.Evaluated++

		if err := validateTarget(target); err != nil {
			slog.Error("Skipping malformed invoice row",
				"invoice_id", target.InvoiceID,
				"tenant_id", target.TenantID,
				"error", err)
			stats.Failed++
			continue
		}

		stage, due, err := e.decider.ShouldSend(ctx, target.TenantID, target.DueDate, asOf)
		if err != nil {
			// Corrupt data for one tenant must not stop the others; only a
			// failing store aborts the run.
			if errors.Is(err, model.ErrUnknownStage) {
				slog.Error("Skipping tenant with unreadable reminder history",
					"tenant_id", target.TenantID,
					"error", err)
				stats.Failed++
				continue
			}
			return stats, fmt.Errorf("%w: deciding for tenant %s: %v", common.ErrPersistence, target.TenantID, err)
		}
		if !due {
			stats.Skipped++
			continue
		}

		if e.dryRun {
			slog.Info("Would send reminder",
				"tenant_id", target.TenantID,
				"room", target.RoomNumber,
				"stage", stage,
				"rent_month", model.PeriodKey(target.DueDate))
			stats.Sent++
			continue
		}

		if err := e.dispatch(ctx, target, stage, asOf, &stats); err != nil {
			return stats, err
		}
	}

	slog.Info("Reminder sweep complete",
		"evaluated", stats.Evaluated,
		"sent", stats.Sent,
		"skipped", stats.Skipped,
		"failed", stats.Failed)

	return stats, nil
}

// dispatch sends one stage to one tenant and records the outcome. Only
// storage failures are returned; transport failures are folded into stats.
func (e *SweepEngine) dispatch(ctx context.Context, target *model.ReminderTarget, stage model.Stage, asOf time.Time, stats *model.SweepStats) error {
	text := message.Render(stage, target, asOf)

	sendErr := e.deliver(ctx, target.Destination, text)
	status := model.SendStatusSent
	errMsg := ""
	if sendErr != nil {
		status = model.SendStatusFailed
		errMsg = sendErr.Error()
		slog.Error("Reminder delivery failed",
			"tenant_id", target.TenantID,
			"room", target.RoomNumber,
			"stage", stage,
			"error", sendErr)
	} else {
		slog.Info("Reminder sent",
			"tenant_id", target.TenantID,
			"room", target.RoomNumber,
			"stage", stage,
			"rent_month", model.PeriodKey(target.DueDate))
	}

	// The stage is consumed even when delivery failed: there is no retry
	// before the next cadence threshold. History is keyed by the due-date
	// month, the same key ShouldSend reads it back under.
	event := &model.ReminderEvent{
		TenantID:      target.TenantID,
		RentMonth:     model.PeriodKey(target.DueDate),
		Stage:         stage,
		DueDate:       target.DueDate,
		DaysBeforeDue: model.DaysBetween(asOf, target.DueDate),
		Status:        status,
		ErrorMessage:  errMsg,
		SentAt:        asOf,
	}
	if err := e.storage.AppendEvent(ctx, event); err != nil {
		if errors.Is(err, common.ErrDuplicateEntry) {
			// A concurrent sweep recorded this stage first; count it as
			// skipped here and move on.
			slog.Warn("Stage already recorded by another sweep",
				"tenant_id", target.TenantID,
				"stage", stage)
			stats.Skipped++
			return nil
		}
		return fmt.Errorf("%w: recording reminder event: %v", common.ErrPersistence, err)
	}

	if err := e.bumpReminderCount(ctx, target.TenantID); err != nil {
		return err
	}

	e.audit(ctx, target, stage, text, status, errMsg)

	if sendErr != nil {
		stats.Failed++
	} else {
		stats.Sent++
	}

	return nil
}

// deliver pushes the text with bounded retry at the transport boundary.
func (e *SweepEngine) deliver(ctx context.Context, destination, text string) error {
	return common.WithRetry(ctx, func() error {
		return e.notifier.Send(ctx, destination, text)
	}, e.retry)
}

// bumpReminderCount increments the tenant's lifetime reminder counter.
func (e *SweepEngine) bumpReminderCount(ctx context.Context, tenantID string) error {
	profile, err := e.storage.GetProfile(ctx, tenantID)
	if err != nil {
		return fmt.Errorf("%w: loading profile for %s: %v", common.ErrPersistence, tenantID, err)
	}
	profile.TotalReminders++
	profile.LastUpdated = time.Now()
	if err := e.storage.UpsertProfile(ctx, profile); err != nil {
		return fmt.Errorf("%w: updating profile for %s: %v", common.ErrPersistence, tenantID, err)
	}
	return nil
}

// audit writes the notification log row. Audit failures are logged but do
// not affect the sweep outcome.
func (e *SweepEngine) audit(ctx context.Context, target *model.ReminderTarget, stage model.Stage, text string, status model.SendStatus, errMsg string) {
	entry := &model.NotificationLog{
		Category:     "rent",
		RecipientID:  target.Destination,
		RoomNumber:   target.RoomNumber,
		Type:         fmt.Sprintf("%s_reminder", stage),
		Title:        message.Title(stage, target),
		Message:      text,
		Channel:      "line",
		Status:       status,
		ErrorMessage: errMsg,
	}
	if err := e.storage.LogNotification(ctx, entry); err != nil {
		slog.Warn("Failed to write notification log",
			"tenant_id", target.TenantID,
			"error", err)
	}
}

// validateTarget rejects rows the upstream store should not have produced.
func validateTarget(target *model.ReminderTarget) error {
	if target.TenantID == "" {
		return errors.New("missing tenant ID")
	}
	if target.DueDate.IsZero() {
		return errors.New("missing due date")
	}
	if target.Destination == "" {
		return errors.New("missing destination")
	}
	return nil
}
