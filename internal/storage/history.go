package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/microrent/rentflow/internal/common"
	"github.com/microrent/rentflow/internal/model"
)

// SentStages returns the set of stages already recorded for a tenant and
// invoice period. A stage string outside the closed enum fails loudly
// rather than being passed through.
func (s *SQLiteStorage) SentStages(ctx context.Context, tenantID, rentMonth string) (map[model.Stage]bool, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(tenantID, "tenantID"); err != nil {
		return nil, err
	}
	if err := validateString(rentMonth, "rentMonth"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT stage FROM reminder_history
		WHERE tenant_id = ? AND rent_month = ?
	`, tenantID, rentMonth)
	if err != nil {
		return nil, fmt.Errorf("failed to query sent stages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	sent := make(map[model.Stage]bool)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan stage: %w", err)
		}
		stage, err := model.ParseStage(raw)
		if err != nil {
			return nil, fmt.Errorf("reminder_history for %s %s: %w", tenantID, rentMonth, err)
		}
		sent[stage] = true
	}

	return sent, rows.Err()
}

// AppendEvent records one reminder attempt. The unique index on
// (tenant_id, rent_month, stage) guarantees at most one row per stage per
// period even under concurrent sweeps.
func (s *SQLiteStorage) AppendEvent(ctx context.Context, event *model.ReminderEvent) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateEvent(event); err != nil {
		return err
	}

	if event.SentAt.IsZero() {
		event.SentAt = time.Now()
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO reminder_history
			(tenant_id, rent_month, stage, due_date, days_before_due,
			 status, error_message, sent_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		event.TenantID,
		event.RentMonth,
		string(event.Stage),
		event.DueDate,
		event.DaysBeforeDue,
		string(event.Status),
		event.ErrorMessage,
		event.SentAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("%w: stage %s already recorded for %s %s",
				common.ErrDuplicateEntry, event.Stage, event.TenantID, event.RentMonth)
		}
		return fmt.Errorf("failed to append reminder event: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		event.ID = id
	}

	return nil
}

// EventsForTenant lists a tenant's reminder history, most recent first.
func (s *SQLiteStorage) EventsForTenant(ctx context.Context, tenantID string, limit int) ([]model.ReminderEvent, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(tenantID, "tenantID"); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, tenant_id, rent_month, stage, due_date, days_before_due,
		       status, COALESCE(error_message, ''), sent_at
		FROM reminder_history
		WHERE tenant_id = ?
		ORDER BY sent_at DESC
		LIMIT ?
	`, tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminder events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []model.ReminderEvent
	for rows.Next() {
		var e model.ReminderEvent
		var rawStage, rawStatus string
		if err := rows.Scan(
			&e.ID,
			&e.TenantID,
			&e.RentMonth,
			&rawStage,
			&e.DueDate,
			&e.DaysBeforeDue,
			&rawStatus,
			&e.ErrorMessage,
			&e.SentAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan reminder event: %w", err)
		}

		stage, err := model.ParseStage(rawStage)
		if err != nil {
			return nil, fmt.Errorf("reminder_history row %d: %w", e.ID, err)
		}
		e.Stage = stage
		e.Status = model.SendStatus(rawStatus)

		events = append(events, e)
	}

	return events, rows.Err()
}
