package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/microrent/rentflow/internal/model"
)

// LogNotification appends one delivery-attempt audit row.
func (s *SQLiteStorage) LogNotification(ctx context.Context, entry *model.NotificationLog) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if entry == nil {
		return fmt.Errorf("%w: entry", ErrNilParameter)
	}

	if entry.SentAt.IsZero() {
		entry.SentAt = time.Now()
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO notification_logs
			(category, recipient_id, room_number, notification_type,
			 title, message, channel, status, error_message, sent_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		entry.Category,
		entry.RecipientID,
		entry.RoomNumber,
		entry.Type,
		entry.Title,
		entry.Message,
		entry.Channel,
		string(entry.Status),
		entry.ErrorMessage,
		entry.SentAt,
	)
	if err != nil {
		return fmt.Errorf("failed to log notification: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		entry.ID = id
	}

	return nil
}

// RecentNotifications lists the latest delivery attempts, newest first.
func (s *SQLiteStorage) RecentNotifications(ctx context.Context, limit int) ([]model.NotificationLog, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category, recipient_id, COALESCE(room_number, ''),
		       notification_type, title, message, channel, status,
		       COALESCE(error_message, ''), sent_at
		FROM notification_logs
		ORDER BY sent_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.NotificationLog
	for rows.Next() {
		var e model.NotificationLog
		var rawStatus string
		if err := rows.Scan(
			&e.ID,
			&e.Category,
			&e.RecipientID,
			&e.RoomNumber,
			&e.Type,
			&e.Title,
			&e.Message,
			&e.Channel,
			&rawStatus,
			&e.ErrorMessage,
			&e.SentAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		e.Status = model.SendStatus(rawStatus)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
