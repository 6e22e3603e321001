package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a
// fatal error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Behavioral profiles and reminder history",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS tenant_behavior (
					tenant_id TEXT PRIMARY KEY,
					avg_payment_delay REAL NOT NULL DEFAULT 0,
					on_time_rate REAL NOT NULL DEFAULT 1.0,
					total_reminders INTEGER NOT NULL DEFAULT 0,
					response_rate REAL NOT NULL DEFAULT 0,
					risk_score INTEGER NOT NULL DEFAULT 50,
					last_updated DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS reminder_history (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					tenant_id TEXT NOT NULL,
					rent_month TEXT NOT NULL,
					stage TEXT NOT NULL,
					due_date DATETIME NOT NULL,
					days_before_due INTEGER NOT NULL,
					status TEXT NOT NULL DEFAULT 'sent',
					error_message TEXT,
					sent_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_reminder_tenant ON reminder_history(tenant_id, rent_month)`,
				// One row per stage per tenant per period, even under
				// concurrent sweep instances.
				`CREATE UNIQUE INDEX idx_reminder_stage_once
					ON reminder_history(tenant_id, rent_month, stage)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Rent schedule and tenant contacts",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS payment_schedule (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					tenant_id TEXT NOT NULL,
					tenant_name TEXT NOT NULL,
					room_number TEXT NOT NULL,
					payment_year INTEGER NOT NULL,
					payment_month INTEGER NOT NULL,
					amount TEXT NOT NULL,
					due_date DATETIME NOT NULL,
					status TEXT NOT NULL DEFAULT 'unpaid',
					paid_at DATETIME,
					UNIQUE(tenant_id, payment_year, payment_month)
				)`,
				`CREATE INDEX idx_schedule_status ON payment_schedule(status, due_date)`,

				`CREATE TABLE IF NOT EXISTS tenant_contacts (
					tenant_id TEXT PRIMARY KEY,
					line_user_id TEXT NOT NULL,
					notify_enabled INTEGER NOT NULL DEFAULT 1,
					verified INTEGER NOT NULL DEFAULT 0,
					updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Notification audit log",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS notification_logs (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					category TEXT NOT NULL,
					recipient_id TEXT NOT NULL,
					room_number TEXT,
					notification_type TEXT NOT NULL,
					title TEXT NOT NULL,
					message TEXT NOT NULL,
					channel TEXT NOT NULL,
					status TEXT NOT NULL,
					error_message TEXT,
					sent_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_notification_sent_at ON notification_logs(sent_at)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
}

// Migrate applies all pending schema migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			description TEXT,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	current, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration transaction: %w", err)
		}

		if err := m.Up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Description, err)
		}

		if _, err := tx.Exec(`
			INSERT INTO schema_migrations (version, description) VALUES (?, ?)
		`, m.Version, m.Description); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.Version, err)
		}

		slog.Info("Applied migration",
			"version", m.Version,
			"description", m.Description)
	}

	return nil
}

// SchemaVersion returns the highest applied migration version. A database
// that has never been migrated reports version 0.
func (s *SQLiteStorage) SchemaVersion(ctx context.Context) (int, error) {
	var version sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT MAX(version) FROM schema_migrations
	`).Scan(&version)
	if err != nil {
		if strings.Contains(err.Error(), "no such table") {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return int(version.Int64), nil
}
