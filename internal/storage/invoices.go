package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/microrent/rentflow/internal/common"
	"github.com/microrent/rentflow/internal/model"
)

// ListEligibleUnpaid returns every unpaid invoice whose tenant has a
// verified, notification-enabled LINE destination. Eligibility is decided
// here so the sweep never sees rows it must not touch.
func (s *SQLiteStorage) ListEligibleUnpaid(ctx context.Context) ([]model.ReminderTarget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT ps.id, ps.tenant_id, ps.tenant_name, ps.room_number,
		       ps.payment_year, ps.payment_month, ps.amount, ps.due_date,
		       tc.line_user_id, tc.notify_enabled, tc.verified
		FROM payment_schedule ps
		JOIN tenant_contacts tc ON tc.tenant_id = ps.tenant_id
		WHERE ps.status = 'unpaid'
		  AND tc.notify_enabled = 1
		  AND tc.verified = 1
		ORDER BY ps.due_date, ps.tenant_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query eligible invoices: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var targets []model.ReminderTarget
	for rows.Next() {
		var t model.ReminderTarget
		var rawAmount string
		if err := rows.Scan(
			&t.InvoiceID,
			&t.TenantID,
			&t.TenantName,
			&t.RoomNumber,
			&t.Year,
			&t.Month,
			&rawAmount,
			&t.DueDate,
			&t.Destination,
			&t.NotifyEnabled,
			&t.Verified,
		); err != nil {
			return nil, fmt.Errorf("failed to scan reminder target: %w", err)
		}

		amount, err := decimal.NewFromString(rawAmount)
		if err != nil {
			// One bad row must not starve every other tenant of reminders.
			slog.Error("Skipping invoice with malformed amount",
				"invoice_id", t.InvoiceID,
				"tenant_id", t.TenantID,
				"amount", rawAmount)
			continue
		}
		t.Amount = amount

		targets = append(targets, t)
	}

	return targets, rows.Err()
}

// SaveInvoice inserts or replaces one billing cycle's rent obligation,
// keyed by tenant and period.
func (s *SQLiteStorage) SaveInvoice(ctx context.Context, invoice *model.Invoice) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateInvoice(invoice); err != nil {
		return err
	}

	if invoice.Status == "" {
		invoice.Status = model.StatusUnpaid
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO payment_schedule
			(tenant_id, tenant_name, room_number, payment_year, payment_month,
			 amount, due_date, status, paid_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(tenant_id, payment_year, payment_month) DO UPDATE SET
			tenant_name = excluded.tenant_name,
			room_number = excluded.room_number,
			amount = excluded.amount,
			due_date = excluded.due_date,
			status = excluded.status,
			paid_at = excluded.paid_at
	`,
		invoice.TenantID,
		invoice.TenantName,
		invoice.RoomNumber,
		invoice.Year,
		invoice.Month,
		invoice.Amount.String(),
		invoice.DueDate,
		string(invoice.Status),
		invoice.PaidAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save invoice: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil && invoice.ID == 0 {
		invoice.ID = id
	}

	return nil
}

// GetInvoice retrieves one invoice by tenant and billing period.
func (s *SQLiteStorage) GetInvoice(ctx context.Context, tenantID string, year, month int) (*model.Invoice, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(tenantID, "tenantID"); err != nil {
		return nil, err
	}

	var inv model.Invoice
	var rawAmount, rawStatus string
	var paidAt sql.NullTime
	err := s.db.QueryRowContext(ctx, `
		SELECT id, tenant_id, tenant_name, room_number, payment_year,
		       payment_month, amount, due_date, status, paid_at
		FROM payment_schedule
		WHERE tenant_id = ? AND payment_year = ? AND payment_month = ?
	`, tenantID, year, month).Scan(
		&inv.ID,
		&inv.TenantID,
		&inv.TenantName,
		&inv.RoomNumber,
		&inv.Year,
		&inv.Month,
		&rawAmount,
		&inv.DueDate,
		&rawStatus,
		&paidAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	amount, err := decimal.NewFromString(rawAmount)
	if err != nil {
		return nil, fmt.Errorf("invoice %d has malformed amount %q: %w", inv.ID, rawAmount, err)
	}
	inv.Amount = amount
	inv.Status = model.InvoiceStatus(rawStatus)
	if paidAt.Valid {
		inv.PaidAt = &paidAt.Time
	}

	return &inv, nil
}

// MarkInvoicePaid settles an invoice. The behavioral update is the
// caller's responsibility so the two writes stay independently visible.
func (s *SQLiteStorage) MarkInvoicePaid(ctx context.Context, invoiceID int64, paidAt time.Time) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE payment_schedule
		SET status = 'paid', paid_at = ?
		WHERE id = ?
	`, paidAt, invoiceID)
	if err != nil {
		return fmt.Errorf("failed to mark invoice paid: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}

	return nil
}

// SaveContact inserts or updates a tenant's notification destination.
func (s *SQLiteStorage) SaveContact(ctx context.Context, contact *model.TenantContact) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateContact(contact); err != nil {
		return err
	}

	if contact.UpdatedAt.IsZero() {
		contact.UpdatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tenant_contacts
			(tenant_id, line_user_id, notify_enabled, verified, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(tenant_id) DO UPDATE SET
			line_user_id = excluded.line_user_id,
			notify_enabled = excluded.notify_enabled,
			verified = excluded.verified,
			updated_at = excluded.updated_at
	`,
		contact.TenantID,
		contact.LineUserID,
		contact.NotifyEnabled,
		contact.Verified,
		contact.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save contact: %w", err)
	}

	return nil
}
