package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is the payment state of a rent invoice.
type InvoiceStatus string

const (
	// StatusUnpaid marks an invoice that is still outstanding.
	StatusUnpaid InvoiceStatus = "unpaid"
	// StatusPaid marks a settled invoice.
	StatusPaid InvoiceStatus = "paid"
	// StatusOverdue marks an invoice flagged overdue by upstream tooling.
	StatusOverdue InvoiceStatus = "overdue"
)

// Invoice is one billing cycle's rent obligation for a tenant.
type Invoice struct {
	DueDate    time.Time
	PaidAt     *time.Time
	TenantID   string
	TenantName string
	RoomNumber string
	Status     InvoiceStatus
	Amount     decimal.Decimal
	ID         int64
	Year       int
	Month      int
}

// Period returns the year-month key identifying the invoice's billing cycle.
func (i *Invoice) Period() string {
	return fmt.Sprintf("%04d-%02d", i.Year, i.Month)
}

// ReminderTarget is one sweep candidate: an unpaid invoice joined with the
// tenant's notification destination. Only rows with a verified,
// notification-enabled destination are eligible.
type ReminderTarget struct {
	DueDate       time.Time
	TenantID      string
	TenantName    string
	RoomNumber    string
	Destination   string // LINE user ID
	Amount        decimal.Decimal
	InvoiceID     int64
	Year          int
	Month         int
	NotifyEnabled bool
	Verified      bool
}

// Period returns the year-month key for the target's invoice.
func (t *ReminderTarget) Period() string {
	return fmt.Sprintf("%04d-%02d", t.Year, t.Month)
}
