// Package service defines the interfaces between the reminder engine and
// its collaborators.
package service

import (
	"context"
	"time"

	"github.com/microrent/rentflow/internal/model"
)

// Storage is the contract for the persistence layer: behavioral profiles,
// reminder history, invoices, contacts and the notification audit log.
type Storage interface {
	// Profile operations
	GetProfile(ctx context.Context, tenantID string) (*model.TenantBehaviorProfile, error)
	UpsertProfile(ctx context.Context, profile *model.TenantBehaviorProfile) error

	// Reminder history operations
	SentStages(ctx context.Context, tenantID, rentMonth string) (map[model.Stage]bool, error)
	AppendEvent(ctx context.Context, event *model.ReminderEvent) error
	EventsForTenant(ctx context.Context, tenantID string, limit int) ([]model.ReminderEvent, error)

	// Invoice operations
	ListEligibleUnpaid(ctx context.Context) ([]model.ReminderTarget, error)
	SaveInvoice(ctx context.Context, invoice *model.Invoice) error
	GetInvoice(ctx context.Context, tenantID string, year, month int) (*model.Invoice, error)
	MarkInvoicePaid(ctx context.Context, invoiceID int64, paidAt time.Time) error

	// Contact operations
	SaveContact(ctx context.Context, contact *model.TenantContact) error

	// Notification audit log
	LogNotification(ctx context.Context, entry *model.NotificationLog) error
	RecentNotifications(ctx context.Context, limit int) ([]model.NotificationLog, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// Notifier delivers a rendered reminder to a tenant's destination.
// A failed delivery is reported as an error; implementations never panic.
type Notifier interface {
	Send(ctx context.Context, destination, text string) error
}

// RetryOptions configures bounded retry behavior at the transport boundary.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
