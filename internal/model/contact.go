package model

import "time"

// TenantContact is a tenant's notification destination. Reminders are only
// delivered to verified, notification-enabled contacts.
type TenantContact struct {
	UpdatedAt     time.Time
	TenantID      string
	LineUserID    string
	NotifyEnabled bool
	Verified      bool
}
