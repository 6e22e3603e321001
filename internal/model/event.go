package model

import "time"

// SendStatus records the outcome of a reminder delivery attempt.
type SendStatus string

const (
	// SendStatusSent means the transport accepted the message.
	SendStatusSent SendStatus = "sent"
	// SendStatusFailed means the transport rejected or timed out; the stage
	// is still consumed for the period.
	SendStatusFailed SendStatus = "failed"
)

// ReminderEvent is one append-only history record of a reminder that was
// fired (or attempted) for a tenant and invoice period.
type ReminderEvent struct {
	SentAt        time.Time
	DueDate       time.Time
	TenantID      string
	RentMonth     string // year-month key, e.g. "2026-08"
	ErrorMessage  string
	Stage         Stage
	Status        SendStatus
	ID            int64
	DaysBeforeDue int // due date minus send date; negative when overdue
}

// NotificationLog is one audit row for a delivery attempt, regardless of
// outcome. It mirrors what operators see in the history view.
type NotificationLog struct {
	SentAt       time.Time
	Category     string
	RecipientID  string
	RoomNumber   string
	Type         string
	Title        string
	Message      string
	Channel      string
	Status       SendStatus
	ErrorMessage string
	ID           int64
}

// SweepStats aggregates the outcome of one reminder sweep.
type SweepStats struct {
	Evaluated int
	Sent      int
	Skipped   int
	Failed    int
}
