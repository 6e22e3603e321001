// Package storage provides the data persistence layer for the reminder engine.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/microrent/rentflow/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrNilParameter   = errors.New("parameter cannot be nil")
	ErrInvalidProfile = errors.New("invalid behavior profile")
	ErrInvalidEvent   = errors.New("invalid reminder event")
	ErrInvalidInvoice = errors.New("invalid invoice")
	ErrInvalidContact = errors.New("invalid contact")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateProfile checks a behavioral profile's invariants.
func validateProfile(profile *model.TenantBehaviorProfile) error {
	if profile == nil {
		return fmt.Errorf("%w: profile", ErrNilParameter)
	}
	if strings.TrimSpace(profile.TenantID) == "" {
		return fmt.Errorf("%w: missing tenant ID", ErrInvalidProfile)
	}
	if profile.AvgPaymentDelay < 0 {
		return fmt.Errorf("%w: negative average delay", ErrInvalidProfile)
	}
	if profile.OnTimeRate < 0 || profile.OnTimeRate > 1 {
		return fmt.Errorf("%w: on-time rate must be between 0 and 1", ErrInvalidProfile)
	}
	if profile.ResponseRate < 0 || profile.ResponseRate > 1 {
		return fmt.Errorf("%w: response rate must be between 0 and 1", ErrInvalidProfile)
	}
	if profile.TotalReminders < 0 {
		return fmt.Errorf("%w: negative reminder count", ErrInvalidProfile)
	}
	if profile.RiskScore < 0 || profile.RiskScore > 100 {
		return fmt.Errorf("%w: risk score must be between 0 and 100", ErrInvalidProfile)
	}
	return nil
}

// validateEvent checks a reminder event before it is appended.
func validateEvent(event *model.ReminderEvent) error {
	if event == nil {
		return fmt.Errorf("%w: event", ErrNilParameter)
	}
	if strings.TrimSpace(event.TenantID) == "" {
		return fmt.Errorf("%w: missing tenant ID", ErrInvalidEvent)
	}
	if strings.TrimSpace(event.RentMonth) == "" {
		return fmt.Errorf("%w: missing rent month", ErrInvalidEvent)
	}
	if !event.Stage.Valid() {
		return fmt.Errorf("%w: %s", model.ErrUnknownStage, event.Stage)
	}
	if event.DueDate.IsZero() {
		return fmt.Errorf("%w: missing due date", ErrInvalidEvent)
	}
	switch event.Status {
	case model.SendStatusSent, model.SendStatusFailed:
	default:
		return fmt.Errorf("%w: bad status %q", ErrInvalidEvent, event.Status)
	}
	return nil
}

// validateInvoice checks an invoice row.
func validateInvoice(invoice *model.Invoice) error {
	if invoice == nil {
		return fmt.Errorf("%w: invoice", ErrNilParameter)
	}
	if strings.TrimSpace(invoice.TenantID) == "" {
		return fmt.Errorf("%w: missing tenant ID", ErrInvalidInvoice)
	}
	if invoice.Year < 2000 || invoice.Year > 2200 {
		return fmt.Errorf("%w: implausible year %d", ErrInvalidInvoice, invoice.Year)
	}
	if invoice.Month < 1 || invoice.Month > 12 {
		return fmt.Errorf("%w: month %d out of range", ErrInvalidInvoice, invoice.Month)
	}
	if invoice.Amount.IsNegative() {
		return fmt.Errorf("%w: negative amount", ErrInvalidInvoice)
	}
	if invoice.DueDate.IsZero() {
		return fmt.Errorf("%w: missing due date", ErrInvalidInvoice)
	}
	return nil
}

// validateContact checks a contact row.
func validateContact(contact *model.TenantContact) error {
	if contact == nil {
		return fmt.Errorf("%w: contact", ErrNilParameter)
	}
	if strings.TrimSpace(contact.TenantID) == "" {
		return fmt.Errorf("%w: missing tenant ID", ErrInvalidContact)
	}
	if strings.TrimSpace(contact.LineUserID) == "" {
		return fmt.Errorf("%w: missing LINE user ID", ErrInvalidContact)
	}
	return nil
}
