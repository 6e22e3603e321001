// Package message renders per-stage reminder texts. Formatting only; all
// decision logic lives in the reminder package.
package message

import (
	"fmt"
	"time"

	"github.com/microrent/rentflow/internal/model"
)

// Render produces the reminder text for one escalation stage. asOf is the
// sweep time, used to report how long an invoice has been overdue.
func Render(stage model.Stage, target *model.ReminderTarget, asOf time.Time) string {
	due := target.DueDate.Format("2006/01/02")
	amount := target.Amount.StringFixed(0)
	period := fmt.Sprintf("%d/%d", target.Year, target.Month)
	overdueDays := -model.DaysBetween(asOf, target.DueDate)

	switch stage {
	case model.StageFirst:
		return fmt.Sprintf(`Rent payment reminder

Dear %s,

This month's rent is coming due:
Room: %s
Period: %s
Amount: $%s
Due date: %s

Please complete the transfer before the due date. Thank you!`,
			target.TenantName, target.RoomNumber, period, amount, due)

	case model.StageSecond:
		return fmt.Sprintf(`Rent payment notice

Hello %s,

We have not yet received this month's rent:
Room: %s
Period: %s
Amount: $%s
Due date: %s (%d days past due)

Please complete the transfer as soon as possible to avoid affecting
your lease. If circumstances make that difficult, please contact the
landlord to discuss.`,
			target.TenantName, target.RoomNumber, period, amount, due, overdueDays)

	case model.StageThird:
		return fmt.Sprintf(`Overdue rent warning

Hello %s,

Your rent is seriously overdue:
Room: %s
Period: %s
Amount: $%s
Days overdue: %d

Please settle the balance within 2 working days, or further measures
may be taken. If you are having difficulty, contact the landlord
immediately.`,
			target.TenantName, target.RoomNumber, period, amount, overdueDays)

	case model.StageFinal:
		return fmt.Sprintf(`Final notice

%s,

Your rent is more than 7 days overdue:
Room: %s
Period: %s
Amount owed: $%s
Days overdue: %d

This is the final automated notice. The landlord will contact you
directly. Please resolve this immediately.`,
			target.TenantName, target.RoomNumber, period, amount, overdueDays)
	}

	// Unknown stages are rejected upstream; fall back to the gentlest text.
	return Render(model.StageFirst, target, asOf)
}

// Title returns the short audit-log title for a stage and period.
func Title(stage model.Stage, target *model.ReminderTarget) string {
	return fmt.Sprintf("%d/%d rent reminder (%s)", target.Year, target.Month, stage)
}
