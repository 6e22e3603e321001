// Package reminder decides whether and at which escalation stage an unpaid
// invoice should trigger a reminder, based on the tenant's behavioral profile.
package reminder

import (
	"github.com/microrent/rentflow/internal/model"
)

// Minimum reminder history before the behavioral cadence kicks in; below
// this a tenant is treated as unseen.
const minHistoryForAdaptive = 3

// On-time rate thresholds separating reliable, occasional-late and
// high-risk tenants.
const (
	reliableOnTimeRate = 0.9
	casualOnTimeRate   = 0.6
)

// Cadence maps a behavioral profile to an ordered list of day-offsets
// relative to the due date at which escalation is considered. Position in
// the list corresponds to stage: index 0 gates FIRST, 1 gates SECOND,
// 2 gates THIRD. FINAL is governed by the overdue rule alone.
func Cadence(profile *model.TenantBehaviorProfile) []int {
	if profile.TotalReminders < minHistoryForAdaptive {
		// Unseen tenant: standard schedule.
		return []int{1, 5, 10}
	}

	switch {
	case profile.OnTimeRate >= reliableOnTimeRate:
		// Reliable payer: a single gentle nudge is enough.
		return []int{1}
	case profile.OnTimeRate >= casualOnTimeRate:
		// Occasionally late: start on the due date itself.
		return []int{0, 3, 7}
	default:
		// High risk: warn a day early and follow up densely. The last
		// threshold adapts to the tenant's average delay, between 7 and 8
		// days overdue.
		last := profile.AvgPaymentDelay - 2
		if last < 7 {
			last = 7
		}
		if last > 8 {
			last = 8
		}
		// Truncated toward zero after clamping: an average delay of 9.5
		// yields 7, never 8.
		return []int{-1, 2, 5, int(last)}
	}
}
