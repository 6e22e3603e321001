// Package behavior computes per-tenant payment risk and applies online
// updates to behavioral profiles as payments settle.
package behavior

import (
	"time"

	"github.com/microrent/rentflow/internal/model"
)

// Smoothing constant for the exponential moving averages.
const alpha = 0.3

// Risk score weights. Delay and on-time rate dominate; response rate is
// reserved until a data source feeds it.
const (
	delayWeight    = 0.4
	onTimeWeight   = 0.4
	responseWeight = 0.2
)

// RiskScore blends average payment delay, on-time rate and response rate
// into a 0-100 score. 100 is maximum risk. The score is non-decreasing in
// delay and non-increasing in on-time rate.
func RiskScore(avgDelay, onTimeRate, responseRate float64) int {
	// Ten or more days of average delay saturates the delay component.
	delayScore := (avgDelay / 10) * 100
	if delayScore > 100 {
		delayScore = 100
	}

	onTimeScore := (1 - onTimeRate) * 100
	responseScore := (1 - responseRate) * 100

	total := delayScore*delayWeight + onTimeScore*onTimeWeight + responseScore*responseWeight

	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}

	return int(total)
}

// ApplyPayment folds one settled payment into the tenant's profile: the
// average delay and on-time rate move by EMA, and the risk score is
// recomputed. The caller persists the updated profile.
func ApplyPayment(profile *model.TenantBehaviorProfile, dueDate, paidDate time.Time) {
	delayDays := model.DaysBetween(dueDate, paidDate)
	onTime := delayDays <= 0

	// Early payments count as zero delay, not negative.
	delaySample := float64(delayDays)
	if delaySample < 0 {
		delaySample = 0
	}

	onTimeSample := 0.0
	if onTime {
		onTimeSample = 1.0
	}

	profile.AvgPaymentDelay = profile.AvgPaymentDelay*(1-alpha) + delaySample*alpha
	profile.OnTimeRate = profile.OnTimeRate*(1-alpha) + onTimeSample*alpha
	profile.RiskScore = RiskScore(profile.AvgPaymentDelay, profile.OnTimeRate, profile.ResponseRate)
	profile.LastUpdated = time.Now()
}
