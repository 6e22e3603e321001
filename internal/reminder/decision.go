package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/microrent/rentflow/internal/model"
)

// ProfileReader supplies a tenant's behavioral profile, returning the
// default profile when the tenant has never been seen.
type ProfileReader interface {
	GetProfile(ctx context.Context, tenantID string) (*model.TenantBehaviorProfile, error)
}

// HistoryReader reports which stages were already recorded for a tenant and
// invoice period.
type HistoryReader interface {
	SentStages(ctx context.Context, tenantID, rentMonth string) (map[model.Stage]bool, error)
}

// DecisionEngine is the five-state escalation machine
// (none -> first -> second -> third -> final). Transitions only move
// forward and are scoped to one tenant and invoice period.
type DecisionEngine struct {
	profiles ProfileReader
	history  HistoryReader
}

// NewDecisionEngine creates a decision engine over the given stores.
func NewDecisionEngine(profiles ProfileReader, history HistoryReader) *DecisionEngine {
	return &DecisionEngine{
		profiles: profiles,
		history:  history,
	}
}

// ShouldSend returns the single stage due for the given tenant and due
// date as of asOf, or false when nothing should fire. Profile and history
// are read fresh on every call; callers re-invoke on the next sweep.
//
// The FIRST threshold matches on the exact day only. A sweep skipped on
// that day means FIRST never fires for the period, while SECOND and THIRD
// use catch-up comparisons and tolerate missed runs. That asymmetry is
// long-standing observed behavior and is kept as-is; see the pinning test.
func (e *DecisionEngine) ShouldSend(ctx context.Context, tenantID string, dueDate, asOf time.Time) (model.Stage, bool, error) {
	// Negative means the invoice is overdue.
	daysDiff := model.DaysBetween(asOf, dueDate)

	profile, err := e.profiles.GetProfile(ctx, tenantID)
	if err != nil {
		return "", false, fmt.Errorf("failed to load profile for %s: %w", tenantID, err)
	}

	cadence := Cadence(profile)

	rentMonth := model.PeriodKey(dueDate)
	sent, err := e.history.SentStages(ctx, tenantID, rentMonth)
	if err != nil {
		return "", false, fmt.Errorf("failed to load sent stages for %s %s: %w", tenantID, rentMonth, err)
	}

	slog.Debug("Evaluating reminder",
		"tenant_id", tenantID,
		"rent_month", rentMonth,
		"days_diff", daysDiff,
		"cadence", cadence,
		"risk_score", profile.RiskScore)

	switch {
	case len(cadence) >= 1 && daysDiff == cadence[0] && !sent[model.StageFirst]:
		return model.StageFirst, true, nil

	case len(cadence) >= 2 && daysDiff <= cadence[1] && !sent[model.StageSecond] && sent[model.StageFirst]:
		return model.StageSecond, true, nil

	case len(cadence) >= 3 && daysDiff <= cadence[2] && !sent[model.StageThird] && sent[model.StageSecond]:
		return model.StageThird, true, nil

	case daysDiff <= -7 && !sent[model.StageFinal]:
		// Seven days overdue forces the final notice regardless of which
		// earlier stages ever fired.
		return model.StageFinal, true, nil
	}

	return "", false, nil
}
