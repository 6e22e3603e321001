package reminder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/microrent/rentflow/internal/model"
)

type fakeProfiles struct {
	profile *model.TenantBehaviorProfile
	err     error
}

func (f *fakeProfiles) GetProfile(_ context.Context, tenantID string) (*model.TenantBehaviorProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.profile != nil {
		return f.profile, nil
	}
	return model.DefaultProfile(tenantID), nil
}

type fakeHistory struct {
	stages map[model.Stage]bool
	err    error
}

func (f *fakeHistory) SentStages(_ context.Context, _, _ string) (map[model.Stage]bool, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.stages == nil {
		return map[model.Stage]bool{}, nil
	}
	return f.stages, nil
}

func stages(s ...model.Stage) map[model.Stage]bool {
	m := make(map[model.Stage]bool, len(s))
	for _, st := range s {
		m[st] = true
	}
	return m
}

// day returns a UTC date offset days after the fixed due date used below.
func day(offset int) time.Time {
	return time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

var dueDate = day(0)

func newEngine(p *fakeProfiles, h *fakeHistory) *DecisionEngine {
	if p == nil {
		p = &fakeProfiles{}
	}
	if h == nil {
		h = &fakeHistory{}
	}
	return NewDecisionEngine(p, h)
}

func TestShouldSendEscalationChain(t *testing.T) {
	tests := []struct {
		name      string
		profile   *model.TenantBehaviorProfile
		sent      map[model.Stage]bool
		asOf      time.Time
		wantStage model.Stage
		wantSend  bool
	}{
		{
			name:      "unseen tenant one day before due fires first",
			asOf:      day(-1),
			wantStage: model.StageFirst,
			wantSend:  true,
		},
		{
			name:     "unseen tenant two days before due fires nothing",
			asOf:     day(-2),
			wantSend: false,
		},
		{
			name:      "first recorded, still before the second threshold, second fires",
			sent:      stages(model.StageFirst),
			asOf:      day(-1),
			wantStage: model.StageSecond,
			wantSend:  true,
		},
		{
			name:      "second recorded, five days overdue, third fires",
			sent:      stages(model.StageFirst, model.StageSecond),
			asOf:      day(5),
			wantStage: model.StageThird,
			wantSend:  true,
		},
		{
			name:     "all early stages recorded, six days overdue, nothing due",
			sent:     stages(model.StageFirst, model.StageSecond, model.StageThird),
			asOf:     day(6),
			wantSend: false,
		},
		{
			name:      "seven days overdue forces final",
			sent:      stages(model.StageFirst, model.StageSecond, model.StageThird),
			asOf:      day(7),
			wantStage: model.StageFinal,
			wantSend:  true,
		},
		{
			name:      "final fires without any earlier history",
			asOf:      day(8),
			wantStage: model.StageFinal,
			wantSend:  true,
		},
		{
			name: "reliable payer has no escalation past the nudge",
			profile: &model.TenantBehaviorProfile{
				TenantID:       "t-1",
				TotalReminders: 10,
				OnTimeRate:     0.95,
			},
			sent:     stages(model.StageFirst),
			asOf:     day(3),
			wantSend: false,
		},
		{
			name: "high risk tenant gets first a day early",
			profile: &model.TenantBehaviorProfile{
				TenantID:        "t-1",
				TotalReminders:  10,
				OnTimeRate:      0.3,
				AvgPaymentDelay: 12,
			},
			asOf:      day(1),
			wantStage: model.StageFirst,
			wantSend:  true,
		},
		{
			name: "high risk tenant still gets the overdue final",
			profile: &model.TenantBehaviorProfile{
				TenantID:        "t-1",
				TotalReminders:  10,
				OnTimeRate:      0.3,
				AvgPaymentDelay: 12,
			},
			sent:      stages(model.StageFirst, model.StageSecond, model.StageThird),
			asOf:      day(8),
			wantStage: model.StageFinal,
			wantSend:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newEngine(
				&fakeProfiles{profile: tt.profile},
				&fakeHistory{stages: tt.sent},
			)

			stage, send, err := engine.ShouldSend(context.Background(), "t-1", dueDate, tt.asOf)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSend, send)
			assert.Equal(t, tt.wantStage, stage)
		})
	}
}

// A same-day re-evaluation after recording FIRST cascades straight into
// SECOND, because the SECOND threshold is a catch-up comparison. The real
// idempotence property is that a recorded stage never fires again.
func TestShouldSendSameDayCascade(t *testing.T) {
	history := &fakeHistory{}
	engine := newEngine(nil, history)
	ctx := context.Background()

	stage, send, err := engine.ShouldSend(ctx, "t-1", dueDate, day(-1))
	require.NoError(t, err)
	require.True(t, send)
	require.Equal(t, model.StageFirst, stage)

	history.stages = stages(model.StageFirst)

	stage, send, err = engine.ShouldSend(ctx, "t-1", dueDate, day(-1))
	require.NoError(t, err)
	assert.True(t, send)
	assert.Equal(t, model.StageSecond, stage)
}

func TestShouldSendRecordedStageNeverRepeats(t *testing.T) {
	// Once every stage is recorded, no re-evaluation at any offset fires.
	history := &fakeHistory{stages: stages(
		model.StageFirst, model.StageSecond, model.StageThird, model.StageFinal,
	)}
	engine := newEngine(nil, history)

	for offset := -2; offset <= 30; offset++ {
		_, send, err := engine.ShouldSend(context.Background(), "t-1", dueDate, day(offset))
		require.NoError(t, err)
		assert.False(t, send, "offset %d", offset)
	}
}

// Pins the exact-day FIRST match: a sweep that skips the one eligible day
// means FIRST never fires, and SECOND stays blocked on its prerequisite
// until the unconditional final kicks in at seven days overdue.
func TestShouldSendMissedFirstDayStallsUntilFinal(t *testing.T) {
	engine := newEngine(nil, nil)
	ctx := context.Background()

	for offset := 0; offset < 7; offset++ {
		stage, send, err := engine.ShouldSend(ctx, "t-1", dueDate, day(offset))
		require.NoError(t, err)
		assert.False(t, send, "offset %d fired %s", offset, stage)
	}

	stage, send, err := engine.ShouldSend(ctx, "t-1", dueDate, day(7))
	require.NoError(t, err)
	assert.True(t, send)
	assert.Equal(t, model.StageFinal, stage)
}

func TestShouldSendStoreErrors(t *testing.T) {
	boom := errors.New("db gone")

	_, _, err := newEngine(&fakeProfiles{err: boom}, nil).
		ShouldSend(context.Background(), "t-1", dueDate, day(0))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)

	_, _, err = newEngine(nil, &fakeHistory{err: boom}).
		ShouldSend(context.Background(), "t-1", dueDate, day(0))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}
