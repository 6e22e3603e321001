package reminder

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/microrent/rentflow/internal/model"
)

func TestCadence(t *testing.T) {
	tests := []struct {
		name    string
		profile model.TenantBehaviorProfile
		want    []int
	}{
		{
			name:    "unseen tenant gets the standard schedule",
			profile: model.TenantBehaviorProfile{TotalReminders: 0, OnTimeRate: 1.0},
			want:    []int{1, 5, 10},
		},
		{
			name: "short history still counts as unseen even when risky",
			profile: model.TenantBehaviorProfile{
				TotalReminders: 2,
				OnTimeRate:     0.1,
				RiskScore:      95,
			},
			want: []int{1, 5, 10},
		},
		{
			name:    "reliable payer gets a single nudge",
			profile: model.TenantBehaviorProfile{TotalReminders: 5, OnTimeRate: 0.95},
			want:    []int{1},
		},
		{
			name:    "reliable boundary at exactly 0.9",
			profile: model.TenantBehaviorProfile{TotalReminders: 5, OnTimeRate: 0.9},
			want:    []int{1},
		},
		{
			name:    "occasionally late starts on the due date",
			profile: model.TenantBehaviorProfile{TotalReminders: 5, OnTimeRate: 0.75},
			want:    []int{0, 3, 7},
		},
		{
			name:    "casual boundary at exactly 0.6",
			profile: model.TenantBehaviorProfile{TotalReminders: 5, OnTimeRate: 0.6},
			want:    []int{0, 3, 7},
		},
		{
			name: "high risk with small delay floors the last threshold at 7",
			profile: model.TenantBehaviorProfile{
				TotalReminders:  5,
				OnTimeRate:      0.4,
				AvgPaymentDelay: 3,
			},
			want: []int{-1, 2, 5, 7},
		},
		{
			name: "high risk with large delay caps the last threshold at 8",
			profile: model.TenantBehaviorProfile{
				TotalReminders:  5,
				OnTimeRate:      0.2,
				AvgPaymentDelay: 15,
			},
			want: []int{-1, 2, 5, 8},
		},
		{
			name: "high risk delay between bounds",
			profile: model.TenantBehaviorProfile{
				TotalReminders:  5,
				OnTimeRate:      0.5,
				AvgPaymentDelay: 9.5,
			},
			want: []int{-1, 2, 5, 7}, // 9.5-2 = 7.5, truncated
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Cadence(&tt.profile))
		})
	}
}

func TestCadenceNewTenantProperty(t *testing.T) {
	// Every profile with fewer than 3 reminders uses [1,5,10], whatever
	// the rest of the profile looks like.
	for reminders := 0; reminders < 3; reminders++ {
		for _, rate := range []float64{0, 0.5, 0.95} {
			p := &model.TenantBehaviorProfile{TotalReminders: reminders, OnTimeRate: rate}
			assert.Equal(t, []int{1, 5, 10}, Cadence(p))
		}
	}
}
