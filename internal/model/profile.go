package model

import "time"

// TenantBehaviorProfile tracks one tenant's historical payment behavior.
// Profiles are created lazily with defaults the first time a tenant is
// evaluated and are never deleted.
type TenantBehaviorProfile struct {
	LastUpdated     time.Time
	TenantID        string
	AvgPaymentDelay float64 // exponential moving average, days, >= 0
	OnTimeRate      float64 // exponential moving average, [0, 1]
	ResponseRate    float64 // reserved; no data source feeds it yet
	TotalReminders  int
	RiskScore       int // derived, [0, 100]
}

// DefaultProfile returns the profile assumed for a tenant with no history.
func DefaultProfile(tenantID string) *TenantBehaviorProfile {
	return &TenantBehaviorProfile{
		TenantID:        tenantID,
		AvgPaymentDelay: 0,
		OnTimeRate:      1.0,
		ResponseRate:    0,
		TotalReminders:  0,
		RiskScore:       50,
	}
}
