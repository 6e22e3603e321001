package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/microrent/rentflow/internal/model"
)

// GetProfile retrieves a tenant's behavioral profile, creating the default
// profile row the first time a tenant is evaluated.
func (s *SQLiteStorage) GetProfile(ctx context.Context, tenantID string) (*model.TenantBehaviorProfile, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(tenantID, "tenantID"); err != nil {
		return nil, err
	}

	var profile model.TenantBehaviorProfile
	err := s.db.QueryRowContext(ctx, `
		SELECT tenant_id, avg_payment_delay, on_time_rate, total_reminders,
		       response_rate, risk_score, last_updated
		FROM tenant_behavior
		WHERE tenant_id = ?
	`, tenantID).Scan(
		&profile.TenantID,
		&profile.AvgPaymentDelay,
		&profile.OnTimeRate,
		&profile.TotalReminders,
		&profile.ResponseRate,
		&profile.RiskScore,
		&profile.LastUpdated,
	)

	if errors.Is(err, sql.ErrNoRows) {
		// Unseen tenant: materialize the default profile so later updates
		// have a row to land on.
		fresh := model.DefaultProfile(tenantID)
		if _, err := s.db.ExecContext(ctx, `
			INSERT INTO tenant_behavior (tenant_id) VALUES (?)
			ON CONFLICT(tenant_id) DO NOTHING
		`, tenantID); err != nil {
			return nil, fmt.Errorf("failed to create default profile: %w", err)
		}
		return fresh, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if err := validateProfile(&profile); err != nil {
		return nil, err
	}

	return &profile, nil
}

// UpsertProfile saves a behavioral profile, replacing any existing row.
func (s *SQLiteStorage) UpsertProfile(ctx context.Context, profile *model.TenantBehaviorProfile) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateProfile(profile); err != nil {
		return err
	}

	if profile.LastUpdated.IsZero() {
		profile.LastUpdated = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tenant_behavior
			(tenant_id, avg_payment_delay, on_time_rate, total_reminders,
			 response_rate, risk_score, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(tenant_id) DO UPDATE SET
			avg_payment_delay = excluded.avg_payment_delay,
			on_time_rate = excluded.on_time_rate,
			total_reminders = excluded.total_reminders,
			response_rate = excluded.response_rate,
			risk_score = excluded.risk_score,
			last_updated = excluded.last_updated
	`,
		profile.TenantID,
		profile.AvgPaymentDelay,
		profile.OnTimeRate,
		profile.TotalReminders,
		profile.ResponseRate,
		profile.RiskScore,
		profile.LastUpdated,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}

	return nil
}

// ListProfiles returns all known behavioral profiles ordered by risk,
// highest first.
func (s *SQLiteStorage) ListProfiles(ctx context.Context) ([]model.TenantBehaviorProfile, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT tenant_id, avg_payment_delay, on_time_rate, total_reminders,
		       response_rate, risk_score, last_updated
		FROM tenant_behavior
		ORDER BY risk_score DESC, tenant_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var profiles []model.TenantBehaviorProfile
	for rows.Next() {
		var p model.TenantBehaviorProfile
		if err := rows.Scan(
			&p.TenantID,
			&p.AvgPaymentDelay,
			&p.OnTimeRate,
			&p.TotalReminders,
			&p.ResponseRate,
			&p.RiskScore,
			&p.LastUpdated,
		); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}

	return profiles, rows.Err()
}
