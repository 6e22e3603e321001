package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/microrent/rentflow/internal/behavior"
	"github.com/microrent/rentflow/internal/cli"
)

func paymentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payment",
		Short: "Record settled rent payments",
	}

	cmd.AddCommand(paymentRecordCmd())

	return cmd
}

func paymentRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Mark an invoice paid and update the tenant's behavior profile",
		Long: `Mark a rent invoice as paid. The payment date is folded into the
tenant's behavioral profile (average delay and on-time rate move by
exponential moving average) and the risk score is recomputed.`,
		RunE: runPaymentRecord,
	}

	cmd.Flags().String("tenant", "", "tenant ID (required)")
	cmd.Flags().String("period", "", "billing period, YYYY-MM (required)")
	cmd.Flags().String("paid-on", "", "payment date, YYYY-MM-DD (default: today)")
	_ = cmd.MarkFlagRequired("tenant")
	_ = cmd.MarkFlagRequired("period")

	return cmd
}

func runPaymentRecord(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	tenantID, _ := cmd.Flags().GetString("tenant")
	period, _ := cmd.Flags().GetString("period")
	year, month, err := parsePeriod(period)
	if err != nil {
		return err
	}

	paidAt := time.Now()
	if s, _ := cmd.Flags().GetString("paid-on"); s != "" {
		paidAt, err = parseDate(s)
		if err != nil {
			return err
		}
	}

	store, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	invoice, err := store.GetInvoice(ctx, tenantID, year, month)
	if err != nil {
		return fmt.Errorf("failed to find invoice for %s %s: %w", tenantID, period, err)
	}

	if err := store.MarkInvoicePaid(ctx, invoice.ID, paidAt); err != nil {
		return fmt.Errorf("failed to mark invoice paid: %w", err)
	}

	profile, err := store.GetProfile(ctx, tenantID)
	if err != nil {
		return err
	}

	behavior.ApplyPayment(profile, invoice.DueDate, paidAt)

	if err := store.UpsertProfile(ctx, profile); err != nil {
		return err
	}

	slog.Info(cli.FormatSuccess(fmt.Sprintf(
		"Payment recorded for %s %s (paid %s, due %s)",
		tenantID, period,
		paidAt.Format("2006-01-02"),
		invoice.DueDate.Format("2006-01-02"))))
	slog.Info("Profile updated",
		"tenant_id", tenantID,
		"risk_score", profile.RiskScore,
		"on_time_rate", fmt.Sprintf("%.2f", profile.OnTimeRate),
		"avg_delay_days", fmt.Sprintf("%.1f", profile.AvgPaymentDelay))

	return nil
}
