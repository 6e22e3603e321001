package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/microrent/rentflow/internal/cli"
	"github.com/microrent/rentflow/internal/engine"
	"github.com/microrent/rentflow/internal/line"
	"github.com/microrent/rentflow/internal/service"
)

func sweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Evaluate unpaid invoices and send due reminders",
		Long: `Run one reminder sweep: every unpaid invoice with a verified,
notification-enabled tenant is evaluated against that tenant's behavioral
cadence, and at most one new escalation stage is sent per invoice.`,
		RunE: runSweep,
	}

	cmd.Flags().String("as-of", "", "evaluate as of this date (YYYY-MM-DD, default: today)")
	cmd.Flags().Bool("dry-run", false, "evaluate and report without sending or recording")

	_ = viper.BindPFlag("sweep.as_of", cmd.Flags().Lookup("as-of"))
	_ = viper.BindPFlag("sweep.dry_run", cmd.Flags().Lookup("dry-run"))

	return cmd
}

func runSweep(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	asOf := time.Now()
	if s := viper.GetString("sweep.as_of"); s != "" {
		parsed, err := parseDate(s)
		if err != nil {
			return err
		}
		asOf = parsed
	}
	dryRun := viper.GetBool("sweep.dry_run")

	store, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// A missing channel token is fatal before any evaluation happens,
	// unless the run is a dry run that never touches the transport.
	var notifier service.Notifier
	if !dryRun {
		client, err := line.New(viper.GetString("line.channel_token"))
		if err != nil {
			return err
		}
		notifier = client
	}

	cfg := engine.DefaultConfig()
	cfg.DryRun = dryRun
	sweeper := engine.NewWithConfig(store, notifier, cfg)

	slog.Info(cli.FormatTitle("Running reminder sweep..."))

	stats, err := sweeper.RunSweep(ctx, asOf)
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}

	title := fmt.Sprintf("%s Sweep %s", cli.BellIcon, asOf.Format("2006-01-02"))
	if dryRun {
		title += " (dry run)"
	}
	content := fmt.Sprintf(`Evaluated: %d
Sent:      %d
Skipped:   %d
Failed:    %d`,
		stats.Evaluated, stats.Sent, stats.Skipped, stats.Failed)

	slog.Info(cli.RenderBox(title, content))

	if stats.Failed > 0 {
		slog.Warn(cli.FormatWarning(fmt.Sprintf("%d deliveries failed; see notification log", stats.Failed)))
	}

	return nil
}
