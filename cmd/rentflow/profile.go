package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/microrent/rentflow/internal/cli"
	"github.com/microrent/rentflow/internal/model"
)

func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Inspect tenant behavior profiles",
	}

	cmd.AddCommand(profileShowCmd())
	cmd.AddCommand(profileListCmd())

	return cmd
}

func profileShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <tenant-id>",
		Short: "Show one tenant's behavior profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Migrate(ctx); err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}

			profile, err := store.GetProfile(ctx, args[0])
			if err != nil {
				return err
			}

			slog.Info(cli.RenderBox(
				fmt.Sprintf("Tenant %s", profile.TenantID),
				formatProfile(profile)))
			return nil
		},
	}
}

func profileListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all behavior profiles, highest risk first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStorage()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Migrate(ctx); err != nil {
				return fmt.Errorf("failed to migrate database: %w", err)
			}

			profiles, err := store.ListProfiles(ctx)
			if err != nil {
				return err
			}

			if len(profiles) == 0 {
				slog.Info("No behavior profiles recorded yet")
				return nil
			}

			var b strings.Builder
			for i := range profiles {
				p := &profiles[i]
				fmt.Fprintf(&b, "%-12s risk %3d  on-time %.0f%%  avg delay %.1fd  reminders %d\n",
					p.TenantID, p.RiskScore, p.OnTimeRate*100, p.AvgPaymentDelay, p.TotalReminders)
			}
			slog.Info(cli.RenderBox("Tenant risk overview", strings.TrimRight(b.String(), "\n")))
			return nil
		},
	}
}

func formatProfile(p *model.TenantBehaviorProfile) string {
	return fmt.Sprintf(`Risk score:      %d / 100
On-time rate:    %.0f%%
Avg delay:       %.1f days
Reminders sent:  %d
Last updated:    %s`,
		p.RiskScore,
		p.OnTimeRate*100,
		p.AvgPaymentDelay,
		p.TotalReminders,
		p.LastUpdated.Format("2006-01-02 15:04"))
}
