package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/microrent/rentflow/internal/cli"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent reminder activity",
		RunE:  runHistory,
	}

	cmd.Flags().String("tenant", "", "show reminder events for this tenant only")
	cmd.Flags().Int("limit", 10, "maximum rows to show")

	return cmd
}

func runHistory(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	tenantID, _ := cmd.Flags().GetString("tenant")
	limit, _ := cmd.Flags().GetInt("limit")

	if tenantID != "" {
		events, err := store.EventsForTenant(ctx, tenantID, limit)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			slog.Info("No reminder events for tenant", "tenant_id", tenantID)
			return nil
		}

		var b strings.Builder
		for i := range events {
			e := &events[i]
			fmt.Fprintf(&b, "%s  %-7s %-6s %s (due %s)\n",
				e.SentAt.Format("2006-01-02"),
				e.Stage, e.Status, e.RentMonth,
				e.DueDate.Format("2006-01-02"))
		}
		slog.Info(cli.RenderBox(
			fmt.Sprintf("Reminders for %s", tenantID),
			strings.TrimRight(b.String(), "\n")))
		return nil
	}

	logs, err := store.RecentNotifications(ctx, limit)
	if err != nil {
		return err
	}
	if len(logs) == 0 {
		slog.Info("No notifications sent yet")
		return nil
	}

	var b strings.Builder
	for i := range logs {
		l := &logs[i]
		line := fmt.Sprintf("%s  %-6s %-5s %s",
			l.SentAt.Format("2006-01-02 15:04"),
			l.Status, l.RoomNumber, l.Title)
		if l.ErrorMessage != "" {
			line += " " + cli.SubtleStyle.Render("("+l.ErrorMessage+")")
		}
		fmt.Fprintln(&b, line)
	}
	slog.Info(cli.RenderBox("Recent notifications", strings.TrimRight(b.String(), "\n")))
	return nil
}
