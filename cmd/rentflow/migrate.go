package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/microrent/rentflow/internal/cli"
	"github.com/microrent/rentflow/internal/storage"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE:  runMigrate,
	}

	cmd.Flags().Bool("status", false, "show the current schema version without migrating")

	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	statusOnly, _ := cmd.Flags().GetBool("status")
	if statusOnly {
		version, err := store.SchemaVersion(ctx)
		if err != nil {
			return err
		}
		slog.Info("Schema status",
			"current_version", version,
			"expected_version", storage.ExpectedSchemaVersion)
		return nil
	}

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	slog.Info(cli.FormatSuccess("Database schema is up to date"))
	return nil
}
