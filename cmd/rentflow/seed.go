package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/schollz/progressbar/v3"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/microrent/rentflow/internal/cli"
	"github.com/microrent/rentflow/internal/model"
)

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load invoices and contacts from CSV files",
		Long: `Populate the rent schedule and tenant contacts from CSV exports of
the property dashboard, so sweeps can run against a fresh database.`,
	}

	cmd.AddCommand(seedInvoicesCmd())
	cmd.AddCommand(seedContactsCmd())

	return cmd
}

func seedInvoicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "invoices <file.csv>",
		Short: "Import rent invoices (tenant_id,tenant_name,room,year,month,amount,due_date)",
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

			records, err := readCSV(args[0])
			if err != nil {
				return err
			}

			bar := newSeedBar(len(records), "Importing invoices...")

			imported := 0
			for i, rec := range records {
				if len(rec) != 7 {
					return fmt.Errorf("row %d: expected 7 columns, got %d", i+1, len(rec))
				}

				year, err := strconv.Atoi(rec[3])
				if err != nil {
					return fmt.Errorf("row %d: bad year %q: %w", i+1, rec[3], err)
				}
				month, err := strconv.Atoi(rec[4])
				if err != nil {
					return fmt.Errorf("row %d: bad month %q: %w", i+1, rec[4], err)
				}
				amount, err := decimal.NewFromString(rec[5])
				if err != nil {
					return fmt.Errorf("row %d: bad amount %q: %w", i+1, rec[5], err)
				}
				dueDate, err := parseDate(rec[6])
				if err != nil {
					return fmt.Errorf("row %d: %w", i+1, err)
				}

				invoice := &model.Invoice{
					TenantID:   rec[0],
					TenantName: rec[1],
					RoomNumber: rec[2],
					Year:       year,
					Month:      month,
					Amount:     amount,
					DueDate:    dueDate,
					Status:     model.StatusUnpaid,
				}
				if err := store.SaveInvoice(ctx, invoice); err != nil {
					return fmt.Errorf("row %d: %w", i+1, err)
				}

				imported++
				_ = bar.Add(1)
			}

			slog.Info(cli.FormatSuccess(fmt.Sprintf("Imported %d invoices", imported)))
			return nil
		},
	}
}

func seedContactsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contacts <file.csv>",
		Short: "Import tenant contacts (tenant_id,line_user_id,notify_enabled,verified)",
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

			records, err := readCSV(args[0])
			if err != nil {
				return err
			}

			bar := newSeedBar(len(records), "Importing contacts...")

			imported := 0
			for i, rec := range records {
				if len(rec) != 4 {
					return fmt.Errorf("row %d: expected 4 columns, got %d", i+1, len(rec))
				}

				notify, err := strconv.ParseBool(rec[2])
				if err != nil {
					return fmt.Errorf("row %d: bad notify_enabled %q: %w", i+1, rec[2], err)
				}
				verified, err := strconv.ParseBool(rec[3])
				if err != nil {
					return fmt.Errorf("row %d: bad verified %q: %w", i+1, rec[3], err)
				}

				contact := &model.TenantContact{
					TenantID:      rec[0],
					LineUserID:    rec[1],
					NotifyEnabled: notify,
					Verified:      verified,
				}
				if err := store.SaveContact(ctx, contact); err != nil {
					return fmt.Errorf("row %d: %w", i+1, err)
				}

				imported++
				_ = bar.Add(1)
			}

			slog.Info(cli.FormatSuccess(fmt.Sprintf("Imported %d contacts", imported)))
			return nil
		},
	}
}

// readCSV loads all rows, skipping a header row when the first cell is the
// literal column name.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	var records [][]string
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if len(rec) > 0 && rec[0] == "tenant_id" {
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}

func newSeedBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]"+description+"[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)
}
