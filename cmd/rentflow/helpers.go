package main

import (
	"fmt"
	"time"

	"github.com/microrent/rentflow/internal/common"
	"github.com/microrent/rentflow/internal/config"
	"github.com/microrent/rentflow/internal/storage"
)

// openStorage opens the configured SQLite database. Callers own the
// returned store and must close it.
func openStorage() (*storage.SQLiteStorage, error) {
	dbPath, err := config.DatabasePath()
	if err != nil {
		return nil, err
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, common.NewUserError(
			fmt.Sprintf("could not open the reminder database at %s", dbPath), err)
	}

	return store, nil
}

// parseDate parses a YYYY-MM-DD flag value.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	return t, nil
}

// parsePeriod parses a YYYY-MM flag value into year and month.
func parsePeriod(s string) (int, int, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid period %q (expected YYYY-MM): %w", s, err)
	}
	return t.Year(), int(t.Month()), nil
}
