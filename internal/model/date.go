package model

import "time"

// DaysBetween returns the number of whole calendar days from one date to
// another, ignoring the time of day. The result is positive when to is
// after from.
func DaysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}

// PeriodKey returns the year-month key for a due date, used to scope
// reminder history to one billing cycle.
func PeriodKey(dueDate time.Time) string {
	return dueDate.Format("2006-01")
}
