package sqlite

import (
	"time"
)

// FormatTimeForDB formats a time.Time value as RFC3339 for storage
func FormatTimeForDB(t time.Time) string {
	return t.Format(time.RFC3339)
}

// FormatTimePtrForDB formats a *time.Time value, returning nil for a nil pointer
func FormatTimePtrForDB(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return FormatTimeForDB(*t)
}

// ParseTimeFromDB parses a stored timestamp. Rows written by the
// migrations table default use SQLite's "YYYY-MM-DD HH:MM:SS" form.
func ParseTimeFromDB(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	if t, sqliteErr := time.Parse("2006-01-02 15:04:05", s); sqliteErr == nil {
		return t, nil
	}
	return time.Time{}, err
}
