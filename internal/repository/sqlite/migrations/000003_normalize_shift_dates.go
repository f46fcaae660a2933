package migrations

import (
	"database/sql"
	"fmt"
	"time"

	"jornada-tracker/internal/logging"
)

func init() {
	RegisterGoMigration(3, Up_000003_normalize_shift_dates, Down_000003_normalize_shift_dates)
}

// shiftDateLayouts are the formats older drafts were stored with.
var shiftDateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05.000Z",
	"02/01/2006",
}

// Up_000003_normalize_shift_dates rewrites every shift_date to YYYY-MM-DD.
// Dates copied from backend payloads kept their time component, which
// broke equality filters on the calendar day.
func Up_000003_normalize_shift_dates(tx *sql.Tx) error {
	type row struct {
		id   string
		date string
	}
	var rows []row

	result, err := tx.Query("SELECT id, shift_date FROM shifts")
	if err != nil {
		return fmt.Errorf("failed to query shifts: %w", err)
	}
	for result.Next() {
		var r row
		if err := result.Scan(&r.id, &r.date); err != nil {
			result.Close()
			return fmt.Errorf("failed to scan shift: %w", err)
		}
		rows = append(rows, r)
	}
	if err := result.Err(); err != nil {
		result.Close()
		return fmt.Errorf("error iterating shifts: %w", err)
	}
	result.Close()

	stmt, err := tx.Prepare("UPDATE shifts SET shift_date = ? WHERE id = ?")
	if err != nil {
		return fmt.Errorf("failed to prepare shift_date update: %w", err)
	}
	defer stmt.Close()

	updated := 0
	for _, r := range rows {
		normalized, ok := normalizeShiftDate(r.date)
		if !ok {
			logging.Debugf("skipping shift %s: unrecognized date %q\n", r.id, r.date)
			continue
		}
		if normalized == r.date {
			continue
		}
		if _, err := stmt.Exec(normalized, r.id); err != nil {
			return fmt.Errorf("failed to update shift %s: %w", r.id, err)
		}
		updated++
	}

	logging.Debugf("normalized %d of %d shift dates\n", updated, len(rows))
	return nil
}

// Down_000003_normalize_shift_dates is a no-op; the normalized form is
// readable by every version.
func Down_000003_normalize_shift_dates(tx *sql.Tx) error {
	return nil
}

func normalizeShiftDate(s string) (string, bool) {
	if _, err := time.Parse("2006-01-02", s); err == nil {
		return s, true
	}
	for _, layout := range shiftDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}
