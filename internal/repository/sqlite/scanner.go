package sqlite

import (
	"database/sql"
)

// Scanner interface defines the common scanning behavior for both sql.Row and sql.Rows
type Scanner interface {
	Scan(dest ...interface{}) error
}

// Rows interface defines the common behavior for sql.Rows
type Rows interface {
	Next() bool
	Scan(dest ...interface{}) error
	Err() error
}

// ScanShift scans a single shift from a database row
func ScanShift(scanner Scanner) (*ShiftRecord, error) {
	shift := &ShiftRecord{}
	var remoteID, submittedAt sql.NullString
	var createdAt, updatedAt string

	err := scanner.Scan(
		&shift.ID,
		&remoteID,
		&shift.ShiftDate,
		&shift.OperatorID,
		&shift.Status,
		&shift.LastError,
		&createdAt,
		&updatedAt,
		&submittedAt,
	)
	if err != nil {
		return nil, err
	}

	shift.RemoteID = remoteID.String
	if shift.CreatedAt, err = ParseTimeFromDB(createdAt); err != nil {
		return nil, err
	}
	if shift.UpdatedAt, err = ParseTimeFromDB(updatedAt); err != nil {
		return nil, err
	}
	if submittedAt.Valid && submittedAt.String != "" {
		t, err := ParseTimeFromDB(submittedAt.String)
		if err != nil {
			return nil, err
		}
		shift.SubmittedAt = &t
	}

	return shift, nil
}

// ScanShifts scans multiple shifts from database rows
func ScanShifts(rows Rows) ([]*ShiftRecord, error) {
	return scanAll(rows, ScanShift)
}

// ScanActivity scans a single activity from a database row
func ScanActivity(scanner Scanner) (*ActivityRecord, error) {
	a := &ActivityRecord{}
	err := scanner.Scan(
		&a.ID,
		&a.ShiftID,
		&a.Position,
		&a.OTI,
		&a.ProductionArea,
		&a.Processes,
		&a.Machines,
		&a.Supplies,
		&a.TimeType,
		&a.PermitType,
		&a.StartTime,
		&a.EndTime,
		&a.Observations,
		&a.Display,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ScanActivities scans multiple activities from database rows
func ScanActivities(rows Rows) ([]*ActivityRecord, error) {
	return scanAll(rows, ScanActivity)
}

// ScanSession scans the session row
func ScanSession(scanner Scanner) (*SessionRecord, error) {
	s := &SessionRecord{}
	var updatedAt string
	if err := scanner.Scan(&s.OperatorID, &s.OperatorName, &updatedAt); err != nil {
		return nil, err
	}
	t, err := ParseTimeFromDB(updatedAt)
	if err != nil {
		return nil, err
	}
	s.UpdatedAt = t
	return s, nil
}

func scanAll[T any](rows Rows, scan func(Scanner) (*T, error)) ([]*T, error) {
	var out []*T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return out, nil
}
