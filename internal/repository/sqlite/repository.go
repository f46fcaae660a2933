package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"jornada-tracker/internal/errors"
	"jornada-tracker/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

// Repository defines the interface for draft storage operations
type Repository interface {
	// Shift drafts
	CreateShift(ctx context.Context, shift *ShiftRecord) error
	GetShift(ctx context.Context, id string) (*ShiftRecord, error)
	ListShifts(ctx context.Context, filter ShiftFilter) ([]*ShiftRecord, error)
	UpdateShift(ctx context.Context, shift *ShiftRecord) error
	DeleteShift(ctx context.Context, id string) error

	// Activities of a draft, kept in display order
	ListActivities(ctx context.Context, shiftID string) ([]*ActivityRecord, error)
	ReplaceActivities(ctx context.Context, shiftID string, activities []*ActivityRecord) error

	// Operator session
	GetSession(ctx context.Context) (*SessionRecord, error)
	SaveSession(ctx context.Context, session *SessionRecord) error
	ClearSession(ctx context.Context) error

	// Utility
	Close() error
}

// SQLiteRepository implements the Repository interface
type SQLiteRepository struct {
	db *sql.DB
}

// New creates a new SQLite repository instance
func New(dbPath string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewDatabaseError("open database", err)
	}

	// A second connection to ":memory:" would see an empty database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := migrations.RunMigrations(db); err != nil {
		db.Close()
		return nil, errors.NewDatabaseError("run migrations", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Close closes the database connection
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

const shiftColumns = `id, remote_id, shift_date, operator_id, status, last_error, created_at, updated_at, submitted_at`

// CreateShift inserts a new shift draft
func (r *SQLiteRepository) CreateShift(ctx context.Context, shift *ShiftRecord) error {
	now := time.Now()
	if shift.CreatedAt.IsZero() {
		shift.CreatedAt = now
	}
	shift.UpdatedAt = now

	query := `
	INSERT INTO shifts (` + shiftColumns + `)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	return Execute(ctx, r.db, "create shift", query,
		shift.ID,
		nullableString(shift.RemoteID),
		shift.ShiftDate,
		shift.OperatorID,
		shift.Status,
		shift.LastError,
		FormatTimeForDB(shift.CreatedAt),
		FormatTimeForDB(shift.UpdatedAt),
		FormatTimePtrForDB(shift.SubmittedAt),
	)
}

// GetShift retrieves a shift draft by ID
func (r *SQLiteRepository) GetShift(ctx context.Context, id string) (*ShiftRecord, error) {
	query := `SELECT ` + shiftColumns + ` FROM shifts WHERE id = ?`
	return QuerySingle(ctx, r.db, query, ScanShift, "shift", id, id)
}

// ListShifts retrieves shift drafts matching the filter, newest date first
func (r *SQLiteRepository) ListShifts(ctx context.Context, filter ShiftFilter) ([]*ShiftRecord, error) {
	var conditions []string
	var args []interface{}

	if filter.OperatorID != "" {
		conditions = append(conditions, "operator_id = ?")
		args = append(args, filter.OperatorID)
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.ShiftDate != "" {
		conditions = append(conditions, "shift_date = ?")
		args = append(args, filter.ShiftDate)
	}
	if filter.FromDate != "" {
		conditions = append(conditions, "shift_date >= ?")
		args = append(args, filter.FromDate)
	}
	if filter.ToDate != "" {
		conditions = append(conditions, "shift_date <= ?")
		args = append(args, filter.ToDate)
	}

	query := `SELECT ` + shiftColumns + ` FROM shifts`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY shift_date DESC, created_at DESC"

	return QueryMultiple(ctx, r.db, query, ScanShifts, "shifts", args...)
}

// UpdateShift updates an existing shift draft
func (r *SQLiteRepository) UpdateShift(ctx context.Context, shift *ShiftRecord) error {
	shift.UpdatedAt = time.Now()

	query := `
	UPDATE shifts
	SET remote_id = ?, shift_date = ?, operator_id = ?, status = ?, last_error = ?, updated_at = ?, submitted_at = ?
	WHERE id = ?`

	return ExecuteWithRowsAffected(ctx, r.db, query, "shift", shift.ID,
		nullableString(shift.RemoteID),
		shift.ShiftDate,
		shift.OperatorID,
		shift.Status,
		shift.LastError,
		FormatTimeForDB(shift.UpdatedAt),
		FormatTimePtrForDB(shift.SubmittedAt),
		shift.ID,
	)
}

// DeleteShift deletes a shift draft and its activities
func (r *SQLiteRepository) DeleteShift(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return HandleDatabaseError("begin transaction", err)
	}
	defer tx.Rollback()

	if err := Execute(ctx, tx, "delete activities", `DELETE FROM shift_activities WHERE shift_id = ?`, id); err != nil {
		return err
	}
	if err := ExecuteWithRowsAffected(ctx, tx, `DELETE FROM shifts WHERE id = ?`, "shift", id, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return HandleDatabaseError("commit delete", err)
	}
	return nil
}

const activityColumns = `id, shift_id, position, oti, production_area, processes, machines, supplies, time_type, permit_type, start_time, end_time, observations, display`

// ListActivities retrieves the activities of a shift in position order
func (r *SQLiteRepository) ListActivities(ctx context.Context, shiftID string) ([]*ActivityRecord, error) {
	query := `SELECT ` + activityColumns + ` FROM shift_activities WHERE shift_id = ? ORDER BY position ASC`
	return QueryMultiple(ctx, r.db, query, ScanActivities, "activities", shiftID)
}

// ReplaceActivities swaps the full activity list of a shift in one transaction
func (r *SQLiteRepository) ReplaceActivities(ctx context.Context, shiftID string, activities []*ActivityRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return HandleDatabaseError("begin transaction", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM shifts WHERE id = ?`, shiftID).Scan(&exists); err != nil {
		return HandleDatabaseError("check shift", err)
	}
	if exists == 0 {
		return errors.NewNotFoundError("shift", shiftID)
	}

	if err := Execute(ctx, tx, "clear activities", `DELETE FROM shift_activities WHERE shift_id = ?`, shiftID); err != nil {
		return err
	}

	insert := `INSERT INTO shift_activities (` + activityColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for i, a := range activities {
		a.ShiftID = shiftID
		a.Position = i
		err := Execute(ctx, tx, "insert activity", insert,
			a.ID, a.ShiftID, a.Position, a.OTI, a.ProductionArea,
			jsonOrDefault(a.Processes, "[]"), jsonOrDefault(a.Machines, "[]"), jsonOrDefault(a.Supplies, "[]"),
			a.TimeType, a.PermitType, a.StartTime, a.EndTime, a.Observations,
			jsonOrDefault(a.Display, "{}"),
		)
		if err != nil {
			return err
		}
	}

	if err := Execute(ctx, tx, "touch shift", `UPDATE shifts SET updated_at = ? WHERE id = ?`, FormatTimeForDB(time.Now()), shiftID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return HandleDatabaseError("commit activities", err)
	}
	return nil
}

// GetSession returns the stored operator session
func (r *SQLiteRepository) GetSession(ctx context.Context) (*SessionRecord, error) {
	query := `SELECT operator_id, operator_name, updated_at FROM session WHERE id = 1`
	return QuerySingle(ctx, r.db, query, ScanSession, "session", "current")
}

// SaveSession stores the operator session, replacing any previous one
func (r *SQLiteRepository) SaveSession(ctx context.Context, session *SessionRecord) error {
	session.UpdatedAt = time.Now()
	query := `
	INSERT INTO session (id, operator_id, operator_name, updated_at)
	VALUES (1, ?, ?, ?)
	ON CONFLICT (id) DO UPDATE SET
		operator_id = excluded.operator_id,
		operator_name = excluded.operator_name,
		updated_at = excluded.updated_at`

	return Execute(ctx, r.db, "save session", query, session.OperatorID, session.OperatorName, FormatTimeForDB(session.UpdatedAt))
}

// ClearSession removes the stored operator session
func (r *SQLiteRepository) ClearSession(ctx context.Context) error {
	return Execute(ctx, r.db, "clear session", `DELETE FROM session`)
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func jsonOrDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
