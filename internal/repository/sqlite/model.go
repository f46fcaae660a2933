package sqlite

import "time"

// ShiftRecord is a row of the shifts table.
type ShiftRecord struct {
	ID          string
	RemoteID    string
	ShiftDate   string // YYYY-MM-DD
	OperatorID  string
	Status      string
	LastError   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	SubmittedAt *time.Time // Using pointer to allow NULL values
}

// ActivityRecord is a row of the shift_activities table. List columns
// hold JSON arrays of ids; Display holds JSON with the display names.
type ActivityRecord struct {
	ID             string
	ShiftID        string
	Position       int
	OTI            string
	ProductionArea string
	Processes      string
	Machines       string
	Supplies       string
	TimeType       string
	PermitType     string
	StartTime      string
	EndTime        string
	Observations   string
	Display        string
}

// SessionRecord is the single row of the session table.
type SessionRecord struct {
	OperatorID   string
	OperatorName string
	UpdatedAt    time.Time
}

// ShiftFilter narrows ListShifts. Empty fields do not filter.
type ShiftFilter struct {
	OperatorID string
	Status     string
	ShiftDate  string
	FromDate   string
	ToDate     string
}
