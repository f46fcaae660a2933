package domain

import (
	"encoding/json"
	"fmt"

	"jornada-tracker/internal/repository/sqlite"
)

// ShiftMapper handles conversion between domain and database shift drafts.
type ShiftMapper struct {
	activities *ActivityMapper
}

// NewShiftMapper creates a new ShiftMapper instance.
func NewShiftMapper() *ShiftMapper {
	return &ShiftMapper{activities: NewActivityMapper()}
}

// ToDatabase converts a domain Shift to a shift row. Activities are
// converted separately with ActivitiesToDatabase.
func (m *ShiftMapper) ToDatabase(s Shift) sqlite.ShiftRecord {
	return sqlite.ShiftRecord{
		ID:          s.ID,
		RemoteID:    s.RemoteID,
		ShiftDate:   s.DateString(),
		OperatorID:  s.OperatorID,
		Status:      string(s.Status),
		LastError:   s.LastError,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
		SubmittedAt: s.SubmittedAt,
	}
}

// FromDatabase rebuilds a domain Shift from its row and activity rows.
func (m *ShiftMapper) FromDatabase(rec sqlite.ShiftRecord, activities []*sqlite.ActivityRecord) (Shift, error) {
	date, err := ParseDate(rec.ShiftDate)
	if err != nil {
		return Shift{}, fmt.Errorf("shift %s: %w", rec.ID, err)
	}

	acts, err := m.activities.FromDatabaseSlice(activities)
	if err != nil {
		return Shift{}, fmt.Errorf("shift %s: %w", rec.ID, err)
	}

	return Shift{
		ID:          rec.ID,
		RemoteID:    rec.RemoteID,
		Date:        date,
		OperatorID:  rec.OperatorID,
		Status:      ShiftStatus(rec.Status),
		Activities:  acts,
		LastError:   rec.LastError,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
		SubmittedAt: rec.SubmittedAt,
	}, nil
}

// ActivitiesToDatabase converts the activities of s in order.
func (m *ShiftMapper) ActivitiesToDatabase(s Shift) ([]*sqlite.ActivityRecord, error) {
	return m.activities.ToDatabaseSlice(s.ID, s.Activities)
}

// ActivityMapper handles conversion between domain and database activities.
type ActivityMapper struct{}

// NewActivityMapper creates a new ActivityMapper instance.
func NewActivityMapper() *ActivityMapper {
	return &ActivityMapper{}
}

// activityDisplay is the JSON stored in the display column.
type activityDisplay struct {
	AreaName           string    `json:"areaNombre,omitempty"`
	ProcessNames       []string  `json:"procesosNombres,omitempty"`
	MachineNames       []string  `json:"maquinaNombres,omitempty"`
	SupplyNames        []string  `json:"insumosNombres,omitempty"`
	TemplateLabel      string    `json:"plantilla,omitempty"`
	AvailableProcesses []Process `json:"availableProcesos,omitempty"`
}

// ToDatabase converts a domain Activity to a row at the given position.
func (m *ActivityMapper) ToDatabase(shiftID string, position int, a Activity) (*sqlite.ActivityRecord, error) {
	processes, err := encodeIDs(a.Processes)
	if err != nil {
		return nil, err
	}
	machines, err := encodeIDs(a.Machines)
	if err != nil {
		return nil, err
	}
	supplies, err := encodeIDs(a.Supplies)
	if err != nil {
		return nil, err
	}
	display, err := json.Marshal(activityDisplay{
		AreaName:           a.AreaName,
		ProcessNames:       a.ProcessNames,
		MachineNames:       a.MachineNames,
		SupplyNames:        a.SupplyNames,
		TemplateLabel:      a.TemplateLabel,
		AvailableProcesses: a.AvailableProcesses,
	})
	if err != nil {
		return nil, fmt.Errorf("encode display: %w", err)
	}

	return &sqlite.ActivityRecord{
		ID:             a.ID,
		ShiftID:        shiftID,
		Position:       position,
		OTI:            a.OTI,
		ProductionArea: a.ProductionArea,
		Processes:      processes,
		Machines:       machines,
		Supplies:       supplies,
		TimeType:       string(a.TimeType),
		PermitType:     string(a.PermitType),
		StartTime:      a.StartTime,
		EndTime:        a.EndTime,
		Observations:   a.Observations,
		Display:        string(display),
	}, nil
}

// FromDatabase converts an activity row to a domain Activity.
func (m *ActivityMapper) FromDatabase(rec sqlite.ActivityRecord) (Activity, error) {
	a := Activity{
		ID:             rec.ID,
		OTI:            rec.OTI,
		ProductionArea: rec.ProductionArea,
		TimeType:       TimeType(rec.TimeType),
		PermitType:     PermitType(rec.PermitType),
		StartTime:      rec.StartTime,
		EndTime:        rec.EndTime,
		Observations:   rec.Observations,
	}

	var err error
	if a.Processes, err = decodeIDs(rec.Processes); err != nil {
		return Activity{}, fmt.Errorf("activity %s processes: %w", rec.ID, err)
	}
	if a.Machines, err = decodeIDs(rec.Machines); err != nil {
		return Activity{}, fmt.Errorf("activity %s machines: %w", rec.ID, err)
	}
	if a.Supplies, err = decodeIDs(rec.Supplies); err != nil {
		return Activity{}, fmt.Errorf("activity %s supplies: %w", rec.ID, err)
	}

	if rec.Display != "" {
		var d activityDisplay
		if err := json.Unmarshal([]byte(rec.Display), &d); err != nil {
			return Activity{}, fmt.Errorf("activity %s display: %w", rec.ID, err)
		}
		a.AreaName = d.AreaName
		a.ProcessNames = d.ProcessNames
		a.MachineNames = d.MachineNames
		a.SupplyNames = d.SupplyNames
		a.TemplateLabel = d.TemplateLabel
		a.AvailableProcesses = d.AvailableProcesses
	}

	return a, nil
}

// ToDatabaseSlice converts activities in order, numbering positions from 0.
func (m *ActivityMapper) ToDatabaseSlice(shiftID string, activities []Activity) ([]*sqlite.ActivityRecord, error) {
	recs := make([]*sqlite.ActivityRecord, len(activities))
	for i, a := range activities {
		rec, err := m.ToDatabase(shiftID, i, a)
		if err != nil {
			return nil, err
		}
		recs[i] = rec
	}
	return recs, nil
}

// FromDatabaseSlice converts activity rows in order.
func (m *ActivityMapper) FromDatabaseSlice(recs []*sqlite.ActivityRecord) ([]Activity, error) {
	activities := make([]Activity, 0, len(recs))
	for _, rec := range recs {
		a, err := m.FromDatabase(*rec)
		if err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}
	return activities, nil
}

func encodeIDs(ids []string) (string, error) {
	if len(ids) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return "", fmt.Errorf("encode ids: %w", err)
	}
	return string(b), nil
}

func decodeIDs(s string) ([]string, error) {
	ids := []string{}
	if s == "" {
		return ids, nil
	}
	if err := json.Unmarshal([]byte(s), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// SessionMapper handles conversion between domain and database sessions.
type SessionMapper struct{}

// NewSessionMapper creates a new SessionMapper instance.
func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

// ToDatabase converts a domain Session to the session row.
func (m *SessionMapper) ToDatabase(s Session) sqlite.SessionRecord {
	return sqlite.SessionRecord{
		OperatorID:   s.OperatorID,
		OperatorName: s.OperatorName,
		UpdatedAt:    s.UpdatedAt,
	}
}

// FromDatabase converts the session row to a domain Session.
func (m *SessionMapper) FromDatabase(rec sqlite.SessionRecord) Session {
	return Session{
		OperatorID:   rec.OperatorID,
		OperatorName: rec.OperatorName,
		UpdatedAt:    rec.UpdatedAt,
	}
}

// Mapper provides a unified interface for all mapping operations.
type Mapper struct {
	Shift    *ShiftMapper
	Activity *ActivityMapper
	Session  *SessionMapper
}

// NewMapper creates a new Mapper instance with all sub-mappers.
func NewMapper() *Mapper {
	return &Mapper{
		Shift:    NewShiftMapper(),
		Activity: NewActivityMapper(),
		Session:  NewSessionMapper(),
	}
}
