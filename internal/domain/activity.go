package domain

import (
	"strings"
	"time"
)

// TimeType classifies what an activity's time was spent on.
// Values are the backend's wire values.
type TimeType string

const (
	TimeTypeOperation    TimeType = "Operación"
	TimeTypePreparation  TimeType = "Preparación"
	TimeTypeFeeding      TimeType = "Alimentación"
	TimeTypeTraining     TimeType = "Capacitación"
	TimeTypeLaborPermit  TimeType = "Permiso Laboral"
	TimeTypeWorkSchedule TimeType = "Horario Laboral"
)

// TimeTypes lists every accepted time type in display order.
var TimeTypes = []TimeType{
	TimeTypeOperation,
	TimeTypePreparation,
	TimeTypeFeeding,
	TimeTypeTraining,
	TimeTypeLaborPermit,
	TimeTypeWorkSchedule,
}

// IsKnown reports whether t is one of TimeTypes.
func (t TimeType) IsKnown() bool {
	for _, known := range TimeTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseTimeType matches s against TimeTypes ignoring case and accents.
func ParseTimeType(s string) (TimeType, bool) {
	needle := foldText(s)
	for _, t := range TimeTypes {
		if foldText(string(t)) == needle {
			return t, true
		}
	}
	return "", false
}

// PermitType distinguishes paid from unpaid leave.
type PermitType string

const (
	PermitPaid   PermitType = "permiso remunerado"
	PermitUnpaid PermitType = "permiso NO remunerado"
)

// IsPaid compares case-insensitively, matching how the backend stores it.
func (p PermitType) IsPaid() bool {
	return strings.EqualFold(strings.TrimSpace(string(p)), string(PermitPaid))
}

// IsUnpaid compares case-insensitively.
func (p PermitType) IsUnpaid() bool {
	return strings.EqualFold(strings.TrimSpace(string(p)), string(PermitUnpaid))
}

// ParsePermitType accepts the wire values and the short forms
// "remunerado" and "no-remunerado".
func ParsePermitType(s string) (PermitType, bool) {
	switch foldText(s) {
	case foldText(string(PermitPaid)), "remunerado", "paid":
		return PermitPaid, true
	case foldText(string(PermitUnpaid)), "no-remunerado", "no remunerado", "unpaid":
		return PermitUnpaid, true
	}
	return "", false
}

// LunchKeyword marks a process as a lunch break when found in its name.
const LunchKeyword = "almuerzo"

// Process is an entry of the per-area process catalog.
type Process struct {
	ID   string `json:"_id"`
	Name string `json:"nombre"`
}

// Activity is a draft activity as edited before submission.
// Times are "HH:MM" strings; either may be empty while editing.
type Activity struct {
	ID                 string     `json:"id,omitempty"`
	OTI                string     `json:"oti"`
	ProductionArea     string     `json:"areaProduccion"`
	Processes          []string   `json:"procesos"`
	Machines           []string   `json:"maquina"`
	Supplies           []string   `json:"insumos"`
	TimeType           TimeType   `json:"tipoTiempo"`
	PermitType         PermitType `json:"tipoPermiso,omitempty"`
	StartTime          string     `json:"horaInicio"`
	EndTime            string     `json:"horaFin"`
	Observations       string     `json:"observaciones"`
	AvailableProcesses []Process  `json:"availableProcesos,omitempty"`

	// Display names carried over when an activity is duplicated.
	AreaName      string   `json:"areaNombre,omitempty"`
	ProcessNames  []string `json:"procesosNombres,omitempty"`
	MachineNames  []string `json:"maquinaNombres,omitempty"`
	SupplyNames   []string `json:"insumosNombres,omitempty"`
	TemplateLabel string   `json:"plantilla,omitempty"`
}

// ComputedMinutes is the length of the activity's interval, honoring
// midnight crossing. It is derived and never authoritative.
func (a Activity) ComputedMinutes() int {
	return MinutesBetween(a.StartTime, a.EndTime)
}

// IsLaborPermit reports whether the activity is a leave entry.
func (a Activity) IsLaborPermit() bool {
	return a.TimeType == TimeTypeLaborPermit
}

// IsEmpty reports whether no field an operator fills in has been set.
func (a Activity) IsEmpty() bool {
	return a.OTI == "" &&
		a.ProductionArea == "" &&
		len(a.Machines) == 0 &&
		len(a.Processes) == 0 &&
		len(a.Supplies) == 0 &&
		a.TimeType == "" &&
		a.StartTime == "" &&
		a.EndTime == ""
}

// WithTimeType sets the time type and clears the permit type unless the
// new type is a labor permit.
func (a Activity) WithTimeType(tt TimeType) Activity {
	a.TimeType = tt
	if tt != TimeTypeLaborPermit {
		a.PermitType = ""
	}
	return a
}

// WithProductionArea sets the area and drops every process selection,
// since processes are only valid within their area.
func (a Activity) WithProductionArea(areaID string) Activity {
	if a.ProductionArea != areaID {
		a.ProcessNames = nil
	}
	a.ProductionArea = areaID
	a.Processes = []string{}
	a.AvailableProcesses = nil
	return a
}

// WithProcesses replaces the selected processes. Names carried over from
// a duplicated shift describe the old selection and are dropped when it
// changes.
func (a Activity) WithProcesses(ids []string) Activity {
	if !sameStrings(a.Processes, ids) {
		a.ProcessNames = nil
	}
	a.Processes = ids
	return a
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Copy returns a deep copy without an id, ready to be appended as a new activity.
func (a Activity) Copy() Activity {
	c := a
	c.ID = ""
	c.Processes = cloneStrings(a.Processes)
	c.Machines = cloneStrings(a.Machines)
	c.Supplies = cloneStrings(a.Supplies)
	c.ProcessNames = cloneStrings(a.ProcessNames)
	c.MachineNames = cloneStrings(a.MachineNames)
	c.SupplyNames = cloneStrings(a.SupplyNames)
	if a.AvailableProcesses != nil {
		c.AvailableProcesses = append([]Process(nil), a.AvailableProcesses...)
	}
	return c
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

// ShiftStatus tracks a local draft through submission.
type ShiftStatus string

const (
	ShiftDraft     ShiftStatus = "draft"
	ShiftSubmitted ShiftStatus = "submitted"
)

// Shift is a local draft of an operator's work day.
type Shift struct {
	ID          string
	RemoteID    string
	Date        time.Time
	OperatorID  string
	Status      ShiftStatus
	Activities  []Activity
	LastError   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	SubmittedAt *time.Time
}

// DateString renders the shift date as "YYYY-MM-DD".
func (s Shift) DateString() string {
	return s.Date.Format(DateLayout)
}

// IsEditingRemote reports whether submitting updates an existing backend shift.
func (s Shift) IsEditingRemote() bool {
	return s.RemoteID != ""
}

// DateLayout is the calendar date format used on the wire and in the CLI.
const DateLayout = "2006-01-02"

// ParseDate parses a "YYYY-MM-DD" date at local midnight.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.Local)
}

// Session identifies the operator working with the tool.
type Session struct {
	OperatorID   string
	OperatorName string
	UpdatedAt    time.Time
}

// IsSet reports whether an operator has been selected.
func (s Session) IsSet() bool {
	return strings.TrimSpace(s.OperatorID) != ""
}
