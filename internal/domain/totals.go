package domain

// AggregateInput is the part of an activity that shift totals depend on.
// Times are local "HH:MM"; either may be empty.
type AggregateInput struct {
	StartTime    string
	EndTime      string
	Minutes      int
	TimeType     TimeType
	PermitType   PermitType
	ProcessNames []string
	Observations string
}

// ShiftTotals are the derived time figures of one shift.
type ShiftTotals struct {
	ShiftStart          string   `json:"shiftStart"`
	ShiftEnd            string   `json:"shiftEnd"`
	RawMinutes          int      `json:"rawShiftMinutes"`
	UnpaidPermitMinutes int      `json:"unpaidPermitMinutes"`
	PaidPermitMinutes   int      `json:"paidPermitMinutes"`
	LunchMinutes        int      `json:"lunchMinutes"`
	PayableMinutes      int      `json:"payableMinutes"`
	PayableHours        float64  `json:"payableHours"`
	PaidPermitRanges    []string `json:"paidPermitRanges"`
	UnpaidPermitRanges  []string `json:"unpaidPermitRanges"`
	PermitObservations  []string `json:"permitObservations"`
}

// WorkedMinutes is the shift span without lunch, before permits are taken off.
func (t ShiftTotals) WorkedMinutes() int {
	if t.RawMinutes-t.LunchMinutes < 0 {
		return 0
	}
	return t.RawMinutes - t.LunchMinutes
}

// IsUnpaidPermit reports whether the input is unpaid leave.
func (in AggregateInput) IsUnpaidPermit() bool {
	return in.TimeType == TimeTypeLaborPermit && in.PermitType.IsUnpaid()
}

// IsPaidPermit reports whether the input is paid leave.
func (in AggregateInput) IsPaidPermit() bool {
	return in.TimeType == TimeTypeLaborPermit && in.PermitType.IsPaid()
}

// IsLunch reports whether any process name marks the input as lunch.
func (in AggregateInput) IsLunch() bool {
	return HasLunchProcess(in.ProcessNames)
}

// InputFromDraft builds the aggregate view of a draft activity. Process
// names come from the carried display names and from the available
// processes matching the selected ids.
func InputFromDraft(a Activity) AggregateInput {
	return AggregateInput{
		StartTime:    a.StartTime,
		EndTime:      a.EndTime,
		Minutes:      a.ComputedMinutes(),
		TimeType:     a.TimeType,
		PermitType:   a.PermitType,
		ProcessNames: a.ResolvedProcessNames(),
		Observations: a.Observations,
	}
}

// InputFromPersisted builds the aggregate view of a stored activity, with
// its timestamps converted to local time of day.
func InputFromPersisted(a PersistedActivity) AggregateInput {
	return AggregateInput{
		StartTime:    FormatClock(a.StartTime.Ptr()),
		EndTime:      FormatClock(a.EndTime.Ptr()),
		Minutes:      a.Minutes,
		TimeType:     a.TimeType,
		PermitType:   a.PermitType,
		ProcessNames: a.ProcessNames(),
		Observations: a.Observations,
	}
}

// ResolvedProcessNames lists the names known for the selected processes.
func (a Activity) ResolvedProcessNames() []string {
	names := append([]string(nil), a.ProcessNames...)
	if len(a.AvailableProcesses) == 0 {
		return names
	}

	selected := make(map[string]bool, len(a.Processes))
	for _, id := range a.Processes {
		selected[id] = true
	}
	for _, p := range a.AvailableProcesses {
		if selected[p.ID] && p.Name != "" {
			names = append(names, p.Name)
		}
	}
	return names
}
