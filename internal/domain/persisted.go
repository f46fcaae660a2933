package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Reference is a backend reference that may arrive either as a bare id
// or as a populated object.
type Reference struct {
	ID   string `json:"_id,omitempty"`
	Name string `json:"nombre,omitempty"`
}

// UnmarshalJSON accepts a string id, null, or an object carrying
// "_id"/"id" and "nombre"/"name".
func (r *Reference) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = Reference{}
		return nil
	}
	if data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = Reference{ID: id}
		return nil
	}

	var obj struct {
		UnderscoreID string `json:"_id"`
		ID           string `json:"id"`
		Nombre       string `json:"nombre"`
		Name         string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("decode reference: %w", err)
	}
	*r = Reference{ID: firstNonEmpty(obj.UnderscoreID, obj.ID), Name: firstNonEmpty(obj.Nombre, obj.Name)}
	return nil
}

// OTIRef is a work-order reference. The backend populates it as
// {numeroOti}; a bare string is taken as the number itself.
type OTIRef struct {
	ID     string `json:"_id,omitempty"`
	Number string `json:"numeroOti,omitempty"`
}

// UnmarshalJSON accepts a string, null, or a populated object.
func (o *OTIRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*o = OTIRef{}
		return nil
	}
	if data[0] == '"' {
		var number string
		if err := json.Unmarshal(data, &number); err != nil {
			return err
		}
		*o = OTIRef{Number: number}
		return nil
	}
	type plain OTIRef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("decode oti: %w", err)
	}
	*o = OTIRef(p)
	return nil
}

// Instant is a backend timestamp; the zero value means absent.
type Instant struct {
	time.Time
}

// UnmarshalJSON accepts RFC3339 strings, "" and null.
func (i *Instant) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte(`""`)) {
		i.Time = time.Time{}
		return nil
	}
	return i.Time.UnmarshalJSON(data)
}

// MarshalJSON writes null for the zero instant.
func (i Instant) MarshalJSON() ([]byte, error) {
	if i.IsZero() {
		return []byte("null"), nil
	}
	return i.Time.MarshalJSON()
}

// Ptr returns nil for the zero instant.
func (i Instant) Ptr() *time.Time {
	if i.IsZero() {
		return nil
	}
	t := i.Time
	return &t
}

// DurationParts is the {horas, minutos} pair the backend reports.
type DurationParts struct {
	Hours          int  `json:"horas"`
	Minutes        int  `json:"minutos"`
	EffectiveTotal *int `json:"tiempoEfectivo,omitempty"`
}

// TotalMinutes folds hours into minutes.
func (d DurationParts) TotalMinutes() int {
	return d.Hours*60 + d.Minutes
}

// PersistedActivity is an activity as read back from the backend.
type PersistedActivity struct {
	ID               string      `json:"_id"`
	OTI              OTIRef      `json:"oti"`
	ProductionArea   Reference   `json:"areaProduccion"`
	Processes        []Reference `json:"procesos"`
	Machines         []Reference `json:"maquina"`
	Supplies         []Reference `json:"insumos"`
	TimeType         TimeType    `json:"tipoTiempo"`
	PermitType       PermitType  `json:"tipoPermiso"`
	StartTime        Instant     `json:"horaInicio"`
	EndTime          Instant     `json:"horaFin"`
	Minutes          int         `json:"tiempo"`
	EstimatedMinutes int         `json:"tiempoEstimado,omitempty"`
	Observations     string      `json:"observaciones"`
}

// ProcessNames returns the names of the populated processes.
func (a PersistedActivity) ProcessNames() []string {
	names := make([]string, 0, len(a.Processes))
	for _, p := range a.Processes {
		if p.Name != "" {
			names = append(names, p.Name)
		}
	}
	return names
}

// IsLunch reports whether any process name contains the lunch keyword.
func (a PersistedActivity) IsLunch() bool {
	return HasLunchProcess(a.ProcessNames())
}

// Estimate returns the duration used when the activity has no end.
func (a PersistedActivity) Estimate() int {
	if a.EstimatedMinutes > 0 {
		return a.EstimatedMinutes
	}
	if a.Minutes > 0 {
		return a.Minutes
	}
	return DefaultEstimatedMinutes
}

// State projects the live state of the activity as of now.
func (a PersistedActivity) State(now time.Time) ActivityTimeState {
	return ProjectActivityState(a.StartTime.Ptr(), a.EndTime.Ptr(), a.Estimate(), now)
}

// PersistedShift is a shift as read back from the backend.
type PersistedShift struct {
	ID            string              `json:"_id"`
	Date          string              `json:"fecha"`
	Operator      Reference           `json:"operario"`
	StartTime     Instant             `json:"horaInicio"`
	EndTime       Instant             `json:"horaFin"`
	Activities    []PersistedActivity `json:"registros"`
	ActivityTotal *DurationParts      `json:"totalTiempoActividades,omitempty"`
	PayableTotal  *DurationParts      `json:"tiempoEfectivoAPagar,omitempty"`
}

// Day returns the "YYYY-MM-DD" part of the shift date.
func (s PersistedShift) Day() string {
	day, _, _ := strings.Cut(s.Date, "T")
	return day
}

// EffectiveMinutes prefers the backend's effective total and falls back
// to hours and minutes.
func (s PersistedShift) EffectiveMinutes() int {
	if s.ActivityTotal == nil {
		return 0
	}
	if s.ActivityTotal.EffectiveTotal != nil {
		return *s.ActivityTotal.EffectiveTotal
	}
	return s.ActivityTotal.TotalMinutes()
}

// HasLunchProcess reports whether any name contains "almuerzo",
// ignoring case.
func HasLunchProcess(names []string) bool {
	for _, name := range names {
		if strings.Contains(strings.ToLower(name), LunchKeyword) {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
