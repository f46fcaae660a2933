package validation

import (
	"fmt"
	"strings"

	"jornada-tracker/internal/domain"
)

// Field labels reported for missing activity data, in reporting order.
const (
	LabelOTI          = "OTI"
	LabelArea         = "Área de Producción"
	LabelMachines     = "Maquina(s)"
	LabelProcesses    = "Proceso(s)"
	LabelSupplies     = "Insumo(s)"
	LabelTimeType     = "Tipo de Tiempo"
	LabelPermitType   = "Tipo de Permiso"
	LabelObservations = "Observaciones (requeridas para permisos laborales)"
	LabelStartTime    = "Hora de Inicio"
	LabelEndTime      = "Hora de Fin"
)

// Shift-level messages.
const (
	MsgNoActivities  = "Debe agregar al menos una actividad para guardar la jornada."
	MsgMissingBounds = "Horas de inicio o fin de jornada vacías."
)

// ActivityValidator checks drafts before they are submitted
type ActivityValidator struct {
	validator *Validator
}

// NewActivityValidator creates a new activity validator
func NewActivityValidator() *ActivityValidator {
	return &ActivityValidator{
		validator: NewValidator(),
	}
}

// MissingFields returns the labels of every required field a is missing.
// An empty result means the activity can be submitted.
func (av *ActivityValidator) MissingFields(a domain.Activity) []string {
	v := av.validator
	missing := []string{}

	if !v.IsNonEmptyString(a.OTI) {
		missing = append(missing, LabelOTI)
	}
	if !v.IsNonEmptyString(a.ProductionArea) {
		missing = append(missing, LabelArea)
	}
	if !v.IsNonEmptyList(a.Machines) {
		missing = append(missing, LabelMachines)
	}
	if !v.IsNonEmptyList(a.Processes) {
		missing = append(missing, LabelProcesses)
	}
	if !v.IsNonEmptyList(a.Supplies) {
		missing = append(missing, LabelSupplies)
	}
	if !v.IsNonEmptyString(string(a.TimeType)) {
		missing = append(missing, LabelTimeType)
	}
	if a.IsLaborPermit() {
		if !v.IsNonEmptyString(string(a.PermitType)) {
			missing = append(missing, LabelPermitType)
		}
		if !v.IsNonEmptyString(a.Observations) {
			missing = append(missing, LabelObservations)
		}
	}
	if !v.IsNonEmptyString(a.StartTime) {
		missing = append(missing, LabelStartTime)
	}
	if !v.IsNonEmptyString(a.EndTime) {
		missing = append(missing, LabelEndTime)
	}

	return missing
}

// ValidateActivity returns a *ValidationError listing the missing fields, or nil.
func (av *ActivityValidator) ValidateActivity(index int, a domain.Activity) error {
	missing := av.MissingFields(a)
	if len(missing) == 0 {
		return nil
	}

	validationError := NewValidationError()
	validationError.ActivityIndex = index + 1
	validationError.Summary = fmt.Sprintf("Actividad %d: Faltan los siguientes campos: %s", index+1, strings.Join(missing, ", "))
	for _, label := range missing {
		validationError.AddRequiredError(label)
	}
	return validationError
}

// ValidateShift gates submission of a whole draft. It stops at the first
// activity with missing fields.
func (av *ActivityValidator) ValidateShift(activities []domain.Activity) error {
	if len(activities) == 0 {
		return &ValidationError{Summary: MsgNoActivities}
	}

	for i, a := range activities {
		if err := av.ValidateActivity(i, a); err != nil {
			return err
		}
	}

	start, end := domain.ShiftBounds(activities)
	if start == "" || end == "" {
		return &ValidationError{Summary: MsgMissingBounds}
	}

	return nil
}
