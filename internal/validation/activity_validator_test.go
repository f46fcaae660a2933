package validation

import (
	"errors"
	"testing"

	"jornada-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func completeActivity() domain.Activity {
	return domain.Activity{
		OTI:            "OTI-1001",
		ProductionArea: "area-3",
		Processes:      []string{"p1"},
		Machines:       []string{"m1"},
		Supplies:       []string{"i1"},
		TimeType:       domain.TimeTypeOperation,
		StartTime:      "07:00",
		EndTime:        "09:00",
	}
}

func TestActivityValidator_MissingFields(t *testing.T) {
	av := NewActivityValidator()

	tests := []struct {
		name     string
		modify   func(a *domain.Activity)
		expected []string
	}{
		{name: "complete", modify: func(a *domain.Activity) {}, expected: []string{}},
		{
			name:     "empty activity lists every field in order",
			modify:   func(a *domain.Activity) { *a = domain.Activity{} },
			expected: []string{LabelOTI, LabelArea, LabelMachines, LabelProcesses, LabelSupplies, LabelTimeType, LabelStartTime, LabelEndTime},
		},
		{
			name:     "empty process list",
			modify:   func(a *domain.Activity) { a.Processes = []string{} },
			expected: []string{LabelProcesses},
		},
		{
			name: "labor permit without type or observations",
			modify: func(a *domain.Activity) {
				a.TimeType = domain.TimeTypeLaborPermit
				a.Observations = "   "
			},
			expected: []string{LabelPermitType, LabelObservations},
		},
		{
			name: "labor permit filled in",
			modify: func(a *domain.Activity) {
				a.TimeType = domain.TimeTypeLaborPermit
				a.PermitType = domain.PermitUnpaid
				a.Observations = "Cita médica"
			},
			expected: []string{},
		},
		{
			name: "permit type ignored for other time types",
			modify: func(a *domain.Activity) {
				a.TimeType = domain.TimeTypeFeeding
				a.PermitType = ""
			},
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := completeActivity()
			tt.modify(&a)
			assert.Equal(t, tt.expected, av.MissingFields(a))
		})
	}
}

func TestActivityValidator_ValidateActivity(t *testing.T) {
	av := NewActivityValidator()

	assert.NoError(t, av.ValidateActivity(0, completeActivity()))

	a := completeActivity()
	a.OTI = ""
	a.EndTime = ""
	err := av.ValidateActivity(2, a)
	require.Error(t, err)

	var ve *ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, 3, ve.ActivityIndex)
	assert.Equal(t, "Actividad 3: Faltan los siguientes campos: OTI, Hora de Fin", ve.Error())
	assert.Equal(t, []string{LabelOTI, LabelEndTime}, ve.Fields())
}

func TestActivityValidator_ValidateShift(t *testing.T) {
	av := NewActivityValidator()

	missingProcesses := completeActivity()
	missingProcesses.Processes = nil

	missingOTI := completeActivity()
	missingOTI.OTI = ""

	badTimes := completeActivity()
	badTimes.StartTime = "7h"

	tests := []struct {
		name       string
		activities []domain.Activity
		message    string
	}{
		{name: "valid shift", activities: []domain.Activity{completeActivity(), completeActivity()}},
		{name: "no activities", activities: nil, message: MsgNoActivities},
		{
			name:       "fails fast at the second activity",
			activities: []domain.Activity{completeActivity(), missingProcesses, missingOTI},
			message:    "Actividad 2: Faltan los siguientes campos: Proceso(s)",
		},
		{
			name:       "no usable shift start",
			activities: []domain.Activity{badTimes},
			message:    MsgMissingBounds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := av.ValidateShift(tt.activities)
			if tt.message == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsValidationError(err))
			assert.Equal(t, tt.message, err.Error())
		})
	}
}

func TestActivityValidator_LaborPermitProperty(t *testing.T) {
	av := NewActivityValidator()

	a := completeActivity()
	a.TimeType = domain.TimeTypeLaborPermit
	missing := av.MissingFields(a)
	assert.Contains(t, missing, LabelPermitType)
	assert.Contains(t, missing, LabelObservations)

	a.PermitType = domain.PermitPaid
	a.Observations = "Trámite bancario"
	assert.Empty(t, av.MissingFields(a))
}
