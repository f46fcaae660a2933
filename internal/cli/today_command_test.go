package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jornada-tracker/internal/domain"
	"jornada-tracker/internal/live"
	"jornada-tracker/internal/services"
)

func TestTodayCommand_Execute(t *testing.T) {
	app, mock, out := setupTestAppWithMockBusinessAPI(t)
	cmd := NewTodayCommand(app)
	ctx := context.Background()

	err := cmd.Execute(ctx, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no se pudo consultar las actividades de hoy")

	mock.session = domain.Session{OperatorID: "op-1"}
	require.NoError(t, cmd.Execute(ctx, nil))
	assert.Contains(t, out.String(), "No hay actividades registradas")

	mock.today = &services.DaySummary{
		Date: "2024-03-11",
		Activities: []services.DayActivity{
			{
				OTI: "OTI-5", Processes: "Corte", TimeType: domain.TimeTypeOperation,
				StartTime: "07:00", EndTime: "09:00", Minutes: 120,
				State: domain.ActivityTimeState{Status: domain.StatusFinished, PercentComplete: 100, DisplayEndTime: "09:00"},
			},
			{
				OTI: "OTI-6", Processes: "Pulido", TimeType: domain.TimeTypeOperation,
				StartTime: "09:00", Minutes: 0,
				State: domain.ActivityTimeState{Status: domain.StatusInProgress, PercentComplete: 50, ElapsedMinutes: 30},
			},
		},
		EffectiveMinutes: 150,
	}
	out.Reset()
	require.NoError(t, cmd.Execute(ctx, nil))
	text := out.String()
	assert.Contains(t, text, "Actividades del 2024-03-11")
	assert.Contains(t, text, "Finalizada 09:00")
	assert.Contains(t, text, "En curso 50% (30 min)")
	assert.Contains(t, text, "120 min (2h 0m)")
	assert.Contains(t, text, "Tiempo efectivo: 150 min (2h 30m)")
}

func TestTodayCommand_WatchStopsWhenAllFinish(t *testing.T) {
	app, mock, out := setupTestAppWithMockBusinessAPI(t)
	mock.session = domain.Session{OperatorID: "op-1"}

	now := time.Now()
	past := now.Add(-2 * time.Hour)
	soon := now.Add(30 * time.Millisecond)
	start := now.Add(-time.Minute)
	mock.targets = []live.Target{
		{Key: "s1/a1", Start: &past, End: &start},
		{Key: "s1/a2", Start: &start, End: &soon},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, NewTodayCommand(app).Watch(ctx))

	text := out.String()
	assert.Contains(t, text, "s1/a1  Finalizada")
	assert.Contains(t, text, "s1/a2  En curso")
	assert.Contains(t, text, "s1/a2  Finalizada")
	assert.Contains(t, text, "Todas las actividades finalizaron")
	assert.NoError(t, ctx.Err(), "watch returned before the deadline")
}

func TestTodayCommand_WatchCancelled(t *testing.T) {
	app, mock, out := setupTestAppWithMockBusinessAPI(t)
	mock.session = domain.Session{OperatorID: "op-1"}
	mock.targets = []live.Target{{Key: "pending"}}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NoError(t, NewTodayCommand(app).Watch(ctx))
	assert.NotContains(t, out.String(), "Todas las actividades finalizaron")
}

func TestTodayCommand_WatchNothing(t *testing.T) {
	app, mock, out := setupTestAppWithMockBusinessAPI(t)
	mock.session = domain.Session{OperatorID: "op-1"}

	require.NoError(t, NewTodayCommand(app).Watch(context.Background()))
	assert.Contains(t, out.String(), "No hay actividades registradas hoy")
}
