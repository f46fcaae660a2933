package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jornada-tracker/internal/domain"
	"jornada-tracker/internal/errors"
)

func storedShift() *domain.PersistedShift {
	return &domain.PersistedShift{
		ID:       "remote-1",
		Date:     "2024-03-11T00:00:00.000Z",
		Operator: domain.Reference{ID: "op-1", Name: "Ana"},
		Activities: []domain.PersistedActivity{
			{
				OTI:            domain.OTIRef{ID: "o1", Number: "OTI-100"},
				ProductionArea: domain.Reference{ID: "area-1", Name: "Corte"},
				Processes:      []domain.Reference{{ID: "p-1", Name: "Corte recto"}},
				Machines:       []domain.Reference{{ID: "m-1", Name: "Sierra"}},
				Supplies:       []domain.Reference{{ID: "s-1"}},
				TimeType:       domain.TimeTypeOperation,
				PermitType:     domain.PermitPaid,
				StartTime:      at(7, 0),
				EndTime:        at(9, 30),
			},
			{
				OTI:            domain.OTIRef{Number: "No Aplica"},
				ProductionArea: domain.Reference{ID: "area-3"},
				TimeType:       domain.TimeTypeLaborPermit,
				PermitType:     domain.PermitUnpaid,
				StartTime:      at(9, 30),
				EndTime:        at(10, 0),
				Observations:   "banco",
			},
			{
				OTI:            domain.OTIRef{Number: "OTI-101"},
				ProductionArea: domain.Reference{ID: "area-1"},
				TimeType:       domain.TimeTypeOperation,
				StartTime:      at(10, 0),
			},
		},
	}
}

func TestToDraftActivity(t *testing.T) {
	a := ToDraftActivity(storedShift().Activities[0])

	assert.Equal(t, "OTI-100", a.OTI)
	assert.Equal(t, "area-1", a.ProductionArea)
	assert.Equal(t, "Corte", a.AreaName)
	assert.Equal(t, []string{"p-1"}, a.Processes)
	assert.Equal(t, []string{"Corte recto"}, a.ProcessNames)
	assert.Equal(t, []string{"m-1"}, a.Machines)
	assert.Equal(t, []string{"s-1"}, a.Supplies)
	assert.Empty(t, a.SupplyNames)
	assert.Equal(t, "07:00", a.StartTime)
	assert.Equal(t, "09:30", a.EndTime)
	assert.Empty(t, a.PermitType, "permit type only applies to labor permits")
	assert.Empty(t, a.ID)
}

func TestDuplicationService_TransformIsolatesLookupFailures(t *testing.T) {
	fb := newFakeBackend()
	fb.processes["area-1"] = []domain.Process{{ID: "p-1", Name: "Corte recto"}}
	fb.processErrs["area-3"] = errors.NewTransportError("GET procesos", assert.AnError)
	svc := NewDuplicationService(fb, fb, nil, 2, nil)

	activities := svc.Transform(context.Background(), *storedShift())

	require.Len(t, activities, 3)
	assert.Equal(t, "OTI-100", activities[0].OTI)
	assert.Equal(t, "No Aplica", activities[1].OTI)
	assert.Equal(t, "OTI-101", activities[2].OTI)

	assert.Len(t, activities[0].AvailableProcesses, 1)
	assert.NotNil(t, activities[1].AvailableProcesses)
	assert.Empty(t, activities[1].AvailableProcesses)
	assert.Len(t, activities[2].AvailableProcesses, 1)

	assert.Equal(t, domain.PermitUnpaid, activities[1].PermitType)
	assert.Equal(t, "banco", activities[1].Observations)
	assert.Equal(t, "", activities[2].EndTime)

	assert.Equal(t, 1, fb.catalogCalls["area-1"], "each area is looked up once")
	assert.Equal(t, 1, fb.catalogCalls["area-3"])
}

// restore rebuilds a stored shift from transformed activities, with
// populated references and absolute timestamps on 2024-03-11.
func restore(t *testing.T, activities []domain.Activity) domain.PersistedShift {
	t.Helper()
	refs := func(ids, names []string) []domain.Reference {
		out := make([]domain.Reference, 0, len(ids))
		for i, id := range ids {
			r := domain.Reference{ID: id}
			if len(names) == len(ids) {
				r.Name = names[i]
			}
			out = append(out, r)
		}
		return out
	}
	instant := func(clock string) domain.Instant {
		if clock == "" {
			return domain.Instant{}
		}
		c, err := domain.ParseClockTime(clock)
		require.NoError(t, err)
		return domain.Instant{Time: time.Date(2024, 3, 11, c.Hour, c.Minute, 0, 0, time.Local)}
	}

	shift := domain.PersistedShift{ID: "remote-2", Date: "2024-03-11T00:00:00.000Z"}
	for _, a := range activities {
		shift.Activities = append(shift.Activities, domain.PersistedActivity{
			OTI:            domain.OTIRef{Number: a.OTI},
			ProductionArea: domain.Reference{ID: a.ProductionArea, Name: a.AreaName},
			Processes:      refs(a.Processes, a.ProcessNames),
			Machines:       refs(a.Machines, a.MachineNames),
			Supplies:       refs(a.Supplies, a.SupplyNames),
			TimeType:       a.TimeType,
			PermitType:     a.PermitType,
			StartTime:      instant(a.StartTime),
			EndTime:        instant(a.EndTime),
			Observations:   a.Observations,
		})
	}
	return shift
}

func TestDuplicationService_TransformIsIdempotent(t *testing.T) {
	ctx := context.Background()
	fb := newFakeBackend()
	fb.processes["area-1"] = []domain.Process{{ID: "p-1", Name: "Corte recto"}}
	svc := NewDuplicationService(fb, fb, nil, 2, nil)

	first := svc.Transform(ctx, *storedShift())
	second := svc.Transform(ctx, restore(t, first))

	withoutCatalog := func(in []domain.Activity) []domain.Activity {
		out := make([]domain.Activity, len(in))
		for i, a := range in {
			a.AvailableProcesses = nil
			out[i] = a
		}
		return out
	}
	require.Len(t, second, len(first))
	assert.Equal(t, withoutCatalog(first), withoutCatalog(second))
	assert.Equal(t, "07:00", second[0].StartTime)
	assert.Equal(t, []string{"Corte recto"}, second[0].ProcessNames)
}

func TestDuplicationService_Duplicate(t *testing.T) {
	ctx := context.Background()
	fb := newFakeBackend()
	fb.shifts["remote-1"] = storedShift()
	fb.processes["area-1"] = []domain.Process{{ID: "p-1", Name: "Corte recto"}}
	drafts := NewDraftService(setupTestRepo(t), fb, nil)
	svc := NewDuplicationService(fb, fb, drafts, 0, nil)

	draft, err := svc.Duplicate(ctx, testSession(), "remote-1", testDate(t).AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, "2024-03-12", draft.DateString())
	assert.Equal(t, domain.ShiftDraft, draft.Status)
	assert.Empty(t, draft.RemoteID)

	loaded, err := drafts.GetDraft(ctx, draft.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Activities, 3)
	assert.Equal(t, "OTI-100", loaded.Activities[0].OTI)
	assert.Equal(t, []string{"Corte recto"}, loaded.Activities[0].ProcessNames)
	assert.NotEmpty(t, loaded.Activities[0].ID)
}

func TestDuplicationService_DuplicateErrors(t *testing.T) {
	ctx := context.Background()
	fb := newFakeBackend()
	fb.shifts["empty"] = &domain.PersistedShift{ID: "empty"}
	drafts := NewDraftService(setupTestRepo(t), fb, nil)
	svc := NewDuplicationService(fb, fb, drafts, 0, nil)

	_, err := svc.Duplicate(ctx, testSession(), "missing", testDate(t))
	assert.True(t, errors.IsErrorType(err, errors.ErrorTypeNotFound))

	_, err = svc.Duplicate(ctx, testSession(), "empty", testDate(t))
	require.Error(t, err)
	assert.Contains(t, errors.GetUserMessage(err), "no hay actividades para duplicar")

	all, err := drafts.ListDrafts(ctx, DraftFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}
