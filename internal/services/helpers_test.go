package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"jornada-tracker/internal/backend"
	"jornada-tracker/internal/config"
	"jornada-tracker/internal/domain"
	"jornada-tracker/internal/errors"
	"jornada-tracker/internal/repository/sqlite"
)

// fakeBackend is an in-memory Backend for service tests
type fakeBackend struct {
	mu sync.Mutex

	processes    map[string][]domain.Process
	processErrs  map[string]error
	catalogCalls map[string]int

	shifts        map[string]*domain.PersistedShift
	byOperator    []domain.PersistedShift
	byOperatorErr error
	listed        []domain.PersistedShift
	lastQuery     backend.ShiftQuery

	submitErr    error
	submitResult *backend.SubmitResult
	submitted    []*backend.ShiftPayload
	remoteIDs    []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		processes:    map[string][]domain.Process{},
		processErrs:  map[string]error{},
		catalogCalls: map[string]int{},
		shifts:       map[string]*domain.PersistedShift{},
	}
}

func (f *fakeBackend) ActiveProcesses(ctx context.Context, areaID string) ([]domain.Process, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.catalogCalls[areaID]++
	if err := f.processErrs[areaID]; err != nil {
		return nil, err
	}
	return append([]domain.Process(nil), f.processes[areaID]...), nil
}

func (f *fakeBackend) GetShift(ctx context.Context, id string) (*domain.PersistedShift, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	shift, ok := f.shifts[id]
	if !ok {
		return nil, errors.NewNotFoundError("jornada", id)
	}
	return shift, nil
}

func (f *fakeBackend) ShiftsByOperator(ctx context.Context, operatorID, date string) ([]domain.PersistedShift, error) {
	return f.byOperator, f.byOperatorErr
}

func (f *fakeBackend) ListShifts(ctx context.Context, q backend.ShiftQuery) ([]domain.PersistedShift, error) {
	f.lastQuery = q
	return f.listed, nil
}

func (f *fakeBackend) SubmitShift(ctx context.Context, remoteID string, payload *backend.ShiftPayload) (*backend.SubmitResult, error) {
	f.submitted = append(f.submitted, payload)
	f.remoteIDs = append(f.remoteIDs, remoteID)
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	if f.submitResult != nil {
		return f.submitResult, nil
	}
	return &backend.SubmitResult{ID: "remote-1", Created: remoteID == ""}, nil
}

func setupTestRepo(t *testing.T) sqlite.Repository {
	t.Helper()
	repo, err := config.CreateTestRepository()
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func testSession() domain.Session {
	return domain.Session{OperatorID: "op-1", OperatorName: "Ana"}
}

func testDate(t *testing.T) time.Time {
	t.Helper()
	d, err := domain.ParseDate("2024-03-11")
	require.NoError(t, err)
	return d
}

func completeActivity(start, end string) domain.Activity {
	return domain.Activity{
		OTI:            "OTI-100",
		ProductionArea: "area-1",
		Processes:      []string{"p-1"},
		Machines:       []string{"m-1"},
		Supplies:       []string{"s-1"},
		TimeType:       domain.TimeTypeOperation,
		StartTime:      start,
		EndTime:        end,
	}
}

// at builds a local instant on 2024-03-11
func at(hour, minute int) domain.Instant {
	return domain.Instant{Time: time.Date(2024, 3, 11, hour, minute, 0, 0, time.Local)}
}
