package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"jornada-tracker/internal/api"
	"jornada-tracker/internal/config"
	"jornada-tracker/internal/domain"
	"jornada-tracker/internal/errors"
	"jornada-tracker/internal/live"
	"jornada-tracker/internal/services"
)

// mockBusinessAPI implements the BusinessAPI interface for testing
type mockBusinessAPI struct {
	session domain.Session
	drafts  map[string]*domain.Shift
	order   []string
	nextID  int

	submitErr   error
	duplicated  map[string][]domain.Activity
	today       *services.DaySummary
	targets     []live.Target
	exportCSV   string
	exportCalls []api.ExportOptions
	lastPatch   services.ActivityPatch
}

var _ api.BusinessAPI = (*mockBusinessAPI)(nil)

// newMockBusinessAPI creates a new mock BusinessAPI instance
func newMockBusinessAPI() *mockBusinessAPI {
	return &mockBusinessAPI{
		drafts:     make(map[string]*domain.Shift),
		duplicated: make(map[string][]domain.Activity),
	}
}

func (m *mockBusinessAPI) GetSession(ctx context.Context) (*domain.Session, error) {
	s := m.session
	return &s, nil
}

func (m *mockBusinessAPI) SetSession(ctx context.Context, operatorID, operatorName string) (*domain.Session, error) {
	if operatorID == "" {
		return nil, errors.NewInvalidInputError("operario", operatorID, "el operario es obligatorio")
	}
	m.session = domain.Session{OperatorID: operatorID, OperatorName: operatorName}
	return m.GetSession(ctx)
}

func (m *mockBusinessAPI) ClearSession(ctx context.Context) error {
	m.session = domain.Session{}
	return nil
}

func (m *mockBusinessAPI) requireSession() error {
	if !m.session.IsSet() {
		return errors.NewInvalidInputError("operario", "", "no hay un operario seleccionado")
	}
	return nil
}

func (m *mockBusinessAPI) newDraft(date string, activities []domain.Activity) (*api.DraftView, error) {
	if err := m.requireSession(); err != nil {
		return nil, err
	}
	day := time.Date(2024, 3, 11, 0, 0, 0, 0, time.Local)
	if date != "" {
		parsed, err := domain.ParseDate(date)
		if err != nil {
			return nil, errors.NewValidationError("fecha inválida", err)
		}
		day = parsed
	}
	m.nextID++
	d := &domain.Shift{
		ID:         fmt.Sprintf("d-%d", m.nextID),
		Date:       day,
		OperatorID: m.session.OperatorID,
		Status:     domain.ShiftDraft,
		Activities: activities,
	}
	m.drafts[d.ID] = d
	m.order = append(m.order, d.ID)
	return m.view(d), nil
}

func (m *mockBusinessAPI) draft(id string) (*domain.Shift, error) {
	d, ok := m.drafts[id]
	if !ok {
		return nil, errors.NewNotFoundError("borrador", id)
	}
	return d, nil
}

func (m *mockBusinessAPI) activityAt(id string, index int) (*domain.Shift, error) {
	d, err := m.draft(id)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(d.Activities) {
		return nil, errors.NewInvalidInputError("actividad", index+1, "fuera de rango")
	}
	return d, nil
}

func (m *mockBusinessAPI) view(d *domain.Shift) *api.DraftView {
	v := &api.DraftView{Draft: d, Totals: services.AggregateDraft(*d)}
	if d.Status != domain.ShiftSubmitted && len(d.Activities) == 0 {
		v.Problem = "No hay actividades para guardar"
	}
	return v
}

func (m *mockBusinessAPI) StartDraft(ctx context.Context, date string) (*api.DraftView, error) {
	return m.newDraft(date, nil)
}

func (m *mockBusinessAPI) GetDraft(ctx context.Context, id string) (*api.DraftView, error) {
	d, err := m.draft(id)
	if err != nil {
		return nil, err
	}
	return m.view(d), nil
}

func (m *mockBusinessAPI) ListDrafts(ctx context.Context, status string) ([]*api.DraftView, error) {
	var views []*api.DraftView
	for _, id := range m.order {
		d, ok := m.drafts[id]
		if !ok || (status != "" && string(d.Status) != status) {
			continue
		}
		views = append(views, m.view(d))
	}
	return views, nil
}

func (m *mockBusinessAPI) DeleteDraft(ctx context.Context, id string) error {
	if _, err := m.draft(id); err != nil {
		return err
	}
	delete(m.drafts, id)
	return nil
}

func (m *mockBusinessAPI) AddActivity(ctx context.Context, id, templateKey string, activity domain.Activity) (*api.DraftView, error) {
	d, err := m.draft(id)
	if err != nil {
		return nil, err
	}
	if templateKey != "" {
		tmpl, ok := domain.TemplateByKey(templateKey)
		if !ok {
			return nil, errors.NewInvalidInputError("plantilla", templateKey, "plantilla desconocida")
		}
		base := tmpl.NewActivity()
		base.ProductionArea = activity.ProductionArea
		activity = base
	}
	d.Activities = append(d.Activities, activity)
	return m.view(d), nil
}

func (m *mockBusinessAPI) EditActivity(ctx context.Context, id string, index int, patch services.ActivityPatch) (*api.DraftView, error) {
	d, err := m.activityAt(id, index)
	if err != nil {
		return nil, err
	}
	m.lastPatch = patch
	if patch.EndTime != nil {
		d.Activities[index].EndTime = *patch.EndTime
	}
	if patch.OTI != nil {
		d.Activities[index].OTI = *patch.OTI
	}
	return m.view(d), nil
}

func (m *mockBusinessAPI) RemoveActivity(ctx context.Context, id string, index int) (*api.DraftView, error) {
	d, err := m.activityAt(id, index)
	if err != nil {
		return nil, err
	}
	d.Activities = append(d.Activities[:index], d.Activities[index+1:]...)
	return m.view(d), nil
}

func (m *mockBusinessAPI) CopyActivity(ctx context.Context, id string, index int) (*api.DraftView, error) {
	d, err := m.activityAt(id, index)
	if err != nil {
		return nil, err
	}
	d.Activities = append(d.Activities, d.Activities[index].Copy())
	return m.view(d), nil
}

func (m *mockBusinessAPI) SubmitDraft(ctx context.Context, id string) (*api.DraftView, error) {
	d, err := m.draft(id)
	if err != nil {
		return nil, err
	}
	if m.submitErr != nil {
		d.LastError = errors.GetUserMessage(m.submitErr)
		return nil, m.submitErr
	}
	d.Status = domain.ShiftSubmitted
	d.RemoteID = "remote-" + id
	return m.view(d), nil
}

func (m *mockBusinessAPI) DuplicateShift(ctx context.Context, shiftID, date string) (*api.DraftView, error) {
	activities, ok := m.duplicated[shiftID]
	if !ok {
		return nil, errors.NewNotFoundError("jornada", shiftID)
	}
	return m.newDraft(date, activities)
}

func (m *mockBusinessAPI) Today(ctx context.Context, now time.Time) (*services.DaySummary, error) {
	if err := m.requireSession(); err != nil {
		return nil, err
	}
	if m.today == nil {
		return &services.DaySummary{Date: now.Format(domain.DateLayout)}, nil
	}
	return m.today, nil
}

func (m *mockBusinessAPI) TodayTargets(ctx context.Context) ([]live.Target, error) {
	if err := m.requireSession(); err != nil {
		return nil, err
	}
	return m.targets, nil
}

func (m *mockBusinessAPI) Export(ctx context.Context, w io.Writer, opts api.ExportOptions) (int, error) {
	m.exportCalls = append(m.exportCalls, opts)
	if opts.From != "" && opts.To != "" && opts.From > opts.To {
		return 0, errors.NewValidationError("el rango de fechas es inválido", nil)
	}
	_, err := io.WriteString(w, m.exportCSV)
	return 1, err
}

func (m *mockBusinessAPI) Templates() []domain.ActivityTemplate {
	return domain.Templates()
}

// setupTestAppWithMockBusinessAPI builds an app over the mock, capturing output
func setupTestAppWithMockBusinessAPI(t *testing.T) (*App, *mockBusinessAPI, *bytes.Buffer) {
	t.Helper()
	mock := newMockBusinessAPI()
	out := &bytes.Buffer{}
	cfg := config.NewConfig()
	cfg.Live.TickInterval = 5 * time.Millisecond
	return NewApp(mock, cfg).WithOutput(out), mock, out
}

func completeActivity() domain.Activity {
	return domain.Activity{
		OTI:            "OTI-1",
		ProductionArea: "area-1",
		Processes:      []string{"p-1"},
		Machines:       []string{"m-1"},
		Supplies:       []string{"s-1"},
		TimeType:       domain.TimeTypeOperation,
		StartTime:      "07:00",
		EndTime:        "12:00",
	}
}
