package services

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"jornada-tracker/internal/domain"
	"jornada-tracker/internal/errors"
	"jornada-tracker/internal/logging"
	"jornada-tracker/internal/repository/sqlite"
)

// draftServiceImpl implements the DraftService interface
type draftServiceImpl struct {
	repo    sqlite.Repository
	catalog ProcessCatalog
	mapper  *domain.Mapper
	logger  *log.Logger
}

// NewDraftService creates a new DraftService instance. catalog may be nil,
// in which case available processes are not looked up.
func NewDraftService(repo sqlite.Repository, catalog ProcessCatalog, logger *log.Logger) DraftService {
	return &draftServiceImpl{
		repo:    repo,
		catalog: catalog,
		mapper:  domain.NewMapper(),
		logger:  logging.OrDiscard(logger),
	}
}

// CreateDraft starts an empty draft for the session operator
func (d *draftServiceImpl) CreateDraft(ctx context.Context, session domain.Session, date time.Time) (*domain.Shift, error) {
	return d.CreateDraftWithActivities(ctx, session, date, nil)
}

// CreateDraftWithActivities starts a draft seeded with activities
func (d *draftServiceImpl) CreateDraftWithActivities(ctx context.Context, session domain.Session, date time.Time, activities []domain.Activity) (*domain.Shift, error) {
	if !session.IsSet() {
		return nil, errors.NewInvalidInputError("operario", "", "no hay un operario seleccionado")
	}

	shift := &domain.Shift{
		ID:         uuid.NewString(),
		Date:       date,
		OperatorID: session.OperatorID,
		Status:     domain.ShiftDraft,
		Activities: make([]domain.Activity, 0, len(activities)),
	}
	for _, a := range activities {
		shift.Activities = append(shift.Activities, withID(a))
	}

	rec := d.mapper.Shift.ToDatabase(*shift)
	if err := d.repo.CreateShift(ctx, &rec); err != nil {
		return nil, err
	}
	shift.CreatedAt, shift.UpdatedAt = rec.CreatedAt, rec.UpdatedAt

	if len(shift.Activities) > 0 {
		if err := d.saveActivities(ctx, shift); err != nil {
			return nil, err
		}
	}

	d.logger.Debug("draft created", "id", shift.ID, "date", shift.DateString(), "activities", len(shift.Activities))
	return shift, nil
}

// GetDraft loads a draft with its activities
func (d *draftServiceImpl) GetDraft(ctx context.Context, id string) (*domain.Shift, error) {
	rec, err := d.repo.GetShift(ctx, id)
	if err != nil {
		return nil, err
	}
	return d.load(ctx, rec)
}

// ListDrafts lists drafts, newest date first
func (d *draftServiceImpl) ListDrafts(ctx context.Context, filter DraftFilter) ([]*domain.Shift, error) {
	recs, err := d.repo.ListShifts(ctx, sqlite.ShiftFilter{
		OperatorID: filter.OperatorID,
		Status:     string(filter.Status),
		ShiftDate:  filter.Date,
	})
	if err != nil {
		return nil, err
	}

	shifts := make([]*domain.Shift, 0, len(recs))
	for _, rec := range recs {
		shift, err := d.load(ctx, rec)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}
	return shifts, nil
}

// DeleteDraft removes a draft and its activities
func (d *draftServiceImpl) DeleteDraft(ctx context.Context, id string) error {
	return d.repo.DeleteShift(ctx, id)
}

// SaveDraft stores the draft row and its full activity list
func (d *draftServiceImpl) SaveDraft(ctx context.Context, shift *domain.Shift) error {
	rec := d.mapper.Shift.ToDatabase(*shift)
	if err := d.repo.UpdateShift(ctx, &rec); err != nil {
		return err
	}
	shift.UpdatedAt = rec.UpdatedAt
	return d.saveActivities(ctx, shift)
}

// AddActivity appends an activity to a draft
func (d *draftServiceImpl) AddActivity(ctx context.Context, id string, activity domain.Activity) (*domain.Shift, error) {
	shift, err := d.editableDraft(ctx, id)
	if err != nil {
		return nil, err
	}

	activity = d.withCatalog(ctx, withID(activity))
	shift.Activities = append(shift.Activities, activity)

	if err := d.SaveDraft(ctx, shift); err != nil {
		return nil, err
	}
	return shift, nil
}

// AddFromTemplate adds an activity built from a template. Non-empty
// fields of overrides replace the template's. When the draft only holds
// one untouched activity, the template fills it instead of appending.
func (d *draftServiceImpl) AddFromTemplate(ctx context.Context, id, templateKey string, overrides domain.Activity) (*domain.Shift, error) {
	tmpl, ok := domain.TemplateByKey(templateKey)
	if !ok {
		return nil, errors.NewInvalidInputError("plantilla", templateKey, "plantilla desconocida")
	}

	shift, err := d.editableDraft(ctx, id)
	if err != nil {
		return nil, err
	}

	activity := d.withCatalog(ctx, withID(overlay(tmpl.NewActivity(), overrides)))
	if len(activity.Processes) == 0 {
		for _, p := range tmpl.MatchProcesses(activity.AvailableProcesses) {
			activity.Processes = append(activity.Processes, p.ID)
		}
	}

	if len(shift.Activities) == 1 && shift.Activities[0].IsEmpty() {
		activity.ID = shift.Activities[0].ID
		shift.Activities[0] = activity
	} else {
		shift.Activities = append(shift.Activities, activity)
	}

	if err := d.SaveDraft(ctx, shift); err != nil {
		return nil, err
	}
	return shift, nil
}

// UpdateActivity applies a patch to one activity. Changing the time type
// away from a labor permit drops the permit type; changing the area drops
// the selected processes and reloads the available ones.
func (d *draftServiceImpl) UpdateActivity(ctx context.Context, id string, index int, patch ActivityPatch) (*domain.Shift, error) {
	shift, err := d.editableDraft(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkIndex(shift, index); err != nil {
		return nil, err
	}

	a := shift.Activities[index]
	if patch.ProductionArea != nil && *patch.ProductionArea != a.ProductionArea {
		a = d.withCatalog(ctx, a.WithProductionArea(*patch.ProductionArea))
	}
	if patch.TimeType != nil {
		a = a.WithTimeType(*patch.TimeType)
	}
	if patch.OTI != nil {
		a.OTI = *patch.OTI
	}
	if patch.Processes != nil {
		a = a.WithProcesses(patch.Processes)
	}
	if patch.Machines != nil {
		a.Machines = patch.Machines
	}
	if patch.Supplies != nil {
		a.Supplies = patch.Supplies
	}
	if patch.PermitType != nil && a.IsLaborPermit() {
		a.PermitType = *patch.PermitType
	}
	if patch.StartTime != nil {
		a.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		a.EndTime = *patch.EndTime
	}
	if patch.Observations != nil {
		a.Observations = *patch.Observations
	}
	shift.Activities[index] = a

	if err := d.SaveDraft(ctx, shift); err != nil {
		return nil, err
	}
	return shift, nil
}

// RemoveActivity drops one activity of a draft
func (d *draftServiceImpl) RemoveActivity(ctx context.Context, id string, index int) (*domain.Shift, error) {
	shift, err := d.editableDraft(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkIndex(shift, index); err != nil {
		return nil, err
	}

	shift.Activities = append(shift.Activities[:index], shift.Activities[index+1:]...)
	if err := d.SaveDraft(ctx, shift); err != nil {
		return nil, err
	}
	return shift, nil
}

// CopyActivity appends a copy of one activity with a fresh id
func (d *draftServiceImpl) CopyActivity(ctx context.Context, id string, index int) (*domain.Shift, error) {
	shift, err := d.editableDraft(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkIndex(shift, index); err != nil {
		return nil, err
	}

	shift.Activities = append(shift.Activities, withID(shift.Activities[index].Copy()))
	if err := d.SaveDraft(ctx, shift); err != nil {
		return nil, err
	}
	return shift, nil
}

func (d *draftServiceImpl) load(ctx context.Context, rec *sqlite.ShiftRecord) (*domain.Shift, error) {
	acts, err := d.repo.ListActivities(ctx, rec.ID)
	if err != nil {
		return nil, err
	}
	shift, err := d.mapper.Shift.FromDatabase(*rec, acts)
	if err != nil {
		return nil, errors.NewDatabaseError("decode draft", err)
	}
	return &shift, nil
}

func (d *draftServiceImpl) saveActivities(ctx context.Context, shift *domain.Shift) error {
	recs, err := d.mapper.Shift.ActivitiesToDatabase(*shift)
	if err != nil {
		return errors.NewDatabaseError("encode activities", err)
	}
	return d.repo.ReplaceActivities(ctx, shift.ID, recs)
}

// editableDraft loads a draft that has not been submitted yet
func (d *draftServiceImpl) editableDraft(ctx context.Context, id string) (*domain.Shift, error) {
	shift, err := d.GetDraft(ctx, id)
	if err != nil {
		return nil, err
	}
	if shift.Status == domain.ShiftSubmitted {
		return nil, errors.NewInvalidInputError("borrador", id, "la jornada ya fue enviada")
	}
	return shift, nil
}

// withCatalog fills the available processes of an activity's area. A
// failed lookup leaves the list empty.
func (d *draftServiceImpl) withCatalog(ctx context.Context, a domain.Activity) domain.Activity {
	if d.catalog == nil || a.ProductionArea == "" || len(a.AvailableProcesses) > 0 {
		return a
	}
	processes, err := d.catalog.ActiveProcesses(ctx, a.ProductionArea)
	if err != nil {
		d.logger.Warn("process lookup failed", "area", a.ProductionArea, "err", err)
		a.AvailableProcesses = []domain.Process{}
		return a
	}
	a.AvailableProcesses = processes
	return a
}

func withID(a domain.Activity) domain.Activity {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return a
}

func checkIndex(shift *domain.Shift, index int) error {
	if index < 0 || index >= len(shift.Activities) {
		return errors.NewInvalidInputError("actividad", index+1, fmt.Sprintf("la jornada tiene %d actividades", len(shift.Activities)))
	}
	return nil
}

// overlay copies the non-empty fields of o onto base
func overlay(base, o domain.Activity) domain.Activity {
	if o.OTI != "" {
		base.OTI = o.OTI
	}
	if o.ProductionArea != "" {
		base.ProductionArea = o.ProductionArea
	}
	if len(o.Processes) > 0 {
		base = base.WithProcesses(o.Processes)
	}
	if len(o.Machines) > 0 {
		base.Machines = o.Machines
	}
	if len(o.Supplies) > 0 {
		base.Supplies = o.Supplies
	}
	if o.TimeType != "" {
		base = base.WithTimeType(o.TimeType)
	}
	if o.PermitType != "" && base.IsLaborPermit() {
		base.PermitType = o.PermitType
	}
	if o.StartTime != "" {
		base.StartTime = o.StartTime
	}
	if o.EndTime != "" {
		base.EndTime = o.EndTime
	}
	if o.Observations != "" {
		base.Observations = o.Observations
	}
	return base
}
