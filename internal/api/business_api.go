package api

import (
	"context"
	"io"
	"strings"
	"time"

	"jornada-tracker/internal/config"
	"jornada-tracker/internal/domain"
	"jornada-tracker/internal/errors"
	"jornada-tracker/internal/live"
	"jornada-tracker/internal/services"
	"jornada-tracker/internal/validation"
)

// DraftView is a draft together with what the operator needs to see
// before submitting it.
type DraftView struct {
	Draft  *domain.Shift      `json:"draft"`
	Totals domain.ShiftTotals `json:"totals"`
	// Problem is the first reason the draft cannot be submitted yet.
	Problem string `json:"problem,omitempty"`
}

// ReadyToSubmit reports whether the draft passed validation
func (v *DraftView) ReadyToSubmit() bool {
	return v.Problem == ""
}

// ExportOptions selects the shifts of a payroll export
type ExportOptions struct {
	From string
	To   string
	// AllOperators exports every operator instead of the session one.
	AllOperators bool
}

// BusinessAPI is the workflow-level interface the CLI talks to
type BusinessAPI interface {
	// ========== Session ==========

	GetSession(ctx context.Context) (*domain.Session, error)
	SetSession(ctx context.Context, operatorID, operatorName string) (*domain.Session, error)
	ClearSession(ctx context.Context) error

	// ========== Drafts ==========

	// StartDraft creates an empty draft for the session operator. An
	// empty date means today.
	StartDraft(ctx context.Context, date string) (*DraftView, error)
	GetDraft(ctx context.Context, id string) (*DraftView, error)
	// ListDrafts lists the session operator's drafts, optionally by status
	ListDrafts(ctx context.Context, status string) ([]*DraftView, error)
	DeleteDraft(ctx context.Context, id string) error

	// AddActivity appends activity, or a template filled with it when
	// templateKey is set.
	AddActivity(ctx context.Context, id, templateKey string, activity domain.Activity) (*DraftView, error)
	EditActivity(ctx context.Context, id string, index int, patch services.ActivityPatch) (*DraftView, error)
	RemoveActivity(ctx context.Context, id string, index int) (*DraftView, error)
	CopyActivity(ctx context.Context, id string, index int) (*DraftView, error)
	SubmitDraft(ctx context.Context, id string) (*DraftView, error)

	// ========== Stored shifts ==========

	// DuplicateShift copies a stored shift into a new draft
	DuplicateShift(ctx context.Context, shiftID, date string) (*DraftView, error)
	// Today summarizes the session operator's recorded work of today
	Today(ctx context.Context, now time.Time) (*services.DaySummary, error)
	// TodayTargets lists today's stored activities for live watching
	TodayTargets(ctx context.Context) ([]live.Target, error)
	// Export writes the payroll CSV and returns the number of shifts
	Export(ctx context.Context, w io.Writer, opts ExportOptions) (int, error)

	// ========== Reference data ==========

	Templates() []domain.ActivityTemplate
}

// businessAPIImpl implements the BusinessAPI interface
type businessAPIImpl struct {
	services  *services.ServiceContainer
	reader    services.ShiftReader
	validator *validation.Validator
}

// NewBusinessAPI creates a new BusinessAPI instance
func NewBusinessAPI(svc *services.ServiceContainer, reader services.ShiftReader, cfg *config.Config) BusinessAPI {
	return &businessAPIImpl{
		services:  svc,
		reader:    reader,
		validator: validation.NewValidatorWithConfig(cfg),
	}
}

// ========== Session ==========

func (b *businessAPIImpl) GetSession(ctx context.Context) (*domain.Session, error) {
	return b.services.SessionService.GetSession(ctx)
}

func (b *businessAPIImpl) SetSession(ctx context.Context, operatorID, operatorName string) (*domain.Session, error) {
	return b.services.SessionService.SetSession(ctx, operatorID, operatorName)
}

func (b *businessAPIImpl) ClearSession(ctx context.Context) error {
	return b.services.SessionService.ClearSession(ctx)
}

// ========== Drafts ==========

func (b *businessAPIImpl) StartDraft(ctx context.Context, date string) (*DraftView, error) {
	session, err := b.services.SessionService.RequireSession(ctx)
	if err != nil {
		return nil, err
	}
	day, err := b.shiftDate(date)
	if err != nil {
		return nil, err
	}
	draft, err := b.services.DraftService.CreateDraft(ctx, *session, day)
	if err != nil {
		return nil, err
	}
	return b.view(draft), nil
}

func (b *businessAPIImpl) GetDraft(ctx context.Context, id string) (*DraftView, error) {
	draft, err := b.services.DraftService.GetDraft(ctx, id)
	if err != nil {
		return nil, err
	}
	return b.view(draft), nil
}

func (b *businessAPIImpl) ListDrafts(ctx context.Context, status string) ([]*DraftView, error) {
	session, err := b.services.SessionService.GetSession(ctx)
	if err != nil {
		return nil, err
	}

	filter := services.DraftFilter{OperatorID: session.OperatorID}
	switch domain.ShiftStatus(strings.TrimSpace(status)) {
	case "":
	case domain.ShiftDraft, domain.ShiftSubmitted:
		filter.Status = domain.ShiftStatus(strings.TrimSpace(status))
	default:
		return nil, errors.NewInvalidInputError("estado", status, "usa 'draft' o 'submitted'")
	}

	drafts, err := b.services.DraftService.ListDrafts(ctx, filter)
	if err != nil {
		return nil, err
	}
	views := make([]*DraftView, 0, len(drafts))
	for _, d := range drafts {
		views = append(views, b.view(d))
	}
	return views, nil
}

func (b *businessAPIImpl) DeleteDraft(ctx context.Context, id string) error {
	return b.services.DraftService.DeleteDraft(ctx, id)
}

func (b *businessAPIImpl) AddActivity(ctx context.Context, id, templateKey string, activity domain.Activity) (*DraftView, error) {
	var (
		draft *domain.Shift
		err   error
	)
	if strings.TrimSpace(templateKey) != "" {
		draft, err = b.services.DraftService.AddFromTemplate(ctx, id, templateKey, activity)
	} else {
		draft, err = b.services.DraftService.AddActivity(ctx, id, activity)
	}
	if err != nil {
		return nil, err
	}
	return b.view(draft), nil
}

func (b *businessAPIImpl) EditActivity(ctx context.Context, id string, index int, patch services.ActivityPatch) (*DraftView, error) {
	draft, err := b.services.DraftService.UpdateActivity(ctx, id, index, patch)
	if err != nil {
		return nil, err
	}
	return b.view(draft), nil
}

func (b *businessAPIImpl) RemoveActivity(ctx context.Context, id string, index int) (*DraftView, error) {
	draft, err := b.services.DraftService.RemoveActivity(ctx, id, index)
	if err != nil {
		return nil, err
	}
	return b.view(draft), nil
}

func (b *businessAPIImpl) CopyActivity(ctx context.Context, id string, index int) (*DraftView, error) {
	draft, err := b.services.DraftService.CopyActivity(ctx, id, index)
	if err != nil {
		return nil, err
	}
	return b.view(draft), nil
}

func (b *businessAPIImpl) SubmitDraft(ctx context.Context, id string) (*DraftView, error) {
	draft, err := b.services.SubmissionService.Submit(ctx, id)
	if err != nil {
		return nil, err
	}
	return b.view(draft), nil
}

// ========== Stored shifts ==========

func (b *businessAPIImpl) DuplicateShift(ctx context.Context, shiftID, date string) (*DraftView, error) {
	session, err := b.services.SessionService.RequireSession(ctx)
	if err != nil {
		return nil, err
	}
	day, err := b.shiftDate(date)
	if err != nil {
		return nil, err
	}
	draft, err := b.services.DuplicationService.Duplicate(ctx, *session, strings.TrimSpace(shiftID), day)
	if err != nil {
		return nil, err
	}
	return b.view(draft), nil
}

func (b *businessAPIImpl) Today(ctx context.Context, now time.Time) (*services.DaySummary, error) {
	session, err := b.services.SessionService.RequireSession(ctx)
	if err != nil {
		return nil, err
	}
	return b.services.ReportingService.DaySummary(ctx, session.OperatorID, now.Format(domain.DateLayout), now)
}

func (b *businessAPIImpl) TodayTargets(ctx context.Context) ([]live.Target, error) {
	session, err := b.services.SessionService.RequireSession(ctx)
	if err != nil {
		return nil, err
	}
	today := b.services.TimeService.Today().Format(domain.DateLayout)
	shifts, err := b.reader.ShiftsByOperator(ctx, session.OperatorID, today)
	if err != nil {
		return nil, err
	}

	var targets []live.Target
	for _, s := range shifts {
		for _, t := range live.TargetsFromShift(s) {
			if s.ID != "" {
				t.Key = s.ID + "/" + t.Key
			}
			targets = append(targets, t)
		}
	}
	return targets, nil
}

func (b *businessAPIImpl) Export(ctx context.Context, w io.Writer, opts ExportOptions) (int, error) {
	if _, _, err := b.validator.ValidateDateRange(opts.From, opts.To); err != nil {
		return 0, errors.NewValidationError(validationMessage(err), err)
	}

	q := services.ExportQuery{From: strings.TrimSpace(opts.From), To: strings.TrimSpace(opts.To)}
	if !opts.AllOperators {
		session, err := b.services.SessionService.RequireSession(ctx)
		if err != nil {
			return 0, err
		}
		q.Operator = session.OperatorID
	}
	return b.services.ReportingService.Export(ctx, w, q)
}

// ========== Reference data ==========

func (b *businessAPIImpl) Templates() []domain.ActivityTemplate {
	return domain.Templates()
}

// ========== Helpers ==========

func (b *businessAPIImpl) shiftDate(date string) (time.Time, error) {
	day, err := b.services.TimeService.ParseShiftDate(date)
	if err != nil {
		return time.Time{}, errors.NewValidationError(validationMessage(err), err)
	}
	return day, nil
}

func (b *businessAPIImpl) view(draft *domain.Shift) *DraftView {
	v := &DraftView{
		Draft:  draft,
		Totals: services.AggregateDraft(*draft),
	}
	if draft.Status != domain.ShiftSubmitted {
		if err := b.services.SubmissionService.ValidateDraft(*draft); err != nil {
			v.Problem = errors.GetUserMessage(err)
		}
	}
	return v
}

func validationMessage(err error) string {
	if ve, ok := err.(*validation.ValidationError); ok {
		return ve.GetUserFriendlyMessage()
	}
	return err.Error()
}
