package services

import (
	"context"
	"io"
	"time"

	"jornada-tracker/internal/backend"
	"jornada-tracker/internal/domain"
)

// ProcessCatalog looks up the active processes of a production area.
type ProcessCatalog interface {
	ActiveProcesses(ctx context.Context, areaID string) ([]domain.Process, error)
}

// ShiftReader reads persisted shifts from the backend.
type ShiftReader interface {
	GetShift(ctx context.Context, id string) (*domain.PersistedShift, error)
	ShiftsByOperator(ctx context.Context, operatorID, date string) ([]domain.PersistedShift, error)
	ListShifts(ctx context.Context, q backend.ShiftQuery) ([]domain.PersistedShift, error)
}

// ShiftSubmitter stores a shift on the backend.
type ShiftSubmitter interface {
	SubmitShift(ctx context.Context, remoteID string, payload *backend.ShiftPayload) (*backend.SubmitResult, error)
}

// Backend is everything the services need from the REST backend.
type Backend interface {
	ProcessCatalog
	ShiftReader
	ShiftSubmitter
}

// DraftFilter narrows the draft listing
type DraftFilter struct {
	OperatorID string
	Status     domain.ShiftStatus
	Date       string
}

// ActivityPatch changes selected fields of a draft activity. Nil fields
// are left alone.
type ActivityPatch struct {
	OTI            *string
	ProductionArea *string
	Processes      []string
	Machines       []string
	Supplies       []string
	TimeType       *domain.TimeType
	PermitType     *domain.PermitType
	StartTime      *string
	EndTime        *string
	Observations   *string
}

// DayActivity is one activity of the day with its live state.
type DayActivity struct {
	ShiftID      string                   `json:"shiftId"`
	OTI          string                   `json:"oti"`
	Processes    string                   `json:"procesos"`
	TimeType     domain.TimeType          `json:"tipoTiempo"`
	StartTime    string                   `json:"horaInicio"`
	EndTime      string                   `json:"horaFin"`
	Minutes      int                      `json:"tiempo"`
	State        domain.ActivityTimeState `json:"state"`
	startInstant *time.Time
}

// DaySummary is an operator's recorded work for one date.
type DaySummary struct {
	OperatorID       string             `json:"operatorId"`
	Date             string             `json:"fecha"`
	Activities       []DayActivity      `json:"activities"`
	Totals           domain.ShiftTotals `json:"totals"`
	EffectiveMinutes int                `json:"effectiveMinutes"`
}

// ExportQuery selects the shifts of a payroll export.
type ExportQuery struct {
	Operator string
	From     string
	To       string
}

// TimeService formats durations and resolves dates
type TimeService interface {
	FormatMinutes(minutes int) string
	FormatMinutesWithTotal(minutes int) string
	ParseShiftDate(s string) (time.Time, error)
	Today() time.Time
	IsToday(t time.Time) bool
}

// SessionService manages the operator session
type SessionService interface {
	GetSession(ctx context.Context) (*domain.Session, error)
	SetSession(ctx context.Context, operatorID, operatorName string) (*domain.Session, error)
	ClearSession(ctx context.Context) error
	RequireSession(ctx context.Context) (*domain.Session, error)
}

// DraftService handles the lifecycle of local shift drafts
type DraftService interface {
	CreateDraft(ctx context.Context, session domain.Session, date time.Time) (*domain.Shift, error)
	CreateDraftWithActivities(ctx context.Context, session domain.Session, date time.Time, activities []domain.Activity) (*domain.Shift, error)
	GetDraft(ctx context.Context, id string) (*domain.Shift, error)
	ListDrafts(ctx context.Context, filter DraftFilter) ([]*domain.Shift, error)
	DeleteDraft(ctx context.Context, id string) error
	SaveDraft(ctx context.Context, shift *domain.Shift) error

	AddActivity(ctx context.Context, id string, activity domain.Activity) (*domain.Shift, error)
	AddFromTemplate(ctx context.Context, id, templateKey string, overrides domain.Activity) (*domain.Shift, error)
	UpdateActivity(ctx context.Context, id string, index int, patch ActivityPatch) (*domain.Shift, error)
	RemoveActivity(ctx context.Context, id string, index int) (*domain.Shift, error)
	CopyActivity(ctx context.Context, id string, index int) (*domain.Shift, error)
}

// SubmissionService validates drafts and sends them to the backend
type SubmissionService interface {
	ValidateDraft(shift domain.Shift) error
	Submit(ctx context.Context, id string) (*domain.Shift, error)
}

// DuplicationService turns stored shifts into new drafts
type DuplicationService interface {
	Transform(ctx context.Context, shift domain.PersistedShift) []domain.Activity
	Duplicate(ctx context.Context, session domain.Session, shiftID string, date time.Time) (*domain.Shift, error)
}

// ReportingService builds summaries and exports from persisted shifts
type ReportingService interface {
	DaySummary(ctx context.Context, operatorID, date string, now time.Time) (*DaySummary, error)
	ShiftTotals(ctx context.Context, shiftID string) (*domain.ShiftTotals, error)
	Export(ctx context.Context, w io.Writer, q ExportQuery) (int, error)
}

// ServiceContainer manages all services and their dependencies
type ServiceContainer struct {
	TimeService        TimeService
	SessionService     SessionService
	DraftService       DraftService
	SubmissionService  SubmissionService
	DuplicationService DuplicationService
	ReportingService   ReportingService
}
