package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"jornada-tracker/internal/backend"
	"jornada-tracker/internal/domain"
	"jornada-tracker/internal/logging"
)

// reportingServiceImpl implements the ReportingService interface
type reportingServiceImpl struct {
	reader      ShiftReader
	timeService TimeService
	exportLimit int
	logger      *log.Logger
}

// NewReportingService creates a new ReportingService instance
func NewReportingService(reader ShiftReader, timeService TimeService, exportLimit int, logger *log.Logger) ReportingService {
	return &reportingServiceImpl{
		reader:      reader,
		timeService: timeService,
		exportLimit: exportLimit,
		logger:      logging.OrDiscard(logger),
	}
}

// DaySummary collects every activity an operator recorded on date,
// ordered by start time, with each activity's live state as of now.
// An empty date means today.
func (r *reportingServiceImpl) DaySummary(ctx context.Context, operatorID, date string, now time.Time) (*DaySummary, error) {
	if trimmed(date) == "" {
		date = r.timeService.Today().Format(domain.DateLayout)
	}
	shifts, err := r.reader.ShiftsByOperator(ctx, operatorID, date)
	if err != nil {
		return nil, err
	}

	summary := &DaySummary{
		OperatorID: operatorID,
		Date:       date,
		Activities: []DayActivity{},
	}

	var inputs []domain.AggregateInput
	for _, shift := range shifts {
		summary.EffectiveMinutes += shift.EffectiveMinutes()
		for _, a := range shift.Activities {
			inputs = append(inputs, domain.InputFromPersisted(a))
			summary.Activities = append(summary.Activities, DayActivity{
				ShiftID:      shift.ID,
				OTI:          otiLabel(a.OTI),
				Processes:    processLabel(a),
				TimeType:     a.TimeType,
				StartTime:    domain.FormatClock(a.StartTime.Ptr()),
				EndTime:      domain.FormatClock(a.EndTime.Ptr()),
				Minutes:      a.Minutes,
				State:        a.State(now),
				startInstant: a.StartTime.Ptr(),
			})
		}
	}

	sortByStart(summary.Activities)
	summary.Totals = Aggregate(inputs)
	return summary, nil
}

// ShiftTotals computes the totals of one stored shift
func (r *reportingServiceImpl) ShiftTotals(ctx context.Context, shiftID string) (*domain.ShiftTotals, error) {
	shift, err := r.reader.GetShift(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	totals := AggregatePersisted(*shift)
	return &totals, nil
}

// exportQuery maps an export selection onto the backend listing
func (r *reportingServiceImpl) exportQuery(q ExportQuery) backend.ShiftQuery {
	return backend.ShiftQuery{
		Operator: q.Operator,
		From:     q.From,
		To:       q.To,
		Limit:    r.exportLimit,
	}
}

// sortByStart orders activities by start instant; activities without a
// start go last.
func sortByStart(activities []DayActivity) {
	sort.SliceStable(activities, func(i, j int) bool {
		a, b := activities[i].startInstant, activities[j].startInstant
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
}

func otiLabel(o domain.OTIRef) string {
	if o.Number == "" {
		return "N/A"
	}
	return o.Number
}

func processLabel(a domain.PersistedActivity) string {
	names := a.ProcessNames()
	if len(names) == 0 {
		return "N/A"
	}
	return strings.Join(names, ", ")
}
