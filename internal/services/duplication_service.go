package services

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"jornada-tracker/internal/domain"
	"jornada-tracker/internal/errors"
	"jornada-tracker/internal/logging"
)

// DefaultCatalogConcurrency bounds concurrent catalog lookups
const DefaultCatalogConcurrency = 4

// duplicationServiceImpl implements the DuplicationService interface
type duplicationServiceImpl struct {
	reader      ShiftReader
	catalog     ProcessCatalog
	drafts      DraftService
	concurrency int
	logger      *log.Logger
}

// NewDuplicationService creates a new DuplicationService instance
func NewDuplicationService(reader ShiftReader, catalog ProcessCatalog, drafts DraftService, concurrency int, logger *log.Logger) DuplicationService {
	if concurrency <= 0 {
		concurrency = DefaultCatalogConcurrency
	}
	return &duplicationServiceImpl{
		reader:      reader,
		catalog:     catalog,
		drafts:      drafts,
		concurrency: concurrency,
		logger:      logging.OrDiscard(logger),
	}
}

// ToDraftActivity converts one stored activity to an editable draft
// activity: references become bare ids, timestamps become local "HH:MM".
func ToDraftActivity(a domain.PersistedActivity) domain.Activity {
	processIDs, processNames := splitReferences(a.Processes)
	machineIDs, machineNames := splitReferences(a.Machines)
	supplyIDs, supplyNames := splitReferences(a.Supplies)

	return domain.Activity{
		OTI:            a.OTI.Number,
		ProductionArea: a.ProductionArea.ID,
		Processes:      processIDs,
		Machines:       machineIDs,
		Supplies:       supplyIDs,
		TimeType:       a.TimeType,
		PermitType:     permitFor(a),
		StartTime:      domain.FormatClock(a.StartTime.Ptr()),
		EndTime:        domain.FormatClock(a.EndTime.Ptr()),
		Observations:   a.Observations,
		AreaName:       a.ProductionArea.Name,
		ProcessNames:   processNames,
		MachineNames:   machineNames,
		SupplyNames:    supplyNames,
	}
}

// Transform converts every activity of a stored shift, in order, and
// attaches the available processes of each activity's area. Areas are
// looked up once each, concurrently; a failed lookup leaves that area's
// list empty without affecting the others.
func (s *duplicationServiceImpl) Transform(ctx context.Context, shift domain.PersistedShift) []domain.Activity {
	activities := make([]domain.Activity, len(shift.Activities))
	areas := make(map[string]struct{})
	for i, a := range shift.Activities {
		activities[i] = ToDraftActivity(a)
		if id := activities[i].ProductionArea; id != "" {
			areas[id] = struct{}{}
		}
	}

	available := s.lookupAreas(ctx, areas)
	for i := range activities {
		processes, ok := available[activities[i].ProductionArea]
		if !ok {
			processes = []domain.Process{}
		}
		activities[i].AvailableProcesses = processes
	}
	return activities
}

// Duplicate copies a stored shift into a new draft dated date
func (s *duplicationServiceImpl) Duplicate(ctx context.Context, session domain.Session, shiftID string, date time.Time) (*domain.Shift, error) {
	stored, err := s.reader.GetShift(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	if len(stored.Activities) == 0 {
		return nil, errors.NewInvalidInputError("jornada", shiftID, "no hay actividades para duplicar en esta jornada")
	}

	activities := s.Transform(ctx, *stored)
	draft, err := s.drafts.CreateDraftWithActivities(ctx, session, date, activities)
	if err != nil {
		return nil, err
	}

	s.logger.Info("shift duplicated", "source", shiftID, "draft", draft.ID, "date", draft.DateString())
	return draft, nil
}

func (s *duplicationServiceImpl) lookupAreas(ctx context.Context, areas map[string]struct{}) map[string][]domain.Process {
	var mu sync.Mutex
	found := make(map[string][]domain.Process, len(areas))
	if s.catalog == nil {
		return found
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for areaID := range areas {
		g.Go(func() error {
			processes, err := s.catalog.ActiveProcesses(gctx, areaID)
			if err != nil {
				s.logger.Warn("process lookup failed", "area", areaID, "err", err)
				processes = []domain.Process{}
			}
			mu.Lock()
			found[areaID] = processes
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return found
}

func splitReferences(refs []domain.Reference) (ids []string, names []string) {
	ids = make([]string, 0, len(refs))
	names = make([]string, 0, len(refs))
	for _, r := range refs {
		if r.ID != "" {
			ids = append(ids, r.ID)
		}
		if r.Name != "" {
			names = append(names, r.Name)
		}
	}
	return ids, names
}

// permitFor keeps the permit type only where it is meaningful
func permitFor(a domain.PersistedActivity) domain.PermitType {
	if a.TimeType != domain.TimeTypeLaborPermit {
		return ""
	}
	return a.PermitType
}
