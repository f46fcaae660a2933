package services

import (
	"github.com/charmbracelet/log"

	"jornada-tracker/internal/config"
	"jornada-tracker/internal/repository/sqlite"
)

// NewServiceContainer wires every service over the draft store and the
// backend.
func NewServiceContainer(cfg *config.Config, repo sqlite.Repository, remote Backend, logger *log.Logger) *ServiceContainer {
	timeService := NewTimeService(cfg)
	drafts := NewDraftService(repo, remote, logger)

	return &ServiceContainer{
		TimeService:        timeService,
		SessionService:     NewSessionService(repo),
		DraftService:       drafts,
		SubmissionService:  NewSubmissionService(drafts, remote, logger),
		DuplicationService: NewDuplicationService(remote, remote, drafts, cfg.Backend.CatalogConcurrency, logger),
		ReportingService:   NewReportingService(remote, timeService, cfg.Backend.ExportPageLimit, logger),
	}
}
