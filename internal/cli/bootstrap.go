package cli

import (
	"github.com/charmbracelet/log"

	"jornada-tracker/internal/api"
	"jornada-tracker/internal/backend"
	"jornada-tracker/internal/config"
	"jornada-tracker/internal/services"
)

// Bootstrap opens the draft store, connects the backend client and wires
// every service. The returned function closes the draft store.
func Bootstrap(cfg *config.Config, logger *log.Logger) (*App, func() error, error) {
	repo, err := config.CreateRepository(cfg)
	if err != nil {
		return nil, nil, err
	}

	client := backend.NewClient(cfg, logger)
	container := services.NewServiceContainer(cfg, repo, client, logger)
	businessAPI := api.NewBusinessAPI(container, client, cfg)

	app := NewApp(businessAPI, cfg).
		WithServer(container, client).
		WithLogger(logger)

	logger.Debug("application ready", "db", cfg.GetDatabasePath(), "backend", cfg.Backend.BaseURL)
	return app, repo.Close, nil
}
