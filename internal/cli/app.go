package cli

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"jornada-tracker/internal/api"
	"jornada-tracker/internal/config"
	"jornada-tracker/internal/errors"
	"jornada-tracker/internal/logging"
	"jornada-tracker/internal/services"
)

// timeNow is a variable that can be replaced in tests
var timeNow = time.Now

// App represents the main CLI application
type App struct {
	businessAPI api.BusinessAPI
	config      *config.Config
	logger      *log.Logger
	out         io.Writer

	// services and reader back the companion server; nil in most tests
	services *services.ServiceContainer
	reader   services.ShiftReader
}

// NewApp creates a new CLI application instance with dependency injection
func NewApp(businessAPI api.BusinessAPI, cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &App{
		businessAPI: businessAPI,
		config:      cfg,
		logger:      logging.Discard(),
		out:         os.Stdout,
	}
}

// WithOutput redirects command output
func (a *App) WithOutput(w io.Writer) *App {
	a.out = w
	return a
}

// WithServer attaches what the companion server needs
func (a *App) WithServer(svc *services.ServiceContainer, reader services.ShiftReader) *App {
	a.services = svc
	a.reader = reader
	return a
}

// WithLogger sets the logger used by long-running commands
func (a *App) WithLogger(logger *log.Logger) *App {
	a.logger = logging.OrDiscard(logger)
	return a
}

// parseIndex converts a 1-based activity position to a slice index
func parseIndex(arg string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil || n < 1 {
		return 0, errors.NewInvalidInputError("actividad", arg, "usa la posición de la actividad, empezando en 1")
	}
	return n - 1, nil
}
