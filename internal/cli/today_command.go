package cli

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"jornada-tracker/internal/api"
	"jornada-tracker/internal/live"
)

// TodayCommand shows the session operator's recorded work of today
type TodayCommand struct {
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	out          io.Writer
	interval     time.Duration
	logger       *log.Logger
}

// NewTodayCommand creates a new today command handler
func NewTodayCommand(app *App) *TodayCommand {
	return &TodayCommand{
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
		out:          app.out,
		interval:     app.config.Live.TickInterval,
		logger:       app.logger,
	}
}

// Execute prints today's summary
func (c *TodayCommand) Execute(ctx context.Context, args []string) error {
	summary, err := c.businessAPI.Today(ctx, timeNow())
	if err != nil {
		return c.errorHandler.Handle("consultar las actividades de hoy", err)
	}
	renderDaySummary(c.out, summary)
	return nil
}

// Watch prints a line for every state change of today's activities until
// all of them finish or ctx is cancelled.
func (c *TodayCommand) Watch(ctx context.Context) error {
	targets, err := c.businessAPI.TodayTargets(ctx)
	if err != nil {
		return c.errorHandler.Handle("consultar las actividades de hoy", err)
	}
	if len(targets) == 0 {
		fmt.Fprintln(c.out, "No hay actividades registradas hoy")
		return nil
	}

	var mu sync.Mutex
	last := make(map[string]string, len(targets))
	publish := func(u live.Update) {
		label := stateLabel(u.State)
		mu.Lock()
		defer mu.Unlock()
		if last[u.Key] == label {
			return
		}
		last[u.Key] = label
		fmt.Fprintf(c.out, "%s  %s  %s\n", u.At.Format("15:04:05"), u.Key, label)
	}

	scheduler := live.NewScheduler(ctx, c.interval, publish, c.logger)
	scheduler.WatchAll(targets)

	done := make(chan struct{})
	go func() {
		scheduler.Wait()
		close(done)
	}()

	select {
	case <-done:
		fmt.Fprintln(c.out, "Todas las actividades finalizaron")
	case <-ctx.Done():
	}
	scheduler.Stop()
	return nil
}
