package server

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"jornada-tracker/internal/errors"
	"jornada-tracker/internal/live"
	"jornada-tracker/internal/services"
)

// LiveHandler streams activity states of a stored shift over a websocket
type LiveHandler struct {
	reader   services.ShiftReader
	interval time.Duration
	logger   *log.Logger
}

// NewLiveHandler creates a LiveHandler
func NewLiveHandler(reader services.ShiftReader, interval time.Duration, logger *log.Logger) *LiveHandler {
	return &LiveHandler{reader: reader, interval: interval, logger: logger}
}

// Feed handles GET /ws/jornadas/:id. Every activity gets its own task;
// the feed ends with {"done": true} once all of them are finished. All
// tasks are cancelled when the client goes away.
func (h *LiveHandler) Feed(c *websocket.Conn) {
	id := c.Params("id")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shift, err := h.reader.GetShift(ctx, id)
	if err != nil {
		_ = c.WriteJSON(fiber.Map{"error": errors.GetUserMessage(err)})
		return
	}

	var writeMu sync.Mutex
	publish := func(u live.Update) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := c.WriteJSON(u); err != nil {
			cancel()
		}
	}

	sched := live.NewScheduler(ctx, h.interval, publish, h.logger)
	defer sched.Stop()
	sched.WatchAll(live.TargetsFromShift(*shift))

	finished := make(chan struct{})
	go func() {
		sched.Wait()
		close(finished)
	}()

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case <-finished:
		if ctx.Err() == nil {
			writeMu.Lock()
			_ = c.WriteJSON(fiber.Map{"done": true})
			writeMu.Unlock()
		}
	case <-gone:
		h.logger.Debug("live feed client left", "shift", id)
	}
}
