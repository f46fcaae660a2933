// Package server is the local companion HTTP API of jt serve.
package server

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"jornada-tracker/internal/logging"
	"jornada-tracker/internal/services"
)

// Options wires the server to the services it exposes
type Options struct {
	Services     *services.ServiceContainer
	Reader       services.ShiftReader
	LiveInterval time.Duration
	// AccessLog receives one line per request; nil disables it.
	AccessLog io.Writer
	Logger    *log.Logger
}

// Server wraps the fiber app
type Server struct {
	app    *fiber.App
	logger *log.Logger
}

// New builds the app and registers every route
func New(opts Options) *Server {
	lg := logging.OrDiscard(opts.Logger)

	app := fiber.New(fiber.Config{
		AppName:               "jt companion",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	if opts.AccessLog != nil {
		app.Use(logger.New(logger.Config{Output: opts.AccessLog}))
	}

	shifts := NewShiftHandler(opts.Services, opts.Reader, lg)
	feed := NewLiveHandler(opts.Reader, opts.LiveInterval, lg)

	api := app.Group("/api")
	api.Get("/health", shifts.Health)
	api.Post("/activities/validate", shifts.ValidateActivity)
	api.Post("/jornadas/validate", shifts.ValidateShift)
	api.Post("/jornadas/summary", shifts.DraftSummary)
	api.Get("/jornadas/:id/summary", shifts.ShiftSummary)
	api.Get("/jornadas/:id/duplicate", shifts.Duplicate)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws/jornadas/:id", websocket.New(feed.Feed))

	return &Server{app: app, logger: lg}
}

// App exposes the fiber app, mainly for tests
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves on addr until Shutdown is called
func (s *Server) Listen(addr string) error {
	s.logger.Info("companion server listening", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown stops accepting connections and waits for open ones
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
