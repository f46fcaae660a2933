package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"jornada-tracker/internal/server"
)

// ServeCommand runs the companion HTTP and WebSocket server
type ServeCommand struct {
	app    *App
	addr   string
	out    io.Writer
	logger *log.Logger
}

// NewServeCommand creates a new serve command handler. An empty addr uses
// the configured one.
func NewServeCommand(app *App, addr string) *ServeCommand {
	if addr == "" {
		addr = app.config.Server.Addr
	}
	return &ServeCommand{app: app, addr: addr, out: app.out, logger: app.logger}
}

// Execute serves until ctx is cancelled
func (c *ServeCommand) Execute(ctx context.Context, args []string) error {
	if c.app.services == nil || c.app.reader == nil {
		return fmt.Errorf("el servidor no está configurado")
	}

	var accessLog io.Writer
	if c.app.config.Application.Verbose {
		accessLog = os.Stderr
	}
	srv := server.New(server.Options{
		Services:     c.app.services,
		Reader:       c.app.reader,
		LiveInterval: c.app.config.Live.TickInterval,
		AccessLog:    accessLog,
		Logger:       c.logger,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen(c.addr)
	}()
	fmt.Fprintf(c.out, "Servidor escuchando en %s\n", c.addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		c.logger.Info("shutting down companion server")
		return srv.Shutdown()
	}
}
