package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"jornada-tracker/internal/api"
)

// ExportCommand writes the payroll CSV
type ExportCommand struct {
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	out          io.Writer
	opts         api.ExportOptions
	path         string
}

// NewExportCommand creates a new export command handler. An empty path
// writes to the command output.
func NewExportCommand(app *App, opts api.ExportOptions, path string) *ExportCommand {
	return &ExportCommand{
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
		out:          app.out,
		opts:         opts,
		path:         path,
	}
}

// Execute runs the export command
func (c *ExportCommand) Execute(ctx context.Context, args []string) error {
	if c.path == "" {
		if _, err := c.businessAPI.Export(ctx, c.out, c.opts); err != nil {
			return c.errorHandler.Handle("exportar las jornadas", err)
		}
		return nil
	}

	f, err := os.Create(c.path)
	if err != nil {
		return fmt.Errorf("no se pudo crear %s: %w", c.path, err)
	}
	n, err := c.businessAPI.Export(ctx, f, c.opts)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return c.errorHandler.Handle("exportar las jornadas", err)
	}

	fmt.Fprintf(c.out, "%d jornadas exportadas a %s\n", n, c.path)
	return nil
}
