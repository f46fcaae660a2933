package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"jornada-tracker/internal/api"
	"jornada-tracker/internal/errors"
)

// DuplicateCommand copies a stored shift into a new draft
type DuplicateCommand struct {
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	out          io.Writer
	date         string
}

// NewDuplicateCommand creates a new duplicate command handler. An empty
// date duplicates onto today.
func NewDuplicateCommand(app *App, date string) *DuplicateCommand {
	return &DuplicateCommand{
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
		out:          app.out,
		date:         date,
	}
}

// Execute runs the duplicate command
func (c *DuplicateCommand) Execute(ctx context.Context, args []string) error {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return errors.NewInvalidInputError("command", "duplicate", "usage: jt duplicate SHIFT_ID [--date YYYY-MM-DD]")
	}

	view, err := c.businessAPI.DuplicateShift(ctx, args[0], c.date)
	if err != nil {
		return c.errorHandler.Handle("duplicar la jornada", err)
	}

	fmt.Fprintf(c.out, "Jornada %s duplicada en el borrador %s\n", args[0], view.Draft.ID)
	renderDraft(c.out, view)
	return nil
}
