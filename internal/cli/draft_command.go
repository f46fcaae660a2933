package cli

import (
	"context"
	"fmt"
	"io"

	"jornada-tracker/internal/api"
	"jornada-tracker/internal/domain"
	"jornada-tracker/internal/services"
)

// DraftCommand handles the draft subcommands
type DraftCommand struct {
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	out          io.Writer
}

// NewDraftCommand creates a new draft command handler
func NewDraftCommand(app *App) *DraftCommand {
	return &DraftCommand{
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
		out:          app.out,
	}
}

// New starts an empty draft for date, today when empty
func (c *DraftCommand) New(ctx context.Context, date string) error {
	view, err := c.businessAPI.StartDraft(ctx, date)
	if err != nil {
		return c.errorHandler.Handle("crear el borrador", err)
	}
	fmt.Fprintf(c.out, "Borrador creado: %s (%s)\n", view.Draft.ID, view.Draft.DateString())
	return nil
}

// Add appends an activity, optionally built from a template
func (c *DraftCommand) Add(ctx context.Context, id, templateKey string, activity domain.Activity) error {
	view, err := c.businessAPI.AddActivity(ctx, id, templateKey, activity)
	if err != nil {
		return c.errorHandler.Handle("agregar la actividad", err)
	}
	renderDraft(c.out, view)
	return nil
}

// Edit changes the fields of the activity at the 1-based position indexArg
func (c *DraftCommand) Edit(ctx context.Context, id, indexArg string, patch services.ActivityPatch) error {
	index, err := parseIndex(indexArg)
	if err != nil {
		return c.errorHandler.HandleSimple(err)
	}
	view, err := c.businessAPI.EditActivity(ctx, id, index, patch)
	if err != nil {
		return c.errorHandler.Handle("editar la actividad", err)
	}
	renderDraft(c.out, view)
	return nil
}

// RemoveActivity drops the activity at the 1-based position indexArg
func (c *DraftCommand) RemoveActivity(ctx context.Context, id, indexArg string) error {
	index, err := parseIndex(indexArg)
	if err != nil {
		return c.errorHandler.HandleSimple(err)
	}
	view, err := c.businessAPI.RemoveActivity(ctx, id, index)
	if err != nil {
		return c.errorHandler.Handle("eliminar la actividad", err)
	}
	renderDraft(c.out, view)
	return nil
}

// CopyActivity appends a copy of the activity at the 1-based position indexArg
func (c *DraftCommand) CopyActivity(ctx context.Context, id, indexArg string) error {
	index, err := parseIndex(indexArg)
	if err != nil {
		return c.errorHandler.HandleSimple(err)
	}
	view, err := c.businessAPI.CopyActivity(ctx, id, index)
	if err != nil {
		return c.errorHandler.Handle("duplicar la actividad", err)
	}
	renderDraft(c.out, view)
	return nil
}

// List prints the session operator's drafts
func (c *DraftCommand) List(ctx context.Context, status string) error {
	views, err := c.businessAPI.ListDrafts(ctx, status)
	if err != nil {
		return c.errorHandler.Handle("listar los borradores", err)
	}
	renderDraftList(c.out, views)
	return nil
}

// Show prints one draft
func (c *DraftCommand) Show(ctx context.Context, id string) error {
	view, err := c.businessAPI.GetDraft(ctx, id)
	if err != nil {
		return c.errorHandler.Handle("cargar el borrador", err)
	}
	renderDraft(c.out, view)
	return nil
}

// Delete removes a draft
func (c *DraftCommand) Delete(ctx context.Context, id string) error {
	if err := c.businessAPI.DeleteDraft(ctx, id); err != nil {
		return c.errorHandler.Handle("eliminar el borrador", err)
	}
	fmt.Fprintf(c.out, "Borrador eliminado: %s\n", id)
	return nil
}

// Submit sends a draft to the backend. A rejected draft stays editable.
func (c *DraftCommand) Submit(ctx context.Context, id string) error {
	view, err := c.businessAPI.SubmitDraft(ctx, id)
	if err != nil {
		if c.errorHandler.IsConflictError(err) {
			return c.errorHandler.HandleSimple(err)
		}
		return c.errorHandler.Handle("enviar la jornada", err)
	}
	fmt.Fprintf(c.out, "✅ Jornada enviada: %s\n", view.Draft.RemoteID)
	renderTotals(c.out, view.Totals)
	return nil
}
