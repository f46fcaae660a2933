package cli

import (
	"context"
	"io"

	"jornada-tracker/internal/api"
)

// TemplatesCommand lists the built-in activity templates
type TemplatesCommand struct {
	businessAPI api.BusinessAPI
	out         io.Writer
}

// NewTemplatesCommand creates a new templates command handler
func NewTemplatesCommand(app *App) *TemplatesCommand {
	return &TemplatesCommand{businessAPI: app.businessAPI, out: app.out}
}

// Execute runs the templates command
func (c *TemplatesCommand) Execute(ctx context.Context, args []string) error {
	renderTemplates(c.out, c.businessAPI.Templates())
	return nil
}
