package cli

import (
	"context"
	"fmt"
	"io"

	"jornada-tracker/internal/api"
)

// SessionCommand handles the session subcommands
type SessionCommand struct {
	businessAPI  api.BusinessAPI
	errorHandler *ErrorHandler
	out          io.Writer
}

// NewSessionCommand creates a new session command handler
func NewSessionCommand(app *App) *SessionCommand {
	return &SessionCommand{
		businessAPI:  app.businessAPI,
		errorHandler: NewErrorHandler(),
		out:          app.out,
	}
}

// Set selects the operator working with the tool
func (c *SessionCommand) Set(ctx context.Context, operatorID, operatorName string) error {
	session, err := c.businessAPI.SetSession(ctx, operatorID, operatorName)
	if err != nil {
		return c.errorHandler.Handle("seleccionar el operario", err)
	}
	fmt.Fprintf(c.out, "Operario seleccionado: %s\n", operatorLabel(session.OperatorID, session.OperatorName))
	return nil
}

// Show prints the selected operator
func (c *SessionCommand) Show(ctx context.Context) error {
	session, err := c.businessAPI.GetSession(ctx)
	if err != nil {
		return c.errorHandler.Handle("leer la sesión", err)
	}
	if !session.IsSet() {
		fmt.Fprintln(c.out, "No hay un operario seleccionado")
		return nil
	}
	fmt.Fprintf(c.out, "Operario: %s\n", operatorLabel(session.OperatorID, session.OperatorName))
	return nil
}

// Clear forgets the selected operator
func (c *SessionCommand) Clear(ctx context.Context) error {
	if err := c.businessAPI.ClearSession(ctx); err != nil {
		return c.errorHandler.Handle("cerrar la sesión", err)
	}
	fmt.Fprintln(c.out, "Sesión cerrada")
	return nil
}

func operatorLabel(id, name string) string {
	if name == "" {
		return id
	}
	return name + " (" + id + ")"
}
