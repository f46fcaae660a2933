package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionCommand(t *testing.T) {
	app, mock, out := setupTestAppWithMockBusinessAPI(t)
	cmd := NewSessionCommand(app)
	ctx := context.Background()

	t.Run("show without operator", func(t *testing.T) {
		out.Reset()
		require.NoError(t, cmd.Show(ctx))
		assert.Contains(t, out.String(), "No hay un operario seleccionado")
	})

	t.Run("set requires an operator", func(t *testing.T) {
		err := cmd.Set(ctx, "", "Ana")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no se pudo seleccionar el operario")
	})

	t.Run("set and show", func(t *testing.T) {
		out.Reset()
		require.NoError(t, cmd.Set(ctx, "op-1", ""))
		require.NoError(t, cmd.Show(ctx))
		assert.Contains(t, out.String(), "Operario: op-1")
	})

	t.Run("clear", func(t *testing.T) {
		require.NoError(t, cmd.Clear(ctx))
		assert.False(t, mock.session.IsSet())
	})
}
