package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"jornada-tracker/internal/api"
	"jornada-tracker/internal/config"
	"jornada-tracker/internal/logging"
)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd        *cobra.Command
	app        *App
	configFile string
	closeApp   func() error
}

// NewRootCommand creates the root cobra command. The application is built
// from configuration and flags before any subcommand runs.
func NewRootCommand() *RootCommand {
	return newRootCommand(nil)
}

// NewRootCommandWithApp creates the root command around a ready
// application, skipping configuration loading
func NewRootCommandWithApp(app *App) *RootCommand {
	return newRootCommand(app)
}

func newRootCommand(app *App) *RootCommand {
	root := &RootCommand{app: app}

	root.cmd = &cobra.Command{
		Use:   "jt",
		Short: "Registro de jornadas laborales",
		Long: `jornada-tracker (jt) registra la jornada laboral de un operario de planta.

FUNCIONES:
  • Borradores locales de la jornada, con plantillas de actividades
  • Validación y envío de la jornada al servidor
  • Duplicación de jornadas registradas en una fecha nueva
  • Seguimiento en vivo de las actividades del día
  • Exportación de nómina en CSV
  • Servidor local con API y WebSocket (jt serve)

EJEMPLOS:
  jt session set --operator 64f1 --name "Ana"
  jt draft new --date 2024-03-11
  jt draft add DRAFT_ID --template control-horario --area A1 --machine M1 --supply S1
  jt draft submit DRAFT_ID
  jt duplicate SHIFT_ID --date 2024-03-12
  jt today --watch
  jt export --from 2024-03-01 --to 2024-03-31 > nomina.csv

CONFIGURACIÓN:
  Prioridad: flags > variables de entorno (.env incluido) > archivo TOML > valores por defecto

    JT_CONFIG                   Archivo TOML de configuración
    JT_DB_DIR, JT_DB_FILENAME   Base de datos local de borradores (default: ~/.jt/jornadas.db)
    JT_BACKEND_URL              URL del servidor de jornadas
    JT_BACKEND_TIMEOUT          Tiempo máximo por petición (default: 15s)
    JT_LIVE_TICK                Periodo de actualización en vivo (default: 1s)
    JT_SERVER_ADDR              Dirección de jt serve (default: 127.0.0.1:8787)
    JT_APP_TIMEOUT              Tiempo máximo por comando (default: 60s)
    JT_LOG_LEVEL                debug, info, warn o error
    JT_DEBUG                    Fuerza el nivel debug`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.bootstrap(cmd.Flags())
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Execute runs the root command and releases the application afterwards
func (r *RootCommand) Execute() error {
	err := r.cmd.Execute()
	if r.closeApp != nil {
		if closeErr := r.closeApp(); err == nil {
			err = closeErr
		}
	}
	return err
}

// SetArgs replaces os.Args, mainly for tests
func (r *RootCommand) SetArgs(args []string) {
	r.cmd.SetArgs(args)
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.StringVar(&r.configFile, "config", "", "Archivo TOML de configuración (reemplaza JT_CONFIG)")

	flags.String("db-dir", "", "Directorio de la base local (reemplaza JT_DB_DIR)")
	flags.String("db-filename", "", "Archivo de la base local (reemplaza JT_DB_FILENAME)")

	flags.String("backend-url", "", "URL del servidor de jornadas (reemplaza JT_BACKEND_URL)")
	flags.Duration("backend-timeout", 0, "Tiempo máximo por petición (reemplaza JT_BACKEND_TIMEOUT)")

	flags.Duration("live-tick", 0, "Periodo de actualización en vivo (reemplaza JT_LIVE_TICK)")

	flags.Duration("app-timeout", 0, "Tiempo máximo por comando (reemplaza JT_APP_TIMEOUT)")
	flags.Bool("verbose", false, "Salida detallada (reemplaza JT_APP_VERBOSE)")
	flags.String("log-level", "", "Nivel de log (reemplaza JT_LOG_LEVEL)")
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	r.cmd.AddCommand(
		r.sessionCommand(),
		r.draftCommand(),
		r.duplicateCommand(),
		r.todayCommand(),
		r.exportCommand(),
		r.templatesCommand(),
		r.serveCommand(),
	)
}

func (r *RootCommand) sessionCommand() *cobra.Command {
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Operario que usa la herramienta",
	}

	var operatorID, operatorName string
	setCmd := &cobra.Command{
		Use:   "set",
		Short: "Seleccionar el operario",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.timeoutContext()
			defer cancel()
			return NewSessionCommand(r.app).Set(ctx, operatorID, operatorName)
		},
	}
	setCmd.Flags().StringVar(&operatorID, "operator", "", "ID del operario")
	setCmd.Flags().StringVar(&operatorName, "name", "", "Nombre del operario")
	_ = setCmd.MarkFlagRequired("operator")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Mostrar el operario seleccionado",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.timeoutContext()
			defer cancel()
			return NewSessionCommand(r.app).Show(ctx)
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Cerrar la sesión",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.timeoutContext()
			defer cancel()
			return NewSessionCommand(r.app).Clear(ctx)
		},
	}

	sessionCmd.AddCommand(setCmd, showCmd, clearCmd)
	return sessionCmd
}

func (r *RootCommand) draftCommand() *cobra.Command {
	draftCmd := &cobra.Command{
		Use:   "draft",
		Short: "Borradores locales de jornada",
	}

	var date string
	newCmd := &cobra.Command{
		Use:   "new",
		Short: "Crear un borrador vacío",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.timeoutContext()
			defer cancel()
			return NewDraftCommand(r.app).New(ctx, date)
		},
	}
	newCmd.Flags().StringVar(&date, "date", "", "Fecha de la jornada YYYY-MM-DD (default: hoy)")

	var addFlags activityFlags
	var templateKey string
	addCmd := &cobra.Command{
		Use:   "add DRAFT_ID",
		Short: "Agregar una actividad",
		Long: `Agregar una actividad al borrador. Con --template la actividad parte de una
plantilla (ver jt templates) y los demás flags reemplazan sus valores.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			activity, err := addFlags.activity()
			if err != nil {
				return NewErrorHandler().HandleSimple(err)
			}
			ctx, cancel := r.timeoutContext()
			defer cancel()
			return NewDraftCommand(r.app).Add(ctx, args[0], templateKey, activity)
		},
	}
	addFlags.bind(addCmd)
	addCmd.Flags().StringVar(&templateKey, "template", "", "Clave o nombre de la plantilla")

	var editFlags activityFlags
	editCmd := &cobra.Command{
		Use:   "edit DRAFT_ID INDEX",
		Short: "Editar una actividad",
		Long:  "Editar la actividad en la posición INDEX (desde 1). Solo cambian los campos indicados.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := editFlags.patch(cmd)
			if err != nil {
				return NewErrorHandler().HandleSimple(err)
			}
			ctx, cancel := r.timeoutContext()
			defer cancel()
			return NewDraftCommand(r.app).Edit(ctx, args[0], args[1], patch)
		},
	}
	editFlags.bind(editCmd)

	removeCmd := &cobra.Command{
		Use:   "remove-activity DRAFT_ID INDEX",
		Short: "Eliminar una actividad",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.timeoutContext()
			defer cancel()
			return NewDraftCommand(r.app).RemoveActivity(ctx, args[0], args[1])
		},
	}

	copyCmd := &cobra.Command{
		Use:   "copy-activity DRAFT_ID INDEX",
		Short: "Duplicar una actividad dentro del borrador",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.timeoutContext()
			defer cancel()
			return NewDraftCommand(r.app).CopyActivity(ctx, args[0], args[1])
		},
	}

	var status string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "Listar borradores",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.timeoutContext()
			defer cancel()
			return NewDraftCommand(r.app).List(ctx, status)
		},
	}
	listCmd.Flags().StringVar(&status, "status", "", "Filtrar por estado: draft o submitted")

	showCmd := &cobra.Command{
		Use:   "show DRAFT_ID",
		Short: "Mostrar un borrador",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.timeoutContext()
			defer cancel()
			return NewDraftCommand(r.app).Show(ctx, args[0])
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete DRAFT_ID",
		Short: "Eliminar un borrador",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.timeoutContext()
			defer cancel()
			return NewDraftCommand(r.app).Delete(ctx, args[0])
		},
	}

	submitCmd := &cobra.Command{
		Use:   "submit DRAFT_ID",
		Short: "Validar y enviar la jornada",
		Long:  "Validar y enviar la jornada al servidor. Si el servidor la rechaza, el borrador se conserva.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.timeoutContext()
			defer cancel()
			return NewDraftCommand(r.app).Submit(ctx, args[0])
		},
	}

	draftCmd.AddCommand(newCmd, addCmd, editCmd, removeCmd, copyCmd, listCmd, showCmd, deleteCmd, submitCmd)
	return draftCmd
}

func (r *RootCommand) duplicateCommand() *cobra.Command {
	var date string
	duplicateCmd := &cobra.Command{
		Use:   "duplicate SHIFT_ID",
		Short: "Duplicar una jornada registrada en un borrador nuevo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.timeoutContext()
			defer cancel()
			return NewDuplicateCommand(r.app, date).Execute(ctx, args)
		},
	}
	duplicateCmd.Flags().StringVar(&date, "date", "", "Fecha del borrador YYYY-MM-DD (default: hoy)")
	return duplicateCmd
}

func (r *RootCommand) todayCommand() *cobra.Command {
	var watch bool
	todayCmd := &cobra.Command{
		Use:   "today",
		Short: "Actividades registradas hoy",
		Long:  "Mostrar las actividades registradas hoy. Con --watch se actualiza su estado hasta que todas terminan.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if watch {
				ctx, stop := signalContext()
				defer stop()
				return NewTodayCommand(r.app).Watch(ctx)
			}
			ctx, cancel := r.timeoutContext()
			defer cancel()
			return NewTodayCommand(r.app).Execute(ctx, args)
		},
	}
	todayCmd.Flags().BoolVar(&watch, "watch", false, "Seguir el estado de las actividades en vivo")
	return todayCmd
}

func (r *RootCommand) exportCommand() *cobra.Command {
	var opts api.ExportOptions
	var path string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Exportar la nómina en CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// exports page through the backend and may take longer
			ctx, cancel := context.WithTimeout(context.Background(), r.getAppTimeout()*2)
			defer cancel()
			return NewExportCommand(r.app, opts, path).Execute(ctx, args)
		},
	}
	exportCmd.Flags().StringVar(&opts.From, "from", "", "Desde YYYY-MM-DD")
	exportCmd.Flags().StringVar(&opts.To, "to", "", "Hasta YYYY-MM-DD")
	exportCmd.Flags().BoolVar(&opts.AllOperators, "all", false, "Incluir todos los operarios")
	exportCmd.Flags().StringVarP(&path, "out", "o", "", "Archivo de salida (default: salida estándar)")
	return exportCmd
}

func (r *RootCommand) templatesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "Listar las plantillas de actividades",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewTemplatesCommand(r.app).Execute(context.Background(), args)
		},
	}
}

func (r *RootCommand) serveCommand() *cobra.Command {
	var addr string
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Servidor local con API y feed en vivo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()
			return NewServeCommand(r.app, addr).Execute(ctx, args)
		},
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "Dirección de escucha (reemplaza JT_SERVER_ADDR)")
	return serveCmd
}

// bootstrap loads the configuration with flag overrides and builds the
// application, unless one was injected
func (r *RootCommand) bootstrap(flags *pflag.FlagSet) error {
	if r.app != nil {
		return nil
	}

	cfg, err := config.NewLoader().WithFile(r.configFile).LoadWithOverrides(overridesFromFlags(flags))
	if err != nil {
		return fmt.Errorf("configuración inválida: %w", err)
	}

	level := cfg.Application.LogLevel
	if cfg.Application.Verbose {
		level = "debug"
	}
	logger, err := logging.New(os.Stderr, level)
	if err != nil {
		return err
	}

	app, closeApp, err := Bootstrap(cfg, logger)
	if err != nil {
		return err
	}
	r.app = app
	r.closeApp = closeApp
	return nil
}

// overridesFromFlags collects only the flags the user set
func overridesFromFlags(flags *pflag.FlagSet) *config.ConfigOverrides {
	o := &config.ConfigOverrides{}

	if flags.Changed("db-dir") {
		v, _ := flags.GetString("db-dir")
		o.DBDir = &v
	}
	if flags.Changed("db-filename") {
		v, _ := flags.GetString("db-filename")
		o.DBFilename = &v
	}
	if flags.Changed("backend-url") {
		v, _ := flags.GetString("backend-url")
		o.BackendURL = &v
	}
	if flags.Changed("backend-timeout") {
		v, _ := flags.GetDuration("backend-timeout")
		o.BackendTimeout = &v
	}
	if flags.Changed("live-tick") {
		v, _ := flags.GetDuration("live-tick")
		o.TickInterval = &v
	}
	if flags.Changed("app-timeout") {
		v, _ := flags.GetDuration("app-timeout")
		o.Timeout = &v
	}
	if flags.Changed("verbose") {
		v, _ := flags.GetBool("verbose")
		o.Verbose = &v
	}
	if flags.Changed("log-level") {
		v, _ := flags.GetString("log-level")
		o.LogLevel = &v
	}

	return o
}

func (r *RootCommand) timeoutContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), r.getAppTimeout())
}

// getAppTimeout returns the configured application timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.app != nil && r.app.config.Application.Timeout > 0 {
		return r.app.config.Application.Timeout
	}
	return 60 * time.Second
}

// signalContext is cancelled on interrupt, for commands that run until stopped
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
