// Package app wires configuration, the sampling engine, the scheduler and
// the user interface into a runnable application.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/agbru/usagewarn/internal/autostart"
	"github.com/agbru/usagewarn/internal/config"
	apperrors "github.com/agbru/usagewarn/internal/errors"
	"github.com/agbru/usagewarn/internal/logging"
	"github.com/agbru/usagewarn/internal/metrics"
	"github.com/agbru/usagewarn/internal/sysmon"
	"github.com/agbru/usagewarn/internal/ui"
)

// LogFileName is the dashboard's default log file, next to the settings.
const LogFileName = "usagewarn.log"

// Application represents the usagewarn application instance.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer

	source       sysmon.Source
	registrar    autostart.Registrar
	registrarSet bool
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithSource replaces the OS sample source.
func WithSource(s sysmon.Source) AppOption {
	return func(a *Application) { a.source = s }
}

// WithRegistrar replaces the platform autostart registrar. nil disables
// autostart.
func WithRegistrar(r autostart.Registrar) AppOption {
	return func(a *Application) {
		a.registrar = r
		a.registrarSet = true
	}
}

// New creates a new Application instance by parsing command-line arguments.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}
	if app.source == nil {
		app.source = sysmon.NewGopsutilSource()
	}

	programName := "usagewarn"
	var cmdArgs []string
	if len(args) > 0 {
		programName = filepath.Base(args[0])
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}
	app.Config = cfg
	return app, nil
}

// Run executes the application until the user quits or a termination
// signal arrives, and returns the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	ui.InitTheme(a.Config.NoColor)
	zerolog.SetGlobalLevel(logging.ParseLevel(a.Config.LogLevel))

	logOut, closeLog, err := a.openLog()
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	defer closeLog()
	newLogger := func(component string) logging.Logger {
		return logging.NewLogger(logOut, component)
	}

	ctx, stopSignals := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	if a.Config.Once {
		return a.runOnce(ctx, out, newLogger)
	}

	registrar := a.resolveRegistrar(newLogger("autostart"))
	m := metrics.New()
	err = a.runMonitor(ctx, out, registrar, m, newLogger)
	logSummary(newLogger("app"), m)

	if err != nil && !apperrors.IsContextError(err) {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitCodeFor(err)
	}
	return apperrors.ExitSuccess
}

// openLog returns the log destination. Dashboard runs log to a file so the
// records do not draw over the screen.
func (a *Application) openLog() (io.Writer, func(), error) {
	path := a.Config.LogFile
	if path == "" && a.Config.TUI && !a.Config.Once {
		path = filepath.Join(filepath.Dir(a.Config.SettingsPath), LogFileName)
	}
	if path == "" {
		return a.ErrWriter, func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, apperrors.WrapError(err, "opening log file %s", path)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, apperrors.WrapError(err, "opening log file %s", path)
	}
	return f, func() { _ = f.Close() }, nil
}

func (a *Application) resolveRegistrar(logger logging.Logger) autostart.Registrar {
	if a.registrarSet {
		return a.registrar
	}
	id, err := autostart.DefaultIdentity()
	if err == nil {
		var r autostart.Registrar
		if r, err = autostart.New(id); err == nil {
			return r
		}
	}
	logger.Error("autostart unavailable", err)
	return nil
}

// logSummary writes the session's counters as one record.
func logSummary(logger logging.Logger, m *metrics.Metrics) {
	summary, err := m.Summary()
	if err != nil {
		logger.Error("metrics summary failed", err)
		return
	}
	keys := make([]string, 0, len(summary))
	for k := range summary {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fields := make([]logging.Field, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, logging.Float64(k, summary[k]))
	}
	logger.Info("session summary", fields...)
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
