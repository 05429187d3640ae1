package app

import (
	"context"
	"errors"
	"io"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/usagewarn/internal/autostart"
	"github.com/agbru/usagewarn/internal/cli"
	apperrors "github.com/agbru/usagewarn/internal/errors"
	"github.com/agbru/usagewarn/internal/logging"
	"github.com/agbru/usagewarn/internal/metrics"
	"github.com/agbru/usagewarn/internal/orchestration"
	"github.com/agbru/usagewarn/internal/scheduler"
	"github.com/agbru/usagewarn/internal/settings"
	"github.com/agbru/usagewarn/internal/threshold"
	"github.com/agbru/usagewarn/internal/tui"
)

// runMonitor runs the engine on the scheduler and drives either the
// dashboard or the console until ctx is cancelled or the user quits.
func (a *Application) runMonitor(ctx context.Context, out io.Writer, registrar autostart.Registrar, m *metrics.Metrics, newLogger func(string) logging.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	store := settings.NewStore(a.Config.SettingsPath, newLogger("settings"))
	opts := []orchestration.Option{
		orchestration.WithLogger(newLogger("engine")),
		orchestration.WithMetrics(m),
	}

	var sink *tui.Sink
	var console *cli.ConsoleSink
	if a.Config.TUI {
		sink = tui.NewSink()
		opts = append(opts,
			orchestration.WithPresenter(sink),
			orchestration.WithNotifier(sink),
			orchestration.WithMenuRenderer(sink))
	} else {
		console = cli.NewConsoleSink(out, a.Config.Quiet)
		opts = append(opts,
			orchestration.WithPresenter(console),
			orchestration.WithNotifier(console),
			orchestration.WithMenuRenderer(console))
	}

	engine, err := orchestration.NewEngine(a.source, store, registrar, opts...)
	if err != nil {
		return apperrors.WrapError(err, "creating engine")
	}

	g, gctx := errgroup.WithContext(ctx)
	sched := scheduler.New(a.Config.Interval, func() { engine.Tick(gctx) }, newLogger("scheduler"))

	if sink != nil {
		dashboard := tui.NewProgram(gctx, sink, engine, Version)
		g.Go(func() error {
			// Quitting the dashboard ends the whole application.
			defer cancel()
			return dashboard.Run()
		})
	} else {
		console.Start()
		defer console.Stop()
	}

	g.Go(func() error {
		engine.Start(gctx)
		return apperrors.WrapError(sched.Run(gctx), "sampling")
	})

	return g.Wait()
}

// runOnce samples a single interval, prints both readings and any warning
// they raise, and exits.
func (a *Application) runOnce(ctx context.Context, out io.Writer, newLogger func(string) logging.Logger) int {
	var readings []orchestration.Reading
	var warnings []string

	store := settings.NewStore(a.Config.SettingsPath, newLogger("settings"))
	engine, err := orchestration.NewEngine(a.source, store, nil,
		orchestration.WithLogger(newLogger("engine")),
		orchestration.WithPresenter(orchestration.PresenterFunc(func(r []orchestration.Reading) {
			readings = r
		})),
		orchestration.WithNotifier(orchestration.NotifierFunc(func(msg string) {
			warnings = append(warnings, msg)
		})))
	if err != nil {
		return apperrors.ExitErrorGeneric
	}

	if err := engine.Baseline(ctx); err != nil {
		cli.PrintError(a.ErrWriter, err)
		return apperrors.ExitErrorGeneric
	}

	timer := time.NewTimer(a.Config.Interval)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return apperrors.ExitErrorCanceled
	case <-timer.C:
	}

	engine.Tick(ctx)
	if len(readings) == 0 {
		cli.PrintError(a.ErrWriter, apperrors.SampleError{Source: "counters", Cause: errNoReading})
		return apperrors.ExitErrorGeneric
	}

	cli.PrintReadings(out, readings)
	for _, w := range warnings {
		cli.PrintWarning(out, w)
	}
	rec := engine.Settings()
	newLogger("app").Debug("single sample done",
		logging.Float64("cpuWarningLevel", rec.Level(threshold.CPU)),
		logging.Float64("ramWarningLevel", rec.Level(threshold.RAM)))
	return apperrors.ExitSuccess
}

var errNoReading = errors.New("no reading produced")
