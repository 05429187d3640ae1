package orchestration

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/usagewarn/internal/autostart"
	apperrors "github.com/agbru/usagewarn/internal/errors"
	"github.com/agbru/usagewarn/internal/logging"
	"github.com/agbru/usagewarn/internal/metrics"
	"github.com/agbru/usagewarn/internal/settings"
	"github.com/agbru/usagewarn/internal/sysmon"
	"github.com/agbru/usagewarn/internal/threshold"
	"github.com/agbru/usagewarn/internal/usage"
)

// StartupMessage is dispatched once when the engine starts.
const StartupMessage = "Usage Warner läuft im Hintergrund."

// Threshold levels offered by the menu.
const (
	MenuLevelMin  = 10
	MenuLevelMax  = 100
	MenuLevelStep = 10
)

const tracerName = "github.com/agbru/usagewarn/internal/orchestration"

// menuOrder is the order in which threshold submenus appear.
var menuOrder = []threshold.Metric{threshold.RAM, threshold.CPU}

// ErrUnknownMetric is returned for a metric the engine does not sample.
var ErrUnknownMetric = errors.New("unknown metric")

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(l logging.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithTracer replaces the global tracer.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) { e.tracer = t }
}

// WithPresenter adds a presentation sink.
func WithPresenter(p Presenter) Option {
	return func(e *Engine) { e.presenters = append(e.presenters, p) }
}

// WithNotifier adds a notification sink.
func WithNotifier(n Notifier) Option {
	return func(e *Engine) { e.notifiers = append(e.notifiers, n) }
}

// WithMenuRenderer adds a menu sink.
func WithMenuRenderer(r MenuRenderer) Option {
	return func(e *Engine) { e.menus = append(e.menus, r) }
}

// Engine is the monitoring engine. It owns the previous CPU snapshot, the
// warning latches and the in-memory settings record.
//
// Ticks never overlap: a Tick that finds another one in progress returns
// immediately. Menu actions may run concurrently with ticks; the shared
// state is guarded by mu and sinks are always called without holding it.
type Engine struct {
	source    sysmon.Source
	store     SettingsStore
	registrar autostart.Registrar

	logger     logging.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer
	presenters []Presenter
	notifiers  []Notifier
	menus      []MenuRenderer

	tickMu sync.Mutex
	once   sync.Once
	// saveMu orders settings writes so the file always ends up holding the
	// latest in-memory record. Taken before mu.
	saveMu sync.Mutex

	mu          sync.Mutex
	settings    settings.Settings
	monitor     *threshold.Monitor
	previous    usage.CPUSnapshot
	hasPrevious bool
}

// NewEngine loads the settings once and returns an engine ready to tick.
// registrar may be nil on platforms without autostart support.
func NewEngine(source sysmon.Source, store SettingsStore, registrar autostart.Registrar, opts ...Option) (*Engine, error) {
	if source == nil {
		return nil, errors.New("orchestration: nil sample source")
	}
	if store == nil {
		return nil, errors.New("orchestration: nil settings store")
	}

	e := &Engine{
		source:    source,
		store:     store,
		registrar: registrar,
		logger:    logging.Nop(),
		tracer:    otel.Tracer(tracerName),
		monitor:   threshold.NewMonitor(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.settings = store.Load()
	return e, nil
}

// Settings returns a copy of the in-memory settings record.
func (e *Engine) Settings() settings.Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings
}

// Baseline captures the CPU snapshot the first tick is diffed against.
func (e *Engine) Baseline(ctx context.Context) error {
	snap, err := e.source.CPUTimes(ctx)
	if err != nil {
		err = sampleError("cpu", err)
		e.sampleFailed(err)
		return err
	}
	e.mu.Lock()
	e.previous = snap
	e.hasPrevious = true
	e.mu.Unlock()
	e.logger.Debug("baseline captured", logging.Int("cores", snap.NumCores()))
	return nil
}

// Start captures the baseline, announces the engine and renders the initial
// menu. Only the first call has any effect. A failed baseline is logged; the
// next tick then establishes it.
func (e *Engine) Start(ctx context.Context) {
	e.once.Do(func() {
		if err := e.Baseline(ctx); err != nil {
			e.logger.Debug("starting without CPU baseline")
		}
		e.notify(StartupMessage)
		e.renderMenu(ctx)
	})
}

// Tick runs one sampling cycle. It reports false when the tick was dropped
// because another one was still running.
//
// A failed counter read skips the tick and keeps the previous snapshot. A
// tick that has no usable previous snapshot (none yet, or the core count
// changed) only stores the new one.
func (e *Engine) Tick(ctx context.Context) bool {
	if !e.tickMu.TryLock() {
		if e.metrics != nil {
			e.metrics.TickSkipped()
		}
		e.logger.Debug("tick skipped, previous tick still running")
		return false
	}
	defer e.tickMu.Unlock()

	ctx, span := e.tracer.Start(ctx, "usagewarn.tick")
	defer span.End()

	current, err := e.source.CPUTimes(ctx)
	if err != nil {
		e.tickFailed(span, "cpu", err)
		return true
	}
	mem, err := e.source.Memory(ctx)
	if err != nil {
		e.tickFailed(span, "memory", err)
		return true
	}

	e.mu.Lock()
	if !e.hasPrevious || e.previous.NumCores() != current.NumCores() {
		rebaseline := e.hasPrevious
		e.previous = current
		e.hasPrevious = true
		e.mu.Unlock()
		if rebaseline {
			if e.metrics != nil {
				e.metrics.Rebaselined()
			}
			e.logger.Info("core count changed, CPU baseline replaced", logging.Int("cores", current.NumCores()))
		}
		span.SetAttributes(attribute.Bool("usagewarn.baseline", true))
		return true
	}

	cpuPct := usage.CPUUsage(e.previous, current)
	e.previous = current
	readings := []Reading{
		NewReading(threshold.CPU, cpuPct),
		NewReading(threshold.RAM, usage.RAMUsage(mem.Total, mem.Free)),
	}
	var events []threshold.Event
	for _, r := range readings {
		if ev, fired := e.monitor.Observe(r.Metric, r.Percent, e.settings.Level(r.Metric)); fired {
			events = append(events, ev)
		}
	}
	e.mu.Unlock()

	for _, p := range e.presenters {
		p.Present(readings)
	}
	for _, ev := range events {
		if e.metrics != nil {
			e.metrics.WarningFired(string(ev.Metric))
		}
		e.logger.Info("usage warning",
			logging.String("metric", string(ev.Metric)),
			logging.Int("usage", int(ev.Usage)),
			logging.Float64("level", ev.Level))
		e.notify(ev.Message())
	}

	for _, r := range readings {
		span.SetAttributes(attribute.Int("usagewarn."+string(r.Metric)+".percent", int(r.Percent)))
		if e.metrics != nil {
			e.metrics.ObserveUsage(string(r.Metric), int(r.Percent))
		}
	}
	span.SetAttributes(attribute.Int("usagewarn.warnings", len(events)))
	if e.metrics != nil {
		e.metrics.TickCompleted()
	}
	return true
}

// SetThreshold changes the warning level of metric, saves the settings,
// confirms the change to the user and rebuilds the menu. A failed save is
// logged and does not roll back the in-memory level. The metric's latch is
// left as it is.
func (e *Engine) SetThreshold(ctx context.Context, metric threshold.Metric, level int) error {
	if !known(metric) {
		return fmt.Errorf("%w: %q", ErrUnknownMetric, metric)
	}
	_, span := e.tracer.Start(ctx, "usagewarn.set_threshold",
		trace.WithAttributes(attribute.String("usagewarn.metric", string(metric)), attribute.Int("usagewarn.level", level)))
	defer span.End()

	e.saveMu.Lock()
	e.mu.Lock()
	e.settings = e.settings.WithLevel(metric, float64(level))
	rec := e.settings
	e.mu.Unlock()
	e.save(rec)
	e.saveMu.Unlock()

	e.logger.Info("warning level changed", logging.String("metric", string(metric)), logging.Int("level", level))
	e.notify(fmt.Sprintf("%s Warnung gesetzt auf %d%%", metric.Label(), level))
	e.renderMenu(ctx)
	return nil
}

// SetAutostart asks the registrar to enable or disable launch at login and
// records the choice in the settings. Registrar failures are logged only.
func (e *Engine) SetAutostart(ctx context.Context, enabled bool) {
	_, span := e.tracer.Start(ctx, "usagewarn.set_autostart",
		trace.WithAttributes(attribute.Bool("usagewarn.autostart", enabled)))
	defer span.End()

	if e.registrar == nil {
		e.logger.Error("autostart change ignored", apperrors.AutostartError{Op: "enable", Cause: apperrors.ErrUnsupportedPlatform})
	} else if err := e.registrar.SetEnabled(enabled); err != nil {
		span.RecordError(err)
		e.logger.Error("autostart change failed", err, logging.Bool("enabled", enabled))
	}

	e.saveMu.Lock()
	e.mu.Lock()
	e.settings.Autostart = enabled
	rec := e.settings
	e.mu.Unlock()
	e.save(rec)
	e.saveMu.Unlock()

	e.renderMenu(ctx)
}

// Menu builds the current menu. The autostart checkbox reflects the
// registrar, and a successful query is written back to the in-memory
// settings so the next save persists the OS state. If the registrar cannot
// be queried the stored flag is used.
func (e *Engine) Menu(ctx context.Context) MenuState {
	e.mu.Lock()
	rec := e.settings
	e.mu.Unlock()

	state := MenuState{Autostart: rec.Autostart}
	for _, m := range menuOrder {
		lm := LevelMenu{Metric: m, Title: m.Label() + " Warnung ab"}
		current := rec.Level(m)
		for level := MenuLevelMin; level <= MenuLevelMax; level += MenuLevelStep {
			lm.Choices = append(lm.Choices, LevelChoice{Level: level, Checked: float64(level) == current})
		}
		state.Levels = append(state.Levels, lm)
	}

	if e.registrar != nil {
		enabled, err := e.registrar.IsEnabled()
		if err != nil {
			e.logger.Error("autostart query failed", err)
		} else {
			state.Autostart = enabled
			e.mu.Lock()
			e.settings.Autostart = enabled
			e.mu.Unlock()
		}
	}
	return state
}

func (e *Engine) renderMenu(ctx context.Context) {
	if len(e.menus) == 0 {
		return
	}
	menu := e.Menu(ctx)
	for _, r := range e.menus {
		r.RenderMenu(menu)
	}
}

func (e *Engine) notify(message string) {
	e.logger.Debug("notification", logging.String("message", message))
	for _, n := range e.notifiers {
		n.Notify(message)
	}
}

func (e *Engine) save(rec settings.Settings) {
	err := e.store.Save(rec)
	if e.metrics != nil {
		e.metrics.SettingsSaved(err)
	}
}

func (e *Engine) sampleFailed(err error) {
	var se apperrors.SampleError
	if e.metrics != nil && errors.As(err, &se) {
		e.metrics.SampleFailed(se.Source)
	}
	e.logger.Error("sampling failed", err)
}

func (e *Engine) tickFailed(span trace.Span, source string, err error) {
	err = sampleError(source, err)
	span.RecordError(err)
	span.SetStatus(codes.Error, "sampling failed")
	e.sampleFailed(err)
}

// sampleError tags err with its counter family unless the source already did.
func sampleError(source string, err error) error {
	var se apperrors.SampleError
	if errors.As(err, &se) {
		return err
	}
	return apperrors.SampleError{Source: source, Cause: err}
}

func known(metric threshold.Metric) bool {
	for _, m := range threshold.Metrics {
		if m == metric {
			return true
		}
	}
	return false
}
