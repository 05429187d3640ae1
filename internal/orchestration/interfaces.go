//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

package orchestration

import (
	"fmt"

	"github.com/agbru/usagewarn/internal/settings"
	"github.com/agbru/usagewarn/internal/threshold"
	"github.com/agbru/usagewarn/internal/usage"
)

// Reading is one metric's result for a tick.
type Reading struct {
	Metric  threshold.Metric
	Percent usage.Percent
	Band    usage.Band
}

// NewReading derives the colour band for p.
func NewReading(metric threshold.Metric, p usage.Percent) Reading {
	return Reading{Metric: metric, Percent: p, Band: usage.BandFor(p)}
}

// Tooltip returns the hover text shown next to the metric's indicator.
func (r Reading) Tooltip() string {
	return fmt.Sprintf("%s Auslastung: %d%%", r.Metric.Label(), r.Percent)
}

// LevelChoice is one radio item of a threshold submenu.
type LevelChoice struct {
	Level   int
	Checked bool
}

// LevelMenu is the threshold submenu of one metric.
type LevelMenu struct {
	Metric  threshold.Metric
	Title   string
	Choices []LevelChoice
}

// MenuState is the full context menu as the user sees it.
type MenuState struct {
	Levels    []LevelMenu
	Autostart bool
}

// Presenter receives the readings of every completed tick, CPU first.
// Implementations must not block; the engine calls them on the tick path.
type Presenter interface {
	Present(readings []Reading)
}

// Notifier displays a short message to the user.
type Notifier interface {
	Notify(message string)
}

// MenuRenderer receives a freshly built menu whenever it changes.
type MenuRenderer interface {
	RenderMenu(menu MenuState)
}

// SettingsStore persists the settings record.
type SettingsStore interface {
	Load() settings.Settings
	Save(rec settings.Settings) error
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(readings []Reading)

// Present calls f.
func (f PresenterFunc) Present(readings []Reading) { f(readings) }

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

// Notify calls f.
func (f NotifierFunc) Notify(message string) { f(message) }
