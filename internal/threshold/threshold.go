// Package threshold decides when a utilisation reading should raise a warning.
//
// Each metric runs a two-state latch. Reaching the configured level from
// Normal fires exactly one event and moves the metric to Warned; further
// readings at or above the level stay silent. Dropping below the level
// re-arms the latch without an event. The latch is in-memory only and
// starts Normal on every process start.
package threshold

import (
	"fmt"

	"github.com/agbru/usagewarn/internal/usage"
)

// Metric identifies a monitored resource.
type Metric string

const (
	CPU Metric = "cpu"
	RAM Metric = "ram"
)

// Metrics lists the monitored resources in evaluation order.
var Metrics = []Metric{CPU, RAM}

// Label returns the upper-case display name ("CPU", "RAM").
func (m Metric) Label() string {
	switch m {
	case CPU:
		return "CPU"
	case RAM:
		return "RAM"
	default:
		return string(m)
	}
}

// State is the latch position of one metric.
type State int

const (
	Normal State = iota
	Warned
)

func (s State) String() string {
	if s == Warned {
		return "warned"
	}
	return "normal"
}

// Event is emitted when a metric crosses into its warning region.
type Event struct {
	Metric Metric
	Usage  usage.Percent
	Level  float64
}

// Message renders the notification text for the event.
func (e Event) Message() string {
	return fmt.Sprintf("%s-Warnung: %d%% Auslastung", e.Metric.Label(), e.Usage)
}

// Monitor holds the latch state of every metric. The zero value is not
// usable; construct with NewMonitor. A Monitor is not safe for concurrent
// use; the owning engine serialises access.
type Monitor struct {
	states map[Metric]State
}

// NewMonitor returns a monitor with every metric in Normal.
func NewMonitor() *Monitor {
	states := make(map[Metric]State, len(Metrics))
	for _, m := range Metrics {
		states[m] = Normal
	}
	return &Monitor{states: states}
}

// Observe feeds one reading for metric against its warning level. It
// returns the event and true only on a Normal -> Warned transition.
// Readings equal to the level count as warned.
func (m *Monitor) Observe(metric Metric, u usage.Percent, level float64) (Event, bool) {
	if float64(u) >= level {
		if m.states[metric] == Normal {
			m.states[metric] = Warned
			return Event{Metric: metric, Usage: u, Level: level}, true
		}
		return Event{}, false
	}
	m.states[metric] = Normal
	return Event{}, false
}

// State reports the current latch position of metric.
func (m *Monitor) State(metric Metric) State {
	return m.states[metric]
}
