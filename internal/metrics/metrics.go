// Package metrics instruments the sampling engine with Prometheus collectors.
//
// The collectors live in a private registry and are never served over the
// network; the application summarises them in the log at shutdown.
package metrics

import (
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "usagewarn"

// Metrics groups the engine's collectors.
type Metrics struct {
	registry *prometheus.Registry

	ticks         prometheus.Counter
	skippedTicks  prometheus.Counter
	sampleErrors  *prometheus.CounterVec
	warnings      *prometheus.CounterVec
	usage         *prometheus.GaugeVec
	settingsSaves *prometheus.CounterVec
	rebaselines   prometheus.Counter
}

// New creates the collectors and registers them, together with the Go
// runtime collector, in a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Completed sampling ticks.",
		}),
		skippedTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_skipped_total",
			Help:      "Ticks dropped because the previous tick was still running.",
		}),
		sampleErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sample_errors_total",
			Help:      "Failed OS counter reads by source.",
		}, []string{"source"}),
		warnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "warnings_total",
			Help:      "Threshold-crossing warnings dispatched by metric.",
		}, []string{"metric"}),
		usage: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "usage_percent",
			Help:      "Utilisation computed by the latest tick.",
		}, []string{"metric"}),
		settingsSaves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settings_saves_total",
			Help:      "Settings file writes by outcome.",
		}, []string{"result"}),
		rebaselines: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cpu_rebaselines_total",
			Help:      "Ticks that replaced the CPU baseline because the core count changed.",
		}),
	}

	m.registry.MustRegister(
		m.ticks,
		m.skippedTicks,
		m.sampleErrors,
		m.warnings,
		m.usage,
		m.settingsSaves,
		m.rebaselines,
		collectors.NewGoCollector(),
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// TickCompleted counts a finished tick.
func (m *Metrics) TickCompleted() { m.ticks.Inc() }

// TickSkipped counts a tick dropped for overlapping.
func (m *Metrics) TickSkipped() { m.skippedTicks.Inc() }

// SampleFailed counts a failed counter read.
func (m *Metrics) SampleFailed(source string) { m.sampleErrors.WithLabelValues(source).Inc() }

// WarningFired counts a dispatched warning.
func (m *Metrics) WarningFired(metric string) { m.warnings.WithLabelValues(metric).Inc() }

// ObserveUsage records the latest utilisation of metric.
func (m *Metrics) ObserveUsage(metric string, percent int) {
	m.usage.WithLabelValues(metric).Set(float64(percent))
}

// SettingsSaved counts a settings write.
func (m *Metrics) SettingsSaved(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.settingsSaves.WithLabelValues(result).Inc()
}

// Rebaselined counts a CPU baseline reset.
func (m *Metrics) Rebaselined() { m.rebaselines.Inc() }

// Summary flattens the engine's own counters and gauges into name -> value,
// with label values appended as name{label="value"}. Runtime collectors are
// left out.
func (m *Metrics) Summary() (map[string]float64, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64)
	for _, mf := range families {
		name := mf.GetName()
		if len(name) < len(namespace) || name[:len(namespace)] != namespace {
			continue
		}
		for _, metric := range mf.GetMetric() {
			key := name
			labels := metric.GetLabel()
			if len(labels) > 0 {
				pairs := make([]string, 0, len(labels))
				for _, l := range labels {
					pairs = append(pairs, l.GetName()+"=\""+l.GetValue()+"\"")
				}
				sort.Strings(pairs)
				key += "{"
				for i, p := range pairs {
					if i > 0 {
						key += ","
					}
					key += p
				}
				key += "}"
			}
			switch {
			case metric.GetCounter() != nil:
				out[key] = metric.GetCounter().GetValue()
			case metric.GetGauge() != nil:
				out[key] = metric.GetGauge().GetValue()
			}
		}
	}
	return out, nil
}
