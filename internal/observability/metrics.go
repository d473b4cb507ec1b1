// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/holomush/warband/internal/archetype"
	"github.com/holomush/warband/internal/core"
)

// Metrics contains the simulation's Prometheus metrics.
type Metrics struct {
	TicksTotal     prometheus.Counter
	TickDuration   prometheus.Histogram
	EventsTotal    *prometheus.CounterVec
	DroppedIntents *prometheus.CounterVec
	LiveInstances  *prometheus.GaugeVec
}

// NewMetrics creates the simulation metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TicksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "warband_ticks_total",
			Help: "Total number of simulation ticks committed",
		}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "warband_tick_duration_seconds",
			Help:    "Wall time spent deciding and committing one tick",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		}),
		EventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "warband_events_total",
				Help: "Total number of emitted events by type",
			},
			[]string{"type"},
		),
		DroppedIntents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "warband_dropped_intents_total",
				Help: "Total number of dropped intents by reason",
			},
			[]string{"reason"},
		),
		LiveInstances: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "warband_live_instances",
				Help: "Instances in the live set by archetype",
			},
			[]string{"archetype"},
		),
	}

	reg.MustRegister(m.TicksTotal, m.TickDuration, m.EventsTotal, m.DroppedIntents, m.LiveInstances)
	return m
}

// RecordTick counts one committed tick and its events.
func (m *Metrics) RecordTick(elapsed time.Duration, events []core.Event) {
	m.TicksTotal.Inc()
	m.TickDuration.Observe(elapsed.Seconds())
	for _, e := range events {
		m.EventsTotal.WithLabelValues(string(e.Type)).Inc()
		if e.Type == core.EventTypeDroppedIntent {
			m.DroppedIntents.WithLabelValues(string(e.Reason)).Inc()
		}
	}
}

// SetLiveInstances sets the live instance gauge for tag.
func (m *Metrics) SetLiveInstances(tag archetype.Tag, n int) {
	m.LiveInstances.WithLabelValues(tag.String()).Set(float64(n))
}
