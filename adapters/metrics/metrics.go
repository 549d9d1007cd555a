// Package metrics provides Prometheus metrics collection for bonealign's
// serve mode.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds all Prometheus metrics for bonealign.
type Collector struct {
	CommandsTotal      *prometheus.CounterVec
	CommandDuration    *prometheus.HistogramVec
	BonesMatched       *prometheus.CounterVec
	BonesUnmatched     *prometheus.CounterVec
	ConstraintsRemoved prometheus.Counter
	SceneReloads       prometheus.Counter
	SceneReloadErrors  prometheus.Counter
}

// New creates a new metrics collector and registers it with the given
// registerer.
func New(reg prometheus.Registerer) *Collector {
	c := &Collector{
		CommandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bonealign",
				Name:      "commands_total",
				Help:      "Total number of command invocations",
			},
			[]string{"command", "status"},
		),
		CommandDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "bonealign",
				Name:      "command_duration_seconds",
				Help:      "Command invocation duration in seconds",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
			},
			[]string{"command"},
		),
		BonesMatched: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bonealign",
				Name:      "bones_matched_total",
				Help:      "Total bones matched by name across command invocations",
			},
			[]string{"command"},
		),
		BonesUnmatched: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "bonealign",
				Name:      "bones_unmatched_total",
				Help:      "Total bones with no same-named counterpart",
			},
			[]string{"command"},
		),
		ConstraintsRemoved: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "bonealign",
				Name:      "constraints_removed_total",
				Help:      "Total constraints removed by clear-links",
			},
		),
		SceneReloads: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "bonealign",
				Name:      "scene_reloads_total",
				Help:      "Total scene file reloads",
			},
		),
		SceneReloadErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "bonealign",
				Name:      "scene_reload_errors_total",
				Help:      "Total scene file reloads that failed",
			},
		),
	}

	reg.MustRegister(
		c.CommandsTotal,
		c.CommandDuration,
		c.BonesMatched,
		c.BonesUnmatched,
		c.ConstraintsRemoved,
		c.SceneReloads,
		c.SceneReloadErrors,
	)
	return c
}
