// v0
// internal/metrics/metrics.go
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles the counters and gauges the server exposes on
// /metrics, backed by its own private prometheus.Registry so tests can
// build as many as they like without default-registry collisions.
type Registry struct {
	registry *prometheus.Registry

	TicksTotal       prometheus.Counter
	TickErrorsTotal  prometheus.Counter
	FreshRunsTotal   prometheus.Counter
	RunsSubscribers  prometheus.Gauge
	TimerSubscribers prometheus.Gauge
}

// NewRegistry builds a Registry with every metric registered.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Registry{
		registry: reg,
		TicksTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "animeitor_updateloop_ticks_total",
			Help: "Total number of update-loop ticks executed.",
		}),
		TickErrorsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "animeitor_updateloop_tick_errors_total",
			Help: "Total number of update-loop ticks that failed to load or refresh a snapshot.",
		}),
		FreshRunsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "animeitor_fresh_runs_total",
			Help: "Total number of runs newly observed and published to the runs broadcast.",
		}),
		RunsSubscribers: factory.NewGauge(prometheus.GaugeOpts{
			Name: "animeitor_runs_subscribers",
			Help: "Current number of live subscribers to the runs broadcast.",
		}),
		TimerSubscribers: factory.NewGauge(prometheus.GaugeOpts{
			Name: "animeitor_timer_subscribers",
			Help: "Current number of live subscribers to the timer broadcast.",
		}),
	}
}

// Handler returns the http.Handler to mount at /metrics.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
