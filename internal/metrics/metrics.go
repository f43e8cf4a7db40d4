package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the director.
type Metrics struct {
	registry *prometheus.Registry

	// Flow metrics
	OutcomesTotal *prometheus.CounterVec

	// Downstream metrics
	DownstreamRequestsTotal *prometheus.CounterVec

	// Session metrics
	CacheEntries            prometheus.Gauge
	BackchannelLogoutsTotal prometheus.Counter
}

// New creates and registers all director metrics on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		OutcomesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "director_outcomes_total",
				Help: "Reconciliation outcomes by processing stage",
			},
			[]string{"stage", "outcome"},
		),
		DownstreamRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "director_downstream_requests_total",
				Help: "Requests made to downstream services",
			},
			[]string{"service", "status"},
		),
		CacheEntries: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "director_session_cache_entries",
				Help: "Entries currently held in the central session cache",
			},
		),
		BackchannelLogoutsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "director_backchannel_logouts_total",
				Help: "Backchannel logout requests processed",
			},
		),
	}

	registry.MustRegister(
		m.OutcomesTotal,
		m.DownstreamRequestsTotal,
		m.CacheEntries,
		m.BackchannelLogoutsTotal,
	)

	return m
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
