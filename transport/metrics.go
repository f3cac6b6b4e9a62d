package transport

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics holds the Prometheus instruments exposed at /metrics (DOMAIN
// STACK: prometheus/client_golang wired into the diagnostics surface). A
// private registry keeps repeated newMetrics calls (one per test-built
// server) from colliding on the global default registerer.
type metrics struct {
	registry       *prometheus.Registry
	requests       *prometheus.CounterVec
	activeSessions prometheus.GaugeFunc
	catalogSize    prometheus.GaugeFunc
}

func newMetrics(activeSessions, catalogSize func() float64) *metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &metrics{
		registry: reg,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "omadmserver_requests_total",
			Help: "Total HTTP requests handled, by route and status class.",
		}, []string{"route", "status"}),
		activeSessions: factory.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "omadmserver_active_sessions",
			Help: "Number of live OMA DM sessions.",
		}, activeSessions),
		catalogSize: factory.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "omadmserver_catalog_packages",
			Help: "Number of packages in the update catalog.",
		}, catalogSize),
	}
}
