package stateful

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	outcomeOK          = "ok"
	outcomeNotFound    = "not_found"
	outcomeForbidden   = "forbidden"
	outcomeRateLimited = "rate_limited"
	outcomePanic       = "panic"
)

// metrics are registered on a per-App registry so several apps can live in
// one process.
type metrics struct {
	registry *prometheus.Registry
	actions  *prometheus.CounterVec
	contexts prometheus.Gauge
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stateful_actions_total",
			Help: "Action requests handled, by outcome.",
		}, []string{"outcome"}),
		contexts: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stateful_contexts",
			Help: "Page contexts currently registered.",
		}),
	}
	m.registry.MustRegister(m.actions, m.contexts)
	return m
}

// MetricsHandler serves the app's Prometheus metrics. Mount it with
// HTTPServeMux().Handle("GET /metrics", app.MetricsHandler()).
func (a *App) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(a.metrics.registry, promhttp.HandlerOpts{})
}
