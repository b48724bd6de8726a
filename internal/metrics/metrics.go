// Package metrics expone las métricas Prometheus del servicio.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestsTotal cuenta requests por método/path/status.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Número total de requests procesadas",
	}, []string{"method", "path", "status"})

	// RequestDuration mide latencia por método/path.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Latencia de los requests HTTP",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// RequestsInFlight mide requests en vuelo.
	RequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Requests en vuelo",
	})

	// AuthFailures cuenta logins denegados (señal uniforme hacia afuera,
	// contador agregado acá adentro).
	AuthFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_failures_total",
		Help: "Autenticaciones denegadas",
	})

	// ImpersonationDenials cuenta canjes de impersonación denegados.
	ImpersonationDenials = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auth_impersonation_denials_total",
		Help: "Impersonaciones denegadas por precondición faltante",
	})

	// ScopeViolations cuenta intentos de query sin tenant resoluble.
	ScopeViolations = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tenancy_scope_violations_total",
		Help: "Queries scoped desde identidades sin yacht",
	})
)

// Handler expone /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
