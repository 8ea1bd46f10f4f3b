package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors for the service.
// A single instance is created at startup and shared via injection.
type Metrics struct {
	registry *prometheus.Registry

	ModelAttempts   *prometheus.CounterVec
	TaskDispatches  *prometheus.CounterVec
	StageFallbacks  *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ModelAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wayfarer_model_attempts_total",
			Help: "LLM candidate model attempts by candidate name and outcome.",
		}, []string{"candidate", "outcome"}),
		TaskDispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wayfarer_task_dispatches_total",
			Help: "Task router dispatches by task type and status.",
		}, []string{"task_type", "status"}),
		StageFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wayfarer_stage_fallbacks_total",
			Help: "Deterministic fallback activations by pipeline stage.",
		}, []string{"stage"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wayfarer_request_duration_seconds",
			Help:    "End-to-end task request duration by task type.",
			Buckets: prometheus.DefBuckets,
		}, []string{"task_type"}),
	}

	m.registry.MustRegister(
		m.ModelAttempts,
		m.TaskDispatches,
		m.StageFallbacks,
		m.RequestDuration,
	)

	return m
}

// Handler exposes the metrics registry for the HTTP gateway.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
