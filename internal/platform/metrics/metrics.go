package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	ManifestationsCreated prometheus.Counter
	ProtocolConflicts     prometheus.Counter
	ResponsesAppended     prometheus.Counter
	ResponsesRead         prometheus.Counter
	StatusTransitions     *prometheus.CounterVec
	RequestDuration       *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics on a caller-supplied registry. Tests pass a
// fresh registry to avoid duplicate registration panics.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		ManifestationsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "ouvidoria_manifestations_created_total",
			Help: "Total number of manifestations successfully submitted",
		}),
		ProtocolConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "ouvidoria_protocol_conflicts_total",
			Help: "Total number of protocol collisions that triggered a regeneration",
		}),
		ResponsesAppended: factory.NewCounter(prometheus.CounterOpts{
			Name: "ouvidoria_responses_appended_total",
			Help: "Total number of official responses appended by issuing bodies",
		}),
		ResponsesRead: factory.NewCounter(prometheus.CounterOpts{
			Name: "ouvidoria_responses_read_total",
			Help: "Total number of responses marked read by their owners",
		}),
		StatusTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ouvidoria_status_transitions_total",
			Help: "Status transitions applied, labeled by target status",
		}, []string{"to"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ouvidoria_request_duration_seconds",
			Help:    "HTTP request latency by route and status class",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}
