package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks the render queue.
type Metrics struct {
	Enqueued     prometheus.Counter
	URIsAssigned prometheus.Counter
	URILookups   *prometheus.CounterVec
	QueueDepth   prometheus.Gauge
}

func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Enqueued: factory.NewCounter(prometheus.CounterOpts{
			Name: "render_jobs_enqueued_total",
			Help: "Total number of paid render requests accepted",
		}),
		URIsAssigned: factory.NewCounter(prometheus.CounterOpts{
			Name: "render_uris_assigned_total",
			Help: "Total number of image URIs recorded",
		}),
		URILookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "render_uri_lookups_total",
			Help: "URI lookups by result (hit or miss)",
		}, []string{"result"}),
		QueueDepth: factory.NewGauge(prometheus.GaugeOpts{
			Name: "render_queue_depth",
			Help: "Number of jobs in the render queue at the last listing",
		}),
	}
}

// RecordLookup counts a URI lookup.
func (m *Metrics) RecordLookup(found bool) {
	result := "miss"
	if found {
		result = "hit"
	}
	m.URILookups.WithLabelValues(result).Inc()
}
