package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var durationBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1}

// Metrics provides observability for the equippable module.
// Tracks customization outcomes, item movements and critical path durations.
type Metrics struct {
	Customizations    *prometheus.CounterVec
	ItemsReturned     prometheus.Counter
	ItemsAbsorbed     prometheus.Counter
	ItemsRegistered   prometheus.Counter
	ItemsFilled       prometheus.Counter
	CustomizeDuration prometheus.Histogram
	RegisterDuration  prometheus.Histogram
}

// New creates a Metrics instance registered with the default registry.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers the equippable metrics with reg.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Customizations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "equippable_customizations_total",
			Help: "Total number of customize calls by outcome",
		}, []string{"outcome"}),
		ItemsReturned: factory.NewCounter(prometheus.CounterOpts{
			Name: "equippable_items_returned_total",
			Help: "Total number of item units returned to callers",
		}),
		ItemsAbsorbed: factory.NewCounter(prometheus.CounterOpts{
			Name: "equippable_items_absorbed_total",
			Help: "Total number of item units burned into an equippable",
		}),
		ItemsRegistered: factory.NewCounter(prometheus.CounterOpts{
			Name: "equippable_items_registered_total",
			Help: "Total number of item registrations written",
		}),
		ItemsFilled: factory.NewCounter(prometheus.CounterOpts{
			Name: "equippable_items_filled_total",
			Help: "Total number of item units deposited into custody",
		}),
		CustomizeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "equippable_customize_duration_seconds",
			Help:    "Duration of Customize operations",
			Buckets: durationBuckets,
		}),
		RegisterDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "equippable_register_duration_seconds",
			Help:    "Duration of RegisterItems operations",
			Buckets: durationBuckets,
		}),
	}
}

// RecordCustomization records the outcome of a customize call ("ok" or an error code).
func (m *Metrics) RecordCustomization(outcome string, returned, absorbed int) {
	m.Customizations.WithLabelValues(outcome).Inc()
	m.ItemsReturned.Add(float64(returned))
	m.ItemsAbsorbed.Add(float64(absorbed))
}

// ObserveCustomize records the duration of a Customize operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveCustomize(start time.Time) {
	m.CustomizeDuration.Observe(time.Since(start).Seconds())
}

// ObserveRegister records the duration of a RegisterItems operation.
func (m *Metrics) ObserveRegister(start time.Time) {
	m.RegisterDuration.Observe(time.Since(start).Seconds())
}
