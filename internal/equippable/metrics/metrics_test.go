package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordCustomization(t *testing.T) {
	m := NewWithRegisterer(prometheus.NewRegistry())

	m.RecordCustomization("ok", 2, 1)
	m.RecordCustomization("validation_error", 0, 0)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.Customizations.WithLabelValues("ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Customizations.WithLabelValues("validation_error")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.ItemsReturned))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ItemsAbsorbed))
}

func TestObserveDurations(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegisterer(reg)

	m.ObserveCustomize(time.Now().Add(-10 * time.Millisecond))
	m.ObserveRegister(time.Now())

	assert.Equal(t, 2, testutil.CollectAndCount(m.CustomizeDuration)+testutil.CollectAndCount(m.RegisterDuration))
}
