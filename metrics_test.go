package authrelay

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopMetrics(t *testing.T) {
	metrics := &NoopMetrics{}

	metrics.IncCounter("authrelay_logins_total", map[string]string{"outcome": "success"})
	metrics.ObserveHistogram("authrelay_message_seconds", 0.01, nil)
	metrics.SetGauge("authrelay_tokens_live", 3, nil)
}

func TestPrometheusMetrics(t *testing.T) {
	// Isolate from the default registry so repeated runs do not collide.
	prometheus.DefaultRegisterer = prometheus.NewRegistry()

	metrics := NewPrometheusMetrics()
	promMetrics, ok := metrics.(*PrometheusMetrics)
	require.True(t, ok)

	t.Run("IncCounter", func(t *testing.T) {
		tags := map[string]string{"outcome": "success"}
		metrics.IncCounter("authrelay_logins_total", tags)
		metrics.IncCounter("authrelay_logins_total", tags)

		vec, ok := promMetrics.counters["authrelay_logins_total"]
		require.True(t, ok, "counter should be registered on first use")

		metric := &dto.Metric{}
		err := vec.With(prometheus.Labels(tags)).(prometheus.Metric).Write(metric)
		assert.NoError(t, err)
		assert.Equal(t, float64(2), *metric.Counter.Value)
	})

	t.Run("ObserveHistogram", func(t *testing.T) {
		tags := map[string]string{"dialect": "go"}
		metrics.ObserveHistogram("authrelay_message_seconds", 0.25, tags)

		vec, ok := promMetrics.histograms["authrelay_message_seconds"]
		require.True(t, ok)

		metric := &dto.Metric{}
		err := vec.With(prometheus.Labels(tags)).(prometheus.Histogram).Write(metric)
		assert.NoError(t, err)
		assert.Equal(t, uint64(1), *metric.Histogram.SampleCount)
		assert.Equal(t, 0.25, *metric.Histogram.SampleSum)
	})

	t.Run("SetGauge", func(t *testing.T) {
		tags := map[string]string{"handler": "token"}
		metrics.SetGauge("authrelay_tokens_live", 5, tags)
		metrics.SetGauge("authrelay_tokens_live", 2, tags)

		vec, ok := promMetrics.gauges["authrelay_tokens_live"]
		require.True(t, ok)

		metric := &dto.Metric{}
		err := vec.With(prometheus.Labels(tags)).(prometheus.Metric).Write(metric)
		assert.NoError(t, err)
		assert.Equal(t, float64(2), *metric.Gauge.Value)
	})
}
