package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()
	m.LogWritten("EMAIL", "campaign")
	m.LogWritten("EMAIL", "campaign")
	m.LogWritten("SMS", "order")
	m.DeliveryFailed("order")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.logsWritten.WithLabelValues("EMAIL", "campaign")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.logsWritten.WithLabelValues("SMS", "order")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.deliveryFailure.WithLabelValues("order")))

	m.SweepCompleted(0.2, 2, 1, 0)
	m.SweepSkipped()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sweeps.WithLabelValues("completed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sweeps.WithLabelValues("skipped")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.sweepItems.WithLabelValues("sent")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.LogWritten("EMAIL", "order")
		m.DeliveryFailed("order")
		m.Dispatched("campaign", "sent")
		m.SweepSkipped()
		m.SweepCompleted(1, 1, 1, 1)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.Dispatched("campaign", "sent")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `notifier_dispatches_total{kind="campaign",result="sent"} 1`)
}
