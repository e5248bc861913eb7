// Package metrics holds the notifier's Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is the set of notifier collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	logsWritten     *prometheus.CounterVec
	deliveryFailure *prometheus.CounterVec
	dispatches      *prometheus.CounterVec
	sweeps          *prometheus.CounterVec
	sweepItems      *prometheus.CounterVec
	sweepDuration   prometheus.Histogram
}

// New creates and registers collectors on a fresh registry, together with
// the Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		logsWritten: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "notifier",
			Name:      "delivery_logs_written_total",
			Help:      "Delivery log records written, by channel and origin kind.",
		}, []string{"channel", "origin"}),
		deliveryFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "notifier",
			Name:      "delivery_failures_total",
			Help:      "Delivery log writes that failed, by origin kind.",
		}, []string{"origin"}),
		dispatches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "notifier",
			Name:      "dispatches_total",
			Help:      "Campaign and post dispatch attempts, by kind and result.",
		}, []string{"kind", "result"}),
		sweeps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "notifier",
			Name:      "sweeps_total",
			Help:      "Scheduler sweeps, by result (completed or skipped).",
		}, []string{"result"}),
		sweepItems: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "notifier",
			Name:      "sweep_items_total",
			Help:      "Items handled by scheduler sweeps, by outcome.",
		}, []string{"outcome"}),
		sweepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "notifier",
			Name:      "sweep_duration_seconds",
			Help:      "Wall time of completed scheduler sweeps.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.logsWritten,
		m.deliveryFailure,
		m.dispatches,
		m.sweeps,
		m.sweepItems,
		m.sweepDuration,
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) LogWritten(channel, origin string) {
	if m == nil {
		return
	}
	m.logsWritten.WithLabelValues(channel, origin).Inc()
}

func (m *Metrics) DeliveryFailed(origin string) {
	if m == nil {
		return
	}
	m.deliveryFailure.WithLabelValues(origin).Inc()
}

// Dispatched records one dispatch attempt. result is "sent", "skipped" or "failed".
func (m *Metrics) Dispatched(kind, result string) {
	if m == nil {
		return
	}
	m.dispatches.WithLabelValues(kind, result).Inc()
}

// SweepSkipped records a sweep that found another sweep in flight.
func (m *Metrics) SweepSkipped() {
	if m == nil {
		return
	}
	m.sweeps.WithLabelValues("skipped").Inc()
}

// SweepCompleted records a finished sweep and its per-item outcomes.
func (m *Metrics) SweepCompleted(seconds float64, sent, failed, skipped int) {
	if m == nil {
		return
	}
	m.sweeps.WithLabelValues("completed").Inc()
	m.sweepDuration.Observe(seconds)
	m.sweepItems.WithLabelValues("sent").Add(float64(sent))
	m.sweepItems.WithLabelValues("failed").Add(float64(failed))
	m.sweepItems.WithLabelValues("skipped").Add(float64(skipped))
}
