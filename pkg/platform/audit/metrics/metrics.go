package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for the audit publisher.
type Metrics struct {
	QueueDepth      prometheus.Gauge
	EventsDropped   prometheus.Counter
	EventsEnqueued  prometheus.Counter
	PersistDuration prometheus.Histogram
	PersistFailures prometheus.Counter
	EventsProcessed prometheus.Counter
}

// New registers audit publisher metrics with the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers audit publisher metrics with reg.
// Tests pass a fresh prometheus.NewRegistry() to avoid duplicate registration.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		QueueDepth: f.NewGauge(prometheus.GaugeOpts{
			Name: "labcheckout_audit_queue_depth",
			Help: "Current number of events in the audit publisher queue",
		}),
		EventsDropped: f.NewCounter(prometheus.CounterOpts{
			Name: "labcheckout_audit_events_dropped_total",
			Help: "Total number of audit events dropped due to full buffer",
		}),
		EventsEnqueued: f.NewCounter(prometheus.CounterOpts{
			Name: "labcheckout_audit_events_enqueued_total",
			Help: "Total number of audit events successfully enqueued",
		}),
		PersistDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "labcheckout_audit_persist_duration_seconds",
			Help:    "Time taken to persist an audit event to the store",
			Buckets: []float64{0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		PersistFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "labcheckout_audit_persist_failures_total",
			Help: "Total number of audit event persistence failures",
		}),
		EventsProcessed: f.NewCounter(prometheus.CounterOpts{
			Name: "labcheckout_audit_events_processed_total",
			Help: "Total number of audit events successfully persisted",
		}),
	}
}

func (m *Metrics) IncQueueDepth()     { m.QueueDepth.Inc() }
func (m *Metrics) DecQueueDepth()     { m.QueueDepth.Dec() }
func (m *Metrics) IncEventsDropped()  { m.EventsDropped.Inc() }
func (m *Metrics) IncEventsEnqueued() { m.EventsEnqueued.Inc() }

// ObservePersist records one store write and its outcome.
func (m *Metrics) ObservePersist(durationSeconds float64, err error) {
	m.PersistDuration.Observe(durationSeconds)
	if err != nil {
		m.PersistFailures.Inc()
		return
	}
	m.EventsProcessed.Inc()
}
