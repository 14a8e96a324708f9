package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for checkout operations.
type Metrics struct {
	CheckoutsTotal  *prometheus.CounterVec
	NoticesTotal    *prometheus.CounterVec
	CheckoutLatency prometheus.Histogram
	AssetsOut       prometheus.Gauge
}

// New registers checkout metrics with the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers checkout metrics with reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		CheckoutsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "labcheckout_checkouts_total",
			Help: "Checkout attempts, labeled by outcome code and reason",
		}, []string{"code", "reason"}),
		NoticesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "labcheckout_duration_notices_total",
			Help: "Duration policy notices raised, labeled by notice",
		}, []string{"notice"}),
		CheckoutLatency: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "labcheckout_checkout_latency_seconds",
			Help:    "Latency of checkout processing in seconds",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		}),
		AssetsOut: f.NewGauge(prometheus.GaugeOpts{
			Name: "labcheckout_assets_checked_out",
			Help: "Assets checked out through this process",
		}),
	}
}

// ObserveCheckout records one finished attempt. Successful attempts use code "ok".
func (m *Metrics) ObserveCheckout(code, reason string, durationSeconds float64) {
	m.CheckoutsTotal.WithLabelValues(code, reason).Inc()
	m.CheckoutLatency.Observe(durationSeconds)
	if code == OutcomeOK {
		m.AssetsOut.Inc()
	}
}

func (m *Metrics) IncNotice(notice string) {
	m.NoticesTotal.WithLabelValues(notice).Inc()
}

// OutcomeOK labels a committed checkout.
const OutcomeOK = "ok"
