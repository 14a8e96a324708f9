package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// NewRegistry returns a registry carrying the Go runtime and process collectors.
// Component metrics are registered against it with their NewWithRegistry constructors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Inventory exposes registry sizes as gauges sampled on scrape.
type Inventory struct {
	Students prometheus.GaugeFunc
	Assets   prometheus.GaugeFunc
}

// RegisterInventory samples students() and assets() on every scrape.
func RegisterInventory(reg prometheus.Registerer, students, assets func() int) *Inventory {
	f := promauto.With(reg)
	return &Inventory{
		Students: f.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "labcheckout_students_registered",
			Help: "Students currently held in the student registry",
		}, func() float64 { return float64(students()) }),
		Assets: f.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "labcheckout_assets_registered",
			Help: "Assets currently held in the asset registry",
		}, func() float64 { return float64(assets()) }),
	}
}
