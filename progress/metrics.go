package progress

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the Prometheus collectors a Tracker mirrors its counters into.
type Metrics struct {
	applications prometheus.Counter
	accepted     prometheus.Counter
	pass         prometheus.Gauge
}

// NewMetrics registers the closure progress collectors with reg.
// Registering twice on the same registry panics, as with promauto.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		applications: f.NewCounter(prometheus.CounterOpts{
			Namespace: "subalg",
			Subsystem: "closure",
			Name:      "applications_total",
			Help:      "Operation applications attempted by closures.",
		}),
		accepted: f.NewCounter(prometheus.CounterOpts{
			Namespace: "subalg",
			Subsystem: "closure",
			Name:      "accepted_total",
			Help:      "Tuples accepted into closures.",
		}),
		pass: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "subalg",
			Subsystem: "closure",
			Name:      "pass",
			Help:      "Current pass of the most recently updated closure.",
		}),
	}
}
