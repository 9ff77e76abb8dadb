package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Issued     *prometheus.CounterVec
	Collisions *prometheus.CounterVec
	Exhausted  *prometheus.CounterVec
	Degraded   prometheus.Gauge
}

func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

func NewWith(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Issued: f.NewCounterVec(prometheus.CounterOpts{
			Name: "uniagendas_protocols_issued_total",
			Help: "Protocol codes issued and reserved, by category",
		}, []string{"category"}),
		Collisions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "uniagendas_protocol_collisions_total",
			Help: "Generated protocol codes that were already reserved",
		}, []string{"category"}),
		Exhausted: f.NewCounterVec(prometheus.CounterOpts{
			Name: "uniagendas_protocol_attempts_exhausted_total",
			Help: "Issue calls that gave up after the maximum number of attempts",
		}, []string{"category"}),
		Degraded: f.NewGauge(prometheus.GaugeOpts{
			Name: "uniagendas_protocol_registry_degraded",
			Help: "1 while reservations fall back to the local registry",
		}),
	}
}

func (m *Metrics) IncrementIssued(category string) {
	m.Issued.WithLabelValues(category).Inc()
}

func (m *Metrics) IncrementCollision(category string) {
	m.Collisions.WithLabelValues(category).Inc()
}

func (m *Metrics) IncrementExhausted(category string) {
	m.Exhausted.WithLabelValues(category).Inc()
}

func (m *Metrics) SetDegraded(degraded bool) {
	if degraded {
		m.Degraded.Set(1)
		return
	}
	m.Degraded.Set(0)
}
