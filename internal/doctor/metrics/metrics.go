package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Registered    prometheus.Counter
	Deactivations prometheus.Counter
}

func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

func NewWith(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Registered: f.NewCounter(prometheus.CounterOpts{
			Name: "uniagendas_doctors_registered_total",
			Help: "Total number of doctors registered",
		}),
		Deactivations: f.NewCounter(prometheus.CounterOpts{
			Name: "uniagendas_doctors_deactivated_total",
			Help: "Total number of doctor deactivations",
		}),
	}
}

func (m *Metrics) IncrementRegistered() {
	m.Registered.Inc()
}

func (m *Metrics) IncrementDeactivated() {
	m.Deactivations.Inc()
}
