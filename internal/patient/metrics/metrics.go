package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Registered    prometheus.Counter
	DuplicateCPFs prometheus.Counter
}

func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

func NewWith(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Registered: f.NewCounter(prometheus.CounterOpts{
			Name: "uniagendas_patients_registered_total",
			Help: "Total number of patients registered",
		}),
		DuplicateCPFs: f.NewCounter(prometheus.CounterOpts{
			Name: "uniagendas_patients_duplicate_cpf_total",
			Help: "Registrations rejected because the CPF was already on file",
		}),
	}
}

func (m *Metrics) IncrementRegistered() {
	m.Registered.Inc()
}

func (m *Metrics) IncrementDuplicateCPF() {
	m.DuplicateCPFs.Inc()
}
