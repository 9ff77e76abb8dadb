package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Scheduled        *prometheus.CounterVec
	Transitions      *prometheus.CounterVec
	AgendaConflicts  prometheus.Counter
	ScheduleDuration prometheus.Histogram
}

func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

func NewWith(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Scheduled: f.NewCounterVec(prometheus.CounterOpts{
			Name: "uniagendas_appointments_scheduled_total",
			Help: "Appointments booked, by type",
		}, []string{"type"}),
		Transitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "uniagendas_appointment_transitions_total",
			Help: "Appointment status changes, by source and target status",
		}, []string{"from", "to"}),
		AgendaConflicts: f.NewCounter(prometheus.CounterOpts{
			Name: "uniagendas_appointment_agenda_conflicts_total",
			Help: "Bookings rejected because the doctor was already busy",
		}),
		ScheduleDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "uniagendas_appointment_schedule_duration_seconds",
			Help:    "Time spent booking an appointment, including protocol issue",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (m *Metrics) IncrementScheduled(appointmentType string) {
	m.Scheduled.WithLabelValues(appointmentType).Inc()
}

func (m *Metrics) IncrementTransition(from, to string) {
	m.Transitions.WithLabelValues(from, to).Inc()
}

func (m *Metrics) IncrementAgendaConflict() {
	m.AgendaConflicts.Inc()
}

func (m *Metrics) ObserveScheduleDuration(start time.Time) {
	m.ScheduleDuration.Observe(time.Since(start).Seconds())
}
