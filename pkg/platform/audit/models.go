package audit

import (
	"time"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp  time.Time         `json:"timestamp"`
	Action     string            `json:"action"`
	Subject    string            `json:"subject,omitempty"`
	Protocol   string            `json:"protocol,omitempty"`
	RequestID  string            `json:"request_id,omitempty"`
	Device     string            `json:"device,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Action names what happened. It becomes Event.Action and the Kafka
// event-type header.
type Action string

const (
	EventPatientRegistered      Action = "patient_registered"
	EventPatientUpdated         Action = "patient_updated"
	EventDoctorRegistered       Action = "doctor_registered"
	EventDoctorDeactivated      Action = "doctor_deactivated"
	EventDoctorReactivated      Action = "doctor_reactivated"
	EventAppointmentScheduled   Action = "appointment_scheduled"
	EventAppointmentRescheduled Action = "appointment_rescheduled"
	EventAppointmentConfirmed   Action = "appointment_confirmed"
	EventAppointmentCompleted   Action = "appointment_completed"
	EventAppointmentCancelled   Action = "appointment_cancelled"
	EventAppointmentNoShow      Action = "appointment_no_show"
)

// subjectKeys are checked in order when picking an event's subject.
var subjectKeys = []string{"appointment_id", "patient_id", "doctor_id"}
