package models

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no-show"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// IsOpen reports whether the appointment still occupies the doctor's agenda.
func (s Status) IsOpen() bool {
	return s == StatusScheduled || s == StatusConfirmed
}

// CanTransitionTo checks if a transition from the current status to the target is valid.
// Valid transitions:
// - scheduled -> confirmed
// - scheduled|confirmed -> cancelled
// - scheduled|confirmed -> no-show
// - confirmed -> completed
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusScheduled:
		return target == StatusConfirmed || target == StatusCancelled || target == StatusNoShow
	case StatusConfirmed:
		return target == StatusCompleted || target == StatusCancelled || target == StatusNoShow
	default:
		return false // completed, cancelled and no-show are terminal
	}
}

// Type is the kind of visit being booked.
type Type string

const (
	TypeConsultation Type = "consultation"
	TypeFollowUp     Type = "followup"
	TypeProcedure    Type = "procedure"
	TypeEmergency    Type = "emergency"
)

// ValidTypes lists the accepted appointment types.
var ValidTypes = map[Type]bool{
	TypeConsultation: true,
	TypeFollowUp:     true,
	TypeProcedure:    true,
	TypeEmergency:    true,
}

func (t Type) IsValid() bool {
	return ValidTypes[t]
}

// RequiresAuthorization is true for types that carry an AUT protocol.
func (t Type) RequiresAuthorization() bool {
	return t == TypeProcedure
}
