package models

import id "uniagendas/pkg/domain"

// AppointmentScheduled is raised when a slot is booked.
type AppointmentScheduled struct {
	AppointmentID         id.AppointmentID
	Protocol              string
	PatientID             id.PatientID
	DoctorID              id.DoctorID
	Type                  Type
	AuthorizationProtocol string
}

// StatusChanged is raised on every lifecycle transition. Reference holds the
// protocol issued by the transition, if any.
type StatusChanged struct {
	AppointmentID id.AppointmentID
	Protocol      string
	From          Status
	To            Status
	Reference     string
}
