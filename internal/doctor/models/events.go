package models

import id "uniagendas/pkg/domain"

type DoctorRegistered struct {
	DoctorID  id.DoctorID
	Specialty string
}

type DoctorDeactivated struct {
	DoctorID id.DoctorID
}

type DoctorReactivated struct {
	DoctorID id.DoctorID
}
