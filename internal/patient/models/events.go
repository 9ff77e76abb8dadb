package models

import id "uniagendas/pkg/domain"

// Domain events capture what happened to a patient record. The service
// turns them into audit log lines.

type PatientRegistered struct {
	PatientID id.PatientID
	CPFHash   string
}

type PatientUpdated struct {
	PatientID id.PatientID
}
