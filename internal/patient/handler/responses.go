package handler

import (
	"time"

	"uniagendas/internal/patient/models"
	"uniagendas/pkg/brformat"
	"uniagendas/pkg/taxpayer"
)

type PatientResponse struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	CPF       string    `json:"cpf"`
	Phone     string    `json:"phone,omitempty"`
	Email     string    `json:"email,omitempty"`
	BirthDate string    `json:"birth_date,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type PatientListResponse struct {
	Patients []PatientResponse `json:"patients"`
	Count    int               `json:"count"`
}

func toPatientResponse(p *models.Patient) *PatientResponse {
	resp := &PatientResponse{
		ID:        p.ID.String(),
		FullName:  p.FullName,
		CPF:       taxpayer.Format(p.CPF),
		Email:     p.Email,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Phone != "" {
		resp.Phone = brformat.Phone(p.Phone)
	}
	if p.BirthDate != nil {
		resp.BirthDate = p.BirthDate.Format(birthDateLayout)
	}
	return resp
}

func toPatientListResponse(patients []*models.Patient) *PatientListResponse {
	out := &PatientListResponse{Patients: make([]PatientResponse, 0, len(patients))}
	for _, p := range patients {
		out.Patients = append(out.Patients, *toPatientResponse(p))
	}
	out.Count = len(out.Patients)
	return out
}
