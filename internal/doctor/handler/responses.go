package handler

import (
	"time"

	"uniagendas/internal/doctor/models"
)

type DoctorResponse struct {
	ID        string    `json:"id"`
	FullName  string    `json:"full_name"`
	Specialty string    `json:"specialty"`
	CRM       string    `json:"crm"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Count   int              `json:"count"`
}

func toDoctorResponse(d *models.Doctor) *DoctorResponse {
	return &DoctorResponse{
		ID:        d.ID.String(),
		FullName:  d.FullName,
		Specialty: d.Specialty,
		CRM:       d.CRM,
		Active:    d.Active,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func toDoctorListResponse(doctors []*models.Doctor) *DoctorListResponse {
	out := &DoctorListResponse{Doctors: make([]DoctorResponse, 0, len(doctors))}
	for _, d := range doctors {
		out.Doctors = append(out.Doctors, *toDoctorResponse(d))
	}
	out.Count = len(out.Doctors)
	return out
}
