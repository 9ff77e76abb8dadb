package handler

import (
	"strings"

	"uniagendas/internal/doctor/service"
	dErrors "uniagendas/pkg/domain-errors"
	"uniagendas/pkg/validation"
)

type RegisterDoctorRequest struct {
	FullName  string `json:"full_name" validate:"required,notblank,max=128"`
	Specialty string `json:"specialty" validate:"required,notblank,max=100"`
	CRMState  string `json:"crm_state" validate:"required,br_uf"`
	CRMNumber string `json:"crm_number" validate:"required,numeric,min=4,max=8"`
}

func (r *RegisterDoctorRequest) Normalize() {
	if r == nil {
		return
	}
	r.FullName = strings.TrimSpace(r.FullName)
	r.Specialty = strings.TrimSpace(r.Specialty)
	r.CRMState = strings.ToUpper(strings.TrimSpace(r.CRMState))
	r.CRMNumber = strings.TrimSpace(r.CRMNumber)
}

func (r *RegisterDoctorRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return validation.Validate(r)
}

func (r *RegisterDoctorRequest) ToCommand() *service.RegisterCommand {
	return &service.RegisterCommand{
		FullName:  r.FullName,
		Specialty: r.Specialty,
		CRMState:  r.CRMState,
		CRMNumber: r.CRMNumber,
	}
}
