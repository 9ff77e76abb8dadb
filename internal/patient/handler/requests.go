package handler

import (
	"strings"
	"time"

	"uniagendas/internal/patient/service"
	"uniagendas/pkg/brformat"
	dErrors "uniagendas/pkg/domain-errors"
	"uniagendas/pkg/taxpayer"
	"uniagendas/pkg/validation"
)

const birthDateLayout = "2006-01-02"

type RegisterPatientRequest struct {
	FullName  string `json:"full_name" validate:"required,notblank,max=128"`
	CPF       string `json:"cpf" validate:"required,cpf"`
	Phone     string `json:"phone" validate:"omitempty,br_phone"`
	Email     string `json:"email" validate:"omitempty,email,max=254"`
	BirthDate string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
}

func (r *RegisterPatientRequest) Normalize() {
	if r == nil {
		return
	}
	r.FullName = strings.TrimSpace(r.FullName)
	r.CPF = taxpayer.Digits(r.CPF)
	r.Phone = brformat.Digits(r.Phone)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.BirthDate = strings.TrimSpace(r.BirthDate)
}

func (r *RegisterPatientRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return validation.Validate(r)
}

// ToCommand assumes Validate passed, so the birth date parses.
func (r *RegisterPatientRequest) ToCommand() *service.RegisterCommand {
	cmd := &service.RegisterCommand{
		FullName: r.FullName,
		CPF:      r.CPF,
		Phone:    r.Phone,
		Email:    r.Email,
	}
	if r.BirthDate != "" {
		if t, err := time.Parse(birthDateLayout, r.BirthDate); err == nil {
			cmd.BirthDate = &t
		}
	}
	return cmd
}

// UpdateContactRequest leaves absent fields untouched.
type UpdateContactRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,notblank,max=128"`
	Phone    *string `json:"phone" validate:"omitempty,br_phone"`
	Email    *string `json:"email" validate:"omitempty,email,max=254"`
}

func (r *UpdateContactRequest) Normalize() {
	if r == nil {
		return
	}
	if r.FullName != nil {
		v := strings.TrimSpace(*r.FullName)
		r.FullName = &v
	}
	if r.Phone != nil {
		v := brformat.Digits(*r.Phone)
		r.Phone = &v
	}
	if r.Email != nil {
		v := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &v
	}
}

func (r *UpdateContactRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.FullName == nil && r.Phone == nil && r.Email == nil {
		return dErrors.New(dErrors.CodeValidation, "at least one of full_name, phone or email is required")
	}
	return validation.Validate(r)
}

func (r *UpdateContactRequest) ToCommand() *service.UpdateContactCommand {
	return &service.UpdateContactCommand{
		FullName: r.FullName,
		Phone:    r.Phone,
		Email:    r.Email,
	}
}
