package handler

import (
	"strings"

	dErrors "uniagendas/pkg/domain-errors"
	"uniagendas/pkg/validation"
)

// CPFRequest carries a CPF in any punctuation. It is not validated here:
// answering "is this valid" is the point of the endpoint.
type CPFRequest struct {
	CPF string `json:"cpf" validate:"max=32"`
}

func (r *CPFRequest) Normalize() {
	if r == nil {
		return
	}
	r.CPF = strings.TrimSpace(r.CPF)
}

func (r *CPFRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return validation.Validate(r)
}

type CPFBatchRequest struct {
	Cpfs []string `json:"cpfs" validate:"required,min=1,max=100,dive,max=32"`
}

func (r *CPFBatchRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return validation.Validate(r)
}

type ProtocolPreviewRequest struct {
	Category string `json:"category" validate:"max=32"`
}

func (r *ProtocolPreviewRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	return validation.Validate(r)
}
