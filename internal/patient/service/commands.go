package service

import "time"

// RegisterCommand carries already-normalized input for Register.
type RegisterCommand struct {
	FullName  string
	CPF       string
	Phone     string
	Email     string
	BirthDate *time.Time
}

// UpdateContactCommand replaces only the non-nil fields.
type UpdateContactCommand struct {
	FullName *string
	Phone    *string
	Email    *string
}

// ListQuery pages through patients ordered by name.
type ListQuery struct {
	Limit  int
	Offset int
}
