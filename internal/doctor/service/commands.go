package service

// RegisterCommand carries already-normalized input for Register.
type RegisterCommand struct {
	FullName  string
	Specialty string
	CRMState  string
	CRMNumber string
}
