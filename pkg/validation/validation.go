package validation

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"uniagendas/pkg/brformat"
	dErrors "uniagendas/pkg/domain-errors"
	"uniagendas/pkg/taxpayer"
)

var defaultValidator = newValidator()

// federativeUnits are the two-letter state codes used in CRM registrations.
var federativeUnits = map[string]struct{}{
	"AC": {}, "AL": {}, "AP": {}, "AM": {}, "BA": {}, "CE": {}, "DF": {}, "ES": {}, "GO": {},
	"MA": {}, "MT": {}, "MS": {}, "MG": {}, "PA": {}, "PB": {}, "PR": {}, "PE": {}, "PI": {},
	"RJ": {}, "RN": {}, "RS": {}, "RO": {}, "RR": {}, "SC": {}, "SP": {}, "SE": {}, "TO": {},
}

// IsFederativeUnit reports whether uf is a Brazilian state code, ignoring case.
func IsFederativeUnit(uf string) bool {
	_, ok := federativeUnits[strings.ToUpper(strings.TrimSpace(uf))]
	return ok
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("cpf", func(fl validator.FieldLevel) bool {
		return taxpayer.IsValid(fl.Field().String())
	})
	_ = v.RegisterValidation("br_phone", func(fl validator.FieldLevel) bool {
		return brformat.ValidPhone(fl.Field().String())
	})
	_ = v.RegisterValidation("br_uf", func(fl validator.FieldLevel) bool {
		return IsFederativeUnit(fl.Field().String())
	})
	return v
}

// Validate validates a struct using the default validator and returns a domain error
func Validate(req any) error {
	if err := defaultValidator.Struct(req); err != nil {
		return dErrors.New(dErrors.CodeValidation, ErrorMessage(err))
	}
	return nil
}

// ErrorMessage converts a validator error into a human-readable message
func ErrorMessage(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return "invalid request body"
	}

	fe := validationErrs[0]
	fieldName := fe.Field()
	if fieldName == "" {
		fieldName = fe.StructField()
	}
	field := snakeCase(fieldName)

	switch fe.ActualTag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "uuid":
		return fmt.Sprintf("%s must be a valid uuid", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "notblank":
		return fmt.Sprintf("%s must not be blank", field)
	case "cpf":
		return fmt.Sprintf("%s must be a valid CPF", field)
	case "br_phone":
		return fmt.Sprintf("%s must be a phone number with area code", field)
	case "br_uf":
		return fmt.Sprintf("%s must be a Brazilian state code", field)
	case "numeric":
		return fmt.Sprintf("%s must contain only digits", field)
	case "datetime":
		return fmt.Sprintf("%s must match the format %s", field, fe.Param())
	default:
		if field == "" {
			return "invalid request body"
		}
		return fmt.Sprintf("%s is invalid", field)
	}
}

// snakeCase turns a Go field name into the JSON-style name used in
// messages: "BirthDate" becomes "birth_date", "CRMState" becomes "crm_state".
func snakeCase(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 &&
			(unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
