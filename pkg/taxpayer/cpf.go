// Package taxpayer validates and formats CPF numbers, the Brazilian individual
// taxpayer identifier: nine base digits followed by two check digits.
//
// Validation is a total predicate: malformed input yields false, never an error.
package taxpayer

import (
	"strings"

	dErrors "uniagendas/pkg/domain-errors"
)

// Length is the number of digits in a CPF.
const Length = 11

const baseLength = 9

// Digits strips every non-digit character from raw.
func Digits(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); i++ {
		if c := raw[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// IsValid reports whether raw, after stripping punctuation, is a CPF with
// correct check digits. Sequences of one repeated digit are rejected even
// though their check digits compute correctly.
func IsValid(raw string) bool {
	d := Digits(raw)
	if len(d) != Length || repeated(d) {
		return false
	}
	if checkDigit(d[:baseLength]) != d[9] {
		return false
	}
	return checkDigit(d[:baseLength+1]) == d[10]
}

// Format renders raw as XXX.XXX.XXX-XX. Output is only meaningful for input
// holding exactly 11 digits; with fewer or more digits the stripped digits
// are returned as is. Callers should validate before formatting.
func Format(raw string) string {
	d := Digits(raw)
	if len(d) != Length {
		return d
	}
	return d[0:3] + "." + d[3:6] + "." + d[6:9] + "-" + d[9:11]
}

// CheckDigits computes the two check digits for a nine digit base.
func CheckDigits(base string) (string, error) {
	d := Digits(base)
	if len(d) != baseLength || len(d) != len(base) {
		return "", dErrors.New(dErrors.CodeInvalidInput, "cpf base must be exactly 9 digits")
	}
	first := checkDigit(d)
	second := checkDigit(d + string(first))
	return string([]byte{first, second}), nil
}

// checkDigit computes the next check digit over digits. Weights start at
// len(digits)+1 and descend to 2; a remainder of 10 or 11 maps to 0.
func checkDigit(digits string) byte {
	sum := 0
	weight := len(digits) + 1
	for i := 0; i < len(digits); i++ {
		sum += int(digits[i]-'0') * weight
		weight--
	}
	r := 11 - sum%11
	if r >= 10 {
		r = 0
	}
	return byte('0' + r)
}

func repeated(d string) bool {
	for i := 1; i < len(d); i++ {
		if d[i] != d[0] {
			return false
		}
	}
	return true
}
