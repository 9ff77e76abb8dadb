package protocol

import (
	"strconv"
	"strings"

	dErrors "uniagendas/pkg/domain-errors"
)

const tagLength = 3

// Parse splits a category-tagged code into its category and numeric suffix.
func Parse(code string) (Category, int, error) {
	code = strings.TrimSpace(code)
	if len(code) != tagLength+SuffixDigits {
		return "", 0, dErrors.New(dErrors.CodeInvalidInput, "protocol must have a 3 letter tag and 6 digits")
	}
	category, ok := categoryForTag(strings.ToUpper(code[:tagLength]))
	if !ok {
		return "", 0, dErrors.Newf(dErrors.CodeInvalidInput, "unknown protocol tag %q", code[:tagLength])
	}
	digits := code[tagLength:]
	if !allDigits(digits) {
		return "", 0, dErrors.New(dErrors.CodeInvalidInput, "protocol suffix must be numeric")
	}
	suffix, err := strconv.Atoi(digits)
	if err != nil || suffix < MinSuffix || suffix > MaxSuffix {
		return "", 0, dErrors.New(dErrors.CodeInvalidInput, "protocol suffix out of range")
	}
	return category, suffix, nil
}

// Valid reports whether code is a well-formed category-tagged code.
func Valid(code string) bool {
	_, _, err := Parse(code)
	return err == nil
}

// ValidDated reports whether code has the shape <prefix><YYYYMMDD><NNNN>.
// The date portion is checked for digits only.
func ValidDated(prefix, code string) bool {
	rest, ok := strings.CutPrefix(code, prefix)
	if !ok || len(rest) != 8+DatedSuffixDigits || !allDigits(rest) {
		return false
	}
	suffix, _ := strconv.Atoi(rest[8:])
	return suffix <= MaxDatedSuffix
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
