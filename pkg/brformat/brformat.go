// Package brformat renders values the way the pt-BR front-end displays them:
// day-first dates, Brazilian phone masks and short relative times.
package brformat

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	DateLayout     = "02/01/2006"
	TimeLayout     = "15:04"
	DateTimeLayout = "02/01/2006 15:04"
)

func Date(t time.Time) string     { return t.Format(DateLayout) }
func Time(t time.Time) string     { return t.Format(TimeLayout) }
func DateTime(t time.Time) string { return t.Format(DateTimeLayout) }

// Phone masks 11 digit mobile numbers as (DD) NNNNN-NNNN and 10 digit landlines
// as (DD) NNNN-NNNN. Anything else is returned unchanged.
func Phone(raw string) string {
	d := Digits(raw)
	switch len(d) {
	case 11:
		return fmt.Sprintf("(%s) %s-%s", d[:2], d[2:7], d[7:])
	case 10:
		return fmt.Sprintf("(%s) %s-%s", d[:2], d[2:6], d[6:])
	default:
		return raw
	}
}

// ValidPhone reports whether raw holds a 10 or 11 digit Brazilian number.
func ValidPhone(raw string) bool {
	n := len(Digits(raw))
	return n == 10 || n == 11
}

// Truncate shortens text to maxLength runes and appends "...". A negative
// maxLength counts as zero.
func Truncate(text string, maxLength int) string {
	maxLength = max(maxLength, 0)
	if utf8.RuneCountInString(text) <= maxLength {
		return text
	}
	return string([]rune(text)[:maxLength]) + "..."
}

// RemoveAccents folds diacritics away for accent-insensitive search.
func RemoveAccents(text string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, text)
	if err != nil {
		return text
	}
	return out
}

// SearchKey folds text for accent and case insensitive equality:
// "  Cardiología " and "cardiologia" share a key.
func SearchKey(text string) string {
	return strings.ToLower(RemoveAccents(strings.Join(strings.Fields(text), " ")))
}

// RelativeTime describes t relative to now in short pt-BR form, falling back
// to the date after a week.
func RelativeTime(t, now time.Time) string {
	diff := now.Sub(t)
	mins := int(diff / time.Minute)
	hours := mins / 60
	days := hours / 24
	switch {
	case mins < 1:
		return "agora mesmo"
	case mins < 60:
		return fmt.Sprintf("%d min atrás", mins)
	case hours < 24:
		return fmt.Sprintf("%dh atrás", hours)
	case days < 7:
		return fmt.Sprintf("%dd atrás", days)
	default:
		return Date(t)
	}
}

// Digits keeps only the ASCII digits of s.
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
