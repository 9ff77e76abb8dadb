package protocol

import "strings"

// Category selects the tag a protocol code is issued under.
// The zero value is treated as CategoryAttendance.
type Category string

const (
	CategoryAppointment   Category = "appointment"
	CategoryAuthorization Category = "authorization"
	CategoryAttendance    Category = "attendance"
)

const (
	TagAppointment   = "AGD"
	TagAuthorization = "AUT"
	TagAttendance    = "ATD"
)

// Categories lists every recognised category in tag order.
var Categories = []Category{CategoryAppointment, CategoryAuthorization, CategoryAttendance}

// Normalize maps unrecognised categories, including the zero value, to
// CategoryAttendance.
func (c Category) Normalize() Category {
	switch c {
	case CategoryAppointment, CategoryAuthorization, CategoryAttendance:
		return c
	default:
		return CategoryAttendance
	}
}

// Tag returns the three-letter prefix for the category.
func (c Category) Tag() string {
	switch c.Normalize() {
	case CategoryAppointment:
		return TagAppointment
	case CategoryAuthorization:
		return TagAuthorization
	default:
		return TagAttendance
	}
}

func (c Category) String() string { return string(c.Normalize()) }

// IsKnown reports whether c is one of the enumerated categories.
func (c Category) IsKnown() bool {
	return c == CategoryAppointment || c == CategoryAuthorization || c == CategoryAttendance
}

// ParseCategory accepts a category name or its tag, case-insensitively.
// The boolean is false when s was not recognised; the returned category is
// then CategoryAttendance.
func ParseCategory(s string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(CategoryAppointment), strings.ToLower(TagAppointment):
		return CategoryAppointment, true
	case string(CategoryAuthorization), strings.ToLower(TagAuthorization):
		return CategoryAuthorization, true
	case string(CategoryAttendance), strings.ToLower(TagAttendance):
		return CategoryAttendance, true
	default:
		return CategoryAttendance, false
	}
}

func categoryForTag(tag string) (Category, bool) {
	switch tag {
	case TagAppointment:
		return CategoryAppointment, true
	case TagAuthorization:
		return CategoryAuthorization, true
	case TagAttendance:
		return CategoryAttendance, true
	default:
		return "", false
	}
}
