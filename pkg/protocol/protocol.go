// Package protocol generates the human-facing reference codes attached to
// appointments, procedure authorizations and attendances.
//
// Two formats exist and are deliberately kept apart:
//
//   - category-tagged codes, <TAG><NNNNNN> (e.g. "AGD482913"), with a six digit
//     suffix in [100000, 999999];
//   - dated codes, <PREFIX><YYYYMMDD><NNNN> (e.g. "UNI202610170042"), with a four
//     digit zero padded suffix in [0000, 9998].
//
// Generation is pure apart from the injected Source and clock. Codes are not
// unique; callers that need uniqueness reserve them elsewhere and retry on
// collision.
package protocol

import (
	"fmt"
	"math/rand/v2"
	"time"
)

const (
	SuffixDigits      = 6
	MinSuffix         = 100000
	MaxSuffix         = 999999
	DatedSuffixDigits = 4
	MaxDatedSuffix    = 9998

	// DefaultDatedPrefix is the prefix used for confirmation receipts.
	DefaultDatedPrefix = "UNI"
)

// Source is the randomness a Generator draws from. *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// globalSource uses the runtime's goroutine-safe top-level generator.
type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Generator issues protocol codes from an injected Source and clock.
// A Generator is safe for concurrent use when its Source is.
type Generator struct {
	src Source
	now func() time.Time
	loc *time.Location
}

type Option func(*Generator)

// WithSource replaces the randomness source, typically with a seeded
// *rand.Rand in tests.
func WithSource(src Source) Option {
	return func(g *Generator) {
		if src != nil {
			g.src = src
		}
	}
}

// WithClock replaces the clock used for dated codes.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithLocation sets the zone whose calendar date dated codes carry. Without
// it the clock's own zone is used.
func WithLocation(loc *time.Location) Option {
	return func(g *Generator) { g.loc = loc }
}

func NewGenerator(opts ...Option) *Generator {
	g := &Generator{src: globalSource{}, now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns <TAG><NNNNNN> for the category. Unrecognised categories
// fall back to CategoryAttendance.
func (g *Generator) Generate(category Category) string {
	suffix := MinSuffix + g.src.IntN(MaxSuffix-MinSuffix+1)
	return fmt.Sprintf("%s%d", category.Tag(), suffix)
}

// GenerateDefault behaves exactly like Generate(CategoryAttendance).
func (g *Generator) GenerateDefault() string {
	return g.Generate(CategoryAttendance)
}

func (g *Generator) GenerateAppointmentProtocol() string {
	return g.Generate(CategoryAppointment)
}

func (g *Generator) GenerateAuthorizationProtocol() string {
	return g.Generate(CategoryAuthorization)
}

func (g *Generator) GenerateAttendanceProtocol() string {
	return g.Generate(CategoryAttendance)
}

// GenerateDated returns <PREFIX><YYYY><MM><DD><NNNN> using the generator's
// clock and location. The prefix is used verbatim.
func (g *Generator) GenerateDated(prefix string) string {
	suffix := g.src.IntN(MaxDatedSuffix + 1)
	now := g.now()
	if g.loc != nil {
		now = now.In(g.loc)
	}
	return fmt.Sprintf("%s%s%04d", prefix, now.Format("20060102"), suffix)
}

var defaultGenerator = NewGenerator()

// Generate issues a category-tagged code from the process-wide generator.
func Generate(category Category) string { return defaultGenerator.Generate(category) }

func GenerateAppointmentProtocol() string { return defaultGenerator.GenerateAppointmentProtocol() }

func GenerateAuthorizationProtocol() string {
	return defaultGenerator.GenerateAuthorizationProtocol()
}

func GenerateAttendanceProtocol() string { return defaultGenerator.GenerateAttendanceProtocol() }

// GenerateDated issues a dated code from the process-wide generator.
func GenerateDated(prefix string) string { return defaultGenerator.GenerateDated(prefix) }
