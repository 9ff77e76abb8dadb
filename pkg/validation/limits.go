package validation

const (
	// MaxBodySize caps JSON request bodies at 64 KB.
	MaxBodySize = 64 * 1024

	MaxNameLength      = 128
	MaxSpecialtyLength = 100
	MaxLocationLength  = 200
	MaxNotesLength     = 2000

	MinDurationMinutes = 5
	MaxDurationMinutes = 480

	// MaxBatchSize bounds list endpoints and bulk tool calls.
	MaxBatchSize = 100
)
