package study

import "github.com/google/uuid"

// TraceIDGenerator produces the id that ties one recording's log lines and
// CLI response together. Implemented by UUIDv7Generator and, in tests,
// testutil.FixedTraceIDs.
type TraceIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 trace ids.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate returns a new hyphenated UUIDv7.
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}
