package testutil

import "sync"

// FixedTraceIDs returns predetermined trace ids for testing, then repeats
// the last one. With no ids it always returns "test-trace-default".
//
// Thread-safety: FixedTraceIDs is safe for concurrent use via internal mutex.
type FixedTraceIDs struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedTraceIDs creates a generator that returns ids in order.
func NewFixedTraceIDs(ids ...string) *FixedTraceIDs {
	if len(ids) == 0 {
		ids = []string{"test-trace-default"}
	}
	return &FixedTraceIDs{ids: ids}
}

// Generate returns the next predetermined id.
func (g *FixedTraceIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.ids[g.idx]
	if g.idx < len(g.ids)-1 {
		g.idx++
	}
	return id
}
