package testutil

import "sync"

// FixedClock is a settable epoch-millisecond clock for tests.
//
// It satisfies clock.Clock. Time only moves when the test calls Advance
// or Set, so recorded timestamps and due labels are reproducible.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type FixedClock struct {
	mu  sync.Mutex
	now int64
}

// NewFixedClock creates a clock pinned at now (epoch ms).
func NewFixedClock(now int64) *FixedClock {
	return &FixedClock{now: now}
}

// Now returns the pinned instant.
func (c *FixedClock) Now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d milliseconds and returns the new instant.
func (c *FixedClock) Advance(d int64) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += d
	return c.now
}

// Set pins the clock at now.
func (c *FixedClock) Set(now int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}
