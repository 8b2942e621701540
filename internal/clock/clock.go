// Package clock supplies epoch-millisecond time to the recorder and CLI.
//
// Every timestamp in the study engine is an int64 count of milliseconds
// since the Unix epoch. Components take a Clock rather than calling
// time.Now so tests can pin the instant.
package clock

import "time"

// Clock returns the current instant in epoch milliseconds.
type Clock interface {
	Now() int64
}

// System reads the wall clock.
type System struct{}

// Now returns time.Now in epoch milliseconds.
func (System) Now() int64 {
	return time.Now().UnixMilli()
}

// Func adapts a plain function to Clock.
type Func func() int64

// Now calls f.
func (f Func) Now() int64 {
	return f()
}

// FromTime converts t to epoch milliseconds.
func FromTime(t time.Time) int64 {
	return t.UnixMilli()
}

// ToTime converts epoch milliseconds to a UTC time.Time.
func ToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
