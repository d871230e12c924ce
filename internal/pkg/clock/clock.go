// Package clock abstracts the current time so that services and stores can be
// driven by a fixed instant in tests.
package clock

import (
	"sync"
	"time"
)

// Clock reports the current time in a configured location.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

type system struct {
	loc *time.Location
}

// NewSystem returns a Clock backed by time.Now, converted to loc.
// A nil loc means UTC.
func NewSystem(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return system{loc: loc}
}

func (s system) Now() time.Time           { return time.Now().In(s.loc) }
func (s system) Location() *time.Location { return s.loc }

// Fixed is a Clock that always returns the same instant until moved.
type Fixed struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixed returns a Fixed clock set to t.
func NewFixed(t time.Time) *Fixed {
	return &Fixed{now: t}
}

func (f *Fixed) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fixed) Location() *time.Location {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now.Location()
}

// Advance moves the clock forward by d.
func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}
