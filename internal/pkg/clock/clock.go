// Package clock supplies the current instant and the organization's
// reference timezone, so business-day rules can be pinned in tests.
package clock

import (
	"sync"
	"time"
	_ "time/tzdata"
)

type Clock interface {
	// Now returns the current instant expressed in Location.
	Now() time.Time
	// Location is the reference timezone used for "today" and wall-clock thresholds.
	Location() *time.Location
}

type systemClock struct {
	loc *time.Location
}

// New returns a Clock backed by time.Now in loc. A nil loc means UTC.
func New(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return &systemClock{loc: loc}
}

// NewFromName loads the named IANA zone.
func NewFromName(name string) (Clock, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, err
	}
	return New(loc), nil
}

func (c *systemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *systemClock) Location() *time.Location {
	return c.loc
}

// Fixed is a settable Clock for tests.
type Fixed struct {
	mu  sync.RWMutex
	now time.Time
	loc *time.Location
}

func NewFixed(now time.Time, loc *time.Location) *Fixed {
	if loc == nil {
		loc = time.UTC
	}
	return &Fixed{now: now.In(loc), loc: loc}
}

func (f *Fixed) Now() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.now
}

func (f *Fixed) Location() *time.Location {
	return f.loc
}

// Set moves the clock to t.
func (f *Fixed) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = t.In(f.loc)
}

// Today returns the calendar date of c.Now() in the reference zone, as
// midnight UTC. Dates are compared as civil dates throughout the module.
func Today(c Clock) time.Time {
	return DateOf(c.Now())
}

// DateOf strips the time of day, keeping t's own calendar date.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
