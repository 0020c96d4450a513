package utils

import "time"

// Clock abstracts wall-clock access so date-driven rules can be tested
// against a fixed "today".
type Clock interface {
	Now() time.Time
	// Today returns the current date truncated to midnight in local time.
	Today() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) Today() time.Time { return Midnight(time.Now()) }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

// FixedClock is a Clock pinned to one instant, for tests and previews.
type FixedClock struct {
	T time.Time
}

func (f FixedClock) Now() time.Time { return f.T }

func (f FixedClock) Today() time.Time { return Midnight(f.T) }

// Midnight truncates t to the start of its calendar day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysBetween returns the number of whole calendar days from 'from' to 'to'.
// Both arguments are truncated to midnight first, so the result never depends
// on the time of day. Negative when 'to' is in the past relative to 'from'.
func DaysBetween(from, to time.Time) int {
	f := Midnight(from)
	t := Midnight(to)
	return int(t.Sub(f).Hours() / 24)
}
