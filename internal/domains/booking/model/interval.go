package model

import "time"

// Interval is a half-open time slot [Start, End). A booking ending at 10:00
// never collides with one starting at 10:00.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Valid reports whether the interval is non-empty, i.e. Start is strictly
// before End.
func (i Interval) Valid() bool {
	return i.Start.Before(i.End)
}

// Overlaps reports whether two half-open intervals share any instant.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start.Before(other.End) && other.Start.Before(i.End)
}

// Duration returns the length of the interval.
func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}
