package model

import "time"

// DateLayout is the wire format for stay dates.
const DateLayout = "2006-01-02"

// Stay is the normalized input of an availability search.  Dates are
// calendar days in UTC; the stay occupies [CheckIn, CheckOut).
type Stay struct {
	CheckIn  time.Time
	CheckOut time.Time
	Guests   int
	RoomIDs  []uint64
}

// Nights returns the number of nights between check-in and check-out.
func (s Stay) Nights() int { return DaysBetween(s.CheckIn, s.CheckOut) }

// Overlaps reports whether [aFrom, aTo) and [bFrom, bTo) share at least one
// day.  Touching boundaries do not overlap.
func Overlaps(aFrom, aTo, bFrom, bTo time.Time) bool {
	return aFrom.Before(bTo) && aTo.After(bFrom)
}

// DaysBetween counts whole calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	a = TruncateDay(a)
	b = TruncateDay(b)
	return int(b.Sub(a).Hours() / 24)
}

// TruncateDay drops the time-of-day part and pins the value to UTC.
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
