// Package clock provides the wall clock used by the agenda, plus the local
// calendar helpers that decide what "today" means.
package clock

import "time"

// LayoutDate is the local calendar date layout used for ledger keys.
const LayoutDate = "2006-01-02"

// Clock reports the current instant.
type Clock interface {
	Now() time.Time
}

// Real is the system clock.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

// Fixed always reports the same instant.
type Fixed time.Time

func (f Fixed) Now() time.Time { return time.Time(f) }

// At builds a Fixed clock at the given local wall time.
func At(year int, month time.Month, day, hour, min int) Fixed {
	return Fixed(time.Date(year, month, day, hour, min, 0, 0, time.Local))
}

// DateKey returns the local calendar date of t as YYYY-MM-DD.
func DateKey(t time.Time) string {
	return t.In(time.Local).Format(LayoutDate)
}

// ParseDateKey parses a YYYY-MM-DD key as local midnight.
func ParseDateKey(key string) (time.Time, error) {
	return time.ParseInLocation(LayoutDate, key, time.Local)
}

// StartOfDay returns local midnight of the day containing t.
func StartOfDay(t time.Time) time.Time {
	t = t.In(time.Local)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

// EndOfDay returns the last representable instant of the local day containing t.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// DaysBetween counts whole calendar days from the day of a to the day of b.
// It is negative when b falls before a. DST shifts do not affect the count.
func DaysBetween(a, b time.Time) int {
	a = StartOfDay(a)
	b = StartOfDay(b)
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua) / (24 * time.Hour))
}

// SameDay reports whether a and b fall on the same local calendar date.
func SameDay(a, b time.Time) bool {
	return DateKey(a) == DateKey(b)
}
