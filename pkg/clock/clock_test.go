package clock

import (
	"testing"
	"time"
)

func TestEndOfDayIsLastInstant(t *testing.T) {
	now := time.Date(2024, time.March, 9, 14, 30, 0, 0, time.Local)
	end := EndOfDay(now)
	if !SameDay(end, now) {
		t.Fatalf("expected end of day on %s, got %s", DateKey(now), DateKey(end))
	}
	if next := end.Add(time.Nanosecond); SameDay(next, now) {
		t.Fatalf("expected %s to roll into the next day", next)
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2024, time.February, 27, 23, 0, 0, 0, time.Local)
	b := time.Date(2024, time.March, 1, 1, 0, 0, 0, time.Local)
	if got := DaysBetween(a, b); got != 3 {
		t.Fatalf("expected 3 days across leap day, got %d", got)
	}
	if got := DaysBetween(b, a); got != -3 {
		t.Fatalf("expected -3, got %d", got)
	}
	if got := DaysBetween(a, a.Add(30*time.Minute)); got != 0 {
		t.Fatalf("expected same day, got %d", got)
	}
}

func TestDateKeyRoundTrip(t *testing.T) {
	key := "2025-12-31"
	d, err := ParseDateKey(key)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := DateKey(d); got != key {
		t.Fatalf("expected %q, got %q", key, got)
	}
	if !d.Equal(StartOfDay(d)) {
		t.Fatalf("expected parsed key at midnight, got %s", d)
	}
}

func TestFixedClock(t *testing.T) {
	c := At(2024, time.June, 1, 9, 15)
	if c.Now().Hour() != 9 || c.Now().Minute() != 15 {
		t.Fatalf("unexpected fixed time %s", c.Now())
	}
}
