package timeutil

import (
	"testing"
	"time"
)

func TestParseWindowFallback(t *testing.T) {
	dur, label, err := ParseWindow("", DefaultWindow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 7 * 24 * time.Hour
	if dur != want {
		t.Fatalf("expected %v, got %v", want, dur)
	}
	if label != "1w" {
		t.Fatalf("expected label 1w, got %s", label)
	}
}

func TestParseWindowComposite(t *testing.T) {
	dur, label, err := ParseWindow("1w2d6h30m", DefaultWindow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := (7*24+2*24+6)*time.Hour + 30*time.Minute
	if dur != want {
		t.Fatalf("expected %v, got %v", want, dur)
	}
	if label != "1w2d6h30m" {
		t.Fatalf("unexpected label: %s", label)
	}
}

func TestParseWindowMilliseconds(t *testing.T) {
	dur, label, err := ParseWindow("1s500ms", DefaultCooldown)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dur != 1500*time.Millisecond {
		t.Fatalf("expected 1.5s, got %v", dur)
	}
	if label != "1s500ms" {
		t.Fatalf("unexpected label: %s", label)
	}
}

func TestParseWindowInvalid(t *testing.T) {
	for _, in := range []string{"noop", "0d", "3 fortnights"} {
		if _, _, err := ParseWindow(in, DefaultWindow); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestDaysRoundsUp(t *testing.T) {
	cases := map[time.Duration]int{
		24 * time.Hour:     1,
		36 * time.Hour:     2,
		7 * 24 * time.Hour: 7,
		time.Minute:        1,
	}
	for in, want := range cases {
		if got := Days(in); got != want {
			t.Fatalf("Days(%v): expected %d, got %d", in, want, got)
		}
	}
}
