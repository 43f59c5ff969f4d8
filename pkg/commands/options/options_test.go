package options

import (
	"reflect"
	"testing"
	"time"

	"tableflip.dev/amal/pkg/model"
)

func TestParseOn(t *testing.T) {
	now := time.Date(2024, time.December, 5, 9, 0, 0, 0, time.Local)

	got, err := ParseOn("1/3", now)
	if err != nil {
		t.Fatal(err)
	}
	if got.Year() != 2025 || got.Month() != time.January || got.Day() != 3 {
		t.Errorf("expected Jan 3 next year, got %s", got)
	}

	got, err = ParseOn("12/5 14:30", now)
	if err != nil {
		t.Fatal(err)
	}
	if got.Year() != 2024 || got.Hour() != 14 || got.Minute() != 30 {
		t.Errorf("expected today at 14:30, got %s", got)
	}

	got, err = ParseOn("2024-12-24", now)
	if err != nil {
		t.Fatal(err)
	}
	if got.Day() != 24 || got.Hour() != 23 {
		t.Errorf("expected end of Dec 24, got %s", got)
	}

	if _, err := ParseOn("someday", now); err == nil {
		t.Error("expected error for unparseable date")
	}
}

func TestParseDays(t *testing.T) {
	got, err := ParseDays([]string{"mon", "Wednesday", "5"})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, []int{1, 3, 5}) {
		t.Errorf("unexpected days %v", got)
	}
	got, _ = ParseDays([]string{"weekends"})
	if !reflect.DeepEqual(got, []int{0, 6}) {
		t.Errorf("unexpected weekend days %v", got)
	}
	if _, err := ParseDays([]string{"7"}); err == nil {
		t.Error("expected error for day 7")
	}
}

func TestAgendaOptionsBuild(t *testing.T) {
	o := &AgendaOptions{Window: "3d", Priority: "task,meeting,routine", HideSnoozed: true}
	opts, err := o.Build("work")
	if err != nil {
		t.Fatal(err)
	}
	if opts.Window != 72*time.Hour || opts.Area != "work" || !opts.HideSnoozed || opts.Priority == nil {
		t.Errorf("unexpected options %+v", opts)
	}
	if _, err := (&AgendaOptions{Window: "soon"}).Build(""); err == nil {
		t.Error("expected window error")
	}
}

func TestTaskReferences(t *testing.T) {
	o := &TaskOptions{Links: []string{"design=https://example.com/doc", "mailto:bob@example.com", " "}}
	got := o.References()
	if len(got) != 2 {
		t.Fatalf("expected 2 references, got %+v", got)
	}
	if got[0].Label != "design" || got[0].URL != "https://example.com/doc" || got[0].Type != model.ReferenceLink {
		t.Errorf("unexpected link %+v", got[0])
	}
	if got[1].Type != model.ReferenceEmail || got[1].Label != "mailto:bob@example.com" {
		t.Errorf("unexpected email %+v", got[1])
	}
}
