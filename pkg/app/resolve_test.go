package app

import (
	"context"
	"errors"
	"testing"

	"tableflip.dev/amal/pkg/model"
)

func TestMatch(t *testing.T) {
	items := []model.Task{{ID: "abc1", Title: "One"}, {ID: "abc2", Title: "Two"}, {ID: "xyz", Title: "abc"}}
	id := func(t *model.Task) string { return t.ID }
	name := func(t *model.Task) string { return t.Title }

	if got, err := Match(items, model.KindTask, "abc2", id, name); err != nil || got.Title != "Two" {
		t.Fatalf("exact id: %v %v", got, err)
	}
	if _, err := Match(items, model.KindTask, "abc", id, name); err == nil {
		t.Fatal("expected an ambiguous prefix to fail")
	}
	if got, err := Match(items, model.KindTask, "two", id, name); err != nil || got.ID != "abc2" {
		t.Fatalf("name: %v %v", got, err)
	}
	if _, err := Match(items, model.KindTask, "nope", id, name); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := Match(items, model.KindTask, "  ", id, name); err == nil {
		t.Fatal("expected an empty reference to fail")
	}
}

func TestFindScopesToUser(t *testing.T) {
	s := newService(t)
	ctx := context.Background()
	task, err := s.CreateTask(ctx, TaskDraft{Title: "Write report"})
	if err != nil {
		t.Fatal(err)
	}
	got, err := s.FindTask(ctx, "write REPORT")
	if err != nil || got.ID != task.ID {
		t.Fatalf("by title: %v %v", got, err)
	}
	if _, err := as(s, "u2").FindTask(ctx, task.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected another user's task to be not found, got %v", err)
	}

	area, err := s.AreaID(ctx, "")
	if err != nil || area != "" {
		t.Fatalf("empty area: %q %v", area, err)
	}
}
