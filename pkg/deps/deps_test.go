package deps

import (
	"testing"

	"tableflip.dev/amal/pkg/model"
)

func tasks() []model.Task {
	return []model.Task{
		{ID: "a", Status: model.StatusDone},
		{ID: "b", Status: model.StatusNext},
		{ID: "c", Status: model.StatusWaiting, Dependencies: []string{"a", "b"}},
		{ID: "d", Status: model.StatusNext, Dependencies: []string{"a", "gone"}},
	}
}

func TestIsBlocked(t *testing.T) {
	all := tasks()
	lookup := StatusIndex(all)
	if !IsBlocked(&all[2], lookup) {
		t.Fatal("expected c to be blocked by b")
	}
	if IsBlocked(&all[3], lookup) {
		t.Fatal("expected d unblocked: a is done and the other id dangles")
	}
	if IsBlocked(&all[0], lookup) {
		t.Fatal("expected task without dependencies unblocked")
	}
}

func TestRemovingBlockerUnblocks(t *testing.T) {
	all := tasks()
	c := all[2]
	c.Dependencies = []string{"a"}
	if IsBlocked(&c, StatusIndex(all)) {
		t.Fatal("expected c unblocked after removing b")
	}

	all[1].Status = model.StatusDone
	if IsBlocked(&all[2], StatusIndex(all)) {
		t.Fatal("expected c unblocked once b is done")
	}
}

func TestEveryNonDoneStatusBlocks(t *testing.T) {
	for _, s := range model.Statuses() {
		all := []model.Task{{ID: "x", Status: s}, {ID: "y", Dependencies: []string{"x"}}}
		if got, want := IsBlocked(&all[1], StatusIndex(all)), s != model.StatusDone; got != want {
			t.Fatalf("status %q: expected blocked=%v, got %v", s, want, got)
		}
	}
}

func TestCycleStaysBlocked(t *testing.T) {
	all := []model.Task{
		{ID: "x", Status: model.StatusNext, Dependencies: []string{"y"}},
		{ID: "y", Status: model.StatusNext, Dependencies: []string{"x"}},
	}
	lookup := StatusIndex(all)
	if !IsBlocked(&all[0], lookup) || !IsBlocked(&all[1], lookup) {
		t.Fatal("expected both members of the cycle blocked")
	}
}

func TestBlockersPruneDependents(t *testing.T) {
	all := tasks()
	lookup := StatusIndex(all)
	if got := Blockers(&all[2], lookup); len(got) != 1 || got[0] != "b" {
		t.Fatalf("expected [b], got %v", got)
	}
	if got := Prune(&all[3], lookup); len(got) != 1 || got[0] != "a" {
		t.Fatalf("expected [a], got %v", got)
	}
	if got := Dependents(all, "a"); len(got) != 2 {
		t.Fatalf("expected 2 dependents of a, got %d", len(got))
	}
}
