package checklist

import "testing"

func TestParseSerializeRoundTrip(t *testing.T) {
	in := "- [ ] buy milk\n- [x] call mom\n- [ ] file taxes"
	items := Parse(in)
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if !items[1].Checked || items[0].Checked {
		t.Fatalf("unexpected checked state: %+v", items)
	}
	if got := Serialize(items); got != in {
		t.Fatalf("expected %q, got %q", in, got)
	}
}

func TestParseNormalizesWhitespace(t *testing.T) {
	in := "  - [ ] indented\n\n- [X] upper\n"
	got := Serialize(Parse(in))
	want := "- [ ] indented\n- [x] upper"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestParsePlainLineVerbatim(t *testing.T) {
	items := Parse("just a thought  ")
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Checked {
		t.Fatal("expected plain line to be unchecked")
	}
	if items[0].Text != "just a thought  " {
		t.Fatalf("expected verbatim text, got %q", items[0].Text)
	}
}

func TestParseAssignsDistinctIDs(t *testing.T) {
	items := Parse("- [ ] a\n- [ ] a")
	if items[0].ID == "" || items[0].ID == items[1].ID {
		t.Fatalf("expected distinct ids, got %q and %q", items[0].ID, items[1].ID)
	}
}

func TestToggleAddRemove(t *testing.T) {
	items := Add(nil, "one")
	items = Add(items, "two")
	toggled, ok := Toggle(items, items[1].ID)
	if !ok || !toggled[1].Checked {
		t.Fatalf("expected second item checked, got %+v", toggled)
	}
	if items[1].Checked {
		t.Fatal("toggle must not mutate its input")
	}
	if _, ok := Toggle(items, "missing"); ok {
		t.Fatal("expected toggle of unknown id to report false")
	}
	left := Remove(toggled, toggled[0].ID)
	if len(left) != 1 || left[0].Text != "two" {
		t.Fatalf("unexpected remaining items %+v", left)
	}
	if done, total := Progress(toggled); done != 1 || total != 2 {
		t.Fatalf("expected 1/2, got %d/%d", done, total)
	}
}

func TestFind(t *testing.T) {
	items := Parse("- [ ] a\n- [ ] b")
	if got := Find(items, "2"); got != 1 {
		t.Fatalf("expected index 1, got %d", got)
	}
	if got := Find(items, items[0].ID); got != 0 {
		t.Fatalf("expected index 0, got %d", got)
	}
	if got := Find(items, "9"); got != -1 {
		t.Fatalf("expected -1, got %d", got)
	}
}
