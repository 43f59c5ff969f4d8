package store

import (
	"context"
	"testing"
	"time"

	"tableflip.dev/amal/pkg/model"
)

type testConfig struct {
	path string
}

func (t testConfig) BasePath() string {
	return t.path
}

func TestDiskWatchEmitsKindChanges(t *testing.T) {
	base := t.TempDir()
	s, err := Load(testConfig{path: base})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}
	defer s.Close()
	d := s.(*docStore).b.(*disk)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := d.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	// Allow watcher goroutine to subscribe to directories before storing.
	time.Sleep(50 * time.Millisecond)

	if _, err := s.Tasks().Create(ctx, "u1", model.NewTask("u1", "hello world", time.Now())); err != nil {
		t.Fatalf("store task: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Type == EventInvalidated {
				return
			}
			if evt.Kind != model.KindTask {
				t.Fatalf("expected kind %q, got %q", model.KindTask, evt.Kind)
			}
			return
		case <-deadline:
			t.Fatal("timed out waiting for change event")
		}
	}
}

func TestEventThrottleCoalesces(t *testing.T) {
	th := newEventThrottle(20 * time.Millisecond)
	defer th.Stop()

	got := make(chan Event, 8)
	send := func(ev Event) { got <- ev }
	for i := 0; i < 5; i++ {
		th.Enqueue(Event{Type: EventKindChanged, Kind: model.KindNote}, send)
	}

	select {
	case ev := <-got:
		if ev.Kind != model.KindNote {
			t.Fatalf("expected notes event, got %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for flush")
	}
	select {
	case ev := <-got:
		t.Fatalf("expected one coalesced event, got another %+v", ev)
	case <-time.After(60 * time.Millisecond):
	}
}

func TestEventThrottleInvalidationWins(t *testing.T) {
	th := newEventThrottle(10 * time.Millisecond)
	defer th.Stop()

	got := make(chan Event, 8)
	send := func(ev Event) { got <- ev }
	th.Enqueue(Event{Type: EventKindChanged, Kind: model.KindTask}, send)
	th.Enqueue(Event{Type: EventInvalidated}, send)

	select {
	case ev := <-got:
		if ev.Type != EventInvalidated {
			t.Fatalf("expected invalidation, got %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for flush")
	}
}
