package live

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"tableflip.dev/amal/pkg/agenda"
	"tableflip.dev/amal/pkg/app"
	"tableflip.dev/amal/pkg/clock"
	"tableflip.dev/amal/pkg/identity"
	"tableflip.dev/amal/pkg/model"
	"tableflip.dev/amal/pkg/store"
)

var now = clock.At(2024, time.May, 9, 9, 0)

type updates struct {
	mu   sync.Mutex
	last agenda.Agenda
	ch   chan struct{}
}

func newUpdates() *updates {
	return &updates{ch: make(chan struct{}, 256)}
}

func (u *updates) record(a agenda.Agenda) {
	u.mu.Lock()
	u.last = a
	u.mu.Unlock()
	select {
	case u.ch <- struct{}{}:
	default:
	}
}

func (u *updates) waitFor(t *testing.T, ok func(agenda.Agenda) bool) agenda.Agenda {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		u.mu.Lock()
		last := u.last
		u.mu.Unlock()
		if ok(last) {
			return last
		}
		select {
		case <-u.ch:
		case <-deadline:
			t.Fatalf("timed out waiting for agenda, last %+v", last)
			return last
		}
	}
}

func service(t *testing.T, user string) *app.Service {
	t.Helper()
	st := store.NewMemory()
	t.Cleanup(func() { st.Close() })
	return &app.Service{Store: st, Identity: identity.Static(user), Clock: now}
}

func titles(items []agenda.UnifiedItem) []string {
	var out []string
	for _, it := range items {
		out = append(out, it.Title)
	}
	return out
}

func TestViewWithoutUserIsEmpty(t *testing.T) {
	s := service(t, "")
	u := newUpdates()
	v := &View{Service: s, OnChange: u.record}
	if err := v.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer v.Close()
	if v.Loading() {
		t.Fatal("expected a signed-out view to be loaded")
	}
	if v.Agenda().Len() != 0 {
		t.Fatalf("expected empty agenda, got %+v", v.Agenda())
	}
}

func TestViewRecomputesOnChange(t *testing.T) {
	s := service(t, "u1")
	ctx := context.Background()
	u := newUpdates()
	v := &View{Service: s, OnChange: u.record}
	if err := v.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer v.Close()

	deadline := time.Date(2024, time.May, 12, 10, 0, 0, 0, time.Local)
	if _, err := s.CreateTask(ctx, app.TaskDraft{Title: "file taxes", Deadline: &deadline}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateRoutine(ctx, app.RoutineDraft{Title: "Walk", Schedule: model.ScheduleDaily}); err != nil {
		t.Fatal(err)
	}
	got := u.waitFor(t, func(a agenda.Agenda) bool { return a.Len() == 2 })
	if len(got.Today) != 1 || got.Today[0].Title != "Walk" {
		t.Fatalf("expected the routine today, got %v", titles(got.Today))
	}
	if len(got.Upcoming) != 1 || got.Upcoming[0].Title != "file taxes" {
		t.Fatalf("expected the task upcoming, got %v", titles(got.Upcoming))
	}
	if v.Loading() {
		t.Fatal("expected every collection to have delivered")
	}
}

func TestViewHoldsTasksDuringReorder(t *testing.T) {
	s := service(t, "u1")
	ctx := context.Background()
	for _, title := range []string{"a", "b", "c"} {
		if _, err := s.CreateTask(ctx, app.TaskDraft{Title: title}); err != nil {
			t.Fatal(err)
		}
	}
	u := newUpdates()
	v := &View{Service: s, OnChange: u.record}
	if err := v.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer v.Close()
	u.waitFor(t, func(a agenda.Agenda) bool { return a.Len() == 3 })

	tasks := v.Tasks()
	dropped := []model.Task{tasks[2], tasks[0], tasks[1]}
	if err := v.Reorder(ctx, dropped); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	got := v.Tasks()
	for i := range dropped {
		if got[i].ID != dropped[i].ID {
			t.Fatalf("position %d: expected %s, got %s", i, dropped[i].Title, got[i].Title)
		}
	}
	stored, _ := s.Store.Tasks().Get(ctx, dropped[0].ID)
	if stored.Order == nil || *stored.Order != 0 {
		t.Fatalf("expected order persisted, got %v", stored.Order)
	}
	if s.Ordering().Pending() != 0 {
		t.Fatal("expected write acknowledged")
	}
}

func TestViewCatchesUpAfterReorder(t *testing.T) {
	s := service(t, "u1")
	ctx := context.Background()
	u := newUpdates()
	v := &View{Service: s, OnChange: u.record}
	if err := v.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer v.Close()
	u.waitFor(t, func(agenda.Agenda) bool { return !v.Loading() })

	eng := s.Ordering()
	tok := eng.Begin()
	if _, err := s.CreateTask(ctx, app.TaskDraft{Title: "from elsewhere"}); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)
	if n := len(v.Tasks()); n != 0 {
		t.Fatalf("expected the snapshot held during the write, got %d tasks", n)
	}
	eng.Ack(tok)
	u.waitFor(t, func(a agenda.Agenda) bool { return a.Len() == 1 })
	if got := v.Tasks(); len(got) != 1 || got[0].Title != "from elsewhere" {
		t.Fatalf("expected the created task after the ack, got %+v", got)
	}
}

func TestViewReorderFailureKeepsLocalOrder(t *testing.T) {
	s := service(t, "u1")
	ctx := context.Background()
	for _, title := range []string{"a", "b"} {
		if _, err := s.CreateTask(ctx, app.TaskDraft{Title: title}); err != nil {
			t.Fatal(err)
		}
	}
	boom := errors.New("offline")
	s.Store = failingOrder{Store: s.Store, err: boom}
	u := newUpdates()
	v := &View{Service: s, OnChange: u.record}
	if err := v.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer v.Close()
	u.waitFor(t, func(a agenda.Agenda) bool { return a.Len() == 2 })

	tasks := v.Tasks()
	dropped := []model.Task{tasks[1], tasks[0]}
	if err := v.Reorder(ctx, dropped); !errors.Is(err, boom) {
		t.Fatalf("expected persist error, got %v", err)
	}
	if got := v.Tasks(); got[0].ID != dropped[0].ID {
		t.Fatalf("expected local order kept, got %s first", got[0].Title)
	}
}

type failingOrder struct {
	store.Store
	err error
}

func (f failingOrder) BatchSetOrder(context.Context, []model.OrderUpdate) error {
	return f.err
}

func TestViewCloseStopsUpdates(t *testing.T) {
	s := service(t, "u1")
	ctx := context.Background()
	u := newUpdates()
	v := &View{Service: s, OnChange: u.record}
	if err := v.Start(ctx); err != nil {
		t.Fatal(err)
	}
	u.waitFor(t, func(agenda.Agenda) bool { return !v.Loading() })
	v.Close()
	v.Close()

	if _, err := s.CreateTask(ctx, app.TaskDraft{Title: "late"}); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)
	if v.Agenda().Len() != 0 {
		t.Fatalf("expected no updates after close, got %+v", v.Agenda())
	}
}

func TestViewRejectsBadSchedule(t *testing.T) {
	s := service(t, "u1")
	v := &View{Service: s, Schedule: "every tuesday"}
	if err := v.Start(context.Background()); err == nil {
		v.Close()
		t.Fatal("expected schedule error")
	}
}

func TestViewStartTwice(t *testing.T) {
	s := service(t, "")
	v := &View{Service: s}
	if err := v.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer v.Close()
	if err := v.Start(context.Background()); err == nil {
		t.Fatal("expected second start to fail")
	}
}
