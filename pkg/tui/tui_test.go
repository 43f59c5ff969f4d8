package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"tableflip.dev/amal/pkg/agenda"
	"tableflip.dev/amal/pkg/app"
	"tableflip.dev/amal/pkg/clock"
	"tableflip.dev/amal/pkg/identity"
	"tableflip.dev/amal/pkg/ledger"
	"tableflip.dev/amal/pkg/live"
	"tableflip.dev/amal/pkg/model"
	"tableflip.dev/amal/pkg/store"
)

func service(t *testing.T) *app.Service {
	t.Helper()
	st := store.NewMemory()
	t.Cleanup(func() { st.Close() })
	return &app.Service{Store: st, Identity: identity.Static("u1"), Clock: clock.At(2024, time.May, 9, 9, 0)}
}

func keys(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, key string) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(keys(key))
	return next.(Model), cmd
}

func load(t *testing.T, m Model, svc *app.Service) Model {
	t.Helper()
	a, err := svc.Agenda(context.Background(), agenda.Options{})
	if err != nil {
		t.Fatal(err)
	}
	next, _ := m.Update(agendaMsg{a})
	return next.(Model)
}

func TestCursorStaysInBounds(t *testing.T) {
	ctx := context.Background()
	svc := service(t)
	for _, title := range []string{"one", "two"} {
		if _, err := svc.CreateTask(ctx, app.TaskDraft{Title: title}); err != nil {
			t.Fatal(err)
		}
	}
	m := load(t, New(ctx, svc, nil, nil), svc)

	m, _ = press(t, m, "k")
	if m.cursor != 0 {
		t.Fatalf("expected cursor clamped at 0, got %d", m.cursor)
	}
	for i := 0; i < 5; i++ {
		m, _ = press(t, m, "j")
	}
	if m.cursor != 1 {
		t.Fatalf("expected cursor clamped at 1, got %d", m.cursor)
	}
	if _, cmd := press(t, m, "q"); cmd == nil {
		t.Fatal("expected quit command")
	}
}

func TestCursorFollowsSelectedItem(t *testing.T) {
	ctx := context.Background()
	svc := service(t)
	svc.CreateTask(ctx, app.TaskDraft{Title: "a"})
	svc.CreateTask(ctx, app.TaskDraft{Title: "b"})
	m := load(t, New(ctx, svc, nil, nil), svc)

	m, _ = press(t, m, "j")
	second, ok := m.selected()
	if !ok {
		t.Fatal("expected a selection")
	}
	// The second task moves to the top; the cursor goes with it.
	if _, err := svc.MoveTask(ctx, second.ID, 0); err != nil {
		t.Fatal(err)
	}
	m = load(t, m, svc)
	if m.cursor != 0 {
		t.Fatalf("expected cursor to follow item to 0, got %d", m.cursor)
	}
}

func TestToggleTask(t *testing.T) {
	ctx := context.Background()
	svc := service(t)
	task, _ := svc.CreateTask(ctx, app.TaskDraft{Title: "ship it"})
	m := load(t, New(ctx, svc, nil, nil), svc)

	m, cmd := press(t, m, " ")
	if cmd == nil {
		t.Fatal("expected toggle command")
	}
	msg := cmd()
	if st, ok := msg.(statusMsg); !ok || st.err != nil {
		t.Fatalf("unexpected message %#v", msg)
	}
	got, err := svc.Task(ctx, task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != model.StatusDone {
		t.Fatalf("expected done, got %s", got.Status)
	}
}

func TestToggleRoutine(t *testing.T) {
	ctx := context.Background()
	svc := service(t)
	r, err := svc.CreateRoutine(ctx, app.RoutineDraft{Title: "Walk", Schedule: model.ScheduleDaily})
	if err != nil {
		t.Fatal(err)
	}
	m := load(t, New(ctx, svc, nil, nil), svc)
	_, cmd := press(t, m, "x")
	if cmd == nil {
		t.Fatal("expected toggle command")
	}
	cmd()
	got, err := svc.Routine(ctx, r.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !ledger.IsCompletedOn(got, svc.Clock.Now(), "u1") {
		t.Fatal("expected routine completed today")
	}
}

func TestAddTask(t *testing.T) {
	ctx := context.Background()
	svc := service(t)
	m := load(t, New(ctx, svc, nil, nil), svc)

	m, _ = press(t, m, "a")
	if m.mode != modeAdd {
		t.Fatal("expected add mode")
	}
	for _, r := range "buy milk" {
		if r == ' ' {
			m, _ = press(t, m, " ")
			continue
		}
		m, _ = press(t, m, string(r))
	}
	m, cmd := press(t, m, "enter")
	if m.mode != modeList || cmd == nil {
		t.Fatal("expected list mode and an add command")
	}
	cmd()
	views, err := svc.Tasks(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(views.Active) != 1 || views.Active[0].Title != "buy milk" {
		t.Fatalf("unexpected tasks %+v", views.Active)
	}
}

func TestAddEmptyTitle(t *testing.T) {
	ctx := context.Background()
	svc := service(t)
	m := New(ctx, svc, nil, nil)
	m, _ = press(t, m, "a")
	m, cmd := press(t, m, "enter")
	if cmd != nil {
		t.Fatal("expected no command for an empty title")
	}
	if m.status != "Title cannot be empty" {
		t.Fatalf("unexpected status %q", m.status)
	}
}

func TestMoveTask(t *testing.T) {
	ctx := context.Background()
	svc := service(t)
	for _, title := range []string{"a", "b", "c"} {
		if _, err := svc.CreateTask(ctx, app.TaskDraft{Title: title}); err != nil {
			t.Fatal(err)
		}
	}
	updates := make(chan agenda.Agenda, 1)
	view := &live.View{Service: svc, OnChange: func(a agenda.Agenda) { offer(updates, a) }}
	if err := view.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer view.Close()

	m := New(ctx, svc, view, updates)
	deadline := time.After(2 * time.Second)
	for m.agenda.Len() < 3 {
		select {
		case a := <-updates:
			next, _ := m.Update(agendaMsg{a})
			m = next.(Model)
		case <-deadline:
			t.Fatal("timed out waiting for tasks")
		}
	}

	var ids []string
	for _, task := range view.Tasks() {
		ids = append(ids, task.ID)
	}
	if it, _ := m.selected(); it.ID != ids[0] {
		t.Fatalf("expected the first task selected, got %s", it.ID)
	}

	_, cmd := press(t, m, "J")
	if cmd == nil {
		t.Fatal("expected move command")
	}
	if st := cmd().(statusMsg); st.err != nil {
		t.Fatal(st.err)
	}
	tasks := view.Tasks()
	want := []string{ids[1], ids[0], ids[2]}
	for i, id := range want {
		if tasks[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, tasks[i].ID)
		}
	}
}

func TestViewRendersSections(t *testing.T) {
	ctx := context.Background()
	svc := service(t)
	m := New(ctx, svc, nil, nil)
	if !strings.Contains(m.View(), "Loading") {
		t.Fatal("expected loading placeholder before the first agenda")
	}
	svc.CreateTask(ctx, app.TaskDraft{Title: "write report"})
	m = load(t, m, svc)
	out := m.View()
	for _, want := range []string{"Today", "Upcoming", "write report", "nothing here"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in view:\n%s", want, out)
		}
	}
}

func TestOfferKeepsLatest(t *testing.T) {
	ch := make(chan agenda.Agenda, 1)
	offer(ch, agenda.Agenda{})
	offer(ch, agenda.Agenda{Today: []agenda.UnifiedItem{{ID: "x"}}})
	if got := <-ch; len(got.Today) != 1 {
		t.Fatalf("expected latest agenda, got %+v", got)
	}
}
