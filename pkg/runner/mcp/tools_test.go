package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"tableflip.dev/amal/pkg/agenda"
	"tableflip.dev/amal/pkg/app"
	"tableflip.dev/amal/pkg/clock"
	"tableflip.dev/amal/pkg/identity"
	"tableflip.dev/amal/pkg/model"
	"tableflip.dev/amal/pkg/store"
)

func newHandlers(t *testing.T) *handlers {
	t.Helper()
	st := store.NewMemory()
	t.Cleanup(func() { st.Close() })
	return &handlers{svc: &app.Service{Store: st, Identity: identity.Static("u1"), Clock: clock.At(2024, time.May, 9, 9, 0)}}
}

func request(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) == 0 {
		t.Fatal("empty result")
	}
	tc, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content %T", res.Content[0])
	}
	return tc.Text
}

func decode(t *testing.T, res *mcp.CallToolResult, v any) {
	t.Helper()
	if res.IsError {
		t.Fatalf("tool failed: %s", text(t, res))
	}
	if err := json.Unmarshal([]byte(text(t, res)), v); err != nil {
		t.Fatal(err)
	}
}

func TestCreateTaskThenAgenda(t *testing.T) {
	ctx := context.Background()
	h := newHandlers(t)

	res, err := h.createTask(ctx, request(map[string]any{"title": "write report", "deadline": "2024-05-10"}))
	if err != nil {
		t.Fatal(err)
	}
	var task model.Task
	decode(t, res, &task)
	if task.Deadline == nil || task.Status != model.StatusNext {
		t.Fatalf("unexpected task %+v", task)
	}

	res, err = h.getAgenda(ctx, request(map[string]any{}))
	if err != nil {
		t.Fatal(err)
	}
	var a agenda.Agenda
	decode(t, res, &a)
	if a.Len() != 1 {
		t.Fatalf("expected one item, got %+v", a)
	}
}

func TestToolErrorsAreResults(t *testing.T) {
	ctx := context.Background()
	h := newHandlers(t)

	res, err := h.toggleTask(ctx, request(map[string]any{}))
	if err != nil || !res.IsError {
		t.Fatalf("expected a missing argument result, got %v %v", res, err)
	}
	res, _ = h.toggleTask(ctx, request(map[string]any{"task": "ghost"}))
	if !res.IsError || !strings.Contains(text(t, res), "ghost") {
		t.Fatalf("expected not found result, got %s", text(t, res))
	}
	res, _ = h.createTask(ctx, request(map[string]any{"title": "x", "deadline": "someday"}))
	if !res.IsError {
		t.Fatal("expected an invalid deadline to fail")
	}
	h.createTask(ctx, request(map[string]any{"title": "x"}))
	res, _ = h.setTaskStatus(ctx, request(map[string]any{"task": "x", "status": "sideways"}))
	if !res.IsError {
		t.Fatal("expected an unknown status to fail")
	}
}

func TestStatusByTitle(t *testing.T) {
	ctx := context.Background()
	h := newHandlers(t)
	h.createTask(ctx, request(map[string]any{"title": "Call bank"}))

	res, _ := h.setTaskStatus(ctx, request(map[string]any{"task": "call BANK", "status": "waiting"}))
	var task model.Task
	decode(t, res, &task)
	if task.Status != model.StatusWaiting {
		t.Fatalf("expected waiting, got %s", task.Status)
	}
}

func TestMoveTask(t *testing.T) {
	ctx := context.Background()
	h := newHandlers(t)
	var ids []string
	for _, title := range []string{"a", "b", "c"} {
		res, _ := h.createTask(ctx, request(map[string]any{"title": title}))
		var task model.Task
		decode(t, res, &task)
		ids = append(ids, task.ID)
	}
	v, err := h.svc.Tasks(ctx, "")
	if err != nil {
		t.Fatal(err)
	}
	last := v.Active[2].ID

	res, _ := h.moveTask(ctx, request(map[string]any{"task": last, "position": 0}))
	var out struct {
		Tasks []model.Task `json:"tasks"`
	}
	decode(t, res, &out)
	if v, _ = h.svc.Tasks(ctx, ""); v.Active[0].ID != last {
		t.Fatalf("expected %s first, got %s", last, v.Active[0].ID)
	}

	res, _ = h.moveTask(ctx, request(map[string]any{"task": ids[0], "position": -1}))
	if !res.IsError {
		t.Fatal("expected a negative position to fail")
	}
}

func TestToggleRoutineOnDate(t *testing.T) {
	ctx := context.Background()
	h := newHandlers(t)
	if _, err := h.svc.CreateRoutine(ctx, app.RoutineDraft{Title: "Walk", Schedule: model.ScheduleDaily}); err != nil {
		t.Fatal(err)
	}
	res, _ := h.toggleRoutine(ctx, request(map[string]any{"routine": "walk", "date": "2024-05-08"}))
	var out struct {
		Completed bool `json:"completed"`
	}
	decode(t, res, &out)
	if !out.Completed {
		t.Fatal("expected completed")
	}
	res, _ = h.toggleRoutine(ctx, request(map[string]any{"routine": "walk", "date": "yesterday"}))
	if !res.IsError {
		t.Fatal("expected a bad date to fail")
	}
}

func TestChecklistNote(t *testing.T) {
	ctx := context.Background()
	h := newHandlers(t)
	res, _ := h.createNote(ctx, request(map[string]any{"title": "Groceries", "content": "milk\neggs", "type": "checklist"}))
	var n model.Note
	decode(t, res, &n)
	if len(n.Items) != 2 {
		t.Fatalf("expected two items, got %+v", n.Items)
	}

	res, _ = h.toggleNoteItem(ctx, request(map[string]any{"note": "groceries", "item": "2"}))
	decode(t, res, &n)
	if !n.Items[1].Checked || n.Items[0].Checked {
		t.Fatalf("expected only the second item checked, got %+v", n.Items)
	}

	var read mcp.ReadResourceRequest
	read.Params.URI = "amal://notes/" + n.ID
	read.Params.Arguments = map[string]any{"id": n.ID}
	contents, err := h.readNote(ctx, read)
	if err != nil {
		t.Fatal(err)
	}
	if body := contents[0].(mcp.TextResourceContents).Text; !strings.Contains(body, "eggs") {
		t.Fatalf("expected markdown body, got %q", body)
	}
}

func TestNewServerRegistersTools(t *testing.T) {
	srv := NewServer(newHandlers(t).svc, "", "")
	if srv == nil {
		t.Fatal("expected a server")
	}
}
