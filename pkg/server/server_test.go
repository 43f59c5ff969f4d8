package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"tableflip.dev/amal/pkg/agenda"
	"tableflip.dev/amal/pkg/app"
	"tableflip.dev/amal/pkg/clock"
	"tableflip.dev/amal/pkg/identity"
	"tableflip.dev/amal/pkg/model"
	"tableflip.dev/amal/pkg/store"
)

var secret = []byte("test-secret")

func newServer(t *testing.T) *Server {
	t.Helper()
	st := store.NewMemory()
	t.Cleanup(func() { st.Close() })
	svc := &app.Service{Store: st, Clock: clock.At(2024, time.May, 9, 9, 0)}
	return New(svc, identity.JWTVerifier{Secret: secret}, log.New(io.Discard, "", 0))
}

func token(t *testing.T, user string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: user}).SignedString(secret)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func call(t *testing.T, s *Server, method, path, user string, body any) (*http.Response, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("Authorization", "Bearer "+token(t, user))
	}
	resp, err := s.App().Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	out, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	return resp, out
}

func TestRequiresToken(t *testing.T) {
	s := newServer(t)
	resp, _ := call(t, s, http.MethodGet, "/api/agenda", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/agenda", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	resp, err := s.App().Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad token, got %d", resp.StatusCode)
	}

	resp, _ = call(t, s, http.MethodGet, "/healthz", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected open health check, got %d", resp.StatusCode)
	}
}

func TestCreateTaskAndAgenda(t *testing.T) {
	s := newServer(t)
	resp, body := call(t, s, http.MethodPost, "/api/tasks", "u1", map[string]any{"title": "write report"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, body)
	}
	var task model.Task
	if err := json.Unmarshal(body, &task); err != nil {
		t.Fatal(err)
	}
	if task.OwnerID != "u1" || task.Status != model.StatusNext {
		t.Fatalf("unexpected task %+v", task)
	}

	resp, body = call(t, s, http.MethodGet, "/api/agenda", "u1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var a agenda.Agenda
	if err := json.Unmarshal(body, &a); err != nil {
		t.Fatal(err)
	}
	if len(a.Today) != 1 || a.Today[0].Title != "write report" {
		t.Fatalf("unexpected agenda %s", body)
	}

	_, body = call(t, s, http.MethodGet, "/api/agenda", "u2", nil)
	if err := json.Unmarshal(body, &a); err != nil {
		t.Fatal(err)
	}
	if a.Len() != 0 {
		t.Fatalf("expected u2 to see nothing, got %s", body)
	}
}

func TestValidationAndNotFound(t *testing.T) {
	s := newServer(t)
	resp, _ := call(t, s, http.MethodPost, "/api/tasks", "u1", map[string]any{"title": ""})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty title, got %d", resp.StatusCode)
	}
	resp, _ = call(t, s, http.MethodPatch, "/api/tasks/missing/status", "u1", map[string]any{"status": "done"})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	resp, _ = call(t, s, http.MethodPost, "/api/accounts", "u1", map[string]any{"name": "Work", "color": "nope"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad colour, got %d", resp.StatusCode)
	}
}

func TestToggleRoutine(t *testing.T) {
	s := newServer(t)
	_, body := call(t, s, http.MethodPost, "/api/routines", "u1", map[string]any{"title": "Walk", "schedule": "daily"})
	var r model.Routine
	if err := json.Unmarshal(body, &r); err != nil {
		t.Fatal(err)
	}
	resp, body := call(t, s, http.MethodPost, "/api/routines/"+r.ID+"/toggle", "u1", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	var out struct {
		Completed bool `json:"completed"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatal(err)
	}
	if !out.Completed {
		t.Fatal("expected completed after toggle")
	}
	resp, _ = call(t, s, http.MethodPost, "/api/routines/"+r.ID+"/toggle", "u2", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for another user's private routine, got %d", resp.StatusCode)
	}
}

func TestOrderTasks(t *testing.T) {
	s := newServer(t)
	var ids []string
	for _, title := range []string{"a", "b", "c"} {
		_, body := call(t, s, http.MethodPost, "/api/tasks", "u1", map[string]any{"title": title})
		var task model.Task
		if err := json.Unmarshal(body, &task); err != nil {
			t.Fatal(err)
		}
		ids = append(ids, task.ID)
	}
	order := []string{ids[2], ids[0], ids[1]}
	resp, body := call(t, s, http.MethodPost, "/api/tasks/order", "u1", map[string]any{"ids": order})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	_, body = call(t, s, http.MethodGet, "/api/tasks", "u1", nil)
	var v agenda.TaskViews
	if err := json.Unmarshal(body, &v); err != nil {
		t.Fatal(err)
	}
	for i, id := range order {
		if v.Active[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, v.Active[i].ID)
		}
	}

	resp, _ = call(t, s, http.MethodPost, "/api/tasks/order", "u1", map[string]any{"ids": []string{"ghost"}})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown id, got %d", resp.StatusCode)
	}

	resp, _ = call(t, s, http.MethodPost, "/api/tasks/order", "u1", map[string]any{"ids": []string{ids[0], ids[1], ids[0]}})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for a repeated id, got %d", resp.StatusCode)
	}
	_, body = call(t, s, http.MethodGet, "/api/tasks", "u1", nil)
	if err := json.Unmarshal(body, &v); err != nil {
		t.Fatal(err)
	}
	if v.Active[0].ID != order[0] {
		t.Fatalf("expected the rejected request to leave order alone, got %s first", v.Active[0].ID)
	}
}
