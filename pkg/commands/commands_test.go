package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"tableflip.dev/amal/pkg/app"
	"tableflip.dev/amal/pkg/model"
)

// run executes the CLI against a disk store in a temp dir and returns what
// it printed.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	prev, prevNoColor := color.Output, color.NoColor
	color.Output, color.NoColor = &buf, true
	defer func() { color.Output, color.NoColor = prev, prevNoColor }()

	output.JSON = false
	asUser = ""
	cmd := New()
	cmd.SetArgs(args)
	cmd.SetIn(&bytes.Buffer{})
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	err := cmd.Execute()
	return buf.String(), err
}

func setup(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("AMAL_CONFIG_PATH", dir)
	t.Setenv("AMAL_BACKEND", "disk")
	t.Setenv("AMAL_PATH", filepath.Join(dir, "db"))
	t.Setenv("AMAL_USER", "u1")
}

func tasks(t *testing.T) []model.Task {
	t.Helper()
	out, err := run(t, "task", "list", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var v struct {
		Active   []model.Task `json:"active"`
		Finished []model.Task `json:"finished"`
	}
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		t.Fatalf("bad json %q: %v", out, err)
	}
	return append(v.Active, v.Finished...)
}

func TestTaskAddAndDone(t *testing.T) {
	setup(t)
	out, err := run(t, "task", "add", "write", "report")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"write report"`) {
		t.Fatalf("unexpected output %q", out)
	}

	got := tasks(t)
	if len(got) != 1 || got[0].Title != "write report" {
		t.Fatalf("unexpected tasks %+v", got)
	}

	if _, err := run(t, "task", "done", got[0].ID[:6]); err != nil {
		t.Fatal(err)
	}
	got = tasks(t)
	if got[0].Status != model.StatusDone {
		t.Fatalf("expected done, got %s", got[0].Status)
	}

	out, err = run(t, "today")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "write report") {
		t.Fatalf("expected the finished task in today:\n%s", out)
	}
}

func TestTaskByTitleAndStatus(t *testing.T) {
	setup(t)
	if _, err := run(t, "task", "add", "call", "bank"); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "task", "status", "Call Bank", "waiting"); err != nil {
		t.Fatal(err)
	}
	if got := tasks(t); got[0].Status != model.StatusWaiting {
		t.Fatalf("expected waiting, got %s", got[0].Status)
	}
	if _, err := run(t, "task", "status", "call bank", "sideways"); err == nil {
		t.Fatal("expected an error for an unknown status")
	}
	_, err := run(t, "task", "done", "nothing like it")
	if !errors.Is(err, app.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRoutineValidation(t *testing.T) {
	setup(t)
	if _, err := run(t, "routine", "add", "rent", "--schedule", "monthly"); err == nil {
		t.Fatal("expected monthly without a day to fail")
	}
	if _, err := run(t, "routine", "add", "gym", "--schedule", "weekly"); err == nil {
		t.Fatal("expected weekly without days to fail")
	}
	if _, err := run(t, "routine", "add", "gym", "--schedule", "weekly", "--days", "mon,wed"); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "routine", "list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "gym") {
		t.Fatalf("expected the routine listed:\n%s", out)
	}
}

func TestAreaFilter(t *testing.T) {
	setup(t)
	if _, err := run(t, "area", "add", "work", "--color", "ocean"); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "task", "add", "deck", "--area", "work"); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "task", "add", "laundry"); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "today", "--area", "work")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "deck") || strings.Contains(out, "laundry") {
		t.Fatalf("expected only the work task:\n%s", out)
	}
}

func TestDoneNeedsTaskWithoutTerminal(t *testing.T) {
	setup(t)
	if _, err := run(t, "task", "done"); err == nil {
		t.Fatal("expected an error without a task or a terminal")
	}
}
